package graph

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// passBuilder is the state shared by render, sub-pass, compute and queue
// builders of one pass. Its error is sticky: after the first failure every
// further call is a no-op.
type passBuilder struct {
	g      *Builder
	pass   *Pass
	closed bool
	err    error
}

// usable reports whether the pass still accepts declarations, recording
// ErrPassClosed the first time a closed pass is touched.
func (pb *passBuilder) usable() bool {
	if pb.err != nil {
		return false
	}
	if pb.closed {
		pb.stick(fmt.Errorf("%w: %q (%s) after a later pass was added", ErrPassClosed, pb.pass.Name, pb.pass.Kind))
		return false
	}
	return true
}

func (pb *passBuilder) stick(err error) {
	if pb.err != nil {
		return
	}
	pb.err = err
	if pb.g.state == StateSealed {
		pb.g.log().Error("declaration on sealed frame graph", "pass", pb.pass.Name, "error", err)
		return
	}
	pb.g.fail(err)
}

// declare validates and records an access. Failures are already recorded
// on the builder, so only the sticky error is set here.
func (pb *passBuilder) declare(a Access) bool {
	if err := pb.g.access(pb.pass, a); err != nil {
		pb.err = err
		return false
	}
	return true
}

func (pb *passBuilder) addQueue(hint QueueHint, name string) *Queue {
	return &Queue{Hint: hint, Name: common.Coalesce(name, hint.String()), owner: pb}
}

// RenderPassBuilder declares the attachments, sampled textures and queues of
// one render pass. Methods return the builder for chaining; errors are sticky
// and reported by Err and Seal.
type RenderPassBuilder struct {
	pb *passBuilder
}

// Pass returns the pass being built.
func (rp *RenderPassBuilder) Pass() *Pass {
	return rp.pb.pass
}

// Err returns the first error recorded on this pass.
func (rp *RenderPassBuilder) Err() error {
	return rp.pb.err
}

// SetName sets the debug name of the pass.
func (rp *RenderPassBuilder) SetName(name string) *RenderPassBuilder {
	if rp.pb.usable() {
		rp.pb.pass.Name = common.Coalesce(name, rp.pb.pass.Name)
	}
	return rp
}

// SetViewport sets the pass viewport in pixels.
func (rp *RenderPassBuilder) SetViewport(vp common.Rect) *RenderPassBuilder {
	if rp.pb.usable() {
		rp.pb.pass.Viewport = vp
		rp.pb.pass.HasViewport = true
	}
	return rp
}

// AddRenderTarget adds a color attachment. A Load op reads the previous
// contents; Clear and Discard only write.
//
// Parameters:
//   - name: registered resource name
//   - load: load op
//   - store: store op
//   - clear: clear color used with LoadOpClear
//
// Returns:
//   - *RenderPassBuilder: the builder, for chaining
func (rp *RenderPassBuilder) AddRenderTarget(name string, load LoadOp, store StoreOp, clear wgpu.Color) *RenderPassBuilder {
	return rp.addAttachment(Access{
		Name:       name,
		Slot:       "_",
		Type:       writeAccess(load),
		Usage:      UsageColorAttachment,
		Load:       load,
		Store:      store,
		ClearColor: clear,
	})
}

// AddDepthStencil adds the depth-stencil attachment.
//
// Parameters:
//   - name: registered resource name
//   - load: load op
//   - store: store op
//   - depth: depth clear value
//   - stencil: stencil clear value
//
// Returns:
//   - *RenderPassBuilder: the builder, for chaining
func (rp *RenderPassBuilder) AddDepthStencil(name string, load LoadOp, store StoreOp, depth float32, stencil uint32) *RenderPassBuilder {
	return rp.addAttachment(Access{
		Name:         name,
		Slot:         "_",
		Type:         writeAccess(load),
		Usage:        UsageDepthStencilAttachment,
		Load:         load,
		Store:        store,
		ClearDepth:   depth,
		ClearStencil: stencil,
	})
}

// AddTexture samples a resource in every draw of the pass.
//
// Parameters:
//   - name: registered resource name
//   - slot: shader binding name
//
// Returns:
//   - *RenderPassBuilder: the builder, for chaining
func (rp *RenderPassBuilder) AddTexture(name, slot string) *RenderPassBuilder {
	return rp.addTexture(Access{Name: name, Slot: slot, Type: AccessRead, Usage: UsageSampled})
}

// AddTextureSlice samples one array layer of a resource.
//
// Parameters:
//   - name: registered resource name
//   - slot: shader binding name
//   - layer: the array layer
//
// Returns:
//   - *RenderPassBuilder: the builder, for chaining
func (rp *RenderPassBuilder) AddTextureSlice(name, slot string, layer uint32) *RenderPassBuilder {
	if rp.pb.usable() {
		if desc, ok := rp.pb.g.reg.Get(name); ok && layer >= desc.Layers() {
			rp.pb.stick(fmt.Errorf("%w: layer %d of %q with %d layers in pass %q",
				ErrSliceRange, layer, name, desc.Layers(), rp.pb.pass.Name))
			return rp
		}
	}
	return rp.addTexture(Access{Name: name, Slot: slot, Type: AccessRead, Usage: UsageSampled, Layer: layer, Sliced: true})
}

// AddQueue appends a draw queue to the pass.
//
// Parameters:
//   - hint: draw-order hint
//   - name: debug label, defaults to the hint
//
// Returns:
//   - *Queue: the new queue; detached if the pass is closed
func (rp *RenderPassBuilder) AddQueue(hint QueueHint, name string) *Queue {
	q := rp.pb.addQueue(hint, name)
	if !rp.pb.usable() || !rp.direct() {
		return q
	}
	rp.pb.pass.Queues = append(rp.pb.pass.Queues, q)
	return q
}

// AddRenderSubpass appends a sub-pass. Sub-passes share framebuffer-local
// attachments, so a later sub-pass may read what an earlier one stored with
// StoreOpDiscard.
//
// Parameters:
//   - name: sub-pass layout name
//
// Returns:
//   - *SubpassBuilder: builder for the new sub-pass
func (rp *RenderPassBuilder) AddRenderSubpass(name string) *SubpassBuilder {
	sb := &SubpassBuilder{pb: rp.pb, index: -1}
	if !rp.pb.usable() {
		return sb
	}
	p := rp.pb.pass
	if len(p.Attachments) > 0 || len(p.Queues) > 0 {
		rp.pb.stick(fmt.Errorf("%w: %q", ErrMixedSubpasses, p.Name))
		return sb
	}
	p.Subpasses = append(p.Subpasses, Subpass{Name: common.Coalesce(name, fmt.Sprintf("subpass-%d", len(p.Subpasses)))})
	sb.index = len(p.Subpasses) - 1
	return sb
}

// direct reports whether direct attachments and queues are allowed,
// recording ErrMixedSubpasses otherwise.
func (rp *RenderPassBuilder) direct() bool {
	if len(rp.pb.pass.Subpasses) > 0 {
		rp.pb.stick(fmt.Errorf("%w: %q", ErrMixedSubpasses, rp.pb.pass.Name))
		return false
	}
	return true
}

func (rp *RenderPassBuilder) addAttachment(a Access) *RenderPassBuilder {
	if !rp.pb.usable() || !rp.direct() {
		return rp
	}
	if rp.pb.declare(a) {
		rp.pb.pass.Attachments = append(rp.pb.pass.Attachments, a)
	}
	return rp
}

func (rp *RenderPassBuilder) addTexture(a Access) *RenderPassBuilder {
	if !rp.pb.usable() {
		return rp
	}
	if rp.pb.declare(a) {
		rp.pb.pass.Textures = append(rp.pb.pass.Textures, a)
	}
	return rp
}

// SubpassBuilder declares the attachments and queues of one sub-pass.
type SubpassBuilder struct {
	pb    *passBuilder
	index int
}

// Err returns the first error recorded on the owning pass.
func (sb *SubpassBuilder) Err() error {
	return sb.pb.err
}

// AddRenderTarget adds a color attachment to the sub-pass.
//
// Parameters:
//   - name: registered resource name
//   - access: read, write or read-write
//   - slot: alias name binding a read to an earlier sub-pass's write
//   - load: load op
//   - store: store op
//   - clear: clear color used with LoadOpClear
//
// Returns:
//   - *SubpassBuilder: the builder, for chaining
func (sb *SubpassBuilder) AddRenderTarget(name string, access AccessType, slot string, load LoadOp, store StoreOp, clear wgpu.Color) *SubpassBuilder {
	return sb.addAttachment(Access{
		Name:       name,
		Slot:       common.Coalesce(slot, "_"),
		Type:       access,
		Usage:      UsageColorAttachment,
		Load:       load,
		Store:      store,
		ClearColor: clear,
	})
}

// AddDepthStencil adds a depth-stencil attachment to the sub-pass.
//
// Parameters:
//   - name: registered resource name
//   - access: read, write or read-write
//   - slot: alias name
//   - load: load op
//   - store: store op
//   - depth: depth clear value
//   - stencil: stencil clear value
//
// Returns:
//   - *SubpassBuilder: the builder, for chaining
func (sb *SubpassBuilder) AddDepthStencil(name string, access AccessType, slot string, load LoadOp, store StoreOp, depth float32, stencil uint32) *SubpassBuilder {
	return sb.addAttachment(Access{
		Name:         name,
		Slot:         common.Coalesce(slot, "_"),
		Type:         access,
		Usage:        UsageDepthStencilAttachment,
		Load:         load,
		Store:        store,
		ClearDepth:   depth,
		ClearStencil: stencil,
	})
}

// AddTexture samples a resource in the sub-pass.
func (sb *SubpassBuilder) AddTexture(name, slot string) *SubpassBuilder {
	if !sb.valid() {
		return sb
	}
	a := Access{Name: name, Slot: slot, Type: AccessRead, Usage: UsageSampled}
	if sb.pb.declare(a) {
		sp := &sb.pb.pass.Subpasses[sb.index]
		sp.Textures = append(sp.Textures, a)
	}
	return sb
}

// AddQueue appends a draw queue to the sub-pass.
//
// Parameters:
//   - hint: draw-order hint
//   - name: debug label, defaults to the hint
//
// Returns:
//   - *Queue: the new queue; detached if the pass is closed
func (sb *SubpassBuilder) AddQueue(hint QueueHint, name string) *Queue {
	q := sb.pb.addQueue(hint, name)
	if !sb.valid() {
		return q
	}
	sp := &sb.pb.pass.Subpasses[sb.index]
	sp.Queues = append(sp.Queues, q)
	return q
}

func (sb *SubpassBuilder) valid() bool {
	return sb.pb.usable() && sb.index >= 0
}

func (sb *SubpassBuilder) addAttachment(a Access) *SubpassBuilder {
	if !sb.valid() {
		return sb
	}
	if sb.pb.declare(a) {
		sp := &sb.pb.pass.Subpasses[sb.index]
		sp.Attachments = append(sp.Attachments, a)
	}
	return sb
}

// ComputePassBuilder declares the resources and dispatch queues of one
// compute pass.
type ComputePassBuilder struct {
	pb *passBuilder
}

// Pass returns the pass being built.
func (cp *ComputePassBuilder) Pass() *Pass {
	return cp.pb.pass
}

// Err returns the first error recorded on this pass.
func (cp *ComputePassBuilder) Err() error {
	return cp.pb.err
}

// SetName sets the debug name of the pass.
func (cp *ComputePassBuilder) SetName(name string) *ComputePassBuilder {
	if cp.pb.usable() {
		cp.pb.pass.Name = common.Coalesce(name, cp.pb.pass.Name)
	}
	return cp
}

// AddTexture samples a resource.
func (cp *ComputePassBuilder) AddTexture(name, slot string) *ComputePassBuilder {
	return cp.add(&cp.pb.pass.Textures, Access{Name: name, Slot: slot, Type: AccessRead, Usage: UsageSampled})
}

// AddStorageImage binds a storage texture.
//
// Parameters:
//   - name: registered resource name
//   - access: read, write or read-write
//   - slot: shader binding name
//
// Returns:
//   - *ComputePassBuilder: the builder, for chaining
func (cp *ComputePassBuilder) AddStorageImage(name string, access AccessType, slot string) *ComputePassBuilder {
	return cp.add(&cp.pb.pass.Storage, Access{Name: name, Slot: slot, Type: access, Usage: UsageStorage})
}

// AddStorageBuffer binds a storage buffer.
//
// Parameters:
//   - name: registered resource name
//   - access: read, write or read-write
//   - slot: shader binding name
//
// Returns:
//   - *ComputePassBuilder: the builder, for chaining
func (cp *ComputePassBuilder) AddStorageBuffer(name string, access AccessType, slot string) *ComputePassBuilder {
	return cp.add(&cp.pb.pass.Storage, Access{Name: name, Slot: slot, Type: access, Usage: UsageStorage})
}

// AddQueue appends a dispatch queue to the pass.
func (cp *ComputePassBuilder) AddQueue(hint QueueHint, name string) *Queue {
	q := cp.pb.addQueue(hint, name)
	if cp.pb.usable() {
		cp.pb.pass.Queues = append(cp.pb.pass.Queues, q)
	}
	return q
}

func (cp *ComputePassBuilder) add(dst *[]Access, a Access) *ComputePassBuilder {
	if !cp.pb.usable() {
		return cp
	}
	if cp.pb.declare(a) {
		*dst = append(*dst, a)
	}
	return cp
}

// writeAccess maps a load op to the access type of a direct attachment.
func writeAccess(load LoadOp) AccessType {
	if load == LoadOpLoad {
		return AccessReadWrite
	}
	return AccessWrite
}
