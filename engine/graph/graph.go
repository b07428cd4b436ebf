// Package graph builds the per-frame render graph: an ordered list of typed
// passes with their resource accesses and draw queues.
//
// Passes execute in declaration order. Every read observes the most recent
// write to that name by an earlier pass of the same frame, or the previous
// frame's contents when the resource is Persistent. The builder checks these
// rules while passes are declared and reports violations when the graph is
// sealed.
package graph

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/camera"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
)

var (
	// ErrGraphSealed is returned by every Add method after Seal.
	ErrGraphSealed = errors.New("graph: already sealed")

	// ErrPassClosed is recorded when attachments or queues are added to a
	// pass that is no longer open.
	ErrPassClosed = errors.New("graph: pass closed")

	// ErrMixedSubpasses is recorded when a render pass gets both direct
	// attachments or queues and sub-passes.
	ErrMixedSubpasses = errors.New("graph: render pass mixes sub-passes with direct attachments")

	// ErrUnknownResource is recorded for accesses to names the registry does
	// not contain.
	ErrUnknownResource = errors.New("graph: unknown resource")

	// ErrUninitializedRead is a hazard: a non-persistent resource is read
	// before any pass wrote it this frame.
	ErrUninitializedRead = errors.New("graph: uninitialized resource read")

	// ErrDiscardedRead is recorded when a resource stored with StoreOpDiscard,
	// or a memoryless resource, is read outside the pass that wrote it.
	ErrDiscardedRead = errors.New("graph: read of discarded contents")

	// ErrDoubleMove is returned when a move source was already consumed.
	ErrDoubleMove = errors.New("graph: resource moved twice")

	// ErrMoveOrder is recorded when a moved-away source is accessed, or a move
	// target was accessed before the move.
	ErrMoveOrder = errors.New("graph: move out of order")

	// ErrMoveRange is recorded when a move exceeds or overlaps the target's
	// slices or mips.
	ErrMoveRange = errors.New("graph: move range invalid")

	// ErrSliceRange is recorded when a copy or sliced texture binding exceeds
	// a resource's layers or mips.
	ErrSliceRange = errors.New("graph: slice range invalid")

	// ErrMoveIncompatible is recorded when move source and target differ in
	// size or format.
	ErrMoveIncompatible = errors.New("graph: move between incompatible resources")

	// ErrUnknownCullingID is recorded for GPU-driven draws without a culling
	// pass declared earlier this frame.
	ErrUnknownCullingID = errors.New("graph: unknown culling id")

	// ErrDuplicateCullingID is recorded when two culling passes share an id.
	ErrDuplicateCullingID = errors.New("graph: duplicate culling id")

	// ErrMissingAsset is a hazard: a referenced material is not loaded and the
	// draw was skipped.
	ErrMissingAsset = errors.New("graph: missing asset")
)

// State is the builder lifecycle state.
type State int

const (
	StateBuilding State = iota
	StateSealed
)

// String returns the string representation of State.
func (s State) String() string {
	if s == StateSealed {
		return "Sealed"
	}
	return "Building"
}

// Hazard is a non-fatal finding. The frame is still rendered, possibly with
// undefined content.
type Hazard struct {
	Err      error
	Pass     string
	Resource string
}

func (h Hazard) Error() string {
	return fmt.Sprintf("%v: pass %q resource %q", h.Err, h.Pass, h.Resource)
}

func (h Hazard) Unwrap() error {
	return h.Err
}

// sliceRange is a half-open layer range moved into a target.
type sliceRange struct {
	first, count uint32
}

func (r sliceRange) overlaps(o sliceRange) bool {
	return r.first < o.first+o.count && o.first < r.first+r.count
}

// resourceState is the per-frame access history of one name.
type resourceState struct {
	written    bool
	writerPass int
	store      StoreOp

	accessed bool
	consumed bool
	movedAt  int
	movedIn  []sliceRange
}

// Builder accumulates the passes of one frame.
//
// Builder is not safe for concurrent use. Top-level Add methods return an
// error immediately; errors from pass and queue builders are sticky on the
// pass and surface from Seal.
type Builder struct {
	reg    resource.Registry
	logger *slog.Logger
	label  string

	state  State
	passes []*Pass
	open   *passBuilder

	resources  map[string]*resourceState
	cullingIDs map[uint32]int
	aliases    map[string][]Alias
	hazards    []Hazard
	errs       []error
}

// New creates a builder in the Building state.
//
// Parameters:
//   - reg: the registry every accessed name must be declared in
//   - options: functional options to configure the builder
//
// Returns:
//   - *Builder: the new builder
func New(reg resource.Registry, options ...BuilderOption) *Builder {
	if reg == nil {
		panic("graph: nil registry")
	}
	b := &Builder{
		reg:   reg,
		label: "frame",
	}
	for _, opt := range options {
		opt(b)
	}
	b.Reset()
	return b
}

// Reset discards all passes and access history and returns the builder to
// Building. The registry is kept.
func (b *Builder) Reset() {
	b.state = StateBuilding
	b.passes = nil
	b.open = nil
	b.resources = make(map[string]*resourceState)
	b.cullingIDs = make(map[uint32]int)
	b.aliases = make(map[string][]Alias)
	b.hazards = nil
	b.errs = nil
}

// SetLabel sets the frame label used in logs and on the sealed graph.
func (b *Builder) SetLabel(label string) {
	if label != "" {
		b.label = label
	}
}

// State returns the lifecycle state.
func (b *Builder) State() State {
	return b.state
}

// Registry returns the registry the builder validates against.
func (b *Builder) Registry() resource.Registry {
	return b.reg
}

// Len returns the number of passes declared so far.
func (b *Builder) Len() int {
	return len(b.passes)
}

// AddRenderPass closes the open pass and opens a new render pass.
//
// Parameters:
//   - width, height: framebuffer size in pixels
//   - layout: pipeline layout name, also the default pass name
//
// Returns:
//   - *RenderPassBuilder: builder for the new pass
//   - error: ErrGraphSealed after Seal
func (b *Builder) AddRenderPass(width, height uint32, layout string) (*RenderPassBuilder, error) {
	p, err := b.begin(PassRender, layout)
	if err != nil {
		return nil, err
	}
	p.Width = width
	p.Height = height
	pb := &passBuilder{g: b, pass: p}
	b.open = pb
	return &RenderPassBuilder{pb: pb}, nil
}

// AddComputePass closes the open pass and opens a new compute pass.
//
// Parameters:
//   - layout: pipeline layout name, also the default pass name
//
// Returns:
//   - *ComputePassBuilder: builder for the new pass
//   - error: ErrGraphSealed after Seal
func (b *Builder) AddComputePass(layout string) (*ComputePassBuilder, error) {
	p, err := b.begin(PassCompute, layout)
	if err != nil {
		return nil, err
	}
	pb := &passBuilder{g: b, pass: p}
	b.open = pb
	return &ComputePassBuilder{pb: pb}, nil
}

// AddCopyPass declares copies executed in pair order.
//
// Parameters:
//   - pairs: the copies
//
// Returns:
//   - error: ErrGraphSealed, or the first validation error
func (b *Builder) AddCopyPass(pairs []CopyPair) error {
	p, err := b.begin(PassCopy, "copy-pass")
	if err != nil {
		return err
	}
	for _, pair := range pairs {
		if err := b.copyRange(pair); err != nil {
			return b.fail(fmt.Errorf("%w: pass %q", err, p.Name))
		}
		if err := b.access(p, Access{Name: pair.Source, Type: AccessRead, Usage: UsageTransfer}); err != nil {
			return err
		}
		if err := b.access(p, Access{Name: pair.Target, Type: AccessWrite, Usage: UsageTransfer}); err != nil {
			return err
		}
	}
	p.Copies = append(p.Copies, pairs...)
	b.append(p)
	return nil
}

// AddMovePass declares moves executed in pair order. The first invalid pair
// aborts the pass; ErrDoubleMove is returned for a source that an earlier
// move already consumed.
//
// Parameters:
//   - pairs: the moves
//
// Returns:
//   - error: ErrGraphSealed, or the first validation error
func (b *Builder) AddMovePass(pairs []MovePair) error {
	p, err := b.begin(PassMove, "move-pass")
	if err != nil {
		return err
	}
	for _, pair := range pairs {
		if err := b.move(p, pair); err != nil {
			return err
		}
	}
	p.Moves = append(p.Moves, pairs...)
	b.append(p)
	return nil
}

// AddCullingPass declares the GPU occlusion culling of one camera. GPU-driven
// queues reference its visibility output by id.
//
// Parameters:
//   - id: culling id, unique within the frame
//   - cam: the culled camera
//   - hizName: the Hi-Z buffer read for occlusion tests
//   - mainPass: true for the main pass, false for the post pass
//
// Returns:
//   - error: ErrGraphSealed, ErrDuplicateCullingID or an access error
func (b *Builder) AddCullingPass(id uint32, cam camera.Camera, hizName string, mainPass bool) error {
	p, err := b.begin(PassCulling, "culling-pass")
	if err != nil {
		return err
	}
	if prev, ok := b.cullingIDs[id]; ok {
		return b.fail(fmt.Errorf("%w: %d already declared by pass %d", ErrDuplicateCullingID, id, prev))
	}
	hiz := Access{Name: hizName, Slot: "cc_hizBuffer", Type: AccessRead, Usage: UsageSampled}
	if err := b.access(p, hiz); err != nil {
		return err
	}
	p.CullingID = id
	p.Camera = cam
	p.MainPass = mainPass
	p.Textures = append(p.Textures, hiz)
	b.cullingIDs[id] = p.Index
	b.append(p)
	return nil
}

// AddHiZPass declares the Hi-Z mip chain generation from a depth buffer.
//
// Parameters:
//   - depth: the depth-stencil resource to reduce
//   - target: the storage texture receiving the mip chain
//
// Returns:
//   - error: ErrGraphSealed or an access error
func (b *Builder) AddHiZPass(depth, target string) error {
	p, err := b.begin(PassHiZ, "hiz-pass")
	if err != nil {
		return err
	}
	src := Access{Name: depth, Slot: "cc_depth", Type: AccessRead, Usage: UsageSampled}
	dst := Access{Name: target, Slot: "cc_hizBuffer", Type: AccessWrite, Usage: UsageStorage}
	if err := b.access(p, src); err != nil {
		return err
	}
	if err := b.access(p, dst); err != nil {
		return err
	}
	p.HiZSource = depth
	p.HiZTarget = target
	p.Textures = append(p.Textures, src)
	p.Storage = append(p.Storage, dst)
	b.append(p)
	return nil
}

// Seal closes the open pass and freezes the builder. Any structural error
// recorded while building drops the frame: the graph is nil and the error
// joins every recorded error.
//
// Returns:
//   - *FrameGraph: the immutable graph, nil on error
//   - error: ErrGraphSealed, or the joined structural errors
func (b *Builder) Seal() (*FrameGraph, error) {
	if b.state == StateSealed {
		return nil, ErrGraphSealed
	}
	b.closeOpen()
	b.state = StateSealed

	if len(b.errs) > 0 {
		err := errors.Join(b.errs...)
		b.log().Error("frame graph dropped", "frame", b.label, "errors", len(b.errs), "error", err)
		return nil, err
	}

	fg := newFrameGraph(b)
	b.log().Debug("frame graph sealed", "frame", b.label,
		"passes", len(fg.passes), "hazards", len(fg.hazards))
	return fg, nil
}

// begin checks the state, closes the open pass and allocates the next pass.
// The pass is not part of the graph until append.
func (b *Builder) begin(kind PassKind, layout string) (*Pass, error) {
	if b.state == StateSealed {
		return nil, fmt.Errorf("%w: add %s pass %q", ErrGraphSealed, kind, layout)
	}
	b.closeOpen()
	p := &Pass{
		Index:  len(b.passes),
		Kind:   kind,
		Layout: layout,
		Name:   common.Coalesce(layout, kind.String()),
	}
	if kind == PassRender || kind == PassCompute {
		b.append(p)
	}
	return p, nil
}

func (b *Builder) append(p *Pass) {
	if p.Index < len(b.passes) {
		return
	}
	b.passes = append(b.passes, p)
	b.log().Debug("pass declared", "frame", b.label, "pass", p.Name, "kind", p.Kind, "index", p.Index)
}

func (b *Builder) closeOpen() {
	if b.open != nil {
		b.open.closed = true
		b.open = nil
	}
}

func (b *Builder) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return common.Logger()
}

// fail records a structural error and returns it.
func (b *Builder) fail(err error) error {
	b.errs = append(b.errs, err)
	b.log().Error("frame graph error", "frame", b.label, "error", err)
	return err
}

// hazard records a non-fatal finding.
func (b *Builder) hazard(err error, pass, name string, attrs ...any) {
	b.hazards = append(b.hazards, Hazard{Err: err, Pass: pass, Resource: name})
	args := append([]any{"frame", b.label, "pass", pass, "resource", name, "hazard", err}, attrs...)
	b.log().Warn("frame graph hazard", args...)
}

func (b *Builder) stateOf(name string) *resourceState {
	st, ok := b.resources[name]
	if !ok {
		st = &resourceState{}
		b.resources[name] = st
	}
	return st
}

// access validates one access against the frame history and records it.
// Reads of discarded contents are allowed inside the writing pass, which is
// how sub-passes chain through tile memory.
func (b *Builder) access(p *Pass, a Access) error {
	desc, ok := b.reg.Get(a.Name)
	if !ok {
		return b.fail(fmt.Errorf("%w: %q in pass %q", ErrUnknownResource, a.Name, p.Name))
	}
	st := b.stateOf(a.Name)
	if st.consumed {
		return b.fail(fmt.Errorf("%w: %q accessed by pass %q after its move in pass %d",
			ErrMoveOrder, a.Name, p.Name, st.movedAt))
	}

	if a.Reads() {
		switch {
		case !st.written:
			if desc.Residency != resource.Persistent {
				b.hazard(ErrUninitializedRead, p.Name, a.Name)
			}
		case st.writerPass != p.Index && (st.store == StoreOpDiscard || desc.Residency == resource.Memoryless):
			return b.fail(fmt.Errorf("%w: %q discarded by pass %d, read by pass %q",
				ErrDiscardedRead, a.Name, st.writerPass, p.Name))
		}
	}

	if a.Writes() {
		st.written = true
		st.writerPass = p.Index
		st.store = a.Store
		if desc.Residency == resource.Memoryless {
			st.store = StoreOpDiscard
		}
	}
	st.accessed = true
	return nil
}

// move validates one move pair and transfers ownership.
func (b *Builder) move(p *Pass, m MovePair) error {
	src, ok := b.reg.Get(m.Source)
	if !ok {
		return b.fail(fmt.Errorf("%w: move source %q", ErrUnknownResource, m.Source))
	}
	dst, ok := b.reg.Get(m.Target)
	if !ok {
		return b.fail(fmt.Errorf("%w: move target %q", ErrUnknownResource, m.Target))
	}

	srcState := b.stateOf(m.Source)
	if srcState.consumed {
		return b.fail(fmt.Errorf("%w: %q already moved in pass %d", ErrDoubleMove, m.Source, srcState.movedAt))
	}
	dstState := b.stateOf(m.Target)
	if dstState.consumed {
		return b.fail(fmt.Errorf("%w: move target %q was moved away in pass %d",
			ErrMoveOrder, m.Target, dstState.movedAt))
	}
	if dstState.accessed {
		return b.fail(fmt.Errorf("%w: move target %q accessed before the move", ErrMoveOrder, m.Target))
	}
	if src.Width != dst.Width || src.Height != dst.Height || src.Format != dst.Format {
		return b.fail(fmt.Errorf("%w: %q (%dx%d %v) into %q (%dx%d %v)", ErrMoveIncompatible,
			m.Source, src.Width, src.Height, src.Format, m.Target, dst.Width, dst.Height, dst.Format))
	}

	slices := m.NumSlices
	if slices == 0 {
		slices = src.Layers()
	}
	mips := m.MipLevels
	if mips == 0 {
		mips = src.Mips()
	}
	r := sliceRange{first: m.TargetFirstSlice, count: slices}
	switch {
	case slices > src.Layers():
		return b.fail(fmt.Errorf("%w: %d slices from %q with %d layers", ErrMoveRange, slices, m.Source, src.Layers()))
	case mips > src.Mips():
		return b.fail(fmt.Errorf("%w: %d mips from %q with %d levels", ErrMoveRange, mips, m.Source, src.Mips()))
	case r.first+r.count > dst.Layers():
		return b.fail(fmt.Errorf("%w: slices [%d,%d) of %q with %d layers",
			ErrMoveRange, r.first, r.first+r.count, m.Target, dst.Layers()))
	case m.TargetMostDetailedMip+mips > dst.Mips():
		return b.fail(fmt.Errorf("%w: mips [%d,%d) of %q with %d levels",
			ErrMoveRange, m.TargetMostDetailedMip, m.TargetMostDetailedMip+mips, m.Target, dst.Mips()))
	}
	for _, prev := range dstState.movedIn {
		if prev.overlaps(r) {
			return b.fail(fmt.Errorf("%w: slices [%d,%d) of %q already filled",
				ErrMoveRange, r.first, r.first+r.count, m.Target))
		}
	}

	// The move reads the source like any other access.
	if srcState.written && srcState.store == StoreOpDiscard {
		return b.fail(fmt.Errorf("%w: move source %q discarded by pass %d",
			ErrDiscardedRead, m.Source, srcState.writerPass))
	}
	if !srcState.written && src.Residency != resource.Persistent {
		b.hazard(ErrUninitializedRead, p.Name, m.Source)
	}

	srcState.consumed = true
	srcState.movedAt = p.Index
	dstState.movedIn = append(dstState.movedIn, r)
	dstState.written = true
	dstState.writerPass = p.Index
	dstState.store = StoreOpStore

	b.aliases[m.Target] = append(b.aliases[m.Target], Alias{
		Source:          m.Source,
		Pass:            p.Index,
		FirstSlice:      r.first,
		NumSlices:       r.count,
		MostDetailedMip: m.TargetMostDetailedMip,
		MipLevels:       mips,
	})
	return nil
}

func (b *Builder) copyRange(c CopyPair) error {
	src, ok := b.reg.Get(c.Source)
	if !ok {
		return fmt.Errorf("%w: copy source %q", ErrUnknownResource, c.Source)
	}
	dst, ok := b.reg.Get(c.Target)
	if !ok {
		return fmt.Errorf("%w: copy target %q", ErrUnknownResource, c.Target)
	}
	slices := max(c.NumSlices, 1)
	mips := max(c.MipLevels, 1)
	if src.Kind.IsBuffer() || dst.Kind.IsBuffer() {
		return nil
	}
	switch {
	case c.SourceFirstSlice+slices > src.Layers(), c.TargetFirstSlice+slices > dst.Layers():
		return fmt.Errorf("%w: %d slices from %q[%d] into %q[%d]",
			ErrSliceRange, slices, c.Source, c.SourceFirstSlice, c.Target, c.TargetFirstSlice)
	case c.SourceMostDetailedMip+mips > src.Mips(), c.TargetMostDetailedMip+mips > dst.Mips():
		return fmt.Errorf("%w: %d mips from %q[%d] into %q[%d]",
			ErrSliceRange, mips, c.Source, c.SourceMostDetailedMip, c.Target, c.TargetMostDetailedMip)
	}
	return nil
}
