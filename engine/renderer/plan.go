package renderer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNilGraph is returned when Execute is called without a sealed graph.
	ErrNilGraph = errors.New("renderer: nil frame graph")

	// ErrUnknownResource is returned when the graph names a resource the
	// registry does not hold.
	ErrUnknownResource = errors.New("renderer: unknown resource")
)

// View selects the part of a physical texture that backs one named resource.
// Moved resources resolve into the array layers of their move target.
type View struct {
	Name      string
	Texture   string
	Format    wgpu.TextureFormat
	BaseLayer uint32
	Layers    uint32
	BaseMip   uint32
	Mips      uint32
	Width     uint32
	Height    uint32
}

// Dimension returns the view dimension matching the layer count.
func (v View) Dimension() wgpu.TextureViewDimension {
	if v.Layers > 1 {
		return wgpu.TextureViewDimension2DArray
	}
	return wgpu.TextureViewDimension2D
}

// ColorTarget is one lowered color attachment.
type ColorTarget struct {
	View       View
	LoadOp     wgpu.LoadOp
	StoreOp    wgpu.StoreOp
	ClearValue wgpu.Color
}

// DepthTarget is the lowered depth-stencil attachment. Stencil ops stay
// undefined for formats without a stencil aspect.
type DepthTarget struct {
	View              View
	DepthLoadOp       wgpu.LoadOp
	DepthStoreOp      wgpu.StoreOp
	DepthClearValue   float32
	StencilLoadOp     wgpu.LoadOp
	StencilStoreOp    wgpu.StoreOp
	StencilClearValue uint32
}

// Binding is a texture or buffer bound to a shader slot.
type Binding struct {
	Slot   string
	View   View
	Access graph.AccessType
	Usage  graph.Usage
	Buffer bool
}

// TextureCopy is one lowered copy pair.
type TextureCopy struct {
	Source View
	Target View
	Size   wgpu.Extent3D
}

// Step is one unit of GPU work. Render passes with sub-passes lower into one
// step per sub-pass.
type Step struct {
	Pass    int
	Kind    graph.PassKind
	Name    string
	Subpass string

	Width       uint32
	Height      uint32
	Viewport    common.Rect
	HasViewport bool

	Colors   []ColorTarget
	Depth    *DepthTarget
	Bindings []Binding
	Queues   []*graph.Queue
	Copies   []TextureCopy

	// Culling and Hi-Z passes keep the graph payload.
	Source graph.Pass
}

// Allocation is the backing store of one physical resource.
type Allocation struct {
	Texture   *wgpu.TextureDescriptor
	Buffer    *wgpu.BufferDescriptor
	Residency resource.Residency

	// Window targets are provided by the presentation surface.
	Window bool
}

// Plan is a sealed frame graph lowered to WebGPU terms.
type Plan struct {
	Label     string
	Resources map[string]Allocation
	Steps     []Step
	Hazards   int
}

// link is one move edge from a source to the range it backs in its target.
type link struct {
	target string
	layer  uint32
	mip    uint32
}

// planner carries the alias table while one graph is lowered.
type planner struct {
	reg   resource.Registry
	links map[string]link
}

// NewPlan lowers a sealed graph into allocations and steps.
//
// Parameters:
//   - fg: the sealed frame graph
//   - reg: the registry the graph was built against
//
// Returns:
//   - *Plan: the lowered plan
//   - error: ErrNilGraph or ErrUnknownResource
func NewPlan(fg *graph.FrameGraph, reg resource.Registry) (*Plan, error) {
	if fg == nil {
		return nil, ErrNilGraph
	}
	pl := &planner{reg: reg, links: make(map[string]link)}
	for target, aliases := range fg.Aliases() {
		for _, a := range aliases {
			pl.links[a.Source] = link{target: target, layer: a.FirstSlice, mip: a.MostDetailedMip}
		}
	}

	plan := &Plan{
		Label:     fg.Label(),
		Resources: make(map[string]Allocation),
		Hazards:   len(fg.Hazards()),
	}
	for _, name := range fg.ResourceNames() {
		if err := pl.allocate(plan, name); err != nil {
			return nil, err
		}
	}

	for _, p := range fg.Passes() {
		steps, err := pl.lower(p)
		if err != nil {
			return nil, err
		}
		plan.Steps = append(plan.Steps, steps...)
	}
	return plan, nil
}

// root follows move edges to the physical resource.
func (pl *planner) root(name string) string {
	for {
		l, ok := pl.links[name]
		if !ok {
			return name
		}
		name = l.target
	}
}

// allocate records the backing store of name's physical root. A moved source
// adds its usage to the root instead of allocating.
func (pl *planner) allocate(plan *Plan, name string) error {
	desc, ok := pl.reg.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	root := pl.root(name)
	if root != name {
		rootDesc, ok := pl.reg.Get(root)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownResource, root)
		}
		a := plan.Resources[root]
		if a.Texture == nil {
			a = allocationOf(rootDesc)
		}
		if a.Texture != nil {
			if src := resource.TextureDescriptor(desc); src != nil {
				a.Texture.Usage |= src.Usage
			}
		}
		plan.Resources[root] = a
		return nil
	}
	if _, done := plan.Resources[name]; done {
		return nil
	}
	plan.Resources[name] = allocationOf(desc)
	return nil
}

// allocationOf picks the backing store for a registry descriptor. Memoryless
// targets get a per-frame attachment that sub-passes may also sample.
func allocationOf(desc resource.Descriptor) Allocation {
	a := Allocation{Residency: desc.Residency}
	switch {
	case desc.Kind.IsBuffer():
		a.Buffer = resource.BufferDescriptor(desc)
	case desc.Kind == resource.KindRenderWindow:
		a.Window = true
	case desc.Residency == resource.Memoryless:
		mem := desc
		mem.Residency = resource.Managed
		a.Texture = resource.TextureDescriptor(mem)
		a.Texture.Usage = wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding
	default:
		a.Texture = resource.TextureDescriptor(desc)
	}
	return a
}

// view resolves the whole of name, offset into its physical root.
func (pl *planner) view(name string) (View, error) {
	desc, ok := pl.reg.Get(name)
	if !ok {
		return View{}, fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	v := View{
		Name:    name,
		Texture: name,
		Format:  desc.Format,
		Layers:  desc.Layers(),
		Mips:    desc.Mips(),
		Width:   desc.Width,
		Height:  desc.Height,
	}
	for {
		l, ok := pl.links[v.Texture]
		if !ok {
			return v, nil
		}
		v.Texture = l.target
		v.BaseLayer += l.layer
		v.BaseMip += l.mip
	}
}

// access resolves the range an access touches. Attachments always select a
// single layer and mip.
func (pl *planner) access(a graph.Access) (View, error) {
	v, err := pl.view(a.Name)
	if err != nil {
		return v, err
	}
	attachment := a.Usage == graph.UsageColorAttachment || a.Usage == graph.UsageDepthStencilAttachment
	if a.Sliced || attachment {
		v.BaseLayer += a.Layer
		v.Layers = 1
	}
	if attachment {
		v.Mips = 1
	}
	return v, nil
}

func (pl *planner) lower(p graph.Pass) ([]Step, error) {
	base := Step{
		Pass:        p.Index,
		Kind:        p.Kind,
		Name:        p.Name,
		Width:       p.Width,
		Height:      p.Height,
		Viewport:    p.Viewport,
		HasViewport: p.HasViewport,
	}

	switch p.Kind {
	case graph.PassRender:
		if len(p.Subpasses) == 0 {
			s := base
			s.Queues = p.Queues
			if err := pl.attachments(&s, p.Attachments, nil); err != nil {
				return nil, err
			}
			if err := pl.bind(&s, p.Textures, p.Storage); err != nil {
				return nil, err
			}
			return []Step{s}, nil
		}
		return pl.subpasses(base, p)

	case graph.PassCopy:
		s := base
		for _, c := range p.Copies {
			tc, err := pl.copyOf(c)
			if err != nil {
				return nil, err
			}
			s.Copies = append(s.Copies, tc)
		}
		return []Step{s}, nil

	case graph.PassMove:
		// Moves resolve through the alias table and need no GPU work.
		return []Step{base}, nil

	default:
		s := base
		s.Queues = p.Queues
		s.Source = p
		if err := pl.bind(&s, p.Textures, p.Storage); err != nil {
			return nil, err
		}
		return []Step{s}, nil
	}
}

// subpasses lowers each sub-pass into its own step. Attachments read as
// inputs become bindings, and a discarded store is kept when a later
// sub-pass still reads the attachment.
func (pl *planner) subpasses(base Step, p graph.Pass) ([]Step, error) {
	steps := make([]Step, 0, len(p.Subpasses))
	for i, sp := range p.Subpasses {
		later := make(map[string]bool)
		for _, next := range p.Subpasses[i+1:] {
			for _, a := range next.Attachments {
				if a.Reads() {
					later[a.Name] = true
				}
			}
		}

		s := base
		s.Subpass = sp.Name
		s.Queues = sp.Queues
		var inputs []graph.Access
		var outputs []graph.Access
		for _, a := range sp.Attachments {
			if a.Type == graph.AccessRead {
				a.Usage = graph.UsageSampled
				inputs = append(inputs, a)
				continue
			}
			outputs = append(outputs, a)
		}
		if err := pl.attachments(&s, outputs, later); err != nil {
			return nil, err
		}
		if err := pl.bind(&s, slices.Concat(inputs, sp.Textures), nil); err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func (pl *planner) attachments(s *Step, list []graph.Access, keep map[string]bool) error {
	for _, a := range list {
		v, err := pl.access(a)
		if err != nil {
			return err
		}
		store := storeOp(a.Store)
		if keep[a.Name] {
			store = wgpu.StoreOpStore
		}
		if a.Usage == graph.UsageDepthStencilAttachment {
			d := &DepthTarget{
				View:            v,
				DepthLoadOp:     loadOp(a.Load),
				DepthStoreOp:    store,
				DepthClearValue: a.ClearDepth,
			}
			if hasStencil(v.Format) {
				d.StencilLoadOp = d.DepthLoadOp
				d.StencilStoreOp = store
				d.StencilClearValue = a.ClearStencil
			}
			s.Depth = d
			continue
		}
		s.Colors = append(s.Colors, ColorTarget{
			View:       v,
			LoadOp:     loadOp(a.Load),
			StoreOp:    store,
			ClearValue: a.ClearColor,
		})
	}
	return nil
}

func (pl *planner) bind(s *Step, textures, storage []graph.Access) error {
	for _, a := range slices.Concat(textures, storage) {
		desc, ok := pl.reg.Get(a.Name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownResource, a.Name)
		}
		b := Binding{Slot: a.Slot, Access: a.Type, Usage: a.Usage, Buffer: desc.Kind.IsBuffer()}
		if !b.Buffer {
			v, err := pl.access(a)
			if err != nil {
				return err
			}
			b.View = v
		} else {
			b.View = View{Name: a.Name, Texture: pl.root(a.Name)}
		}
		s.Bindings = append(s.Bindings, b)
	}
	return nil
}

func (pl *planner) copyOf(c graph.CopyPair) (TextureCopy, error) {
	src, err := pl.view(c.Source)
	if err != nil {
		return TextureCopy{}, err
	}
	dst, err := pl.view(c.Target)
	if err != nil {
		return TextureCopy{}, err
	}
	layers := max(c.NumSlices, 1)
	mips := max(c.MipLevels, 1)

	src.BaseLayer += c.SourceFirstSlice
	src.BaseMip += c.SourceMostDetailedMip
	src.Layers, src.Mips = layers, mips
	dst.BaseLayer += c.TargetFirstSlice
	dst.BaseMip += c.TargetMostDetailedMip
	dst.Layers, dst.Mips = layers, mips

	return TextureCopy{
		Source: src,
		Target: dst,
		Size: wgpu.Extent3D{
			Width:              max(src.Width>>c.SourceMostDetailedMip, 1),
			Height:             max(src.Height>>c.SourceMostDetailedMip, 1),
			DepthOrArrayLayers: layers,
		},
	}, nil
}

// loadOp maps a graph load op. WebGPU has no don't-care load, so discarded
// contents are cleared.
func loadOp(op graph.LoadOp) wgpu.LoadOp {
	if op == graph.LoadOpLoad {
		return wgpu.LoadOpLoad
	}
	return wgpu.LoadOpClear
}

func storeOp(op graph.StoreOp) wgpu.StoreOp {
	if op == graph.StoreOpDiscard {
		return wgpu.StoreOpDiscard
	}
	return wgpu.StoreOpStore
}

func hasStencil(format wgpu.TextureFormat) bool {
	switch format {
	case wgpu.TextureFormatStencil8,
		wgpu.TextureFormatDepth24PlusStencil8,
		wgpu.TextureFormatDepth32FloatStencil8:
		return true
	}
	return false
}
