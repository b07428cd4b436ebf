package graph

import (
	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
)

// PassKind is the closed set of pass variants.
type PassKind int

const (
	PassRender PassKind = iota
	PassCompute
	PassCopy
	PassMove
	PassCulling
	PassHiZ
)

// String returns the string representation of PassKind.
func (k PassKind) String() string {
	switch k {
	case PassRender:
		return "render"
	case PassCompute:
		return "compute"
	case PassCopy:
		return "copy"
	case PassMove:
		return "move"
	case PassCulling:
		return "culling"
	case PassHiZ:
		return "hiz"
	default:
		return "unknown"
	}
}

// AccessType is how a pass touches a resource.
type AccessType int

const (
	AccessRead AccessType = iota
	AccessWrite
	AccessReadWrite
)

// String returns the string representation of AccessType.
func (a AccessType) String() string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessReadWrite:
		return "read-write"
	default:
		return "unknown"
	}
}

// LoadOp is what an attachment holds when the pass starts.
type LoadOp int

const (
	LoadOpLoad LoadOp = iota
	LoadOpClear
	// LoadOpDiscard leaves the initial contents undefined.
	LoadOpDiscard
)

// StoreOp is what happens to an attachment when the pass ends.
type StoreOp int

const (
	StoreOpStore StoreOp = iota
	// StoreOpDiscard keeps the contents in tile memory only. Later passes
	// must not read them.
	StoreOpDiscard
)

// Usage is the binding point of an access.
type Usage int

const (
	UsageColorAttachment Usage = iota
	UsageDepthStencilAttachment
	UsageSampled
	UsageStorage
	UsageTransfer
)

// Access is one resource access declared by a pass.
type Access struct {
	Name  string
	Slot  string
	Type  AccessType
	Usage Usage

	Load  LoadOp
	Store StoreOp

	ClearColor   wgpu.Color
	ClearDepth   float32
	ClearStencil uint32

	// Layer selects one array layer when Sliced is set.
	Layer  uint32
	Sliced bool
}

// Reads reports whether the access observes earlier contents. A write-only
// attachment still reads when it loads.
func (a Access) Reads() bool {
	if a.Type != AccessWrite {
		return true
	}
	attachment := a.Usage == UsageColorAttachment || a.Usage == UsageDepthStencilAttachment
	return attachment && a.Load == LoadOpLoad
}

// Writes reports whether the access produces new contents.
func (a Access) Writes() bool {
	return a.Type != AccessRead
}

// Subpass is one phase of a render pass sharing its framebuffer-local
// attachments.
type Subpass struct {
	Name        string
	Attachments []Access
	Textures    []Access
	Queues      []*Queue
}

// CopyPair duplicates a source sub-region into a target sub-region.
type CopyPair struct {
	Source string
	Target string

	MipLevels uint32
	NumSlices uint32

	SourceMostDetailedMip uint32
	SourceFirstSlice      uint32
	SourcePlaneSlice      uint32

	TargetMostDetailedMip uint32
	TargetFirstSlice      uint32
	TargetPlaneSlice      uint32
}

// MovePair hands the storage of Source to a sub-range of Target. Source is
// consumed and may not be accessed afterwards in the same frame.
type MovePair struct {
	Source string
	Target string

	// MipLevels and NumSlices default to the whole source when 0.
	MipLevels uint32
	NumSlices uint32

	TargetMostDetailedMip uint32
	TargetFirstSlice      uint32
	TargetPlaneSlice      uint32
}

// Pass is one node of the frame graph. Which payload fields are set depends
// on Kind.
type Pass struct {
	Index  int
	Kind   PassKind
	Name   string
	Layout string

	// Render passes.
	Width       uint32
	Height      uint32
	Viewport    common.Rect
	HasViewport bool
	Attachments []Access
	Subpasses   []Subpass

	// Render and compute passes.
	Textures []Access
	Storage  []Access
	Queues   []*Queue

	Copies []CopyPair
	Moves  []MovePair

	// Culling passes.
	CullingID uint32
	Camera    camera.Camera
	MainPass  bool

	// Hi-Z passes.
	HiZSource string
	HiZTarget string
}

// QueueCount returns the number of queues including those of sub-passes.
func (p *Pass) QueueCount() int {
	n := len(p.Queues)
	for _, sp := range p.Subpasses {
		n += len(sp.Queues)
	}
	return n
}

// AllQueues returns the pass queues followed by sub-pass queues in order.
func (p *Pass) AllQueues() []*Queue {
	out := append([]*Queue(nil), p.Queues...)
	for _, sp := range p.Subpasses {
		out = append(out, sp.Queues...)
	}
	return out
}

// AllAttachments returns the direct attachments, or the attachments of every
// sub-pass with later sub-passes overriding earlier ones of the same name.
func (p *Pass) AllAttachments() []Access {
	if len(p.Subpasses) == 0 {
		return p.Attachments
	}
	index := make(map[string]int)
	var out []Access
	for _, sp := range p.Subpasses {
		for _, a := range sp.Attachments {
			if i, ok := index[a.Name]; ok {
				// First load op and last store op win.
				a.Load = out[i].Load
				a.ClearColor = out[i].ClearColor
				a.ClearDepth = out[i].ClearDepth
				a.ClearStencil = out[i].ClearStencil
				out[i] = a
				continue
			}
			index[a.Name] = len(out)
			out = append(out, a)
		}
	}
	return out
}
