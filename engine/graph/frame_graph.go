package graph

import (
	"maps"
	"slices"
)

// Alias records that Source's storage now backs a range of a move target.
type Alias struct {
	Source          string
	Pass            int
	FirstSlice      uint32
	NumSlices       uint32
	MostDetailedMip uint32
	MipLevels       uint32
}

// Stats summarizes a sealed graph.
type Stats struct {
	Passes        int
	RenderPasses  int
	Subpasses     int
	ComputePasses int
	CopyPasses    int
	MovePasses    int
	CullingPasses int
	HiZPasses     int
	Queues        int
	Draws         int
	Resources     int
	Hazards       int
}

// FrameGraph is the immutable result of Builder.Seal. It is handed to the
// executor, which must run passes in order.
type FrameGraph struct {
	label   string
	passes  []Pass
	hazards []Hazard
	aliases map[string][]Alias
	names   []string
	stats   Stats
}

func newFrameGraph(b *Builder) *FrameGraph {
	fg := &FrameGraph{
		label:   b.label,
		passes:  make([]Pass, len(b.passes)),
		hazards: slices.Clone(b.hazards),
		aliases: make(map[string][]Alias, len(b.aliases)),
		names:   slices.Sorted(maps.Keys(b.resources)),
	}
	for target, list := range b.aliases {
		fg.aliases[target] = slices.Clone(list)
	}

	st := &fg.stats
	for i, p := range b.passes {
		fg.passes[i] = *p
		st.Passes++
		switch p.Kind {
		case PassRender:
			st.RenderPasses++
			st.Subpasses += len(p.Subpasses)
		case PassCompute:
			st.ComputePasses++
		case PassCopy:
			st.CopyPasses++
		case PassMove:
			st.MovePasses++
		case PassCulling:
			st.CullingPasses++
		case PassHiZ:
			st.HiZPasses++
		}
		for _, q := range p.AllQueues() {
			st.Queues++
			st.Draws += q.DrawCount()
		}
	}
	st.Resources = len(fg.names)
	st.Hazards = len(fg.hazards)
	return fg
}

// Label returns the frame label given to the builder.
func (fg *FrameGraph) Label() string {
	return fg.label
}

// Passes returns the passes in execution order.
func (fg *FrameGraph) Passes() []Pass {
	return slices.Clone(fg.passes)
}

// PassesOf returns the passes of one kind in execution order.
func (fg *FrameGraph) PassesOf(kind PassKind) []Pass {
	var out []Pass
	for _, p := range fg.passes {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// Hazards returns the non-fatal findings in declaration order.
func (fg *FrameGraph) Hazards() []Hazard {
	return slices.Clone(fg.hazards)
}

// Aliases returns, per move target, the sources now backing its slices.
func (fg *FrameGraph) Aliases() map[string][]Alias {
	out := make(map[string][]Alias, len(fg.aliases))
	for k, v := range fg.aliases {
		out[k] = slices.Clone(v)
	}
	return out
}

// ResourceNames returns every name accessed by the graph, sorted.
func (fg *FrameGraph) ResourceNames() []string {
	return slices.Clone(fg.names)
}

// Stats returns pass, queue and draw counts.
func (fg *FrameGraph) Stats() Stats {
	return fg.stats
}
