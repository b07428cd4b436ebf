package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
)

func TestRecordingRenderer(t *testing.T) {
	backend := NewRecordingBackend()
	r, err := NewRenderer(BackendTypeRecording, nil, WithBackend(backend), WithPresentMode(PresentModeVSync))
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	if r.LastPlan() != nil {
		t.Error("LastPlan() before the first frame != nil")
	}

	reg := testRegistry(t)
	b := graph.New(reg, graph.WithLabel("frame-0"))
	rp, _ := b.AddRenderPass(64, 64, "forward")
	rp.AddRenderTarget("Color", graph.LoadOpClear, graph.StoreOpStore, black)
	fg := seal(t, b)

	if err := r.Execute(fg, reg); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	plans := backend.Plans()
	if len(plans) != 1 || plans[0].Label != "frame-0" {
		t.Fatalf("Plans() = %+v, want one frame-0 plan", plans)
	}
	if r.LastPlan() != plans[0] {
		t.Error("LastPlan() is not the submitted plan")
	}

	r.Resize(800, 600)
	if w, h := backend.Size(); w != 800 || h != 600 {
		t.Errorf("Size() = %dx%d, want 800x600", w, h)
	}
}

func TestExecuteRejectsBadInput(t *testing.T) {
	backend := NewRecordingBackend()
	r, _ := NewRenderer(BackendTypeRecording, nil, WithBackend(backend))

	tests := []struct {
		name    string
		fg      func(t *testing.T) *graph.FrameGraph
		reg     resource.Registry
		wantErr error
	}{
		{
			name:    "nil graph",
			fg:      func(*testing.T) *graph.FrameGraph { return nil },
			reg:     resource.NewRegistry(),
			wantErr: ErrNilGraph,
		},
		{
			name: "foreign registry",
			fg: func(t *testing.T) *graph.FrameGraph {
				b := graph.New(testRegistry(t))
				rp, _ := b.AddRenderPass(64, 64, "forward")
				rp.AddRenderTarget("Result", graph.LoadOpClear, graph.StoreOpStore, black)
				return seal(t, b)
			},
			reg:     resource.NewRegistry(),
			wantErr: ErrUnknownResource,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Execute(tt.fg(t), tt.reg); !errors.Is(err, tt.wantErr) {
				t.Errorf("Execute() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if got := len(backend.Plans()); got != 0 {
		t.Errorf("len(Plans()) = %d, want nothing submitted", got)
	}
}

func TestWGPUBackendNeedsSurface(t *testing.T) {
	if _, err := NewRenderer(BackendTypeWGPU, nil); !errors.Is(err, ErrNoSurface) {
		t.Errorf("NewRenderer(nil surface) error = %v, want ErrNoSurface", err)
	}
}
