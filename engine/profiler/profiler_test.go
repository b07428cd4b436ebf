package profiler

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func frame(t *testing.T) *graph.FrameGraph {
	t.Helper()
	reg := resource.NewRegistry()
	if _, err := resource.DeclareRenderWindow(reg, "Color0", wgpu.TextureFormatBGRA8Unorm, 64, 64); err != nil {
		t.Fatalf("DeclareRenderWindow() error = %v", err)
	}
	b := graph.New(reg)
	rp, err := b.AddRenderPass(64, 64, "forward")
	if err != nil {
		t.Fatalf("AddRenderPass() error = %v", err)
	}
	rp.AddRenderTarget("Color0", graph.LoadOpClear, graph.StoreOpStore, wgpu.Color{A: 1})
	rp.AddQueue(graph.QueueHintNone, "opaque")
	rp.AddQueue(graph.QueueHintBlend, "blend")
	fg, err := b.Seal()
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	return fg
}

func TestTickReportsPerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var buf bytes.Buffer
	p := NewProfiler(
		WithClock(clock.now),
		WithInterval(time.Second),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)
	fg := frame(t)

	for range 3 {
		clock.t = clock.t.Add(200 * time.Millisecond)
		if p.Tick(fg) {
			t.Fatal("Tick() reported before the interval elapsed")
		}
	}
	clock.t = clock.t.Add(400 * time.Millisecond)
	if !p.Tick(nil) {
		t.Fatal("Tick() did not report after the interval elapsed")
	}

	r := p.Last()
	if r.Frames != 4 || r.Dropped != 1 {
		t.Errorf("Frames, Dropped = %d, %d, want 4, 1", r.Frames, r.Dropped)
	}
	if r.FPS != 4 {
		t.Errorf("FPS = %v, want 4", r.FPS)
	}
	if r.Passes != 1 || r.Queues != 2 || r.Resources != 1 {
		t.Errorf("averages = %+v, want 1 pass, 2 queues, 1 resource", r)
	}
	if !strings.Contains(buf.String(), "frame stats") {
		t.Errorf("log output = %q, want a frame stats record", buf.String())
	}

	clock.t = clock.t.Add(100 * time.Millisecond)
	if p.Tick(fg) {
		t.Error("Tick() reported right after a reset")
	}
}
