// Package profiler reports frame rate, frame-graph size and memory statistics
// through the engine logger at a fixed interval.
package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
)

// Report is the summary of one interval. Graph counts are per-frame averages.
type Report struct {
	Frames  int
	Dropped int
	FPS     float64

	Passes    float64
	Queues    float64
	Draws     float64
	Resources float64
	Hazards   int

	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	MaxPauseUs  uint64
}

// Profiler accumulates frame statistics and logs a Report every interval.
type Profiler struct {
	frameCount     int
	dropped        int
	totals         graph.Stats
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now    func() time.Time
	logger *slog.Logger
	last   Report
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick records one frame. A nil graph counts as a dropped frame.
// Statistics are logged when the update interval has elapsed.
//
// Parameters:
//   - fg: the frame's sealed graph, or nil if the frame was dropped
//
// Returns:
//   - bool: true if a report was logged this tick
func (p *Profiler) Tick(fg *graph.FrameGraph) bool {
	p.frameCount++
	if fg == nil {
		p.dropped++
	} else {
		st := fg.Stats()
		p.totals.Passes += st.Passes
		p.totals.Queues += st.Queues
		p.totals.Draws += st.Draws
		p.totals.Resources += st.Resources
		p.totals.Hazards += st.Hazards
	}

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	r := Report{
		Frames:  p.frameCount,
		Dropped: p.dropped,
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		Hazards: p.totals.Hazards,
	}
	if built := p.frameCount - p.dropped; built > 0 {
		n := float64(built)
		r.Passes = float64(p.totals.Passes) / n
		r.Queues = float64(p.totals.Queues) / n
		r.Draws = float64(p.totals.Draws) / n
		r.Resources = float64(p.totals.Resources) / n
	}
	p.readMemory(&r, elapsed)
	p.last = r

	common.Coalesce(p.logger, common.Logger()).Info("frame stats",
		"fps", r.FPS,
		"frames", r.Frames,
		"dropped", r.Dropped,
		"passes", r.Passes,
		"queues", r.Queues,
		"draws", r.Draws,
		"resources", r.Resources,
		"hazards", r.Hazards,
		"heap_mb", r.HeapMB,
		"alloc_rate_mb", r.AllocRateMB,
		"gc", r.GCCount,
		"gc_max_pause_us", r.MaxPauseUs,
	)

	p.frameCount = 0
	p.dropped = 0
	p.totals = graph.Stats{}
	p.lastTime = currentTime
	return true
}

// Last returns the most recently logged report.
func (p *Profiler) Last() Report {
	return p.last
}

func (p *Profiler) readMemory(r *Report, elapsed time.Duration) {
	runtime.ReadMemStats(&p.memStats)
	r.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	r.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	r.GCCount = gcCount
	// PauseNs is a circular buffer of the last 256 pauses.
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		r.MaxPauseUs = max(r.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
}
