package engine

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-framegraph/engine/camera"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/pipeline"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/platform"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/profiler"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/renderer"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables frame statistics logging.
//
// Parameters:
//   - enabled: if true, enables profiling
//   - options: profiler options, such as the reporting interval
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool, options ...profiler.ProfilerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
		if len(options) > 0 {
			e.profiler = profiler.NewProfiler(options...)
		}
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithWindow sets the window whose message loop Run drives. Its size is
// also forwarded to executors that own a surface.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w platform.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithCamera registers a camera at the given key during engine construction.
//
// Parameters:
//   - key: the ordering key (lower is set up first)
//   - cam: the Camera to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(key int, cam camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.cameras[key] = cam
	}
}

// WithBuilder sets the pipeline builder run every frame.
//
// Parameters:
//   - b: the pipeline builder
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBuilder(b pipeline.Builder) EngineBuilderOption {
	return func(e *engine) {
		e.builder = b
	}
}

// WithExecutor sets the executor that receives each sealed graph.
//
// Parameters:
//   - x: the executor
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithExecutor(x renderer.Executor) EngineBuilderOption {
	return func(e *engine) {
		e.executor = x
	}
}

// WithContext uses an existing pipeline context instead of creating one.
//
// Parameters:
//   - ctx: the pipeline context
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithContext(ctx *pipeline.Context) EngineBuilderOption {
	return func(e *engine) {
		e.ctx = ctx
	}
}

// WithContextOptions configures the pipeline context the engine creates.
// Ignored when WithContext is given.
//
// Parameters:
//   - options: the context options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithContextOptions(options ...pipeline.ContextBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.contextOptions = append(e.contextOptions, options...)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}

// WithLogger overrides the engine logger for frame driver messages.
//
// Parameters:
//   - l: the logger to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(l *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = l
	}
}
