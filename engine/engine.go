// Package engine drives frames: each frame collects the registered cameras,
// builds the frame graph through the pipeline context and hands the sealed
// graph to the executor.
package engine

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/camera"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/pipeline"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/platform"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/profiler"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/renderer"
)

// resizer is implemented by executors that own a presentation surface.
type resizer interface {
	Resize(width, height int)
}

// engine implements the Engine interface.
// Coordinates the tick and render goroutines with the window message loop.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window platform.Window

	ctx            *pipeline.Context
	contextOptions []pipeline.ContextBuilderOption
	builder        pipeline.Builder
	executor       renderer.Executor
	cameras        map[int]camera.Camera

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	surfaceWidth  int
	surfaceHeight int
	logger        *slog.Logger
}

// Engine is the host-side frame driver.
type Engine interface {
	// Frame builds and executes one frame from the registered cameras in
	// ascending key order. Cameras without a scene or window are skipped.
	//
	// Returns:
	//   - *graph.FrameGraph: the sealed graph, nil if the frame was dropped
	//   - error: the builder, seal or executor error
	Frame() (*graph.FrameGraph, error)

	// Context returns the process-wide pipeline context.
	//
	// Returns:
	//   - *pipeline.Context: the context
	Context() *pipeline.Context

	// Window returns the window driven by Run, or nil.
	//
	// Returns:
	//   - platform.Window: the window instance
	Window() platform.Window

	// SetBuilder replaces the pipeline builder used from the next frame on.
	//
	// Parameters:
	//   - b: the builder
	SetBuilder(b pipeline.Builder)

	// SetExecutor replaces the executor. A nil executor only builds graphs.
	//
	// Parameters:
	//   - x: the executor
	SetExecutor(x renderer.Executor)

	// AddCamera registers a camera at the given key. Cameras are set up in
	// ascending key order.
	//
	// Parameters:
	//   - key: the ordering key
	//   - cam: the Camera to register
	AddCamera(key int, cam camera.Camera)

	// RemoveCamera removes the camera at the given key.
	//
	// Parameters:
	//   - key: the ordering key of the camera to remove
	RemoveCamera(key int)

	// Camera retrieves the camera registered at the given key.
	//
	// Parameters:
	//   - key: the ordering key
	//
	// Returns:
	//   - camera.Camera: the camera at the key, or nil if not found
	Camera(key int) camera.Camera

	// Cameras returns the registered cameras in ascending key order.
	//
	// Returns:
	//   - []camera.Camera: the cameras
	Cameras() []camera.Camera

	// EnableProfiler enables frame statistics logging.
	EnableProfiler()

	// DisableProfiler disables frame statistics logging.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the tick and render loops and blocks in the window message
	// loop until the window closes.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// The pipeline context is created after the options are applied so context
// options can be passed through WithContextOptions.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		cameras:         make(map[int]camera.Camera),
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.ctx == nil {
		e.ctx = pipeline.NewContext(e.contextOptions...)
	}
	return e
}

func (e *engine) Frame() (*graph.FrameGraph, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resizeSurface()
	fg, err := e.ctx.Setup(e.sortedCameras(), e.builder)
	if err == nil && e.executor != nil {
		err = e.executor.Execute(fg, e.ctx.Registry())
	}
	if err != nil {
		e.log().Error("frame dropped", "frame", e.ctx.Frame(), "err", err)
		fg = nil
	}
	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(fg)
	}
	return fg, err
}

// resizeSurface reconfigures the executor's surface when the window size
// changed since the last frame.
func (e *engine) resizeSurface() {
	r, ok := e.executor.(resizer)
	if !ok || e.window == nil {
		return
	}
	w, h := e.window.Width(), e.window.Height()
	if w == e.surfaceWidth && h == e.surfaceHeight {
		return
	}
	e.surfaceWidth, e.surfaceHeight = w, h
	r.Resize(w, h)
	e.log().Info("surface resized", "width", w, "height", h)
}

func (e *engine) sortedCameras() []camera.Camera {
	keys := make([]int, 0, len(e.cameras))
	for k := range e.cameras {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]camera.Camera, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.cameras[k])
	}
	return out
}

func (e *engine) Context() *pipeline.Context {
	return e.ctx
}

func (e *engine) Window() platform.Window {
	return e.window
}

func (e *engine) SetBuilder(b pipeline.Builder) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.builder = b
}

func (e *engine) SetExecutor(x renderer.Executor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executor = x
}

func (e *engine) Run() {
	if e.window == nil {
		e.log().Error("engine has no window to run")
		return
	}
	e.running = true
	e.handle()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the render loop in its own goroutine, one frame graph per
// iteration. Recovers from panics and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.log().Error("render goroutine recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			// Dropped frames are logged by Frame; the loop keeps going.
			_, _ = e.Frame()

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// EnableProfiler enables frame statistics logging.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables frame statistics logging.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if !e.running {
		e.engineTickRate = newRate
		return
	}
	// Non-blocking send; a pending update is replaced.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}

func (e *engine) AddCamera(key int, cam camera.Camera) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cameras[key] = cam
}

func (e *engine) RemoveCamera(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.cameras, key)
}

func (e *engine) Camera(key int) camera.Camera {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cameras[key]
}

func (e *engine) Cameras() []camera.Camera {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortedCameras()
}

func (e *engine) log() *slog.Logger {
	return common.Coalesce(e.logger, common.Logger())
}
