package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNoSurface is returned when the WebGPU backend is created without a
	// surface to present on.
	ErrNoSurface = errors.New("renderer: no presentation surface")

	// ErrUnboundWindow is returned when a plan renders to a window target
	// other than the one bound to the surface.
	ErrUnboundWindow = errors.New("renderer: window target not bound to a surface")
)

// StepResources are the device objects bound by one step, keyed by slot.
type StepResources struct {
	Device  *wgpu.Device
	Queue   *wgpu.Queue
	Views   map[string]*wgpu.TextureView
	Buffers map[string]*wgpu.Buffer
}

// Drawer records the work inside passes. Pipelines, meshes and bind groups
// live with the Drawer; the backend only opens and closes passes.
type Drawer interface {
	// Draw records one queue of a render step.
	Draw(pass *wgpu.RenderPassEncoder, step *Step, q *graph.Queue, res *StepResources) error

	// Dispatch records one queue of a compute step.
	Dispatch(pass *wgpu.ComputePassEncoder, step *Step, q *graph.Queue, res *StepResources) error

	// Cull records a culling or Hi-Z step. Both run as compute work.
	Cull(pass *wgpu.ComputePassEncoder, step *Step, res *StepResources) error
}

// cachedTexture is a device texture kept across frames by name.
type cachedTexture struct {
	texture   *wgpu.Texture
	desc      wgpu.TextureDescriptor
	residency resource.Residency
}

type cachedBuffer struct {
	buffer *wgpu.Buffer
	desc   wgpu.BufferDescriptor
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	surfaceTarget string
	presentMode   wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	configured    bool

	drawer   Drawer
	textures map[string]*cachedTexture
	buffers  map[string]*cachedBuffer

	// Frame state, released after each Submit.
	frameSurface *wgpu.Texture
	transient    map[string]*wgpu.Texture
	views        []*wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surface Surface, surfaceTarget string, forceFallbackAdapter bool, drawer Drawer) (*wgpuRendererBackendImpl, error) {
	if surface == nil || surface.SurfaceDescriptor() == nil {
		return nil, ErrNoSurface
	}
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:            &sync.Mutex{},
		instance:      wgpu.CreateInstance(nil),
		presentMode:   wgpu.PresentModeImmediate,
		surfaceTarget: surfaceTarget,
		drawer:        drawer,
		textures:      make(map[string]*cachedTexture),
		buffers:       make(map[string]*cachedBuffer),
		transient:     make(map[string]*wgpu.Texture),
	}
	w.surface = w.instance.CreateSurface(surface.SurfaceDescriptor())

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: request adapter: %w", err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Frame Graph Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()
	return w, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A minimized window reports 0x0, which the surface rejects.
	if width <= 0 || height <= 0 {
		b.configured = false
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopyDst,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	b.configured = true
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) Submit(plan *Plan) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer b.endFrame()

	if err := b.allocate(plan); err != nil {
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	for i := range plan.Steps {
		step := &plan.Steps[i]
		if err := b.encode(encoder, step); err != nil {
			return fmt.Errorf("renderer: pass %d %q: %w", step.Pass, step.Name, err)
		}
	}

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()
	b.queue.Submit(commandBuffer)

	if b.frameSurface != nil {
		b.surface.Present()
	}
	return nil
}

// allocate creates or reuses the textures and buffers the plan needs. A
// cached resource is recreated when its descriptor changed, and managed
// resources the plan no longer names are released.
func (b *wgpuRendererBackendImpl) allocate(plan *Plan) error {
	for name, a := range plan.Resources {
		switch {
		case a.Window:
			if name != b.surfaceTarget || !b.configured {
				return fmt.Errorf("%w: %q", ErrUnboundWindow, name)
			}
			tex, err := b.surface.GetCurrentTexture()
			if err != nil {
				return err
			}
			b.frameSurface = tex

		case a.Buffer != nil:
			if c, ok := b.buffers[name]; ok {
				if c.desc.Size == a.Buffer.Size && c.desc.Usage == a.Buffer.Usage {
					continue
				}
				c.buffer.Release()
			}
			buf, err := b.device.CreateBuffer(a.Buffer)
			if err != nil {
				return fmt.Errorf("renderer: create buffer %q: %w", name, err)
			}
			b.buffers[name] = &cachedBuffer{buffer: buf, desc: *a.Buffer}

		case a.Residency == resource.Memoryless:
			tex, err := b.device.CreateTexture(a.Texture)
			if err != nil {
				return fmt.Errorf("renderer: create attachment %q: %w", name, err)
			}
			b.transient[name] = tex

		case a.Texture != nil:
			if c, ok := b.textures[name]; ok {
				if sameTexture(c.desc, *a.Texture) {
					continue
				}
				c.texture.Release()
			}
			tex, err := b.device.CreateTexture(a.Texture)
			if err != nil {
				return fmt.Errorf("renderer: create texture %q: %w", name, err)
			}
			b.textures[name] = &cachedTexture{texture: tex, desc: *a.Texture, residency: a.Residency}
		}
	}

	for name, c := range b.textures {
		if _, ok := plan.Resources[name]; !ok && c.residency == resource.Managed {
			c.texture.Release()
			delete(b.textures, name)
		}
	}
	return nil
}

func sameTexture(a, b wgpu.TextureDescriptor) bool {
	return a.Size == b.Size &&
		a.Format == b.Format &&
		a.Usage == b.Usage &&
		a.MipLevelCount == b.MipLevelCount &&
		a.Dimension == b.Dimension
}

func (b *wgpuRendererBackendImpl) texture(name string) (*wgpu.Texture, error) {
	if name == b.surfaceTarget && b.frameSurface != nil {
		return b.frameSurface, nil
	}
	if tex, ok := b.transient[name]; ok {
		return tex, nil
	}
	if c, ok := b.textures[name]; ok {
		return c.texture, nil
	}
	return nil, fmt.Errorf("%w: %q has no texture", ErrUnknownResource, name)
}

// view creates a texture view for the frame. Views are released when the
// frame ends.
func (b *wgpuRendererBackendImpl) view(v View) (*wgpu.TextureView, error) {
	tex, err := b.texture(v.Texture)
	if err != nil {
		return nil, err
	}
	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           v.Name,
		Dimension:       v.Dimension(),
		BaseMipLevel:    v.BaseMip,
		MipLevelCount:   max(v.Mips, 1),
		BaseArrayLayer:  v.BaseLayer,
		ArrayLayerCount: max(v.Layers, 1),
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		return nil, err
	}
	b.views = append(b.views, view)
	return view, nil
}

func (b *wgpuRendererBackendImpl) resources(step *Step) (*StepResources, error) {
	res := &StepResources{
		Device:  b.device,
		Queue:   b.queue,
		Views:   make(map[string]*wgpu.TextureView, len(step.Bindings)),
		Buffers: make(map[string]*wgpu.Buffer),
	}
	for _, binding := range step.Bindings {
		if binding.Buffer {
			if c, ok := b.buffers[binding.View.Texture]; ok {
				res.Buffers[binding.Slot] = c.buffer
			}
			continue
		}
		view, err := b.view(binding.View)
		if err != nil {
			return nil, err
		}
		res.Views[binding.Slot] = view
	}
	return res, nil
}

func (b *wgpuRendererBackendImpl) encode(encoder *wgpu.CommandEncoder, step *Step) error {
	switch step.Kind {
	case graph.PassRender:
		return b.encodeRender(encoder, step)
	case graph.PassCopy:
		return b.encodeCopy(encoder, step)
	case graph.PassMove:
		return nil
	default:
		return b.encodeCompute(encoder, step)
	}
}

func (b *wgpuRendererBackendImpl) encodeRender(encoder *wgpu.CommandEncoder, step *Step) error {
	desc := &wgpu.RenderPassDescriptor{}
	for _, c := range step.Colors {
		view, err := b.view(c.View)
		if err != nil {
			return err
		}
		desc.ColorAttachments = append(desc.ColorAttachments, wgpu.RenderPassColorAttachment{
			View:       view,
			LoadOp:     c.LoadOp,
			StoreOp:    c.StoreOp,
			ClearValue: c.ClearValue,
		})
	}
	if d := step.Depth; d != nil {
		view, err := b.view(d.View)
		if err != nil {
			return err
		}
		desc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:              view,
			DepthLoadOp:       d.DepthLoadOp,
			DepthStoreOp:      d.DepthStoreOp,
			DepthClearValue:   d.DepthClearValue,
			StencilLoadOp:     d.StencilLoadOp,
			StencilStoreOp:    d.StencilStoreOp,
			StencilClearValue: d.StencilClearValue,
		}
	}
	res, err := b.resources(step)
	if err != nil {
		return err
	}

	pass := encoder.BeginRenderPass(desc)
	if step.HasViewport {
		vp := step.Viewport
		pass.SetViewport(vp.X, vp.Y, vp.Width, vp.Height, 0, 1)
	}
	for _, q := range step.Queues {
		if q.HasViewport {
			vp := q.Viewport
			pass.SetViewport(vp.X, vp.Y, vp.Width, vp.Height, 0, 1)
		}
		if b.drawer == nil {
			continue
		}
		if err := b.drawer.Draw(pass, step, q, res); err != nil {
			pass.End()
			return fmt.Errorf("queue %q: %w", q.Name, err)
		}
	}
	pass.End()
	return nil
}

func (b *wgpuRendererBackendImpl) encodeCompute(encoder *wgpu.CommandEncoder, step *Step) error {
	res, err := b.resources(step)
	if err != nil {
		return err
	}
	pass := encoder.BeginComputePass(nil)
	if b.drawer != nil {
		switch step.Kind {
		case graph.PassCulling, graph.PassHiZ:
			err = b.drawer.Cull(pass, step, res)
		default:
			for _, q := range step.Queues {
				if err = b.drawer.Dispatch(pass, step, q, res); err != nil {
					err = fmt.Errorf("queue %q: %w", q.Name, err)
					break
				}
			}
		}
	}
	pass.End()
	return err
}

// encodeCopy copies each mip level of every pair separately.
func (b *wgpuRendererBackendImpl) encodeCopy(encoder *wgpu.CommandEncoder, step *Step) error {
	for _, c := range step.Copies {
		src, err := b.texture(c.Source.Texture)
		if err != nil {
			return err
		}
		dst, err := b.texture(c.Target.Texture)
		if err != nil {
			return err
		}
		for mip := range max(c.Source.Mips, 1) {
			encoder.CopyTextureToTexture(
				&wgpu.ImageCopyTexture{
					Texture:  src,
					MipLevel: c.Source.BaseMip + mip,
					Origin:   wgpu.Origin3D{Z: c.Source.BaseLayer},
					Aspect:   wgpu.TextureAspectAll,
				},
				&wgpu.ImageCopyTexture{
					Texture:  dst,
					MipLevel: c.Target.BaseMip + mip,
					Origin:   wgpu.Origin3D{Z: c.Target.BaseLayer},
					Aspect:   wgpu.TextureAspectAll,
				},
				&wgpu.Extent3D{
					Width:              max(c.Size.Width>>mip, 1),
					Height:             max(c.Size.Height>>mip, 1),
					DepthOrArrayLayers: c.Size.DepthOrArrayLayers,
				},
			)
		}
	}
	return nil
}

// endFrame releases per-frame views, transient attachments and the surface
// texture.
func (b *wgpuRendererBackendImpl) endFrame() {
	for _, v := range b.views {
		v.Release()
	}
	b.views = b.views[:0]
	for name, tex := range b.transient {
		tex.Release()
		delete(b.transient, name)
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.endFrame()
	for name, c := range b.textures {
		c.texture.Release()
		delete(b.textures, name)
	}
	for name, c := range b.buffers {
		c.buffer.Release()
		delete(b.buffers, name)
	}
	if b.device != nil {
		b.queue.Release()
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}
