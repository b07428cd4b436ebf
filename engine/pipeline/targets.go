package pipeline

import (
	"math/bits"

	"github.com/Carmen-Shannon/oxy-framegraph/engine/camera"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// WindowColorFormat is the swapchain format of every render window.
	WindowColorFormat = wgpu.TextureFormatBGRA8Unorm

	// DepthStencilFormat is used for every depth-stencil target.
	DepthStencilFormat = wgpu.TextureFormatDepth24PlusStencil8

	// HiZFormat holds the farthest depth of each Hi-Z texel.
	HiZFormat = wgpu.TextureFormatR32Float
)

// declareWindowTargets declares or resizes the color and depth targets every
// builder renders into.
func declareWindowTargets(ctx *Context, id, width, height uint32) {
	r := ctx.Registry()
	ctx.Declare(resource.DeclareRenderWindow(r, resource.ColorName(id), WindowColorFormat, width, height))
	ctx.Declare(resource.DeclareDepthStencil(r, resource.DepthStencilName(id), DepthStencilFormat, width, height, resource.Persistent))
}

// declareShadowTargets declares the shadow map pair of a window at the
// scene's shadow map size.
func declareShadowTargets(ctx *Context, id, size uint32) {
	r := ctx.Registry()
	ctx.Declare(resource.DeclareRenderTarget(r, resource.ShadowMapName(id), ShadowFormat(ctx.Device()), size, size, resource.Managed))
	ctx.Declare(resource.DeclareDepthStencil(r, resource.ShadowDepthName(id), DepthStencilFormat, size, size, resource.Managed))
}

// declareCullingTargets declares both parities of the depth and Hi-Z
// buffers used by GPU-driven occlusion culling. They persist so each frame
// can test against the previous frame's depth.
func declareCullingTargets(ctx *Context, id, width, height uint32) {
	r := ctx.Registry()
	mips := uint32(bits.Len32(max(width, height)))
	for parity := range uint32(2) {
		ctx.Declare(resource.DeclareDepthStencil(r, resource.ParityDepthName(id, parity), DepthStencilFormat, width, height, resource.Persistent))
		ctx.Declare(resource.DeclareStorageTexture(r, resource.HiZName(id, parity), HiZFormat, width, height, mips, resource.Persistent))
	}
}

// addCameraTargets attaches the window color and a depth target following
// the camera's clear flags: cleared when the flags ask for it, loaded
// otherwise.
func addCameraTargets(pass *graph.RenderPassBuilder, cam camera.Camera, color, depth string) *graph.RenderPassBuilder {
	flags := cam.ClearFlags()
	if camera.NeedClearColor(flags) {
		pass.AddRenderTarget(color, graph.LoadOpClear, graph.StoreOpStore, cam.ClearColor())
	} else {
		pass.AddRenderTarget(color, graph.LoadOpLoad, graph.StoreOpStore, wgpu.Color{})
	}
	if camera.NeedClearDepth(flags) {
		pass.AddDepthStencil(depth, graph.LoadOpClear, graph.StoreOpStore, cam.ClearDepth(), cam.ClearStencil())
	} else {
		pass.AddDepthStencil(depth, graph.LoadOpLoad, graph.StoreOpStore, 1, 0)
	}
	return pass
}
