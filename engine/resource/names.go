package resource

import "fmt"

// Per-window resource names. Every name is derived from the window id so two
// windows never share a resource, and the same window finds its resources
// again on every frame.

// ColorName is the window's swapchain color target.
func ColorName(id uint32) string {
	return fmt.Sprintf("Color%d", id)
}

// DepthStencilName is the window's single-buffered depth-stencil target.
func DepthStencilName(id uint32) string {
	return fmt.Sprintf("DepthStencil%d", id)
}

// ShadowMapName is the window's shadow map color target.
func ShadowMapName(id uint32) string {
	return fmt.Sprintf("ShadowMap%d", id)
}

// ShadowDepthName is the depth buffer used while rendering the shadow map.
func ShadowDepthName(id uint32) string {
	return fmt.Sprintf("ShadowDepth%d", id)
}

// ParityDepthName is one of the two ping-pong depth targets used by GPU-driven
// culling.
func ParityDepthName(id, parity uint32) string {
	return fmt.Sprintf("DepthStencil%d_%d", id, parity&1)
}

// HiZName is one of the two ping-pong Hi-Z mip chains.
func HiZName(id, parity uint32) string {
	return fmt.Sprintf("HiZBuffer%d_%d", id, parity&1)
}
