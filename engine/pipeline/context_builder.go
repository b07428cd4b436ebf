package pipeline

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-framegraph/engine/asset"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
)

// ContextBuilderOption is a functional option for configuring a Context.
type ContextBuilderOption func(*Context)

// WithRegistry uses an existing registry instead of a fresh one.
func WithRegistry(r resource.Registry) ContextBuilderOption {
	return func(c *Context) {
		c.registry = r
	}
}

// WithDevice sets the capability query used to choose formats.
//
// Parameters:
//   - d: the device
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithDevice(d Device) ContextBuilderOption {
	return func(c *Context) {
		c.device = d
	}
}

// WithAssets sets the material source for fullscreen and compute passes.
func WithAssets(l asset.Loader) ContextBuilderOption {
	return func(c *Context) {
		c.assets = l
	}
}

// WithFlipY selects bottom-up shadow cascade tiling for devices whose
// screen space Y points up.
func WithFlipY(flipY bool) ContextBuilderOption {
	return func(c *Context) {
		c.flipY = flipY
	}
}

// WithLogger overrides the package logger for the context and its graph.
func WithLogger(l *slog.Logger) ContextBuilderOption {
	return func(c *Context) {
		c.logger = l
	}
}

// WithGraphOptions forwards options to the frame graph builder.
func WithGraphOptions(options ...graph.BuilderOption) ContextBuilderOption {
	return func(c *Context) {
		c.graphOptions = append(c.graphOptions, options...)
	}
}
