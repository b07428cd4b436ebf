package graph

import "log/slog"

// BuilderOption is a functional option for configuring a Builder.
// Use the With* functions to create options.
type BuilderOption func(b *Builder)

// WithLogger overrides the engine logger for this builder.
//
// Parameters:
//   - l: the logger, nil to use the engine logger
//
// Returns:
//   - BuilderOption: option function to apply
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithLabel sets the frame label attached to log records and the sealed graph.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - BuilderOption: option function to apply
func WithLabel(label string) BuilderOption {
	return func(b *Builder) {
		if label != "" {
			b.label = label
		}
	}
}
