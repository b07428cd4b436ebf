// Package asset loads the materials fullscreen and dispatch queues reference.
// Loads run in the background; the frame graph only performs non-blocking
// lookups and skips draws whose material is not ready yet.
package asset

// Material is an immutable, loaded shader material.
type Material struct {
	// Name is the cache key the material was loaded under.
	Name string

	// Path is the source path, empty for registered materials.
	Path string

	// Source is the WGSL source text.
	Source []byte

	// Passes is the number of fragment entry points. Fullscreen queues select
	// one by index.
	Passes int

	// ComputeEntries is the number of compute entry points.
	ComputeEntries int
}

// HasPass reports whether passID selects a fragment entry point.
func (m *Material) HasPass(passID int) bool {
	return m != nil && passID >= 0 && passID < m.Passes
}

// Status is the load state of a named material.
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusReady
	StatusFailed
)

// String returns the string representation of Status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusReady:
		return "Ready"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
