package renderer

import "sync"

// RecordingBackend keeps every submitted plan in memory.
type RecordingBackend struct {
	mu          sync.Mutex
	plans       []*Plan
	width       int
	height      int
	presentMode PresentMode
	released    bool
}

var _ RendererBackend = &RecordingBackend{}

// NewRecordingBackend creates an empty recording backend.
func NewRecordingBackend() *RecordingBackend {
	return &RecordingBackend{}
}

func (b *RecordingBackend) Submit(plan *Plan) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.plans = append(b.plans, plan)
	return nil
}

func (b *RecordingBackend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
}

func (b *RecordingBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *RecordingBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = true
	b.plans = nil
}

// Plans returns the submitted plans in order.
func (b *RecordingBackend) Plans() []*Plan {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Plan(nil), b.plans...)
}

// Size returns the last configured surface size.
func (b *RecordingBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}
