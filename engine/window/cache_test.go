package window

import "testing"

type fakeWindow struct {
	handle Handle
	width  int
	height int
	fb     FramebufferID
}

func (w *fakeWindow) Handle() Handle             { return w.handle }
func (w *fakeWindow) Width() int                 { return w.width }
func (w *fakeWindow) Height() int                { return w.height }
func (w *fakeWindow) Framebuffer() FramebufferID { return w.fb }

type hookCounter struct {
	inits   int
	updates int
	lastW   uint32
	lastH   uint32
}

func (h *hookCounter) InitResources(id, width, height uint32) {
	h.inits++
	h.lastW, h.lastH = width, height
}

func (h *hookCounter) UpdateResources(id, width, height uint32) {
	h.updates++
	h.lastW, h.lastH = width, height
}

func TestResolveIdempotent(t *testing.T) {
	c := NewCache()
	win := &fakeWindow{handle: 7, width: 800, height: 600, fb: 1}
	hooks := &hookCounter{}

	first, state := c.Resolve(win, hooks)
	if state != StateInitialized {
		t.Fatalf("first Resolve() state = %v, want %v", state, StateInitialized)
	}
	hooks.inits = 0

	second, state := c.Resolve(win, hooks)
	if state != StateStable {
		t.Errorf("second Resolve() state = %v, want %v", state, StateStable)
	}
	if second != first || second.ID != first.ID {
		t.Errorf("second Resolve() returned a different record (%p id %d, want %p id %d)",
			second, second.ID, first, first.ID)
	}
	if hooks.inits != 0 || hooks.updates != 0 {
		t.Errorf("hooks fired on stable window: inits=%d updates=%d", hooks.inits, hooks.updates)
	}
}

func TestResolveExactlyOnceInitThenUpdate(t *testing.T) {
	c := NewCache()
	win := &fakeWindow{handle: 1, width: 0, height: 0, fb: 1}
	hooks := &hookCounter{}

	info, state := c.Resolve(win, hooks)
	if state != StateUninitialized || hooks.inits != 0 {
		t.Fatalf("Resolve() on 0x0 window: state=%v inits=%d, want Uninitialized and 0", state, hooks.inits)
	}
	if info.Width != 0 || info.Height != 0 {
		t.Errorf("unconfigured Info = %dx%d, want 0x0", info.Width, info.Height)
	}

	win.width, win.height = 800, 600
	c.Resolve(win, hooks)
	c.Resolve(win, hooks)
	if hooks.inits != 1 || hooks.updates != 0 {
		t.Fatalf("after configure: inits=%d updates=%d, want 1 and 0", hooks.inits, hooks.updates)
	}

	win.width, win.height = 1024, 768
	_, state = c.Resolve(win, hooks)
	c.Resolve(win, hooks)
	if state != StateInvalidated {
		t.Errorf("Resolve() after resize state = %v, want %v", state, StateInvalidated)
	}
	if hooks.inits != 1 || hooks.updates != 1 {
		t.Errorf("after resize: inits=%d updates=%d, want 1 and 1", hooks.inits, hooks.updates)
	}
	if hooks.lastW != 1024 || hooks.lastH != 768 {
		t.Errorf("update hook got %dx%d, want 1024x768", hooks.lastW, hooks.lastH)
	}
}

func TestResolveMinimizeRestore(t *testing.T) {
	tests := []struct {
		name        string
		restoreW    int
		restoreH    int
		wantState   State
		wantUpdates int
	}{
		{name: "same size", restoreW: 800, restoreH: 600, wantState: StateStable, wantUpdates: 0},
		{name: "new size", restoreW: 1024, restoreH: 768, wantState: StateInvalidated, wantUpdates: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache()
			win := &fakeWindow{handle: 4, width: 800, height: 600, fb: 1}
			hooks := &hookCounter{}
			c.Resolve(win, hooks)

			win.width, win.height = 0, 0
			info, state := c.Resolve(win, hooks)
			if state != StateSuspended {
				t.Errorf("Resolve() while minimized state = %v, want %v", state, StateSuspended)
			}
			if info.Width != 800 || info.Height != 600 || !info.Configured() {
				t.Errorf("minimized Info = %dx%d configured=%v, want 800x600 configured",
					info.Width, info.Height, info.Configured())
			}

			win.width, win.height = tt.restoreW, tt.restoreH
			if _, state = c.Resolve(win, hooks); state != tt.wantState {
				t.Errorf("Resolve() after restore state = %v, want %v", state, tt.wantState)
			}
			if hooks.inits != 1 || hooks.updates != tt.wantUpdates {
				t.Errorf("inits=%d updates=%d, want 1 and %d", hooks.inits, hooks.updates, tt.wantUpdates)
			}
		})
	}
}

func TestResolveFramebufferReuse(t *testing.T) {
	c := NewCache()
	win := &fakeWindow{handle: 3, width: 640, height: 480, fb: 10}
	hooks := &hookCounter{}
	c.Resolve(win, hooks)

	win.fb = 11
	if _, state := c.Resolve(win, hooks); state != StateInvalidated {
		t.Errorf("Resolve() after framebuffer swap state = %v, want %v", state, StateInvalidated)
	}
	if hooks.updates != 1 {
		t.Errorf("updates = %d, want 1", hooks.updates)
	}
}

func TestResolveDenseIDs(t *testing.T) {
	c := NewCache()
	hooks := HookFuncs{}
	for i := 0; i < 3; i++ {
		win := &fakeWindow{handle: Handle(100 + i), width: 10, height: 10}
		info, _ := c.Resolve(win, hooks)
		if info.ID != uint32(i) {
			t.Errorf("window %d got id %d, want %d", i, info.ID, i)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if info, ok := c.Lookup(101); !ok || info.ID != 1 {
		t.Errorf("Lookup(101) = %v, %v, want id 1", info, ok)
	}
	if _, ok := c.ByID(5); ok {
		t.Error("ByID(5) reported an unissued id")
	}
}
