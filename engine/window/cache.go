package window

import (
	"github.com/Carmen-Shannon/oxy-framegraph/common"
)

// State is the outcome of resolving a window against the cache.
type State int

const (
	// StateUninitialized means the window has never reported a usable size.
	// No resources exist for it yet.
	StateUninitialized State = iota

	// StateInitialized means this call performed the first real configuration
	// and InitResources was invoked.
	StateInitialized

	// StateStable means nothing changed since the previous call.
	StateStable

	// StateInvalidated means the framebuffer or the size changed and
	// UpdateResources was invoked.
	StateInvalidated

	// StateSuspended means a configured window currently reports a zero
	// extent, typically while minimized. The cached size is kept and no hook
	// fires.
	StateSuspended
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateInitialized:
		return "Initialized"
	case StateStable:
		return "Stable"
	case StateInvalidated:
		return "Invalidated"
	case StateSuspended:
		return "Suspended"
	default:
		return "Unknown"
	}
}

// Info is the cached identity of one window. ID is dense, assigned on first
// sight and never reused. Width and Height are the last usable size, with
// 0x0 meaning the window has not been configured yet.
type Info struct {
	ID          uint32
	Width       uint32
	Height      uint32
	Framebuffer FramebufferID

	configured bool
}

// Configured reports whether InitResources has fired for this window.
func (i *Info) Configured() bool {
	return i.configured
}

// Hooks receives the resource callbacks fired by Resolve.
type Hooks interface {
	// InitResources is called exactly once per window identity, the first time
	// the window reports a non-zero size.
	InitResources(id, width, height uint32)

	// UpdateResources is called once per observed change of framebuffer or size.
	UpdateResources(id, width, height uint32)
}

// HookFuncs adapts two plain functions to the Hooks interface. Nil fields are
// skipped.
type HookFuncs struct {
	Init   func(id, width, height uint32)
	Update func(id, width, height uint32)
}

func (h HookFuncs) InitResources(id, width, height uint32) {
	if h.Init != nil {
		h.Init(id, width, height)
	}
}

func (h HookFuncs) UpdateResources(id, width, height uint32) {
	if h.Update != nil {
		h.Update(id, width, height)
	}
}

// Cache maps window handles to stable Info records. Records live in an arena
// indexed by ID; the handle map is only an association and never owns the
// window. Stale entries for destroyed windows are kept and are harmless.
//
// Cache is not safe for concurrent use. It is mutated only by the frame thread.
type Cache struct {
	infos    []*Info
	byHandle map[Handle]uint32
}

// NewCache creates an empty window cache.
//
// Returns:
//   - *Cache: the new cache
func NewCache() *Cache {
	return &Cache{
		byHandle: make(map[Handle]uint32),
	}
}

// Resolve returns the Info for win, allocating one on first sight, and fires
// the matching hook when the window was configured for the first time or
// changed since the last call.
//
// A window with a zero extent fires nothing. Before the first configuration
// it stays uninitialized; afterwards it is suspended and keeps its last
// usable size, so a minimize and restore never re-runs InitResources.
//
// Parameters:
//   - win: the live window
//   - hooks: receives InitResources / UpdateResources; may be nil
//
// Returns:
//   - *Info: the cached record, mutated in place
//   - State: what this call observed
func (c *Cache) Resolve(win Window, hooks Hooks) (*Info, State) {
	info := c.lookupOrCreate(win)
	width, height := clampDim(win.Width()), clampDim(win.Height())

	usable := width > 0 && height > 0

	if !info.configured {
		if !usable {
			return info, StateUninitialized
		}
		info.configured = true
		info.Width = width
		info.Height = height
		info.Framebuffer = win.Framebuffer()
		common.Logger().Info("window resources initialized",
			"window", info.ID, "width", width, "height", height)
		if hooks != nil {
			hooks.InitResources(info.ID, width, height)
		}
		return info, StateInitialized
	}

	if !usable {
		return info, StateSuspended
	}

	if info.Framebuffer != win.Framebuffer() || info.Width != width || info.Height != height {
		info.Framebuffer = win.Framebuffer()
		info.Width = width
		info.Height = height
		common.Logger().Info("window resources invalidated",
			"window", info.ID, "width", width, "height", height)
		if hooks != nil {
			hooks.UpdateResources(info.ID, width, height)
		}
		return info, StateInvalidated
	}

	return info, StateStable
}

// Lookup returns the record associated with a handle without creating one.
//
// Parameters:
//   - h: the window handle
//
// Returns:
//   - *Info: the record, or nil
//   - bool: true if the handle has been seen
func (c *Cache) Lookup(h Handle) (*Info, bool) {
	id, ok := c.byHandle[h]
	if !ok {
		return nil, false
	}
	return c.infos[id], true
}

// ByID returns the record with the given dense id.
//
// Parameters:
//   - id: the window id
//
// Returns:
//   - *Info: the record, or nil
//   - bool: true if the id has been issued
func (c *Cache) ByID(id uint32) (*Info, bool) {
	if int(id) >= len(c.infos) {
		return nil, false
	}
	return c.infos[id], true
}

// Len returns the number of ids issued so far.
func (c *Cache) Len() int {
	return len(c.infos)
}

func (c *Cache) lookupOrCreate(win Window) *Info {
	if id, ok := c.byHandle[win.Handle()]; ok {
		return c.infos[id]
	}
	info := &Info{
		ID:          uint32(len(c.infos)),
		Framebuffer: win.Framebuffer(),
	}
	c.infos = append(c.infos, info)
	c.byHandle[win.Handle()] = info.ID
	return info
}

func clampDim(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
