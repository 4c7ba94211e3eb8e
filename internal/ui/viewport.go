package ui

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// MobileBreakpoint is the first width treated as non-mobile
const MobileBreakpoint = 768

// Client hint headers carrying the layout viewport width
const (
	HeaderViewportWidth       = "Sec-CH-Viewport-Width"
	HeaderLegacyViewportWidth = "Viewport-Width"
)

// Viewport tracks a width and whether it is below the mobile breakpoint.
// Safe for concurrent use; subscribers run on the goroutine calling Resize.
//
// HTTP handlers only read the initial state from the request's client hints.
// Live resizes in the browser are handled by static/auth.js, which toggles the
// same layout classes; Resize and Subscribe serve in-process callers.
type Viewport struct {
	mu     sync.RWMutex
	width  int
	known  bool
	mobile bool
	subs   map[int]func(bool)
	nextID int
}

// NewViewport starts from width when known; an unknown width is never mobile
func NewViewport(width int, known bool) *Viewport {
	v := &Viewport{subs: make(map[int]func(bool))}
	v.width, v.known = width, known
	v.mobile = known && width < MobileBreakpoint
	return v
}

// ViewportFromRequest reads the viewport width client hint, if the browser sent one
func ViewportFromRequest(r *http.Request) *Viewport {
	if r == nil {
		return NewViewport(0, false)
	}
	for _, h := range []string{HeaderViewportWidth, HeaderLegacyViewportWidth} {
		if width, ok := parseWidth(r.Header.Get(h)); ok {
			return NewViewport(width, true)
		}
	}
	return NewViewport(0, false)
}

func parseWidth(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return int(f), true
}

func (v *Viewport) IsMobile() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.mobile
}

// Width returns the last known width
func (v *Viewport) Width() (int, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.known
}

// Resize recomputes the signal and notifies every subscriber before returning.
// Requests never call it; see the type comment.
func (v *Viewport) Resize(width int) {
	v.mu.Lock()
	v.width, v.known = width, true
	v.mobile = width < MobileBreakpoint
	mobile := v.mobile
	subs := make([]func(bool), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(mobile)
	}
}

// Subscribe registers fn for resize notifications until cancel is called
func (v *Viewport) Subscribe(fn func(isMobile bool)) (cancel func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

// Subscribers reports how many listeners are registered
func (v *Viewport) Subscribers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subs)
}

// LayoutClass picks the compact or wide class set for the page shell
func (v *Viewport) LayoutClass() string {
	return If(v.IsMobile(), "layout-compact", "layout-wide")
}
