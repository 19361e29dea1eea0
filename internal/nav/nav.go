// Package nav tracks the navigation bar state of a session: whether the
// page has scrolled past the header and whether the mobile menu is open.
package nav

import (
	"sync"

	"github.com/patagonia-pages/bookpage/internal/errors"
)

// ScrollThreshold is the vertical offset, in pixels, past which the page
// counts as scrolled.
const ScrollThreshold = 50

// MobileBreakpoint is the viewport width, in pixels, below which the
// mobile layout is used.
const MobileBreakpoint = 768

// TopTarget is the scroll target for the top of the page.
const TopTarget = "top"

// Anchor is a page section reachable from the navigation bar.
type Anchor struct {
	// ID is the element id of the section.
	ID string
	// Key is the navigation catalog key of its label.
	Key string
}

var anchors = []Anchor{
	{ID: "about", Key: "aboutBook"},
	{ID: "author", Key: "author"},
	{ID: "preorder", Key: "preorder"},
}

// Anchors returns the navigable sections in page order.
func Anchors() []Anchor {
	out := make([]Anchor, len(anchors))
	copy(out, anchors)
	return out
}

// FindAnchor returns the anchor with the given id.
func FindAnchor(id string) (Anchor, bool) {
	for _, a := range anchors {
		if a.ID == id {
			return a, true
		}
	}
	return Anchor{}, false
}

// IsMobile reports whether a viewport of the given width uses the mobile
// layout.
func IsMobile(width int) bool {
	return width < MobileBreakpoint
}

// Variant is the color scheme of controls drawn over the header.
type Variant string

const (
	VariantLight Variant = "light"
	VariantDark  Variant = "dark"
)

// Snapshot is the state delivered to subscribers.
type Snapshot struct {
	Scrolled bool
	MenuOpen bool
}

// Variant returns the control variant for the snapshot.
func (s Snapshot) Variant() Variant {
	if s.Scrolled {
		return VariantDark
	}
	return VariantLight
}

// State is the navigation state of one session.
type State struct {
	mu       sync.Mutex
	scrolled bool
	menuOpen bool
	subs     map[uint64]func(Snapshot)
	nextSub  uint64
}

// New returns an unscrolled state with the menu closed.
func New() *State {
	return &State{subs: make(map[uint64]func(Snapshot))}
}

// Snapshot returns the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Scrolled: s.scrolled, MenuOpen: s.menuOpen}
}

// Scrolled reports whether the page is past ScrollThreshold.
func (s *State) Scrolled() bool {
	return s.Snapshot().Scrolled
}

// MenuOpen reports whether the mobile menu is open.
func (s *State) MenuOpen() bool {
	return s.Snapshot().MenuOpen
}

// Variant returns the control variant for the current state.
func (s *State) Variant() Variant {
	return s.Snapshot().Variant()
}

// OnScroll records the vertical scroll offset y.
func (s *State) OnScroll(y float64) {
	s.update(func() {
		s.scrolled = y > ScrollThreshold
	})
}

// ToggleMenu opens or closes the mobile menu.
func (s *State) ToggleMenu() {
	s.update(func() {
		s.menuOpen = !s.menuOpen
	})
}

// ScrollTo closes the mobile menu and returns the element id to scroll to.
// Unknown anchors leave the state untouched and return E003.
func (s *State) ScrollTo(id string) (string, error) {
	a, ok := FindAnchor(id)
	if !ok {
		return "", errors.New("E003").WithDetailf("anchor %q", id)
	}
	s.update(func() {
		s.menuOpen = false
	})
	return a.ID, nil
}

// ScrollToTop returns the scroll target for the top of the page.
func (s *State) ScrollToTop() string {
	return TopTarget
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (s *State) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update applies fn and notifies subscribers if the state changed.
func (s *State) update(fn func()) {
	s.mu.Lock()
	before := Snapshot{Scrolled: s.scrolled, MenuOpen: s.menuOpen}
	fn()
	after := Snapshot{Scrolled: s.scrolled, MenuOpen: s.menuOpen}
	if before == after {
		s.mu.Unlock()
		return
	}
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(after)
	}
}
