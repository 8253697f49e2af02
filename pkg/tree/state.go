// Package tree turns a model and its section open flags into the render tree
// shown by the navigator.
package tree

import "tableflip.dev/modelnav/pkg/section"

// State holds the open/closed flags of one tree view. Sections default to
// closed; the root defaults to open. A State is owned by the view that
// created it and is never shared between views.
type State struct {
	RootClosed bool
	Open       map[section.ID]bool
}

// NewState returns a state with every section closed.
func NewState() *State {
	return &State{Open: make(map[section.ID]bool)}
}

func (s *State) ensure() {
	if s.Open == nil {
		s.Open = make(map[section.ID]bool)
	}
}

// IsOpen reports whether the section is expanded.
func (s *State) IsOpen(id section.ID) bool {
	if s == nil {
		return false
	}
	return s.Open[id]
}

// SetOpen expands or collapses a section.
func (s *State) SetOpen(id section.ID, open bool) {
	s.ensure()
	if open {
		s.Open[id] = true
		return
	}
	delete(s.Open, id)
}

// Toggle flips a section and returns its new state.
func (s *State) Toggle(id section.ID) bool {
	open := !s.IsOpen(id)
	s.SetOpen(id, open)
	return open
}

// ToggleRoot flips the root node and returns whether it is now open.
func (s *State) ToggleRoot() bool {
	s.RootClosed = !s.RootClosed
	return !s.RootClosed
}

// OpenSections lists expanded sections in display order.
func (s *State) OpenSections() []section.ID {
	var out []section.ID
	for _, id := range section.All() {
		if s.IsOpen(id) {
			out = append(out, id)
		}
	}
	return out
}

// Restore opens exactly the listed sections. Unknown IDs are ignored.
func (s *State) Restore(open []section.ID) {
	s.Open = make(map[section.ID]bool, len(open))
	known := make(map[section.ID]bool)
	for _, id := range section.All() {
		known[id] = true
	}
	for _, id := range open {
		if known[id] {
			s.Open[id] = true
		}
	}
}

// Clone returns an independent copy, e.g. to persist from another goroutine.
func (s *State) Clone() *State {
	out := NewState()
	if s == nil {
		return out
	}
	out.RootClosed = s.RootClosed
	for id, open := range s.Open {
		out.Open[id] = open
	}
	return out
}
