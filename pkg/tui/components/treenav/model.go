// Package treenav is the cursor-driven model tree on the left of the UI.
package treenav

import (
	"strings"

	"github.com/muesli/reflow/truncate"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/section"
	"tableflip.dev/modelnav/pkg/tree"
)

// Model holds the visible rows, the cursor and the view's open flags.
type Model struct {
	styles tree.Styles
	state  *tree.State
	model  *model.Model
	rows   []tree.Row
	cursor int
	offset int
	width  int
	height int
}

// New returns a navigator over m using state for the open flags.
func New(m *model.Model, state *tree.State, styles tree.Styles) *Model {
	if state == nil {
		state = tree.NewState()
	}
	nav := &Model{styles: styles, state: state}
	nav.SetModel(m)
	return nav
}

// SetModel replaces the model, keeping the cursor on the same key when it is
// still visible.
func (m *Model) SetModel(mm *model.Model) {
	var at node.Key
	if r, ok := m.Current(); ok {
		at = r.Node.Key
	}
	m.model = mm
	m.rebuild(at)
}

// State returns the view's open flags.
func (m *Model) State() *tree.State { return m.state }

// Rows returns the visible rows.
func (m *Model) Rows() []tree.Row { return m.rows }

// Cursor returns the cursor row index.
func (m *Model) Cursor() int { return m.cursor }

// SetSize sets the viewport of the tree in cells.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampOffset()
}

// Current returns the row under the cursor.
func (m *Model) Current() (tree.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return tree.Row{}, false
	}
	return m.rows[m.cursor], true
}

// Move shifts the cursor by delta rows, clamped to the tree.
func (m *Model) Move(delta int) {
	m.setCursor(m.cursor + delta)
}

// Top moves to the first row.
func (m *Model) Top() { m.setCursor(0) }

// Bottom moves to the last row.
func (m *Model) Bottom() { m.setCursor(len(m.rows) - 1) }

// Toggle flips the root or section under the cursor. It reports false for
// item rows.
func (m *Model) Toggle() bool {
	r, ok := m.Current()
	if !ok || !r.Node.Toggleable() {
		return false
	}
	if r.Node.Kind == node.KindModel {
		m.state.ToggleRoot()
	} else {
		m.state.Toggle(r.Node.Section)
	}
	m.rebuild(r.Node.Key)
	return true
}

// SetOpen opens or closes the section under the cursor, or the section that
// owns the item under the cursor when closing.
func (m *Model) SetOpen(open bool) bool {
	r, ok := m.Current()
	if !ok {
		return false
	}
	switch r.Node.Kind {
	case node.KindModel:
		if m.state.RootClosed == !open {
			return false
		}
		m.state.ToggleRoot()
		m.rebuild(r.Node.Key)
	case node.KindSection:
		if m.state.IsOpen(r.Node.Section) == open {
			return false
		}
		m.state.SetOpen(r.Node.Section, open)
		m.rebuild(r.Node.Key)
	default:
		if open {
			return false
		}
		id := m.sectionOf(r.Node.Key)
		m.state.SetOpen(id, false)
		m.rebuild(node.SectionKey(string(id)))
	}
	return true
}

// SetAll opens or closes every section.
func (m *Model) SetAll(open bool) {
	var at node.Key
	if r, ok := m.Current(); ok {
		at = r.Node.Key
	}
	for _, id := range section.All() {
		m.state.SetOpen(id, open)
	}
	if open {
		m.state.RootClosed = false
	}
	m.rebuild(at)
}

// Reveal opens the section holding key and moves the cursor onto it.
func (m *Model) Reveal(key node.Key) bool {
	id := m.sectionOf(key)
	if id == "" {
		return false
	}
	m.state.RootClosed = false
	m.state.SetOpen(id, true)
	m.rebuild(key)
	r, ok := m.Current()
	return ok && r.Node.Key == key
}

// View renders the visible window of rows.
func (m *Model) View(selected node.Key) string {
	m.clampOffset()
	end := len(m.rows)
	if m.height > 0 && m.offset+m.height < end {
		end = m.offset + m.height
	}
	out := tree.Render(m.rows[m.offset:end], m.cursor-m.offset, selected, m.styles)
	if m.width <= 0 {
		return out
	}
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = clip(l, m.width)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) sectionOf(key node.Key) section.ID {
	for _, s := range section.Index(m.model) {
		for _, it := range s.Items() {
			if it.Key == key {
				return s.ID
			}
		}
	}
	return ""
}

func (m *Model) rebuild(at node.Key) {
	m.rows = tree.Flatten(tree.Build(m.model, m.state))
	if i := tree.IndexOf(m.rows, at); i >= 0 {
		m.setCursor(i)
		return
	}
	m.setCursor(m.cursor)
}

func (m *Model) setCursor(i int) {
	if i >= len(m.rows) {
		i = len(m.rows) - 1
	}
	if i < 0 {
		i = 0
	}
	m.cursor = i
	m.clampOffset()
}

func (m *Model) clampOffset() {
	if m.height <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func clip(line string, width int) string {
	return truncate.StringWithTail(line, uint(width), "…")
}
