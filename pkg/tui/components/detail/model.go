// Package detail renders the selected node: its notation text while viewing
// and a textarea holding the draft while editing.
package detail

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textarea"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/modelnav/pkg/editor"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/tui/theme"
)

// Model is the detail pane.
type Model struct {
	th       theme.DetailTheme
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	editing  bool
	header   string
}

// New returns an empty pane.
func New(th theme.DetailTheme) *Model {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Placeholder = "notation text"
	ta.CharLimit = 0
	return &Model{
		th:       th,
		viewport: viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
		input:    ta,
	}
}

// SetSize resizes the pane.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 1)
	m.height = max(height, 2)
	m.viewport.SetWidth(m.width)
	m.viewport.SetHeight(m.height - 1)
	m.input.SetWidth(m.width)
	m.input.SetHeight(m.height - 1)
}

// Refresh rebuilds the read-only content from the session. notes is raw text
// kept for the selected key after a failed save.
func (m *Model) Refresh(s *editor.Session, notes string) {
	m.header = Header(s, m.th)
	m.viewport.SetContent(Content(s, notes, m.width, m.th))
}

// StartEdit loads draft into the textarea and focuses it.
func (m *Model) StartEdit(draft string) tea.Cmd {
	m.editing = true
	m.input.SetValue(draft)
	return m.input.Focus()
}

// StopEdit leaves the textarea.
func (m *Model) StopEdit() {
	m.editing = false
	m.input.Blur()
	m.input.Reset()
}

// Editing reports whether the textarea is active.
func (m *Model) Editing() bool { return m.editing }

// Draft returns the textarea content.
func (m *Model) Draft() string { return m.input.Value() }

// Update routes input to the textarea while editing and to the viewport
// otherwise.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.editing {
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// View renders the pane.
func (m *Model) View() string {
	body := m.viewport.View()
	if m.editing {
		body = m.input.View()
	}
	return m.header + "\n" + body
}

// Header is the single line above the pane body.
func Header(s *editor.Session, th theme.DetailTheme) string {
	if s.State() == editor.Empty {
		return th.Header.Render("No selection")
	}
	kind := s.Key().Kind().String()
	if _, notes := s.Payload().(node.NotesPayload); notes || s.Payload() == nil {
		kind = "notes"
	}
	line := th.Header.Render(kind) + " " + th.Meta.Render(s.Key().String())
	switch {
	case s.State() == editor.Editing && s.Saving():
		line += th.Loading.Render("  saving…")
	case s.State() == editor.Editing:
		line += th.Meta.Render("  [editing]")
	}
	return line
}

// Content renders the read-only body for s, wrapped to width.
func Content(s *editor.Session, notes string, width int, th theme.DetailTheme) string {
	if s.State() == editor.Empty {
		return th.Meta.Render("Select an element in the tree to see its notation.")
	}
	var b strings.Builder
	if msg := s.ErrorMessage(); msg != "" {
		b.WriteString(th.Error.Render(wordwrap.String("! "+msg, width)))
		b.WriteString("\n\n")
	}
	if s.Loading() {
		b.WriteString(th.Loading.Render("loading…"))
	} else {
		b.WriteString(th.Body.Render(wordwrap.String(s.Text(), width)))
	}
	if notes != "" {
		b.WriteString("\n\n")
		b.WriteString(th.Notes.Render("unparsed notes:"))
		b.WriteString("\n")
		b.WriteString(th.Notes.Render(wordwrap.String(notes, width)))
	}
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
