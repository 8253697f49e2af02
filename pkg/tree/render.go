package tree

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/modelnav/pkg/node"
)

// Styles controls how rows are drawn.
type Styles struct {
	Root     lipgloss.Style
	Section  lipgloss.Style
	Item     lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Count    lipgloss.Style
}

// DefaultStyles returns the stock navigator styling.
func DefaultStyles() Styles {
	return Styles{
		Root:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		Section:  lipgloss.NewStyle().Bold(true),
		Item:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Cursor:   lipgloss.NewStyle().Reverse(true),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Count:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

// Render draws rows, highlighting the cursor row and the selected key.
func Render(rows []Row, cursor int, selected node.Key, styles Styles) string {
	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		lines = append(lines, renderRow(r, i == cursor, r.Node.Key == selected, styles))
	}
	return strings.Join(lines, "\n")
}

func renderRow(r Row, atCursor, selected bool, styles Styles) string {
	n := r.Node
	indent := strings.Repeat("  ", r.Depth)
	var text string
	switch n.Kind {
	case node.KindModel:
		text = marker(n.Open) + styles.Root.Render(n.Label)
	case node.KindSection:
		text = marker(n.Open) + styles.Section.Render(n.Label) + styles.Count.Render(" ("+strconv.Itoa(n.Count)+")")
	default:
		style := styles.Item
		if selected {
			style = styles.Selected
		}
		caret := "  "
		if selected {
			caret = "→ "
		}
		text = caret + style.Render(n.Label)
	}
	line := indent + text
	if atCursor {
		return styles.Cursor.Render(line)
	}
	return line
}

func marker(open bool) string {
	if open {
		return "▾ "
	}
	return "▸ "
}
