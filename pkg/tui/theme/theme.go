package theme

import (
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/modelnav/pkg/tree"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Tree   tree.Styles
	Detail DetailTheme
	Pane   PaneTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Mode   lipgloss.Style
}

// DetailTheme styles the node detail pane.
type DetailTheme struct {
	Header  lipgloss.Style
	Meta    lipgloss.Style
	Body    lipgloss.Style
	Error   lipgloss.Style
	Notes   lipgloss.Style
	Loading lipgloss.Style
}

// PaneTheme frames the two main panes.
type PaneTheme struct {
	Focused lipgloss.Style
	Blurred lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Mode: lipgloss.NewStyle().
				Foreground(lipgloss.Color("212")).
				Bold(true),
		},
		Tree: tree.DefaultStyles(),
		Detail: DetailTheme{
			Header:  lipgloss.NewStyle().Bold(true),
			Meta:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Body:    lipgloss.NewStyle(),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Notes:   lipgloss.NewStyle().Foreground(lipgloss.Color("179")).Italic(true),
			Loading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		},
		Pane: PaneTheme{
			Focused: frame.BorderForeground(lipgloss.Color("212")),
			Blurred: frame.BorderForeground(lipgloss.Color("240")),
		},
	}
}
