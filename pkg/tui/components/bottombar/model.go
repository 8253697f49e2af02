package bottombar

import (
	"fmt"
	"strings"

	"tableflip.dev/modelnav/pkg/tui/theme"
)

// Mode represents the UI mode that influences footer layout.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEdit
	ModeCommand
	ModeHelp
	ModePicker
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "EDIT"
	case ModeCommand:
		return "COMMAND"
	case ModeHelp:
		return "HELP"
	case ModePicker:
		return "OPEN"
	default:
		return "NAV"
	}
}

// CommandOption describes a command palette entry.
type CommandOption struct {
	Name        string
	Description string
}

// Model tracks footer/help/status rendering state.
type Model struct {
	th              theme.FooterTheme
	mode            Mode
	helpLine        string
	statusLine      string
	statusIsError   bool
	commandInput    string
	commandView     string
	commandOptions  []CommandOption
	filteredOptions []CommandOption
	maxSuggestions  int
}

// New returns a footer model with sensible defaults.
func New(th theme.FooterTheme) Model {
	return Model{
		th:             th,
		mode:           ModeNormal,
		maxSuggestions: 6,
	}
}

// SetMode updates the visual mode.
func (m *Model) SetMode(mode Mode) {
	if m.mode == mode {
		return
	}
	m.mode = mode
	if mode != ModeCommand {
		m.filteredOptions = nil
		m.commandInput = ""
		m.commandView = ""
	}
}

// Mode reports the current mode.
func (m Model) Mode() Mode { return m.mode }

// SetHelp sets the contextual help line.
func (m *Model) SetHelp(help string) {
	m.helpLine = help
}

// SetStatus sets the status message to display.
func (m *Model) SetStatus(status string) {
	m.statusLine = status
	m.statusIsError = false
}

// SetError shows status as an error.
func (m *Model) SetError(status string) {
	m.statusLine = status
	m.statusIsError = true
}

// Status returns the current status message.
func (m Model) Status() string { return m.statusLine }

// SetCommandDefinitions configures the available command palette entries.
func (m *Model) SetCommandDefinitions(cmds []CommandOption) {
	m.commandOptions = cmds
	m.filterSuggestions(m.commandInput)
}

// UpdateCommandInput refreshes the command palette filter and rendered line.
func (m *Model) UpdateCommandInput(value string, view string) {
	m.commandInput = value
	m.commandView = ":" + view
	m.filterSuggestions(value)
}

// Height reports the number of lines consumed by the footer.
func (m Model) Height() int {
	if m.mode != ModeCommand {
		return 1
	}
	lines := len(m.filteredOptions)
	if lines > m.maxSuggestions {
		lines = m.maxSuggestions
	}
	return lines + 1
}

// View renders the footer.
func (m Model) View() string {
	if m.mode == ModeCommand {
		return m.renderCommandMode()
	}
	return m.renderStatusLine()
}

func (m Model) renderStatusLine() string {
	segments := []string{m.th.Mode.Render(m.mode.String())}
	if m.helpLine != "" {
		segments = append(segments, m.th.Help.Render(m.helpLine))
	}
	if m.statusLine != "" {
		style := m.th.Status
		if m.statusIsError {
			style = m.th.Error
		}
		segments = append(segments, style.Render(m.statusLine))
	}
	return strings.Join(segments, " │ ")
}

func (m Model) renderCommandMode() string {
	var lines []string
	limit := len(m.filteredOptions)
	if limit > m.maxSuggestions {
		limit = m.maxSuggestions
	}
	for _, opt := range m.filteredOptions[:limit] {
		name := m.th.Mode.Render(":" + opt.Name)
		if opt.Description == "" {
			lines = append(lines, name)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s  %s", name, m.th.Help.Render(opt.Description)))
	}
	commandLine := m.commandView
	if commandLine == "" {
		commandLine = ":"
	}
	return strings.Join(append(lines, commandLine), "\n")
}

func (m *Model) filterSuggestions(input string) {
	if m.mode != ModeCommand {
		m.filteredOptions = nil
		return
	}
	prefix := strings.ToLower(strings.TrimSpace(input))
	if i := strings.IndexByte(prefix, ' '); i >= 0 {
		prefix = prefix[:i]
	}
	m.filteredOptions = m.filteredOptions[:0]
	for _, opt := range m.commandOptions {
		if strings.HasPrefix(strings.ToLower(opt.Name), prefix) {
			m.filteredOptions = append(m.filteredOptions, opt)
		}
	}
}
