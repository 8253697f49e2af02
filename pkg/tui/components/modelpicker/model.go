// Package modelpicker lists stored models so one can be opened.
package modelpicker

import (
	"github.com/charmbracelet/bubbles/v2/list"
	tea "github.com/charmbracelet/bubbletea/v2"
)

// Model wraps a bubbles list of model names.
type Model struct {
	list list.Model
}

// New constructs the picker with the provided model names.
func New(names []string) *Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	l := list.New(itemsFromNames(names), delegate, 0, 0)
	l.Title = "Models"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	return &Model{list: l}
}

// SetItems replaces the listed names.
func (m *Model) SetItems(names []string) {
	m.list.SetItems(itemsFromNames(names))
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Selected returns the highlighted name.
func (m *Model) Selected() (string, bool) {
	it, ok := m.list.SelectedItem().(modelItem)
	return it.name, ok
}

// Filtering reports whether the user is typing a filter, in which case keys
// belong to the list.
func (m *Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Update forwards Bubble Tea messages to the list.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

// View renders the list.
func (m *Model) View() string {
	return m.list.View()
}

func itemsFromNames(names []string) []list.Item {
	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		items = append(items, modelItem{name: name})
	}
	return items
}

type modelItem struct {
	name string
}

func (c modelItem) Title() string       { return c.name }
func (modelItem) Description() string   { return "" }
func (c modelItem) FilterValue() string { return c.name }
