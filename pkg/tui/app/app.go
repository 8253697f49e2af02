// Package app is the Bubble Tea program behind `modelnav ui`: a model tree on
// the left, the selected element's notation on the right.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/modelnav/pkg/app"
	"tableflip.dev/modelnav/pkg/editor"
	"tableflip.dev/modelnav/pkg/log"
	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/notation"
	"tableflip.dev/modelnav/pkg/notation/yamlnotation"
	"tableflip.dev/modelnav/pkg/section"
	"tableflip.dev/modelnav/pkg/store"
	"tableflip.dev/modelnav/pkg/tree"
	"tableflip.dev/modelnav/pkg/tui/components/bottombar"
	"tableflip.dev/modelnav/pkg/tui/components/detail"
	"tableflip.dev/modelnav/pkg/tui/components/help"
	"tableflip.dev/modelnav/pkg/tui/components/modelpicker"
	"tableflip.dev/modelnav/pkg/tui/components/treenav"
	"tableflip.dev/modelnav/pkg/tui/theme"
)

type mode int

const (
	modeNormal mode = iota
	modeEdit
	modeCommand
	modeHelp
	modePicker
)

var commandDefinitions = []bottombar.CommandOption{
	{Name: "open", Description: "Open a stored model by name"},
	{Name: "models", Description: "Pick a model from the store"},
	{Name: "reload", Description: "Reload the current model"},
	{Name: "expand", Description: "Open every section"},
	{Name: "collapse", Description: "Close every section"},
	{Name: "help", Description: "Show key bindings"},
	{Name: "quit", Description: "Exit modelnav"},
}

const (
	helpNormal = "↑/↓ move • enter select/toggle • e edit • : command • ? help • q quit"
	helpEdit   = "ctrl+s save • esc discard"
)

// Options configure the UI.
type Options struct {
	Converter notation.Converter
	// Timeout bounds each notation call; zero waits indefinitely.
	Timeout time.Duration
}

// UpdateMsg carries a saved (key, payload) pair to be committed to the model.
type UpdateMsg struct {
	Model   string
	Key     node.Key
	Payload node.Payload
}

type modelLoadedMsg struct {
	name  string
	model *model.Model
	state *tree.State
	err   error
	// reload is set when the open model was fetched again.
	reload bool
}

type modelsListedMsg struct {
	names []string
	err   error
}

type appliedMsg struct {
	name  string
	key   node.Key
	// rekey is where the saved entity lives now.
	rekey node.Key
	notes bool
	model *model.Model
	err   error
}

type errMsg struct{ err error }

// Model contains UI state.
type Model struct {
	svc    *app.Service
	ctx    context.Context
	cancel context.CancelFunc
	th     theme.Theme
	log    log.Logger

	mode mode
	name string
	doc  *model.Model

	nav     *treenav.Model
	detail  *detail.Model
	session *editor.Session
	bottom  bottombar.Model
	help    *help.Model
	picker  *modelpicker.Model
	input   textinput.Model

	pending     []UpdateMsg
	saveTargets map[uint64]string
	emitModel   string

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	termWidth  int
	termHeight int
}

// New creates a UI model backed by the Service. An empty name starts with the
// model picker.
func New(svc *app.Service, name string, opts Options) *Model {
	th := theme.Default()
	ctx, cancel := context.WithCancel(context.Background())

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	m := &Model{
		svc:    svc,
		ctx:    ctx,
		cancel: cancel,
		th:     th,
		name:   name,
		detail: detail.New(th.Detail),
		bottom: bottombar.New(th.Footer),
		input:  ti,
		nav:    treenav.New(nil, tree.NewState(), th.Tree),

		saveTargets: make(map[uint64]string),
	}
	m.log = &log.Func{Sink: m.logLine}

	conv := opts.Converter
	if conv == nil {
		conv = yamlnotation.New()
	}
	m.session = editor.New(conv, editor.NewEmitter(m.queueUpdate), editor.Options{
		Timeout:  opts.Timeout,
		Logger:   m.log,
		OnSelect: m.selected,
	})
	m.bottom.SetCommandDefinitions(commandDefinitions)
	m.bottom.SetHelp(helpNormal)
	return m
}

// Run launches the interactive TUI program.
func Run(svc *app.Service, name string, opts Options) error {
	m := New(svc, name, opts)
	defer m.cancel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init loads the model, or the list of models, and starts watching the store.
func (m *Model) Init() tea.Cmd {
	first := m.listModelsCmd()
	if m.name != "" {
		first = m.loadModelCmd(m.name)
	}
	return tea.Batch(first, startWatchCmd(m.ctx, m.svc))
}

// Update handles messages and keybindings.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
	case errMsg:
		m.bottom.SetError("ERR: " + msg.err.Error())
	case modelsListedMsg:
		m.handleModelsListed(msg)
	case modelLoadedMsg:
		m.handleModelLoaded(msg)
	case editor.SerializedMsg:
		m.session.Update(msg)
	case editor.DeserializedMsg:
		// A save lands on the model it was issued against, even after a switch.
		m.emitModel = m.saveTargets[msg.Generation]
		delete(m.saveTargets, msg.Generation)
		m.session.Update(msg)
		m.emitModel = ""
		if m.mode == modeEdit && m.session.State() != editor.Editing {
			m.detail.StopEdit()
			m.setMode(modeNormal)
		}
	case UpdateMsg:
		cmds = append(cmds, m.applyCmd(msg))
	case appliedMsg:
		m.handleApplied(msg)
	case watchStartedMsg:
		if msg.err != nil {
			m.bottom.SetError("ERR: watch " + msg.err.Error())
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		cmds = append(cmds, m.waitForWatch())
	case watchEventMsg:
		if m.name != "" && (msg.event.Type == store.EventCatalogInvalidated || msg.event.Model == m.name) {
			cmds = append(cmds, m.reloadModelCmd())
		}
		cmds = append(cmds, m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
	case tea.KeyPressMsg:
		if m.handleKeyPress(msg, &cmds) {
			return m, tea.Quit
		}
	default:
		// Blink and other component messages.
		if m.mode == modeEdit {
			cmds = append(cmds, m.detail.Update(msg))
		}
	}

	cmds = append(cmds, m.drainUpdates()...)
	m.refreshDetail()
	return m, tea.Batch(cmds...)
}

// handleKeyPress reports true when the program should quit.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	if msg.String() == "ctrl+c" {
		m.persistTreeState()
		return true
	}
	switch m.mode {
	case modeEdit:
		m.handleEditKey(msg, cmds)
	case modeCommand:
		return m.handleCommandKey(msg, cmds)
	case modeHelp:
		m.handleHelpKey(msg, cmds)
	case modePicker:
		m.handlePickerKey(msg, cmds)
	default:
		return m.handleNormalKey(msg, cmds)
	}
	return false
}

func (m *Model) handleNormalKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "q":
		m.persistTreeState()
		return true
	case "?":
		m.openHelp()
	case ":":
		m.setMode(modeCommand)
		m.input.Reset()
		*cmds = append(*cmds, m.input.Focus())
		m.bottom.UpdateCommandInput("", m.input.View())
	case "up", "k":
		m.nav.Move(-1)
	case "down", "j":
		m.nav.Move(1)
	case "g", "home":
		m.nav.Top()
	case "G", "end":
		m.nav.Bottom()
	case "right", "l":
		if m.nav.SetOpen(true) {
			m.persistTreeState()
		}
	case "left", "h":
		if m.nav.SetOpen(false) {
			m.persistTreeState()
		}
	case "enter", " ", "space":
		m.activate(cmds)
	case "e":
		m.beginEdit(cmds)
	case "pgup", "pgdown":
		*cmds = append(*cmds, m.detail.Update(msg))
	}
	return false
}

func (m *Model) handleEditKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		if err := m.session.SetDraft(m.detail.Draft()); err != nil {
			m.bottom.SetError(err.Error())
			return
		}
		cmd, err := m.session.Save()
		if err != nil {
			m.bottom.SetError(err.Error())
			return
		}
		m.saveTargets[m.session.Generation()] = m.name
		m.bottom.SetStatus("Saving " + m.session.Key().String())
		*cmds = append(*cmds, cmd)
	case "esc":
		if err := m.session.CancelEdit(); err != nil {
			m.bottom.SetError(err.Error())
			return
		}
		m.detail.StopEdit()
		m.setMode(modeNormal)
		m.bottom.SetStatus("Edit discarded")
	default:
		if m.session.Saving() {
			return
		}
		*cmds = append(*cmds, m.detail.Update(msg))
	}
}

func (m *Model) handleCommandKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.setMode(modeNormal)
		return false
	case "enter":
		raw := strings.TrimSpace(m.input.Value())
		m.input.Blur()
		m.setMode(modeNormal)
		return m.runCommand(raw, cmds)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	*cmds = append(*cmds, cmd)
	m.bottom.UpdateCommandInput(m.input.Value(), m.input.View())
	return false
}

func (m *Model) handleHelpKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "?":
		m.setMode(modeNormal)
	default:
		*cmds = append(*cmds, m.help.Update(msg))
	}
}

func (m *Model) handlePickerKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	if m.picker == nil {
		m.setMode(modeNormal)
		return
	}
	if !m.picker.Filtering() {
		switch msg.String() {
		case "enter":
			if name, ok := m.picker.Selected(); ok {
				*cmds = append(*cmds, m.loadModelCmd(name))
			}
			return
		case "esc", "q":
			if m.doc != nil {
				m.setMode(modeNormal)
			}
			return
		}
	}
	*cmds = append(*cmds, m.picker.Update(msg))
}

// runCommand executes a ":" command and reports true for quit.
func (m *Model) runCommand(raw string, cmds *[]tea.Cmd) bool {
	name, arg, _ := strings.Cut(raw, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(name) {
	case "":
	case "quit", "q", "exit":
		m.persistTreeState()
		return true
	case "help":
		m.openHelp()
	case "models":
		*cmds = append(*cmds, m.listModelsCmd())
	case "open":
		if arg == "" {
			m.bottom.SetError("usage: open <model>")
			break
		}
		*cmds = append(*cmds, m.loadModelCmd(arg))
	case "reload":
		if m.name == "" {
			m.bottom.SetError("no model open")
			break
		}
		*cmds = append(*cmds, m.reloadModelCmd())
	case "expand", "collapse":
		m.nav.SetAll(name == "expand")
		m.persistTreeState()
	default:
		m.bottom.SetError("Unknown command: " + name)
	}
	return false
}

// activate toggles a root or section row and selects an item row.
func (m *Model) activate(cmds *[]tea.Cmd) {
	r, ok := m.nav.Current()
	if !ok {
		return
	}
	if m.nav.Toggle() {
		m.persistTreeState()
		return
	}
	*cmds = append(*cmds, m.session.Select(r.Node.Key, r.Node.Payload))
}

// selected is the session's select callback.
func (m *Model) selected(key node.Key, _ node.Payload) {
	m.bottom.SetStatus("Selected " + key.String())
}

func (m *Model) beginEdit(cmds *[]tea.Cmd) {
	if err := m.session.BeginEdit(); err != nil {
		m.bottom.SetError(err.Error())
		return
	}
	m.setMode(modeEdit)
	*cmds = append(*cmds, m.detail.StartEdit(m.session.Draft()))
}

func (m *Model) openHelp() {
	w, h := m.termWidth*4/5, m.termHeight*4/5
	if m.help == nil {
		m.help = help.New(w, h)
	} else {
		m.help.SetSize(w, h)
	}
	m.setMode(modeHelp)
}

func (m *Model) setMode(md mode) {
	m.mode = md
	switch md {
	case modeEdit:
		m.bottom.SetMode(bottombar.ModeEdit)
		m.bottom.SetHelp(helpEdit)
	case modeCommand:
		m.bottom.SetMode(bottombar.ModeCommand)
	case modeHelp:
		m.bottom.SetMode(bottombar.ModeHelp)
		m.bottom.SetHelp("esc close")
	case modePicker:
		m.bottom.SetMode(bottombar.ModePicker)
		m.bottom.SetHelp("enter open • / filter")
	default:
		m.bottom.SetMode(bottombar.ModeNormal)
		m.bottom.SetHelp(helpNormal)
	}
	m.applySizes()
}

func (m *Model) handleModelsListed(msg modelsListedMsg) {
	if msg.err != nil {
		m.bottom.SetError("ERR: " + msg.err.Error())
		return
	}
	if len(msg.names) == 0 {
		m.bottom.SetStatus("No models stored; run `modelnav import <file>`")
	}
	if m.picker == nil {
		m.picker = modelpicker.New(msg.names)
	} else {
		m.picker.SetItems(msg.names)
	}
	m.setMode(modePicker)
}

func (m *Model) handleModelLoaded(msg modelLoadedMsg) {
	if msg.reload && msg.name != m.name {
		return
	}
	if msg.err != nil {
		m.bottom.SetError("ERR: " + msg.err.Error())
		return
	}
	if msg.name != m.name || m.doc == nil {
		m.persistTreeState()
		m.name = msg.name
		m.doc = msg.model
		m.nav = treenav.New(msg.model, msg.state, m.th.Tree)
		m.session.Clear()
		m.detail.StopEdit()
		m.setMode(modeNormal)
		m.bottom.SetStatus("Opened " + msg.name)
		return
	}
	m.replaceModel(msg.model)
}

func (m *Model) handleApplied(msg appliedMsg) {
	if msg.err != nil {
		m.bottom.SetError(fmt.Sprintf("save %s failed: %v", msg.key, msg.err))
		return
	}
	if msg.name != m.name {
		m.bottom.SetStatus(fmt.Sprintf("Saved %s in %s", msg.key, msg.name))
		return
	}
	follow := false
	if msg.rekey != "" && msg.rekey != msg.key {
		if r, ok := m.nav.Current(); ok && r.Node.Key == msg.key {
			follow = true
		}
		m.session.Readdress(msg.key, msg.rekey)
	}
	m.replaceModel(msg.model)
	if follow {
		m.nav.Reveal(msg.rekey)
	}
	if msg.notes {
		m.bottom.SetError(fmt.Sprintf("%s kept as notes: %s", msg.key, m.session.ErrorMessage()))
		return
	}
	m.bottom.SetStatus("Saved " + msg.rekey.String())
}

// replaceModel swaps in a new snapshot of the open model and drops the
// selection if its element is gone.
func (m *Model) replaceModel(mm *model.Model) {
	m.doc = mm
	m.nav.SetModel(mm)
	lookup := func(k node.Key) (node.Payload, bool) { return section.Lookup(mm, k) }
	if m.session.Reconcile(lookup) {
		m.detail.StopEdit()
		if m.mode == modeEdit {
			m.setMode(modeNormal)
		}
		m.bottom.SetError("Selected element was removed from the model")
	}
}

func (m *Model) queueUpdate(key node.Key, payload node.Payload) {
	target := m.emitModel
	if target == "" {
		target = m.name
	}
	m.pending = append(m.pending, UpdateMsg{Model: target, Key: key, Payload: payload})
}

func (m *Model) drainUpdates() []tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(m.pending))
	for _, u := range m.pending {
		u := u
		cmds = append(cmds, func() tea.Msg { return u })
	}
	m.pending = nil
	return cmds
}

func (m *Model) logLine(line string) {
	if strings.HasPrefix(line, "ERR ") {
		m.bottom.SetError(line)
	}
}

func (m *Model) refreshDetail() {
	var notes string
	if m.doc != nil && m.session.State() != editor.Empty {
		notes = m.doc.Unparsed[m.session.Key().String()]
	}
	m.detail.Refresh(m.session, notes)
}

func (m *Model) persistTreeState() {
	if m.svc == nil || m.name == "" || m.doc == nil {
		return
	}
	if err := m.svc.SaveTreeState(m.name, m.nav.State()); err != nil {
		m.bottom.SetError("ERR: save view " + err.Error())
	}
}

func (m *Model) loadModelCmd(name string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		mm, err := svc.Model(ctx, name)
		if err != nil {
			return modelLoadedMsg{name: name, err: err}
		}
		st, err := svc.TreeState(name)
		if err != nil {
			st = tree.NewState()
		}
		return modelLoadedMsg{name: name, model: mm, state: st}
	}
}

func (m *Model) reloadModelCmd() tea.Cmd {
	load := m.loadModelCmd(m.name)
	return func() tea.Msg {
		msg := load().(modelLoadedMsg)
		msg.reload = true
		return msg
	}
}

func (m *Model) listModelsCmd() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		names, err := svc.Models(ctx)
		return modelsListedMsg{names: names, err: err}
	}
}

func (m *Model) applyCmd(u UpdateMsg) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		_, notes := u.Payload.(node.NotesPayload)
		mm, err := svc.Apply(ctx, u.Model, u.Key, u.Payload)
		return appliedMsg{name: u.Model, key: u.Key, rekey: app.Rekey(u.Key, u.Payload), notes: notes, model: mm, err: err}
	}
}

// View renders the tree and detail panes with the footer below.
func (m *Model) View() string {
	footer := m.bottom.View()
	switch m.mode {
	case modeHelp:
		if m.help != nil {
			body := lipgloss.Place(m.termWidth, max(m.termHeight-1, 1), lipgloss.Center, lipgloss.Center, m.help.View())
			return body + "\n" + footer
		}
	case modePicker:
		if m.picker != nil {
			return m.picker.View() + "\n" + footer
		}
	}

	leftStyle, rightStyle := m.th.Pane.Focused, m.th.Pane.Blurred
	if m.mode == modeEdit {
		leftStyle, rightStyle = rightStyle, leftStyle
	}
	left := leftStyle.Render(m.nav.View(m.session.Key()))
	right := rightStyle.Render(m.detail.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return body + "\n" + footer
}

// applySizes recalculates pane sizes based on current terminal size.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	frameX := m.th.Pane.Focused.GetHorizontalFrameSize()
	frameY := m.th.Pane.Focused.GetVerticalFrameSize()

	left := m.termWidth / 3
	if left < 24 {
		left = min(24, m.termWidth)
	}
	right := max(m.termWidth-left, 1)
	height := max(m.termHeight-m.bottom.Height()-frameY, 1)

	m.nav.SetSize(max(left-frameX, 1), height)
	m.detail.SetSize(max(right-frameX, 1), height)
	if m.picker != nil {
		m.picker.SetSize(m.termWidth, max(m.termHeight-1, 1))
	}
	if m.help != nil && m.mode == modeHelp {
		m.help.SetSize(m.termWidth*4/5, m.termHeight*4/5)
	}
}
