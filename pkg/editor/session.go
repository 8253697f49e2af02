// Package editor holds the selection and edit state of one node at a time.
//
// A Session moves between three states. Select enters Viewing and asks the
// notation converter for the node's text; BeginEdit enters Editing with a
// draft seeded from that text; Save converts the draft back and emits the
// result; CancelEdit drops the draft. Converter calls run inside tea.Cmd
// closures and report back through Update, tagged with the generation that
// was current when they were issued. Results from older generations never
// change the session.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/modelnav/pkg/log"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/notation"
)

var (
	// ErrInvalidTransition is returned when an operation is not allowed in the
	// current state.
	ErrInvalidTransition = errors.New("editor: invalid transition")
	// ErrNoSelection is returned by edit operations while nothing is selected.
	ErrNoSelection = errors.New("editor: no selection")
)

// State of a Session.
type State int

const (
	Empty State = iota
	Viewing
	Editing
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	default:
		return "empty"
	}
}

// Options tune a Session. The zero value is usable.
type Options struct {
	// Timeout bounds each converter call. Zero means no bound.
	Timeout time.Duration
	Logger  log.Logger
	// OnSelect is called synchronously by Select.
	OnSelect func(key node.Key, payload node.Payload)
}

// SerializedMsg carries the text for a selected node.
type SerializedMsg struct {
	Generation uint64
	Key        node.Key
	Text       string
	Err        error
}

// DeserializedMsg carries the result of converting a saved draft.
type DeserializedMsg struct {
	Generation uint64
	Key        node.Key
	Draft      string
	Payload    node.Payload
	Err        error
}

// Session is the selection and edit state machine. It is not safe for
// concurrent use; Bubble Tea drives it from a single goroutine.
type Session struct {
	conv notation.Converter
	emit *Emitter
	opts Options
	log  log.Logger

	state   State
	key     node.Key
	payload node.Payload
	text    string
	draft   string
	loading bool
	saving  bool
	errMsg  string
	gen     uint64
}

// New returns an empty session.
func New(conv notation.Converter, emit *Emitter, opts Options) *Session {
	l := opts.Logger
	if l == nil {
		l = log.Root
	}
	return &Session{
		conv: conv,
		emit: emit,
		opts: opts,
		log:  l.With("component", "editor"),
	}
}

func (s *Session) State() State             { return s.state }
func (s *Session) Key() node.Key            { return s.key }
func (s *Session) Payload() node.Payload    { return s.payload }
func (s *Session) Text() string             { return s.text }
func (s *Session) Draft() string            { return s.draft }
func (s *Session) Loading() bool            { return s.loading }
func (s *Session) Saving() bool             { return s.saving }
func (s *Session) ErrorMessage() string     { return s.errMsg }
func (s *Session) Generation() uint64       { return s.gen }
func (s *Session) Selected(k node.Key) bool { return s.state != Empty && s.key == k }

// Select makes (key, payload) the selection, discarding any draft, and
// returns the command that fetches its text.
func (s *Session) Select(key node.Key, payload node.Payload) tea.Cmd {
	s.gen++
	s.state = Viewing
	s.key = key
	s.payload = payload
	s.text = ""
	s.draft = ""
	s.loading = true
	s.saving = false
	s.errMsg = ""

	if s.opts.OnSelect != nil {
		s.opts.OnSelect(key, payload)
	}

	gen := s.gen
	if !hasNotation(payload) {
		text := notesText(payload)
		return func() tea.Msg {
			return SerializedMsg{Generation: gen, Key: key, Text: text}
		}
	}
	conv, timeout := s.conv, s.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		text, err := notation.Serialize(ctx, conv, payload)
		return SerializedMsg{Generation: gen, Key: key, Text: text, Err: err}
	}
}

// Clear drops the selection.
func (s *Session) Clear() {
	s.gen++
	s.state = Empty
	s.key = ""
	s.payload = nil
	s.text = ""
	s.draft = ""
	s.loading = false
	s.saving = false
	s.errMsg = ""
}

// BeginEdit seeds the draft from the current text.
func (s *Session) BeginEdit() error {
	switch {
	case s.state == Empty:
		return ErrNoSelection
	case s.state != Viewing:
		return fmt.Errorf("%w: begin edit while %s", ErrInvalidTransition, s.state)
	case s.loading:
		return fmt.Errorf("%w: text still loading", ErrInvalidTransition)
	}
	s.draft = s.text
	s.errMsg = ""
	s.state = Editing
	return nil
}

// SetDraft replaces the draft text.
func (s *Session) SetDraft(text string) error {
	if err := s.checkEditing("set draft"); err != nil {
		return err
	}
	s.draft = text
	return nil
}

// CancelEdit discards the draft. The text shown before editing is kept.
func (s *Session) CancelEdit() error {
	if err := s.checkEditing("cancel edit"); err != nil {
		return err
	}
	s.draft = ""
	s.state = Viewing
	return nil
}

// Save returns the command that converts the draft back into a payload.
// The outcome is applied when its DeserializedMsg reaches Update.
func (s *Session) Save() (tea.Cmd, error) {
	if err := s.checkEditing("save"); err != nil {
		return nil, err
	}
	s.saving = true
	s.errMsg = ""

	gen, key, like, draft := s.gen, s.key, s.payload, s.draft
	if !hasNotation(like) {
		return func() tea.Msg {
			return DeserializedMsg{Generation: gen, Key: key, Draft: draft, Payload: node.NotesPayload{Text: draft}}
		}, nil
	}
	conv, timeout := s.conv, s.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		p, err := notation.Deserialize(ctx, conv, like, draft)
		return DeserializedMsg{Generation: gen, Key: key, Draft: draft, Payload: p, Err: err}
	}, nil
}

// Update applies converter results. It reports whether msg belonged to the
// session.
func (s *Session) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case SerializedMsg:
		s.serialized(msg)
		return true
	case DeserializedMsg:
		s.deserialized(msg)
		return true
	}
	return false
}

func (s *Session) serialized(msg SerializedMsg) {
	if msg.Generation != s.gen {
		s.log.Debug("stale text dropped", "key", msg.Key, "gen", msg.Generation)
		return
	}
	s.loading = false
	if msg.Err != nil {
		s.log.Error("serialize failed", "key", msg.Key, "err", msg.Err)
		s.text = node.Dump(s.payload)
		s.errMsg = describe(msg.Err)
		return
	}
	s.text = msg.Text
}

// deserialized emits every save result, stale or not, so typed text is never
// lost. Only a current result moves the session back to Viewing.
func (s *Session) deserialized(msg DeserializedMsg) {
	payload := msg.Payload
	if msg.Err != nil {
		s.log.Error("deserialize failed", "key", msg.Key, "err", msg.Err)
		payload = node.NotesPayload{Text: msg.Draft}
	}
	s.emit.Emit(msg.Key, payload)

	if msg.Generation != s.gen || !s.saving {
		s.log.Debug("stale save applied without state change", "key", msg.Key, "gen", msg.Generation)
		return
	}
	s.saving = false
	s.draft = ""
	s.state = Viewing
	if msg.Err != nil {
		s.errMsg = describe(msg.Err)
		return
	}
	s.text = msg.Draft
	if hasNotation(s.payload) {
		s.payload = payload
	}
}

// Readdress moves the selection from one key to another after the selected
// entity was saved under a new address, e.g. a renamed class. It reports
// whether the selection was at from.
func (s *Session) Readdress(from, to node.Key) bool {
	if s.state == Empty || s.key != from {
		return false
	}
	s.log.Debug("selection readdressed", "from", from, "to", to)
	s.key = to
	return true
}

// Reconcile checks the selection against a replaced model. When the key no
// longer resolves the selection is abandoned and Reconcile returns true.
// While viewing, the payload is refreshed so later saves see the new entity.
func (s *Session) Reconcile(lookup func(node.Key) (node.Payload, bool)) bool {
	if s.state == Empty {
		return false
	}
	p, ok := lookup(s.key)
	if !ok {
		s.log.Debug("selection abandoned", "key", s.key)
		s.Clear()
		return true
	}
	if s.state == Viewing {
		s.payload = p
	}
	return false
}

func (s *Session) checkEditing(op string) error {
	switch {
	case s.state == Empty:
		return ErrNoSelection
	case s.state != Editing:
		return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, op, s.state)
	case s.saving:
		return fmt.Errorf("%w: %s while saving", ErrInvalidTransition, op)
	}
	return nil
}

func callContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

func hasNotation(p node.Payload) bool {
	if p == nil {
		return false
	}
	_, notes := p.(node.NotesPayload)
	return !notes
}

func notesText(p node.Payload) string {
	if n, ok := p.(node.NotesPayload); ok {
		return n.Text
	}
	return ""
}

func describe(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "notation service timed out"
	}
	return err.Error()
}
