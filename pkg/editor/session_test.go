package editor

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/modelnav/pkg/log"
	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/notation/notationtest"
	"tableflip.dev/modelnav/pkg/section"
)

type emission struct {
	key     node.Key
	payload node.Payload
}

type harness struct {
	fake    *notationtest.Fake
	session *Session
	emitted []emission
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{fake: notationtest.New()}
	if opts.Logger == nil {
		opts.Logger = &log.Testing{TB: t}
	}
	h.session = New(h.fake, NewEmitter(func(k node.Key, p node.Payload) {
		h.emitted = append(h.emitted, emission{k, p})
	}), opts)
	return h
}

// run executes cmd and feeds its message back, like the Bubble Tea loop.
func (h *harness) run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	require.True(t, h.session.Update(msg), "message %T not handled", msg)
	return msg
}

func opModel() *model.Model {
	return &model.Model{
		Name: "M",
		Classes: []model.Class{{
			Name:       "C",
			Operations: []model.Operation{{Name: "foo", ReturnType: "Integer", Body: "1"}},
		}, {
			Name: "D",
		}},
	}
}

func TestSaveOperationUsesOwningClass(t *testing.T) {
	h := newHarness(t, Options{})
	m := opModel()
	key := node.OperationKey("C", 0)
	p, ok := section.Lookup(m, key)
	require.True(t, ok)

	h.run(t, h.session.Select(key, p))
	assert.Equal(t, Viewing, h.session.State())
	assert.Equal(t, "context C::foo(): Integer", h.session.Text())

	require.NoError(t, h.session.BeginEdit())
	assert.Equal(t, h.session.Text(), h.session.Draft())

	draft := "context C::foo(): Integer body: 2"
	edited := model.Operation{Name: "foo", ReturnType: "Integer", Body: "2"}
	h.fake.Parsed[draft] = edited
	require.NoError(t, h.session.SetDraft(draft))

	cmd, err := h.session.Save()
	require.NoError(t, err)
	assert.True(t, h.session.Saving())
	h.run(t, cmd)

	require.Len(t, h.emitted, 1)
	assert.Equal(t, key, h.emitted[0].key)
	assert.Equal(t, node.OperationPayload{Class: "C", Operation: edited}, h.emitted[0].payload)
	assert.Equal(t, Viewing, h.session.State())
	assert.Equal(t, draft, h.session.Text())
	assert.Empty(t, h.session.ErrorMessage())

	calls := h.fake.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, "DeserializeOperation", last.Method)
	assert.Equal(t, "C", last.Class)
	assert.Equal(t, draft, last.Text)
}

func TestStaleTextIgnored(t *testing.T) {
	h := newHarness(t, Options{})
	a := node.ClassPayload{Class: model.Class{Name: "A"}}
	b := node.ClassPayload{Class: model.Class{Name: "B"}}

	cmdA := h.session.Select(node.ClassKey("A"), a)
	cmdB := h.session.Select(node.ClassKey("B"), b)

	h.run(t, cmdB)
	h.run(t, cmdA)

	assert.Equal(t, node.ClassKey("B"), h.session.Key())
	assert.Equal(t, "class B", h.session.Text())
	assert.False(t, h.session.Loading())
}

func TestLateTextBeforeCurrentStaysLoading(t *testing.T) {
	h := newHarness(t, Options{})
	cmdA := h.session.Select(node.ClassKey("A"), node.ClassPayload{Class: model.Class{Name: "A"}})
	h.session.Select(node.ClassKey("B"), node.ClassPayload{Class: model.Class{Name: "B"}})

	h.run(t, cmdA)
	assert.True(t, h.session.Loading())
	assert.Empty(t, h.session.Text())
}

func TestBeginCancelLeavesModelUntouched(t *testing.T) {
	h := newHarness(t, Options{})
	m := opModel()
	before, err := model.Marshal(m)
	require.NoError(t, err)

	key := node.ClassKey("C")
	p, ok := section.Lookup(m, key)
	require.True(t, ok)
	h.run(t, h.session.Select(key, p))
	text := h.session.Text()

	require.NoError(t, h.session.BeginEdit())
	require.NoError(t, h.session.SetDraft("class Z"))
	require.NoError(t, h.session.CancelEdit())

	after, err := model.Marshal(m)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(before, after))
	assert.Empty(t, h.emitted)
	assert.Equal(t, Viewing, h.session.State())
	assert.Equal(t, text, h.session.Text())
	assert.Empty(t, h.session.Draft())
}

func TestSerializeFailureFallsBackToDump(t *testing.T) {
	h := newHarness(t, Options{})
	h.fake.Fail = true
	p := node.EnumerationPayload{Enumeration: model.Enumeration{Name: "Genre", Literals: []string{"fiction"}}}

	h.run(t, h.session.Select(node.EnumerationKey("Genre"), p))

	assert.Equal(t, node.Dump(p), h.session.Text())
	assert.NotEmpty(t, h.session.ErrorMessage())
	assert.False(t, h.session.Loading())

	// The dump is still editable.
	require.NoError(t, h.session.BeginEdit())
	assert.Equal(t, node.Dump(p), h.session.Draft())
}

func TestDeserializeFailureEmitsNotes(t *testing.T) {
	h := newHarness(t, Options{})
	key := node.InvariantKey(2)
	p := node.ConstraintPayload{Constraint: model.Constraint{Type: model.Invariant, Name: "positive"}}
	h.run(t, h.session.Select(key, p))
	text := h.session.Text()

	require.NoError(t, h.session.BeginEdit())
	draft := "invariant ???"
	h.fake.Reject[draft] = true
	require.NoError(t, h.session.SetDraft(draft))
	cmd, err := h.session.Save()
	require.NoError(t, err)
	msg := h.run(t, cmd)

	assert.True(t, errors.Is(msg.(DeserializedMsg).Err, notationtest.ErrRejected))
	require.Len(t, h.emitted, 1)
	assert.Equal(t, key, h.emitted[0].key)
	assert.Equal(t, node.NotesPayload{Text: draft}, h.emitted[0].payload)
	assert.Equal(t, Viewing, h.session.State())
	assert.Equal(t, text, h.session.Text())
	assert.Equal(t, p, h.session.Payload())
	assert.Contains(t, h.session.ErrorMessage(), "rejected")
}

func TestStaleSaveIsEmittedWithoutStateChange(t *testing.T) {
	h := newHarness(t, Options{})
	a := node.ClassPayload{Class: model.Class{Name: "A"}}
	h.run(t, h.session.Select(node.ClassKey("A"), a))
	require.NoError(t, h.session.BeginEdit())
	require.NoError(t, h.session.SetDraft("class A2"))
	h.fake.Parsed["class A2"] = model.Class{Name: "A2"}
	save, err := h.session.Save()
	require.NoError(t, err)

	h.run(t, h.session.Select(node.ClassKey("B"), node.ClassPayload{Class: model.Class{Name: "B"}}))
	h.run(t, save)

	require.Len(t, h.emitted, 1)
	assert.Equal(t, node.ClassKey("A"), h.emitted[0].key)
	assert.Equal(t, node.ClassPayload{Class: model.Class{Name: "A2"}}, h.emitted[0].payload)
	assert.Equal(t, node.ClassKey("B"), h.session.Key())
	assert.Equal(t, "class B", h.session.Text())
	assert.Equal(t, Viewing, h.session.State())
}

func TestInvalidTransitions(t *testing.T) {
	h := newHarness(t, Options{})
	s := h.session

	assert.ErrorIs(t, s.BeginEdit(), ErrNoSelection)
	assert.ErrorIs(t, s.CancelEdit(), ErrNoSelection)
	_, err := s.Save()
	assert.ErrorIs(t, err, ErrNoSelection)

	cmd := s.Select(node.ClassKey("A"), node.ClassPayload{Class: model.Class{Name: "A"}})
	assert.ErrorIs(t, s.BeginEdit(), ErrInvalidTransition, "text still loading")
	h.run(t, cmd)

	assert.ErrorIs(t, s.CancelEdit(), ErrInvalidTransition)
	assert.ErrorIs(t, s.SetDraft("x"), ErrInvalidTransition)
	_, err = s.Save()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, s.BeginEdit())
	assert.ErrorIs(t, s.BeginEdit(), ErrInvalidTransition)

	_, err = s.Save()
	require.NoError(t, err)
	_, err = s.Save()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, s.CancelEdit(), ErrInvalidTransition)
}

func TestTimeoutReturnsToViewing(t *testing.T) {
	h := newHarness(t, Options{Timeout: 10 * time.Millisecond})
	h.fake.Gate = make(chan struct{})

	msg := h.run(t, h.session.Select(node.ClassKey("A"), node.ClassPayload{Class: model.Class{Name: "A"}}))

	assert.ErrorIs(t, msg.(SerializedMsg).Err, context.DeadlineExceeded)
	assert.False(t, h.session.Loading())
	assert.Equal(t, Viewing, h.session.State())
	assert.Equal(t, "notation service timed out", h.session.ErrorMessage())

	require.NoError(t, h.session.BeginEdit())
	cmd, err := h.session.Save()
	require.NoError(t, err)
	h.run(t, cmd)

	assert.Equal(t, Viewing, h.session.State())
	assert.Equal(t, "notation service timed out", h.session.ErrorMessage())
	require.Len(t, h.emitted, 1)
	assert.IsType(t, node.NotesPayload{}, h.emitted[0].payload)
}

func TestNotesNeedNoConverter(t *testing.T) {
	h := newHarness(t, Options{})
	key := node.Key("note:1")
	h.run(t, h.session.Select(key, node.NotesPayload{Text: "free text"}))
	assert.Equal(t, "free text", h.session.Text())

	require.NoError(t, h.session.BeginEdit())
	require.NoError(t, h.session.SetDraft("other text"))
	cmd, err := h.session.Save()
	require.NoError(t, err)
	h.run(t, cmd)

	assert.Empty(t, h.fake.Calls())
	require.Len(t, h.emitted, 1)
	assert.Equal(t, node.NotesPayload{Text: "other text"}, h.emitted[0].payload)
	assert.Equal(t, "other text", h.session.Text())
}

func TestReconcile(t *testing.T) {
	h := newHarness(t, Options{})
	m := opModel()
	key := node.OperationKey("C", 0)
	p, _ := section.Lookup(m, key)
	h.run(t, h.session.Select(key, p))
	lookup := func(k node.Key) (node.Payload, bool) { return section.Lookup(m, k) }

	assert.False(t, h.session.Reconcile(lookup))
	assert.Equal(t, Viewing, h.session.State())

	m = &model.Model{Classes: []model.Class{{Name: "C"}}}
	assert.True(t, h.session.Reconcile(lookup))
	assert.Equal(t, Empty, h.session.State())
	assert.Empty(t, h.session.Key())
	assert.False(t, h.session.Reconcile(lookup))
}

func TestOnSelect(t *testing.T) {
	var got []node.Key
	h := newHarness(t, Options{OnSelect: func(k node.Key, _ node.Payload) { got = append(got, k) }})
	h.session.Select(node.ClassKey("A"), node.ClassPayload{})
	h.session.Select(node.EnumerationKey("E"), node.EnumerationPayload{})
	assert.Equal(t, []node.Key{node.ClassKey("A"), node.EnumerationKey("E")}, got)
}

func TestUpdateIgnoresForeignMessages(t *testing.T) {
	h := newHarness(t, Options{})
	assert.False(t, h.session.Update(tea.KeyPressMsg{}))
}
