package treenav

import (
	"testing"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/section"
	"tableflip.dev/modelnav/pkg/tree"
)

func library() *model.Model {
	return &model.Model{
		Name: "Library",
		Classes: []model.Class{
			{Name: "Book", Operations: []model.Operation{{Name: "lend"}, {Name: "return"}}},
			{Name: "Member"},
		},
	}
}

func currentKey(t *testing.T, m *Model) node.Key {
	t.Helper()
	r, ok := m.Current()
	if !ok {
		t.Fatal("no current row")
	}
	return r.Node.Key
}

func TestStartsWithSectionsClosed(t *testing.T) {
	m := New(library(), nil, tree.DefaultStyles())
	if got, want := len(m.Rows()), 1+len(section.All()); got != want {
		t.Fatalf("expected %d rows, got %d", want, got)
	}
	if currentKey(t, m) != node.ModelKey() {
		t.Fatalf("cursor should start on the root, got %s", currentKey(t, m))
	}
}

func TestToggleSection(t *testing.T) {
	m := New(library(), nil, tree.DefaultStyles())
	m.Move(1)
	if currentKey(t, m) != node.SectionKey(string(section.Classes)) {
		t.Fatalf("expected classes section, got %s", currentKey(t, m))
	}
	if !m.Toggle() {
		t.Fatal("section should toggle")
	}
	if !m.State().IsOpen(section.Classes) {
		t.Fatal("classes should be open")
	}
	m.Move(1)
	if currentKey(t, m) != node.ClassKey("Book") {
		t.Fatalf("expected Book, got %s", currentKey(t, m))
	}
	if m.Toggle() {
		t.Fatal("items do not toggle")
	}
}

func TestRevealAndCloseFromItem(t *testing.T) {
	m := New(library(), nil, tree.DefaultStyles())
	key := node.OperationKey("Book", 1)
	if !m.Reveal(key) {
		t.Fatal("reveal failed")
	}
	if currentKey(t, m) != key {
		t.Fatalf("cursor on %s, want %s", currentKey(t, m), key)
	}

	if !m.SetOpen(false) {
		t.Fatal("closing from an item should close its section")
	}
	if m.State().IsOpen(section.Operations) {
		t.Fatal("operations should be closed")
	}
	if currentKey(t, m) != node.SectionKey(string(section.Operations)) {
		t.Fatalf("cursor should move to the section, got %s", currentKey(t, m))
	}
}

func TestSetModelFollowsKey(t *testing.T) {
	m := New(library(), nil, tree.DefaultStyles())
	m.SetAll(true)
	key := node.OperationKey("Book", 0)
	m.Reveal(key)
	before := m.Cursor()

	grown := library()
	grown.Classes = append([]model.Class{{Name: "Author"}}, grown.Classes...)
	m.SetModel(grown)

	if currentKey(t, m) != key {
		t.Fatalf("cursor should stay on %s, got %s", key, currentKey(t, m))
	}
	if m.Cursor() != before+1 {
		t.Fatalf("expected cursor to shift by one row, got %d from %d", m.Cursor(), before)
	}
}

func TestSetModelClampsWhenRowsShrink(t *testing.T) {
	m := New(library(), nil, tree.DefaultStyles())
	m.SetAll(true)
	m.Bottom()

	m.SetModel(&model.Model{Name: "Empty"})
	if m.Cursor() != len(m.Rows())-1 {
		t.Fatalf("cursor %d outside %d rows", m.Cursor(), len(m.Rows()))
	}
}

func TestViewportFollowsCursor(t *testing.T) {
	m := New(library(), nil, tree.DefaultStyles())
	m.SetAll(true)
	m.SetSize(20, 3)
	m.Bottom()
	if m.offset != m.Cursor()-2 {
		t.Fatalf("expected offset %d, got %d", m.Cursor()-2, m.offset)
	}
	m.Top()
	if m.offset != 0 {
		t.Fatalf("expected offset 0, got %d", m.offset)
	}
}
