package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/store"
)

func TestRekey(t *testing.T) {
	tests := map[string]struct {
		key     node.Key
		payload node.Payload
		want    node.Key
	}{
		"class rename": {
			key:     node.ClassKey("Member"),
			payload: node.ClassPayload{Class: model.Class{Name: "Patron"}},
			want:    node.ClassKey("Patron"),
		},
		"enumeration rename": {
			key:     node.EnumerationKey("Genre"),
			payload: node.EnumerationPayload{Enumeration: model.Enumeration{Name: "Kind"}},
			want:    node.EnumerationKey("Kind"),
		},
		"invariant becomes precondition": {
			key:     node.InvariantKey(2),
			payload: node.ConstraintPayload{Constraint: model.Constraint{Type: model.Precondition, Context: "Book::lend"}},
			want:    node.ConditionKey(2),
		},
		"condition becomes invariant": {
			key:     node.ConditionKey(1),
			payload: node.ConstraintPayload{Constraint: model.Constraint{Type: model.Invariant, Context: "Book"}},
			want:    node.InvariantKey(1),
		},
		"operation keeps its key": {
			key:     node.OperationKey("Book", 0),
			payload: node.OperationPayload{Class: "Book", Operation: model.Operation{Name: "borrow"}},
			want:    node.OperationKey("Book", 0),
		},
		"notes keep their key": {
			key:     node.ClassKey("Member"),
			payload: node.NotesPayload{Text: "class Patron {"},
			want:    node.ClassKey("Member"),
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Rekey(tc.key, tc.payload); got != tc.want {
				t.Fatalf("Rekey(%s) = %s, want %s", tc.key, got, tc.want)
			}
		})
	}
}

func TestEditReportsRenamedKey(t *testing.T) {
	ctx := context.Background()
	s := newService(sample())

	out, err := s.Edit(ctx, "Library", node.ClassKey("Member"), "name: Patron\n", yamlOptions(t))
	require.NoError(t, err)
	assert.False(t, out.AsNotes)
	assert.Equal(t, node.ClassKey("Patron"), out.Key)

	r, err := s.Render(ctx, "Library", out.Key, yamlOptions(t))
	require.NoError(t, err)
	assert.Contains(t, r.Text, "name: Patron")
}

func TestCommitRenameMovesOperationNotes(t *testing.T) {
	m := sample()
	m.Classes[1].Operations = []model.Operation{{Name: "join"}}
	m.Unparsed = map[string]string{
		"op:Member:0":  "join(",
		"class:Member": "class Member {",
		"op:Book:0":    "lend(",
	}
	renamed := m.Classes[1]
	renamed.Name = "Patron"

	out, err := Commit(m, node.ClassKey("Member"), node.ClassPayload{Class: renamed})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"op:Patron:0": "join(",
		"op:Book:0":   "lend(",
	}, out.Unparsed)
	assert.Equal(t, "join(", m.Unparsed["op:Member:0"], "input must not change")
}

func TestCommitDropsNotesOfRemovedOperations(t *testing.T) {
	m := sample()
	m.Unparsed = map[string]string{"qop:Book:0": "pages(:"}
	book := m.Classes[0]
	book.QueryOperations = nil

	out, err := Commit(m, node.ClassKey("Book"), node.ClassPayload{Class: book})
	require.NoError(t, err)
	assert.Nil(t, out.Unparsed)
}

func TestModelPrunesOrphanNotes(t *testing.T) {
	m := sample()
	m.Unparsed = map[string]string{
		"class:Ghost": "class Ghost",
		"inv:7":       "x > 0",
		"enum:Genre":  "enum Genre {",
	}
	s := &Service{Persistence: store.NewMemory(m)}

	got, err := s.Model(context.Background(), "Library")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"enum:Genre": "enum Genre {"}, got.Unparsed)
}
