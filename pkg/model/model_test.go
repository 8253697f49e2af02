package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
name: Library
classes:
  - name: Book
    attributes:
      - {name: title, type: String}
    operations:
      - name: lend
        parameters:
          - {name: to, type: Member}
        returnType: Boolean
    queryOperations:
      - name: isLent
        returnType: Boolean
        body: self.loans->notEmpty()
  - name: Member
associations:
  - kind: association
    ends:
      - {class: Book, role: books, multiplicity: "*"}
      - {class: Member, role: borrower, multiplicity: "0..1"}
constraints:
  - {type: invariant, name: titled, context: Book, expression: "self.title <> ''"}
  - {type: precondition, context: "Book::lend", expression: "not self.isLent()"}
enumerations:
  - name: Genre
    literals: [fiction, poetry]
`

func TestParseYAML(t *testing.T) {
	m, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "Library", m.Name)
	require.Len(t, m.Classes, 2)
	assert.Equal(t, "lend(to: Member): Boolean", m.Classes[0].Operations[0].Signature())
	assert.Equal(t, Precondition, m.Constraints[1].Type)
	assert.Equal(t, 1, m.ClassByName("Member"))
	assert.Equal(t, -1, m.ClassByName("Nope"))
	assert.Equal(t, 0, m.EnumerationByName("Genre"))
}

func TestValidateRejectsBadNames(t *testing.T) {
	tests := map[string]*Model{
		"empty class":     {Classes: []Class{{Name: " "}}},
		"separator":       {Classes: []Class{{Name: "a:b"}}},
		"duplicate class": {Classes: []Class{{Name: "A"}, {Name: "A"}}},
		"duplicate enum":  {Enumerations: []Enumeration{{Name: "E"}, {Name: "E"}}},
		"unknown subtype": {Constraints: []Constraint{{Type: "axiom"}}},
		"enum separator":  {Enumerations: []Enumeration{{Name: "x:y"}}},
	}
	for name, m := range tests {
		t.Run(name, func(t *testing.T) {
			err := m.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestValidateAllowsSameNameAcrossKinds(t *testing.T) {
	m := &Model{
		Classes:      []Class{{Name: "Color"}},
		Enumerations: []Enumeration{{Name: "Color"}},
	}
	require.NoError(t, m.Validate())
}

func TestCloneIsDeep(t *testing.T) {
	m, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	c := m.Clone()
	c.Classes[0].Operations[0].Name = "changed"
	assert.Equal(t, "lend", m.Classes[0].Operations[0].Name)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	dir := t.TempDir()
	for _, name := range []string{"model.yaml", "model.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, m))
		got, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err = os.Stat(filepath.Join(dir, "model.yaml.tmp"))
	assert.True(t, os.IsNotExist(err))
}
