package yamlnotation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/notation"
)

func TestRoundTripEveryKind(t *testing.T) {
	ctx := context.Background()
	c := New()
	payloads := []node.Payload{
		node.ClassPayload{Class: model.Class{
			Name:         "Book",
			Abstract:     true,
			Superclasses: []string{"Item"},
			Attributes:   []model.Attribute{{Name: "title", Type: "String"}},
			Operations:   []model.Operation{{Name: "lend"}},
		}},
		node.AssociationPayload{Association: model.Association{
			Kind: model.KindComposition,
			Ends: []model.AssociationEnd{{Class: "Book", Multiplicity: "*"}, {Class: "Shelf", Role: "shelf"}},
		}},
		node.ConstraintPayload{Constraint: model.Constraint{Type: model.Invariant, Name: "positive", Context: "Book", Expression: "self.pages > 0"}},
		node.ConstraintPayload{Constraint: model.Constraint{Type: model.Postcondition, Context: "Book::lend", Expression: "result = true"}},
		node.EnumerationPayload{Enumeration: model.Enumeration{Name: "Genre", Literals: []string{"fiction", "poetry"}}},
		node.OperationPayload{Class: "Book", Operation: model.Operation{
			Name:       "lend",
			Parameters: []model.Parameter{{Name: "to", Type: "Member"}},
			ReturnType: "Boolean",
			Body:       "true",
		}},
		node.QueryOperationPayload{Class: "Book", Operation: model.Operation{Name: "pages", ReturnType: "Integer", Body: "1"}},
	}
	for _, p := range payloads {
		text, err := notation.Serialize(ctx, c, p)
		require.NoError(t, err, "%T", p)
		back, err := notation.Deserialize(ctx, c, p, text)
		require.NoError(t, err, "%T", p)
		assert.Equal(t, p, back, "round trip of %T via:\n%s", p, text)
	}
}

func TestOperationHeader(t *testing.T) {
	ctx := context.Background()
	text, err := New().SerializeOperation(ctx, "C", model.Operation{Name: "foo", ReturnType: "Integer", Body: "1"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "# context: C\n"), text)

	_, err = New().DeserializeOperation(ctx, "D", text)
	assert.True(t, errors.Is(err, errContext), "got %v", err)

	op, err := New().DeserializeOperation(ctx, "D", "name: foo\n")
	require.NoError(t, err, "header is optional")
	assert.Equal(t, "foo", op.Name)
}

func TestDeserializeFailures(t *testing.T) {
	ctx := context.Background()
	c := New()
	tests := map[string]func() error{
		"empty": func() error {
			_, err := c.DeserializeClass(ctx, "  \n")
			return err
		},
		"no name": func() error {
			_, err := c.DeserializeEnumeration(ctx, "literals: [a]")
			return err
		},
		"unknown field": func() error {
			_, err := c.DeserializeClass(ctx, "name: A\ncolour: red\n")
			return err
		},
		"bad yaml": func() error {
			_, err := c.DeserializeAssociation(ctx, "ends: [\n")
			return err
		},
		"bad type": func() error {
			_, err := c.DeserializeConstraint(ctx, "type: axiom\n")
			return err
		},
		"op no name": func() error {
			_, err := c.DeserializeQueryOperation(ctx, "C", "body: x\n")
			return err
		},
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			err := fn()
			var ce *notation.ConversionError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConversionError, got %v", err)
			}
			if ce.Op != notation.OpDeserialize {
				t.Fatalf("expected deserialize direction, got %s", ce.Op)
			}
		})
	}
}
