package notation_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/notation"
	"tableflip.dev/modelnav/pkg/notation/notationtest"
)

func TestSerializeDispatchesByVariant(t *testing.T) {
	ctx := context.Background()
	fake := notationtest.New()
	tests := []struct {
		payload node.Payload
		method  string
		text    string
	}{
		{node.ClassPayload{Class: model.Class{Name: "C"}}, "SerializeClass", "class C"},
		{node.AssociationPayload{Association: model.Association{Name: "A"}}, "SerializeAssociation", "association A"},
		{node.ConstraintPayload{Constraint: model.Constraint{Type: model.Invariant, Name: "i"}}, "SerializeConstraint", "invariant i"},
		{node.EnumerationPayload{Enumeration: model.Enumeration{Name: "E"}}, "SerializeEnumeration", "enum E"},
		{node.OperationPayload{Class: "C", Operation: model.Operation{Name: "foo"}}, "SerializeOperation", "context C::foo()"},
		{node.QueryOperationPayload{Class: "C", Operation: model.Operation{Name: "q"}}, "SerializeQueryOperation", "query C::q()"},
	}
	for i, tt := range tests {
		text, err := notation.Serialize(ctx, fake, tt.payload)
		if err != nil {
			t.Fatalf("%s: %v", tt.method, err)
		}
		if text != tt.text {
			t.Fatalf("%s: expected %q, got %q", tt.method, tt.text, text)
		}
		if got := fake.Calls()[i].Method; got != tt.method {
			t.Fatalf("expected %s, got %s", tt.method, got)
		}
	}
}

func TestDeserializeCarriesClassContext(t *testing.T) {
	ctx := context.Background()
	fake := notationtest.New()
	fake.Parsed["context C::foo(): Integer body: 1"] = model.Operation{Name: "foo", ReturnType: "Integer", Body: "1"}

	like := node.OperationPayload{Class: "C", Operation: model.Operation{Name: "foo"}}
	out, err := notation.Deserialize(ctx, fake, like, "context C::foo(): Integer body: 1")
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	want := node.OperationPayload{Class: "C", Operation: model.Operation{Name: "foo", ReturnType: "Integer", Body: "1"}}
	if !reflect.DeepEqual(out, node.Payload(want)) {
		t.Fatalf("expected %+v, got %+v", want, out)
	}
	call := fake.Calls()[0]
	if call.Method != "DeserializeOperation" || call.Class != "C" {
		t.Fatalf("unexpected call %+v", call)
	}
}

func TestConversionErrors(t *testing.T) {
	ctx := context.Background()
	fake := notationtest.New()
	fake.Reject["bad"] = true

	_, err := notation.Deserialize(ctx, fake, node.EnumerationPayload{}, "bad")
	var ce *notation.ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConversionError, got %v", err)
	}
	if ce.Op != notation.OpDeserialize || ce.Kind != node.KindEnumeration || !errors.Is(err, notationtest.ErrRejected) {
		t.Fatalf("unexpected error %+v", ce)
	}

	_, err = notation.Serialize(ctx, fake, node.NotesPayload{Text: "x"})
	if !errors.Is(err, notation.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	_, err = notation.Deserialize(ctx, fake, nil, "x")
	if !errors.Is(err, notation.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for nil payload, got %v", err)
	}
}

func TestDirectionNames(t *testing.T) {
	if notation.OpSerialize != "serialize" || notation.OpDeserialize != "deserialize" {
		t.Fatalf("directions are part of the remote paths: %q %q", notation.OpSerialize, notation.OpDeserialize)
	}
	err := notation.Wrap(node.KindClass, notation.OpSerialize, errors.New("boom"))
	if got, want := err.Error(), "notation: serialize class: boom"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
