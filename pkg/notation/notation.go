// Package notation defines the round-trip contract between structured model
// entities and their textual notation. The grammar of the notation belongs to
// the Converter implementation; callers treat text as opaque.
package notation

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
)

// Converter serializes entities to notation text and back, one pair of
// methods per entity kind. Operation methods take the owning class name.
type Converter interface {
	SerializeClass(ctx context.Context, c model.Class) (string, error)
	DeserializeClass(ctx context.Context, text string) (model.Class, error)

	SerializeAssociation(ctx context.Context, a model.Association) (string, error)
	DeserializeAssociation(ctx context.Context, text string) (model.Association, error)

	SerializeConstraint(ctx context.Context, c model.Constraint) (string, error)
	DeserializeConstraint(ctx context.Context, text string) (model.Constraint, error)

	SerializeEnumeration(ctx context.Context, e model.Enumeration) (string, error)
	DeserializeEnumeration(ctx context.Context, text string) (model.Enumeration, error)

	SerializeOperation(ctx context.Context, class string, op model.Operation) (string, error)
	DeserializeOperation(ctx context.Context, class string, text string) (model.Operation, error)

	SerializeQueryOperation(ctx context.Context, class string, op model.Operation) (string, error)
	DeserializeQueryOperation(ctx context.Context, class string, text string) (model.Operation, error)
}

// Direction names the conversion that failed.
type Direction string

const (
	OpSerialize   Direction = "serialize"
	OpDeserialize Direction = "deserialize"
)

// ConversionError reports a failed conversion for one entity kind.
type ConversionError struct {
	Kind node.Kind
	Op   Direction
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("notation: %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ErrUnsupported is wrapped when a payload has no notation, e.g. notes.
var ErrUnsupported = errors.New("no notation for this kind")

// Wrap returns err as a ConversionError unless it already is one.
func Wrap(kind node.Kind, op Direction, err error) error {
	if err == nil {
		return nil
	}
	var ce *ConversionError
	if errors.As(err, &ce) {
		return err
	}
	return &ConversionError{Kind: kind, Op: op, Err: err}
}

// Serialize converts the payload with the method matching its variant.
func Serialize(ctx context.Context, c Converter, p node.Payload) (string, error) {
	var (
		text string
		err  error
	)
	switch v := p.(type) {
	case node.ClassPayload:
		text, err = c.SerializeClass(ctx, v.Class)
	case node.AssociationPayload:
		text, err = c.SerializeAssociation(ctx, v.Association)
	case node.ConstraintPayload:
		text, err = c.SerializeConstraint(ctx, v.Constraint)
	case node.EnumerationPayload:
		text, err = c.SerializeEnumeration(ctx, v.Enumeration)
	case node.OperationPayload:
		text, err = c.SerializeOperation(ctx, v.Class, v.Operation)
	case node.QueryOperationPayload:
		text, err = c.SerializeQueryOperation(ctx, v.Class, v.Operation)
	default:
		return "", &ConversionError{Kind: kindOf(p), Op: OpSerialize, Err: ErrUnsupported}
	}
	return text, Wrap(p.Kind(), OpSerialize, err)
}

// Deserialize converts text into a payload of the same variant as like.
// Operation variants reuse like's owning class.
func Deserialize(ctx context.Context, c Converter, like node.Payload, text string) (node.Payload, error) {
	var (
		out node.Payload
		err error
	)
	switch v := like.(type) {
	case node.ClassPayload:
		var cl model.Class
		cl, err = c.DeserializeClass(ctx, text)
		out = node.ClassPayload{Class: cl}
	case node.AssociationPayload:
		var a model.Association
		a, err = c.DeserializeAssociation(ctx, text)
		out = node.AssociationPayload{Association: a}
	case node.ConstraintPayload:
		var cs model.Constraint
		cs, err = c.DeserializeConstraint(ctx, text)
		out = node.ConstraintPayload{Constraint: cs}
	case node.EnumerationPayload:
		var e model.Enumeration
		e, err = c.DeserializeEnumeration(ctx, text)
		out = node.EnumerationPayload{Enumeration: e}
	case node.OperationPayload:
		var op model.Operation
		op, err = c.DeserializeOperation(ctx, v.Class, text)
		out = node.OperationPayload{Class: v.Class, Operation: op}
	case node.QueryOperationPayload:
		var op model.Operation
		op, err = c.DeserializeQueryOperation(ctx, v.Class, text)
		out = node.QueryOperationPayload{Class: v.Class, Operation: op}
	default:
		return nil, &ConversionError{Kind: kindOf(like), Op: OpDeserialize, Err: ErrUnsupported}
	}
	if err != nil {
		return nil, Wrap(like.Kind(), OpDeserialize, err)
	}
	return out, nil
}

func kindOf(p node.Payload) node.Kind {
	if p == nil {
		return node.KindUnknown
	}
	return p.Kind()
}
