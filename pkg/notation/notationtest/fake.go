// Package notationtest provides a scriptable notation.Converter for tests.
package notationtest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tableflip.dev/modelnav/pkg/model"
)

// ErrRejected is returned by Fake for text listed in Reject.
var ErrRejected = errors.New("notationtest: rejected")

// Call records one converter invocation.
type Call struct {
	Method string
	Class  string
	Text   string
	Entity any
}

// Fake renders entities as "<kind> <name>" and parses text back by looking
// it up in Parsed. Text found in Reject fails to parse; Fail makes every
// serialize call fail. Gate, when set, blocks each call until it receives.
type Fake struct {
	mu    sync.Mutex
	calls []Call

	Parsed map[string]any
	Reject map[string]bool
	Fail   bool
	Gate   chan struct{}
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{Parsed: map[string]any{}, Reject: map[string]bool{}}
}

// Calls returns a copy of the recorded invocations.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *Fake) record(ctx context.Context, c Call) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	gate := f.Gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *Fake) serialize(ctx context.Context, method, class string, entity any, text string) (string, error) {
	if err := f.record(ctx, Call{Method: method, Class: class, Entity: entity}); err != nil {
		return "", err
	}
	if f.Fail {
		return "", fmt.Errorf("notationtest: %s failed", method)
	}
	return text, nil
}

func (f *Fake) parse(ctx context.Context, method, class, text string) (any, error) {
	if err := f.record(ctx, Call{Method: method, Class: class, Text: text}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Reject[text] {
		return nil, ErrRejected
	}
	v, ok := f.Parsed[text]
	if !ok {
		return nil, fmt.Errorf("notationtest: no parse result for %q", text)
	}
	return v, nil
}

func (f *Fake) SerializeClass(ctx context.Context, c model.Class) (string, error) {
	return f.serialize(ctx, "SerializeClass", "", c, "class "+c.Name)
}

func (f *Fake) DeserializeClass(ctx context.Context, text string) (model.Class, error) {
	v, err := f.parse(ctx, "DeserializeClass", "", text)
	if err != nil {
		return model.Class{}, err
	}
	return v.(model.Class), nil
}

func (f *Fake) SerializeAssociation(ctx context.Context, a model.Association) (string, error) {
	return f.serialize(ctx, "SerializeAssociation", "", a, "association "+a.Name)
}

func (f *Fake) DeserializeAssociation(ctx context.Context, text string) (model.Association, error) {
	v, err := f.parse(ctx, "DeserializeAssociation", "", text)
	if err != nil {
		return model.Association{}, err
	}
	return v.(model.Association), nil
}

func (f *Fake) SerializeConstraint(ctx context.Context, c model.Constraint) (string, error) {
	return f.serialize(ctx, "SerializeConstraint", "", c, string(c.Type)+" "+c.Name)
}

func (f *Fake) DeserializeConstraint(ctx context.Context, text string) (model.Constraint, error) {
	v, err := f.parse(ctx, "DeserializeConstraint", "", text)
	if err != nil {
		return model.Constraint{}, err
	}
	return v.(model.Constraint), nil
}

func (f *Fake) SerializeEnumeration(ctx context.Context, e model.Enumeration) (string, error) {
	return f.serialize(ctx, "SerializeEnumeration", "", e, "enum "+e.Name)
}

func (f *Fake) DeserializeEnumeration(ctx context.Context, text string) (model.Enumeration, error) {
	v, err := f.parse(ctx, "DeserializeEnumeration", "", text)
	if err != nil {
		return model.Enumeration{}, err
	}
	return v.(model.Enumeration), nil
}

func (f *Fake) SerializeOperation(ctx context.Context, class string, op model.Operation) (string, error) {
	return f.serialize(ctx, "SerializeOperation", class, op, "context "+class+"::"+op.Signature())
}

func (f *Fake) DeserializeOperation(ctx context.Context, class string, text string) (model.Operation, error) {
	v, err := f.parse(ctx, "DeserializeOperation", class, text)
	if err != nil {
		return model.Operation{}, err
	}
	return v.(model.Operation), nil
}

func (f *Fake) SerializeQueryOperation(ctx context.Context, class string, op model.Operation) (string, error) {
	return f.serialize(ctx, "SerializeQueryOperation", class, op, "query "+class+"::"+op.Signature())
}

func (f *Fake) DeserializeQueryOperation(ctx context.Context, class string, text string) (model.Operation, error) {
	v, err := f.parse(ctx, "DeserializeQueryOperation", class, text)
	if err != nil {
		return model.Operation{}, err
	}
	return v.(model.Operation), nil
}
