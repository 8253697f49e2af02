// Package yamlnotation is a notation.Converter that renders entities as YAML
// documents. Operations carry a "# context: Class" header naming the owning
// class; a header that names a different class is rejected on the way back.
package yamlnotation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/notation"
)

const contextHeader = "# context: "

var (
	errEmpty   = errors.New("empty text")
	errNoName  = errors.New("name is required")
	errContext = errors.New("context names a different class")
)

// Converter implements notation.Converter.
type Converter struct{}

var _ notation.Converter = Converter{}

// New returns a YAML converter.
func New() Converter { return Converter{} }

func encode(kind node.Kind, v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", notation.Wrap(kind, notation.OpSerialize, err)
	}
	return string(data), nil
}

func decode(kind node.Kind, text string, v any) error {
	if strings.TrimSpace(text) == "" {
		return notation.Wrap(kind, notation.OpDeserialize, errEmpty)
	}
	if err := yaml.UnmarshalStrict([]byte(text), v); err != nil {
		return notation.Wrap(kind, notation.OpDeserialize, err)
	}
	return nil
}

func (Converter) SerializeClass(_ context.Context, c model.Class) (string, error) {
	return encode(node.KindClass, c)
}

func (Converter) DeserializeClass(_ context.Context, text string) (model.Class, error) {
	var c model.Class
	if err := decode(node.KindClass, text, &c); err != nil {
		return model.Class{}, err
	}
	if strings.TrimSpace(c.Name) == "" {
		return model.Class{}, notation.Wrap(node.KindClass, notation.OpDeserialize, errNoName)
	}
	return c, nil
}

func (Converter) SerializeAssociation(_ context.Context, a model.Association) (string, error) {
	return encode(node.KindAssociation, a)
}

func (Converter) DeserializeAssociation(_ context.Context, text string) (model.Association, error) {
	var a model.Association
	if err := decode(node.KindAssociation, text, &a); err != nil {
		return model.Association{}, err
	}
	return a, nil
}

func (Converter) SerializeConstraint(_ context.Context, c model.Constraint) (string, error) {
	return encode(kindOfConstraint(c), c)
}

func (Converter) DeserializeConstraint(_ context.Context, text string) (model.Constraint, error) {
	var c model.Constraint
	if err := decode(node.KindInvariant, text, &c); err != nil {
		return model.Constraint{}, err
	}
	switch c.Type {
	case model.Invariant, model.Precondition, model.Postcondition:
	default:
		return model.Constraint{}, notation.Wrap(kindOfConstraint(c), notation.OpDeserialize, fmt.Errorf("unknown constraint type %q", c.Type))
	}
	return c, nil
}

func (Converter) SerializeEnumeration(_ context.Context, e model.Enumeration) (string, error) {
	return encode(node.KindEnumeration, e)
}

func (Converter) DeserializeEnumeration(_ context.Context, text string) (model.Enumeration, error) {
	var e model.Enumeration
	if err := decode(node.KindEnumeration, text, &e); err != nil {
		return model.Enumeration{}, err
	}
	if strings.TrimSpace(e.Name) == "" {
		return model.Enumeration{}, notation.Wrap(node.KindEnumeration, notation.OpDeserialize, errNoName)
	}
	return e, nil
}

func (Converter) SerializeOperation(_ context.Context, class string, op model.Operation) (string, error) {
	return encodeOperation(node.KindOperation, class, op)
}

func (Converter) DeserializeOperation(_ context.Context, class string, text string) (model.Operation, error) {
	return decodeOperation(node.KindOperation, class, text)
}

func (Converter) SerializeQueryOperation(_ context.Context, class string, op model.Operation) (string, error) {
	return encodeOperation(node.KindQueryOperation, class, op)
}

func (Converter) DeserializeQueryOperation(_ context.Context, class string, text string) (model.Operation, error) {
	return decodeOperation(node.KindQueryOperation, class, text)
}

func encodeOperation(kind node.Kind, class string, op model.Operation) (string, error) {
	body, err := encode(kind, op)
	if err != nil {
		return "", err
	}
	return contextHeader + class + "\n" + body, nil
}

func decodeOperation(kind node.Kind, class, text string) (model.Operation, error) {
	if owner, ok := headerClass(text); ok && owner != class {
		return model.Operation{}, notation.Wrap(kind, notation.OpDeserialize, fmt.Errorf("%w: %q, expected %q", errContext, owner, class))
	}
	var op model.Operation
	if err := decode(kind, text, &op); err != nil {
		return model.Operation{}, err
	}
	if strings.TrimSpace(op.Name) == "" {
		return model.Operation{}, notation.Wrap(kind, notation.OpDeserialize, errNoName)
	}
	return op, nil
}

func headerClass(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, contextHeader) {
			return strings.TrimSpace(strings.TrimPrefix(line, contextHeader)), true
		}
		return "", false
	}
	return "", false
}

func kindOfConstraint(c model.Constraint) node.Kind {
	if c.Type.IsCondition() {
		return node.KindCondition
	}
	return node.KindInvariant
}
