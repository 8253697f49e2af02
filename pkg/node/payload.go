package node

import (
	"fmt"

	"sigs.k8s.io/yaml"

	"tableflip.dev/modelnav/pkg/model"
)

// Payload is the entity carried by a selected node. The set of variants is
// closed; switch on the concrete type to dispatch by kind.
type Payload interface {
	Kind() Kind
	payload()
}

// ClassPayload carries a class.
type ClassPayload struct {
	Class model.Class `json:"class"`
}

// AssociationPayload carries an association.
type AssociationPayload struct {
	Association model.Association `json:"association"`
}

// ConstraintPayload carries an invariant or a pre/postcondition.
type ConstraintPayload struct {
	Constraint model.Constraint `json:"constraint"`
}

// EnumerationPayload carries an enumeration.
type EnumerationPayload struct {
	Enumeration model.Enumeration `json:"enumeration"`
}

// OperationPayload carries an operation together with the name of the class
// that owns it, which is needed to convert it to and from notation.
type OperationPayload struct {
	Class     string          `json:"class"`
	Operation model.Operation `json:"operation"`
}

// QueryOperationPayload is OperationPayload for query operations.
type QueryOperationPayload struct {
	Class     string          `json:"class"`
	Operation model.Operation `json:"operation"`
}

// NotesPayload is opaque text. It stands in for nodes of unknown kind and
// for notation text that failed to convert.
type NotesPayload struct {
	Text string `json:"text"`
}

func (ClassPayload) Kind() Kind          { return KindClass }
func (AssociationPayload) Kind() Kind    { return KindAssociation }
func (EnumerationPayload) Kind() Kind    { return KindEnumeration }
func (OperationPayload) Kind() Kind      { return KindOperation }
func (QueryOperationPayload) Kind() Kind { return KindQueryOperation }
func (NotesPayload) Kind() Kind          { return KindUnknown }

// Kind depends on the constraint subtype.
func (p ConstraintPayload) Kind() Kind {
	if p.Constraint.Type.IsCondition() {
		return KindCondition
	}
	return KindInvariant
}

func (ClassPayload) payload()          {}
func (AssociationPayload) payload()    {}
func (ConstraintPayload) payload()     {}
func (EnumerationPayload) payload()    {}
func (OperationPayload) payload()      {}
func (QueryOperationPayload) payload() {}
func (NotesPayload) payload()          {}

// Dump renders a payload as YAML. It is the fallback text shown when
// notation cannot be produced.
func Dump(p Payload) string {
	if n, ok := p.(NotesPayload); ok {
		return n.Text
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Sprintf("%#v", p)
	}
	return string(data)
}
