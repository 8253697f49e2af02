// Package model defines the structured class model browsed by modelnav.
package model

// ConstraintType tags a constraint as an invariant or an operation condition.
type ConstraintType string

const (
	// Invariant holds for every instance of its context class.
	Invariant ConstraintType = "invariant"
	// Precondition must hold before an operation runs.
	Precondition ConstraintType = "precondition"
	// Postcondition must hold after an operation returns.
	Postcondition ConstraintType = "postcondition"
)

// AllConstraintTypes returns the supported constraint subtypes.
func AllConstraintTypes() []ConstraintType {
	return []ConstraintType{Invariant, Precondition, Postcondition}
}

// IsCondition reports whether the type is a pre- or postcondition.
func (t ConstraintType) IsCondition() bool {
	return t == Precondition || t == Postcondition
}

// AssociationKind distinguishes plain associations from whole/part ones.
type AssociationKind string

const (
	KindAssociation AssociationKind = "association"
	KindAggregation AssociationKind = "aggregation"
	KindComposition AssociationKind = "composition"
)

// Model is a snapshot of a class model. Collection order is significant:
// index-addressed nodes depend on it staying stable between renders.
type Model struct {
	Name         string        `json:"name"`
	Classes      []Class       `json:"classes,omitempty"`
	Associations []Association `json:"associations,omitempty"`
	Constraints  []Constraint  `json:"constraints,omitempty"`
	Enumerations []Enumeration `json:"enumerations,omitempty"`

	// Unparsed keeps notation text that could not be converted back into a
	// structured entity, keyed by node key.
	Unparsed map[string]string `json:"unparsed,omitempty"`
}

// Class is a named classifier with attributes and operations.
type Class struct {
	Name            string      `json:"name"`
	Abstract        bool        `json:"abstract,omitempty"`
	Superclasses    []string    `json:"superclasses,omitempty"`
	Attributes      []Attribute `json:"attributes,omitempty"`
	Operations      []Operation `json:"operations,omitempty"`
	QueryOperations []Operation `json:"queryOperations,omitempty"`
}

// Attribute is carried through with its class but never addressed directly.
type Attribute struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Parameter is a typed operation parameter.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Operation is a (query) operation of a class. It has no pointer to its
// owner; the owning class travels with it in node payloads.
type Operation struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters,omitempty"`
	ReturnType string      `json:"returnType,omitempty"`
	Body       string      `json:"body,omitempty"`
}

// AssociationEnd is one participant of an association.
type AssociationEnd struct {
	Class        string `json:"class"`
	Role         string `json:"role,omitempty"`
	Multiplicity string `json:"multiplicity,omitempty"`
}

// Association relates two or more classes. Name is optional.
type Association struct {
	Name string           `json:"name,omitempty"`
	Kind AssociationKind  `json:"kind,omitempty"`
	Ends []AssociationEnd `json:"ends,omitempty"`
}

// Constraint is an invariant, precondition or postcondition.
type Constraint struct {
	Type       ConstraintType `json:"type"`
	Name       string         `json:"name,omitempty"`
	Context    string         `json:"context,omitempty"`
	Expression string         `json:"expression,omitempty"`
}

// Enumeration is a named set of literals.
type Enumeration struct {
	Name     string   `json:"name"`
	Literals []string `json:"literals,omitempty"`
}

// ClassByName returns the index of the named class or -1.
func (m *Model) ClassByName(name string) int {
	for i := range m.Classes {
		if m.Classes[i].Name == name {
			return i
		}
	}
	return -1
}

// EnumerationByName returns the index of the named enumeration or -1.
func (m *Model) EnumerationByName(name string) int {
	for i := range m.Enumerations {
		if m.Enumerations[i].Name == name {
			return i
		}
	}
	return -1
}

// Signature renders "name(p: T, ...): R".
func (o Operation) Signature() string {
	s := o.Name + "("
	for i, p := range o.Parameters {
		if i > 0 {
			s += ", "
		}
		s += p.Name
		if p.Type != "" {
			s += ": " + p.Type
		}
	}
	s += ")"
	if o.ReturnType != "" {
		s += ": " + o.ReturnType
	}
	return s
}
