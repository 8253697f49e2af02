// Package node addresses the entities shown in the model tree. It defines
// the kinds of node, the synthetic keys that identify them and the payload
// variants carried by a selection.
package node

// Kind identifies what a tree node refers to.
type Kind int

const (
	// KindUnknown is returned for keys with an unrecognized tag.
	KindUnknown Kind = iota
	KindModel
	KindSection
	KindClass
	KindAssociation
	KindInvariant
	KindCondition
	KindOperation
	KindQueryOperation
	KindEnumeration
)

// tags reserves one literal prefix per kind. A tag never contains the
// separator, so the prefix before the first separator decides the kind.
var tags = map[Kind]string{
	KindModel:          "model",
	KindSection:        "section",
	KindClass:          "class",
	KindAssociation:    "assoc",
	KindInvariant:      "inv",
	KindCondition:      "cond",
	KindOperation:      "op",
	KindQueryOperation: "qop",
	KindEnumeration:    "enum",
}

var kindsByTag = func() map[string]Kind {
	out := make(map[string]Kind, len(tags))
	for k, t := range tags {
		out[t] = k
	}
	return out
}()

// Tag returns the key prefix reserved for the kind.
func (k Kind) Tag() string {
	return tags[k]
}

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindSection:
		return "section"
	case KindClass:
		return "class"
	case KindAssociation:
		return "association"
	case KindInvariant:
		return "invariant"
	case KindCondition:
		return "condition"
	case KindOperation:
		return "operation"
	case KindQueryOperation:
		return "query operation"
	case KindEnumeration:
		return "enumeration"
	default:
		return "unknown"
	}
}

// IndexLocated reports whether nodes of this kind are addressed by position
// rather than by name.
func (k Kind) IndexLocated() bool {
	switch k {
	case KindAssociation, KindInvariant, KindCondition, KindOperation, KindQueryOperation:
		return true
	}
	return false
}
