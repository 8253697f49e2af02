package section

import (
	"sort"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
)

// Lookup resolves key against the current model. It reports false when the
// addressed entity no longer exists, or the key is not an entity key.
func Lookup(m *model.Model, key node.Key) (node.Payload, bool) {
	if m == nil {
		return nil, false
	}
	addr, err := node.Parse(key)
	if err != nil {
		return nil, false
	}
	switch addr.Kind {
	case node.KindClass:
		if i := m.ClassByName(addr.Name); i >= 0 {
			return node.ClassPayload{Class: m.Classes[i]}, true
		}
	case node.KindEnumeration:
		if i := m.EnumerationByName(addr.Name); i >= 0 {
			return node.EnumerationPayload{Enumeration: m.Enumerations[i]}, true
		}
	case node.KindAssociation:
		if addr.Index < len(m.Associations) {
			return node.AssociationPayload{Association: m.Associations[addr.Index]}, true
		}
	case node.KindInvariant, node.KindCondition:
		if addr.Index < len(m.Constraints) {
			c := m.Constraints[addr.Index]
			if c.Type.IsCondition() == (addr.Kind == node.KindCondition) {
				return node.ConstraintPayload{Constraint: c}, true
			}
		}
	case node.KindOperation, node.KindQueryOperation:
		ci := m.ClassByName(addr.Name)
		if ci < 0 {
			return nil, false
		}
		class := m.Classes[ci]
		if addr.Kind == node.KindOperation && addr.Index < len(class.Operations) {
			return node.OperationPayload{Class: class.Name, Operation: class.Operations[addr.Index]}, true
		}
		if addr.Kind == node.KindQueryOperation && addr.Index < len(class.QueryOperations) {
			return node.QueryOperationPayload{Class: class.Name, Operation: class.QueryOperations[addr.Index]}, true
		}
	}
	return nil, false
}

// Keys lists every entity key derivable from m, section by section.
func Keys(m *model.Model) []node.Key {
	var keys []node.Key
	for _, s := range Index(m) {
		for _, it := range s.Items() {
			keys = append(keys, it.Key)
		}
	}
	return keys
}

// PruneNotes drops notes kept under keys that no longer resolve in m and
// returns the dropped keys. Unparsed is set to nil when it ends up empty.
func PruneNotes(m *model.Model) []string {
	if m == nil {
		return nil
	}
	var dropped []string
	for k := range m.Unparsed {
		if _, ok := Lookup(m, node.Key(k)); !ok {
			delete(m.Unparsed, k)
			dropped = append(dropped, k)
		}
	}
	if len(m.Unparsed) == 0 {
		m.Unparsed = nil
	}
	sort.Strings(dropped)
	return dropped
}
