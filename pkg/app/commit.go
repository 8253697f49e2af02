package app

import (
	"fmt"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/section"
)

// Commit returns a copy of m with payload stored at key. m is not modified.
//
// Notes are kept verbatim in Unparsed and leave the entity alone. A
// structured payload replaces the entity at key and drops any notes kept for
// that key. Renaming a class moves the notes of its operations along; notes
// whose key no longer resolves are dropped. The result is validated before
// it is returned.
func Commit(m *model.Model, key node.Key, payload node.Payload) (*model.Model, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: no model", ErrNotFound)
	}
	addr, err := node.Parse(key)
	if err != nil {
		return nil, err
	}
	if _, ok := section.Lookup(m, key); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	out := m.Clone()
	if notes, ok := payload.(node.NotesPayload); ok {
		if out.Unparsed == nil {
			out.Unparsed = make(map[string]string)
		}
		out.Unparsed[key.String()] = notes.Text
		return out, nil
	}

	if err := replace(out, addr, payload); err != nil {
		return nil, err
	}
	delete(out.Unparsed, key.String())
	if cp, ok := payload.(node.ClassPayload); ok && cp.Class.Name != addr.Name {
		moveOperationNotes(out, addr.Name, cp.Class.Name)
	}
	section.PruneNotes(out)
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Rekey returns the key an entity has once payload is committed at key.
// Renaming a class or enumeration changes its key, as does switching a
// constraint between invariant and pre/postcondition. Other saves keep key.
func Rekey(key node.Key, payload node.Payload) node.Key {
	addr, err := node.Parse(key)
	if err != nil {
		return key
	}
	switch p := payload.(type) {
	case node.ClassPayload:
		return node.ClassKey(p.Class.Name)
	case node.EnumerationPayload:
		return node.EnumerationKey(p.Enumeration.Name)
	case node.ConstraintPayload:
		if p.Constraint.Type.IsCondition() {
			return node.ConditionKey(addr.Index)
		}
		return node.InvariantKey(addr.Index)
	}
	return key
}

func moveOperationNotes(m *model.Model, from, to string) {
	for k, text := range m.Unparsed {
		addr, err := node.Parse(node.Key(k))
		if err != nil || addr.Name != from {
			continue
		}
		var moved node.Key
		switch addr.Kind {
		case node.KindOperation:
			moved = node.OperationKey(to, addr.Index)
		case node.KindQueryOperation:
			moved = node.QueryOperationKey(to, addr.Index)
		default:
			continue
		}
		delete(m.Unparsed, k)
		m.Unparsed[moved.String()] = text
	}
}

func replace(m *model.Model, addr node.Address, payload node.Payload) error {
	mismatch := fmt.Errorf("%w: %s payload for %s", ErrKindMismatch, kindName(payload), addr.Key())

	switch p := payload.(type) {
	case node.ClassPayload:
		if addr.Kind != node.KindClass {
			return mismatch
		}
		m.Classes[m.ClassByName(addr.Name)] = p.Class
	case node.EnumerationPayload:
		if addr.Kind != node.KindEnumeration {
			return mismatch
		}
		m.Enumerations[m.EnumerationByName(addr.Name)] = p.Enumeration
	case node.AssociationPayload:
		if addr.Kind != node.KindAssociation {
			return mismatch
		}
		m.Associations[addr.Index] = p.Association
	case node.ConstraintPayload:
		if addr.Kind != node.KindInvariant && addr.Kind != node.KindCondition {
			return mismatch
		}
		m.Constraints[addr.Index] = p.Constraint
	case node.OperationPayload:
		if addr.Kind != node.KindOperation || p.Class != addr.Name {
			return mismatch
		}
		m.Classes[m.ClassByName(addr.Name)].Operations[addr.Index] = p.Operation
	case node.QueryOperationPayload:
		if addr.Kind != node.KindQueryOperation || p.Class != addr.Name {
			return mismatch
		}
		m.Classes[m.ClassByName(addr.Name)].QueryOperations[addr.Index] = p.Operation
	default:
		return mismatch
	}
	return nil
}

func kindName(p node.Payload) string {
	if p == nil {
		return "empty"
	}
	return p.Kind().String()
}
