package node

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Separator splits a key's tag from its locator and an operation's class
// from its position.
const Separator = ":"

// ErrMalformedKey is returned by Parse for keys that do not decode.
var ErrMalformedKey = errors.New("node: malformed key")

// Key is the synthetic address of one tree node.
type Key string

func (k Key) String() string { return string(k) }

// Kind returns the kind encoded in the key's tag.
func (k Key) Kind() Kind { return KindOf(k) }

// Build joins a kind's tag with a locator. Names passed as locators must not
// contain Separator; model.Validate enforces that before keys are built.
func Build(kind Kind, locator string) Key {
	return Key(kind.Tag() + Separator + locator)
}

// KindOf returns the kind tagged on key, or KindUnknown.
func KindOf(key Key) Kind {
	tag, _, ok := strings.Cut(string(key), Separator)
	if !ok {
		return KindUnknown
	}
	if k, ok := kindsByTag[tag]; ok {
		return k
	}
	return KindUnknown
}

func ModelKey() Key                  { return Build(KindModel, "") }
func SectionKey(id string) Key       { return Build(KindSection, id) }
func ClassKey(name string) Key       { return Build(KindClass, name) }
func EnumerationKey(name string) Key { return Build(KindEnumeration, name) }
func AssociationKey(i int) Key       { return Build(KindAssociation, strconv.Itoa(i)) }
func InvariantKey(i int) Key         { return Build(KindInvariant, strconv.Itoa(i)) }
func ConditionKey(i int) Key         { return Build(KindCondition, strconv.Itoa(i)) }

// OperationKey addresses the i-th operation of class.
func OperationKey(class string, i int) Key {
	return Build(KindOperation, class+Separator+strconv.Itoa(i))
}

// QueryOperationKey addresses the i-th query operation of class.
func QueryOperationKey(class string, i int) Key {
	return Build(KindQueryOperation, class+Separator+strconv.Itoa(i))
}

// Address is a decoded key.
type Address struct {
	Kind  Kind
	Name  string // class, enumeration or section name; owning class for operations
	Index int    // position for index-located kinds, -1 otherwise
}

// Key re-encodes the address.
func (a Address) Key() Key {
	switch a.Kind {
	case KindOperation:
		return OperationKey(a.Name, a.Index)
	case KindQueryOperation:
		return QueryOperationKey(a.Name, a.Index)
	}
	if a.Kind.IndexLocated() {
		return Build(a.Kind, strconv.Itoa(a.Index))
	}
	return Build(a.Kind, a.Name)
}

// Parse decodes key into its kind and locator parts.
func Parse(key Key) (Address, error) {
	tag, locator, ok := strings.Cut(string(key), Separator)
	if !ok {
		return Address{}, fmt.Errorf("%w: %q has no tag", ErrMalformedKey, key)
	}
	kind, ok := kindsByTag[tag]
	if !ok {
		return Address{}, fmt.Errorf("%w: unknown tag %q", ErrMalformedKey, tag)
	}
	addr := Address{Kind: kind, Index: -1}
	switch kind {
	case KindOperation, KindQueryOperation:
		i := strings.LastIndex(locator, Separator)
		if i <= 0 {
			return Address{}, fmt.Errorf("%w: %q lacks class or position", ErrMalformedKey, key)
		}
		idx, err := parseIndex(locator[i+1:])
		if err != nil {
			return Address{}, fmt.Errorf("%w: %q: %v", ErrMalformedKey, key, err)
		}
		addr.Name, addr.Index = locator[:i], idx
	case KindAssociation, KindInvariant, KindCondition:
		idx, err := parseIndex(locator)
		if err != nil {
			return Address{}, fmt.Errorf("%w: %q: %v", ErrMalformedKey, key, err)
		}
		addr.Index = idx
	case KindModel:
	default:
		if locator == "" {
			return Address{}, fmt.Errorf("%w: %q has an empty name", ErrMalformedKey, key)
		}
		addr.Name = locator
	}
	return addr, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 || strconv.Itoa(n) != s {
		return 0, fmt.Errorf("position %q is not canonical", s)
	}
	return n, nil
}
