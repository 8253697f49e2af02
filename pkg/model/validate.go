package model

import (
	"errors"
	"fmt"
	"strings"
)

// Separator is reserved by node keys and may not appear in class or
// enumeration names.
const Separator = ":"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("model: invalid")

// Validate checks the invariants node addressing relies on: class and
// enumeration names are non-empty, unique and free of the key separator, and
// constraints carry a known subtype.
func (m *Model) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil model", ErrInvalid)
	}
	var errs []error
	seen := make(map[string]bool, len(m.Classes))
	for i, c := range m.Classes {
		if err := checkName("class", i, c.Name, seen); err != nil {
			errs = append(errs, err)
		}
	}
	seen = make(map[string]bool, len(m.Enumerations))
	for i, e := range m.Enumerations {
		if err := checkName("enumeration", i, e.Name, seen); err != nil {
			errs = append(errs, err)
		}
	}
	for i, c := range m.Constraints {
		switch c.Type {
		case Invariant, Precondition, Postcondition:
		default:
			errs = append(errs, fmt.Errorf("%w: constraint %d has unknown type %q", ErrInvalid, i, c.Type))
		}
	}
	return errors.Join(errs...)
}

func checkName(what string, idx int, name string, seen map[string]bool) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: %s %d has no name", ErrInvalid, what, idx)
	case strings.Contains(name, Separator):
		return fmt.Errorf("%w: %s name %q contains %q", ErrInvalid, what, name, Separator)
	case seen[name]:
		return fmt.Errorf("%w: duplicate %s name %q", ErrInvalid, what, name)
	}
	seen[name] = true
	return nil
}
