// Package section groups a model's collections into the named, independently
// collapsible sections of the model tree.
package section

import (
	"fmt"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
)

// ID names a section. It doubles as the key for the section's open flag.
type ID string

const (
	Classes         ID = "classes"
	Associations    ID = "associations"
	Invariants      ID = "invariants"
	Conditions      ID = "conditions"
	Operations      ID = "operations"
	QueryOperations ID = "query-operations"
	Enumerations    ID = "enumerations"
)

// All lists the section IDs in display order.
func All() []ID {
	return []ID{Classes, Associations, Invariants, Conditions, Operations, QueryOperations, Enumerations}
}

// Title returns the display title of the section.
func (id ID) Title() string {
	switch id {
	case Classes:
		return "Classes"
	case Associations:
		return "Associations"
	case Invariants:
		return "Invariants"
	case Conditions:
		return "Pre/Post Conditions"
	case Operations:
		return "Operations"
	case QueryOperations:
		return "Query Operations"
	case Enumerations:
		return "Enumerations"
	}
	return string(id)
}

// Item is one addressable entry of a section.
type Item struct {
	Key     node.Key
	Label   string
	Payload node.Payload
}

// Section is a derived view over one of the model's collections. Items are
// built on demand; Count does not need them.
type Section struct {
	ID    ID
	Title string

	count int
	build func() []Item
}

// Count is the number of items in the section regardless of whether they
// have been materialized.
func (s Section) Count() int { return s.count }

// Items materializes the section's entries in model order.
func (s Section) Items() []Item {
	if s.build == nil {
		return nil
	}
	return s.build()
}

// Index derives every section from m. Items read m lazily, so the model must
// not be mutated while the sections are in use; replace it instead.
func Index(m *model.Model) []Section {
	if m == nil {
		m = &model.Model{}
	}
	sections := make([]Section, 0, len(All()))
	for _, id := range All() {
		sections = append(sections, For(m, id))
	}
	return sections
}

// For derives a single section.
func For(m *model.Model, id ID) Section {
	s := Section{ID: id, Title: id.Title()}
	switch id {
	case Classes:
		s.count = len(m.Classes)
		s.build = func() []Item { return classItems(m) }
	case Associations:
		s.count = len(m.Associations)
		s.build = func() []Item { return associationItems(m) }
	case Invariants:
		s.count = countConstraints(m, false)
		s.build = func() []Item { return constraintItems(m, false) }
	case Conditions:
		s.count = countConstraints(m, true)
		s.build = func() []Item { return constraintItems(m, true) }
	case Operations:
		s.count = countOperations(m, false)
		s.build = func() []Item { return operationItems(m, false) }
	case QueryOperations:
		s.count = countOperations(m, true)
		s.build = func() []Item { return operationItems(m, true) }
	case Enumerations:
		s.count = len(m.Enumerations)
		s.build = func() []Item { return enumerationItems(m) }
	}
	return s
}

func classItems(m *model.Model) []Item {
	items := make([]Item, 0, len(m.Classes))
	for _, c := range m.Classes {
		label := c.Name
		if c.Abstract {
			label += " {abstract}"
		}
		items = append(items, Item{
			Key:     node.ClassKey(c.Name),
			Label:   label,
			Payload: node.ClassPayload{Class: c},
		})
	}
	return items
}

func associationItems(m *model.Model) []Item {
	items := make([]Item, 0, len(m.Associations))
	for i, a := range m.Associations {
		items = append(items, Item{
			Key:     node.AssociationKey(i),
			Label:   associationLabel(i, a),
			Payload: node.AssociationPayload{Association: a},
		})
	}
	return items
}

func associationLabel(i int, a model.Association) string {
	if a.Name != "" {
		return a.Name
	}
	if len(a.Ends) >= 2 {
		return fmt.Sprintf("%s - %s", a.Ends[0].Class, a.Ends[1].Class)
	}
	return fmt.Sprintf("association #%d", i+1)
}

func countConstraints(m *model.Model, conditions bool) int {
	n := 0
	for _, c := range m.Constraints {
		if c.Type.IsCondition() == conditions {
			n++
		}
	}
	return n
}

// constraintItems keeps each constraint's position in the full constraint
// list as its locator; positions are not renumbered per section.
func constraintItems(m *model.Model, conditions bool) []Item {
	items := make([]Item, 0, countConstraints(m, conditions))
	for i, c := range m.Constraints {
		if c.Type.IsCondition() != conditions {
			continue
		}
		key := node.InvariantKey(i)
		if conditions {
			key = node.ConditionKey(i)
		}
		items = append(items, Item{
			Key:     key,
			Label:   constraintLabel(i, c),
			Payload: node.ConstraintPayload{Constraint: c},
		})
	}
	return items
}

func constraintLabel(i int, c model.Constraint) string {
	name := c.Name
	if name == "" {
		name = fmt.Sprintf("#%d", i)
	}
	switch {
	case c.Type == model.Precondition:
		name = "pre " + name
	case c.Type == model.Postcondition:
		name = "post " + name
	}
	if c.Context != "" {
		return c.Context + " " + name
	}
	return name
}

func countOperations(m *model.Model, query bool) int {
	n := 0
	for _, c := range m.Classes {
		if query {
			n += len(c.QueryOperations)
		} else {
			n += len(c.Operations)
		}
	}
	return n
}

func operationItems(m *model.Model, query bool) []Item {
	items := make([]Item, 0, countOperations(m, query))
	for _, c := range m.Classes {
		ops := c.Operations
		if query {
			ops = c.QueryOperations
		}
		for i, op := range ops {
			item := Item{Label: c.Name + "::" + op.Signature()}
			if query {
				item.Key = node.QueryOperationKey(c.Name, i)
				item.Payload = node.QueryOperationPayload{Class: c.Name, Operation: op}
			} else {
				item.Key = node.OperationKey(c.Name, i)
				item.Payload = node.OperationPayload{Class: c.Name, Operation: op}
			}
			items = append(items, item)
		}
	}
	return items
}

func enumerationItems(m *model.Model) []Item {
	items := make([]Item, 0, len(m.Enumerations))
	for _, e := range m.Enumerations {
		items = append(items, Item{
			Key:     node.EnumerationKey(e.Name),
			Label:   e.Name,
			Payload: node.EnumerationPayload{Enumeration: e},
		})
	}
	return items
}
