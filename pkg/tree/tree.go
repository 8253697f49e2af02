package tree

import (
	"fmt"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/section"
)

// Node is one element of the render tree: the root, a section or an item.
type Node struct {
	Key     node.Key
	Kind    node.Kind
	Label   string
	Section section.ID
	Count   int
	Open    bool
	Payload node.Payload

	Children []*Node
}

// Toggleable reports whether the node can be expanded and collapsed.
func (n *Node) Toggleable() bool {
	return n.Kind == node.KindModel || n.Kind == node.KindSection
}

// Title is the rendered label. Sections always show their full item count,
// also while collapsed.
func (n *Node) Title() string {
	if n.Kind == node.KindSection {
		return fmt.Sprintf("%s (%d)", n.Label, n.Count)
	}
	return n.Label
}

// Build derives the render tree. It does not modify m or state.
func Build(m *model.Model, state *State) *Node {
	if m == nil {
		m = &model.Model{}
	}
	rootOpen := state == nil || !state.RootClosed
	root := &Node{
		Key:   node.ModelKey(),
		Kind:  node.KindModel,
		Label: modelLabel(m),
		Open:  rootOpen,
	}
	sections := section.Index(m)
	root.Count = len(sections)
	root.Children = make([]*Node, 0, len(sections))
	for _, s := range sections {
		sn := &Node{
			Key:     node.SectionKey(string(s.ID)),
			Kind:    node.KindSection,
			Label:   s.Title,
			Section: s.ID,
			Count:   s.Count(),
			Open:    state.IsOpen(s.ID),
		}
		if sn.Open {
			items := s.Items()
			sn.Children = make([]*Node, 0, len(items))
			for _, it := range items {
				sn.Children = append(sn.Children, &Node{
					Key:     it.Key,
					Kind:    it.Key.Kind(),
					Label:   it.Label,
					Section: s.ID,
					Payload: it.Payload,
				})
			}
		} else {
			sn.Children = []*Node{}
		}
		root.Children = append(root.Children, sn)
	}
	return root
}

func modelLabel(m *model.Model) string {
	if m.Name == "" {
		return "Model"
	}
	return m.Name
}

// Row is a visible line of the tree.
type Row struct {
	Node  *Node
	Depth int
}

// Flatten lists the visible nodes depth first. Children of a closed root are
// skipped; closed sections have no children to begin with.
func Flatten(root *Node) []Row {
	if root == nil {
		return nil
	}
	rows := []Row{{Node: root}}
	if !root.Open {
		return rows
	}
	for _, s := range root.Children {
		rows = append(rows, Row{Node: s, Depth: 1})
		for _, it := range s.Children {
			rows = append(rows, Row{Node: it, Depth: 2})
		}
	}
	return rows
}

// IndexOf returns the row holding key, or -1.
func IndexOf(rows []Row, key node.Key) int {
	for i, r := range rows {
		if r.Node.Key == key {
			return i
		}
	}
	return -1
}
