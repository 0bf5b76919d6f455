package stockpile

import (
	"github.com/TheBitDrifter/mask"
)

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

// Selection names the fields a query requires. It matches every archetype
// holding at least those fields, and binds them in the views a World query
// yields.
type Selection struct {
	components []Component
	mask       mask.Mask
}

// Select returns the selection requiring components.
func Select(components ...Component) Selection {
	return Selection{
		components: components,
		mask:       maskOf(components),
	}
}

// Matches reports whether archetype holds every selected field.
func (s Selection) Matches(archetype Archetype) bool {
	archeMask := archetype.Mask()
	return archeMask.ContainsAll(s.mask)
}

func (s Selection) Evaluate(archetype Archetype) bool {
	return s.Matches(archetype)
}

func (s Selection) Components() []Component {
	return s.components
}

func maskOf(components []Component) mask.Mask {
	var m mask.Mask
	for _, c := range components {
		m.Mark(uint32(c.Descriptor().id))
	}
	return m
}

type compositeNode struct {
	op       Operation
	children []QueryNode
	mask     mask.Mask
}

type query struct {
	root QueryNode
}

func newQuery() Query {
	return &query{}
}

// Evaluate tests the node's own fields against the archetype mask, then its
// children. A Not node rejects archetypes holding any of its fields or matching
// any child; with neither it matches nothing.
func (n *compositeNode) Evaluate(archetype Archetype) bool {
	archeMask := archetype.Mask()

	switch n.op {
	case OpAnd:
		return archeMask.ContainsAll(n.mask) && n.allChildren(archetype)
	case OpOr:
		return archeMask.ContainsAny(n.mask) || n.anyChild(archetype)
	case OpNot:
		if len(n.children) == 0 {
			return archeMask.ContainsNone(n.mask)
		}
		return !archeMask.ContainsAny(n.mask) && !n.anyChild(archetype)
	}
	return false
}

func (n *compositeNode) allChildren(archetype Archetype) bool {
	for _, child := range n.children {
		if !child.Evaluate(archetype) {
			return false
		}
	}
	return true
}

func (n *compositeNode) anyChild(archetype Archetype) bool {
	for _, child := range n.children {
		if child.Evaluate(archetype) {
			return true
		}
	}
	return false
}

func (q *query) And(items ...any) QueryNode {
	return q.node(OpAnd, items)
}

func (q *query) Or(items ...any) QueryNode {
	return q.node(OpOr, items)
}

func (q *query) Not(items ...any) QueryNode {
	return q.node(OpNot, items)
}

// node splits items into fields and nested nodes. Fields are folded into one
// mask up front; the first node built becomes the query's root.
func (q *query) node(op Operation, items []any) QueryNode {
	var (
		components []Component
		children   []QueryNode
	)
	for _, item := range items {
		switch v := item.(type) {
		case Component:
			components = append(components, v)
		case []Component:
			components = append(components, v...)
		case QueryNode:
			children = append(children, v)
		}
	}

	node := &compositeNode{op: op, children: children, mask: maskOf(components)}
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Evaluate(archetype Archetype) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(archetype)
}
