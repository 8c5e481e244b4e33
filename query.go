package lattice

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// Query is a composable filter over archetype signatures (spec C7's input).
type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

// QueryNode is a single evaluable node in a query tree.
type QueryNode interface {
	Evaluate(a *archetype, sp *Space) bool
}

type queryOperation int

const (
	opAnd queryOperation = iota
	opOr
	opNot
)

type compositeNode struct {
	op         queryOperation
	children   []QueryNode
	components []Component
}

type leafNode struct {
	components []Component
}

type query struct {
	root QueryNode
}

// newQuery returns an empty, unrooted Query builder.
func newQuery() Query {
	return &query{}
}

func newCompositeNode(op queryOperation, components []Component) *compositeNode {
	return &compositeNode{op: op, components: components}
}

func signatureOfComponents(sp *Space, components []Component) Signature {
	var sig Signature
	for _, c := range components {
		sp.schema.Register(c)
		sig.Mark(sp.schema.RowIndexFor(c))
	}
	return sig
}

func (n *compositeNode) Evaluate(a *archetype, sp *Space) bool {
	nodeMask := signatureOfComponents(sp, n.components)
	switch n.op {
	case opAnd:
		if !a.signature.ContainsAll(nodeMask) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(a, sp) {
				return false
			}
		}
		return true
	case opOr:
		if a.signature.ContainsAny(nodeMask) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(a, sp) {
				return true
			}
		}
		return false
	case opNot:
		if len(n.children) == 0 {
			return a.signature.ContainsNone(nodeMask)
		}
		if len(n.components) > 0 && !a.signature.ContainsNone(nodeMask) {
			return false
		}
		for _, child := range n.children {
			if child.Evaluate(a, sp) {
				return false
			}
		}
		return true
	}
	return false
}

func (n *leafNode) Evaluate(a *archetype, sp *Space) bool {
	nodeMask := signatureOfComponents(sp, n.components)
	return a.signature.ContainsAll(nodeMask)
}

func (q *query) And(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(opAnd, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Or(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(opOr, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Not(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(opNot, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) validateQueryItems(items ...interface{}) error {
	for _, item := range items {
		switch item.(type) {
		case Component, []Component, QueryNode, Query:
			continue
		default:
			return fmt.Errorf("lattice: invalid query item type %T, want Component, []Component, or QueryNode", item)
		}
	}
	return nil
}

func (q *query) processItems(items ...interface{}) ([]Component, []QueryNode) {
	if err := q.validateQueryItems(items...); err != nil {
		panic(bark.AddTrace(err))
	}
	components := make([]Component, 0, len(items))
	children := make([]QueryNode, 0, len(items))
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
	return components, children
}

func (q *query) Evaluate(a *archetype, sp *Space) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(a, sp)
}
