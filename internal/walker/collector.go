package walker

import "github.com/blendsdk/blend65/internal/ast"

// collectingVisitor adapts a predicate into a Visitor that records every
// matching node.
type collectingVisitor struct {
	BaseVisitor
	predicate func(ast.Node) bool
	matches   []ast.Node
}

func (c *collectingVisitor) Enter(n ast.Node, _ []ast.Node) (bool, bool) {
	if c.predicate(n) {
		c.matches = append(c.matches, n)
	}
	return false, true
}

// NodeFinder finds every node in a tree matching a predicate.
type NodeFinder struct{}

// Find returns every node reachable from root for which predicate is
// true, in source order.
func (NodeFinder) Find(root ast.Node, predicate func(ast.Node) bool) []ast.Node {
	v := &collectingVisitor{predicate: predicate}
	New(v).Walk(root)
	return v.matches
}

// FindFirst returns the first matching node, or nil if none matches.
func (NodeFinder) FindFirst(root ast.Node, predicate func(ast.Node) bool) ast.Node {
	var found ast.Node
	v := &stoppingVisitor{predicate: predicate, found: &found}
	New(v).Walk(root)
	return found
}

type stoppingVisitor struct {
	BaseVisitor
	predicate func(ast.Node) bool
	found     *ast.Node
}

func (s *stoppingVisitor) Enter(n ast.Node, _ []ast.Node) (skip, cont bool) {
	if s.predicate(n) {
		*s.found = n
		return false, false
	}
	return false, true
}

// NodeCounter produces a histogram of node kinds across a tree.
type NodeCounter struct{}

// Count returns a map from NodeKind to the number of occurrences in root.
func (NodeCounter) Count(root ast.Node) map[ast.NodeKind]int {
	counts := make(map[ast.NodeKind]int)
	v := &countingVisitor{counts: counts}
	New(v).Walk(root)
	return counts
}

type countingVisitor struct {
	BaseVisitor
	counts map[ast.NodeKind]int
}

func (c *countingVisitor) Enter(n ast.Node, _ []ast.Node) (bool, bool) {
	c.counts[n.Kind()]++
	return false, true
}

// Collector accumulates an arbitrary value per visited node via a reducer
// function, generalizing NodeFinder/NodeCounter for ad hoc accumulations.
type Collector[T any] struct {
	zero   T
	reduce func(acc T, n ast.Node) T
}

// NewCollector creates a Collector seeded with zero and folding every
// visited node through reduce.
func NewCollector[T any](zero T, reduce func(acc T, n ast.Node) T) *Collector[T] {
	return &Collector[T]{zero: zero, reduce: reduce}
}

// Collect walks root and returns the final accumulated value.
func (c *Collector[T]) Collect(root ast.Node) T {
	acc := c.zero
	v := &reducingVisitor{reduce: func(n ast.Node) { acc = c.reduce(acc, n) }}
	New(v).Walk(root)
	return acc
}

type reducingVisitor struct {
	BaseVisitor
	reduce func(ast.Node)
}

func (r *reducingVisitor) Enter(n ast.Node, _ []ast.Node) (bool, bool) {
	r.reduce(n)
	return false, true
}
