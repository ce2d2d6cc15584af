// Package propagate implements the IgnoreSet and AsyncPropagator of
// spec.md §4.4/§4.5.
package propagate

import sitter "github.com/smacker/go-tree-sitter"

// IgnoreSet is a caller-populated set of nodes the propagator treats
// as dead ends: neither recorded as an await site nor recursed
// through. Nodes are resolved from (path, line, typeFilter, index)
// coordinates by the engine (via nodeByLineFilterIndex) before being
// handed to Add — this package only ever deals in resolved nodes.
type IgnoreSet struct {
	nodes map[*sitter.Node]bool
}

// NewIgnoreSet creates an empty IgnoreSet.
func NewIgnoreSet() *IgnoreSet {
	return &IgnoreSet{nodes: make(map[*sitter.Node]bool)}
}

// Add marks n as ignored. A nil node is a no-op.
func (s *IgnoreSet) Add(n *sitter.Node) {
	if n == nil {
		return
	}
	s.nodes[n] = true
}

// Contains reports whether n has been marked ignored. A nil node is
// never ignored.
func (s *IgnoreSet) Contains(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	return s.nodes[n]
}
