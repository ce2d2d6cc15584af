package index

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/asyncwand/asyncwand/internal/scope"
)

// Src returns the full concatenated buffer content the tree was
// parsed from, for callers (report.Model) that need raw node text
// outside the node-kind helpers this package already exposes.
func (ix *Index) Src() []byte {
	return ix.src
}

// NodesAt returns every node whose start point maps to (path, line),
// in visitation order, per spec.md §3's NodeIndex.
func (ix *Index) NodesAt(path string, line int) []*sitter.Node {
	return ix.nodeIndex[lineKey{Path: path, Line: line}]
}

// Calls returns every CallExpression/NewExpression node whose callee
// derives to name.
func (ix *Index) Calls(name string) []*sitter.Node {
	return ix.calls[name]
}

// Reads returns every MemberExpression/Identifier reference node whose
// derived name is name.
func (ix *Index) Reads(name string) []*sitter.Node {
	return ix.reads[name]
}

// EnclosingFunction returns the nearest enclosing function-like node
// of n, or nil if n is at top level.
func (ix *Index) EnclosingFunction(n *sitter.Node) *sitter.Node {
	return ix.enclosing[n]
}

// OwnerOfProperty returns the key/target expression a Property.value
// or AssignmentExpression.right node belongs to, if any.
func (ix *Index) OwnerOfProperty(n *sitter.Node) (*sitter.Node, bool) {
	owner, ok := ix.ownerOfValue[n]
	return owner, ok
}

// OwnerScope returns the lexical scope active when n was visited.
func (ix *Index) OwnerScope(n *sitter.Node) (scope.ID, bool) {
	s, ok := ix.ownerScope[n]
	return s, ok
}

// IsAccessor reports whether n is a get/set Property (spec.md §5's
// "syntactically impossible" location, pinned down further by the
// propagator).
func (ix *Index) IsAccessor(n *sitter.Node) bool {
	return ix.accessorSet[n]
}

// IsConstructor reports whether n is a function-like node that was
// used as the callee of at least one `new` expression.
func (ix *Index) IsConstructor(n *sitter.Node) bool {
	return ix.constructorSet[n]
}

// ConstructorOf returns the constructor node g was registered against
// via `X.prototype = {...}` or `X.prototype.foo = function(){}`.
func (ix *Index) ConstructorOf(g *sitter.Node) (*sitter.Node, bool) {
	c, ok := ix.constructorMap[g]
	return c, ok
}

// MembersOf returns the `this.<x>` property identifier nodes captured
// while traversing inside ctor.
func (ix *Index) MembersOf(ctor *sitter.Node) []*sitter.Node {
	return ix.members[ctor]
}

// InAwait reports whether n appears anywhere inside an await
// expression's argument subtree (excluding the await expression node
// itself).
func (ix *Index) InAwait(n *sitter.Node) bool {
	return ix.inAwait[n]
}
