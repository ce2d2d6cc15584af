// Package index implements the IndexBuilder of spec.md §4.3: a single
// traversal (split into two passes, a line/scope pass and a semantic
// pass) over the parsed AST that derives every map the propagator and
// report model need, so that downstream components never walk the
// tree themselves.
package index

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/asyncwand/asyncwand/internal/engine/errors"
	"github.com/asyncwand/asyncwand/internal/jsast"
	"github.com/asyncwand/asyncwand/internal/scope"
)

// lineKey addresses a (path, line) pair, the unit NodeIndex is keyed by.
type lineKey struct {
	Path string
	Line int
}

// Index holds every derived map spec.md §3 lists under "Derived
// indices (built by IndexBuilder, read by everything downstream)".
// All maps are logically immutable once Build returns, except
// IgnoreSet which the propagate package owns and mutates separately.
type Index struct {
	src    []byte
	locate LocateFunc

	Scopes    *scope.Arena
	RootScope scope.ID

	nodeIndex    map[lineKey][]*sitter.Node
	ownerScope   map[*sitter.Node]scope.ID
	enclosing    map[*sitter.Node]*sitter.Node // enclosing function-like node, nil at top level
	ownerOfValue map[*sitter.Node]*sitter.Node // Property.value / AssignmentExpression.right -> key/left

	calls map[string][]*sitter.Node
	reads map[string][]*sitter.Node

	accessorSet    map[*sitter.Node]bool
	constructorSet map[*sitter.Node]bool
	constructorMap map[*sitter.Node]*sitter.Node   // function-like -> its constructor def node
	members        map[*sitter.Node][]*sitter.Node // ctor function-like -> this.<x> property nodes
	inAwait        map[*sitter.Node]bool

	// ignored is consulted during reference indexing per spec.md
	// §4.3. In the normal call order (parse, then index, then
	// markIgnored) it is empty at Build time; it exists so a caller
	// that pre-populates ignores still gets the documented behavior.
	ignored func(n *sitter.Node) bool
}

// LocateFunc resolves a buffer line back to its originating (path, line).
type LocateFunc func(bufferLine int) (path string, line int, err error)

// Build runs both passes over root and returns the populated Index.
// src is the full concatenated buffer content the tree was parsed
// from; locate resolves a buffer line to (path, originalLine) via the
// buffer package's LineMap. ignored, if non-nil, reports whether a
// node has already been marked ignored; pass nil when none exist yet.
func Build(root *sitter.Node, src []byte, locate LocateFunc, ignored func(n *sitter.Node) bool) (*Index, error) {
	if root == nil {
		return nil, errors.New(errors.InvalidInput, "index.Build received a nil root node")
	}
	arena, rootScope := scope.NewArena()
	if ignored == nil {
		ignored = func(*sitter.Node) bool { return false }
	}
	ix := &Index{
		src:            src,
		locate:         locate,
		Scopes:         arena,
		RootScope:      rootScope,
		nodeIndex:      make(map[lineKey][]*sitter.Node),
		ownerScope:     make(map[*sitter.Node]scope.ID),
		enclosing:      make(map[*sitter.Node]*sitter.Node),
		ownerOfValue:   make(map[*sitter.Node]*sitter.Node),
		calls:          make(map[string][]*sitter.Node),
		reads:          make(map[string][]*sitter.Node),
		accessorSet:    make(map[*sitter.Node]bool),
		constructorSet: make(map[*sitter.Node]bool),
		constructorMap: make(map[*sitter.Node]*sitter.Node),
		members:        make(map[*sitter.Node][]*sitter.Node),
		inAwait:        make(map[*sitter.Node]bool),
		ignored:        ignored,
	}

	ix.buildScopes(root, rootScope, nil)
	ix.buildSemantics(root, rootScope, nil, nil, 0)
	return ix, nil
}

// buildScopes is pass 1 (spec.md §4.3): populate NodeIndex, walk the
// scope cursor (pushing on function-like nodes), and record
// OwnerOfScope / EnclosingFunction as a side effect of the same walk.
// A function-like node itself is recorded against the scope active
// before the push (its name belongs to the enclosing scope); its
// children see the freshly pushed scope.
func (ix *Index) buildScopes(n *sitter.Node, currentScope scope.ID, currentFn *sitter.Node) {
	if n == nil {
		return
	}

	if ix.locate != nil {
		if path, line, err := ix.locate(int(n.StartPoint().Row) + 1); err == nil {
			k := lineKey{Path: path, Line: line}
			ix.nodeIndex[k] = append(ix.nodeIndex[k], n)
		}
	}
	ix.ownerScope[n] = currentScope
	ix.enclosing[n] = currentFn

	childScope := currentScope
	childFn := currentFn
	if jsast.IsFunctionLike(n) {
		childScope = ix.Scopes.Push(currentScope)
		childFn = n
		if id := jsast.FunctionID(n); id != nil {
			ix.Scopes.Bind(currentScope, id.Content(ix.src), n)
		}
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		ix.buildScopes(n.Child(i), childScope, childFn)
	}
}

// buildSemantics is pass 2 (spec.md §4.3): a second full traversal
// maintaining a prototype-stack and an await-depth counter, populating
// every remaining derived map. currentScope is recovered from the
// scope map pass 1 already filled in (descendScopeFor) rather than
// pushed again; currentFn is carried down the recursion.
func (ix *Index) buildSemantics(n *sitter.Node, currentScope scope.ID, currentFn *sitter.Node, protoStack []*sitter.Node, awaitDepth int) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "pair":
		if key := jsast.PairKey(n); key != nil {
			if val := jsast.PairValue(n); val != nil {
				ix.ownerOfValue[val] = key
			}
		}
		if jsast.IsAccessorMethod(n) {
			ix.accessorSet[n] = true
		}
		if len(protoStack) > 0 && protoStack[len(protoStack)-1] != nil {
			if val := jsast.PairValue(n); val != nil && jsast.IsFunctionLike(val) {
				ix.constructorMap[val] = protoStack[len(protoStack)-1]
			}
		}
	case "method_definition":
		if jsast.IsAccessorMethod(n) {
			ix.accessorSet[n] = true
		}
	case "assignment_expression":
		left := jsast.AssignmentLeft(n)
		right := jsast.AssignmentRight(n)
		if left != nil && right != nil {
			ix.ownerOfValue[right] = left
			ix.handlePrototypeAssignment(left, right, currentScope)
		}
	case "new_expression":
		if callee := jsast.CallCallee(n); callee != nil && callee.Type() == "identifier" {
			if b, ok := ix.Scopes.Binding(currentScope, callee.Content(ix.src)); ok {
				ix.constructorSet[b.Def] = true
			}
		}
	case "member_expression":
		if obj := jsast.MemberObject(n); obj != nil && obj.Type() == "this" && currentFn != nil {
			if prop := jsast.MemberProperty(n); prop != nil {
				ix.members[currentFn] = append(ix.members[currentFn], prop)
			}
		}
	}

	isAwait := n.Type() == "await_expression"
	if !isAwait && awaitDepth > 0 {
		ix.inAwait[n] = true
	}
	ix.indexReference(n)

	childFn := currentFn
	childScope := currentScope
	if jsast.IsFunctionLike(n) {
		childFn = n
		childScope = ix.descendScopeFor(n, currentScope)
	}

	childStack := protoStack
	if ctor, ok := ix.pushPrototypeStack(n, currentScope); ok {
		childStack = append(append([]*sitter.Node{}, protoStack...), ctor)
	}

	childAwaitDepth := awaitDepth
	if isAwait {
		childAwaitDepth = awaitDepth + 1
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		ix.buildSemantics(n.Child(i), childScope, childFn, childStack, childAwaitDepth)
	}
}

// descendScopeFor returns the scope pass 1 pushed for n's children
// (recovered from any child's recorded owner scope), or currentScope
// if n isn't function-like.
func (ix *Index) descendScopeFor(n *sitter.Node, currentScope scope.ID) scope.ID {
	for i := 0; i < int(n.ChildCount()); i++ {
		if s, ok := ix.ownerScope[n.Child(i)]; ok {
			return s
		}
	}
	return currentScope
}

// pushPrototypeStack reports whether n is a Form-A `X.prototype = {...}`
// assignment and, if so, the constructor node to push (possibly nil,
// when X can't be resolved in scope — the stack entry still suppresses
// treating nested properties as anything but unresolved candidates).
func (ix *Index) pushPrototypeStack(n *sitter.Node, currentScope scope.ID) (*sitter.Node, bool) {
	if n.Type() != "assignment_expression" {
		return nil, false
	}
	left := jsast.AssignmentLeft(n)
	right := jsast.AssignmentRight(n)
	if left == nil || right == nil || right.Type() != "object" || left.Type() != "member_expression" {
		return nil, false
	}
	if !jsast.IsMemberOn(left, ix.src, memberObjectName(left, ix.src), "prototype") {
		return nil, false
	}
	obj := jsast.MemberObject(left)
	if b, ok := ix.Scopes.Binding(currentScope, obj.Content(ix.src)); ok {
		return b.Def, true
	}
	return nil, true
}

func memberObjectName(left *sitter.Node, src []byte) string {
	obj := jsast.MemberObject(left)
	if obj == nil || obj.Type() != "identifier" {
		return ""
	}
	return obj.Content(src)
}

// handlePrototypeAssignment recognizes Form B, `X.prototype.foo = function(){}`,
// and records a direct ConstructorMap entry (no stack needed: a single property).
func (ix *Index) handlePrototypeAssignment(left, right *sitter.Node, currentScope scope.ID) {
	if left.Type() != "member_expression" || !jsast.IsFunctionLike(right) {
		return
	}
	outer := jsast.MemberObject(left)
	prop := jsast.MemberProperty(left)
	if outer == nil || prop == nil || outer.Type() != "member_expression" {
		return
	}
	if !jsast.IsMemberOn(outer, ix.src, memberObjectName(outer, ix.src), "prototype") {
		return
	}
	ctorName := jsast.MemberObject(outer)
	if b, ok := ix.Scopes.Binding(currentScope, ctorName.Content(ix.src)); ok {
		ix.constructorMap[right] = b.Def
	}
}

// indexReference implements spec.md §4.3's reference-indexing step:
// CallExpression/NewExpression go in calls[], MemberExpression and
// bare Identifier references go in reads[], both keyed by nameOf.
func (ix *Index) indexReference(n *sitter.Node) {
	switch n.Type() {
	case "call_expression", "new_expression", "member_expression", "identifier":
	default:
		return
	}
	if ix.ignored(n) || ix.accessorSet[n] {
		return
	}
	name, err := ix.NameOf(n)
	if err != nil || name == "" {
		return
	}
	switch n.Type() {
	case "call_expression", "new_expression":
		ix.calls[name] = append(ix.calls[name], n)
	default:
		ix.reads[name] = append(ix.reads[name], n)
	}
}
