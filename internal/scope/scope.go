// Package scope implements the lexical scope tree of spec.md §3/§4.2:
// a scope is pushed on the program root and on every function-like
// node, and popped on leaving it. The tree is built as a side effect
// of the index builder's first traversal (spec.md §4.3 pass 1), not
// as an independent upfront pass — Tree-sitter's grammar doesn't
// expose binding/resolution information the way a dedicated
// JS scope analyzer (escope, eslint-scope) would, so this package
// supplies only what spec.md's propagator actually needs: a scope
// tree shape plus ancestor-reachability tests.
package scope

import sitter "github.com/smacker/go-tree-sitter"

// ID identifies a Scope within an Arena. The zero value is never a
// valid scope; scopes are 1-indexed so a missing OwnerOfScope entry
// (ID 0) is visibly wrong rather than silently "the program scope".
type ID int

// Binding records a definition site and its reference nodes within
// the scope that declares it. Populated by the index builder only for
// named function-like nodes (variable declarators and parameters are
// not bound), and References is left empty by it; the
// propagator itself works off name-based indices (spec.md §4.3) and
// does not consult Binding directly, but it is part of spec.md's data
// model and is exposed for tooling and tests.
type Binding struct {
	Name       string
	Def        *sitter.Node
	References []*sitter.Node
}

// Scope is one lexical scope node in the tree.
type Scope struct {
	id       ID
	parent   ID // 0 means "no parent" (this is the program scope)
	bindings map[string]*Binding
}

// Arena owns every Scope created for one parsed buffer. Scopes are
// never freed individually; the whole arena is dropped with the
// engine instance (spec.md §5).
type Arena struct {
	scopes []*Scope
}

// NewArena creates an Arena containing only the program (root) scope,
// and returns its ID.
func NewArena() (*Arena, ID) {
	a := &Arena{}
	root := a.push(0)
	return a, root
}

func (a *Arena) push(parent ID) ID {
	s := &Scope{bindings: make(map[string]*Binding)}
	a.scopes = append(a.scopes, s)
	id := ID(len(a.scopes))
	s.id = id
	s.parent = parent
	return id
}

// Push creates a new child scope of parent and returns its ID.
func (a *Arena) Push(parent ID) ID {
	return a.push(parent)
}

// Parent returns the parent of s, or 0 if s is the program scope.
func (a *Arena) Parent(s ID) ID {
	return a.get(s).parent
}

func (a *Arena) get(s ID) *Scope {
	return a.scopes[int(s)-1]
}

// Bind records a binding for name in scope s. If a binding already
// exists it is left untouched (the first definition wins, matching
// the name-based, non-shadowing-aware policy of the rest of the
// engine) and def is discarded.
func (a *Arena) Bind(s ID, name string, def *sitter.Node) {
	sc := a.get(s)
	if _, ok := sc.bindings[name]; ok {
		return
	}
	sc.bindings[name] = &Binding{Name: name, Def: def}
}

// Reference records a use of name, attaching it to the nearest
// enclosing scope (starting at s) that declares it; if no enclosing
// scope declares name, the reference is dropped (this engine does not
// model globals/free variables beyond what NameIndex already does).
func (a *Arena) Reference(s ID, name string, use *sitter.Node) {
	for cur := s; cur != 0; cur = a.Parent(cur) {
		sc := a.get(cur)
		if b, ok := sc.bindings[name]; ok {
			b.References = append(b.References, use)
			return
		}
	}
}

// Binding looks up name starting at scope s and walking up to the
// program scope, returning the nearest enclosing binding, if any.
func (a *Arena) Binding(s ID, name string) (*Binding, bool) {
	for cur := s; cur != 0; cur = a.Parent(cur) {
		sc := a.get(cur)
		if b, ok := sc.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// IsAncestor reports whether ancestor is ancestor-or-self of s, i.e.
// walking s's parent chain reaches ancestor. This realizes spec.md
// §4.5's "the scope of g is an ancestor of the scope of c" reachability
// filter and §8 invariant 4's "scopeOf(e.awaitNode) has f's scope as
// an ancestor".
func (a *Arena) IsAncestor(ancestor, s ID) bool {
	for cur := s; cur != 0; cur = a.Parent(cur) {
		if cur == ancestor {
			return true
		}
	}
	return false
}
