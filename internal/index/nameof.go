package index

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/asyncwand/asyncwand/internal/engine/errors"
	"github.com/asyncwand/asyncwand/internal/jsast"
)

// NameOf derives the name-based identity of a node, per spec.md §4.3's
// ordered rules. This is deliberately unsound: it never resolves
// bindings across scopes, and nodes the rules don't cover return
// InvalidInput rather than being guessed.
func (ix *Index) NameOf(n *sitter.Node) (string, error) {
	if n == nil {
		return "", errors.New(errors.InvalidInput, "nameOf received a nil node")
	}

	// Rule 1: Property.value / AssignmentExpression.right recurse on
	// the precomputed key/left.
	if owner, ok := ix.ownerOfValue[n]; ok {
		return ix.NameOf(owner)
	}

	// Rule 2: function-like nodes name themselves after their id, or
	// the literal "(lambda)" when anonymous (arrow functions always
	// fall here, since they never carry an id field).
	if jsast.IsFunctionLike(n) {
		if id := jsast.FunctionID(n); id != nil {
			return id.Content(ix.src), nil
		}
		return "(lambda)", nil
	}

	// Rule 3: dispatch on kind.
	switch jsast.Kind(n) {
	case "Identifier":
		return n.Content(ix.src), nil
	case "Literal":
		return n.Content(ix.src), nil
	case "MemberExpression":
		prop := jsast.MemberProperty(n)
		if prop == nil {
			return "", errors.New(errors.InvalidInput, "member expression has no property field")
		}
		return ix.NameOf(prop)
	case "CallExpression", "NewExpression":
		callee := jsast.CallCallee(n)
		if callee == nil {
			return "", errors.New(errors.InvalidInput, "call has no callee")
		}
		return ix.NameOf(callee)
	case "Property":
		key := jsast.PairKey(n)
		if key == nil {
			return "", errors.New(errors.InvalidInput, "property has no key field")
		}
		return ix.NameOf(key)
	case "VariableDeclarator":
		name := jsast.DeclaratorName(n)
		if name == nil {
			return "", errors.New(errors.InvalidInput, "variable declarator has no name field")
		}
		return ix.NameOf(name)
	case "ThisExpression":
		return "this", nil
	case "ArrayPattern":
		return ix.namePattern(n, "element"), nil
	case "ObjectPattern":
		return ix.namePattern(n, "property"), nil
	default:
		return "", errors.New(errors.InvalidInput, "nameOf: unsupported kind "+jsast.Kind(n)).At("", jsast.Line(n))
	}
}

// namePattern concatenates the derived names of a destructuring
// pattern's named children, best-effort (unresolvable elements are
// skipped rather than failing the whole pattern).
func (ix *Index) namePattern(n *sitter.Node, _ string) string {
	var names []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		var name string
		var err error
		switch child.Type() {
		case "pair_pattern":
			if key := child.ChildByFieldName("key"); key != nil {
				name, err = ix.NameOf(key)
			}
		default:
			name, err = ix.NameOf(child)
		}
		if err == nil && name != "" {
			names = append(names, name)
		}
	}
	out := ""
	for i, name := range names {
		if i > 0 {
			out += ","
		}
		out += name
	}
	return out
}
