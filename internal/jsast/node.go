package jsast

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Kind is the Estree-flavoured node kind spec.md's data model talks
// about (FunctionDeclaration, CallExpression, ...), as opposed to the
// concrete Tree-sitter grammar node type (function_declaration,
// call_expression, ...). Kind normalizes across the handful of
// grammar node types that, for this analysis, mean the same thing.
func Kind(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "program":
		return "Program"
	case "function_declaration":
		return "FunctionDeclaration"
	case "generator_function_declaration":
		return "FunctionDeclaration"
	case "function", "function_expression":
		return "FunctionExpression"
	case "generator_function":
		return "FunctionExpression"
	case "arrow_function":
		return "ArrowFunctionExpression"
	case "method_definition":
		return "FunctionExpression"
	case "variable_declarator":
		return "VariableDeclarator"
	case "assignment_expression":
		return "AssignmentExpression"
	case "pair":
		return "Property"
	case "call_expression":
		return "CallExpression"
	case "new_expression":
		return "NewExpression"
	case "member_expression":
		return "MemberExpression"
	case "this":
		return "ThisExpression"
	case "identifier", "shorthand_property_identifier",
		"shorthand_property_identifier_pattern", "property_identifier":
		return "Identifier"
	case "string", "number", "true", "false", "null", "undefined", "regex":
		return "Literal"
	case "await_expression":
		return "AwaitExpression"
	case "object":
		return "ObjectExpression"
	case "object_pattern":
		return "ObjectPattern"
	case "array_pattern":
		return "ArrayPattern"
	case "class_declaration":
		return "ClassDeclaration"
	case "class":
		return "ClassExpression"
	default:
		return n.Type()
	}
}

// IsFunctionLike reports whether n's normalized kind name contains
// "Function", per spec.md's own definition.
func IsFunctionLike(n *sitter.Node) bool {
	return strings.Contains(Kind(n), "Function")
}

// IsAccessorMethod reports whether a method_definition node carries a
// get/set keyword child, i.e. is a Property with kind != init in
// spec.md's abstract model. Plain object/class methods (kind init)
// return false.
func IsAccessorMethod(n *sitter.Node) bool {
	if n == nil || n.Type() != "method_definition" {
		return false
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "get", "set":
			return true
		}
	}
	return false
}

// AccessorKeyword returns "get", "set" or "" for a method_definition.
func AccessorKeyword(n *sitter.Node) string {
	if n == nil || n.Type() != "method_definition" {
		return ""
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "get", "set":
			return n.Child(i).Type()
		}
	}
	return ""
}

// IsConstructorMethod reports whether a method_definition is named
// "constructor" inside a class body (ES class form, the minimal path
// spec.md's design notes call out as worth supporting).
func IsConstructorMethod(n *sitter.Node, src []byte) bool {
	if n == nil || n.Type() != "method_definition" {
		return false
	}
	name := n.ChildByFieldName("name")
	if name == nil {
		return false
	}
	return name.Content(src) == "constructor"
}

// Line returns the 1-based source line the node starts on, within
// the concatenated buffer passed to the parser.
func Line(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Row) + 1
}

// FindChildByType returns the first direct child of the given
// concrete Tree-sitter type, or nil.
func FindChildByType(n *sitter.Node, nodeType string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == nodeType {
			return c
		}
	}
	return nil
}

// IsAsync reports whether a function-like node carries an "async"
// keyword child (the node's own, for declarations/arrows/methods).
func IsAsync(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "async" {
			return true
		}
	}
	return false
}
