package jsast

import sitter "github.com/smacker/go-tree-sitter"

// The helpers below hide the concrete Tree-sitter field names (which
// vary by node type and don't always match the Estree name) behind one
// vocabulary the index builder and nameOf dispatch can use uniformly.

// FunctionID returns the name identifier of a function-like node, or
// nil for an anonymous function expression or an arrow function
// (arrow functions never carry a name field in this grammar).
func FunctionID(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "function_declaration", "generator_function_declaration",
		"function", "function_expression", "generator_function",
		"method_definition":
		return n.ChildByFieldName("name")
	default:
		return nil
	}
}

// DeclaratorName returns the bound name node of a variable_declarator
// (field "name" in this grammar, not "id").
func DeclaratorName(n *sitter.Node) *sitter.Node {
	if n == nil || n.Type() != "variable_declarator" {
		return nil
	}
	return n.ChildByFieldName("name")
}

// DeclaratorValue returns the initializer of a variable_declarator, if any.
func DeclaratorValue(n *sitter.Node) *sitter.Node {
	if n == nil || n.Type() != "variable_declarator" {
		return nil
	}
	return n.ChildByFieldName("value")
}

// AssignmentLeft returns the left-hand side of an assignment_expression.
func AssignmentLeft(n *sitter.Node) *sitter.Node {
	if n == nil || n.Type() != "assignment_expression" {
		return nil
	}
	return n.ChildByFieldName("left")
}

// AssignmentRight returns the right-hand side of an assignment_expression.
func AssignmentRight(n *sitter.Node) *sitter.Node {
	if n == nil || n.Type() != "assignment_expression" {
		return nil
	}
	return n.ChildByFieldName("right")
}

// PairKey returns the key of an object literal "pair" (Property) node.
func PairKey(n *sitter.Node) *sitter.Node {
	if n == nil || n.Type() != "pair" {
		return nil
	}
	return n.ChildByFieldName("key")
}

// PairValue returns the value of an object literal "pair" (Property) node.
func PairValue(n *sitter.Node) *sitter.Node {
	if n == nil || n.Type() != "pair" {
		return nil
	}
	return n.ChildByFieldName("value")
}

// CallCallee returns the called expression of a call_expression or
// new_expression (field "function" and "constructor" respectively).
func CallCallee(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "call_expression":
		return n.ChildByFieldName("function")
	case "new_expression":
		return n.ChildByFieldName("constructor")
	default:
		return nil
	}
}

// MemberObject returns the base expression of a (non-computed) member_expression.
func MemberObject(n *sitter.Node) *sitter.Node {
	if n == nil || n.Type() != "member_expression" {
		return nil
	}
	return n.ChildByFieldName("object")
}

// MemberProperty returns the property identifier of a member_expression.
func MemberProperty(n *sitter.Node) *sitter.Node {
	if n == nil || n.Type() != "member_expression" {
		return nil
	}
	return n.ChildByFieldName("property")
}

// IsMemberOn reports whether n is a non-computed member_expression
// whose object is a bare identifier named objectName and whose
// property is named propertyName, e.g. IsMemberOn(n, src, "X", "prototype")
// matches "X.prototype".
func IsMemberOn(n *sitter.Node, src []byte, objectName, propertyName string) bool {
	if n == nil || n.Type() != "member_expression" {
		return false
	}
	obj := MemberObject(n)
	prop := MemberProperty(n)
	if obj == nil || prop == nil || obj.Type() != "identifier" {
		return false
	}
	return obj.Content(src) == objectName && prop.Content(src) == propertyName
}
