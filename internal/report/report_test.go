package report

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/asyncwand/asyncwand/internal/index"
	"github.com/asyncwand/asyncwand/internal/jsast"
	"github.com/asyncwand/asyncwand/internal/propagate"
)

func findFuncNamed(n *sitter.Node, name string, src []byte) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "function_declaration" {
		if id := jsast.FunctionID(n); id != nil && id.Content(src) == name {
			return n
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := findFuncNamed(n.Child(i), name, src); found != nil {
			return found
		}
	}
	return nil
}

func TestSerialize_TwoFunctionsMinimal(t *testing.T) {
	src := `function a() { b(); }
function b() {}
`
	content := []byte(src)
	p := jsast.NewParser()
	root, err := p.Parse(content, jsast.LangJavaScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	locate := func(line int) (string, int, error) { return "main.js", line, nil }
	ix, err := index.Build(root, content, locate, nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	seed := findFuncNamed(root, "b", content)
	if seed == nil {
		t.Fatalf("seed not found")
	}

	m := propagate.Propagate(ix, nil, seed)
	model := New(ix, locate, seed, m)

	serialized, err := model.Serialize(seed)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	if serialized != "main.js:2 FunctionDeclaration[0]" {
		t.Errorf("unexpected serialization: %s", serialized)
	}

	edges := m.Edges(seed)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	awaitSerialized, err := model.Serialize(edges[0].AwaitNode)
	if err != nil {
		t.Fatalf("serialize await node failed: %v", err)
	}
	if awaitSerialized != "main.js:1 CallExpression[0]" {
		t.Errorf("unexpected await serialization: %s", awaitSerialized)
	}
}

func TestIsAsyncSyntaxError_Accessor(t *testing.T) {
	src := `const obj = {
	get value() { return inner(); }
};
`
	content := []byte(src)
	p := jsast.NewParser()
	root, err := p.Parse(content, jsast.LangJavaScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	locate := func(line int) (string, int, error) { return "main.js", line, nil }
	ix, err := index.Build(root, content, locate, nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	var getter *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "method_definition" && jsast.IsAccessorMethod(n) {
			getter = n
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	if getter == nil {
		t.Fatalf("getter not found")
	}

	model := New(ix, locate, getter, propagate.Propagate(ix, nil, getter))
	if !model.IsAsyncSyntaxError(getter) {
		t.Errorf("expected getter to be flagged as an async syntax error")
	}
}
