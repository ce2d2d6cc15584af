package index

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/asyncwand/asyncwand/internal/jsast"
)

func mustParse(t *testing.T, src string) *jsast.Parser {
	t.Helper()
	return jsast.NewParser()
}

func buildIndex(t *testing.T, src string) (*Index, []byte) {
	t.Helper()
	p := mustParse(t, src)
	content := []byte(src)
	root, err := p.Parse(content, jsast.LangJavaScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	locate := func(line int) (string, int, error) { return "main.js", line, nil }
	ix, err := Build(root, content, locate, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return ix, content
}

func TestNameOf_NamedFunctionDeclaration(t *testing.T) {
	ix, _ := buildIndex(t, "function foo() { bar(); }")
	calls := ix.Calls("bar")
	if len(calls) != 1 {
		t.Fatalf("expected 1 call to bar, got %d", len(calls))
	}
}

func TestNameOf_AnonymousArrowIsLambda(t *testing.T) {
	src := `const handler = () => { doStuff(); };`
	ix, _ := buildIndex(t, src)
	// the arrow function itself isn't in calls/reads, but nameOf
	// applied directly should yield "(lambda)" since variable_declarator
	// assignment isn't one of the two parent forms nameOf rule 1 covers.
	nodes := ix.NodesAt("main.js", 1)
	var arrow *sitter.Node
	for _, n := range nodes {
		if n.Type() == "arrow_function" {
			arrow = n
		}
	}
	if arrow == nil {
		t.Fatalf("arrow_function node not found")
	}
	name, err := ix.NameOf(arrow)
	if err != nil {
		t.Fatalf("NameOf failed: %v", err)
	}
	if name != "(lambda)" {
		t.Fatalf("expected (lambda), got %q", name)
	}
}

func TestPrototypeFormA_ConstructorMap(t *testing.T) {
	src := `function Widget() {}
Widget.prototype = {
	render: function() { draw(); }
};`
	ix, _ := buildIndex(t, src)
	calls := ix.Calls("draw")
	if len(calls) != 1 {
		t.Fatalf("expected 1 call to draw, got %d", len(calls))
	}
	ctor, ok := ix.ConstructorOf(firstFunctionOnLine(ix, 3))
	if !ok || ctor != firstFunctionOnLine(ix, 1) {
		t.Errorf("expected render to be mapped to the Widget constructor")
	}
}

func TestPrototypeFormB_ConstructorMap(t *testing.T) {
	src := `function Widget() {}
Widget.prototype.render = function() { draw(); };`
	ix, _ := buildIndex(t, src)
	calls := ix.Calls("draw")
	if len(calls) != 1 {
		t.Fatalf("expected 1 call to draw, got %d", len(calls))
	}
	ctor, ok := ix.ConstructorOf(firstFunctionOnLine(ix, 2))
	if !ok || ctor != firstFunctionOnLine(ix, 1) {
		t.Errorf("expected render to be mapped to the Widget constructor")
	}
}

func firstFunctionOnLine(ix *Index, line int) *sitter.Node {
	for _, n := range ix.NodesAt("main.js", line) {
		if jsast.IsFunctionLike(n) {
			return n
		}
	}
	return nil
}

func TestInAwaitSet(t *testing.T) {
	src := `async function foo() {
	await bar(baz());
}`
	ix, _ := buildIndex(t, src)
	bazCalls := ix.Calls("baz")
	if len(bazCalls) != 1 {
		t.Fatalf("expected 1 call to baz, got %d", len(bazCalls))
	}
	if !ix.InAwait(bazCalls[0]) {
		t.Errorf("expected baz() call to be marked InAwait")
	}
}
