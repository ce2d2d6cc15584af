package engine

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/asyncwand/asyncwand/internal/engine/errors"
	"github.com/asyncwand/asyncwand/internal/jsast"
)

// Scenario D of spec.md §8 ("object-define-this-match"): a property
// function assigned via Widget.prototype = {...} is called as
// this.c() from a sibling property in the same module; seeding that
// property must mark the this.-qualified caller, but an unrelated
// free function sharing the name "c" in a separate module scope must
// not be affected, even though both resolve to the plain name "c".
func TestEngine_ObjectDefineThisMatch(t *testing.T) {
	src := `function widgetModule() {
	function Widget() {}
	Widget.prototype = {
		c: function() {},
		caller: function() { this.c(); }
	};
}

function unrelatedModule() {
	function c() {}
	function unrelatedCaller() { c(); }
}
`
	e := New("/tmp/does-not-matter", Options{})
	if err := e.AppendSource("widget.js", 1, src); err != nil {
		t.Fatalf("appendSource failed: %v", err)
	}
	if err := e.Parse(); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	seedC, err := e.NodeByLineFilterIndex("widget.js", 4, 0, jsast.IsFunctionLike)
	if err != nil {
		t.Fatalf("locating property c() failed: %v", err)
	}
	model, err := e.GetAsyncStacks(seedC)
	if err != nil {
		t.Fatalf("getAsyncStacks failed: %v", err)
	}

	// A function becomes async when it is the asyncNode of some edge;
	// it only gets its own AsyncMap entry if it has await sites itself.
	names := map[string]bool{}
	for _, fn := range model.AsyncMap.Keys() {
		for _, edge := range model.AsyncMap.Edges(fn) {
			if !edge.HasAsyncNode || edge.AsyncNode == nil {
				continue
			}
			name, err := model.Serialize(edge.AsyncNode)
			if err != nil {
				t.Fatalf("serialize failed: %v", err)
			}
			names[name] = true
		}
	}

	callerName := "widget.js:5 FunctionExpression[0]"
	if !names[callerName] {
		t.Errorf("expected this.c()'s enclosing caller to become async; got async nodes %v", names)
	}
	unrelatedCallerName := "widget.js:11 FunctionDeclaration[0]"
	if names[unrelatedCallerName] {
		t.Errorf("unrelatedCaller's call to the free function c() in a sibling module scope must not mark unrelatedCaller async")
	}
}

// Scenario E of spec.md §8: a node marked ignored must be treated as a
// dead end by the propagator — exercises Engine.MarkIgnored and
// propagate.IgnoreSet.Contains (invariant 6), which otherwise has zero
// test coverage.
func TestEngine_IgnoreSuppressesPropagation(t *testing.T) {
	e := New("/tmp/does-not-matter", Options{})
	if err := e.AppendSource("main.js", 1, "function a() { b(); }\nfunction b() {}\n"); err != nil {
		t.Fatalf("appendSource failed: %v", err)
	}
	if err := e.Parse(); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	seed, err := e.FunctionNodeFromLine("main.js", 2, 0)
	if err != nil {
		t.Fatalf("locating seed b failed: %v", err)
	}

	callSite, err := e.NodeByLineFilterIndex("main.js", 1, 0, func(n *sitter.Node) bool { return jsast.Kind(n) == "CallExpression" })
	if err != nil {
		t.Fatalf("locating call site failed: %v", err)
	}
	e.MarkIgnored(callSite)

	model, err := e.GetAsyncStacks(seed)
	if err != nil {
		t.Fatalf("getAsyncStacks failed: %v", err)
	}
	if len(model.AsyncMap.Keys()) != 0 {
		t.Errorf("expected ignored call site to suppress propagation into a(), got %d newly-async functions", len(model.AsyncMap.Keys()))
	}
}

// A constructor (a function used with `new`) that calls the seed is
// marked async by the propagator; ReportModel.IsAsyncSyntaxError must
// flag it, since async constructors are illegal in JavaScript.
func TestEngine_ConstructorCallerDiagnostic(t *testing.T) {
	src := `function Widget() {
	helper();
}
function helper() {}
var w = new Widget();
`
	e := New("/tmp/does-not-matter", Options{})
	if err := e.AppendSource("widget.js", 1, src); err != nil {
		t.Fatalf("appendSource failed: %v", err)
	}
	if err := e.Parse(); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	seed, err := e.FunctionNodeFromLine("widget.js", 4, 0)
	if err != nil {
		t.Fatalf("locating seed helper() failed: %v", err)
	}
	model, err := e.GetAsyncStacks(seed)
	if err != nil {
		t.Fatalf("getAsyncStacks failed: %v", err)
	}

	found := false
	for _, fn := range model.AsyncMap.Keys() {
		name, err := model.Serialize(fn)
		if err != nil {
			t.Fatalf("serialize failed: %v", err)
		}
		if name == "widget.js:1 FunctionDeclaration[0]" {
			found = true
			if !model.IsAsyncSyntaxError(fn) {
				t.Errorf("expected Widget (a constructor) to be flagged as an async syntax error")
			}
		}
	}
	if !found {
		t.Fatalf("expected Widget to be scheduled as newly async")
	}
}

func TestEngine_ParseInvalidSourceReportsSyntaxError(t *testing.T) {
	e := New("/tmp/does-not-matter", Options{})
	if err := e.AppendSource("broken.js", 1, "function ("); err != nil {
		t.Fatalf("appendSource failed: %v", err)
	}
	err := e.Parse()
	if err == nil {
		t.Fatalf("expected a syntax error for invalid source")
	}
	if !errors.Is(err, errors.OfKind(errors.SyntaxError)) {
		t.Errorf("expected SyntaxError kind, got %v", err)
	}
}

// Scenario G of spec.md §8: appendFile reports typed Io/PathEscape
// failures rather than bare errors.
func TestEngine_AppendFileErrorKinds(t *testing.T) {
	e := New("/tmp/asyncwand-scenario-g-root", Options{})

	err := e.AppendFile("does-not-exist.js")
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if !errors.Is(err, errors.OfKind(errors.Io)) {
		t.Errorf("expected Io kind for a missing file, got %v", err)
	}

	err = e.AppendFile("../escapes-root.js")
	if err == nil {
		t.Fatalf("expected an error for a path escaping the root")
	}
	if !errors.Is(err, errors.OfKind(errors.PathEscape)) {
		t.Errorf("expected PathEscape kind, got %v", err)
	}
}
