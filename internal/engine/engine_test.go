package engine

import (
	"testing"
)

// Scenario A of spec.md §8: two files, each one function, a calls b;
// seeding b must mark a async via the call site in a.js.
func TestEngine_TwoFunctionsMinimalAcrossFiles(t *testing.T) {
	e := New("/tmp/does-not-matter", Options{})

	if err := e.AppendSource("a.js", 1, "function a() {\n\tb();\n}\n"); err != nil {
		t.Fatalf("appendSource a.js failed: %v", err)
	}
	if err := e.AppendSource("b.js", 1, "function b() {\n}\n"); err != nil {
		t.Fatalf("appendSource b.js failed: %v", err)
	}
	if err := e.Parse(); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	seed, err := e.FunctionNodeFromLine("b.js", 1, 0)
	if err != nil {
		t.Fatalf("locating seed failed: %v", err)
	}

	model, err := e.GetAsyncStacks(seed)
	if err != nil {
		t.Fatalf("getAsyncStacks failed: %v", err)
	}

	if len(model.AsyncMap.Root) != 1 || model.AsyncMap.Root[0].AsyncNode != seed {
		t.Fatalf("unexpected root entry: %+v", model.AsyncMap.Root)
	}

	edges := model.AsyncMap.Edges(seed)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge for seed b, got %d", len(edges))
	}

	awaitSerialized, err := model.Serialize(edges[0].AwaitNode)
	if err != nil {
		t.Fatalf("serialize await node failed: %v", err)
	}
	if awaitSerialized != "a.js:2 CallExpression[0]" {
		t.Errorf("unexpected await serialization: %s", awaitSerialized)
	}

	if !edges[0].HasAsyncNode || edges[0].AsyncNode == nil {
		t.Fatalf("expected a() to be scheduled as newly async")
	}
	aSerialized, err := model.Serialize(edges[0].AsyncNode)
	if err != nil {
		t.Fatalf("serialize a() failed: %v", err)
	}
	if aSerialized != "a.js:1 FunctionDeclaration[0]" {
		t.Errorf("unexpected a() serialization: %s", aSerialized)
	}
}

// Idempotence (invariant 5): calling getAsyncStacks twice yields
// identical AsyncMaps.
func TestEngine_GetAsyncStacksIsIdempotent(t *testing.T) {
	e := New("/tmp/does-not-matter", Options{})
	if err := e.AppendSource("main.js", 1, "function a() { b(); }\nfunction b() {}\n"); err != nil {
		t.Fatalf("appendSource failed: %v", err)
	}
	if err := e.Parse(); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	seed, err := e.FunctionNodeFromLine("main.js", 2, 0)
	if err != nil {
		t.Fatalf("locating seed failed: %v", err)
	}

	first, err := e.GetAsyncStacks(seed)
	if err != nil {
		t.Fatalf("first getAsyncStacks failed: %v", err)
	}
	second, err := e.GetAsyncStacks(seed)
	if err != nil {
		t.Fatalf("second getAsyncStacks failed: %v", err)
	}

	if len(first.AsyncMap.Keys()) != len(second.AsyncMap.Keys()) {
		t.Fatalf("key count differs between runs")
	}
	for i, k := range first.AsyncMap.Keys() {
		if second.AsyncMap.Keys()[i] != k {
			t.Fatalf("key order differs at index %d", i)
		}
		if len(first.AsyncMap.Edges(k)) != len(second.AsyncMap.Edges(k)) {
			t.Fatalf("edge count differs for key %d", i)
		}
	}
}
