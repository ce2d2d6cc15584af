package propagate

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/asyncwand/asyncwand/internal/index"
	"github.com/asyncwand/asyncwand/internal/jsast"
)

// Edge is one entry of spec.md §4.5's AsyncMap: an await site, and
// optionally the enclosing function it forces async. HasAsyncNode
// distinguishes "no asyncNode field" (no enclosing function, or the
// enclosing function is ignored) from "asyncNode present but nil"
// (the enclosing function is already async in source, so no new
// marking is needed).
type Edge struct {
	AwaitNode    *sitter.Node
	HasAsyncNode bool
	AsyncNode    *sitter.Node
}

// AsyncMap is the propagator's output: the sentinel root entry plus
// one entry per scheduled function that has at least one await site,
// in discovery (insertion) order. A scheduled function with no await
// sites (nothing calls it) appears only as some edge's AsyncNode.
type AsyncMap struct {
	Root  []Edge
	order []*sitter.Node
	edges map[*sitter.Node][]Edge
}

// Keys returns the async function-like nodes in insertion order.
func (m *AsyncMap) Keys() []*sitter.Node {
	return m.order
}

// Edges returns the edges recorded for g, or nil if g has no entry
// (it was never scheduled, or it had no await sites).
func (m *AsyncMap) Edges(g *sitter.Node) []Edge {
	return m.edges[g]
}

// Propagate runs the worklist algorithm of spec.md §4.5, starting from
// seed, and returns the resulting AsyncMap. seed is treated as newly
// async regardless of whether it already carries the "async" keyword.
func Propagate(ix *index.Index, ignored *IgnoreSet, seed *sitter.Node) *AsyncMap {
	if ignored == nil {
		ignored = NewIgnoreSet()
	}
	m := &AsyncMap{
		Root:  []Edge{{HasAsyncNode: true, AsyncNode: seed}},
		edges: make(map[*sitter.Node][]Edge),
	}

	work := []*sitter.Node{seed}
	scheduled := map[*sitter.Node]bool{seed: true}

	for len(work) > 0 {
		g := work[0]
		work = work[1:]

		if ignored.Contains(g) {
			continue
		}
		awaits := awaitCandidates(ix, ignored, g)
		if len(awaits) == 0 {
			continue
		}

		var edges []Edge
		for _, a := range awaits {
			if ignored.Contains(a) {
				continue
			}
			edge := Edge{AwaitNode: a}
			parent := ix.EnclosingFunction(a)
			if parent != nil && !ignored.Contains(parent) {
				edge.HasAsyncNode = true
				if !jsast.IsAsync(parent) {
					edge.AsyncNode = parent
				}
				if !scheduled[parent] {
					scheduled[parent] = true
					work = append(work, parent)
				}
			}
			edges = append(edges, edge)
		}
		m.edges[g] = edges
		m.order = append(m.order, g)
	}

	return m
}

// awaitCandidates implements spec.md §4.5's three candidate rules,
// then filters by lexical reachability and excludes anything already
// in InAwaitSet.
func awaitCandidates(ix *index.Index, ignored *IgnoreSet, g *sitter.Node) []*sitter.Node {
	name, err := ix.NameOf(g)
	if err != nil {
		return nil
	}

	var candidates []*sitter.Node
	candidates = append(candidates, ix.Calls(name)...)

	if ix.IsAccessor(g) {
		candidates = append(candidates, ix.Reads(name)...)
	}

	if ctor, ok := ix.ConstructorOf(g); ok {
		for _, p := range ix.MembersOf(ctor) {
			pn, perr := ix.NameOf(p)
			if perr == nil && pn == name {
				candidates = append(candidates, p)
			}
		}
	}

	gScope, hasScope := ix.OwnerScope(g)
	if !hasScope {
		return nil
	}

	var out []*sitter.Node
	for _, c := range candidates {
		if ignored.Contains(c) {
			continue
		}
		if ix.InAwait(c) {
			continue
		}
		cScope, ok := ix.OwnerScope(c)
		if !ok {
			continue
		}
		if !ix.Scopes.IsAncestor(gScope, cScope) {
			continue
		}
		out = append(out, c)
	}
	return out
}
