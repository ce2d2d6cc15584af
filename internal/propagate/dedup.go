package propagate

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/asyncwand/asyncwand/internal/jsast"
)

// LocateFunc resolves a node's buffer line to its originating path,
// mirroring buffer.Buffer.LocateOrigin without importing that package
// (propagate stays below buffer in the dependency order).
type LocateFunc func(bufferLine int) (path string, line int, err error)

// SortedEdges returns a copy of edges deduplicated by AwaitNode
// identity and ordered by (path, line), for callers that want stable
// output across otherwise-equivalent discovery orders (spec.md §4.5:
// "callers may request a deduplication+sort step").
func SortedEdges(edges []Edge, locate LocateFunc) []Edge {
	seen := make(map[*sitter.Node]bool, len(edges))
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if seen[e.AwaitNode] {
			continue
		}
		seen[e.AwaitNode] = true
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, li := locatedOrFallback(out[i].AwaitNode, locate)
		pj, lj := locatedOrFallback(out[j].AwaitNode, locate)
		if pi != pj {
			return pi < pj
		}
		return li < lj
	})
	return out
}

func locatedOrFallback(n *sitter.Node, locate LocateFunc) (string, int) {
	line := jsast.Line(n)
	if locate == nil {
		return "", line
	}
	path, origLine, err := locate(line)
	if err != nil {
		return "", line
	}
	return path, origLine
}
