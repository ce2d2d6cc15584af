// Package report implements the read-only ReportModel of spec.md §4.6.
package report

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/asyncwand/asyncwand/internal/engine/errors"
	"github.com/asyncwand/asyncwand/internal/index"
	"github.com/asyncwand/asyncwand/internal/jsast"
	"github.com/asyncwand/asyncwand/internal/propagate"
)

// Model is the read-only { seed, asyncMap } pair returned to callers.
type Model struct {
	ix       *index.Index
	locate   propagate.LocateFunc
	Seed     *sitter.Node
	AsyncMap *propagate.AsyncMap
}

// New wraps an already-computed AsyncMap alongside the index it was
// derived from, for display and serialization.
func New(ix *index.Index, locate propagate.LocateFunc, seed *sitter.Node, asyncMap *propagate.AsyncMap) *Model {
	return &Model{ix: ix, locate: locate, Seed: seed, AsyncMap: asyncMap}
}

// NameOf is the stable short name used for display, delegating to the
// index's nameOf.
func (m *Model) NameOf(n *sitter.Node) (string, error) {
	return m.ix.NameOf(n)
}

// Serialize renders n as "path:line <Kind>[indexOnLine]", where
// indexOnLine is n's position among same-Kind nodes sharing (path, line).
func (m *Model) Serialize(n *sitter.Node) (string, error) {
	if n == nil {
		return "", errors.New(errors.InvalidInput, "serialize received a nil node")
	}
	path, line, err := m.locate(jsast.Line(n))
	if err != nil {
		return "", err
	}
	kind := jsast.Kind(n)
	position := 0
	siblings := m.ix.NodesAt(path, line)
	for _, s := range siblings {
		if jsast.Kind(s) != kind {
			continue
		}
		if s == n {
			break
		}
		position++
	}
	return fmt.Sprintf("%s:%d %s[%d]", path, line, kind, position), nil
}

// IsAsyncSyntaxError reports whether marking n async would be
// syntactically illegal: async getters/setters and async constructors
// don't exist in JavaScript, but the propagator may still mark them —
// this flags that case for the report.
func (m *Model) IsAsyncSyntaxError(n *sitter.Node) bool {
	return m.ix.IsAccessor(n) || m.ix.IsConstructor(n) || jsast.IsConstructorMethod(n, m.ix.Src())
}
