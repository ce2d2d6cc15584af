// Package engine wires the core components (buffer, jsast, scope,
// index, propagate, report) into the single public API described by
// spec.md §6: a caller appends source, parses once, optionally marks
// nodes ignored, and asks for async stacks from a seed.
package engine

import (
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/asyncwand/asyncwand/internal/buffer"
	"github.com/asyncwand/asyncwand/internal/cache"
	"github.com/asyncwand/asyncwand/internal/engine/errors"
	"github.com/asyncwand/asyncwand/internal/index"
	"github.com/asyncwand/asyncwand/internal/jsast"
	"github.com/asyncwand/asyncwand/internal/propagate"
	"github.com/asyncwand/asyncwand/internal/report"
	"github.com/asyncwand/asyncwand/internal/support"
)

// Options is the engine's configuration, per spec.md §6. CachePath, if
// non-empty, enables the SQLite-backed appendFile cache of
// SPEC_FULL.md §4.1; extra keys are ignored by construction.
type Options struct {
	Language  string // "javascript" (default) or "typescript"
	CachePath string // optional: enables internal/cache for appendFile
}

// Engine is the core analysis engine. It owns the source buffer, the
// parsed tree, and the derived index, and exposes the operations
// spec.md §6 lists as the conceptual Engine API.
type Engine struct {
	rootDir string
	opts    Options

	parser *jsast.Parser
	buf    *buffer.Buffer

	root *sitter.Node
	src  []byte
	ix   *index.Index

	ignored *propagate.IgnoreSet
	cache   *cache.Cache
}

// New creates an Engine rooted at rootDir for resolving relative
// appendFile paths. If opts.CachePath is set, the appendFile cache is
// opened eagerly; a failure to open it is non-fatal (New never
// returns an error) — the engine simply runs uncached. The cache only
// records file state; AppendFile reads and hashes every file either
// way, and its result does not depend on the cache.
func New(rootDir string, opts Options) *Engine {
	if opts.Language == "" {
		opts.Language = jsast.LangJavaScript
	}
	e := &Engine{
		rootDir: rootDir,
		opts:    opts,
		parser:  jsast.NewParser(),
		buf:     buffer.New(),
		ignored: propagate.NewIgnoreSet(),
	}
	if opts.CachePath != "" {
		if c, err := cache.Open(opts.CachePath); err == nil {
			e.cache = c
		}
	}
	return e
}

// Close releases resources the engine opened, currently just the
// appendFile cache, if enabled.
func (e *Engine) Close() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Close()
}

// AppendSource appends an in-memory fragment (e.g. an inline <script>
// extracted by a collaborator).
func (e *Engine) AppendSource(path string, firstLine int, text string) error {
	return e.buf.AppendSource(path, firstLine, text)
}

// AppendFile reads relativePath under rootDir and appends it with
// firstLine = 1. Idempotent per resolved path.
func (e *Engine) AppendFile(relativePath string) error {
	resolved := filepath.Join(e.rootDir, relativePath)
	cleanRoot, err := filepath.Abs(e.rootDir)
	if err != nil {
		return errors.Wrap(errors.Io, "resolving engine root", err)
	}
	cleanResolved, err := filepath.Abs(resolved)
	if err != nil {
		return errors.Wrap(errors.Io, "resolving file path", err)
	}
	if !strings.HasPrefix(cleanResolved, cleanRoot+string(filepath.Separator)) && cleanResolved != cleanRoot {
		return errors.New(errors.PathEscape, "path escapes configured root").At(relativePath, 0)
	}
	if e.buf.HasFile(cleanResolved) {
		return nil
	}
	info, err := os.Stat(cleanResolved)
	if err != nil {
		return errors.Wrap(errors.Io, "stating source file", err).At(relativePath, 0)
	}
	content, err := os.ReadFile(cleanResolved)
	if err != nil {
		return errors.Wrap(errors.Io, "reading source file", err).At(relativePath, 0)
	}
	if e.cache != nil {
		checksum := support.SHA256Checksum(content)
		if _, err := e.cache.Unchanged(cleanResolved, info.ModTime().Unix(), info.Size(), checksum); err == nil {
			_ = e.cache.Record(cleanResolved, info.ModTime().Unix(), info.Size(), checksum)
		}
	}
	if err := e.buf.AppendSource(relativePath, 1, string(content)); err != nil {
		return err
	}
	e.buf.MarkFileSeen(cleanResolved)
	return nil
}

// Parse triggers parsing and indexing (spec.md §4.2/§4.3). Must be
// called once, after every appendSource/appendFile call and before
// any other operation.
func (e *Engine) Parse() error {
	content := []byte(e.buf.Text())
	root, err := e.parser.Parse(content, e.opts.Language)
	if err != nil {
		return errors.Wrap(errors.SyntaxError, "parsing source buffer", err)
	}
	e.root = root
	e.src = content

	locate := index.LocateFunc(e.buf.LocateOrigin)
	ix, err := index.Build(root, content, locate, e.ignored.Contains)
	if err != nil {
		return err
	}
	e.ix = ix
	return nil
}

// MarkIgnored adds n to the IgnoreSet consulted by future propagations.
func (e *Engine) MarkIgnored(n *sitter.Node) {
	e.ignored.Add(n)
}

// NodeByLineFilterIndex fetches the index-th node matching predicate
// among the nodes located at (path, line).
func (e *Engine) NodeByLineFilterIndex(path string, line int, idx int, predicate func(n *sitter.Node) bool) (*sitter.Node, error) {
	if e.ix == nil {
		return nil, errors.New(errors.NotFound, "engine has not been parsed yet")
	}
	nodes := e.ix.NodesAt(path, line)
	matched := 0
	for _, n := range nodes {
		if predicate == nil || predicate(n) {
			if matched == idx {
				return n, nil
			}
			matched++
		}
	}
	return nil, errors.New(errors.NotFound, "no matching node").At(path, line)
}

// FunctionNodeFromLine is sugar for NodeByLineFilterIndex with the
// predicate "function-like".
func (e *Engine) FunctionNodeFromLine(path string, line int, functionIndex int) (*sitter.Node, error) {
	return e.NodeByLineFilterIndex(path, line, functionIndex, jsast.IsFunctionLike)
}

// GetAsyncStacks runs the propagator from seed and wraps the result in
// a report.Model (spec.md §4.5/§4.6).
func (e *Engine) GetAsyncStacks(seed *sitter.Node) (*report.Model, error) {
	if e.ix == nil {
		return nil, errors.New(errors.NotFound, "engine has not been parsed yet")
	}
	if seed == nil {
		return nil, errors.New(errors.NotFound, "seed node is nil")
	}
	asyncMap := propagate.Propagate(e.ix, e.ignored, seed)
	return report.New(e.ix, e.buf.LocateOrigin, seed, asyncMap), nil
}

// Index exposes the built index directly, for collaborators (report
// writers, tests) that need lower-level access than the Engine API offers.
func (e *Engine) Index() *index.Index {
	return e.ix
}

// RootNode returns the parsed AST root, or nil before Parse.
func (e *Engine) RootNode() *sitter.Node {
	return e.root
}
