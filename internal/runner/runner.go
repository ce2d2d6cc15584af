// Package runner drives a single configuration document through the
// engine end to end: resolving the root (including git-backed roots),
// feeding the SourceBuffer from either the javascript or html driver,
// applying ignores, and producing a report.Model. Both cmd/cli and
// internal/api call Run so the two front ends share one pipeline.
package runner

import (
	"os"
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/asyncwand/asyncwand/internal/config"
	"github.com/asyncwand/asyncwand/internal/engine"
	"github.com/asyncwand/asyncwand/internal/engine/errors"
	"github.com/asyncwand/asyncwand/internal/gitroot"
	"github.com/asyncwand/asyncwand/internal/htmldriver"
	"github.com/asyncwand/asyncwand/internal/jsast"
	"github.com/asyncwand/asyncwand/internal/report"
)

// Result is the outcome of running a configuration document.
type Result struct {
	Model  *report.Model
	Engine *engine.Engine
}

// Run executes doc's driver against the engine and returns the
// resulting report.Model, seeded from doc.Driver.MarkAsync.
func Run(doc *config.Document) (*Result, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	root := doc.Driver.Root
	if gitroot.IsGitURL(root) {
		cloned, err := gitroot.Resolve(root, "")
		if err != nil {
			return nil, err
		}
		root = cloned
	}

	opts := engine.Options{Language: jsast.LangJavaScript}
	e := engine.New(root, opts)

	switch doc.Driver.Type {
	case config.DriverJavaScript:
		for _, script := range doc.Driver.Scripts {
			if err := e.AppendFile(script); err != nil {
				return nil, err
			}
		}
	case config.DriverHTML:
		if err := appendHTML(e, root, doc.Driver.PathToHTML); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.InvalidInput, "unknown driver type "+doc.Driver.Type)
	}

	if err := e.Parse(); err != nil {
		return nil, err
	}

	for _, ig := range doc.Driver.Ignore {
		n, err := e.NodeByLineFilterIndex(ig.Path, ig.Line, ig.Index, typeFilter(ig.Type))
		if err != nil {
			return nil, err
		}
		e.MarkIgnored(n)
	}

	seed, err := e.FunctionNodeFromLine(doc.Driver.MarkAsync.Path, doc.Driver.MarkAsync.Line, doc.Driver.MarkAsync.FunctionIndex)
	if err != nil {
		return nil, err
	}

	model, err := e.GetAsyncStacks(seed)
	if err != nil {
		return nil, err
	}
	return &Result{Model: model, Engine: e}, nil
}

func appendHTML(e *engine.Engine, root, pathToHTML string) error {
	full := filepath.Join(root, pathToHTML)
	content, err := os.ReadFile(full)
	if err != nil {
		return errors.Wrap(errors.Io, "reading HTML document", err).At(pathToHTML, 0)
	}
	fragments, err := htmldriver.Extract(pathToHTML, content)
	if err != nil {
		return err
	}
	for _, f := range fragments {
		if err := e.AppendSource(f.Path, f.FirstLine, f.Text); err != nil {
			return err
		}
	}
	return nil
}

// typeFilter returns a node-kind predicate matching jsast.Kind's
// naming, or a predicate that matches everything when typ is empty.
func typeFilter(typ string) func(n *sitter.Node) bool {
	if typ == "" {
		return func(*sitter.Node) bool { return true }
	}
	return func(n *sitter.Node) bool { return jsast.Kind(n) == typ }
}
