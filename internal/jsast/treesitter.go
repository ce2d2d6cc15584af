// Package jsast wraps Tree-sitter's JavaScript/TypeScript grammars and
// provides the small node-level helpers the scope/index/propagate
// packages build on top of.
package jsast

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Parser wraps the Tree-sitter parsers for JavaScript and TypeScript.
// Mirrors the teacher's TreeSitterParser, trimmed to the two grammars
// this engine actually exercises.
type Parser struct {
	jsParser *sitter.Parser
	tsParser *sitter.Parser

	jsLang *sitter.Language
	tsLang *sitter.Language
}

// NewParser initializes the JavaScript and TypeScript Tree-sitter parsers.
func NewParser() *Parser {
	p := &Parser{}

	p.jsLang = javascript.GetLanguage()
	p.jsParser = sitter.NewParser()
	p.jsParser.SetLanguage(p.jsLang)

	p.tsLang = typescript.GetLanguage()
	p.tsParser = sitter.NewParser()
	p.tsParser.SetLanguage(p.tsLang)

	return p
}

// Language names this package recognizes.
const (
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
)

func (p *Parser) langFor(language string) (*sitter.Parser, *sitter.Language, error) {
	switch language {
	case LangJavaScript, "js", "jsx", "":
		return p.jsParser, p.jsLang, nil
	case LangTypeScript, "ts", "tsx":
		return p.tsParser, p.tsLang, nil
	default:
		return nil, nil, fmt.Errorf("unsupported language: %s", language)
	}
}

// Parse parses content and returns the root node. A non-nil error
// alongside a non-nil node means the tree has parse errors; callers
// that only care about hard failure should check for a nil node.
func (p *Parser) Parse(content []byte, language string) (*sitter.Node, error) {
	parser, _, err := p.langFor(language)
	if err != nil {
		return nil, err
	}

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("parser returned nil tree")
	}

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("tree has no root node")
	}
	if root.HasError() {
		return root, fmt.Errorf("parse tree contains syntax errors")
	}
	return root, nil
}

// Query runs a Tree-sitter query over node and returns every match, in
// document order. Nothing else in this module calls it; the index
// builder walks the tree directly so it can track scope and
// await-depth as it goes.
func (p *Parser) Query(node *sitter.Node, queryString string, language string) ([]*sitter.QueryMatch, error) {
	if node == nil {
		return nil, fmt.Errorf("node is nil")
	}
	_, lang, err := p.langFor(language)
	if err != nil {
		return nil, err
	}

	query, err := sitter.NewQuery([]byte(queryString), lang)
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, node)

	var matches []*sitter.QueryMatch
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		matches = append(matches, match)
	}
	return matches, nil
}
