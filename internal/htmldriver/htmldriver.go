// Package htmldriver feeds the engine's SourceBuffer from the "html"
// driver of spec.md §6: inline <script> bodies and inline event-handler
// attributes (onclick, onload, ...) are extracted and appended as
// separate fragments, each keyed by the HTML document's path and the
// 1-based line its content starts on, so report serialization still
// reads as "path:line" against the original .html file.
package htmldriver

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/asyncwand/asyncwand/internal/engine/errors"
)

// Fragment is one piece of extracted script content.
type Fragment struct {
	Path      string
	FirstLine int
	Text      string
}

var eventHandlerAttrs = map[string]bool{
	"onclick": true, "ondblclick": true, "onload": true, "onunload": true,
	"onchange": true, "onsubmit": true, "onreset": true, "onselect": true,
	"onblur": true, "onfocus": true, "onkeydown": true, "onkeypress": true,
	"onkeyup": true, "onmousedown": true, "onmousemove": true, "onmouseout": true,
	"onmouseover": true, "onmouseup": true, "onerror": true,
}

// Extract parses an HTML document's content and returns one Fragment
// per inline <script> body and per inline event-handler attribute.
// path is used only to annotate returned errors and fragments.
func Extract(path string, content []byte) ([]Fragment, error) {
	doc, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, errors.Wrap(errors.SyntaxError, "parsing HTML document", err).At(path, 0)
	}

	lines := newLineIndex(content)
	var fragments []Fragment

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.DataAtom == atom.Script {
				if inline := inlineScriptText(n); inline != "" {
					line := lines.lineAt(n)
					fragments = append(fragments, Fragment{
						Path:      path,
						FirstLine: line,
						Text:      inline,
					})
				}
			}
			for _, attr := range n.Attr {
				if eventHandlerAttrs[strings.ToLower(attr.Key)] && strings.TrimSpace(attr.Val) != "" {
					line := lines.lineAt(n)
					fragments = append(fragments, Fragment{
						Path:      path,
						FirstLine: line,
						Text:      fmt.Sprintf("(function(event) { %s\n});\n", attr.Val),
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return fragments, nil
}

func inlineScriptText(n *html.Node) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, "src") {
			return ""
		}
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// lineIndex approximates a node's source line from its byte offset
// within the document, since golang.org/x/net/html does not expose
// token positions on the parsed tree. It counts newlines up to the
// first occurrence of the node's own rendered text, which is accurate
// enough for "which line does this inline fragment start on" without
// needing a second, positional-aware parse pass.
type lineIndex struct {
	content []byte
}

func newLineIndex(content []byte) *lineIndex {
	return &lineIndex{content: content}
}

func (li *lineIndex) lineAt(n *html.Node) int {
	needle := nodeSearchText(n)
	if needle == "" {
		return 1
	}
	offset := strings.Index(string(li.content), needle)
	if offset < 0 {
		return 1
	}
	return 1 + strings.Count(string(li.content[:offset]), "\n")
}

func nodeSearchText(n *html.Node) string {
	if n.DataAtom == atom.Script {
		return inlineScriptText(n)
	}
	for _, attr := range n.Attr {
		if eventHandlerAttrs[strings.ToLower(attr.Key)] {
			return attr.Val
		}
	}
	return ""
}
