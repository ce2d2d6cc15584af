package handlers

import (
	"fmt"
	"strings"

	"github.com/asyncwand/asyncwand/internal/reportio"
)

// renderStoredMarkdown re-renders an already-flattened reportio.Document
// (read back from the store) as markdown, without needing the original
// report.Model or the engine that produced it.
func renderStoredMarkdown(doc *reportio.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Async propagation report\n\n")
	fmt.Fprintf(&b, "Seed: `%s`\n\n", doc.Seed)
	fmt.Fprintf(&b, "%d function(s) became async.\n\n", doc.FunctionCount)

	if doc.FunctionCount > 0 {
		b.WriteString("## Newly-async functions\n\n")
		for _, fn := range doc.Functions {
			fmt.Fprintf(&b, "### `%s`", fn.Function)
			if fn.IsSyntaxError {
				b.WriteString(" (invalid async syntax)")
			}
			b.WriteString("\n\n")
			for _, e := range fn.Edges {
				if e.Async != "" {
					fmt.Fprintf(&b, "- `%s` awaits, forcing `%s` async\n", e.Await, e.Async)
				} else {
					fmt.Fprintf(&b, "- `%s` awaits\n", e.Await)
				}
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
