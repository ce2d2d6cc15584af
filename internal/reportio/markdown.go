package reportio

import (
	"fmt"
	"strings"

	"github.com/asyncwand/asyncwand/internal/report"
)

// WriteMarkdown renders m as a nested call-stack listing, in the
// register of the teacher CLI's plain-text printSummary: a heading per
// newly-async function, its forcing await sites, and an inline
// "(invalid async syntax)" callout where IsAsyncSyntaxError holds.
func WriteMarkdown(m *report.Model) (string, error) {
	doc, err := BuildDocument(m)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Async propagation report\n\n")
	fmt.Fprintf(&b, "Seed: `%s`\n\n", doc.Seed)
	fmt.Fprintf(&b, "%d function(s) became async.\n\n", doc.FunctionCount)

	if len(doc.Root) > 0 {
		b.WriteString("## Seed await sites\n\n")
		for _, e := range doc.Root {
			writeEdgeLine(&b, e)
		}
		b.WriteString("\n")
	}

	if doc.FunctionCount > 0 {
		b.WriteString("## Newly-async functions\n\n")
		for _, fn := range doc.Functions {
			fmt.Fprintf(&b, "### `%s`", fn.Function)
			if fn.IsSyntaxError {
				b.WriteString(" (invalid async syntax)")
			}
			b.WriteString("\n\n")
			for _, e := range fn.Edges {
				writeEdgeLine(&b, e)
			}
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

func writeEdgeLine(b *strings.Builder, e Edge) {
	switch {
	case e.Await != "" && e.Async != "":
		fmt.Fprintf(b, "- `%s` awaits, forcing `%s` async\n", e.Await, e.Async)
	case e.Await != "":
		fmt.Fprintf(b, "- `%s` awaits\n", e.Await)
	default:
		fmt.Fprintf(b, "- (seed)\n")
	}
}
