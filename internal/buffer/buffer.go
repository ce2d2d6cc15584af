// Package buffer implements the multi-file source buffer and line map
// described in spec.md §4.1: one or more named source fragments are
// concatenated into a single parse unit, and a line map lets any
// later AST node recover which file and original line it came from.
package buffer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/asyncwand/asyncwand/internal/engine/errors"
)

// Fragment is one appended piece of source: a file on disk or an
// in-memory string (an extracted inline <script>, say). Two fragments
// may share a Path — the same logical file can contribute in parts.
type Fragment struct {
	Path      string
	FirstLine int
	Text      string
}

// mapEntry is one LineMap row: [StartBufferLine, EndBufferLineExclusive)
// covers Path starting at FirstLineInFile.
type mapEntry struct {
	StartBufferLine        int
	EndBufferLineExclusive int
	Path                   string
	FirstLineInFile        int
}

// Buffer is the concatenated multi-file source buffer plus its line map.
type Buffer struct {
	fragments []Fragment
	lines     []string // 1-indexed access via lines[i-1]
	entries   []mapEntry
	seenPaths map[string]bool // appendFile idempotence, by resolved path
}

// New creates an empty Buffer.
func New() *Buffer {
	return &Buffer{seenPaths: make(map[string]bool)}
}

// AppendSource appends text (split on "\n") as a new fragment
// attributed to path, whose first line in that file is firstLine.
func (b *Buffer) AppendSource(path string, firstLine int, text string) error {
	if firstLine < 1 {
		return errors.New(errors.InvalidInput, fmt.Sprintf("firstLine must be >= 1, got %d", firstLine))
	}
	if text == "" {
		return errors.New(errors.InvalidInput, "appendSource received empty text")
	}

	lines := strings.Split(text, "\n")
	start := len(b.lines) + 1
	b.lines = append(b.lines, lines...)
	end := len(b.lines) + 1 // exclusive

	b.fragments = append(b.fragments, Fragment{Path: path, FirstLine: firstLine, Text: text})
	b.entries = append(b.entries, mapEntry{
		StartBufferLine:        start,
		EndBufferLineExclusive: end,
		Path:                   path,
		FirstLineInFile:        firstLine,
	})
	return nil
}

// HasFile reports whether appendFile already ingested resolvedPath,
// so callers (the engine) can make AppendFile idempotent per path.
func (b *Buffer) HasFile(resolvedPath string) bool {
	return b.seenPaths[resolvedPath]
}

// MarkFileSeen records that resolvedPath has been appended.
func (b *Buffer) MarkFileSeen(resolvedPath string) {
	b.seenPaths[resolvedPath] = true
}

// Text returns the full concatenated buffer content, "\n"-joined.
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// LineCount returns the number of lines currently in the buffer.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// LocateOrigin returns the (path, line) that buffer line bufferLine
// belongs to. O(log N) binary search over the line map.
func (b *Buffer) LocateOrigin(bufferLine int) (path string, line int, err error) {
	n := len(b.entries)
	idx := sort.Search(n, func(i int) bool {
		return b.entries[i].EndBufferLineExclusive > bufferLine
	})
	if idx >= n || bufferLine < b.entries[idx].StartBufferLine {
		return "", 0, errors.New(errors.NotFound, fmt.Sprintf("buffer line %d not found", bufferLine))
	}
	e := b.entries[idx]
	offset := bufferLine - e.StartBufferLine
	return e.Path, e.FirstLineInFile + offset, nil
}

// SerializeMapping emits a human-readable "bufferLine: path:originalLine"
// dump of the whole buffer, for tests and debugging.
func (b *Buffer) SerializeMapping() string {
	var sb strings.Builder
	for i := 1; i <= len(b.lines); i++ {
		path, line, err := b.LocateOrigin(i)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "%d: %s:%d\n", i, path, line)
	}
	return sb.String()
}

// Fragments returns the appended fragments, in append order.
func (b *Buffer) Fragments() []Fragment {
	return b.fragments
}
