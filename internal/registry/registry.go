// Package registry resolves chrome://-scheme script URLs referenced
// from extracted HTML (see internal/htmldriver) to on-disk paths under
// a configured root. The original async-propagation tool this spec was
// distilled from ran inside a live Gecko/Firefox process and could ask
// the running browser's chrome registry to resolve a chrome:// URI
// directly; a standalone CLI has no such registry to query, so this
// package replaces it with a small, file-driven scheme map loaded once
// per run and consulted the same way.
package registry

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/asyncwand/asyncwand/internal/engine/errors"
)

const scheme = "chrome://"

// Registry maps chrome://package/content/... URLs to filesystem paths.
type Registry struct {
	mappings map[string]string // scheme prefix -> root-relative directory
}

// New returns an empty Registry; callers populate it via Load or Add.
func New() *Registry {
	return &Registry{mappings: make(map[string]string)}
}

// Add registers a mapping from a "chrome://name/" prefix to a
// directory relative to the scan root.
func (r *Registry) Add(prefix, dir string) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	r.mappings[prefix] = dir
}

// Load reads a registry manifest: one "chrome://prefix/ relative/dir"
// pair per line, blank lines and lines starting with "#" ignored.
// This mirrors how the original tool's chrome.manifest files declared
// content/skin/locale package roots.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.Io, "opening registry manifest", err).At(path, 0)
	}
	defer f.Close()

	r := New()
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.New(errors.InvalidInput, "malformed registry manifest line: "+line).At(path, lineNo)
		}
		r.Add(fields[0], fields[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.Io, "reading registry manifest", err).At(path, 0)
	}
	return r, nil
}

// Resolve maps a chrome:// URL to a root-relative path, choosing the
// longest matching registered prefix. Non-chrome:// URLs are returned
// unchanged, since the html driver may encounter ordinary relative
// <script src> paths alongside chrome:// ones.
func (r *Registry) Resolve(url string) (string, error) {
	if !strings.HasPrefix(url, scheme) {
		return url, nil
	}
	var bestPrefix, bestDir string
	for prefix, dir := range r.mappings {
		if strings.HasPrefix(url, prefix) && len(prefix) > len(bestPrefix) {
			bestPrefix, bestDir = prefix, dir
		}
	}
	if bestPrefix == "" {
		return "", errors.New(errors.NotFound, "no registry mapping for "+url)
	}
	rest := strings.TrimPrefix(url, bestPrefix)
	return filepath.Join(bestDir, filepath.FromSlash(rest)), nil
}
