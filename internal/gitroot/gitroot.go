// Package gitroot resolves a "git+https://" or "git+ssh://"
// driver.root (SPEC_FULL.md §6.2) to a local clone, so standalone and
// configuration driver roots can point at a remote repository instead
// of a local checkout.
package gitroot

import (
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/asyncwand/asyncwand/internal/engine/errors"
)

const (
	httpsPrefix = "git+https://"
	sshPrefix   = "git+ssh://"
)

// IsGitURL reports whether root uses the git+https:///git+ssh:// scheme.
func IsGitURL(root string) bool {
	return strings.HasPrefix(root, httpsPrefix) || strings.HasPrefix(root, sshPrefix)
}

// Resolve shallow-clones a git+https://|git+ssh:// root to a fresh
// temp directory and returns the local path, ready to substitute for
// driver.root. ref, if non-empty, checks out that branch or tag
// instead of the repository's default branch.
func Resolve(root string, ref string) (string, error) {
	url := strings.TrimPrefix(strings.TrimPrefix(root, httpsPrefix), sshPrefix)
	if strings.HasPrefix(root, httpsPrefix) {
		url = "https://" + url
	} else {
		url = "ssh://" + url
	}

	dir, err := os.MkdirTemp("", "asyncwand-gitroot-*")
	if err != nil {
		return "", errors.Wrap(errors.Io, "creating temp directory for git clone", err)
	}

	opts := &git.CloneOptions{
		URL:   url,
		Depth: 1,
	}
	if ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(ref)
		opts.SingleBranch = true
	}

	if _, err := git.PlainClone(dir, false, opts); err != nil {
		os.RemoveAll(dir)
		return "", errors.Wrap(errors.Io, "cloning git root "+url, err).At(root, 0)
	}
	return dir, nil
}
