package gitroot

import "testing"

func TestIsGitURL(t *testing.T) {
	cases := []struct {
		root string
		want bool
	}{
		{"git+https://example.com/repo.git", true},
		{"git+ssh://git@example.com/repo.git", true},
		{"/local/path", false},
		{"https://example.com/repo.git", false},
	}
	for _, c := range cases {
		if got := IsGitURL(c.root); got != c.want {
			t.Errorf("IsGitURL(%q) = %v, want %v", c.root, got, c.want)
		}
	}
}

// Resolve requires network access to clone a real repository, so it is
// not exercised here beyond the URL-scheme detection covered above.
