package cache

import (
	"path/filepath"
	"testing"
)

func TestCache_RecordThenUnchanged(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	unchanged, checksum, err := c.ChecksumMatches("a.js", 100, 10, []byte("function a() {}"))
	if err != nil {
		t.Fatalf("ChecksumMatches failed: %v", err)
	}
	if unchanged {
		t.Errorf("expected cache miss on first call")
	}
	if err := c.Record("a.js", 100, 10, checksum); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	unchanged, _, err = c.ChecksumMatches("a.js", 100, 10, []byte("function a() {}"))
	if err != nil {
		t.Fatalf("ChecksumMatches (second) failed: %v", err)
	}
	if !unchanged {
		t.Errorf("expected cache hit after Record")
	}
}

func TestCache_DetectsContentChange(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	if err := c.Record("a.js", 100, 10, "checksum-v1"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	unchanged, err := c.Unchanged("a.js", 100, 11, "checksum-v1")
	if err != nil {
		t.Fatalf("Unchanged failed: %v", err)
	}
	if unchanged {
		t.Errorf("expected size change to invalidate cache entry")
	}
}
