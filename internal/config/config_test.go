package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	doc := &Document{
		Driver: Driver{
			Type:    DriverJavaScript,
			Root:    "/repo",
			Scripts: []string{"a.js", "b.js"},
			MarkAsync: SeedRef{
				Path: "b.js", Line: 1, FunctionIndex: 0,
			},
		},
		Serializer: Serializer{Type: "markdown"},
	}

	if err := Save(path, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Driver.Type != DriverJavaScript || len(loaded.Driver.Scripts) != 2 {
		t.Errorf("round trip lost data: %+v", loaded.Driver)
	}
}

func TestValidate_RejectsUnknownDriverType(t *testing.T) {
	doc := &Document{Driver: Driver{Type: "xml", Root: "/repo"}}
	if err := doc.Validate(); err == nil {
		t.Errorf("expected validation error for unknown driver type")
	}
}

func TestValidate_RequiresScriptsForJavaScriptDriver(t *testing.T) {
	doc := &Document{Driver: Driver{Type: DriverJavaScript, Root: "/repo"}}
	if err := doc.Validate(); err == nil {
		t.Errorf("expected validation error for missing driver.scripts")
	}
}

func TestPatchSaveConfig_PreservesUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"driver":{"type":"javascript","root":"/repo","scripts":["a.js"]},"notes":"hand-authored"}`), 0o644); err != nil {
		t.Fatalf("seeding config failed: %v", err)
	}

	if err := PatchSaveConfig(path, SeedRef{Path: "a.js", Line: 1, FunctionIndex: 0}, nil); err != nil {
		t.Fatalf("PatchSaveConfig failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading patched config failed: %v", err)
	}
	if !contains(content, "hand-authored") {
		t.Errorf("patch dropped an unrecognized field: %s", content)
	}
	if !contains(content, "markAsync") {
		t.Errorf("patch did not write markAsync: %s", content)
	}
}

func contains(haystack []byte, needle string) bool {
	return len(haystack) > 0 && string(haystack) != "" && indexOf(string(haystack), needle) >= 0
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
