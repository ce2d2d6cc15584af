package htmldriver

import "testing"

func TestExtract_InlineScript(t *testing.T) {
	doc := []byte("<html><body>\n<script>\nfunction a() { b(); }\n</script>\n</body></html>")
	fragments, err := Extract("page.html", doc)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(fragments) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(fragments))
	}
	if fragments[0].Path != "page.html" {
		t.Errorf("unexpected path: %s", fragments[0].Path)
	}
	if fragments[0].FirstLine < 2 {
		t.Errorf("expected first line to point past the <script> tag, got %d", fragments[0].FirstLine)
	}
}

func TestExtract_SkipsExternalScript(t *testing.T) {
	doc := []byte(`<html><body><script src="app.js"></script></body></html>`)
	fragments, err := Extract("page.html", doc)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(fragments) != 0 {
		t.Fatalf("expected external script to be skipped, got %d fragments", len(fragments))
	}
}

func TestExtract_EventHandlerAttribute(t *testing.T) {
	doc := []byte(`<html><body><button onclick="handleClick()">Go</button></body></html>`)
	fragments, err := Extract("page.html", doc)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(fragments) != 1 {
		t.Fatalf("expected 1 fragment for the event handler, got %d", len(fragments))
	}
	if want := "handleClick()"; !contains(fragments[0].Text, want) {
		t.Errorf("expected fragment text to contain %q, got %q", want, fragments[0].Text)
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
