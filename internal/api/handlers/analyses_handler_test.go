package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAnalysesHandler(nil)
	r.POST("/api/v1/analyses", h.Create)
	r.GET("/api/v1/analyses/:id", h.Get)
	r.GET("/api/v1/analyses/:id/report", h.Report)
	return r
}

func TestAnalysesHandler_Create_RunsEngineSynchronously(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.js"), []byte("function a() {\n\tb();\n}\n"), 0o644); err != nil {
		t.Fatalf("writing a.js failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.js"), []byte("function b() {\n}\n"), 0o644); err != nil {
		t.Fatalf("writing b.js failed: %v", err)
	}

	body := `{
		"driver": {
			"type": "javascript",
			"root": "` + dir + `",
			"scripts": ["a.js", "b.js"],
			"markAsync": {"path": "b.js", "line": 1, "functionIndex": 0}
		},
		"serializer": {"type": "json"}
	}`

	r := newTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAnalysesHandler_Create_RejectsMalformedBody(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestAnalysesHandler_Get_WithoutStoreReturnsUnavailable(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/some-id", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a configured store, got %d", rec.Code)
	}
}
