package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asyncwand/asyncwand/internal/config"
)

func TestCreateAnalysis_ParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"schemaVersion":1,"seed":"b.js:1 FunctionDeclaration[0]","functionCount":0}`))
	}))
	defer server.Close()

	c := New(server.URL)
	doc := &config.Document{Driver: config.Driver{Type: config.DriverJavaScript}}
	resp, err := c.CreateAnalysis(context.Background(), doc)
	if err != nil {
		t.Fatalf("CreateAnalysis failed: %v", err)
	}
	if resp.Seed != "b.js:1 FunctionDeclaration[0]" {
		t.Errorf("unexpected seed: %s", resp.Seed)
	}
}

func TestCreateAnalysis_ReturnsAPIErrorOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad config"}`))
	}))
	defer server.Close()

	c := New(server.URL, WithMaxRetries(0))
	_, err := c.CreateAnalysis(context.Background(), &config.Document{})
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected status code: %d", apiErr.StatusCode)
	}
}
