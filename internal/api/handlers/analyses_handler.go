package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asyncwand/asyncwand/internal/config"
	"github.com/asyncwand/asyncwand/internal/engine/errors"
	"github.com/asyncwand/asyncwand/internal/reportio"
	"github.com/asyncwand/asyncwand/internal/runner"
	"github.com/asyncwand/asyncwand/internal/store"
	"github.com/asyncwand/asyncwand/internal/support"
)

// AnalysesHandler implements the /api/v1/analyses* endpoints of
// SPEC_FULL.md §6.4.
type AnalysesHandler struct {
	store *store.Store
}

// NewAnalysesHandler constructs a handler persisting through st.
func NewAnalysesHandler(st *store.Store) *AnalysesHandler {
	return &AnalysesHandler{store: st}
}

// Create handles POST /api/v1/analyses: body is a configuration
// document; runs the engine synchronously and persists a summary.
func (h *AnalysesHandler) Create(c *gin.Context) {
	var doc config.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := runner.Run(&doc)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	asyncMapJSON, err := reportio.WriteJSON(result.Model)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	configJSON, _ := json.Marshal(doc)

	runID := support.NewRunID()
	if h.store != nil {
		if err := h.store.Save(c.Request.Context(), store.RunSummary{
			RunID:     runID,
			CreatedAt: time.Now().UTC(),
			Config:    configJSON,
			AsyncMap:  asyncMapJSON,
		}); err != nil {
			writeEngineError(c, err)
			return
		}
	}

	c.Header("X-Run-Id", runID)
	c.Data(http.StatusOK, "application/json", asyncMapJSON)
}

// Get handles GET /api/v1/analyses/:id.
func (h *AnalysesHandler) Get(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store not configured"})
		return
	}
	summary, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"runID":     summary.RunID,
		"createdAt": summary.CreatedAt,
		"config":    json.RawMessage(summary.Config),
		"asyncMap":  json.RawMessage(summary.AsyncMap),
	})
}

// Report handles GET /api/v1/analyses/:id/report?format=markdown|json,
// re-rendering the persisted asyncMap JSON into the requested format.
// Because the stored asyncMap is already reportio.Document JSON, a
// markdown request here just reformats the same underlying
// field set the JSON format returns, rather than re-running the engine.
func (h *AnalysesHandler) Report(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store not configured"})
		return
	}
	summary, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}

	format := c.DefaultQuery("format", "json")
	if format == "json" {
		c.Data(http.StatusOK, "application/json", summary.AsyncMap)
		return
	}
	if format != "markdown" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json or markdown"})
		return
	}

	var doc reportio.Document
	if err := json.Unmarshal(summary.AsyncMap, &doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stored asyncMap is not valid JSON"})
		return
	}
	c.String(http.StatusOK, renderStoredMarkdown(&doc))
}

func writeEngineError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if ee, ok := err.(*errors.Error); ok {
		switch ee.Kind {
		case errors.NotFound:
			status = http.StatusNotFound
		case errors.InvalidInput, errors.PathEscape:
			status = http.StatusBadRequest
		case errors.SyntaxError:
			status = http.StatusUnprocessableEntity
		}
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
