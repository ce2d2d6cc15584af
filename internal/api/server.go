// Package api wires the HTTP surface of SPEC_FULL.md §6.4: a gin
// router exposing POST /api/v1/analyses, GET /api/v1/analyses/:id, and
// GET /api/v1/analyses/:id/report, each delegating to internal/runner
// and internal/store. Grounded on the teacher's internal/api.Server.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asyncwand/asyncwand/internal/api/handlers"
	"github.com/asyncwand/asyncwand/internal/api/middleware"
	"github.com/asyncwand/asyncwand/internal/store"
	"github.com/asyncwand/asyncwand/internal/support"
)

// Server is the analysis HTTP API server.
type Server struct {
	logger          *support.Logger
	analysesHandler *handlers.AnalysesHandler
}

// NewServer constructs a Server persisting runs through st. st may be
// nil, in which case /api/v1/analyses runs but Get/Report respond 503.
func NewServer(st *store.Store, logger *support.Logger) *Server {
	if logger == nil {
		logger = support.NewSilentLogger()
	}
	return &Server{
		logger:          logger,
		analysesHandler: handlers.NewAnalysesHandler(st),
	}
}

// SetupRouter builds the gin.Engine with middleware and routes registered.
func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging(s.logger))

	r.GET("/health", s.healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/analyses", s.analysesHandler.Create)
		v1.GET("/analyses/:id", s.analysesHandler.Get)
		v1.GET("/analyses/:id/report", s.analysesHandler.Report)
	}
	return r
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "asyncwand API server is running"})
}
