// Package server exposes the rating session controller over HTTP for
// the study's web UI.
package server

import (
	"strings"

	"github.com/example/aquascore/internal/config"
	"github.com/example/aquascore/internal/database"
	"github.com/example/aquascore/internal/session"
	"github.com/gin-gonic/gin"
)

// Server wires the session manager and the rating store into a gin router.
type Server struct {
	manager *session.Manager
	repo    *database.AnnotationRepository
	cfg     *config.Config
}

// New creates the HTTP server
func New(manager *session.Manager, repo *database.AnnotationRepository, cfg *config.Config) *Server {
	return &Server{manager: manager, repo: repo, cfg: cfg}
}

// Router builds the route table.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()

	router.GET("/healthcheck", s.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/sessions", s.StartSession)
		api.GET("/sessions/:id", s.GetSession)
		api.POST("/sessions/:id/scores", s.SetScores)
		api.POST("/sessions/:id/submit", s.Submit)
		api.POST("/sessions/:id/prev", s.Prev)
		api.GET("/participants/:id/progress", s.Progress)
	}

	// In directory mode the service hosts the images itself; in
	// manifest mode they live behind the configured base URL.
	if s.cfg.CorpusMode == config.CorpusModeDir {
		router.Static("/images", s.cfg.CorpusDir)
	}

	return router
}

// imageURL resolves an image identifier to the URL the UI should load.
func (s *Server) imageURL(imageName string) string {
	if imageName == "" {
		return ""
	}
	if s.cfg.ImageBaseURL != "" {
		return strings.TrimSuffix(s.cfg.ImageBaseURL, "/") + "/" + imageName
	}
	if s.cfg.CorpusMode == config.CorpusModeDir {
		return "/images/" + imageName
	}
	return imageName
}
