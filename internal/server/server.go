package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/tasks"
)

// Merger is the part of [tasks.Engine] the handlers use.
type Merger interface {
	Playlists(ctx context.Context) ([]models.Playlist, error)
	Preview(ctx context.Context, req tasks.PreviewRequest, progress chan<- tasks.ProgressUpdate) (*models.MergePlan, error)
	Publish(ctx context.Context, req tasks.PublishRequest, progress chan<- tasks.ProgressUpdate) (*models.PublishResult, error)
}

// RunLister lists recorded publish runs.
type RunLister interface {
	List(criteria map[string]any) ([]*models.MergeRun, error)
}

// HealthFunc reports whether a dependency is reachable.
type HealthFunc func(ctx context.Context) error

// Server holds the HTTP handlers for the merge API.
type Server struct {
	merger Merger
	runs   RunLister
	health HealthFunc
	logger *log.Logger
}

// New creates a Server. runs and health may be nil.
func New(merger Merger, runs RunLister, health HealthFunc, logger *log.Logger) *Server {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Server{
		merger: merger,
		runs:   runs,
		health: health,
		logger: shared.WithLogger(logger, "component", "server"),
	}
}

// Handler builds the gin engine with all routes registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.logger))
	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up all API routes on the given Gin engine.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.Health)

	api := r.Group("/api")
	{
		api.GET("/playlists", s.ListPlaylists)
		api.POST("/preview", s.Preview)
		api.POST("/publish", s.Publish)
		api.GET("/runs", s.ListRuns)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// RequestLogger logs one line per request at info level, or warn for 4xx/5xx responses.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"elapsed", time.Since(start).Round(time.Millisecond),
		}
		if status >= http.StatusBadRequest {
			logger.Warn("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}
