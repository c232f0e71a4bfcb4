package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/tasks"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// PreviewRequest is the body of POST /api/preview.
type PreviewRequest struct {
	Destination  string            `json:"destination"`
	Playlists    []models.Playlist `json:"playlists"`
	IncludeLiked bool              `json:"include_liked"`
}

// PublishRequest is the body of POST /api/publish.
type PublishRequest struct {
	Destination  string            `json:"destination"`
	VideoIDs     []string          `json:"video_ids"`
	Privacy      string            `json:"privacy"`
	Description  string            `json:"description"`
	Playlists    []models.Playlist `json:"playlists"`
	IncludeLiked bool              `json:"include_liked"`
}

// RunView is a recorded publish run as returned by GET /api/runs.
type RunView struct {
	ID               string                    `json:"id"`
	Sequence         int                       `json:"sequence"`
	DestinationTitle string                    `json:"destination_title"`
	DestinationID    string                    `json:"destination_id,omitempty"`
	Privacy          models.Privacy            `json:"privacy"`
	Status           models.RunStatus          `json:"status"`
	TracksTotal      int                       `json:"tracks_total"`
	TracksAdded      int                       `json:"tracks_added"`
	ErrorMessage     string                    `json:"error_message,omitempty"`
	PlaylistURL      string                    `json:"playlist_url,omitempty"`
	Sources          []models.SourceDescriptor `json:"sources"`
	StartedAt        *time.Time                `json:"started_at,omitempty"`
	CompletedAt      *time.Time                `json:"completed_at,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
}

func newRunView(r *models.MergeRun) RunView {
	return RunView{
		ID:               r.RunID,
		Sequence:         r.Sequence,
		DestinationTitle: r.DestinationTitle,
		DestinationID:    r.DestinationID,
		Privacy:          r.Privacy,
		Status:           r.Status,
		TracksTotal:      r.TracksTotal,
		TracksAdded:      r.TracksAdded,
		ErrorMessage:     r.ErrorMessage,
		PlaylistURL:      r.PlaylistURL,
		Sources:          r.Sources,
		StartedAt:        r.StartedAt,
		CompletedAt:      r.CompletedAt,
		CreatedAt:        r.Created,
	}
}

// statusFor maps pipeline errors to HTTP status codes and short error codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, shared.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrNoSources),
		errors.Is(err, shared.ErrNothingToAdd),
		errors.Is(err, shared.ErrInvalidPrivacy),
		errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, shared.ErrDestinationLookup),
		errors.Is(err, shared.ErrPublish),
		errors.Is(err, shared.ErrServiceUnavailable),
		errors.Is(err, shared.ErrAPIRequest):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func (s *Server) fail(c *gin.Context, err error, message string) {
	status, code := statusFor(err)
	c.JSON(status, ErrorResponse{Error: code, Message: message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: message})
}

// Health returns the service status. With a health check configured, an unreachable proxy yields 503.
func (s *Server) Health(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	if err := s.health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "proxy": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "proxy": "ok"})
}

// ListPlaylists returns the library playlists available for selection.
func (s *Server) ListPlaylists(c *gin.Context) {
	playlists, err := s.merger.Playlists(c.Request.Context())
	if err != nil {
		s.fail(c, err, err.Error())
		return
	}
	c.JSON(http.StatusOK, playlists)
}

// Preview plans a merge of the selected playlists into the destination.
func (s *Server) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	plan, err := s.merger.Preview(context.WithoutCancel(c.Request.Context()), tasks.PreviewRequest{
		DestinationTitle: req.Destination,
		Sources:          tasks.SelectSources(req.Playlists, req.Destination),
		IncludeLiked:     req.IncludeLiked,
	}, nil)
	if err != nil {
		s.fail(c, err, tasks.PreviewFailedMessage(err))
		return
	}
	c.JSON(http.StatusOK, models.NewPreview(plan))
}

// Publish writes the ids of an accepted preview to the destination.
//
// A publish that starts but fails part way responds 502 with the [models.PublishResult] so the
// committed count is visible.
func (s *Server) Publish(c *gin.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	if len(req.VideoIDs) == 0 {
		badRequest(c, tasks.NothingToAddMessage)
		return
	}

	privacy, err := models.ParsePrivacy(req.Privacy)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	sources := tasks.SelectSources(req.Playlists, req.Destination)
	if req.IncludeLiked {
		sources = append(sources, models.LikedSongs())
	}

	// a started publish runs to completion even if the client goes away
	result, err := s.merger.Publish(context.WithoutCancel(c.Request.Context()), tasks.PublishRequest{
		VideoIDs:         req.VideoIDs,
		DestinationTitle: req.Destination,
		Privacy:          privacy,
		Description:      req.Description,
		Sources:          sources,
	}, nil)
	if err != nil && result == nil {
		s.fail(c, err, err.Error())
		return
	}
	if err != nil {
		status, _ := statusFor(err)
		c.JSON(status, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListRuns returns recorded publish runs. Query parameters: status, destination, limit.
func (s *Server) ListRuns(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "unavailable", Message: "run history is disabled"})
		return
	}

	criteria := map[string]any{}
	if status := c.Query("status"); status != "" {
		criteria["status"] = status
	}
	if dest := c.Query("destination"); dest != "" {
		criteria["destination_title"] = dest
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		criteria["limit"] = limit
	}

	runs, err := s.runs.List(criteria)
	if err != nil {
		s.fail(c, err, err.Error())
		return
	}

	views := make([]RunView, len(runs))
	for i, r := range runs {
		views[i] = newRunView(r)
	}
	c.JSON(http.StatusOK, views)
}
