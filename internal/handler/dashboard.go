package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/videotube/internal/model"
)

// DashboardService is what DashboardHandler needs from
// service.DashboardService.
type DashboardService interface {
	ChannelStats(ctx context.Context, caller string) (*model.ChannelStats, error)
	ChannelVideos(ctx context.Context, caller string) ([]model.ChannelVideo, error)
}

// DashboardHandler serves /dashboard for the caller's own channel.
type DashboardHandler struct {
	dashboard DashboardService
	logger    *slog.Logger
}

func NewDashboardHandler(dashboard DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, logger: logger}
}

// HandleStats
//
// HTTP: GET /api/v1/dashboard/stats
func (h *DashboardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.ChannelStats(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, stats, "Channel stats fetched successfully")
}

// HandleVideos
//
// HTTP: GET /api/v1/dashboard/videos
func (h *DashboardHandler) HandleVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.dashboard.ChannelVideos(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, videos, "Channel videos fetched successfully")
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the health check.
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// HandleHealth pings MongoDB with a short timeout.
//
// HTTP: GET /api/v1/healthcheck
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health check failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, ErrorEnvelope{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "Database unreachable",
			Success:    false,
			Errors:     []FieldError{},
		})
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "OK"}, "Health check passed")
}
