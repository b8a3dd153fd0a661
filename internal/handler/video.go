package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/service"
)

// VideoService is what VideoHandler needs from service.VideoService.
type VideoService interface {
	Publish(ctx context.Context, caller string, in service.PublishInput) (*model.Video, error)
	GetByID(ctx context.Context, caller, videoID string) (*model.VideoDetail, error)
	List(ctx context.Context, caller string, in service.ListInput) (model.Page[model.VideoListItem], error)
	Update(ctx context.Context, caller, videoID string, in service.UpdateInput) (*model.Video, error)
	Delete(ctx context.Context, caller, videoID string) error
	TogglePublish(ctx context.Context, caller, videoID string) (*model.Video, error)
}

// VideoHandler serves /videos.
type VideoHandler struct {
	videos         VideoService
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewVideoHandler(videos VideoService, maxUploadBytes int64, logger *slog.Logger) *VideoHandler {
	return &VideoHandler{videos: videos, maxUploadBytes: maxUploadBytes, logger: logger}
}

// HandleList
//
// HTTP: GET /api/v1/videos?page&limit&query&sortBy&sortType&userId
//
// With neither page nor limit the response is a random sample of videos in
// the same page shape.
func (h *VideoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	q := r.URL.Query()
	result, err := h.videos.List(r.Context(), caller(r), service.ListInput{
		Page:     page.Page,
		Limit:    page.Limit,
		Query:    q.Get("query"),
		SortBy:   q.Get("sortBy"),
		SortType: q.Get("sortType"),
		UserID:   q.Get("userId"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, result, "Videos fetched successfully")
}

// HandlePublish uploads a new video.
//
// HTTP: POST /api/v1/videos
// BODY: multipart form with title, description, optional duration (seconds)
// and the files videoFile and thumbnail.
func (h *VideoHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	videoFile, err := formFile(r, "videoFile")
	if err != nil {
		cleanupMultipart(r)
		writeError(w, r, h.logger, err)
		return
	}
	thumbnail, err := formFile(r, "thumbnail")
	defer cleanupMultipart(r, videoFile, thumbnail)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var duration float64
	if raw := strings.TrimSpace(r.FormValue("duration")); raw != "" {
		duration, err = strconv.ParseFloat(raw, 64)
		if err != nil || duration < 0 {
			writeError(w, r, h.logger, apperror.ValidationFailed("duration", "duration must be a non-negative number"))
			return
		}
	}

	video, err := h.videos.Publish(r.Context(), caller(r), service.PublishInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Duration:    duration,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusCreated, video, "Video published successfully")
}

// HandleGetByID counts a view and returns the video page.
//
// HTTP: GET /api/v1/videos/{videoId}
func (h *VideoHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	video, err := h.videos.GetByID(r.Context(), caller(r), chi.URLParam(r, "videoId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, video, "Video fetched successfully")
}

// HandleUpdate
//
// HTTP: PATCH /api/v1/videos/{videoId}
// BODY: multipart form with title, description and an optional thumbnail.
func (h *VideoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	thumbnail, err := formFile(r, "thumbnail")
	defer cleanupMultipart(r, thumbnail)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	video, err := h.videos.Update(r.Context(), caller(r), chi.URLParam(r, "videoId"), service.UpdateInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Thumbnail:   thumbnail,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, video, "Video updated successfully")
}

// HandleDelete
//
// HTTP: DELETE /api/v1/videos/{videoId}
func (h *VideoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.videos.Delete(r.Context(), caller(r), chi.URLParam(r, "videoId")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil, "Video deleted successfully")
}

// HandleTogglePublish
//
// HTTP: PATCH /api/v1/videos/toggle/publish/{videoId}
func (h *VideoHandler) HandleTogglePublish(w http.ResponseWriter, r *http.Request) {
	video, err := h.videos.TogglePublish(r.Context(), caller(r), chi.URLParam(r, "videoId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, video, "Publish status toggled successfully")
}
