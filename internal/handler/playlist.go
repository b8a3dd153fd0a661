package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/videotube/internal/model"
)

// PlaylistService is what PlaylistHandler needs from service.PlaylistService.
type PlaylistService interface {
	Create(ctx context.Context, caller, title, description string) (*model.Playlist, error)
	Update(ctx context.Context, caller, playlistID, title, description string) (*model.Playlist, error)
	Delete(ctx context.Context, caller, playlistID string) error
	AddVideo(ctx context.Context, caller, playlistID, videoID string) (*model.Playlist, error)
	RemoveVideo(ctx context.Context, caller, playlistID, videoID string) (*model.Playlist, error)
	GetByID(ctx context.Context, playlistID string) (*model.PlaylistDetail, error)
	ListByOwner(ctx context.Context, userID string) ([]model.PlaylistSummary, error)
}

// PlaylistHandler serves /playlist.
type PlaylistHandler struct {
	playlists PlaylistService
	logger    *slog.Logger
}

func NewPlaylistHandler(playlists PlaylistService, logger *slog.Logger) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists, logger: logger}
}

// playlistRequest accepts "name" as sent by existing clients.
type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreate
//
// HTTP: POST /api/v1/playlist
// BODY: {"name": "...", "description": "..."}
func (h *PlaylistHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	playlist, err := h.playlists.Create(r.Context(), caller(r), req.Name, req.Description)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusCreated, playlist, "Playlist created successfully")
}

// HandleGetByID
//
// HTTP: GET /api/v1/playlist/{playlistId}
func (h *PlaylistHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.playlists.GetByID(r.Context(), chi.URLParam(r, "playlistId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, playlist, "Playlist fetched successfully")
}

// HandleUpdate
//
// HTTP: PATCH /api/v1/playlist/{playlistId}
func (h *PlaylistHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	playlist, err := h.playlists.Update(r.Context(), caller(r), chi.URLParam(r, "playlistId"), req.Name, req.Description)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, playlist, "Playlist updated successfully")
}

// HandleDelete
//
// HTTP: DELETE /api/v1/playlist/{playlistId}
func (h *PlaylistHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.playlists.Delete(r.Context(), caller(r), chi.URLParam(r, "playlistId")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil, "Playlist deleted successfully")
}

// HandleAddVideo
//
// HTTP: PATCH /api/v1/playlist/add/{videoId}/{playlistId}
func (h *PlaylistHandler) HandleAddVideo(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.playlists.AddVideo(r.Context(), caller(r), chi.URLParam(r, "playlistId"), chi.URLParam(r, "videoId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, playlist, "Video added to playlist")
}

// HandleRemoveVideo
//
// HTTP: PATCH /api/v1/playlist/remove/{videoId}/{playlistId}
func (h *PlaylistHandler) HandleRemoveVideo(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.playlists.RemoveVideo(r.Context(), caller(r), chi.URLParam(r, "playlistId"), chi.URLParam(r, "videoId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, playlist, "Video removed from playlist")
}

// HandleListByOwner
//
// HTTP: GET /api/v1/playlist/user/{userId}
func (h *PlaylistHandler) HandleListByOwner(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.playlists.ListByOwner(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, playlists, "Playlists fetched successfully")
}
