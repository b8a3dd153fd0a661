package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/videotube/internal/model"
)

// TweetService is what TweetHandler needs from service.TweetService.
type TweetService interface {
	Create(ctx context.Context, caller, content string) (*model.Tweet, error)
	Update(ctx context.Context, caller, tweetID, content string) (*model.Tweet, error)
	Delete(ctx context.Context, caller, tweetID string) error
	ListByOwner(ctx context.Context, caller, userID string) ([]model.TweetView, error)
}

// TweetHandler serves /tweets.
type TweetHandler struct {
	tweets TweetService
	logger *slog.Logger
}

func NewTweetHandler(tweets TweetService, logger *slog.Logger) *TweetHandler {
	return &TweetHandler{tweets: tweets, logger: logger}
}

// HandleCreate
//
// HTTP: POST /api/v1/tweets
// BODY: {"content": "..."}
func (h *TweetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	tweet, err := h.tweets.Create(r.Context(), caller(r), req.Content)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusCreated, tweet, "Tweet created successfully")
}

// HandleListByOwner
//
// HTTP: GET /api/v1/tweets/user/{userId}
func (h *TweetHandler) HandleListByOwner(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.tweets.ListByOwner(r.Context(), caller(r), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, tweets, "Tweets fetched successfully")
}

// HandleUpdate
//
// HTTP: PATCH /api/v1/tweets/{tweetId}
func (h *TweetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	tweet, err := h.tweets.Update(r.Context(), caller(r), chi.URLParam(r, "tweetId"), req.Content)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, tweet, "Tweet updated successfully")
}

// HandleDelete
//
// HTTP: DELETE /api/v1/tweets/{tweetId}
func (h *TweetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.tweets.Delete(r.Context(), caller(r), chi.URLParam(r, "tweetId")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil, "Tweet deleted successfully")
}
