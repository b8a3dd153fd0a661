package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/videotube/internal/model"
)

// CommentService is what CommentHandler needs from service.CommentService.
type CommentService interface {
	List(ctx context.Context, caller, videoID string, page model.PageRequest) (model.Page[model.CommentView], error)
	Add(ctx context.Context, caller, videoID, content string) (*model.Comment, error)
	Update(ctx context.Context, caller, commentID, content string) (*model.Comment, error)
	Delete(ctx context.Context, caller, commentID string) error
}

// CommentHandler serves /comments.
type CommentHandler struct {
	comments CommentService
	logger   *slog.Logger
}

func NewCommentHandler(comments CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

type contentRequest struct {
	Content string `json:"content"`
}

// HandleList
//
// HTTP: GET /api/v1/comments/{videoId}?page&limit
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	result, err := h.comments.List(r.Context(), caller(r), chi.URLParam(r, "videoId"), page)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, result, "Comments fetched successfully")
}

// HandleAdd
//
// HTTP: POST /api/v1/comments/{videoId}
// BODY: {"content": "..."}
func (h *CommentHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	comment, err := h.comments.Add(r.Context(), caller(r), chi.URLParam(r, "videoId"), req.Content)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusCreated, comment, "Comment added successfully")
}

// HandleUpdate
//
// HTTP: PATCH /api/v1/comments/c/{commentId}
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	comment, err := h.comments.Update(r.Context(), caller(r), chi.URLParam(r, "commentId"), req.Content)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, comment, "Comment updated successfully")
}

// HandleDelete
//
// HTTP: DELETE /api/v1/comments/c/{commentId}
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.comments.Delete(r.Context(), caller(r), chi.URLParam(r, "commentId")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil, "Comment deleted successfully")
}

// LikeService is what LikeHandler needs from service.LikeService.
type LikeService interface {
	ToggleVideoLike(ctx context.Context, caller, videoID string) (model.ToggleResult, error)
	ToggleCommentLike(ctx context.Context, caller, commentID string) (model.ToggleResult, error)
	ToggleTweetLike(ctx context.Context, caller, tweetID string) (model.ToggleResult, error)
	LikedVideos(ctx context.Context, caller, userID string) ([]model.VideoListItem, error)
}

// LikeHandler serves /likes.
type LikeHandler struct {
	likes  LikeService
	logger *slog.Logger
}

func NewLikeHandler(likes LikeService, logger *slog.Logger) *LikeHandler {
	return &LikeHandler{likes: likes, logger: logger}
}

// HandleToggleVideo
//
// HTTP: POST /api/v1/likes/toggle/v/{videoId}
func (h *LikeHandler) HandleToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.likes.ToggleVideoLike, "videoId")
}

// HandleToggleComment
//
// HTTP: POST /api/v1/likes/toggle/c/{commentId}
func (h *LikeHandler) HandleToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.likes.ToggleCommentLike, "commentId")
}

// HandleToggleTweet
//
// HTTP: POST /api/v1/likes/toggle/t/{tweetId}
func (h *LikeHandler) HandleToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.likes.ToggleTweetLike, "tweetId")
}

func (h *LikeHandler) toggle(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context, string, string) (model.ToggleResult, error),
	param string,
) {
	res, err := fn(r.Context(), caller(r), chi.URLParam(r, param))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	message := "Like removed"
	if res.Active {
		message = "Like added"
	}
	writeSuccess(w, http.StatusOK, res, message)
}

// HandleLikedVideos lists liked videos of {userId}, or of the caller when
// the parameter is absent.
//
// HTTP: GET /api/v1/likes/videos[/{userId}]
func (h *LikeHandler) HandleLikedVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.likes.LikedVideos(r.Context(), caller(r), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, videos, "Liked videos fetched successfully")
}

// SubscriptionService is what SubscriptionHandler needs from
// service.SubscriptionService.
type SubscriptionService interface {
	Toggle(ctx context.Context, caller, channelID string) (model.ToggleResult, error)
	Subscribers(ctx context.Context, channelID string) ([]model.SubscriberView, error)
	SubscribedChannels(ctx context.Context, subscriberID string) ([]model.SubscribedChannel, error)
}

// SubscriptionHandler serves /subscriptions.
type SubscriptionHandler struct {
	subscriptions SubscriptionService
	logger        *slog.Logger
}

func NewSubscriptionHandler(subscriptions SubscriptionService, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions, logger: logger}
}

// HandleToggle
//
// HTTP: POST /api/v1/subscriptions/c/{channelId}
func (h *SubscriptionHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	res, err := h.subscriptions.Toggle(r.Context(), caller(r), chi.URLParam(r, "channelId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	message := "Unsubscribed successfully"
	if res.Active {
		message = "Subscribed successfully"
	}
	writeSuccess(w, http.StatusOK, res, message)
}

// HandleSubscribers
//
// HTTP: GET /api/v1/subscriptions/c/{channelId}
func (h *SubscriptionHandler) HandleSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subscriptions.Subscribers(r.Context(), chi.URLParam(r, "channelId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, subs, "Subscribers fetched successfully")
}

// HandleSubscribedChannels
//
// HTTP: GET /api/v1/subscriptions/u/{subscriberId}
func (h *SubscriptionHandler) HandleSubscribedChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.subscriptions.SubscribedChannels(r.Context(), chi.URLParam(r, "subscriberId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, channels, "Subscribed channels fetched successfully")
}
