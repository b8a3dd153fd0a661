package service

import (
	"context"
	"log/slog"

	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/repository"
)

// CommentService manages comments under videos. Deleting a comment does not
// touch the likes placed on it.
type CommentService struct {
	comments repository.CommentRepository
	videos   repository.VideoRepository
	logger   *slog.Logger
}

func NewCommentService(comments repository.CommentRepository, videos repository.VideoRepository, logger *slog.Logger) *CommentService {
	return &CommentService{comments: comments, videos: videos, logger: logger}
}

// List returns a page of the video's comments, newest first.
func (s *CommentService) List(ctx context.Context, caller, videoID string, page model.PageRequest) (model.Page[model.CommentView], error) {
	viewer, err := callerID(caller)
	if err != nil {
		return model.Page[model.CommentView]{}, err
	}
	video, err := parseID("videoId", videoID)
	if err != nil {
		return model.Page[model.CommentView]{}, err
	}
	if err := videoExists(ctx, s.videos, video); err != nil {
		return model.Page[model.CommentView]{}, err
	}
	return s.comments.ListByVideo(ctx, video, viewer, NormalizePage(page))
}

// Add posts a comment on an existing video.
func (s *CommentService) Add(ctx context.Context, caller, videoID, content string) (*model.Comment, error) {
	owner, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	video, err := parseID("videoId", videoID)
	if err != nil {
		return nil, err
	}
	content, err = required("content", content, "Content is required")
	if err != nil {
		return nil, err
	}
	if err := videoExists(ctx, s.videos, video); err != nil {
		return nil, err
	}

	comment := &model.Comment{Owner: owner, Video: video, Content: content}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.logger.Debug("comment added",
		slog.String("commentID", comment.ID.Hex()),
		slog.String("videoID", videoID),
	)
	return comment, nil
}

// Update replaces the content of the caller's comment.
func (s *CommentService) Update(ctx context.Context, caller, commentID, content string) (*model.Comment, error) {
	comment, err := s.owned(ctx, caller, commentID, "You are not allowed to update this comment")
	if err != nil {
		return nil, err
	}
	content, err = required("content", content, "Content is required")
	if err != nil {
		return nil, err
	}
	return s.comments.UpdateContent(ctx, comment.ID, content)
}

// Delete removes the caller's comment.
func (s *CommentService) Delete(ctx context.Context, caller, commentID string) error {
	comment, err := s.owned(ctx, caller, commentID, "You are not allowed to delete this comment")
	if err != nil {
		return err
	}
	return s.comments.Delete(ctx, comment.ID)
}

func (s *CommentService) owned(ctx context.Context, caller, commentID, forbidden string) (*model.Comment, error) {
	uid, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	id, err := parseID("commentId", commentID)
	if err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(comment.Owner, uid, forbidden); err != nil {
		return nil, err
	}
	return comment, nil
}
