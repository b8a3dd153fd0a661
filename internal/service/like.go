package service

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/repository"
)

// LikeService toggles likes on videos, comments and tweets.
//
// TOGGLE CONTRACT:
// If the caller already likes the target the like is deleted and the result
// is {active: false}; otherwise one is created and the result is
// {active: true}. The check and the write are two store calls. Two
// concurrent toggles may both see "absent"; the unique index then rejects
// the second insert, which is reported as active since a like exists.
type LikeService struct {
	likes    repository.LikeRepository
	videos   repository.VideoRepository
	comments repository.CommentRepository
	tweets   repository.TweetRepository
	logger   *slog.Logger
}

func NewLikeService(
	likes repository.LikeRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	tweets repository.TweetRepository,
	logger *slog.Logger,
) *LikeService {
	return &LikeService{likes: likes, videos: videos, comments: comments, tweets: tweets, logger: logger}
}

func (s *LikeService) ToggleVideoLike(ctx context.Context, caller, videoID string) (model.ToggleResult, error) {
	return s.toggle(ctx, caller, "videoId", videoID, model.LikeVideo, func(ctx context.Context, id primitive.ObjectID) error {
		return videoExists(ctx, s.videos, id)
	})
}

func (s *LikeService) ToggleCommentLike(ctx context.Context, caller, commentID string) (model.ToggleResult, error) {
	return s.toggle(ctx, caller, "commentId", commentID, model.LikeComment, func(ctx context.Context, id primitive.ObjectID) error {
		_, err := s.comments.GetByID(ctx, id)
		return err
	})
}

func (s *LikeService) ToggleTweetLike(ctx context.Context, caller, tweetID string) (model.ToggleResult, error) {
	return s.toggle(ctx, caller, "tweetId", tweetID, model.LikeTweet, func(ctx context.Context, id primitive.ObjectID) error {
		_, err := s.tweets.GetByID(ctx, id)
		return err
	})
}

// LikedVideos lists the videos userID has liked, oldest like first. An
// empty userID means the caller.
func (s *LikeService) LikedVideos(ctx context.Context, caller, userID string) ([]model.VideoListItem, error) {
	actor, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	if userID != "" {
		if actor, err = parseID("userId", userID); err != nil {
			return nil, err
		}
	}
	return s.likes.LikedVideos(ctx, actor)
}

func (s *LikeService) toggle(
	ctx context.Context,
	caller, field, rawID string,
	kind model.LikeKind,
	exists func(context.Context, primitive.ObjectID) error,
) (model.ToggleResult, error) {
	actor, err := callerID(caller)
	if err != nil {
		return model.ToggleResult{}, err
	}
	id, err := parseID(field, rawID)
	if err != nil {
		return model.ToggleResult{}, err
	}
	if err := exists(ctx, id); err != nil {
		return model.ToggleResult{}, err
	}
	target := model.LikeTarget{Kind: kind, ID: id}

	existing, err := s.likes.Find(ctx, actor, target)
	switch {
	case err == nil:
		if err := s.likes.Delete(ctx, existing.ID); err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return model.ToggleResult{}, err
		}
		return model.ToggleResult{Active: false}, nil
	case !errors.Is(err, apperror.ErrNotFound):
		return model.ToggleResult{}, err
	}

	if err := s.likes.Create(ctx, model.NewLike(actor, target)); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return model.ToggleResult{Active: true}, nil
		}
		return model.ToggleResult{}, err
	}
	s.logger.Debug("like added",
		slog.String("kind", string(kind)),
		slog.String("targetID", rawID),
		slog.String("userID", caller),
	)
	return model.ToggleResult{Active: true}, nil
}
