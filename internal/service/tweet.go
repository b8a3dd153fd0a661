package service

import (
	"context"
	"log/slog"

	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/repository"
)

// TweetService manages short text posts. Deleting a tweet deletes the likes
// on it.
type TweetService struct {
	tweets repository.TweetRepository
	likes  repository.LikeRepository
	logger *slog.Logger
}

func NewTweetService(tweets repository.TweetRepository, likes repository.LikeRepository, logger *slog.Logger) *TweetService {
	return &TweetService{tweets: tweets, likes: likes, logger: logger}
}

func (s *TweetService) Create(ctx context.Context, caller, content string) (*model.Tweet, error) {
	owner, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	content, err = required("content", content, "Content is required")
	if err != nil {
		return nil, err
	}
	tweet := &model.Tweet{Owner: owner, Content: content}
	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

func (s *TweetService) Update(ctx context.Context, caller, tweetID, content string) (*model.Tweet, error) {
	tweet, err := s.owned(ctx, caller, tweetID, "You are not allowed to update this tweet")
	if err != nil {
		return nil, err
	}
	content, err = required("content", content, "Content is required")
	if err != nil {
		return nil, err
	}
	return s.tweets.UpdateContent(ctx, tweet.ID, content)
}

func (s *TweetService) Delete(ctx context.Context, caller, tweetID string) error {
	tweet, err := s.owned(ctx, caller, tweetID, "You are not allowed to delete this tweet")
	if err != nil {
		return err
	}
	if err := s.tweets.Delete(ctx, tweet.ID); err != nil {
		return err
	}
	n, err := s.likes.DeleteByTarget(ctx, model.LikeTarget{Kind: model.LikeTweet, ID: tweet.ID})
	if err != nil {
		return err
	}
	s.logger.Info("tweet deleted", slog.String("tweetID", tweetID), slog.Int64("likes", n))
	return nil
}

// ListByOwner returns userID's tweets, newest first, with the caller's like
// state.
func (s *TweetService) ListByOwner(ctx context.Context, caller, userID string) ([]model.TweetView, error) {
	viewer, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	owner, err := parseID("userId", userID)
	if err != nil {
		return nil, err
	}
	return s.tweets.ListByOwner(ctx, owner, viewer)
}

func (s *TweetService) owned(ctx context.Context, caller, tweetID, forbidden string) (*model.Tweet, error) {
	uid, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	id, err := parseID("tweetId", tweetID)
	if err != nil {
		return nil, err
	}
	tweet, err := s.tweets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(tweet.Owner, uid, forbidden); err != nil {
		return nil, err
	}
	return tweet, nil
}
