package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/repository"
)

// SubscriptionService toggles and lists subscriber → channel edges. A user
// may subscribe to their own channel.
type SubscriptionService struct {
	subscriptions repository.SubscriptionRepository
	accounts      repository.AccountRepository
	logger        *slog.Logger
}

func NewSubscriptionService(
	subscriptions repository.SubscriptionRepository,
	accounts repository.AccountRepository,
	logger *slog.Logger,
) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, accounts: accounts, logger: logger}
}

// Toggle subscribes the caller to channelID, or unsubscribes if already
// subscribed. Same contract as the like toggle.
func (s *SubscriptionService) Toggle(ctx context.Context, caller, channelID string) (model.ToggleResult, error) {
	subscriber, err := callerID(caller)
	if err != nil {
		return model.ToggleResult{}, err
	}
	channel, err := parseID("channelId", channelID)
	if err != nil {
		return model.ToggleResult{}, err
	}
	if _, err := s.accounts.GetByID(ctx, channel); err != nil {
		return model.ToggleResult{}, err
	}

	existing, err := s.subscriptions.Find(ctx, subscriber, channel)
	switch {
	case err == nil:
		if err := s.subscriptions.Delete(ctx, existing.ID); err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return model.ToggleResult{}, err
		}
		s.logger.Debug("unsubscribed", slog.String("subscriber", caller), slog.String("channel", channelID))
		return model.ToggleResult{Active: false}, nil
	case !errors.Is(err, apperror.ErrNotFound):
		return model.ToggleResult{}, err
	}

	sub := &model.Subscription{Subscriber: subscriber, Channel: channel}
	if err := s.subscriptions.Create(ctx, sub); err != nil && !errors.Is(err, apperror.ErrConflict) {
		return model.ToggleResult{}, err
	}
	s.logger.Debug("subscribed", slog.String("subscriber", caller), slog.String("channel", channelID))
	return model.ToggleResult{Active: true}, nil
}

// Subscribers lists the accounts subscribed to channelID.
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID string) ([]model.SubscriberView, error) {
	channel, err := parseID("channelId", channelID)
	if err != nil {
		return nil, err
	}
	return s.subscriptions.Subscribers(ctx, channel)
}

// SubscribedChannels lists the channels subscriberID follows.
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID string) ([]model.SubscribedChannel, error) {
	subscriber, err := parseID("subscriberId", subscriberID)
	if err != nil {
		return nil, err
	}
	return s.subscriptions.SubscribedChannels(ctx, subscriber)
}
