package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/repository"
)

// SubscriptionStore implements repository.SubscriptionRepository on
// "subscriptions".
type SubscriptionStore struct {
	coll *mongo.Collection
}

var _ repository.SubscriptionRepository = (*SubscriptionStore)(nil)

func (s *SubscriptionStore) Find(ctx context.Context, subscriber, channel primitive.ObjectID) (*model.Subscription, error) {
	filter := bson.D{
		{Key: "subscriber", Value: subscriber},
		{Key: "channel", Value: channel},
	}
	var sub model.Subscription
	if err := s.coll.FindOne(ctx, filter).Decode(&sub); err != nil {
		return nil, translate(err, "finding", "subscription", channel.Hex())
	}
	return &sub, nil
}

func (s *SubscriptionStore) Create(ctx context.Context, sub *model.Subscription) error {
	stamp(&sub.CreatedAt, &sub.UpdatedAt)
	res, err := s.coll.InsertOne(ctx, sub)
	if err != nil {
		return translate(err, "creating", "subscription", "")
	}
	sub.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *SubscriptionStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translate(err, "deleting", "subscription", id.Hex())
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("subscription", id.Hex())
	}
	return nil
}

func (s *SubscriptionStore) Subscribers(ctx context.Context, channel primitive.ObjectID) ([]model.SubscriberView, error) {
	rows := []model.SubscriberView{}
	if err := aggregate(ctx, s.coll, subscribersPipeline(channel), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *SubscriptionStore) SubscribedChannels(ctx context.Context, subscriber primitive.ObjectID) ([]model.SubscribedChannel, error) {
	rows := []model.SubscribedChannel{}
	if err := aggregate(ctx, s.coll, subscribedChannelsPipeline(subscriber), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
