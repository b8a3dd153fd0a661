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

// TweetStore implements repository.TweetRepository on "tweets".
type TweetStore struct {
	coll *mongo.Collection
}

var _ repository.TweetRepository = (*TweetStore)(nil)

func (s *TweetStore) Create(ctx context.Context, t *model.Tweet) error {
	stamp(&t.CreatedAt, &t.UpdatedAt)
	res, err := s.coll.InsertOne(ctx, t)
	if err != nil {
		return translate(err, "creating", "tweet", "")
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *TweetStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Tweet, error) {
	var t model.Tweet
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&t); err != nil {
		return nil, translate(err, "finding", "tweet", id.Hex())
	}
	return &t, nil
}

func (s *TweetStore) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*model.Tweet, error) {
	var t model.Tweet
	update := setWithTimestamp(bson.D{{Key: "content", Value: content}})
	if err := s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, afterUpdate()).Decode(&t); err != nil {
		return nil, translate(err, "updating", "tweet", id.Hex())
	}
	return &t, nil
}

func (s *TweetStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translate(err, "deleting", "tweet", id.Hex())
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("tweet", id.Hex())
	}
	return nil
}

func (s *TweetStore) ListByOwner(ctx context.Context, owner, viewer primitive.ObjectID) ([]model.TweetView, error) {
	rows := []model.TweetView{}
	if err := aggregate(ctx, s.coll, userTweetsPipeline(owner, viewer), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
