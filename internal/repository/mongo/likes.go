package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/repository"
)

// LikeStore implements repository.LikeRepository on "likes".
//
// The target kind is also the name of the field holding the target id, so
// {likedBy, <kind>: id} identifies a like.
type LikeStore struct {
	coll *mongo.Collection
}

var _ repository.LikeRepository = (*LikeStore)(nil)

func targetFilter(target model.LikeTarget) bson.D {
	return bson.D{{Key: string(target.Kind), Value: target.ID}}
}

func (s *LikeStore) Find(ctx context.Context, actor primitive.ObjectID, target model.LikeTarget) (*model.Like, error) {
	filter := append(bson.D{{Key: "likedBy", Value: actor}}, targetFilter(target)...)
	var l model.Like
	if err := s.coll.FindOne(ctx, filter).Decode(&l); err != nil {
		return nil, translate(err, "finding", "like", target.ID.Hex())
	}
	return &l, nil
}

func (s *LikeStore) Create(ctx context.Context, l *model.Like) error {
	stamp(&l.CreatedAt, &l.UpdatedAt)
	res, err := s.coll.InsertOne(ctx, l)
	if err != nil {
		return translate(err, "creating", "like", "")
	}
	l.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *LikeStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translate(err, "deleting", "like", id.Hex())
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("like", id.Hex())
	}
	return nil
}

func (s *LikeStore) DeleteByTarget(ctx context.Context, target model.LikeTarget) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, targetFilter(target))
	if err != nil {
		return 0, fmt.Errorf("mongo: deleting likes of %s %s: %w", target.Kind, target.ID.Hex(), err)
	}
	return res.DeletedCount, nil
}

func (s *LikeStore) LikedVideos(ctx context.Context, actor primitive.ObjectID) ([]model.VideoListItem, error) {
	rows := []model.VideoListItem{}
	if err := aggregate(ctx, s.coll, likedVideosPipeline(actor), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
