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

// CommentStore implements repository.CommentRepository on "comments".
type CommentStore struct {
	coll *mongo.Collection
}

var _ repository.CommentRepository = (*CommentStore)(nil)

func (s *CommentStore) Create(ctx context.Context, c *model.Comment) error {
	stamp(&c.CreatedAt, &c.UpdatedAt)
	res, err := s.coll.InsertOne(ctx, c)
	if err != nil {
		return translate(err, "creating", "comment", "")
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *CommentStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	var c model.Comment
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&c); err != nil {
		return nil, translate(err, "finding", "comment", id.Hex())
	}
	return &c, nil
}

func (s *CommentStore) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*model.Comment, error) {
	var c model.Comment
	update := setWithTimestamp(bson.D{{Key: "content", Value: content}})
	if err := s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, afterUpdate()).Decode(&c); err != nil {
		return nil, translate(err, "updating", "comment", id.Hex())
	}
	return &c, nil
}

func (s *CommentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translate(err, "deleting", "comment", id.Hex())
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("comment", id.Hex())
	}
	return nil
}

func (s *CommentStore) DeleteByVideo(ctx context.Context, video primitive.ObjectID) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{{Key: "video", Value: video}})
	if err != nil {
		return 0, fmt.Errorf("mongo: deleting comments of video %s: %w", video.Hex(), err)
	}
	return res.DeletedCount, nil
}

func (s *CommentStore) ListByVideo(ctx context.Context, video, viewer primitive.ObjectID, page model.PageRequest) (model.Page[model.CommentView], error) {
	var rows []facetResult[model.CommentView]
	if err := aggregate(ctx, s.coll, videoCommentsPipeline(video, viewer, page), &rows); err != nil {
		return model.Page[model.CommentView]{}, err
	}
	var res facetResult[model.CommentView]
	if len(rows) > 0 {
		res = rows[0]
	}
	return model.NewPage(res.Items, res.total(), page), nil
}
