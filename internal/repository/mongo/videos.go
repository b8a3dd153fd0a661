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

// VideoStore implements repository.VideoRepository on "videos". It keeps
// the database handle because channel stats start from "users".
type VideoStore struct {
	db   *mongo.Database
	coll *mongo.Collection
}

var _ repository.VideoRepository = (*VideoStore)(nil)

func (s *VideoStore) Create(ctx context.Context, v *model.Video) error {
	stamp(&v.CreatedAt, &v.UpdatedAt)
	res, err := s.coll.InsertOne(ctx, v)
	if err != nil {
		return translate(err, "creating", "video", "")
	}
	v.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *VideoStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Video, error) {
	var v model.Video
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&v); err != nil {
		return nil, translate(err, "finding", "video", id.Hex())
	}
	return &v, nil
}

func (s *VideoStore) Detail(ctx context.Context, id, viewer primitive.ObjectID) (*model.VideoDetail, error) {
	var rows []model.VideoDetail
	if err := aggregate(ctx, s.coll, videoDetailPipeline(id, viewer), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NotFound("video", id.Hex())
	}
	return &rows[0], nil
}

// IncrementViews bumps the stored counter. Every call counts.
func (s *VideoStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.D{{Key: "$inc", Value: bson.D{{Key: "views", Value: int64(1)}}}})
	if err != nil {
		return translate(err, "updating", "video", id.Hex())
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("video", id.Hex())
	}
	return nil
}

func (s *VideoStore) Update(ctx context.Context, id primitive.ObjectID, upd repository.VideoUpdate) (*model.Video, error) {
	fields := bson.D{
		{Key: "title", Value: upd.Title},
		{Key: "description", Value: upd.Description},
	}
	if upd.Thumbnail != "" {
		fields = append(fields, bson.E{Key: "thumbnail", Value: upd.Thumbnail})
	}
	return s.findAndSet(ctx, id, fields)
}

func (s *VideoStore) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) (*model.Video, error) {
	return s.findAndSet(ctx, id, bson.D{{Key: "isPublished", Value: published}})
}

func (s *VideoStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translate(err, "deleting", "video", id.Hex())
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("video", id.Hex())
	}
	return nil
}

func (s *VideoStore) List(ctx context.Context, q repository.VideoQuery) (model.Page[model.VideoListItem], error) {
	var rows []facetResult[model.VideoListItem]
	if err := aggregate(ctx, s.coll, listVideosPipeline(q), &rows); err != nil {
		return model.Page[model.VideoListItem]{}, err
	}
	var res facetResult[model.VideoListItem]
	if len(rows) > 0 {
		res = rows[0]
	}
	return model.NewPage(res.Items, res.total(), q.Page), nil
}

func (s *VideoStore) Sample(ctx context.Context, q repository.VideoQuery, size int) ([]model.VideoListItem, error) {
	rows := []model.VideoListItem{}
	if err := aggregate(ctx, s.coll, sampleVideosPipeline(q, size), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *VideoStore) ChannelVideos(ctx context.Context, owner primitive.ObjectID) ([]model.ChannelVideo, error) {
	rows := []model.ChannelVideo{}
	if err := aggregate(ctx, s.coll, channelVideosPipeline(owner), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *VideoStore) ChannelStats(ctx context.Context, owner primitive.ObjectID) (*model.ChannelStats, error) {
	var rows []model.ChannelStats
	if err := aggregate(ctx, s.db.Collection(colUsers), channelStatsPipeline(owner), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NotFound("channel", owner.Hex())
	}
	return &rows[0], nil
}

func (s *VideoStore) findAndSet(ctx context.Context, id primitive.ObjectID, fields bson.D) (*model.Video, error) {
	var v model.Video
	err := s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, setWithTimestamp(fields), afterUpdate()).Decode(&v)
	if err != nil {
		return nil, translate(err, "updating", "video", id.Hex())
	}
	return &v, nil
}
