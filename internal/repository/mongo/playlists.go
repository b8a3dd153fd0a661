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

// PlaylistStore implements repository.PlaylistRepository on "playlists".
type PlaylistStore struct {
	coll *mongo.Collection
}

var _ repository.PlaylistRepository = (*PlaylistStore)(nil)

func (s *PlaylistStore) Create(ctx context.Context, p *model.Playlist) error {
	stamp(&p.CreatedAt, &p.UpdatedAt)
	if p.Videos == nil {
		p.Videos = []primitive.ObjectID{}
	}
	res, err := s.coll.InsertOne(ctx, p)
	if err != nil {
		return translate(err, "creating", "playlist", "")
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *PlaylistStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Playlist, error) {
	var p model.Playlist
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&p); err != nil {
		return nil, translate(err, "finding", "playlist", id.Hex())
	}
	return &p, nil
}

func (s *PlaylistStore) Update(ctx context.Context, id primitive.ObjectID, title, description string) (*model.Playlist, error) {
	return s.findAndUpdate(ctx, id, setWithTimestamp(bson.D{
		{Key: "title", Value: title},
		{Key: "description", Value: description},
	}))
}

func (s *PlaylistStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translate(err, "deleting", "playlist", id.Hex())
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("playlist", id.Hex())
	}
	return nil
}

func (s *PlaylistStore) AddVideo(ctx context.Context, id, video primitive.ObjectID) (*model.Playlist, error) {
	update := setWithTimestamp(bson.D{})
	update = append(update, bson.E{Key: "$addToSet", Value: bson.D{{Key: "videos", Value: video}}})
	return s.findAndUpdate(ctx, id, update)
}

func (s *PlaylistStore) RemoveVideo(ctx context.Context, id, video primitive.ObjectID) (*model.Playlist, error) {
	update := setWithTimestamp(bson.D{})
	update = append(update, bson.E{Key: "$pull", Value: bson.D{{Key: "videos", Value: video}}})
	return s.findAndUpdate(ctx, id, update)
}

func (s *PlaylistStore) Detail(ctx context.Context, id primitive.ObjectID) (*model.PlaylistDetail, error) {
	var rows []model.PlaylistDetail
	if err := aggregate(ctx, s.coll, playlistDetailPipeline(id), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NotFound("playlist", id.Hex())
	}
	if rows[0].Videos == nil {
		rows[0].Videos = []model.VideoListItem{}
	}
	return &rows[0], nil
}

func (s *PlaylistStore) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]model.PlaylistSummary, error) {
	rows := []model.PlaylistSummary{}
	if err := aggregate(ctx, s.coll, userPlaylistsPipeline(owner), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PlaylistStore) findAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.D) (*model.Playlist, error) {
	var p model.Playlist
	if err := s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, afterUpdate()).Decode(&p); err != nil {
		return nil, translate(err, "updating", "playlist", id.Hex())
	}
	return &p, nil
}
