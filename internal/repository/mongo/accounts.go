package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/repository"
)

// AccountStore implements repository.AccountRepository on "users".
type AccountStore struct {
	coll *mongo.Collection
}

var _ repository.AccountRepository = (*AccountStore)(nil)

func (s *AccountStore) Create(ctx context.Context, a *model.Account) error {
	stamp(&a.CreatedAt, &a.UpdatedAt)
	if a.WatchHistory == nil {
		a.WatchHistory = []primitive.ObjectID{}
	}
	res, err := s.coll.InsertOne(ctx, a)
	if err != nil {
		return translate(err, "creating", "user", "")
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *AccountStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Account, error) {
	var a model.Account
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&a)
	if err != nil {
		return nil, translate(err, "finding", "user", id.Hex())
	}
	return &a, nil
}

// loginFilter builds {$or: [{username}, {email}]} from the non-blank
// arguments. It returns nil when both are blank.
func loginFilter(username, email string) bson.D {
	var or bson.A
	if username != "" {
		or = append(or, bson.D{{Key: "username", Value: username}})
	}
	if email != "" {
		or = append(or, bson.D{{Key: "email", Value: email}})
	}
	if len(or) == 0 {
		return nil
	}
	return bson.D{{Key: "$or", Value: or}}
}

func (s *AccountStore) FindByLogin(ctx context.Context, username, email string) (*model.Account, error) {
	filter := loginFilter(username, email)
	if filter == nil {
		return nil, apperror.NotFoundMessage("User does not exist")
	}
	var a model.Account
	if err := s.coll.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFoundMessage("User does not exist")
		}
		return nil, fmt.Errorf("mongo: finding user by login: %w", err)
	}
	return &a, nil
}

func (s *AccountStore) ExistsByLogin(ctx context.Context, username, email string) (bool, error) {
	filter := loginFilter(username, email)
	if filter == nil {
		return false, nil
	}
	n, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("mongo: counting users: %w", err)
	}
	return n > 0, nil
}

func (s *AccountStore) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now()}}},
		{Key: "$unset", Value: bson.D{{Key: "refreshToken", Value: 1}}},
	}
	if token != "" {
		update = setWithTimestamp(bson.D{{Key: "refreshToken", Value: token}})
	}
	return s.updateOne(ctx, id, update)
}

func (s *AccountStore) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return s.updateOne(ctx, id, setWithTimestamp(bson.D{{Key: "password", Value: hash}}))
}

func (s *AccountStore) UpdateDetails(ctx context.Context, id primitive.ObjectID, fullName, email string) (*model.Account, error) {
	return s.findAndSet(ctx, id, bson.D{
		{Key: "fullName", Value: fullName},
		{Key: "email", Value: email},
	})
}

func (s *AccountStore) SetAvatar(ctx context.Context, id primitive.ObjectID, url string) (*model.Account, error) {
	return s.findAndSet(ctx, id, bson.D{{Key: "avatar", Value: url}})
}

func (s *AccountStore) SetCoverImage(ctx context.Context, id primitive.ObjectID, url string) (*model.Account, error) {
	return s.findAndSet(ctx, id, bson.D{{Key: "coverImage", Value: url}})
}

func (s *AccountStore) ChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (*model.ChannelProfile, error) {
	var rows []model.ChannelProfile
	if err := aggregate(ctx, s.coll, channelProfilePipeline(username, viewer), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NotFoundMessage("channel does not exist")
	}
	return &rows[0], nil
}

func (s *AccountStore) WatchHistory(ctx context.Context, id primitive.ObjectID) ([]model.VideoListItem, error) {
	rows := []model.VideoListItem{}
	if err := aggregate(ctx, s.coll, watchHistoryPipeline(id), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AccountStore) AddToWatchHistory(ctx context.Context, id, video primitive.ObjectID) error {
	return s.updateOne(ctx, id, bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: "watchHistory", Value: video}}},
	})
}

func (s *AccountStore) updateOne(ctx context.Context, id primitive.ObjectID, update bson.D) error {
	res, err := s.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return translate(err, "updating", "user", id.Hex())
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("user", id.Hex())
	}
	return nil
}

func (s *AccountStore) findAndSet(ctx context.Context, id primitive.ObjectID, fields bson.D) (*model.Account, error) {
	var a model.Account
	err := s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, setWithTimestamp(fields), afterUpdate()).Decode(&a)
	if err != nil {
		return nil, translate(err, "updating", "user", id.Hex())
	}
	return &a, nil
}
