// Package mongo implements the repository interfaces on MongoDB.
//
// LAYOUT:
//   - mongo.go      connection, collection names, indexes, error mapping
//   - pipelines.go  pure builders for every aggregation pipeline
//   - one file per collection with the repository methods
//
// Most reads are aggregation pipelines ($match → $lookup → $addFields →
// $project → $sort → $facet). Derived values such as likesCount or
// isSubscribed are always computed at read time; nothing but Video.views is
// stored as a counter.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/videotube/internal/apperror"
)

// Collection names.
const (
	colUsers         = "users"
	colVideos        = "videos"
	colComments      = "comments"
	colLikes         = "likes"
	colSubscriptions = "subscriptions"
	colPlaylists     = "playlists"
	colTweets        = "tweets"
)

// Store owns the client and hands out one repository per collection.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, verifies the server answers a ping and selects the
// database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("mongo: server cannot be reached after connecting: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

// Ping reports whether the server is reachable. Used by the health check.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo: ping: %w", err)
	}
	return nil
}

// Close disconnects the client and releases its pool.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Accounts() *AccountStore { return &AccountStore{coll: s.db.Collection(colUsers)} }
func (s *Store) Videos() *VideoStore     { return &VideoStore{db: s.db, coll: s.db.Collection(colVideos)} }
func (s *Store) Comments() *CommentStore { return &CommentStore{coll: s.db.Collection(colComments)} }
func (s *Store) Likes() *LikeStore       { return &LikeStore{coll: s.db.Collection(colLikes)} }
func (s *Store) Tweets() *TweetStore     { return &TweetStore{coll: s.db.Collection(colTweets)} }
func (s *Store) Playlists() *PlaylistStore {
	return &PlaylistStore{coll: s.db.Collection(colPlaylists)}
}
func (s *Store) Subscriptions() *SubscriptionStore {
	return &SubscriptionStore{coll: s.db.Collection(colSubscriptions)}
}

// EnsureIndexes creates the unique and lookup indexes. Creating an index
// that already exists with the same keys and options is a no-op, so this
// runs on every start.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	targetIndex := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys: bson.D{{Key: "likedBy", Value: 1}, {Key: field, Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: field, Value: bson.D{{Key: "$exists", Value: true}}}}),
		}
	}

	specs := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colSubscriptions: {
			{Keys: bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "channel", Value: 1}}},
		},
		colLikes: {
			targetIndex("video"),
			targetIndex("comment"),
			targetIndex("tweet"),
		},
		colVideos:    {{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}}},
		colComments:  {{Keys: bson.D{{Key: "video", Value: 1}, {Key: "createdAt", Value: -1}}}},
		colTweets:    {{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}}},
		colPlaylists: {{Keys: bson.D{{Key: "owner", Value: 1}}}},
	}

	for name, models := range specs {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo: creating %s indexes: %w", name, err)
		}
	}
	return nil
}

// translate maps driver errors onto the apperror taxonomy. resource and id
// only shape the NotFound message.
func translate(err error, op, resource, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperror.NotFound(resource, id)
	case mongo.IsDuplicateKeyError(err):
		return apperror.ConflictMessage("", fmt.Sprintf("%s already exists", resource))
	default:
		return fmt.Errorf("mongo: %s %s: %w", op, resource, err)
	}
}

// aggregate runs p on coll and decodes every result into out.
func aggregate(ctx context.Context, coll *mongo.Collection, p mongo.Pipeline, out any) error {
	cur, err := coll.Aggregate(ctx, p)
	if err != nil {
		return fmt.Errorf("mongo: aggregating %s: %w", coll.Name(), err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("mongo: decoding %s: %w", coll.Name(), err)
	}
	return nil
}

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// now is truncated to the millisecond, the precision BSON dates keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// stamp sets createdAt/updatedAt on a new document.
func stamp(created, updated *time.Time) {
	t := now()
	*created = t
	*updated = t
}

func setWithTimestamp(fields bson.D) bson.D {
	return bson.D{{Key: "$set", Value: append(fields, bson.E{Key: "updatedAt", Value: now()})}}
}
