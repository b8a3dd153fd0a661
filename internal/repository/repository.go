// Package repository declares the storage contracts the service layer
// depends on. The MongoDB implementation lives in repository/mongo; service
// tests use in-memory fakes.
//
// CONVENTIONS:
//   - ids are primitive.ObjectID; parsing client input is the service's job.
//   - single-document lookups return apperror.NotFound when nothing matches.
//   - unique-index violations come back as apperror.Conflict.
//   - "viewer" parameters are the caller, used for isLiked / isSubscribed.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sakif/videotube/internal/model"
)

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Account, error)
	// FindByLogin matches either username or email; blank arguments are
	// ignored.
	FindByLogin(ctx context.Context, username, email string) (*model.Account, error)
	ExistsByLogin(ctx context.Context, username, email string) (bool, error)

	// SetRefreshToken stores token, or unsets the field when token is "".
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	UpdateDetails(ctx context.Context, id primitive.ObjectID, fullName, email string) (*model.Account, error)
	SetAvatar(ctx context.Context, id primitive.ObjectID, url string) (*model.Account, error)
	SetCoverImage(ctx context.Context, id primitive.ObjectID, url string) (*model.Account, error)

	ChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (*model.ChannelProfile, error)
	WatchHistory(ctx context.Context, id primitive.ObjectID) ([]model.VideoListItem, error)
	// AddToWatchHistory has set semantics: re-watching does not duplicate.
	AddToWatchHistory(ctx context.Context, id, video primitive.ObjectID) error
}

// VideoUpdate carries the editable metadata of a video. An empty Thumbnail
// leaves the stored one untouched.
type VideoUpdate struct {
	Title       string
	Description string
	Thumbnail   string
}

// VideoQuery selects a page of the video listing.
type VideoQuery struct {
	Text string
	// Owner restricts the listing to one channel when non-nil.
	Owner *primitive.ObjectID
	// IncludeUnpublished is set only when the caller lists their own channel.
	IncludeUnpublished bool
	SortBy             string
	SortDesc           bool
	Page               model.PageRequest
}

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Video, error)
	Detail(ctx context.Context, id, viewer primitive.ObjectID) (*model.VideoDetail, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	Update(ctx context.Context, id primitive.ObjectID, upd VideoUpdate) (*model.Video, error)
	SetPublished(ctx context.Context, id primitive.ObjectID, published bool) (*model.Video, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	List(ctx context.Context, q VideoQuery) (model.Page[model.VideoListItem], error)
	// Sample returns up to size random videos matching q's filters. Paging
	// and sorting fields of q are ignored.
	Sample(ctx context.Context, q VideoQuery, size int) ([]model.VideoListItem, error)

	ChannelVideos(ctx context.Context, owner primitive.ObjectID) ([]model.ChannelVideo, error)
	ChannelStats(ctx context.Context, owner primitive.ObjectID) (*model.ChannelStats, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*model.Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByVideo(ctx context.Context, video primitive.ObjectID) (int64, error)
	ListByVideo(ctx context.Context, video, viewer primitive.ObjectID, page model.PageRequest) (model.Page[model.CommentView], error)
}

type LikeRepository interface {
	// Find returns the like actor placed on target, or NotFound.
	Find(ctx context.Context, actor primitive.ObjectID, target model.LikeTarget) (*model.Like, error)
	Create(ctx context.Context, like *model.Like) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByTarget(ctx context.Context, target model.LikeTarget) (int64, error)
	LikedVideos(ctx context.Context, actor primitive.ObjectID) ([]model.VideoListItem, error)
}

type SubscriptionRepository interface {
	Find(ctx context.Context, subscriber, channel primitive.ObjectID) (*model.Subscription, error)
	Create(ctx context.Context, sub *model.Subscription) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Subscribers(ctx context.Context, channel primitive.ObjectID) ([]model.SubscriberView, error)
	SubscribedChannels(ctx context.Context, subscriber primitive.ObjectID) ([]model.SubscribedChannel, error)
}

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Playlist, error)
	Update(ctx context.Context, id primitive.ObjectID, title, description string) (*model.Playlist, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AddVideo and RemoveVideo have set semantics ($addToSet / $pull).
	AddVideo(ctx context.Context, id, video primitive.ObjectID) (*model.Playlist, error)
	RemoveVideo(ctx context.Context, id, video primitive.ObjectID) (*model.Playlist, error)
	Detail(ctx context.Context, id primitive.ObjectID) (*model.PlaylistDetail, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]model.PlaylistSummary, error)
}

type TweetRepository interface {
	Create(ctx context.Context, tweet *model.Tweet) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Tweet, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*model.Tweet, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByOwner(ctx context.Context, owner, viewer primitive.ObjectID) ([]model.TweetView, error)
}
