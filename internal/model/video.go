package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video is an uploaded video. VideoFile and Thumbnail are asset URLs on the
// media host; Views is a stored counter, unlike every other count in the API.
type Video struct {
	ID          primitive.ObjectID `json:"_id"         bson:"_id,omitempty"`
	Owner       primitive.ObjectID `json:"owner"       bson:"owner"`
	VideoFile   string             `json:"videoFile"   bson:"videoFile"`
	Thumbnail   string             `json:"thumbnail"   bson:"thumbnail"`
	Title       string             `json:"title"       bson:"title"`
	Description string             `json:"description" bson:"description"`
	Duration    float64            `json:"duration"    bson:"duration"`
	Views       int64              `json:"views"       bson:"views"`
	IsPublished bool               `json:"isPublished" bson:"isPublished"`
	CreatedAt   time.Time          `json:"createdAt"   bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"   bson:"updatedAt"`
}

// VideoOwner is the owner block of a VideoDetail, relative to the caller.
type VideoOwner struct {
	ID           primitive.ObjectID `json:"_id"          bson:"_id"`
	Username     string             `json:"username"     bson:"username"`
	Avatar       string             `json:"avatar"       bson:"avatar"`
	SubsCount    int                `json:"subsCount"    bson:"subsCount"`
	IsSubscribed bool               `json:"isSubscribed" bson:"isSubscribed"`
}

// VideoDetail is the single-video page.
type VideoDetail struct {
	ID          primitive.ObjectID `json:"_id"         bson:"_id"`
	VideoFile   string             `json:"videoFile"   bson:"videoFile"`
	Thumbnail   string             `json:"thumbnail"   bson:"thumbnail"`
	Title       string             `json:"title"       bson:"title"`
	Description string             `json:"description" bson:"description"`
	Duration    float64            `json:"duration"    bson:"duration"`
	Views       int64              `json:"views"       bson:"views"`
	IsPublished bool               `json:"isPublished" bson:"isPublished"`
	CreatedAt   time.Time          `json:"createdAt"   bson:"createdAt"`
	LikesCount  int                `json:"likesCount"  bson:"likesCount"`
	IsLiked     bool               `json:"isLiked"     bson:"isLiked"`
	Owner       VideoOwner         `json:"owner"       bson:"owner"`
}

// VideoListItem is a video with its owner summary, used by listings, liked
// videos, watch history and playlist members.
type VideoListItem struct {
	ID          primitive.ObjectID `json:"_id"         bson:"_id"`
	VideoFile   string             `json:"videoFile"   bson:"videoFile"`
	Thumbnail   string             `json:"thumbnail"   bson:"thumbnail"`
	Title       string             `json:"title"       bson:"title"`
	Description string             `json:"description" bson:"description"`
	Duration    float64            `json:"duration"    bson:"duration"`
	Views       int64              `json:"views"       bson:"views"`
	IsPublished bool               `json:"isPublished" bson:"isPublished"`
	CreatedAt   time.Time          `json:"createdAt"   bson:"createdAt"`
	Owner       OwnerSummary       `json:"owner"       bson:"owner"`
}

// ChannelVideo is a dashboard row: one of the caller's own videos with its
// engagement totals.
type ChannelVideo struct {
	ID            primitive.ObjectID `json:"_id"           bson:"_id"`
	VideoFile     string             `json:"videoFile"     bson:"videoFile"`
	Thumbnail     string             `json:"thumbnail"     bson:"thumbnail"`
	Title         string             `json:"title"         bson:"title"`
	Description   string             `json:"description"   bson:"description"`
	Duration      float64            `json:"duration"      bson:"duration"`
	Views         int64              `json:"views"         bson:"views"`
	IsPublished   bool               `json:"isPublished"   bson:"isPublished"`
	CreatedAt     time.Time          `json:"createdAt"     bson:"createdAt"`
	TotalLikes    int                `json:"totalLikes"    bson:"totalLikes"`
	TotalComments int                `json:"totalComments" bson:"totalComments"`
}

// ChannelStats aggregates a channel's audience and engagement.
type ChannelStats struct {
	TotalSubscribers int64 `json:"totalSubscribers" bson:"totalSubscribers"`
	TotalVideos      int64 `json:"totalVideos"      bson:"totalVideos"`
	TotalViews       int64 `json:"totalViews"       bson:"totalViews"`
	TotalLikes       int64 `json:"totalLikes"       bson:"totalLikes"`
}
