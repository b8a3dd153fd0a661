package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Playlist is an owner-curated ordered set of videos.
type Playlist struct {
	ID          primitive.ObjectID   `json:"_id"         bson:"_id,omitempty"`
	Owner       primitive.ObjectID   `json:"owner"       bson:"owner"`
	Title       string               `json:"title"       bson:"title"`
	Description string               `json:"description" bson:"description"`
	Videos      []primitive.ObjectID `json:"videos"      bson:"videos"`
	CreatedAt   time.Time            `json:"createdAt"   bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"   bson:"updatedAt"`
}

// PlaylistDetail is a playlist with its member videos resolved.
type PlaylistDetail struct {
	ID          primitive.ObjectID `json:"_id"         bson:"_id"`
	Owner       primitive.ObjectID `json:"owner"       bson:"owner"`
	Title       string             `json:"title"       bson:"title"`
	Description string             `json:"description" bson:"description"`
	CreatedAt   time.Time          `json:"createdAt"   bson:"createdAt"`
	TotalVideos int                `json:"totalVideos" bson:"totalVideos"`
	TotalViews  int64              `json:"totalViews"  bson:"totalViews"`
	Videos      []VideoListItem    `json:"videos"      bson:"videos"`
}

// PlaylistSummary is a row in a user's playlist listing.
type PlaylistSummary struct {
	ID          primitive.ObjectID `json:"_id"         bson:"_id"`
	Title       string             `json:"title"       bson:"title"`
	Description string             `json:"description" bson:"description"`
	TotalVideos int                `json:"totalVideos" bson:"totalVideos"`
	TotalViews  int64              `json:"totalViews"  bson:"totalViews"`
	UpdatedAt   time.Time          `json:"updatedAt"   bson:"updatedAt"`
}
