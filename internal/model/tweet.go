package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tweet is a short text post on a channel.
type Tweet struct {
	ID        primitive.ObjectID `json:"_id"       bson:"_id,omitempty"`
	Owner     primitive.ObjectID `json:"owner"     bson:"owner"`
	Content   string             `json:"content"   bson:"content"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// TweetView is a tweet with its like state for the caller.
type TweetView struct {
	ID         primitive.ObjectID `json:"_id"        bson:"_id"`
	Content    string             `json:"content"    bson:"content"`
	CreatedAt  time.Time          `json:"createdAt"  bson:"createdAt"`
	LikesCount int                `json:"likesCount" bson:"likesCount"`
	IsLiked    bool               `json:"isLiked"    bson:"isLiked"`
	Owner      OwnerSummary       `json:"owner"      bson:"owner"`
}
