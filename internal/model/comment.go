package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a text comment left on a video.
type Comment struct {
	ID        primitive.ObjectID `json:"_id"       bson:"_id,omitempty"`
	Owner     primitive.ObjectID `json:"owner"     bson:"owner"`
	Video     primitive.ObjectID `json:"video"     bson:"video"`
	Content   string             `json:"content"   bson:"content"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CommentView is a comment as listed under a video.
type CommentView struct {
	ID         primitive.ObjectID `json:"_id"        bson:"_id"`
	Content    string             `json:"content"    bson:"content"`
	CreatedAt  time.Time          `json:"createdAt"  bson:"createdAt"`
	LikesCount int                `json:"likesCount" bson:"likesCount"`
	IsLiked    bool               `json:"isLiked"    bson:"isLiked"`
	Owner      OwnerSummary       `json:"owner"      bson:"owner"`
}
