// Package model defines the documents stored in MongoDB and the derived
// views produced by the aggregation pipelines.
//
// Every stored document uses a primitive.ObjectID primary key. On the wire
// the id is the 24-character hex string, which is what
// primitive.ObjectID's JSON encoding produces.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is a registered user. The same document acts as a "channel" when
// it is the target of subscriptions.
//
// PasswordHash and RefreshToken carry `json:"-"` so an Account can be
// returned from any handler without leaking credentials.
type Account struct {
	ID           primitive.ObjectID   `json:"_id"          bson:"_id,omitempty"`
	Username     string               `json:"username"     bson:"username"`
	Email        string               `json:"email"        bson:"email"`
	FullName     string               `json:"fullName"     bson:"fullName"`
	Avatar       string               `json:"avatar"       bson:"avatar"`
	CoverImage   string               `json:"coverImage"   bson:"coverImage"`
	WatchHistory []primitive.ObjectID `json:"watchHistory" bson:"watchHistory"`
	PasswordHash string               `json:"-"            bson:"password"`
	RefreshToken string               `json:"-"            bson:"refreshToken,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"    bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"    bson:"updatedAt"`
}

// OwnerSummary is the slice of an Account embedded into other views.
type OwnerSummary struct {
	ID       primitive.ObjectID `json:"_id"      bson:"_id"`
	Username string             `json:"username" bson:"username"`
	FullName string             `json:"fullName" bson:"fullName"`
	Avatar   string             `json:"avatar"   bson:"avatar"`
}

// ChannelProfile is an Account viewed as a channel by a particular caller.
type ChannelProfile struct {
	ID                       primitive.ObjectID `json:"_id"                      bson:"_id"`
	Username                 string             `json:"username"                 bson:"username"`
	FullName                 string             `json:"fullName"                 bson:"fullName"`
	Email                    string             `json:"email"                    bson:"email"`
	Avatar                   string             `json:"avatar"                   bson:"avatar"`
	CoverImage               string             `json:"coverImage"               bson:"coverImage"`
	SubscribersCount         int                `json:"subscribersCount"         bson:"subscribersCount"`
	ChannelSubscribedToCount int                `json:"channelSubscribedToCount" bson:"channelSubscribedToCount"`
	IsSubscribed             bool               `json:"isSubscribed"             bson:"isSubscribed"`
}
