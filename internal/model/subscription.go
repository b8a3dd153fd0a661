package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription is a directed edge subscriber -> channel.
type Subscription struct {
	ID         primitive.ObjectID `json:"_id"        bson:"_id,omitempty"`
	Subscriber primitive.ObjectID `json:"subscriber" bson:"subscriber"`
	Channel    primitive.ObjectID `json:"channel"    bson:"channel"`
	CreatedAt  time.Time          `json:"createdAt"  bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"  bson:"updatedAt"`
}

// SubscriberView is one subscriber of a channel. SubscribedToSubscriber is
// true when the channel subscribes back.
type SubscriberView struct {
	ID                     primitive.ObjectID `json:"_id"                    bson:"_id"`
	Username               string             `json:"username"               bson:"username"`
	FullName               string             `json:"fullName"               bson:"fullName"`
	Avatar                 string             `json:"avatar"                 bson:"avatar"`
	SubscribersCount       int                `json:"subscribersCount"       bson:"subscribersCount"`
	SubscribedToSubscriber bool               `json:"subscribedToSubscriber" bson:"subscribedToSubscriber"`
}

// SubscribedChannel is a channel the caller follows, with its newest video.
type SubscribedChannel struct {
	ID          primitive.ObjectID `json:"_id"                   bson:"_id"`
	Username    string             `json:"username"              bson:"username"`
	FullName    string             `json:"fullName"              bson:"fullName"`
	Avatar      string             `json:"avatar"                bson:"avatar"`
	LatestVideo *Video             `json:"latestVideo,omitempty" bson:"latestVideo,omitempty"`
}
