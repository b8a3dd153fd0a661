package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeKind names the entity a Like points at. The value doubles as the
// document field holding the target id.
type LikeKind string

const (
	LikeVideo   LikeKind = "video"
	LikeComment LikeKind = "comment"
	LikeTweet   LikeKind = "tweet"
)

// LikeTarget identifies exactly one likeable entity.
type LikeTarget struct {
	Kind LikeKind
	ID   primitive.ObjectID
}

// Like is one account liking one target. Exactly one of Video, Comment and
// Tweet is set; the others are omitted from the stored document.
type Like struct {
	ID        primitive.ObjectID  `json:"_id"               bson:"_id,omitempty"`
	LikedBy   primitive.ObjectID  `json:"likedBy"           bson:"likedBy"`
	Video     *primitive.ObjectID `json:"video,omitempty"   bson:"video,omitempty"`
	Comment   *primitive.ObjectID `json:"comment,omitempty" bson:"comment,omitempty"`
	Tweet     *primitive.ObjectID `json:"tweet,omitempty"   bson:"tweet,omitempty"`
	CreatedAt time.Time           `json:"createdAt"         bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"         bson:"updatedAt"`
}

// NewLike builds a Like for the given actor and target.
func NewLike(actor primitive.ObjectID, target LikeTarget) *Like {
	id := target.ID
	l := &Like{LikedBy: actor}
	switch target.Kind {
	case LikeVideo:
		l.Video = &id
	case LikeComment:
		l.Comment = &id
	case LikeTweet:
		l.Tweet = &id
	}
	return l
}

// Target reports which entity the like points at.
func (l *Like) Target() LikeTarget {
	switch {
	case l.Video != nil:
		return LikeTarget{Kind: LikeVideo, ID: *l.Video}
	case l.Comment != nil:
		return LikeTarget{Kind: LikeComment, ID: *l.Comment}
	case l.Tweet != nil:
		return LikeTarget{Kind: LikeTweet, ID: *l.Tweet}
	}
	return LikeTarget{}
}

// ToggleResult reports the state of a relation after a toggle.
type ToggleResult struct {
	Active bool `json:"active"`
}
