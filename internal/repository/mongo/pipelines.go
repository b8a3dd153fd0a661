package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/repository"
)

// PIPELINE BUILDERS:
// Every aggregation is assembled here by a pure function so tests can
// inspect the stages without a server. Repository methods only run them.
//
// Shared shapes:
//   - ownerSummaryLookup joins users into "owner" and keeps {_id, username,
//     fullName, avatar}; a following $addFields unwraps the one-element array.
//   - paginate wraps item stages in a $facet next to a $count so one round
//     trip returns a page and the total.

// sortableVideoFields are the accepted sortBy values. Anything else falls
// back to createdAt.
var sortableVideoFields = map[string]bool{
	"createdAt": true,
	"views":     true,
	"duration":  true,
	"title":     true,
}

// facetResult decodes the output of paginate.
type facetResult[T any] struct {
	Items []T `bson:"items"`
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

func (f facetResult[T]) total() int64 {
	if len(f.Total) == 0 {
		return 0
	}
	return f.Total[0].Count
}

func match(filter bson.D) bson.D {
	return bson.D{{Key: "$match", Value: filter}}
}

func sortBy(keys bson.D) bson.D {
	return bson.D{{Key: "$sort", Value: keys}}
}

func project(fields bson.M) bson.D {
	return bson.D{{Key: "$project", Value: fields}}
}

func addFields(fields bson.M) bson.D {
	return bson.D{{Key: "$addFields", Value: fields}}
}

func replaceRoot(path string) bson.D {
	return bson.D{{Key: "$replaceRoot", Value: bson.M{"newRoot": path}}}
}

func unwind(path string) bson.D {
	return bson.D{{Key: "$unwind", Value: path}}
}

// lookup is the correlated form: localField/foreignField plus an optional
// sub-pipeline run against the joined documents.
func lookup(from, localField, foreignField, as string, pipeline ...bson.D) bson.D {
	stage := bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	}
	if len(pipeline) > 0 {
		stage = append(stage, bson.E{Key: "pipeline", Value: mongo.Pipeline(pipeline)})
	}
	return bson.D{{Key: "$lookup", Value: stage}}
}

func size(path string) bson.M {
	return bson.M{"$size": bson.M{"$ifNull": bson.A{path, bson.A{}}}}
}

// contains is {$in: [value, path]} guarded against a missing array.
func contains(value any, path string) bson.M {
	return bson.M{"$in": bson.A{value, bson.M{"$ifNull": bson.A{path, bson.A{}}}}}
}

func first(path string) bson.M {
	return bson.M{"$first": path}
}

// ownerSummaryLookup joins the owning account as a one-element array.
func ownerSummaryLookup() bson.D {
	return lookup(colUsers, "owner", "_id", "owner",
		project(bson.M{"username": 1, "fullName": 1, "avatar": 1}),
	)
}

// orderedJoin re-sorts the documents in joined to follow the id order of
// ids, dropping ids that matched nothing. $lookup on an array field does not
// preserve that order.
func orderedJoin(ids, joined string) bson.M {
	return bson.M{"$filter": bson.M{
		"input": bson.M{"$map": bson.M{
			"input": bson.M{"$ifNull": bson.A{ids, bson.A{}}},
			"as":    "id",
			"in": bson.M{"$first": bson.M{"$filter": bson.M{
				"input": joined,
				"as":    "doc",
				"cond":  bson.M{"$eq": bson.A{"$$doc._id", "$$id"}},
			}}},
		}},
		"as":   "doc",
		"cond": bson.M{"$ne": bson.A{"$$doc", nil}},
	}}
}

// paginate runs items on one page and counts the whole match.
func paginate(page model.PageRequest, items ...bson.D) bson.D {
	stages := mongo.Pipeline{
		{{Key: "$skip", Value: page.Skip()}},
		{{Key: "$limit", Value: int64(page.Limit)}},
	}
	stages = append(stages, items...)
	return bson.D{{Key: "$facet", Value: bson.M{
		"items": stages,
		"total": mongo.Pipeline{{{Key: "$count", Value: "count"}}},
	}}}
}

var videoListFields = bson.M{
	"videoFile":   1,
	"thumbnail":   1,
	"title":       1,
	"description": 1,
	"duration":    1,
	"views":       1,
	"isPublished": 1,
	"createdAt":   1,
	"owner":       1,
}

// videoListStages attach the owner summary and trim to a VideoListItem.
func videoListStages() []bson.D {
	return []bson.D{
		ownerSummaryLookup(),
		addFields(bson.M{"owner": first("$owner")}),
		project(videoListFields),
	}
}

// ---------------------------------------------------------------------------
// videos
// ---------------------------------------------------------------------------

// videoDetailPipeline builds the single-video page for viewer: like count
// and state, plus the owner's subscriber count and whether viewer follows.
func videoDetailPipeline(id, viewer primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		match(bson.D{{Key: "_id", Value: id}}),
		lookup(colLikes, "_id", "video", "likes"),
		lookup(colUsers, "owner", "_id", "owner",
			lookup(colSubscriptions, "_id", "channel", "subscribers"),
			addFields(bson.M{
				"subsCount":    size("$subscribers"),
				"isSubscribed": contains(viewer, "$subscribers.subscriber"),
			}),
			project(bson.M{"username": 1, "avatar": 1, "subsCount": 1, "isSubscribed": 1}),
		),
		addFields(bson.M{
			"likesCount": size("$likes"),
			"isLiked":    contains(viewer, "$likes.likedBy"),
			"owner":      first("$owner"),
		}),
		project(bson.M{
			"videoFile":   1,
			"thumbnail":   1,
			"title":       1,
			"description": 1,
			"duration":    1,
			"views":       1,
			"isPublished": 1,
			"createdAt":   1,
			"likesCount":  1,
			"isLiked":     1,
			"owner":       1,
		}),
	}
}

// videoFilter is the $match shared by the listing and the random sample.
func videoFilter(q repository.VideoQuery) bson.D {
	filter := bson.D{}
	if !q.IncludeUnpublished {
		filter = append(filter, bson.E{Key: "isPublished", Value: true})
	}
	if q.Owner != nil {
		filter = append(filter, bson.E{Key: "owner", Value: *q.Owner})
	}
	if q.Text != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Text), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
		}})
	}
	return filter
}

// videoSort orders by the requested field with _id as a tiebreaker so pages
// never overlap. Default is createdAt ascending.
func videoSort(q repository.VideoQuery) bson.D {
	field := q.SortBy
	if !sortableVideoFields[field] {
		field = "createdAt"
	}
	dir := 1
	if q.SortDesc {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}

func listVideosPipeline(q repository.VideoQuery) mongo.Pipeline {
	return mongo.Pipeline{
		match(videoFilter(q)),
		sortBy(videoSort(q)),
		paginate(q.Page, videoListStages()...),
	}
}

func sampleVideosPipeline(q repository.VideoQuery, n int) mongo.Pipeline {
	p := mongo.Pipeline{
		match(videoFilter(q)),
		{{Key: "$sample", Value: bson.M{"size": n}}},
	}
	return append(p, videoListStages()...)
}

// channelVideosPipeline lists owner's videos, newest first, with their like
// and comment totals.
func channelVideosPipeline(owner primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		match(bson.D{{Key: "owner", Value: owner}}),
		lookup(colLikes, "_id", "video", "likes"),
		lookup(colComments, "_id", "video", "comments"),
		addFields(bson.M{
			"totalLikes":    size("$likes"),
			"totalComments": size("$comments"),
		}),
		sortBy(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}),
		project(bson.M{
			"videoFile":     1,
			"thumbnail":     1,
			"title":         1,
			"description":   1,
			"duration":      1,
			"views":         1,
			"isPublished":   1,
			"createdAt":     1,
			"totalLikes":    1,
			"totalComments": 1,
		}),
	}
}

// channelStatsPipeline runs on users so a channel with no videos still
// reports its subscribers.
func channelStatsPipeline(owner primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		match(bson.D{{Key: "_id", Value: owner}}),
		lookup(colSubscriptions, "_id", "channel", "subscribers"),
		lookup(colVideos, "_id", "owner", "videos",
			lookup(colLikes, "_id", "video", "likes"),
			project(bson.M{"views": 1, "likesCount": size("$likes")}),
		),
		project(bson.M{
			"_id":              0,
			"totalSubscribers": size("$subscribers"),
			"totalVideos":      size("$videos"),
			"totalViews":       bson.M{"$sum": "$videos.views"},
			"totalLikes":       bson.M{"$sum": "$videos.likesCount"},
		}),
	}
}

// ---------------------------------------------------------------------------
// accounts
// ---------------------------------------------------------------------------

func channelProfilePipeline(username string, viewer primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		match(bson.D{{Key: "username", Value: username}}),
		lookup(colSubscriptions, "_id", "channel", "subscribers"),
		lookup(colSubscriptions, "_id", "subscriber", "subscribedTo"),
		addFields(bson.M{
			"subscribersCount":         size("$subscribers"),
			"channelSubscribedToCount": size("$subscribedTo"),
			"isSubscribed":             contains(viewer, "$subscribers.subscriber"),
		}),
		project(bson.M{
			"username":                 1,
			"fullName":                 1,
			"email":                    1,
			"avatar":                   1,
			"coverImage":               1,
			"subscribersCount":         1,
			"channelSubscribedToCount": 1,
			"isSubscribed":             1,
		}),
	}
}

// watchHistoryPipeline returns the account's watched videos in history
// order, one document per video.
func watchHistoryPipeline(id primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		match(bson.D{{Key: "_id", Value: id}}),
		lookup(colVideos, "watchHistory", "_id", "watched", videoListStages()...),
		project(bson.M{"history": orderedJoin("$watchHistory", "$watched")}),
		unwind("$history"),
		replaceRoot("$history"),
	}
}

// ---------------------------------------------------------------------------
// comments, tweets
// ---------------------------------------------------------------------------

// engagementStages attach owner summary, like count and like state for a
// comment or tweet. likeField is the like document field pointing back.
func engagementStages(likeField string, viewer primitive.ObjectID) []bson.D {
	return []bson.D{
		ownerSummaryLookup(),
		lookup(colLikes, "_id", likeField, "likes"),
		addFields(bson.M{
			"likesCount": size("$likes"),
			"isLiked":    contains(viewer, "$likes.likedBy"),
			"owner":      first("$owner"),
		}),
		project(bson.M{
			"content":    1,
			"createdAt":  1,
			"likesCount": 1,
			"isLiked":    1,
			"owner":      1,
		}),
	}
}

func videoCommentsPipeline(video, viewer primitive.ObjectID, page model.PageRequest) mongo.Pipeline {
	return mongo.Pipeline{
		match(bson.D{{Key: "video", Value: video}}),
		sortBy(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}),
		paginate(page, engagementStages("comment", viewer)...),
	}
}

func userTweetsPipeline(owner, viewer primitive.ObjectID) mongo.Pipeline {
	p := mongo.Pipeline{
		match(bson.D{{Key: "owner", Value: owner}}),
		sortBy(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}),
	}
	return append(p, engagementStages("tweet", viewer)...)
}

// ---------------------------------------------------------------------------
// likes, subscriptions
// ---------------------------------------------------------------------------

// likedVideosPipeline flattens actor's video likes into the liked videos,
// in the order the likes were made.
func likedVideosPipeline(actor primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		match(bson.D{
			{Key: "likedBy", Value: actor},
			{Key: "video", Value: bson.M{"$exists": true}},
		}),
		sortBy(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}),
		lookup(colVideos, "video", "_id", "likedVideo", videoListStages()...),
		unwind("$likedVideo"),
		replaceRoot("$likedVideo"),
	}
}

// subscribersPipeline lists the accounts subscribed to channel, each with
// its own subscriber count and whether channel subscribes back.
func subscribersPipeline(channel primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		match(bson.D{{Key: "channel", Value: channel}}),
		sortBy(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}),
		lookup(colUsers, "subscriber", "_id", "subscriber",
			lookup(colSubscriptions, "_id", "channel", "followers"),
			addFields(bson.M{
				"subscribersCount":       size("$followers"),
				"subscribedToSubscriber": contains(channel, "$followers.subscriber"),
			}),
			project(bson.M{
				"username":               1,
				"fullName":               1,
				"avatar":                 1,
				"subscribersCount":       1,
				"subscribedToSubscriber": 1,
			}),
		),
		unwind("$subscriber"),
		replaceRoot("$subscriber"),
	}
}

// subscribedChannelsPipeline lists the channels subscriber follows, each
// with its newest published video.
func subscribedChannelsPipeline(subscriber primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		match(bson.D{{Key: "subscriber", Value: subscriber}}),
		sortBy(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}),
		lookup(colUsers, "channel", "_id", "channel",
			lookup(colVideos, "_id", "owner", "videos",
				match(bson.D{{Key: "isPublished", Value: true}}),
				sortBy(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}),
			),
			addFields(bson.M{"latestVideo": bson.M{"$last": "$videos"}}),
			project(bson.M{
				"username":    1,
				"fullName":    1,
				"avatar":      1,
				"latestVideo": 1,
			}),
		),
		unwind("$channel"),
		replaceRoot("$channel"),
	}
}

// ---------------------------------------------------------------------------
// playlists
// ---------------------------------------------------------------------------

func playlistDetailPipeline(id primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		match(bson.D{{Key: "_id", Value: id}}),
		lookup(colVideos, "videos", "_id", "members", videoListStages()...),
		addFields(bson.M{"videos": orderedJoin("$videos", "$members")}),
		addFields(bson.M{
			"totalVideos": size("$videos"),
			"totalViews":  bson.M{"$sum": "$videos.views"},
		}),
		project(bson.M{"members": 0}),
	}
}

func userPlaylistsPipeline(owner primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		match(bson.D{{Key: "owner", Value: owner}}),
		lookup(colVideos, "videos", "_id", "members",
			project(bson.M{"views": 1}),
		),
		addFields(bson.M{
			"totalVideos": size("$members"),
			"totalViews":  bson.M{"$sum": "$members.views"},
		}),
		sortBy(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}),
		project(bson.M{
			"title":       1,
			"description": 1,
			"totalVideos": 1,
			"totalViews":  1,
			"updatedAt":   1,
		}),
	}
}
