package service

import (
	"context"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/media"
	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/repository"
)

// VideoService publishes, lists, edits and deletes videos.
//
// Deleting a video also deletes its comments and every like pointing at the
// video. The steps are separate store calls with no transaction; a failure
// part-way leaves the later steps undone and is reported as an error.
type VideoService struct {
	videos   repository.VideoRepository
	accounts repository.AccountRepository
	comments repository.CommentRepository
	likes    repository.LikeRepository
	assets   *Assets
	logger   *slog.Logger
}

func NewVideoService(
	videos repository.VideoRepository,
	accounts repository.AccountRepository,
	comments repository.CommentRepository,
	likes repository.LikeRepository,
	assets *Assets,
	logger *slog.Logger,
) *VideoService {
	return &VideoService{
		videos:   videos,
		accounts: accounts,
		comments: comments,
		likes:    likes,
		assets:   assets,
		logger:   logger,
	}
}

// PublishInput is the parsed upload form. Duration is used only when the
// media host does not report one.
type PublishInput struct {
	Title       string
	Description string
	Duration    float64
	VideoFile   *media.File
	Thumbnail   *media.File
}

// Publish uploads the video file and thumbnail and stores the video
// unpublished.
func (s *VideoService) Publish(ctx context.Context, caller string, in PublishInput) (*model.Video, error) {
	owner, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	title, err := required("title", in.Title, "All fields are required")
	if err != nil {
		return nil, err
	}
	description, err := required("description", in.Description, "All fields are required")
	if err != nil {
		return nil, err
	}
	if in.VideoFile == nil {
		return nil, apperror.ValidationFailed("videoFile", "Video file is required")
	}
	if in.Thumbnail == nil {
		return nil, apperror.ValidationFailed("thumbnail", "Thumbnail is required")
	}

	videoAsset, err := s.assets.Upload(ctx, in.VideoFile, media.FolderVideo, "video file")
	if err != nil {
		return nil, err
	}
	thumbAsset, err := s.assets.Upload(ctx, in.Thumbnail, media.FolderThumbnail, "thumbnail")
	if err != nil {
		return nil, err
	}

	duration := videoAsset.Duration
	if duration <= 0 {
		duration = in.Duration
	}

	video := &model.Video{
		Owner:       owner,
		VideoFile:   videoAsset.URL,
		Thumbnail:   thumbAsset.URL,
		Title:       title,
		Description: description,
		Duration:    duration,
		IsPublished: false,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, err
	}

	s.logger.Info("video published",
		slog.String("videoID", video.ID.Hex()),
		slog.String("owner", caller),
	)
	return video, nil
}

// GetByID returns the video page. Every call counts as a view and adds the
// video to the caller's watch history.
func (s *VideoService) GetByID(ctx context.Context, caller, videoID string) (*model.VideoDetail, error) {
	viewer, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	id, err := parseID("videoId", videoID)
	if err != nil {
		return nil, err
	}

	if err := s.videos.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	if err := s.accounts.AddToWatchHistory(ctx, viewer, id); err != nil {
		return nil, err
	}
	return s.videos.Detail(ctx, id, viewer)
}

// ListInput carries the listing query string. Page and Limit are zero when
// absent.
type ListInput struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string
	SortType string
	UserID   string
}

// List returns one page of videos. When the client sends neither page nor
// limit it gets a random sample instead, in the same page shape.
func (s *VideoService) List(ctx context.Context, caller string, in ListInput) (model.Page[model.VideoListItem], error) {
	viewer, err := callerID(caller)
	if err != nil {
		return model.Page[model.VideoListItem]{}, err
	}

	q := repository.VideoQuery{
		Text:     strings.TrimSpace(in.Query),
		SortBy:   in.SortBy,
		SortDesc: strings.EqualFold(in.SortType, "desc"),
	}
	if in.UserID != "" {
		owner, err := parseID("userId", in.UserID)
		if err != nil {
			return model.Page[model.VideoListItem]{}, err
		}
		q.Owner = &owner
		q.IncludeUnpublished = owner == viewer
	}

	if in.Page == 0 && in.Limit == 0 {
		items, err := s.videos.Sample(ctx, q, SampleSize)
		if err != nil {
			return model.Page[model.VideoListItem]{}, err
		}
		return model.NewPage(items, int64(len(items)), model.PageRequest{Page: 1, Limit: len(items)}), nil
	}

	q.Page = NormalizePage(model.PageRequest{Page: in.Page, Limit: in.Limit})
	return s.videos.List(ctx, q)
}

// UpdateInput edits a video. Thumbnail is optional.
type UpdateInput struct {
	Title       string
	Description string
	Thumbnail   *media.File
}

// Update changes title and description and optionally replaces the
// thumbnail. The old thumbnail is removed after the update is stored.
func (s *VideoService) Update(ctx context.Context, caller, videoID string, in UpdateInput) (*model.Video, error) {
	video, err := s.owned(ctx, caller, videoID, "You are not allowed to update this video")
	if err != nil {
		return nil, err
	}
	title, err := required("title", in.Title, "Title and description are required")
	if err != nil {
		return nil, err
	}
	description, err := required("description", in.Description, "Title and description are required")
	if err != nil {
		return nil, err
	}

	upd := repository.VideoUpdate{Title: title, Description: description}
	if in.Thumbnail != nil {
		asset, err := s.assets.Upload(ctx, in.Thumbnail, media.FolderThumbnail, "thumbnail")
		if err != nil {
			return nil, err
		}
		upd.Thumbnail = asset.URL
	}

	updated, err := s.videos.Update(ctx, video.ID, upd)
	if err != nil {
		return nil, err
	}
	if upd.Thumbnail != "" {
		s.assets.RemoveLater(ctx, video.Thumbnail, media.ResourceImage)
	}
	return updated, nil
}

// Delete removes the video, its comments and its likes, then removes the
// video file and thumbnail from the media host in the background.
func (s *VideoService) Delete(ctx context.Context, caller, videoID string) error {
	video, err := s.owned(ctx, caller, videoID, "You are not allowed to delete this video")
	if err != nil {
		return err
	}

	if err := s.videos.Delete(ctx, video.ID); err != nil {
		return err
	}
	comments, err := s.comments.DeleteByVideo(ctx, video.ID)
	if err != nil {
		return err
	}
	likes, err := s.likes.DeleteByTarget(ctx, model.LikeTarget{Kind: model.LikeVideo, ID: video.ID})
	if err != nil {
		return err
	}

	s.assets.RemoveLater(ctx, video.VideoFile, media.ResourceVideo)
	s.assets.RemoveLater(ctx, video.Thumbnail, media.ResourceImage)

	s.logger.Info("video deleted",
		slog.String("videoID", video.ID.Hex()),
		slog.Int64("comments", comments),
		slog.Int64("likes", likes),
	)
	return nil
}

// TogglePublish flips isPublished.
func (s *VideoService) TogglePublish(ctx context.Context, caller, videoID string) (*model.Video, error) {
	video, err := s.owned(ctx, caller, videoID, "You are not allowed to modify this video")
	if err != nil {
		return nil, err
	}
	return s.videos.SetPublished(ctx, video.ID, !video.IsPublished)
}

// owned loads the video and checks the caller owns it.
func (s *VideoService) owned(ctx context.Context, caller, videoID, forbidden string) (*model.Video, error) {
	uid, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	id, err := parseID("videoId", videoID)
	if err != nil {
		return nil, err
	}
	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(video.Owner, uid, forbidden); err != nil {
		return nil, err
	}
	return video, nil
}

// videoExists returns NotFound when id does not name a video.
func videoExists(ctx context.Context, videos repository.VideoRepository, id primitive.ObjectID) error {
	_, err := videos.GetByID(ctx, id)
	return err
}
