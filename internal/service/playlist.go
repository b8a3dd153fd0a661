package service

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/repository"
)

// PlaylistService manages owner-curated playlists. Membership has set
// semantics: adding a video twice keeps one copy, removing an absent video
// is a no-op. Insertion order is kept.
type PlaylistService struct {
	playlists repository.PlaylistRepository
	videos    repository.VideoRepository
	logger    *slog.Logger
}

func NewPlaylistService(playlists repository.PlaylistRepository, videos repository.VideoRepository, logger *slog.Logger) *PlaylistService {
	return &PlaylistService{playlists: playlists, videos: videos, logger: logger}
}

func (s *PlaylistService) Create(ctx context.Context, caller, title, description string) (*model.Playlist, error) {
	owner, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	title, err = required("name", title, "Name and description are required")
	if err != nil {
		return nil, err
	}
	description, err = required("description", description, "Name and description are required")
	if err != nil {
		return nil, err
	}

	playlist := &model.Playlist{
		Owner:       owner,
		Title:       title,
		Description: description,
		Videos:      []primitive.ObjectID{},
	}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, err
	}
	s.logger.Info("playlist created",
		slog.String("playlistID", playlist.ID.Hex()),
		slog.String("owner", caller),
	)
	return playlist, nil
}

func (s *PlaylistService) Update(ctx context.Context, caller, playlistID, title, description string) (*model.Playlist, error) {
	playlist, err := s.owned(ctx, caller, playlistID, "You are not allowed to update this playlist")
	if err != nil {
		return nil, err
	}
	title, err = required("name", title, "Name and description are required")
	if err != nil {
		return nil, err
	}
	description, err = required("description", description, "Name and description are required")
	if err != nil {
		return nil, err
	}
	return s.playlists.Update(ctx, playlist.ID, title, description)
}

func (s *PlaylistService) Delete(ctx context.Context, caller, playlistID string) error {
	playlist, err := s.owned(ctx, caller, playlistID, "You are not allowed to delete this playlist")
	if err != nil {
		return err
	}
	return s.playlists.Delete(ctx, playlist.ID)
}

// AddVideo appends an existing video unless it is already a member.
func (s *PlaylistService) AddVideo(ctx context.Context, caller, playlistID, videoID string) (*model.Playlist, error) {
	playlist, video, err := s.member(ctx, caller, playlistID, videoID)
	if err != nil {
		return nil, err
	}
	if err := videoExists(ctx, s.videos, video); err != nil {
		return nil, err
	}
	return s.playlists.AddVideo(ctx, playlist.ID, video)
}

// RemoveVideo drops the video from the playlist if present. The video need
// not exist anymore, so ids of deleted videos can still be pulled.
func (s *PlaylistService) RemoveVideo(ctx context.Context, caller, playlistID, videoID string) (*model.Playlist, error) {
	playlist, video, err := s.member(ctx, caller, playlistID, videoID)
	if err != nil {
		return nil, err
	}
	return s.playlists.RemoveVideo(ctx, playlist.ID, video)
}

// GetByID returns the playlist with its member videos resolved.
func (s *PlaylistService) GetByID(ctx context.Context, playlistID string) (*model.PlaylistDetail, error) {
	id, err := parseID("playlistId", playlistID)
	if err != nil {
		return nil, err
	}
	return s.playlists.Detail(ctx, id)
}

// ListByOwner returns every playlist of userID.
func (s *PlaylistService) ListByOwner(ctx context.Context, userID string) ([]model.PlaylistSummary, error) {
	owner, err := parseID("userId", userID)
	if err != nil {
		return nil, err
	}
	return s.playlists.ListByOwner(ctx, owner)
}

// member validates both ids and checks the caller owns the playlist.
func (s *PlaylistService) member(ctx context.Context, caller, playlistID, videoID string) (*model.Playlist, primitive.ObjectID, error) {
	video, err := parseID("videoId", videoID)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	playlist, err := s.owned(ctx, caller, playlistID, "You are not allowed to modify this playlist")
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	return playlist, video, nil
}

func (s *PlaylistService) owned(ctx context.Context, caller, playlistID, forbidden string) (*model.Playlist, error) {
	uid, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	id, err := parseID("playlistId", playlistID)
	if err != nil {
		return nil, err
	}
	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(playlist.Owner, uid, forbidden); err != nil {
		return nil, err
	}
	return playlist, nil
}
