package service

import (
	"context"

	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/repository"
)

// DashboardService reports on the caller's own channel.
type DashboardService struct {
	videos repository.VideoRepository
}

func NewDashboardService(videos repository.VideoRepository) *DashboardService {
	return &DashboardService{videos: videos}
}

// ChannelStats totals subscribers, videos, views and likes.
func (s *DashboardService) ChannelStats(ctx context.Context, caller string) (*model.ChannelStats, error) {
	id, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	return s.videos.ChannelStats(ctx, id)
}

// ChannelVideos lists every video of the caller, published or not.
func (s *DashboardService) ChannelVideos(ctx context.Context, caller string) ([]model.ChannelVideo, error) {
	id, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	return s.videos.ChannelVideos(ctx, id)
}
