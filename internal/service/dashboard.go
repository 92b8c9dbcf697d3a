package service

import (
	"context"

	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// DashboardService serves the channel owner's stats views.
type DashboardService struct {
	repo repository.StatsRepository
}

func NewDashboardService(repo repository.StatsRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// Stats returns the composite dashboard record for the user's own channel.
func (s *DashboardService) Stats(ctx context.Context, userID int64) (*model.ChannelStats, error) {
	return s.repo.ChannelStats(ctx, userID)
}

// Videos returns one page of the user's uploads with their comments.
func (s *DashboardService) Videos(ctx context.Context, userID int64, page, limit int) ([]model.ChannelVideo, error) {
	page, limit = normalizePaging(page, limit)
	return s.repo.ChannelVideos(ctx, userID, page, limit)
}
