package service

import (
	"context"
	"fmt"
	"strings"

	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// PlaylistService handles playlist CRUD and membership changes.
type PlaylistService struct {
	repo      repository.PlaylistRepository
	videoRepo repository.VideoRepository
}

func NewPlaylistService(repo repository.PlaylistRepository, videoRepo repository.VideoRepository) *PlaylistService {
	return &PlaylistService{
		repo:      repo,
		videoRepo: videoRepo,
	}
}

// Create makes an empty playlist owned by the user.
func (s *PlaylistService) Create(ctx context.Context, ownerID int64, req *model.CreatePlaylistRequest) (*model.Playlist, error) {
	name := strings.TrimSpace(req.Name)
	if err := validatePlaylistName(name); err != nil {
		return nil, err
	}

	playlist := &model.Playlist{
		OwnerID:     ownerID,
		Name:        name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, playlist); err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	return playlist, nil
}

// Get returns the playlist with its videos. Unpublished entries are visible
// only to their owner.
func (s *PlaylistService) Get(ctx context.Context, playlistID int64, viewerID *int64) (*model.Playlist, error) {
	return s.repo.GetWithVideos(ctx, playlistID, viewerID)
}

// ListByOwner returns all playlists owned by the user, newest first.
func (s *PlaylistService) ListByOwner(ctx context.Context, ownerID int64) ([]model.Playlist, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Update renames the playlist. Only the owner may update.
func (s *PlaylistService) Update(ctx context.Context, userID, playlistID int64, req *model.UpdatePlaylistRequest) (*model.Playlist, error) {
	playlist, err := s.repo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.OwnerID != userID {
		return nil, model.ErrNotPlaylistOwner
	}

	name := playlist.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if err := validatePlaylistName(name); err != nil {
		return nil, err
	}

	description := playlist.Description
	if req.Description != nil {
		description = *req.Description
	}

	return s.repo.Update(ctx, playlistID, name, description)
}

// Delete removes the playlist and its entries. Only the owner may delete.
func (s *PlaylistService) Delete(ctx context.Context, userID, playlistID int64) error {
	playlist, err := s.repo.GetByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.OwnerID != userID {
		return model.ErrNotPlaylistOwner
	}

	return s.repo.Delete(ctx, playlistID)
}

// AddVideo appends a video to the playlist. Only the owner may modify the
// sequence, and the video must exist.
func (s *PlaylistService) AddVideo(ctx context.Context, userID, playlistID, videoID int64) error {
	playlist, err := s.repo.GetByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.OwnerID != userID {
		return model.ErrNotPlaylistOwner
	}

	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return err
	}

	return s.repo.AddVideo(ctx, playlistID, videoID)
}

// RemoveVideo removes every occurrence of the video from the playlist.
// Only the owner may modify the sequence.
func (s *PlaylistService) RemoveVideo(ctx context.Context, userID, playlistID, videoID int64) error {
	playlist, err := s.repo.GetByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.OwnerID != userID {
		return model.ErrNotPlaylistOwner
	}

	removed, err := s.repo.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return model.ErrVideoNotInPlaylist
	}
	return nil
}

func validatePlaylistName(name string) error {
	if name == "" {
		return model.ErrPlaylistNameEmpty
	}
	if len(name) > model.MaxPlaylistNameLength {
		return fmt.Errorf("playlist name exceeds %d characters", model.MaxPlaylistNameLength)
	}
	return nil
}
