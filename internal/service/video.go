package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"vidtube/internal/cache"
	"vidtube/internal/model"
	"vidtube/internal/queue"
	"vidtube/internal/repository"
)

// VideoService handles video publishing, lookup, search and the owner-gated
// mutations.
type VideoService struct {
	repo      repository.VideoRepository
	media     MediaStore
	publisher queue.Publisher
	trending  cache.TrendingCache
}

func NewVideoService(repo repository.VideoRepository, media MediaStore, publisher queue.Publisher, trending cache.TrendingCache) *VideoService {
	return &VideoService{
		repo:      repo,
		media:     media,
		publisher: publisher,
		trending:  trending,
	}
}

// Publish uploads the video file and thumbnail, then creates the record.
// New videos start published.
func (s *VideoService) Publish(ctx context.Context, ownerID int64, req *model.PublishVideoRequest,
	videoFile multipart.File, videoHeader *multipart.FileHeader,
	thumbFile multipart.File, thumbHeader *multipart.FileHeader) (*model.Video, error) {

	title := strings.TrimSpace(req.Title)
	if err := validateVideoDetails(title, req.Description); err != nil {
		return nil, err
	}
	if videoFile == nil || videoHeader == nil || thumbFile == nil || thumbHeader == nil {
		return nil, model.ErrMediaRequired
	}

	videoUpload, err := s.media.UploadVideo(ctx, videoFile, videoHeader)
	if err != nil {
		return nil, err
	}

	thumbUpload, err := s.media.UploadThumbnail(ctx, thumbFile, thumbHeader)
	if err != nil {
		s.cleanupObject(ctx, videoUpload.Key)
		return nil, err
	}

	video := &model.Video{
		OwnerID:      ownerID,
		Title:        title,
		Description:  req.Description,
		VideoURL:     videoUpload.URL,
		VideoKey:     videoUpload.Key,
		ThumbnailURL: thumbUpload.URL,
		ThumbnailKey: thumbUpload.Key,
		Duration:     videoUpload.Duration,
		IsPublished:  true,
	}

	if err := s.repo.Create(ctx, video); err != nil {
		s.cleanupObject(ctx, videoUpload.Key)
		s.cleanupObject(ctx, thumbUpload.Key)
		return nil, fmt.Errorf("create video: %w", err)
	}

	if _, err := s.publisher.Publish(ctx, queue.StreamVideos, queue.NewVideoPublishedEvent(video.ID, ownerID)); err != nil {
		log.Printf("[VideoService] publish event FAILED: video=%d err=%v", video.ID, err)
	}

	return video, nil
}

// Get returns a single video. Unpublished videos are visible only to their
// owner. An authenticated viewer's first visit appends the video to their
// watch history and bumps the view counter.
func (s *VideoService) Get(ctx context.Context, videoID int64, viewerID *int64) (*model.Video, error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if !video.IsPublished && (viewerID == nil || *viewerID != video.OwnerID) {
		return nil, model.ErrVideoNotFound
	}

	if viewerID != nil {
		firstView, err := s.repo.RecordView(ctx, *viewerID, videoID)
		if err != nil {
			log.Printf("[VideoService] record view FAILED: video=%d viewer=%d err=%v", videoID, *viewerID, err)
		} else if firstView {
			video.Views++
			if _, err := s.publisher.Publish(ctx, queue.StreamVideos, queue.NewVideoViewedEvent(videoID, *viewerID)); err != nil {
				log.Printf("[VideoService] view event FAILED: video=%d err=%v", videoID, err)
			}
		}

		likedMap, err := s.repo.CheckLikes(ctx, *viewerID, []int64{videoID})
		if err == nil {
			video.IsLiked = likedMap[videoID]
		}
	}

	return video, nil
}

// Search returns one page of published videos matching the params.
func (s *VideoService) Search(ctx context.Context, params model.SearchVideosParams) (*model.VideoListResponse, error) {
	params.Page, params.Limit = normalizePaging(params.Page, params.Limit)

	if params.SortBy == "" {
		params.SortBy = model.SortByCreatedAt
	}
	if !model.ValidSortKey(params.SortBy) {
		return nil, model.ErrInvalidSortKey
	}

	videos, total, err := s.repo.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	if params.ViewerID != nil && len(videos) > 0 {
		videoIDs := make([]int64, len(videos))
		for i, v := range videos {
			videoIDs[i] = v.ID
		}
		likedMap, err := s.repo.CheckLikes(ctx, *params.ViewerID, videoIDs)
		if err == nil {
			for i := range videos {
				videos[i].IsLiked = likedMap[videos[i].ID]
			}
		}
	}

	return &model.VideoListResponse{
		Videos: videos,
		Page:   params.Page,
		Limit:  params.Limit,
		Total:  total,
	}, nil
}

// Update changes title/description and optionally replaces the thumbnail.
// Only the owner may update.
func (s *VideoService) Update(ctx context.Context, userID, videoID int64, req *model.UpdateVideoRequest,
	thumbFile multipart.File, thumbHeader *multipart.FileHeader) (*model.Video, error) {

	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != userID {
		return nil, model.ErrNotVideoOwner
	}

	if req.Title != nil {
		video.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	if err := validateVideoDetails(video.Title, video.Description); err != nil {
		return nil, err
	}

	oldThumbKey := ""
	if thumbFile != nil && thumbHeader != nil {
		thumbUpload, err := s.media.UploadThumbnail(ctx, thumbFile, thumbHeader)
		if err != nil {
			return nil, err
		}
		oldThumbKey = video.ThumbnailKey
		video.ThumbnailURL = thumbUpload.URL
		video.ThumbnailKey = thumbUpload.Key
	}

	if err := s.repo.UpdateDetails(ctx, video); err != nil {
		return nil, fmt.Errorf("update video: %w", err)
	}

	if oldThumbKey != "" {
		s.cleanupObject(ctx, oldThumbKey)
	}

	return video, nil
}

// Delete removes the video record and its stored media. Only the owner may
// delete.
func (s *VideoService) Delete(ctx context.Context, userID, videoID int64) error {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if video.OwnerID != userID {
		return model.ErrNotVideoOwner
	}

	if err := s.repo.Delete(ctx, videoID); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	s.cleanupObject(ctx, video.VideoKey)
	s.cleanupObject(ctx, video.ThumbnailKey)

	if _, err := s.publisher.Publish(ctx, queue.StreamVideos, queue.NewVideoDeletedEvent(videoID, userID)); err != nil {
		log.Printf("[VideoService] delete event FAILED: video=%d err=%v", videoID, err)
	}

	return nil
}

// TogglePublish flips the publish flag. Only the owner may toggle.
func (s *VideoService) TogglePublish(ctx context.Context, userID, videoID int64) (*model.Video, error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != userID {
		return nil, model.ErrNotVideoOwner
	}

	video.IsPublished = !video.IsPublished
	if err := s.repo.SetPublished(ctx, videoID, video.IsPublished); err != nil {
		return nil, fmt.Errorf("set published: %w", err)
	}

	if video.IsPublished {
		if _, err := s.publisher.Publish(ctx, queue.StreamVideos, queue.NewVideoPublishedEvent(videoID, userID)); err != nil {
			log.Printf("[VideoService] publish event FAILED: video=%d err=%v", videoID, err)
		}
	} else {
		// An unpublished video must leave the trending ranking too.
		if _, err := s.publisher.Publish(ctx, queue.StreamVideos, queue.NewVideoDeletedEvent(videoID, userID)); err != nil {
			log.Printf("[VideoService] unpublish event FAILED: video=%d err=%v", videoID, err)
		}
	}

	return video, nil
}

// Trending returns the currently highest ranked published videos.
func (s *VideoService) Trending(ctx context.Context, limit int) ([]model.Video, error) {
	if limit < 1 || limit > model.MaxPageLimit {
		limit = model.DefaultPageLimit
	}

	videoIDs, _, err := s.trending.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(videoIDs) == 0 {
		return []model.Video{}, nil
	}

	videos, err := s.repo.GetByIDs(ctx, videoIDs)
	if err != nil {
		return nil, err
	}

	// The ranking can lag behind deletes and unpublishes.
	published := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		if v.IsPublished {
			published = append(published, v)
		}
	}
	return published, nil
}

func (s *VideoService) cleanupObject(ctx context.Context, key string) {
	if err := s.media.DeleteObject(ctx, key); err != nil {
		log.Printf("[VideoService] delete object FAILED: key=%s err=%v", key, err)
	}
}

func validateVideoDetails(title, description string) error {
	if title == "" {
		return model.ErrTitleRequired
	}
	if len(title) > model.MaxVideoTitleLength {
		return model.ErrTitleTooLong
	}
	if len(description) > model.MaxVideoDescriptionLength {
		return model.ErrDescriptionTooLong
	}
	return nil
}
