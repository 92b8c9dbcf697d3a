package service

import (
	"context"
	"fmt"
	"strings"

	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// CommentService handles comments on videos.
type CommentService struct {
	repo      repository.CommentRepository
	videoRepo repository.VideoRepository
}

func NewCommentService(repo repository.CommentRepository, videoRepo repository.VideoRepository) *CommentService {
	return &CommentService{
		repo:      repo,
		videoRepo: videoRepo,
	}
}

// Add creates a comment on an existing video.
func (s *CommentService) Add(ctx context.Context, userID, videoID int64, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		VideoID: videoID,
		OwnerID: userID,
		Content: content,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// List returns one page of a video's comments, newest first.
func (s *CommentService) List(ctx context.Context, videoID int64, page, limit int) (*model.CommentListResponse, error) {
	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	page, limit = normalizePaging(page, limit)
	comments, err := s.repo.ListByVideo(ctx, videoID, page, limit)
	if err != nil {
		return nil, err
	}

	return &model.CommentListResponse{
		Comments: comments,
		Page:     page,
		Limit:    limit,
	}, nil
}

// Update replaces a comment's content. Only the author may update.
func (s *CommentService) Update(ctx context.Context, userID, commentID int64, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.OwnerID != userID {
		return nil, model.ErrNotCommentOwner
	}

	return s.repo.Update(ctx, commentID, content)
}

// Delete removes a comment. Only the author may delete.
func (s *CommentService) Delete(ctx context.Context, userID, commentID int64) error {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.OwnerID != userID {
		return model.ErrNotCommentOwner
	}

	return s.repo.Delete(ctx, commentID)
}

func validateCommentContent(content string) error {
	if content == "" {
		return model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return model.ErrContentTooLong
	}
	return nil
}
