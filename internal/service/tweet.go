package service

import (
	"context"
	"fmt"
	"strings"

	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// TweetService handles short text posts on user channels.
type TweetService struct {
	repo     repository.TweetRepository
	userRepo repository.UserRepository
}

func NewTweetService(repo repository.TweetRepository, userRepo repository.UserRepository) *TweetService {
	return &TweetService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// Create posts a new tweet.
func (s *TweetService) Create(ctx context.Context, ownerID int64, content string) (*model.Tweet, error) {
	content = strings.TrimSpace(content)
	if err := validateTweetContent(content); err != nil {
		return nil, err
	}

	tweet := &model.Tweet{
		OwnerID: ownerID,
		Content: content,
	}
	if err := s.repo.Create(ctx, tweet); err != nil {
		return nil, fmt.Errorf("create tweet: %w", err)
	}
	return tweet, nil
}

// ListByUser returns one page of a user's tweets, newest first.
func (s *TweetService) ListByUser(ctx context.Context, userID int64, page, limit int) ([]model.Tweet, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	page, limit = normalizePaging(page, limit)
	return s.repo.ListByOwner(ctx, userID, page, limit)
}

// Update edits a tweet's content. Only the author may update.
func (s *TweetService) Update(ctx context.Context, userID, tweetID int64, content string) (*model.Tweet, error) {
	content = strings.TrimSpace(content)
	if err := validateTweetContent(content); err != nil {
		return nil, err
	}

	tweet, err := s.repo.GetByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if tweet.OwnerID != userID {
		return nil, model.ErrNotTweetOwner
	}

	return s.repo.Update(ctx, tweetID, content)
}

// Delete removes a tweet. Only the author may delete.
func (s *TweetService) Delete(ctx context.Context, userID, tweetID int64) error {
	tweet, err := s.repo.GetByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if tweet.OwnerID != userID {
		return model.ErrNotTweetOwner
	}

	return s.repo.Delete(ctx, tweetID)
}

func validateTweetContent(content string) error {
	if content == "" {
		return model.ErrContentRequired
	}
	if len(content) > model.MaxTweetLength {
		return model.ErrContentTooLong
	}
	return nil
}
