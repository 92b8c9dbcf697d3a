package service

import (
	"context"
	"errors"
	"fmt"

	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// LikeService handles like toggles for videos, comments and tweets.
type LikeService struct {
	repo        repository.LikeRepository
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository
}

func NewLikeService(repo repository.LikeRepository, videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository, tweetRepo repository.TweetRepository) *LikeService {
	return &LikeService{
		repo:        repo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
	}
}

// Toggle likes the target if the user has not liked it, and removes the like
// if they have. Two concurrent toggles cannot double-insert: the unique
// (liked_by, target) index turns the loser's insert into ErrAlreadyLiked.
func (s *LikeService) Toggle(ctx context.Context, userID int64, target model.LikeTarget) (*model.ToggleLikeResult, error) {
	if err := s.checkTargetExists(ctx, target); err != nil {
		return nil, err
	}

	existing, err := s.repo.Find(ctx, userID, target)
	if err != nil {
		return nil, fmt.Errorf("find like: %w", err)
	}

	if existing != nil {
		err := s.repo.DeleteByID(ctx, existing.ID)
		if err != nil && !errors.Is(err, model.ErrLikeNotFound) {
			return nil, fmt.Errorf("delete like: %w", err)
		}
		return &model.ToggleLikeResult{Liked: false}, nil
	}

	like := &model.Like{
		LikedBy:    userID,
		TargetKind: target.Kind,
		TargetID:   target.ID,
	}
	err = s.repo.Create(ctx, like)
	if errors.Is(err, model.ErrAlreadyLiked) {
		// Lost a race with a concurrent toggle; report the winning state.
		like, err = s.repo.Find(ctx, userID, target)
		if err != nil {
			return nil, fmt.Errorf("find like after race: %w", err)
		}
		return &model.ToggleLikeResult{Liked: true, Like: like}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create like: %w", err)
	}

	return &model.ToggleLikeResult{Liked: true, Like: like}, nil
}

// LikedVideos returns all videos the user has liked.
func (s *LikeService) LikedVideos(ctx context.Context, userID int64) ([]model.Video, error) {
	return s.repo.ListLikedVideos(ctx, userID)
}

func (s *LikeService) checkTargetExists(ctx context.Context, target model.LikeTarget) error {
	var err error
	switch target.Kind {
	case model.TargetVideo:
		_, err = s.videoRepo.GetByID(ctx, target.ID)
	case model.TargetComment:
		_, err = s.commentRepo.GetByID(ctx, target.ID)
	case model.TargetTweet:
		_, err = s.tweetRepo.GetByID(ctx, target.ID)
	default:
		return model.ErrInvalidLikeTarget
	}
	return err
}
