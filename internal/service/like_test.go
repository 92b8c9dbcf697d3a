package service

import (
	"context"
	"errors"
	"testing"

	"vidtube/internal/model"
)

// =============================================================================
// MOCK REPOSITORY
// =============================================================================

type mockLikeRepository struct {
	findFn       func(ctx context.Context, likedBy int64, target model.LikeTarget) (*model.Like, error)
	createFn     func(ctx context.Context, like *model.Like) error
	deleteByIDFn func(ctx context.Context, likeID int64) error
	listLikedFn  func(ctx context.Context, userID int64) ([]model.Video, error)

	createCalls int
	deleteCalls int
}

func (m *mockLikeRepository) Find(ctx context.Context, likedBy int64, target model.LikeTarget) (*model.Like, error) {
	if m.findFn != nil {
		return m.findFn(ctx, likedBy, target)
	}
	return nil, nil
}

func (m *mockLikeRepository) Create(ctx context.Context, like *model.Like) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, like)
	}
	return nil
}

func (m *mockLikeRepository) DeleteByID(ctx context.Context, likeID int64) error {
	m.deleteCalls++
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, likeID)
	}
	return nil
}

func (m *mockLikeRepository) ListLikedVideos(ctx context.Context, userID int64) ([]model.Video, error) {
	if m.listLikedFn != nil {
		return m.listLikedFn(ctx, userID)
	}
	return []model.Video{}, nil
}

func newLikeService(likeRepo *mockLikeRepository) *LikeService {
	return NewLikeService(likeRepo, existingVideoRepo(), &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID}, nil
		},
	}, &mockTweetRepository{
		getByIDFn: func(ctx context.Context, tweetID int64) (*model.Tweet, error) {
			return &model.Tweet{ID: tweetID}, nil
		},
	})
}

func mustTarget(t *testing.T, kind model.TargetKind, id int64) model.LikeTarget {
	t.Helper()
	target, err := model.NewLikeTarget(kind, id)
	if err != nil {
		t.Fatalf("NewLikeTarget(%q, %d): %v", kind, id, err)
	}
	return target
}

// =============================================================================
// TOGGLE TESTS
// =============================================================================

func TestLikeService_Toggle_CreatesWhenAbsent(t *testing.T) {
	likeRepo := &mockLikeRepository{
		createFn: func(ctx context.Context, like *model.Like) error {
			like.ID = 10
			return nil
		},
	}
	svc := newLikeService(likeRepo)

	result, err := svc.Toggle(context.Background(), 5, mustTarget(t, model.TargetVideo, 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Liked {
		t.Error("expected liked = true")
	}
	if result.Like == nil || result.Like.LikedBy != 5 || result.Like.TargetID != 7 {
		t.Errorf("like = %+v, want likedBy 5 target 7", result.Like)
	}
	if likeRepo.createCalls != 1 {
		t.Errorf("Create called %d times, want 1", likeRepo.createCalls)
	}
}

func TestLikeService_Toggle_RemovesWhenPresent(t *testing.T) {
	likeRepo := &mockLikeRepository{
		findFn: func(ctx context.Context, likedBy int64, target model.LikeTarget) (*model.Like, error) {
			return &model.Like{ID: 10, LikedBy: likedBy, TargetKind: target.Kind, TargetID: target.ID}, nil
		},
	}
	svc := newLikeService(likeRepo)

	result, err := svc.Toggle(context.Background(), 5, mustTarget(t, model.TargetVideo, 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Liked {
		t.Error("expected liked = false after removing")
	}
	if likeRepo.deleteCalls != 1 {
		t.Errorf("DeleteByID called %d times, want 1", likeRepo.deleteCalls)
	}
	if likeRepo.createCalls != 0 {
		t.Errorf("Create called %d times, want 0", likeRepo.createCalls)
	}
}

func TestLikeService_Toggle_LostDeleteRace(t *testing.T) {
	// A concurrent toggle already removed the like; the toggle still lands on
	// the unliked state.
	likeRepo := &mockLikeRepository{
		findFn: func(ctx context.Context, likedBy int64, target model.LikeTarget) (*model.Like, error) {
			return &model.Like{ID: 10}, nil
		},
		deleteByIDFn: func(ctx context.Context, likeID int64) error {
			return model.ErrLikeNotFound
		},
	}
	svc := newLikeService(likeRepo)

	result, err := svc.Toggle(context.Background(), 5, mustTarget(t, model.TargetVideo, 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Liked {
		t.Error("expected liked = false")
	}
}

func TestLikeService_Toggle_LostInsertRace(t *testing.T) {
	// The unique index fires when a concurrent toggle inserted first. The
	// service re-reads and reports the winning state.
	raceWinner := &model.Like{ID: 11, LikedBy: 5, TargetKind: model.TargetVideo, TargetID: 7}
	findCalls := 0
	likeRepo := &mockLikeRepository{
		findFn: func(ctx context.Context, likedBy int64, target model.LikeTarget) (*model.Like, error) {
			findCalls++
			if findCalls == 1 {
				return nil, nil // not liked yet when we first look
			}
			return raceWinner, nil
		},
		createFn: func(ctx context.Context, like *model.Like) error {
			return model.ErrAlreadyLiked
		},
	}
	svc := newLikeService(likeRepo)

	result, err := svc.Toggle(context.Background(), 5, mustTarget(t, model.TargetVideo, 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Liked {
		t.Error("expected liked = true after losing the insert race")
	}
	if result.Like != raceWinner {
		t.Errorf("like = %+v, want the concurrent insert", result.Like)
	}
}

func TestLikeService_Toggle_TargetNotFound(t *testing.T) {
	videoRepo := &mockVideoRepository{} // GetByID returns ErrVideoNotFound
	commentRepo := &mockCommentRepository{}
	tweetRepo := &mockTweetRepository{}
	svc := NewLikeService(&mockLikeRepository{}, videoRepo, commentRepo, tweetRepo)

	tests := []struct {
		kind    model.TargetKind
		wantErr error
	}{
		{kind: model.TargetVideo, wantErr: model.ErrVideoNotFound},
		{kind: model.TargetComment, wantErr: model.ErrCommentNotFound},
		{kind: model.TargetTweet, wantErr: model.ErrTweetNotFound},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			_, err := svc.Toggle(context.Background(), 5, mustTarget(t, tt.kind, 404))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLikeTarget_Validation(t *testing.T) {
	if _, err := model.NewLikeTarget("playlist", 1); !errors.Is(err, model.ErrInvalidLikeTarget) {
		t.Errorf("unknown kind: error = %v, want %v", err, model.ErrInvalidLikeTarget)
	}
	if _, err := model.NewLikeTarget(model.TargetVideo, 0); !errors.Is(err, model.ErrInvalidLikeTarget) {
		t.Errorf("zero id: error = %v, want %v", err, model.ErrInvalidLikeTarget)
	}
}
