package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vidtube/internal/model"
)

// =============================================================================
// MOCK REPOSITORY
// =============================================================================

type mockCommentRepository struct {
	createFn      func(ctx context.Context, comment *model.Comment) error
	getByIDFn     func(ctx context.Context, commentID int64) (*model.Comment, error)
	updateFn      func(ctx context.Context, commentID int64, content string) (*model.Comment, error)
	deleteFn      func(ctx context.Context, commentID int64) error
	listByVideoFn func(ctx context.Context, videoID int64, page, limit int) ([]model.Comment, error)

	deleteCalls int
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) Update(ctx context.Context, commentID int64, content string) (*model.Comment, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, commentID, content)
	}
	return &model.Comment{ID: commentID, Content: content}, nil
}

func (m *mockCommentRepository) Delete(ctx context.Context, commentID int64) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, commentID)
	}
	return nil
}

func (m *mockCommentRepository) ListByVideo(ctx context.Context, videoID int64, page, limit int) ([]model.Comment, error) {
	if m.listByVideoFn != nil {
		return m.listByVideoFn(ctx, videoID, page, limit)
	}
	return []model.Comment{}, nil
}

// existingVideoRepo returns a video repo whose GetByID always succeeds.
func existingVideoRepo() *mockVideoRepository {
	return &mockVideoRepository{
		getByIDFn: func(ctx context.Context, videoID int64) (*model.Video, error) {
			return &model.Video{ID: videoID, IsPublished: true}, nil
		},
	}
}

// =============================================================================
// ADD TESTS
// =============================================================================

func TestCommentService_Add(t *testing.T) {
	tests := []struct {
		name    string
		content string
		videoOK bool
		wantErr error
	}{
		{
			name:    "valid comment",
			content: "  nice video  ",
			videoOK: true,
			wantErr: nil,
		},
		{
			name:    "empty content",
			content: "   ",
			videoOK: true,
			wantErr: model.ErrContentRequired,
		},
		{
			name:    "content too long",
			content: strings.Repeat("a", model.MaxCommentLength+1),
			videoOK: true,
			wantErr: model.ErrContentTooLong,
		},
		{
			name:    "video does not exist",
			content: "hello",
			videoOK: false,
			wantErr: model.ErrVideoNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			videoRepo := &mockVideoRepository{}
			if tt.videoOK {
				videoRepo = existingVideoRepo()
			}
			mockRepo := &mockCommentRepository{
				createFn: func(ctx context.Context, comment *model.Comment) error {
					comment.ID = 1
					return nil
				},
			}
			svc := NewCommentService(mockRepo, videoRepo)

			comment, err := svc.Add(context.Background(), 5, 7, tt.content)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if comment.Content != strings.TrimSpace(tt.content) {
				t.Errorf("content = %q, want trimmed input", comment.Content)
			}
			if comment.OwnerID != 5 || comment.VideoID != 7 {
				t.Errorf("comment = %+v, want owner 5 video 7", comment)
			}
		})
	}
}

// =============================================================================
// LIST TESTS
// =============================================================================

func TestCommentService_List_NormalizesPaging(t *testing.T) {
	var gotPage, gotLimit int
	mockRepo := &mockCommentRepository{
		listByVideoFn: func(ctx context.Context, videoID int64, page, limit int) ([]model.Comment, error) {
			gotPage, gotLimit = page, limit
			return []model.Comment{}, nil
		},
	}
	svc := NewCommentService(mockRepo, existingVideoRepo())

	resp, err := svc.List(context.Background(), 7, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPage != 1 || gotLimit != model.DefaultPageLimit {
		t.Errorf("paging = (%d, %d), want (1, %d)", gotPage, gotLimit, model.DefaultPageLimit)
	}
	if resp.Page != 1 || resp.Limit != model.DefaultPageLimit {
		t.Errorf("response paging = (%d, %d), want (1, %d)", resp.Page, resp.Limit, model.DefaultPageLimit)
	}
}

func TestCommentService_List_VideoNotFound(t *testing.T) {
	svc := NewCommentService(&mockCommentRepository{}, &mockVideoRepository{})

	_, err := svc.List(context.Background(), 404, 1, 10)
	if !errors.Is(err, model.ErrVideoNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrVideoNotFound)
	}
}

// =============================================================================
// OWNERSHIP TESTS
// =============================================================================

func TestCommentService_Update_NotOwner(t *testing.T) {
	mockRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, OwnerID: 2}, nil
		},
	}
	svc := NewCommentService(mockRepo, existingVideoRepo())

	_, err := svc.Update(context.Background(), 9, 3, "edited")
	if !errors.Is(err, model.ErrNotCommentOwner) {
		t.Errorf("error = %v, want %v", err, model.ErrNotCommentOwner)
	}
}

func TestCommentService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		userID    int64
		wantErr   error
		wantCalls int
	}{
		{name: "owner deletes", userID: 2, wantErr: nil, wantCalls: 1},
		{name: "non-owner rejected", userID: 9, wantErr: model.ErrNotCommentOwner, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockCommentRepository{
				getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
					return &model.Comment{ID: commentID, OwnerID: 2}, nil
				},
			}
			svc := NewCommentService(mockRepo, existingVideoRepo())

			err := svc.Delete(context.Background(), tt.userID, 3)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if mockRepo.deleteCalls != tt.wantCalls {
				t.Errorf("Delete called %d times, want %d", mockRepo.deleteCalls, tt.wantCalls)
			}
		})
	}
}
