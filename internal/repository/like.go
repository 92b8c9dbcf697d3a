package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"vidtube/internal/model"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Find returns the like edge for (likedBy, target), or nil when absent.
func (r *likeRepository) Find(ctx context.Context, likedBy int64, target model.LikeTarget) (*model.Like, error) {
	query := `
		SELECT id, liked_by, target_kind, target_id, created_at
		FROM likes
		WHERE liked_by = $1 AND target_kind = $2 AND target_id = $3
	`
	var like model.Like
	err := r.db.GetContext(ctx, &like, query, likedBy, target.Kind, target.ID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find like: %w", err)
	}
	return &like, nil
}

// Create inserts a like edge. The unique (liked_by, target_kind, target_id)
// index makes a concurrent duplicate toggle fail here instead of producing a
// second edge.
func (r *likeRepository) Create(ctx context.Context, like *model.Like) error {
	query := `
		INSERT INTO likes (liked_by, target_kind, target_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, like.LikedBy, like.TargetKind, like.TargetID).
		Scan(&like.ID, &like.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrAlreadyLiked
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// DeleteByID removes a like edge by its identifier.
func (r *likeRepository) DeleteByID(ctx context.Context, likeID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE id = $1`, likeID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrLikeNotFound
	}
	return nil
}

// ListLikedVideos returns all videos the user has liked, owner joined,
// most recently liked first.
func (r *likeRepository) ListLikedVideos(ctx context.Context, userID int64) ([]model.Video, error) {
	query := `
		SELECT ` + videoSelectColumns + `
		FROM likes lk
		JOIN videos v ON v.id = lk.target_id
		JOIN users u ON u.id = v.owner_id
		WHERE lk.liked_by = $1 AND lk.target_kind = 'video'
		ORDER BY lk.created_at DESC, lk.id DESC
	`
	var rows []videoRow
	err := r.db.SelectContext(ctx, &rows, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked videos: %w", err)
	}

	videos := make([]model.Video, len(rows))
	for i, row := range rows {
		videos[i] = row.toVideo()
		videos[i].IsLiked = true
	}

	return videos, nil
}
