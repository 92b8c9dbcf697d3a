package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"vidtube/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

type commentRow struct {
	ID             int64     `db:"id"`
	VideoID        int64     `db:"video_id"`
	OwnerID        int64     `db:"owner_id"`
	Content        string    `db:"content"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	LikeCount      int64     `db:"like_count"`
	AuthorUsername string    `db:"author.username"`
	AuthorAvatar   *string   `db:"author.avatar_url"`
}

func (row commentRow) toComment() model.Comment {
	return model.Comment{
		ID:        row.ID,
		VideoID:   row.VideoID,
		OwnerID:   row.OwnerID,
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		LikeCount: row.LikeCount,
		Author: &model.UserSummary{
			ID:        row.OwnerID,
			Username:  row.AuthorUsername,
			AvatarURL: row.AuthorAvatar,
		},
	}
}

const commentSelectColumns = `
	c.id, c.video_id, c.owner_id, c.content, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM likes l WHERE l.target_kind = 'comment' AND l.target_id = c.id) AS like_count,
	u.username AS "author.username", u.avatar_url AS "author.avatar_url"
`

// Create inserts a new comment.
func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	query := `
		INSERT INTO comments (video_id, owner_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, c.VideoID, c.OwnerID, c.Content).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// GetByID retrieves a single comment without joined fields.
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, video_id, owner_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`
	var c model.Comment
	err := r.db.GetContext(ctx, &c, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

// Update replaces a comment's content. Ownership has been verified by the
// service before this runs.
func (r *commentRepository) Update(ctx context.Context, commentID int64, content string) (*model.Comment, error) {
	query := `
		UPDATE comments
		SET content = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, video_id, owner_id, content, created_at, updated_at
	`
	var c model.Comment
	err := r.db.GetContext(ctx, &c, query, content, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &c, nil
}

// Delete removes a comment. Its likes go with it via ON DELETE CASCADE.
func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// ListByVideo returns one page of a video's comments with author and like
// count joined, newest first with id as the deterministic tie-break.
func (r *commentRepository) ListByVideo(ctx context.Context, videoID int64, page, limit int) ([]model.Comment, error) {
	query := `
		SELECT ` + commentSelectColumns + `
		FROM comments c
		JOIN users u ON u.id = c.owner_id
		WHERE c.video_id = $1
		ORDER BY c.created_at DESC, c.id DESC
		OFFSET $2 LIMIT $3
	`

	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows, query, videoID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.toComment()
	}
	return comments, nil
}
