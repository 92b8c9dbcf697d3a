package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"vidtube/internal/model"
)

type videoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) VideoRepository {
	return &videoRepository{db: db}
}

// videoRow scans a video joined with its owner identity and like count.
type videoRow struct {
	ID            int64     `db:"id"`
	OwnerID       int64     `db:"owner_id"`
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	VideoURL      string    `db:"video_url"`
	VideoKey      string    `db:"video_key"`
	ThumbnailURL  string    `db:"thumbnail_url"`
	ThumbnailKey  string    `db:"thumbnail_key"`
	Duration      float64   `db:"duration"`
	Views         int64     `db:"views"`
	IsPublished   bool      `db:"is_published"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	LikeCount     int64     `db:"like_count"`
	OwnerUsername string    `db:"owner.username"`
	OwnerAvatar   *string   `db:"owner.avatar_url"`
}

func (row videoRow) toVideo() model.Video {
	return model.Video{
		ID:           row.ID,
		OwnerID:      row.OwnerID,
		Title:        row.Title,
		Description:  row.Description,
		VideoURL:     row.VideoURL,
		VideoKey:     row.VideoKey,
		ThumbnailURL: row.ThumbnailURL,
		ThumbnailKey: row.ThumbnailKey,
		Duration:     row.Duration,
		Views:        row.Views,
		IsPublished:  row.IsPublished,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		LikeCount:    row.LikeCount,
		Owner: &model.UserSummary{
			ID:        row.OwnerID,
			Username:  row.OwnerUsername,
			AvatarURL: row.OwnerAvatar,
		},
	}
}

const videoSelectColumns = `
	v.id, v.owner_id, v.title, v.description, v.video_url, v.video_key,
	v.thumbnail_url, v.thumbnail_key, v.duration, v.views, v.is_published,
	v.created_at, v.updated_at,
	(SELECT COUNT(*) FROM likes l WHERE l.target_kind = 'video' AND l.target_id = v.id) AS like_count,
	u.username AS "owner.username", u.avatar_url AS "owner.avatar_url"
`

// Create inserts a new video record.
func (r *videoRepository) Create(ctx context.Context, v *model.Video) error {
	query := `
		INSERT INTO videos (owner_id, title, description, video_url, video_key,
		                    thumbnail_url, thumbnail_key, duration, views, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9)
		RETURNING id, views, created_at, updated_at
	`
	row := r.db.QueryRowxContext(ctx, query,
		v.OwnerID, v.Title, v.Description, v.VideoURL, v.VideoKey,
		v.ThumbnailURL, v.ThumbnailKey, v.Duration, v.IsPublished,
	)
	if err := row.Scan(&v.ID, &v.Views, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

// GetByID retrieves a single video with owner identity and like count.
func (r *videoRepository) GetByID(ctx context.Context, videoID int64) (*model.Video, error) {
	query := `
		SELECT ` + videoSelectColumns + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1
	`
	var row videoRow
	err := r.db.GetContext(ctx, &row, query, videoID)
	if err == sql.ErrNoRows {
		return nil, model.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}

	video := row.toVideo()
	return &video, nil
}

// GetByIDs retrieves multiple videos and re-orders them to match the input
// order (the trending ranking depends on it).
func (r *videoRepository) GetByIDs(ctx context.Context, videoIDs []int64) ([]model.Video, error) {
	if len(videoIDs) == 0 {
		return []model.Video{}, nil
	}

	query := `
		SELECT ` + videoSelectColumns + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = ANY($1) AND v.is_published
	`
	var rows []videoRow
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(videoIDs))
	if err != nil {
		return nil, fmt.Errorf("get videos by ids: %w", err)
	}

	byID := make(map[int64]model.Video, len(rows))
	for _, row := range rows {
		byID[row.ID] = row.toVideo()
	}
	ordered := make([]model.Video, 0, len(videoIDs))
	for _, id := range videoIDs {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}

	return ordered, nil
}

// Search returns one page of published videos matching the params, plus the
// total match count. The query matches title or description case-insensitively;
// the sort column is validated by the service against the whitelist, with
// created_at DESC, id DESC as the deterministic tie-break.
func (r *videoRepository) Search(ctx context.Context, p model.SearchVideosParams) ([]model.Video, int64, error) {
	where := `WHERE v.is_published`
	args := []interface{}{}

	if p.Query != "" {
		args = append(args, "%"+p.Query+"%")
		where += fmt.Sprintf(` AND (v.title ILIKE $%d OR v.description ILIKE $%d)`, len(args), len(args))
	}
	if p.OwnerID != nil {
		args = append(args, *p.OwnerID)
		where += fmt.Sprintf(` AND v.owner_id = $%d`, len(args))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM videos v ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	dir := "DESC"
	if p.SortAsc {
		dir = "ASC"
	}
	// p.SortBy has been validated against model.ValidSortKey; never
	// interpolate raw input here.
	orderBy := fmt.Sprintf(`ORDER BY v.%s %s, v.created_at DESC, v.id DESC`, p.SortBy, dir)

	args = append(args, (p.Page-1)*p.Limit, p.Limit)
	query := fmt.Sprintf(`
		SELECT %s
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		%s
		%s
		OFFSET $%d LIMIT $%d
	`, videoSelectColumns, where, orderBy, len(args)-1, len(args))

	var rows []videoRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search videos: %w", err)
	}

	videos := make([]model.Video, len(rows))
	for i, row := range rows {
		videos[i] = row.toVideo()
	}

	return videos, total, nil
}

// UpdateDetails persists title, description and thumbnail references.
func (r *videoRepository) UpdateDetails(ctx context.Context, v *model.Video) error {
	query := `
		UPDATE videos
		SET title = $1, description = $2, thumbnail_url = $3, thumbnail_key = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		v.Title, v.Description, v.ThumbnailURL, v.ThumbnailKey, v.ID,
	).Scan(&v.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.ErrVideoNotFound
	}
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	return nil
}

// SetPublished flips the publish flag.
func (r *videoRepository) SetPublished(ctx context.Context, videoID int64, published bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE videos SET is_published = $1, updated_at = NOW() WHERE id = $2`,
		published, videoID,
	)
	if err != nil {
		return fmt.Errorf("set published: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrVideoNotFound
	}
	return nil
}

// Delete removes a video. Likes, comments, watch-history rows and playlist
// entries go with it via ON DELETE CASCADE.
func (r *videoRepository) Delete(ctx context.Context, videoID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, videoID)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrVideoNotFound
	}
	return nil
}

// RecordView appends to the viewer's watch history and increments the view
// counter in one transaction. The conditional insert is what guarantees
// at most one increment per (viewer, video) pair, even under concurrent
// fetches: only the request whose insert lands increments the counter.
func (r *videoRepository) RecordView(ctx context.Context, viewerID, videoID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, video_id) DO NOTHING
	`, viewerID, videoID)
	if err != nil {
		return false, fmt.Errorf("insert watch history: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	if inserted == 0 {
		// Already watched; nothing to increment.
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE videos SET views = views + 1 WHERE id = $1`, videoID,
	); err != nil {
		return false, fmt.Errorf("increment views: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return true, nil
}

// CheckLikes checks which videos the user has liked.
func (r *videoRepository) CheckLikes(ctx context.Context, userID int64, videoIDs []int64) (map[int64]bool, error) {
	if len(videoIDs) == 0 {
		return make(map[int64]bool), nil
	}

	query := `
		SELECT target_id FROM likes
		WHERE liked_by = $1 AND target_kind = 'video' AND target_id = ANY($2)
	`
	var likedIDs []int64
	err := r.db.SelectContext(ctx, &likedIDs, query, userID, pq.Array(videoIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("check likes: %w", err)
	}

	result := make(map[int64]bool)
	for _, id := range videoIDs {
		result[id] = false
	}
	for _, id := range likedIDs {
		result[id] = true
	}

	return result, nil
}
