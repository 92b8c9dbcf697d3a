package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vidtube/internal/model"
)

type playlistRepository struct {
	db *sqlx.DB
}

func NewPlaylistRepository(db *sqlx.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	query := `
		INSERT INTO playlists (owner_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, playlist.OwnerID, playlist.Name, playlist.Description).
		Scan(&playlist.ID, &playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert playlist: %w", err)
	}
	return nil
}

func (r *playlistRepository) GetByID(ctx context.Context, id int64) (*model.Playlist, error) {
	query := `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM playlists
		WHERE id = $1
	`
	var playlist model.Playlist
	err := r.db.GetContext(ctx, &playlist, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	return &playlist, nil
}

// GetWithVideos loads the playlist header plus its videos in playlist order.
// A viewer other than the owner only sees published entries.
func (r *playlistRepository) GetWithVideos(ctx context.Context, id int64, viewerID *int64) (*model.Playlist, error) {
	playlist, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT pv.position, ` + videoSelectColumns + `
		FROM playlist_videos pv
		JOIN videos v ON v.id = pv.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE pv.playlist_id = $1
		  AND (v.is_published = TRUE OR v.owner_id = $2)
		ORDER BY pv.position ASC, pv.id ASC
	`
	var ownerFilter int64
	if viewerID != nil {
		ownerFilter = *viewerID
	}
	var rows []struct {
		Position int `db:"position"`
		videoRow
	}
	if err := r.db.SelectContext(ctx, &rows, query, id, ownerFilter); err != nil {
		return nil, fmt.Errorf("list playlist videos: %w", err)
	}

	playlist.Videos = make([]model.PlaylistVideo, 0, len(rows))
	for _, row := range rows {
		playlist.Videos = append(playlist.Videos, model.PlaylistVideo{
			Position: row.Position,
			Video:    row.toVideo(),
		})
	}
	playlist.VideoCount = int64(len(playlist.Videos))
	return playlist, nil
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Playlist, error) {
	query := `
		SELECT p.id, p.owner_id, p.name, p.description, p.created_at, p.updated_at,
			(SELECT COUNT(*) FROM playlist_videos pv WHERE pv.playlist_id = p.id) AS video_count
		FROM playlists p
		WHERE p.owner_id = $1
		ORDER BY p.created_at DESC, p.id DESC
	`
	var playlists []model.Playlist
	err := r.db.SelectContext(ctx, &playlists, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	if playlists == nil {
		playlists = []model.Playlist{}
	}
	return playlists, nil
}

func (r *playlistRepository) Update(ctx context.Context, id int64, name, description string) (*model.Playlist, error) {
	query := `
		UPDATE playlists
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, owner_id, name, description, created_at, updated_at
	`
	var playlist model.Playlist
	err := r.db.GetContext(ctx, &playlist, query, id, name, description)
	if err == sql.ErrNoRows {
		return nil, model.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}
	return &playlist, nil
}

func (r *playlistRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPlaylistNotFound
	}
	return nil
}

// AddVideo appends the video after the current last position. Duplicates are
// allowed, matching how repeated additions behave in the client.
func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID int64) error {
	query := `
		INSERT INTO playlist_videos (playlist_id, video_id, position)
		VALUES ($1, $2, (
			SELECT COALESCE(MAX(position), 0) + 1
			FROM playlist_videos
			WHERE playlist_id = $1
		))
	`
	if _, err := r.db.ExecContext(ctx, query, playlistID, videoID); err != nil {
		return fmt.Errorf("add playlist video: %w", err)
	}
	return nil
}

// RemoveVideo deletes every occurrence of the video and reports how many
// entries went away.
func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`,
		playlistID, videoID)
	if err != nil {
		return 0, fmt.Errorf("remove playlist video: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return rows, nil
}
