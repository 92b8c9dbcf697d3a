package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vidtube/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hashed, full_name, avatar_url, avatar_key, cover_image_url, cover_image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHashed,
		u.FullName,
		u.AvatarURL,
		u.AvatarKey,
		u.CoverImageURL,
		u.CoverImageKey,
	)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hashed, full_name, avatar_url, avatar_key,
		       cover_image_url, cover_image_key, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hashed, full_name, avatar_url, avatar_key,
		       cover_image_url, cover_image_key, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

// ExistsByUsername checks if a username is already taken
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

// ExistsByEmail checks if an email is already registered
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// GetSummary retrieves the lightweight identity projection of a user.
func (r *userRepository) GetSummary(ctx context.Context, id int64) (*model.UserSummary, error) {
	query := `SELECT id, username, avatar_url FROM users WHERE id = $1`

	var s model.UserSummary
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user summary: %w", err)
	}

	return &s, nil
}

// GetWatchHistory returns the user's watched videos in first-watch order,
// most recent first.
func (r *userRepository) GetWatchHistory(ctx context.Context, userID int64, page, limit int) ([]model.Video, error) {
	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.video_key,
		       v.thumbnail_url, v.thumbnail_key, v.duration, v.views, v.is_published,
		       v.created_at, v.updated_at
		FROM watch_history wh
		JOIN videos v ON v.id = wh.video_id
		WHERE wh.user_id = $1
		ORDER BY wh.watched_at DESC, v.id DESC
		OFFSET $2 LIMIT $3
	`

	videos := []model.Video{}
	err := r.db.SelectContext(ctx, &videos, query, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}

	return videos, nil
}
