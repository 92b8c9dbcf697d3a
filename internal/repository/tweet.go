package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"vidtube/internal/model"
)

type tweetRepository struct {
	db *sqlx.DB
}

func NewTweetRepository(db *sqlx.DB) TweetRepository {
	return &tweetRepository{db: db}
}

type tweetRow struct {
	ID             int64     `db:"id"`
	OwnerID        int64     `db:"owner_id"`
	Content        string    `db:"content"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	AuthorUsername string    `db:"author.username"`
	AuthorAvatar   *string   `db:"author.avatar_url"`
	LikeCount      int64     `db:"like_count"`
}

func (row tweetRow) toTweet() model.Tweet {
	tweet := model.Tweet{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		LikeCount: row.LikeCount,
	}
	tweet.Author = &model.UserSummary{
		ID:        row.OwnerID,
		Username:  row.AuthorUsername,
		AvatarURL: row.AuthorAvatar,
	}
	return tweet
}

const tweetSelectColumns = `
	t.id, t.owner_id, t.content, t.created_at, t.updated_at,
	u.username AS "author.username",
	u.avatar_url AS "author.avatar_url",
	(SELECT COUNT(*) FROM likes l WHERE l.target_kind = 'tweet' AND l.target_id = t.id) AS like_count
`

func (r *tweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	query := `
		INSERT INTO tweets (owner_id, content)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, tweet.OwnerID, tweet.Content).
		Scan(&tweet.ID, &tweet.CreatedAt, &tweet.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert tweet: %w", err)
	}
	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id int64) (*model.Tweet, error) {
	query := `
		SELECT ` + tweetSelectColumns + `
		FROM tweets t
		JOIN users u ON u.id = t.owner_id
		WHERE t.id = $1
	`
	var row tweetRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrTweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tweet: %w", err)
	}
	tweet := row.toTweet()
	return &tweet, nil
}

func (r *tweetRepository) Update(ctx context.Context, id int64, content string) (*model.Tweet, error) {
	query := `
		UPDATE tweets
		SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, owner_id, content, created_at, updated_at
	`
	var tweet model.Tweet
	err := r.db.GetContext(ctx, &tweet, query, id, content)
	if err == sql.ErrNoRows {
		return nil, model.ErrTweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update tweet: %w", err)
	}
	return &tweet, nil
}

func (r *tweetRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrTweetNotFound
	}
	return nil
}

func (r *tweetRepository) ListByOwner(ctx context.Context, ownerID int64, page, limit int) ([]model.Tweet, error) {
	query := `
		SELECT ` + tweetSelectColumns + `
		FROM tweets t
		JOIN users u ON u.id = t.owner_id
		WHERE t.owner_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		OFFSET $2 LIMIT $3
	`
	var rows []tweetRow
	err := r.db.SelectContext(ctx, &rows, query, ownerID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}
	tweets := make([]model.Tweet, 0, len(rows))
	for _, row := range rows {
		tweets = append(tweets, row.toTweet())
	}
	return tweets, nil
}
