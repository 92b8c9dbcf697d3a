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

type subscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Find returns the edge for (subscriber, channel), or nil when absent.
func (r *subscriptionRepository) Find(ctx context.Context, subscriberID, channelID int64) (*model.Subscription, error) {
	query := `
		SELECT id, subscriber_id, channel_id, created_at
		FROM subscriptions
		WHERE subscriber_id = $1 AND channel_id = $2
	`
	var sub model.Subscription
	err := r.db.GetContext(ctx, &sub, query, subscriberID, channelID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return &sub, nil
}

// Create inserts a subscription edge. The unique (subscriber, channel) index
// keeps concurrent toggles from producing a second edge.
func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	query := `
		INSERT INTO subscriptions (subscriber_id, channel_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, sub.SubscriberID, sub.ChannelID).
		Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrAlreadySubscribed
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// DeleteByID removes a subscription edge by its identifier.
func (r *subscriptionRepository) DeleteByID(ctx context.Context, subscriptionID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, subscriptionID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrSubscriptionNotFound
	}
	return nil
}

// ListSubscribers returns everyone subscribed to the channel, each with
// their own subscriber count, newest edge first.
func (r *subscriptionRepository) ListSubscribers(ctx context.Context, channelID int64) ([]model.Subscriber, error) {
	query := `
		SELECT u.id, u.username, u.avatar_url,
		       (SELECT COUNT(*) FROM subscriptions s2 WHERE s2.channel_id = u.id) AS subscriber_count
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC, s.id DESC
	`
	subscribers := []model.Subscriber{}
	err := r.db.SelectContext(ctx, &subscribers, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return subscribers, nil
}

// ListSubscribedChannels returns every channel the user subscribes to with
// the channel identity nested per edge, newest edge first.
func (r *subscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID int64) ([]model.SubscribedChannel, error) {
	query := `
		SELECT s.id AS subscription_id, s.created_at AS subscribed_at,
		       u.id AS "channel.id", u.username AS "channel.username", u.avatar_url AS "channel.avatar_url"
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC, s.id DESC
	`

	type edgeRow struct {
		SubscriptionID  int64     `db:"subscription_id"`
		SubscribedAt    time.Time `db:"subscribed_at"`
		ChannelID       int64     `db:"channel.id"`
		ChannelUsername string    `db:"channel.username"`
		ChannelAvatar   *string   `db:"channel.avatar_url"`
	}

	var rows []edgeRow
	err := r.db.SelectContext(ctx, &rows, query, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("list subscribed channels: %w", err)
	}

	channels := make([]model.SubscribedChannel, len(rows))
	for i, row := range rows {
		channels[i] = model.SubscribedChannel{
			SubscriptionID: row.SubscriptionID,
			SubscribedAt:   row.SubscribedAt,
			Channel: model.UserSummary{
				ID:        row.ChannelID,
				Username:  row.ChannelUsername,
				AvatarURL: row.ChannelAvatar,
			},
		}
	}

	return channels, nil
}
