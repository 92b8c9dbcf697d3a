package model

import (
	"errors"
	"time"
)

// Subscription is a directed edge from a subscriber to a channel (both users).
type Subscription struct {
	ID           int64     `db:"id" json:"id"`
	SubscriberID int64     `db:"subscriber_id" json:"subscriber_id"`
	ChannelID    int64     `db:"channel_id" json:"channel_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Subscriber is the projection returned when listing a channel's subscribers.
type Subscriber struct {
	ID              int64   `db:"id" json:"id"`
	Username        string  `db:"username" json:"username"`
	AvatarURL       *string `db:"avatar_url" json:"avatar_url"`
	SubscriberCount int64   `db:"subscriber_count" json:"subscriber_count"`
}

// SubscribedChannel is one edge of a user's subscription list with the
// channel identity nested.
type SubscribedChannel struct {
	SubscriptionID int64       `db:"subscription_id" json:"subscription_id"`
	SubscribedAt   time.Time   `db:"subscribed_at" json:"subscribed_at"`
	Channel        UserSummary `json:"channel"`
}

// ToggleSubscriptionResult reports the state after a toggle call.
type ToggleSubscriptionResult struct {
	Subscribed   bool          `json:"subscribed"`
	Subscription *Subscription `json:"subscription"`
}

// Subscription errors
var (
	ErrSelfSubscription     = errors.New("cannot subscribe to own channel")
	ErrChannelNotFound      = errors.New("channel not found")
	ErrAlreadySubscribed    = errors.New("already subscribed")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
