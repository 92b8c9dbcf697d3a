package model

import (
	"errors"
	"time"
)

// Tweet is a short text post on a user's channel.
type Tweet struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   int64     `db:"owner_id" json:"owner_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields
	Author    *UserSummary `json:"author,omitempty"`
	LikeCount int64        `db:"like_count" json:"like_count"`
}

// CreateTweetRequest is the request body for posting a tweet.
type CreateTweetRequest struct {
	Content string `json:"content"`
}

// UpdateTweetRequest is the request body for editing a tweet.
type UpdateTweetRequest struct {
	Content string `json:"content"`
}

const MaxTweetLength = 500

// Tweet errors
var (
	ErrTweetNotFound = errors.New("tweet not found")
	ErrNotTweetOwner = errors.New("not the owner of this tweet")
)
