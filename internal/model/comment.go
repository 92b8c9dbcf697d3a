package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a video.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	VideoID   int64     `db:"video_id" json:"video_id"`
	OwnerID   int64     `db:"owner_id" json:"-"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields
	Author    *UserSummary `json:"author,omitempty"`
	LikeCount int64        `db:"like_count" json:"like_count"`
}

// CreateCommentRequest is the request body for commenting on a video.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// UpdateCommentRequest is the request body for editing a comment.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// CommentListResponse is the paginated comment list response.
type CommentListResponse struct {
	Comments []Comment `json:"comments"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

const MaxCommentLength = 2200

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the owner of this comment")
	ErrContentRequired = errors.New("content is required")
	ErrContentTooLong  = errors.New("content too long")
)
