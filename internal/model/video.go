package model

import (
	"errors"
	"time"
)

// Video represents an uploaded video with its stored media references.
type Video struct {
	ID           int64     `db:"id" json:"id"`
	OwnerID      int64     `db:"owner_id" json:"owner_id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	VideoURL     string    `db:"video_url" json:"video_url"`
	VideoKey     string    `db:"video_key" json:"-"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail_url"`
	ThumbnailKey string    `db:"thumbnail_key" json:"-"`
	Duration     float64   `db:"duration" json:"duration"`
	Views        int64     `db:"views" json:"views"`
	IsPublished  bool      `db:"is_published" json:"is_published"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields (not in videos table)
	Owner     *UserSummary `json:"owner,omitempty"`
	LikeCount int64        `db:"like_count" json:"like_count"`
	IsLiked   bool         `json:"is_liked"`
}

// PublishVideoRequest carries the non-file fields of a multipart publish.
type PublishVideoRequest struct {
	Title       string
	Description string
}

// UpdateVideoRequest is the request body for updating title/description.
// The thumbnail is replaced through the same endpoint as a multipart part.
type UpdateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Sort keys accepted by the video search endpoint.
const (
	SortByCreatedAt = "created_at"
	SortByViews     = "views"
	SortByDuration  = "duration"
	SortByTitle     = "title"
)

// SearchVideosParams controls video listing/search.
type SearchVideosParams struct {
	Query    string
	Page     int
	Limit    int
	SortBy   string
	SortAsc  bool
	OwnerID  *int64
	ViewerID *int64
}

// VideoListResponse is the paginated search/list response.
type VideoListResponse struct {
	Videos []Video `json:"videos"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
	Total  int64   `json:"total"`
}

// Video constraints
const (
	MaxVideoTitleLength       = 200
	MaxVideoDescriptionLength = 5000
	DefaultPageLimit          = 10
	MaxPageLimit              = 50
)

// Video errors
var (
	ErrVideoNotFound      = errors.New("video not found")
	ErrNotVideoOwner      = errors.New("not the owner of this video")
	ErrTitleRequired      = errors.New("video title is required")
	ErrTitleTooLong       = errors.New("video title too long")
	ErrDescriptionTooLong = errors.New("video description too long")
	ErrInvalidSortKey     = errors.New("invalid sort key")
)

// ValidSortKey reports whether key is an accepted search sort column.
func ValidSortKey(key string) bool {
	switch key {
	case SortByCreatedAt, SortByViews, SortByDuration, SortByTitle:
		return true
	}
	return false
}
