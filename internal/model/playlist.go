package model

import (
	"errors"
	"time"
)

// Playlist is an ordered sequence of video references owned by a user.
// The sequence may contain the same video more than once; no dedup is
// enforced on insert.
type Playlist struct {
	ID          int64     `db:"id" json:"id"`
	OwnerID     int64     `db:"owner_id" json:"owner_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields
	Videos     []PlaylistVideo `json:"videos,omitempty"`
	VideoCount int64           `db:"video_count" json:"video_count"`
}

// PlaylistVideo is one entry of a playlist, in insertion order.
type PlaylistVideo struct {
	Position int   `db:"position" json:"position"`
	Video    Video `json:"video"`
}

// CreatePlaylistRequest is the request body for creating a playlist.
type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdatePlaylistRequest is the request body for renaming a playlist.
type UpdatePlaylistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

const MaxPlaylistNameLength = 100

// Playlist errors
var (
	ErrPlaylistNotFound   = errors.New("playlist not found")
	ErrNotPlaylistOwner   = errors.New("not the owner of this playlist")
	ErrPlaylistNameEmpty  = errors.New("playlist name is required")
	ErrVideoNotInPlaylist = errors.New("video not in playlist")
)
