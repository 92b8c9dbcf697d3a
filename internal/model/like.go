package model

import (
	"errors"
	"time"
)

// TargetKind discriminates what a like points at. Exactly one kind per like;
// the (kind, id) pair replaces three mutually exclusive nullable references.
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

// LikeTarget is a validated (kind, id) pair.
type LikeTarget struct {
	Kind TargetKind `json:"kind"`
	ID   int64      `json:"id"`
}

// NewLikeTarget builds a LikeTarget, rejecting unknown kinds and
// non-positive identifiers at construction.
func NewLikeTarget(kind TargetKind, id int64) (LikeTarget, error) {
	switch kind {
	case TargetVideo, TargetComment, TargetTweet:
	default:
		return LikeTarget{}, ErrInvalidLikeTarget
	}
	if id <= 0 {
		return LikeTarget{}, ErrInvalidLikeTarget
	}
	return LikeTarget{Kind: kind, ID: id}, nil
}

// Like is a directed edge from a user to a single target.
type Like struct {
	ID         int64      `db:"id" json:"id"`
	LikedBy    int64      `db:"liked_by" json:"liked_by"`
	TargetKind TargetKind `db:"target_kind" json:"target_kind"`
	TargetID   int64      `db:"target_id" json:"target_id"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// ToggleLikeResult reports the state after a toggle call.
type ToggleLikeResult struct {
	Liked bool  `json:"liked"`
	Like  *Like `json:"like"`
}

// Like errors
var (
	ErrInvalidLikeTarget = errors.New("invalid like target")
	ErrAlreadyLiked      = errors.New("already liked")
	ErrLikeNotFound      = errors.New("like not found")
)
