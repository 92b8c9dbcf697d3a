package handler

import (
	"errors"
	"log"
	"net/http"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
	"vidtube/internal/service"
	"vidtube/internal/transport/http/middleware"
)

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{
		likeService: likeService,
	}
}

// ToggleVideo handles POST /likes/video/{id}
func (h *LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, model.TargetVideo, "Invalid video ID", "Video not found")
}

// ToggleComment handles POST /likes/comment/{id}
func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, model.TargetComment, "Invalid comment ID", "Comment not found")
}

// ToggleTweet handles POST /likes/tweet/{id}
func (h *LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, model.TargetTweet, "Invalid tweet ID", "Tweet not found")
}

func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, kind model.TargetKind, badIDMsg, notFoundMsg string) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	targetID, ok := parseIDParam(w, r, "id", badIDMsg)
	if !ok {
		return
	}

	target, err := model.NewLikeTarget(kind, targetID)
	if err != nil {
		httputil.WriteBadRequest(w, badIDMsg)
		return
	}

	result, err := h.likeService.Toggle(r.Context(), userID, target)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrVideoNotFound),
			errors.Is(err, model.ErrCommentNotFound),
			errors.Is(err, model.ErrTweetNotFound):
			httputil.WriteNotFound(w, notFoundMsg)
		case errors.Is(err, model.ErrInvalidLikeTarget):
			httputil.WriteBadRequest(w, badIDMsg)
		default:
			log.Printf("[ERROR] Toggle like handler: user=%d kind=%s target=%d err=%v", userID, kind, targetID, err)
			httputil.WriteInternalError(w, "Failed to toggle like")
		}
		return
	}

	message := "Liked successfully"
	if !result.Liked {
		message = "Like removed"
	}
	httputil.WriteSuccess(w, http.StatusOK, result, message)
}

// LikedVideos handles GET /likes/videos
func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	videos, err := h.likeService.LikedVideos(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] LikedVideos handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to fetch liked videos")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, videos, "Liked videos fetched successfully")
}
