package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
	"vidtube/internal/service"
	"vidtube/internal/transport/http/middleware"
)

type TweetHandler struct {
	tweetService *service.TweetService
}

func NewTweetHandler(tweetService *service.TweetService) *TweetHandler {
	return &TweetHandler{
		tweetService: tweetService,
	}
}

// Create handles POST /tweets
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	tweet, err := h.tweetService.Create(r.Context(), userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteBadRequest(w, "Tweet content is required")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Tweet content too long")
		default:
			log.Printf("[ERROR] Create tweet handler: user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to create tweet")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, tweet, "Tweet posted successfully")
}

// ListByUser handles GET /users/{id}/tweets
func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := parseIDParam(w, r, "id", "Invalid user ID")
	if !ok {
		return
	}

	page := parseIntDefault(r.URL.Query().Get("page"), 1)
	limit := parseIntDefault(r.URL.Query().Get("limit"), model.DefaultPageLimit)

	tweets, err := h.tweetService.ListByUser(r.Context(), ownerID, page, limit)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] ListByUser tweets handler: user=%d err=%v", ownerID, err)
		httputil.WriteInternalError(w, "Failed to list tweets")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, tweets, "Tweets fetched successfully")
}

// Update handles PATCH /tweets/{id}
func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	tweetID, ok := parseIDParam(w, r, "id", "Invalid tweet ID")
	if !ok {
		return
	}

	var req model.UpdateTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	tweet, err := h.tweetService.Update(r.Context(), userID, tweetID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTweetNotFound):
			httputil.WriteNotFound(w, "Tweet not found")
		case errors.Is(err, model.ErrNotTweetOwner):
			httputil.WriteForbidden(w, "You can only update your own tweets")
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteBadRequest(w, "Tweet content is required")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Tweet content too long")
		default:
			log.Printf("[ERROR] Update tweet handler: user=%d tweet=%d err=%v", userID, tweetID, err)
			httputil.WriteInternalError(w, "Failed to update tweet")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, tweet, "Tweet updated successfully")
}

// Delete handles DELETE /tweets/{id}
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	tweetID, ok := parseIDParam(w, r, "id", "Invalid tweet ID")
	if !ok {
		return
	}

	err := h.tweetService.Delete(r.Context(), userID, tweetID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTweetNotFound):
			httputil.WriteNotFound(w, "Tweet not found")
		case errors.Is(err, model.ErrNotTweetOwner):
			httputil.WriteForbidden(w, "You can only delete your own tweets")
		default:
			log.Printf("[ERROR] Delete tweet handler: user=%d tweet=%d err=%v", userID, tweetID, err)
			httputil.WriteInternalError(w, "Failed to delete tweet")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, nil, "Tweet deleted successfully")
}
