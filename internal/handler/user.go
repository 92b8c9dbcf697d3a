package handler

import (
	"log"
	"net/http"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
	"vidtube/internal/service"
	"vidtube/internal/transport/http/middleware"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// WatchHistory handles GET /users/{id}/history
// Watch history is private; only the user themselves may read it.
func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	userID, ok := parseIDParam(w, r, "id", "Invalid user ID")
	if !ok {
		return
	}

	if callerID != userID {
		httputil.WriteForbidden(w, "You can only view your own watch history")
		return
	}

	page := parseIntDefault(r.URL.Query().Get("page"), 1)
	limit := parseIntDefault(r.URL.Query().Get("limit"), model.DefaultPageLimit)

	videos, err := h.userService.GetWatchHistory(r.Context(), userID, page, limit)
	if err != nil {
		log.Printf("[ERROR] WatchHistory handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to fetch watch history")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, videos, "Watch history fetched successfully")
}
