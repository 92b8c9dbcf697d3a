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

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Stats handles GET /dashboard/stats
// Returns the caller's own channel stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	stats, err := h.dashboardService.Stats(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] Dashboard stats handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to fetch channel stats")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, stats, "Channel stats fetched successfully")
}

// Videos handles GET /dashboard/videos
// Returns one page of the caller's uploads with their comments.
func (h *DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	page := parseIntDefault(r.URL.Query().Get("page"), 1)
	limit := parseIntDefault(r.URL.Query().Get("limit"), model.DefaultPageLimit)

	videos, err := h.dashboardService.Videos(r.Context(), userID, page, limit)
	if err != nil {
		log.Printf("[ERROR] Dashboard videos handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to fetch channel videos")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, videos, "Channel videos fetched successfully")
}
