package handler

import (
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
	"vidtube/internal/service"
	"vidtube/internal/transport/http/middleware"
)

type VideoHandler struct {
	videoService *service.VideoService
}

func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
	}
}

// Publish handles POST /videos
// Multipart form: videoFile (required), thumbnail (required), title, description.
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	maxFormSize := int64(model.MaxVideoSizeBytes) + int64(model.MaxThumbnailSizeBytes) + 1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequest(w, "Upload exceeds size limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	videoFile, videoHeader, err := r.FormFile("videoFile")
	if err != nil {
		httputil.WriteBadRequest(w, "Video file is required")
		return
	}
	defer videoFile.Close()

	thumbFile, thumbHeader, err := r.FormFile("thumbnail")
	if err != nil {
		httputil.WriteBadRequest(w, "Thumbnail is required")
		return
	}
	defer thumbFile.Close()

	req := model.PublishVideoRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}

	video, err := h.videoService.Publish(r.Context(), userID, &req, videoFile, videoHeader, thumbFile, thumbHeader)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTitleRequired):
			httputil.WriteBadRequest(w, "Video title is required")
		case errors.Is(err, model.ErrTitleTooLong):
			httputil.WriteBadRequest(w, "Video title too long")
		case errors.Is(err, model.ErrDescriptionTooLong):
			httputil.WriteBadRequest(w, "Video description too long")
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequest(w, "Upload exceeds size limit")
		case errors.Is(err, model.ErrInvalidVideoType):
			httputil.WriteBadRequest(w, "Unsupported video type. Allowed: mp4, webm")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Unsupported thumbnail type. Allowed: jpeg, png, webp")
		case errors.Is(err, model.ErrMediaRequired):
			httputil.WriteBadRequest(w, "Video file and thumbnail are required")
		default:
			log.Printf("[ERROR] Publish video handler: user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to publish video")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, video, "Video published successfully")
}

// Search handles GET /videos
// Query params: query, page, limit, sortBy, sortType, userId.
func (h *VideoHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := model.SearchVideosParams{
		Query:   q.Get("query"),
		Page:    parseIntDefault(q.Get("page"), 1),
		Limit:   parseIntDefault(q.Get("limit"), model.DefaultPageLimit),
		SortBy:  q.Get("sortBy"),
		SortAsc: strings.EqualFold(q.Get("sortType"), "asc"),
	}

	if ownerStr := q.Get("userId"); ownerStr != "" {
		ownerID, err := strconv.ParseInt(ownerStr, 10, 64)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid userId")
			return
		}
		params.OwnerID = &ownerID
	}

	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		params.ViewerID = &id
	}

	result, err := h.videoService.Search(r.Context(), params)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSortKey) {
			httputil.WriteBadRequest(w, "Invalid sort key")
			return
		}
		log.Printf("[ERROR] Search videos handler: %v", err)
		httputil.WriteInternalError(w, "Failed to search videos")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, result, "Videos fetched successfully")
}

// Trending handles GET /videos/trending
func (h *VideoHandler) Trending(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), model.DefaultPageLimit)

	videos, err := h.videoService.Trending(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] Trending handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch trending videos")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, videos, "Trending videos fetched successfully")
}

// Get handles GET /videos/{id}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, ok := parseIDParam(w, r, "id", "Invalid video ID")
	if !ok {
		return
	}

	var viewerID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	video, err := h.videoService.Get(r.Context(), videoID, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrVideoNotFound) {
			httputil.WriteNotFound(w, "Video not found")
			return
		}
		log.Printf("[ERROR] Get video handler: video=%d err=%v", videoID, err)
		httputil.WriteInternalError(w, "Failed to get video")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, video, "Video fetched successfully")
}

// Update handles PATCH /videos/{id}
// Accepts JSON {title, description} or multipart form with an optional
// thumbnail part plus title/description fields.
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	videoID, ok := parseIDParam(w, r, "id", "Invalid video ID")
	if !ok {
		return
	}

	var req model.UpdateVideoRequest
	var thumbFile multipart.File
	var thumbHeader *multipart.FileHeader

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		maxFormSize := int64(model.MaxThumbnailSizeBytes) + 1024*1024
		r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
		if err := r.ParseMultipartForm(maxFormSize); err != nil {
			httputil.WriteBadRequest(w, "Invalid form data")
			return
		}
		if v := r.FormValue("title"); v != "" {
			req.Title = &v
		}
		if v := r.FormValue("description"); v != "" {
			req.Description = &v
		}
		file, header, err := r.FormFile("thumbnail")
		if err == nil {
			defer file.Close()
			thumbFile, thumbHeader = file, header
		} else if err != http.ErrMissingFile {
			httputil.WriteBadRequest(w, "Invalid thumbnail upload")
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteBadRequest(w, "Invalid request body")
			return
		}
	}

	video, err := h.videoService.Update(r.Context(), userID, videoID, &req, thumbFile, thumbHeader)
	h.writeUpdateResult(w, userID, videoID, video, err)
}

func (h *VideoHandler) writeUpdateResult(w http.ResponseWriter, userID, videoID int64, video *model.Video, err error) {
	if err != nil {
		switch {
		case errors.Is(err, model.ErrVideoNotFound):
			httputil.WriteNotFound(w, "Video not found")
		case errors.Is(err, model.ErrNotVideoOwner):
			httputil.WriteForbidden(w, "You can only update your own videos")
		case errors.Is(err, model.ErrTitleRequired):
			httputil.WriteBadRequest(w, "Video title is required")
		case errors.Is(err, model.ErrTitleTooLong):
			httputil.WriteBadRequest(w, "Video title too long")
		case errors.Is(err, model.ErrDescriptionTooLong):
			httputil.WriteBadRequest(w, "Video description too long")
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequest(w, "Thumbnail exceeds size limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Unsupported thumbnail type. Allowed: jpeg, png, webp")
		default:
			log.Printf("[ERROR] Update video handler: user=%d video=%d err=%v", userID, videoID, err)
			httputil.WriteInternalError(w, "Failed to update video")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, video, "Video updated successfully")
}

// Delete handles DELETE /videos/{id}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	videoID, ok := parseIDParam(w, r, "id", "Invalid video ID")
	if !ok {
		return
	}

	err := h.videoService.Delete(r.Context(), userID, videoID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrVideoNotFound):
			httputil.WriteNotFound(w, "Video not found")
		case errors.Is(err, model.ErrNotVideoOwner):
			httputil.WriteForbidden(w, "You can only delete your own videos")
		default:
			log.Printf("[ERROR] Delete video handler: user=%d video=%d err=%v", userID, videoID, err)
			httputil.WriteInternalError(w, "Failed to delete video")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, nil, "Video deleted successfully")
}

// TogglePublish handles PATCH /videos/{id}/toggle-publish
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	videoID, ok := parseIDParam(w, r, "id", "Invalid video ID")
	if !ok {
		return
	}

	video, err := h.videoService.TogglePublish(r.Context(), userID, videoID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrVideoNotFound):
			httputil.WriteNotFound(w, "Video not found")
		case errors.Is(err, model.ErrNotVideoOwner):
			httputil.WriteForbidden(w, "You can only toggle your own videos")
		default:
			log.Printf("[ERROR] TogglePublish handler: user=%d video=%d err=%v", userID, videoID, err)
			httputil.WriteInternalError(w, "Failed to toggle publish status")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, video, "Publish status toggled")
}

// parseIDParam parses a positive int64 URL parameter, writing a 400 on failure.
func parseIDParam(w http.ResponseWriter, r *http.Request, name, badRequestMsg string) (int64, bool) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		httputil.WriteBadRequest(w, badRequestMsg)
		return 0, false
	}
	return id, true
}

// parseIntDefault parses a query integer, falling back on empty or invalid.
func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
