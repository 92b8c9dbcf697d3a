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

type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{
		playlistService: playlistService,
	}
}

// Create handles POST /playlists
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	playlist, err := h.playlistService.Create(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrPlaylistNameEmpty) {
			httputil.WriteBadRequest(w, "Playlist name is required")
			return
		}
		log.Printf("[ERROR] Create playlist handler: user=%d err=%v", userID, err)
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, playlist, "Playlist created successfully")
}

// Get handles GET /playlists/{id}
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := parseIDParam(w, r, "id", "Invalid playlist ID")
	if !ok {
		return
	}

	var viewerID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	playlist, err := h.playlistService.Get(r.Context(), playlistID, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrPlaylistNotFound) {
			httputil.WriteNotFound(w, "Playlist not found")
			return
		}
		log.Printf("[ERROR] Get playlist handler: playlist=%d err=%v", playlistID, err)
		httputil.WriteInternalError(w, "Failed to get playlist")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, playlist, "Playlist fetched successfully")
}

// ListByUser handles GET /users/{id}/playlists
func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := parseIDParam(w, r, "id", "Invalid user ID")
	if !ok {
		return
	}

	playlists, err := h.playlistService.ListByOwner(r.Context(), ownerID)
	if err != nil {
		log.Printf("[ERROR] ListByUser playlists handler: user=%d err=%v", ownerID, err)
		httputil.WriteInternalError(w, "Failed to list playlists")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, playlists, "Playlists fetched successfully")
}

// Update handles PATCH /playlists/{id}
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	playlistID, ok := parseIDParam(w, r, "id", "Invalid playlist ID")
	if !ok {
		return
	}

	var req model.UpdatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	playlist, err := h.playlistService.Update(r.Context(), userID, playlistID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPlaylistNotFound):
			httputil.WriteNotFound(w, "Playlist not found")
		case errors.Is(err, model.ErrNotPlaylistOwner):
			httputil.WriteForbidden(w, "You can only update your own playlists")
		case errors.Is(err, model.ErrPlaylistNameEmpty):
			httputil.WriteBadRequest(w, "Playlist name is required")
		default:
			log.Printf("[ERROR] Update playlist handler: user=%d playlist=%d err=%v", userID, playlistID, err)
			httputil.WriteInternalError(w, "Failed to update playlist")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, playlist, "Playlist updated successfully")
}

// Delete handles DELETE /playlists/{id}
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	playlistID, ok := parseIDParam(w, r, "id", "Invalid playlist ID")
	if !ok {
		return
	}

	err := h.playlistService.Delete(r.Context(), userID, playlistID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPlaylistNotFound):
			httputil.WriteNotFound(w, "Playlist not found")
		case errors.Is(err, model.ErrNotPlaylistOwner):
			httputil.WriteForbidden(w, "You can only delete your own playlists")
		default:
			log.Printf("[ERROR] Delete playlist handler: user=%d playlist=%d err=%v", userID, playlistID, err)
			httputil.WriteInternalError(w, "Failed to delete playlist")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, nil, "Playlist deleted successfully")
}

// AddVideo handles POST /playlists/{id}/videos/{videoId}
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	playlistID, ok := parseIDParam(w, r, "id", "Invalid playlist ID")
	if !ok {
		return
	}
	videoID, ok := parseIDParam(w, r, "videoId", "Invalid video ID")
	if !ok {
		return
	}

	err := h.playlistService.AddVideo(r.Context(), userID, playlistID, videoID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPlaylistNotFound):
			httputil.WriteNotFound(w, "Playlist not found")
		case errors.Is(err, model.ErrNotPlaylistOwner):
			httputil.WriteForbidden(w, "You can only modify your own playlists")
		case errors.Is(err, model.ErrVideoNotFound):
			httputil.WriteNotFound(w, "Video not found")
		default:
			log.Printf("[ERROR] AddVideo handler: user=%d playlist=%d video=%d err=%v", userID, playlistID, videoID, err)
			httputil.WriteInternalError(w, "Failed to add video to playlist")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, nil, "Video added to playlist")
}

// RemoveVideo handles DELETE /playlists/{id}/videos/{videoId}
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	playlistID, ok := parseIDParam(w, r, "id", "Invalid playlist ID")
	if !ok {
		return
	}
	videoID, ok := parseIDParam(w, r, "videoId", "Invalid video ID")
	if !ok {
		return
	}

	err := h.playlistService.RemoveVideo(r.Context(), userID, playlistID, videoID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPlaylistNotFound):
			httputil.WriteNotFound(w, "Playlist not found")
		case errors.Is(err, model.ErrNotPlaylistOwner):
			httputil.WriteForbidden(w, "You can only modify your own playlists")
		case errors.Is(err, model.ErrVideoNotInPlaylist):
			httputil.WriteNotFound(w, "Video not in playlist")
		default:
			log.Printf("[ERROR] RemoveVideo handler: user=%d playlist=%d video=%d err=%v", userID, playlistID, videoID, err)
			httputil.WriteInternalError(w, "Failed to remove video from playlist")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, nil, "Video removed from playlist")
}
