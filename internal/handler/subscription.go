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

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// Toggle handles POST /subscriptions/{channelId}
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	channelID, ok := parseIDParam(w, r, "channelId", "Invalid channel ID")
	if !ok {
		return
	}

	result, err := h.subscriptionService.Toggle(r.Context(), userID, channelID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSelfSubscription):
			httputil.WriteBadRequest(w, "You cannot subscribe to your own channel")
		case errors.Is(err, model.ErrChannelNotFound):
			httputil.WriteNotFound(w, "Channel not found")
		default:
			log.Printf("[ERROR] Toggle subscription handler: user=%d channel=%d err=%v", userID, channelID, err)
			httputil.WriteInternalError(w, "Failed to toggle subscription")
		}
		return
	}

	message := "Subscribed successfully"
	if !result.Subscribed {
		message = "Unsubscribed successfully"
	}
	httputil.WriteSuccess(w, http.StatusOK, result, message)
}

// Subscribers handles GET /channels/{id}/subscribers
func (h *SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	channelID, ok := parseIDParam(w, r, "id", "Invalid channel ID")
	if !ok {
		return
	}

	subscribers, err := h.subscriptionService.Subscribers(r.Context(), channelID)
	if err != nil {
		if errors.Is(err, model.ErrChannelNotFound) {
			httputil.WriteNotFound(w, "Channel not found")
			return
		}
		log.Printf("[ERROR] Subscribers handler: channel=%d err=%v", channelID, err)
		httputil.WriteInternalError(w, "Failed to fetch subscribers")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, subscribers, "Subscribers fetched successfully")
}

// SubscribedChannels handles GET /users/{id}/subscriptions
func (h *SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	subscriberID, ok := parseIDParam(w, r, "id", "Invalid user ID")
	if !ok {
		return
	}

	channels, err := h.subscriptionService.SubscribedChannels(r.Context(), subscriberID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] SubscribedChannels handler: user=%d err=%v", subscriberID, err)
		httputil.WriteInternalError(w, "Failed to fetch subscriptions")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, channels, "Subscriptions fetched successfully")
}
