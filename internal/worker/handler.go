package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"vidtube/internal/cache"
	"vidtube/internal/queue"
)

// Handler processes video events from the queue and keeps the trending
// ranking current.
type Handler struct {
	trending cache.TrendingCache
}

// NewHandler creates a new event handler.
func NewHandler(trending cache.TrendingCache) *Handler {
	return &Handler{trending: trending}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.VideoEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventVideoViewed:
		err = h.handleVideoViewed(ctx, event)
	case queue.EventVideoPublished:
		err = h.handleVideoPublished(ctx, event)
	case queue.EventVideoDeleted:
		err = h.handleVideoDeleted(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleVideoViewed bumps the video's trending score for a first-time view.
func (h *Handler) handleVideoViewed(ctx context.Context, event queue.VideoEvent) error {
	log.Printf("[Worker] VideoViewed: video=%d viewer=%d", event.VideoID, event.ViewerID)

	if err := h.trending.IncrementScore(ctx, event.VideoID, cache.ViewWeight); err != nil {
		return fmt.Errorf("bump trending score: %w", err)
	}
	return nil
}

// handleVideoPublished seeds a newly public video into the trending set so it
// can surface before the first views arrive.
func (h *Handler) handleVideoPublished(ctx context.Context, event queue.VideoEvent) error {
	log.Printf("[Worker] VideoPublished: video=%d owner=%d", event.VideoID, event.OwnerID)

	if err := h.trending.IncrementScore(ctx, event.VideoID, cache.PublishWeight); err != nil {
		return fmt.Errorf("seed trending score: %w", err)
	}
	return nil
}

// handleVideoDeleted evicts the video from the trending set.
func (h *Handler) handleVideoDeleted(ctx context.Context, event queue.VideoEvent) error {
	log.Printf("[Worker] VideoDeleted: video=%d owner=%d", event.VideoID, event.OwnerID)

	if err := h.trending.Remove(ctx, event.VideoID); err != nil {
		return fmt.Errorf("evict from trending: %w", err)
	}
	return nil
}
