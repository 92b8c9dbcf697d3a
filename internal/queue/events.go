package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the video stream
const (
	EventVideoViewed    = "video_viewed"
	EventVideoPublished = "video_published"
	EventVideoDeleted   = "video_deleted"
)

// Stream names
const (
	StreamVideos = "stream:videos"
)

// Consumer group name for trending workers
const (
	ConsumerGroupTrending = "trending_workers"
)

// VideoEvent represents an event published to the video stream.
// All video lifecycle events share this structure.
type VideoEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	VideoID int64 `json:"video_id"`
	OwnerID int64 `json:"owner_id,omitempty"`

	// View event only: who watched
	ViewerID int64 `json:"viewer_id,omitempty"`
}

// NewVideoViewedEvent creates an event for a first-time view of a video.
// Worker will bump the video's trending score.
func NewVideoViewedEvent(videoID, viewerID int64) VideoEvent {
	return VideoEvent{
		Type:      EventVideoViewed,
		Timestamp: time.Now().Unix(),
		VideoID:   videoID,
		ViewerID:  viewerID,
	}
}

// NewVideoPublishedEvent creates an event for a video going public.
// Worker will seed the video into the trending set.
func NewVideoPublishedEvent(videoID, ownerID int64) VideoEvent {
	return VideoEvent{
		Type:      EventVideoPublished,
		Timestamp: time.Now().Unix(),
		VideoID:   videoID,
		OwnerID:   ownerID,
	}
}

// NewVideoDeletedEvent creates an event for a video being removed.
// Worker will evict the video from the trending set.
func NewVideoDeletedEvent(videoID, ownerID int64) VideoEvent {
	return VideoEvent{
		Type:      EventVideoDeleted,
		Timestamp: time.Now().Unix(),
		VideoID:   videoID,
		OwnerID:   ownerID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so the event is serialized to JSON
// in a "data" field.
func (e VideoEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseVideoEvent parses a VideoEvent from Redis stream message values.
func ParseVideoEvent(values map[string]interface{}) (VideoEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return VideoEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event VideoEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return VideoEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
