package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the specified stream.
	// Returns the message ID assigned by Redis.
	Publish(ctx context.Context, stream string, event VideoEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

// Publish adds an event to the stream using XADD.
// Uses "*" for auto-generated message ID (timestamp-sequence).
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event VideoEvent) (string, error) {
	startTime := time.Now()

	values, err := event.ToMap()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()

	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.Printf("[Publisher] Publish OK: stream=%s type=%s msgID=%s video=%d duration=%v",
		stream, event.Type, messageID, event.VideoID, time.Since(startTime))

	return messageID, nil
}

// PublishVideoViewed is a convenience method for publishing first-view events.
func (p *RedisPublisher) PublishVideoViewed(ctx context.Context, videoID, viewerID int64) (string, error) {
	event := NewVideoViewedEvent(videoID, viewerID)
	return p.Publish(ctx, StreamVideos, event)
}

// PublishVideoPublished is a convenience method for publishing publish events.
func (p *RedisPublisher) PublishVideoPublished(ctx context.Context, videoID, ownerID int64) (string, error) {
	event := NewVideoPublishedEvent(videoID, ownerID)
	return p.Publish(ctx, StreamVideos, event)
}

// PublishVideoDeleted is a convenience method for publishing delete events.
func (p *RedisPublisher) PublishVideoDeleted(ctx context.Context, videoID, ownerID int64) (string, error) {
	event := NewVideoDeletedEvent(videoID, ownerID)
	return p.Publish(ctx, StreamVideos, event)
}
