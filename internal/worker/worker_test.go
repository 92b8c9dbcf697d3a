package worker_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"vidtube/internal/cache"
	"vidtube/internal/queue"
	"vidtube/internal/worker"
)

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestRedis(t *testing.T) *redis.Client {
	// Connect to local Redis (adjust URL if needed)
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}

	// Use DB 1 for testing to avoid conflicts with dev data
	opts.DB = 1

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}

	// Clean up test database
	client.FlushDB(ctx)

	return client
}

func cleanupTestRedis(client *redis.Client) {
	ctx := context.Background()
	client.FlushDB(ctx)
	client.Close()
}

func scoreOf(t *testing.T, trending cache.TrendingCache, videoID int64) (float64, bool) {
	t.Helper()
	ids, scores, err := trending.Top(context.Background(), int(cache.TrendingCap))
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	for i, id := range ids {
		if id == videoID {
			return scores[i], true
		}
	}
	return 0, false
}

// =============================================================================
// Handler Tests
// =============================================================================

func TestVideoViewedBumpsScore(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	trending := cache.NewTrendingCache(client)
	handler := worker.NewHandler(trending)

	videoID := int64(100)
	viewerID := int64(5)

	// Three distinct first views arrive for the same video
	for i := 0; i < 3; i++ {
		event := queue.NewVideoViewedEvent(videoID, viewerID+int64(i))
		if err := handler.HandleEvent(ctx, event); err != nil {
			t.Fatalf("HandleEvent failed: %v", err)
		}
	}

	score, found := scoreOf(t, trending, videoID)
	if !found {
		t.Fatalf("video %d not in trending set", videoID)
	}
	if want := 3 * cache.ViewWeight; score != want {
		t.Errorf("score = %v, want %v", score, want)
	}
}

func TestVideoPublishedSeedsScore(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	trending := cache.NewTrendingCache(client)
	handler := worker.NewHandler(trending)

	videoID := int64(200)
	event := queue.NewVideoPublishedEvent(videoID, 1)
	if err := handler.HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	// A fresh publish outranks a single view
	score, found := scoreOf(t, trending, videoID)
	if !found {
		t.Fatalf("video %d not in trending set", videoID)
	}
	if score != cache.PublishWeight {
		t.Errorf("score = %v, want %v", score, cache.PublishWeight)
	}
}

func TestVideoDeletedEvicts(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	trending := cache.NewTrendingCache(client)
	handler := worker.NewHandler(trending)

	videoID := int64(300)
	if err := trending.IncrementScore(ctx, videoID, cache.PublishWeight); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if _, found := scoreOf(t, trending, videoID); !found {
		t.Fatal("Setup failed: video not in trending set")
	}

	event := queue.NewVideoDeletedEvent(videoID, 1)
	if err := handler.HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if _, found := scoreOf(t, trending, videoID); found {
		t.Errorf("video %d should have been evicted from trending", videoID)
	}

	size, _ := trending.Size(ctx)
	if size != 0 {
		t.Errorf("trending size = %d, want 0", size)
	}
}

func TestUnknownEventRejected(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	handler := worker.NewHandler(cache.NewTrendingCache(client))

	err := handler.HandleEvent(context.Background(), queue.VideoEvent{Type: "video_transcoded"})
	if err == nil {
		t.Error("expected error for unknown event type")
	}
}

// =============================================================================
// End-to-End Pipeline Test
// =============================================================================

// TestManagerProcessesStream publishes events through the real Redis Stream
// and verifies the worker pool lands them in the trending ranking.
func TestManagerProcessesStream(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	trending := cache.NewTrendingCache(client)
	publisher := queue.NewPublisher(client)
	consumer := queue.NewConsumer(client)

	manager := worker.NewManager(consumer, worker.NewHandler(trending), worker.ManagerConfig{
		WorkerCount:  2,
		BatchSize:    5,
		BlockTimeout: 200 * time.Millisecond,
	})
	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer manager.Stop()

	videoA := int64(1)
	videoB := int64(2)

	events := []queue.VideoEvent{
		queue.NewVideoPublishedEvent(videoA, 10),
		queue.NewVideoViewedEvent(videoA, 20),
		queue.NewVideoViewedEvent(videoA, 21),
		queue.NewVideoPublishedEvent(videoB, 11),
	}
	for _, event := range events {
		if _, err := publisher.Publish(ctx, queue.StreamVideos, event); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}

	// Wait for the workers to drain the stream
	deadline := time.Now().Add(5 * time.Second)
	wantA := cache.PublishWeight + 2*cache.ViewWeight
	for time.Now().Before(deadline) {
		if score, found := scoreOf(t, trending, videoA); found && score == wantA {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	scoreA, foundA := scoreOf(t, trending, videoA)
	if !foundA || scoreA != wantA {
		t.Errorf("video A score = %v (found=%v), want %v", scoreA, foundA, wantA)
	}
	scoreB, foundB := scoreOf(t, trending, videoB)
	if !foundB || scoreB != cache.PublishWeight {
		t.Errorf("video B score = %v (found=%v), want %v", scoreB, foundB, cache.PublishWeight)
	}

	// Best first: video A has more engagement than video B
	ids, _, err := trending.Top(ctx, 10)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != videoA || ids[1] != videoB {
		t.Errorf("ranking = %v, want [1 2]", ids)
	}
}

// =============================================================================
// Malformed Message Handling
// =============================================================================

// A stream entry the consumer cannot parse must be acked and dropped, not
// left on the pending list to be re-delivered after every restart.
func TestMalformedEntriesAcked(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	consumer := queue.NewConsumer(client)
	if err := consumer.EnsureGroup(ctx, queue.StreamVideos, queue.ConsumerGroupTrending); err != nil {
		t.Fatalf("EnsureGroup failed: %v", err)
	}

	// One entry with a body no worker will ever be able to decode
	if err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: queue.StreamVideos,
		Values: map[string]interface{}{"data": "not-json"},
	}).Err(); err != nil {
		t.Fatalf("XAdd failed: %v", err)
	}

	publisher := queue.NewPublisher(client)
	if _, err := publisher.Publish(ctx, queue.StreamVideos, queue.NewVideoViewedEvent(1, 2)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	messages, err := consumer.Read(ctx, queue.StreamVideos, queue.ConsumerGroupTrending, "worker-test", 10, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1 (malformed entry dropped)", len(messages))
	}
	if messages[0].Event.Type != queue.EventVideoViewed {
		t.Errorf("event type = %s, want %s", messages[0].Event.Type, queue.EventVideoViewed)
	}

	// Only the valid message may remain pending; the junk one is acked already
	pending, err := consumer.Pending(ctx, queue.StreamVideos, queue.ConsumerGroupTrending)
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if pending != 1 {
		t.Errorf("pending = %d, want 1", pending)
	}
}
