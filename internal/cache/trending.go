package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// TrendingKey is the sorted set holding video ids scored by recent activity.
	TrendingKey = "trending:videos"

	// TrendingCap is the maximum number of videos kept in the trending set.
	TrendingCap = 200

	// TrendingTTL expires the set so stale scores decay when traffic stops.
	TrendingTTL = 48 * time.Hour

	// Score weights per activity kind.
	ViewWeight    = 1.0
	PublishWeight = 5.0
)

// TrendingCache ranks videos by recent activity using a Redis sorted set.
// The worker feeds it from the video event stream; read paths only query it.
type TrendingCache interface {
	// IncrementScore bumps a video's trending score by delta.
	// Pipeline: ZINCRBY + ZREMRANGEBYRANK (maintain cap) + EXPIRE (refresh TTL)
	IncrementScore(ctx context.Context, videoID int64, delta float64) error

	// Remove drops a video from the trending set.
	Remove(ctx context.Context, videoID int64) error

	// Top returns the highest scored video ids, best first.
	Top(ctx context.Context, limit int) (videoIDs []int64, scores []float64, err error)

	// Size returns the number of videos currently ranked.
	Size(ctx context.Context) (int64, error)
}

// RedisTrendingCache implements TrendingCache on a Redis sorted set.
type RedisTrendingCache struct {
	client *redis.Client
}

// NewTrendingCache creates a TrendingCache backed by Redis.
func NewTrendingCache(client *redis.Client) TrendingCache {
	return &RedisTrendingCache{client: client}
}

func (c *RedisTrendingCache) IncrementScore(ctx context.Context, videoID int64, delta float64) error {
	startTime := time.Now()
	member := strconv.FormatInt(videoID, 10)

	pipe := c.client.Pipeline()
	pipe.ZIncrBy(ctx, TrendingKey, delta, member)
	// ZREMRANGEBYRANK removes [start, stop] inclusive, rank 0 is the lowest
	// score. Keep the top TrendingCap, drop the rest.
	pipe.ZRemRangeByRank(ctx, TrendingKey, 0, int64(-TrendingCap-1))
	pipe.Expire(ctx, TrendingKey, TrendingTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[TrendingCache] IncrementScore FAILED: video=%d delta=%.1f err=%v", videoID, delta, err)
		return fmt.Errorf("increment trending score: %w", err)
	}

	log.Printf("[TrendingCache] IncrementScore OK: video=%d delta=%.1f duration=%v",
		videoID, delta, time.Since(startTime))
	return nil
}

func (c *RedisTrendingCache) Remove(ctx context.Context, videoID int64) error {
	member := strconv.FormatInt(videoID, 10)

	removed, err := c.client.ZRem(ctx, TrendingKey, member).Result()
	if err != nil {
		log.Printf("[TrendingCache] Remove FAILED: video=%d err=%v", videoID, err)
		return fmt.Errorf("remove from trending: %w", err)
	}

	log.Printf("[TrendingCache] Remove OK: video=%d removed=%d", videoID, removed)
	return nil
}

func (c *RedisTrendingCache) Top(ctx context.Context, limit int) ([]int64, []float64, error) {
	startTime := time.Now()

	results, err := c.client.ZRevRangeWithScores(ctx, TrendingKey, 0, int64(limit-1)).Result()
	if err != nil {
		log.Printf("[TrendingCache] Top FAILED: limit=%d err=%v", limit, err)
		return nil, nil, fmt.Errorf("get trending: %w", err)
	}

	videoIDs := make([]int64, len(results))
	scores := make([]float64, len(results))
	for i, z := range results {
		id, err := strconv.ParseInt(z.Member.(string), 10, 64)
		if err != nil {
			log.Printf("[TrendingCache] Top parse error: member=%v err=%v", z.Member, err)
			return nil, nil, fmt.Errorf("parse video id: %w", err)
		}
		videoIDs[i] = id
		scores[i] = z.Score
	}

	log.Printf("[TrendingCache] Top OK: limit=%d returned=%d duration=%v",
		limit, len(videoIDs), time.Since(startTime))
	return videoIDs, scores, nil
}

func (c *RedisTrendingCache) Size(ctx context.Context) (int64, error) {
	size, err := c.client.ZCard(ctx, TrendingKey).Result()
	if err != nil {
		log.Printf("[TrendingCache] Size FAILED: err=%v", err)
		return 0, fmt.Errorf("get trending size: %w", err)
	}
	return size, nil
}
