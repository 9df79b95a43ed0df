package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/videocatalog/video-metadata-service/internal/api/metrics"
	"github.com/videocatalog/video-metadata-service/internal/core/domain"
	"github.com/videocatalog/video-metadata-service/internal/core/ports"
)

const (
	statsKey        = "videos:stats"
	defaultStatsTTL = 5 * time.Minute
)

var _ ports.StatsCache = (*StatsCache)(nil)

// StatsCache keeps the per-source video statistics in a single Redis key.
// Writes to the catalog delete the key; the next read repopulates it.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a StatsCache. A non-positive ttl uses the default.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) Get(ctx context.Context) ([]domain.VideoStats, bool, error) {
	start := time.Now()
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	metrics.StatsCacheDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())

	if errors.Is(err, redis.Nil) {
		metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.StatsCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("stats cache get: %w", err)
	}

	var stats []domain.VideoStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		metrics.StatsCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("stats cache decode: %w", err)
	}
	metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
	return stats, true, nil
}

func (c *StatsCache) Set(ctx context.Context, stats []domain.VideoStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}

	start := time.Now()
	err = c.client.Set(ctx, statsKey, raw, c.ttl).Err()
	metrics.StatsCacheDuration.WithLabelValues("set").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("stats cache set: %w", err)
	}
	return nil
}

func (c *StatsCache) Invalidate(ctx context.Context) error {
	start := time.Now()
	err := c.client.Del(ctx, statsKey).Err()
	metrics.StatsCacheDuration.WithLabelValues("invalidate").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("stats cache invalidate: %w", err)
	}
	return nil
}
