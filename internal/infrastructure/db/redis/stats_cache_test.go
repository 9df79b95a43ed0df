package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// unreachableClient points at a closed port so every command fails fast.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewStatsCache_DefaultTTL(t *testing.T) {
	c := NewStatsCache(unreachableClient(t), 0)
	if c.ttl != defaultStatsTTL {
		t.Fatalf("expected default ttl %s, got %s", defaultStatsTTL, c.ttl)
	}
}

func TestStatsCache_UnreachableIsErrorNotMiss(t *testing.T) {
	c := NewStatsCache(unreachableClient(t), time.Minute)

	stats, ok, err := c.Get(context.Background())
	if err == nil {
		t.Fatal("expected an error from an unreachable server")
	}
	if ok || stats != nil {
		t.Fatalf("expected no data, got ok=%v stats=%v", ok, stats)
	}
	if err := c.Invalidate(context.Background()); err == nil {
		t.Fatal("expected invalidate to report the failure")
	}
}
