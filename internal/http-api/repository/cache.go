package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// GameCache caches serialized API responses for the hot listing and search
// queries in Redis. A nil cache (Redis unavailable or disabled) degrades to
// no-ops so the API keeps working without it.
type GameCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameCache connects to Redis and verifies the connection. redisURL uses
// the redis:// URL scheme.
func NewGameCache(redisURL, password string, ttl time.Duration) (*GameCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &GameCache{client: rdb, ttl: ttl}, nil
}

// Get unmarshals the cached value for key into dest. The bool reports a hit.
func (c *GameCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %q: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache decode %q: %w", key, err)
	}
	return true, nil
}

// Set stores value under key with the configured TTL.
func (c *GameCache) Set(ctx context.Context, key string, value interface{}) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// InvalidateGames drops every cached games listing. Called after ingestion
// finishes so readers see fresh data.
func (c *GameCache) InvalidateGames(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, "games:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache invalidate %q: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan: %w", err)
	}
	return nil
}

// ListenForInvalidations blocks on the given pub/sub channel and drops the
// cached listings whenever an ingestion event arrives. Runs until ctx is
// canceled; meant to be called in its own goroutine.
func (c *GameCache) ListenForInvalidations(ctx context.Context, channel string) {
	if c == nil || c.client == nil {
		return
	}
	sub := c.client.Subscribe(ctx, channel)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			if err := c.InvalidateGames(ctx); err != nil {
				log.Printf("[Cache] invalidation after %q event failed: %v", msg.Channel, err)
			}
		}
	}
}

// Close releases the Redis connection.
func (c *GameCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
