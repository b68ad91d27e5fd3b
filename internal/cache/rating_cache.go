package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RatingCache keeps computed title ratings in Redis so hot titles do not
// re-run the AVG query on every read. Entries are invalidated on every
// review mutation, which preserves the computed-at-read contract: the
// cache only ever holds a value the aggregation query just produced.
//
// The cache is optional; all methods are no-ops on a nil receiver or nil
// client so the service layer never has to branch on configuration.
type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRatingCache(redisURL, password string, ttl time.Duration) (*RatingCache, error) {
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

	return &RatingCache{client: rdb, ttl: ttl}, nil
}

func key(titleID int64) string {
	return fmt.Sprintf("rating:title:%d", titleID)
}

// Get returns the cached rating and whether the lookup hit. A title with
// no reviews is never cached, so a miss is also the "no data" answer.
func (c *RatingCache) Get(ctx context.Context, titleID int64) (float64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, key(titleID)).Result()
	if err != nil {
		return 0, false
	}
	rating, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return rating, true
}

func (c *RatingCache) Set(ctx context.Context, titleID int64, rating float64) {
	if c == nil || c.client == nil {
		return
	}
	// Best effort: a failed SET just means the next read recomputes.
	c.client.Set(ctx, key(titleID), strconv.FormatFloat(rating, 'f', -1, 64), c.ttl)
}

func (c *RatingCache) Invalidate(ctx context.Context, titleID int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, key(titleID))
}

func (c *RatingCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
