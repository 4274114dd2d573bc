// Package cache holds ReportCache implementations.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Maxx-Protein/compliance-companion/internal/config"
	"github.com/Maxx-Protein/compliance-companion/internal/port"
	"github.com/Maxx-Protein/compliance-companion/internal/report"
)

type redisReportCache struct {
	client *redis.Client
	prefix string
}

// NewRedisClient creates a go-redis client from the cache config. Addresses
// given as redis:// URLs are parsed with their credentials.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		opts, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), nil
}

// NewRedisReportCache creates a Redis-backed ReportCache storing summaries as
// JSON under prefix.
func NewRedisReportCache(client *redis.Client, prefix string) port.ReportCache {
	return &redisReportCache{client: client, prefix: prefix}
}

func (c *redisReportCache) Get(ctx context.Context, key string) (*report.Summary, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+":"+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redisReportCache.Get: %w", err)
	}

	var s report.Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false, fmt.Errorf("redisReportCache.Get decode: %w", err)
	}
	return &s, true, nil
}

func (c *redisReportCache) Set(ctx context.Context, key string, summary *report.Summary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("redisReportCache.Set encode: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+":"+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redisReportCache.Set: %w", err)
	}
	return nil
}
