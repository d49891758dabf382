package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/jask/sitepatrol/internal/patrol"
)

// SiteCache is a read-through cache of site aggregates in Redis.
type SiteCache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*SiteCache)

// WithTTL sets the expiration of cached aggregates. Zero means no expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *SiteCache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *SiteCache) {
		c.prefix = prefix
	}
}

// New connects to Redis at address.
func New(address, password string, db int, opts ...Option) *SiteCache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *SiteCache {
	c := &SiteCache{
		client: client,
		prefix: "sitepatrol:site:",
		ttl:    5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *SiteCache) key(siteID string) string {
	return c.prefix + siteID
}

// Get returns the cached aggregate and whether it was present.
func (c *SiteCache) Get(ctx context.Context, siteID string) (patrol.SiteAggregate, bool, error) {
	data, err := c.client.Get(ctx, c.key(siteID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return patrol.SiteAggregate{}, false, nil
		}
		return patrol.SiteAggregate{}, false, fmt.Errorf("cache get: %w", err)
	}
	var agg patrol.SiteAggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		return patrol.SiteAggregate{}, false, fmt.Errorf("cache decode: %w", err)
	}
	return agg, true, nil
}

func (c *SiteCache) Put(ctx context.Context, agg patrol.SiteAggregate) error {
	data, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(agg.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached aggregate for siteID.
func (c *SiteCache) Invalidate(ctx context.Context, siteID string) error {
	if err := c.client.Del(ctx, c.key(siteID)).Err(); err != nil {
		return fmt.Errorf("cache del: %w", err)
	}
	return nil
}

// Flush drops every aggregate under the cache prefix and reports how many
// keys were removed.
func (c *SiteCache) Flush(ctx context.Context) (int64, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("cache scan: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := c.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("cache del: %w", err)
	}
	return n, nil
}

func (c *SiteCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *SiteCache) Close() error {
	return c.client.Close()
}
