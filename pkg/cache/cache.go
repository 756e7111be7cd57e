package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// defaultOperationTimeout is the timeout for individual Redis operations
	defaultOperationTimeout = 5 * time.Second

	layoutKeyPrefix = "layout:"
)

var (
	// ErrCacheMiss is returned by Get when the key is absent.
	ErrCacheMiss = errors.New("key not found")
	// ErrCacheDisabled is returned by Get when caching is turned off.
	ErrCacheDisabled = errors.New("cache disabled")
)

type Cache struct {
	client    *redis.Client
	enabled   bool
	layoutTTL time.Duration
}

func NewCache(addr string, enable bool, layoutTTL time.Duration) (*Cache, error) {
	if !enable {
		return &Cache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(client, layoutTTL), nil
}

// NewWithClient wraps an existing client, for example one pointed at a test server.
func NewWithClient(client *redis.Client, layoutTTL time.Duration) *Cache {
	if layoutTTL <= 0 {
		layoutTTL = 10 * time.Minute
	}
	return &Cache{
		client:    client,
		enabled:   client != nil,
		layoutTTL: layoutTTL,
	}
}

// Enabled reports whether the cache talks to Redis.
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// operationContext creates a context with timeout for Redis operations
func (c *Cache) operationContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, defaultOperationTimeout)
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, expiration).Err()
}

func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.Enabled() {
		return ErrCacheDisabled
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrCacheMiss
	} else if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	return c.client.Del(ctx, key).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func layoutKey(scopeID string) string {
	return layoutKeyPrefix + scopeID
}

func (c *Cache) CacheLayout(ctx context.Context, scopeID string, layout interface{}) error {
	if !c.Enabled() {
		return nil
	}
	return c.Set(ctx, layoutKey(scopeID), layout, c.layoutTTL)
}

// FillLayout stores a layout only when no entry exists for scopeID, so a
// read-through fill never replaces a document written by a newer save.
func (c *Cache) FillLayout(ctx context.Context, scopeID string, layout interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	jsonData, err := json.Marshal(layout)
	if err != nil {
		return false, err
	}
	return c.client.SetNX(ctx, layoutKey(scopeID), jsonData, c.layoutTTL).Result()
}

func (c *Cache) GetCachedLayout(ctx context.Context, scopeID string, dest interface{}) error {
	return c.Get(ctx, layoutKey(scopeID), dest)
}

func (c *Cache) InvalidateLayout(ctx context.Context, scopeID string) error {
	return c.Delete(ctx, layoutKey(scopeID))
}
