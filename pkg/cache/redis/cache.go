// Package redis shares the dashboard's loaded chat logs between API
// replicas through Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
	"github.com/papercomputeco/kiosk/pkg/deck"
)

// Cache implements deck.LogCache on a Redis client.
type Cache struct {
	redis  *redis.Client
	prefix string
}

// Ensure Cache implements deck.LogCache
var _ deck.LogCache = (*Cache)(nil)

// NewCache wraps an existing client. prefix namespaces every key.
func NewCache(client *redis.Client, prefix string) *Cache {
	return &Cache{redis: client, prefix: prefix}
}

// Dial connects to addr and verifies the server answers.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

// Get returns the cached logs for key. A missing key is not an error.
func (c *Cache) Get(ctx context.Context, key string) ([]chatlog.ChatLog, bool, error) {
	data, err := c.redis.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}

	var logs []chatlog.ChatLog
	if err := json.Unmarshal(data, &logs); err != nil {
		return nil, false, fmt.Errorf("decode cached logs: %w", err)
	}
	return logs, true, nil
}

// Set stores logs under key for ttl.
func (c *Cache) Set(ctx context.Context, key string, logs []chatlog.ChatLog, ttl time.Duration) error {
	data, err := json.Marshal(logs)
	if err != nil {
		return fmt.Errorf("encode logs: %w", err)
	}
	if err := c.redis.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Invalidate removes key so the next dashboard load reads storage.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.redis.Del(ctx, c.key(key)).Err()
}

func (c *Cache) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}
