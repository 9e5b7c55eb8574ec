package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ViewCache keeps read projections in Redis as JSON, one entry per entity
// code under a fixed key prefix (e.g. "country:view:ESP"). Bind it to the
// view type T; a zero ttl keeps entries until a write invalidates them.
type ViewCache[T any] struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewViewCache[T any](client *goredis.Client, prefix string, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, prefix: prefix, ttl: ttl}
}

func (c *ViewCache[T]) key(code string) string {
	return c.prefix + code
}

// Get returns the cached view for code. A Redis error or a stale payload
// that no longer unmarshals reads as a plain miss.
func (c *ViewCache[T]) Get(ctx context.Context, code string) (*T, bool) {
	data, err := c.client.Get(ctx, c.key(code)).Result()
	if err != nil {
		return nil, false
	}
	var view T
	if err := json.Unmarshal([]byte(data), &view); err != nil {
		return nil, false
	}
	return &view, true
}

// Set stores the view under code. Cache writes are best effort; failures are
// logged and the caller proceeds on the store's answer.
func (c *ViewCache[T]) Set(ctx context.Context, code string, view *T) {
	data, err := json.Marshal(view)
	if err != nil {
		log.Printf("view cache: marshal %s: %v", c.key(code), err)
		return
	}
	if err := c.client.Set(ctx, c.key(code), data, c.ttl).Err(); err != nil {
		log.Printf("view cache: set %s: %v", c.key(code), err)
	}
}

// Delete invalidates the entry for code.
func (c *ViewCache[T]) Delete(ctx context.Context, code string) {
	if err := c.client.Del(ctx, c.key(code)).Err(); err != nil {
		log.Printf("view cache: delete %s: %v", c.key(code), err)
	}
}
