package cache

import (
	"context"
	"time"
)

// Cache is a small JSON key/value layer over Redis. A nil-safe no-op
// implementation backs deployments without Redis.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type noop struct{}

func Noop() Cache { return noop{} }

func (noop) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (noop) Del(context.Context, ...string) error                      { return nil }
