package repository

import (
	"context"
	"strings"
	"time"
)

// Store is the slice of key-value store behavior this system depends on:
// set membership, hash fields, atomic increment and expiry. RedisStore is
// the primary implementation; MemoryStore is the degraded-mode fallback
// with the same semantics.
type Store interface {
	Ping(ctx context.Context) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Truthy decodes the store's boolean-like field values. The store
// round-trips booleans as strings, so both representations must decode
// identically everywhere a flag is read.
func Truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "t", "yes":
		return true
	default:
		return false
	}
}
