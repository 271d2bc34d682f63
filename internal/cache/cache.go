// Package cache stores generated configuration summaries so repeated chat
// sessions on an unchanged module skip the LLM call.
//
// Three backends exist: an in-process map, Redis, and a no-op cache.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrz1836/customizer/internal/config"
	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// KeyPrefix namespaces every key the customizer writes.
const KeyPrefix = "customizer:"

// Cache is a string key-value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true, or "" and false on a miss.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value for ttl. A zero ttl never expires.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Close releases backend resources.
	Close() error
}

// SummaryKey builds the cache key of a configuration summary. The content
// hash invalidates the entry whenever the configuration changes.
func SummaryKey(orgKey, moduleKey, content string) string {
	sum := sha256.Sum256([]byte(content))
	return KeyPrefix + "summary:" + strings.ToLower(orgKey) + ":" + moduleKey + ":" + hex.EncodeToString(sum[:8])
}

// New builds the cache selected by cfg.Backend.
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case config.CacheBackendMemory, "":
		return NewMemory(), nil
	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		return NewRedis(client), nil
	case config.CacheBackendNone:
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", cerrors.ErrConfigInvalidCacheBackend, cfg.Backend)
	}
}

// Noop never stores anything.
type Noop struct{}

var _ Cache = Noop{}

// Get always misses.
func (Noop) Get(context.Context, string) (string, bool, error) { return "", false, nil }

// Set discards the value.
func (Noop) Set(context.Context, string, string, time.Duration) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }
