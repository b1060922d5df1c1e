package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/cfischer83/inkwell/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Aside implements read-through caching: it fills dest from Redis when the
// key is present, and otherwise calls fetch (which must populate dest),
// storing the result under key with the given TTL. A nil or unreachable
// client degrades to calling fetch directly.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	prefix := keyPrefix(key)

	if client != nil {
		raw, err := client.Get(ctx, key).Result()
		if err == nil {
			if jsonErr := json.Unmarshal([]byte(raw), dest); jsonErr == nil {
				observability.CacheResults.WithLabelValues(prefix, "hit").Inc()
				return nil
			}
			// Corrupt entry, drop it and fall through to fetch.
			client.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			observability.CacheResults.WithLabelValues(prefix, "error").Inc()
		}
	}

	observability.CacheResults.WithLabelValues(prefix, "miss").Inc()

	if err := fetch(); err != nil {
		return err
	}

	if client != nil {
		if raw, jsonErr := json.Marshal(dest); jsonErr == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}

	return nil
}

func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
