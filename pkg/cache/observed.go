package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/tether/pkg/observability"
)

// observed reports hits, misses and writes to the registered cache hooks.
type observed struct {
	Cache
}

// Observe wraps c so every Get and Set is reported to observability.Cache().
// The key type is the key's prefix up to the first colon.
func Observe(c Cache) Cache {
	if _, ok := c.(*observed); ok {
		return c
	}
	return &observed{Cache: c}
}

func (o *observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

func (o *observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

func keyType(key string) string {
	// Scoped keys carry their scope first; the type is the segment before the hash.
	if i := strings.LastIndexByte(key, ':'); i >= 0 {
		key = key[:i]
	}
	if i := strings.LastIndexByte(key, ':'); i >= 0 {
		key = key[i+1:]
	}
	return key
}
