// Package cache stores rendered routing artifacts.
//
// The HTTP service and the render command compute the same routes and
// documents repeatedly for unchanged scenes. A [Cache] keeps the encoded
// results keyed by a hash of everything that influences them, so an
// unchanged request is answered without touching the engine.
//
// Three backends are provided:
//
//   - [NullCache] stores nothing (caching disabled)
//   - [FileCache] stores entries under a local directory (CLI)
//   - [RedisCache] stores entries in Redis (shared service deployments)
//
// [New] selects one from a [config.Cache].
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/tether/pkg/config"
	"github.com/matzehuels/tether/pkg/errors"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// New returns the backend named by cfg.Backend.
func New(ctx context.Context, cfg config.Cache) (Cache, error) {
	switch cfg.Backend {
	case config.BackendNone, "":
		return NewNullCache(), nil
	case config.BackendFile:
		if cfg.Dir == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "file cache requires a directory")
		}
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "open file cache %s", cfg.Dir)
		}
		return c, nil
	case config.BackendRedis:
		c, err := NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "connect redis %s", cfg.RedisAddr)
		}
		return c, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Backend)
	}
}

// Key types reported to observability hooks.
const (
	KeyTypeRoute  = "route"
	KeyTypeRender = "render"
)

// Keyer generates cache keys for routing artifacts.
type Keyer interface {
	// RouteKey identifies a single routed connection.
	RouteKey(opts RouteKeyOpts) string

	// RenderKey identifies a rendered scene document.
	RenderKey(sceneHash string, opts RenderKeyOpts) string
}

// RouteKeyOpts holds every input of a single route request.
type RouteKeyOpts struct {
	Start     [2]float64
	End       [2]float64
	Obstacles [][4]float64
	Style     string
	MaxCells  int
}

// RenderKeyOpts holds the options that change a rendered document.
type RenderKeyOpts struct {
	Format      string
	Style       string
	Color       string
	StrokeWidth float64
	Scale       float64
	Cards       bool
	MaxCells    int
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RouteKey implements Keyer.
func (DefaultKeyer) RouteKey(opts RouteKeyOpts) string {
	return Key(KeyTypeRoute, opts)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return Key(KeyTypeRender, sceneHash, opts)
}
