package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tether/pkg/cache"
	"github.com/matzehuels/tether/pkg/connection"
	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/obstacle"
	"github.com/matzehuels/tether/pkg/route"
	"github.com/matzehuels/tether/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Every Execute
// builds its own registry, so one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the expiry of rendered documents. Zero means TTLRender.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Observe(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute routes every link of s and renders the requested formats.
func (r *Runner) Execute(ctx context.Context, s *scene.Scene, opts Options) (*Result, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidScene, "scene is required")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Scene:     s,
		SceneHash: s.Hash(),
		Artifacts: make(map[string][]byte),
	}
	result.Stats.Cards = len(s.Cards)
	result.Stats.Links = len(s.Links)

	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, result.SceneHash, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			r.Logger.Debug("render cache hit", "scene", result.SceneHash[:12], "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 1: Route
	routeStart := time.Now()
	conns, err := r.Connect(ctx, s, opts)
	if err != nil {
		return nil, err
	}
	result.Connections = conns
	result.Stats.RouteTime = time.Since(routeStart)
	for _, c := range conns {
		if c.Outcome.Fallback() {
			result.Stats.Fallbacks++
		}
	}

	r.Logger.Info("routed connections",
		"cards", result.Stats.Cards,
		"links", result.Stats.Links,
		"fallbacks", result.Stats.Fallbacks,
		"duration", result.Stats.RouteTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, err := Render(ctx, s, conns, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	for format, data := range artifacts {
		key := r.Keyer.RenderKey(result.SceneHash, opts.RenderKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.renderTTL()); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
		}
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Connect routes every link of s in a fresh registry and returns the
// connections in link order.
func (r *Runner) Connect(ctx context.Context, s *scene.Scene, opts Options) ([]*connection.Connection, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	router := route.New(route.WithMaxCells(opts.MaxCells), route.WithLogger(opts.Logger))
	reg := connection.New(obstacle.NewTracker(s.Source()),
		connection.WithRouter(router),
		connection.WithLogger(opts.Logger),
		connection.WithDefaults(opts.ConnectionDefaults()),
	)
	if _, err := s.Connect(reg); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "route scene")
	}
	return reg.Connections(), nil
}

func (r *Runner) cachedArtifacts(ctx context.Context, sceneHash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.RenderKey(sceneHash, opts.RenderKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) renderTTL() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return TTLRender
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
