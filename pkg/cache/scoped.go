package cache

import "github.com/matzehuels/tether/pkg/config"

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance without colliding.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewKeyer returns the keyer for cfg: the default keyer, scoped by
// cfg.KeyPrefix when one is set.
func NewKeyer(cfg config.Cache) Keyer {
	if cfg.KeyPrefix == "" {
		return NewDefaultKeyer()
	}
	return NewScopedKeyer(NewDefaultKeyer(), cfg.KeyPrefix)
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RouteKey generates a prefixed route key.
func (k *ScopedKeyer) RouteKey(opts RouteKeyOpts) string {
	return k.prefix + k.inner.RouteKey(opts)
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(sceneHash, opts)
}
