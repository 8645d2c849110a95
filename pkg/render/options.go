package render

import (
	"github.com/matzehuels/tether/pkg/connection"
	"github.com/matzehuels/tether/pkg/geometry"
	"github.com/matzehuels/tether/pkg/scene"
)

// Option configures document rendering.
type Option func(*renderer)

type renderer struct {
	cards      bool
	background string
	padding    float64
	scale      float64
}

// WithCards controls whether cards are drawn (default true).
func WithCards(show bool) Option { return func(r *renderer) { r.cards = show } }

// WithBackground sets the background fill. An empty color leaves the
// document transparent.
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

// WithPadding sets the margin around the drawing (default 24).
func WithPadding(p float64) Option {
	return func(r *renderer) {
		if p >= 0 {
			r.padding = p
		}
	}
}

// WithScale sets the PNG pixel density (default 1). SVG output ignores it.
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

func newRenderer(opts ...Option) renderer {
	r := renderer{cards: true, background: "#ffffff", padding: 24, scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// frame returns the document area: every card and every connection's control
// polygon, padded.
func (r *renderer) frame(s *scene.Scene, conns []*connection.Connection) geometry.Rect {
	var pts []geometry.Point
	if s != nil {
		for i := range s.Cards {
			b := s.Cards[i].Bounds()
			pts = append(pts, geometry.Pt(b.Left, b.Top), geometry.Pt(b.Right, b.Bottom))
		}
	}
	for _, c := range conns {
		pts = append(pts, c.Waypoints...)
		pts = append(pts, c.Description().Points()...)
	}
	if len(pts) == 0 {
		return geometry.Rect{Right: 2 * r.padding, Bottom: 2 * r.padding}
	}
	return geometry.Bounding(pts...).Inset(-r.padding)
}
