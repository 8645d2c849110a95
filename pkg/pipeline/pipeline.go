// Package pipeline runs scenes through the routing engine and the document
// renderers.
//
// CLI and HTTP entry points share this package so caching and defaults are
// applied the same way everywhere.
//
// # Stages
//
//  1. Route: every link of the scene becomes a connection in a fresh
//     [connection.Registry] backed by the scene's blocking cards.
//  2. Render: the routed connections are drawn as SVG and/or PNG.
//
// Rendered documents are cached under a key derived from the scene hash and
// the render options, so a cache hit skips routing entirely.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, s, pipeline.Options{Formats: []string{"svg"}})
//	svg := result.Artifacts["svg"]
//
// Single routes (the HTTP /route endpoint and `tether route`) go through
// [Runner.Route], cached by their inputs.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tether/pkg/cache"
	"github.com/matzehuels/tether/pkg/connection"
	"github.com/matzehuels/tether/pkg/curve"
	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/grid"
	"github.com/matzehuels/tether/pkg/scene"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Cache lifetimes.
const (
	TTLRoute  = 7 * 24 * time.Hour
	TTLRender = 24 * time.Hour
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
}

// Options configures a pipeline run. Zero values take the defaults of
// [connection.Options] and [grid.DefaultMaxCells].
type Options struct {
	Formats []string `json:"formats,omitempty"`

	// Connection defaults for links that do not set their own.
	Style       string  `json:"style,omitempty"`
	Color       string  `json:"color,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`

	Scale   float64 `json:"scale,omitempty"`
	NoCards bool    `json:"no_cards,omitempty"`

	MaxCells int  `json:"max_cells,omitempty"`
	Refresh  bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Scene     *scene.Scene
	SceneHash string

	// Connections is nil when every artifact came from the cache.
	Connections []*connection.Connection

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Cards      int
	Links      int
	Fallbacks  int
	RouteTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be svg or png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	style, err := curve.ParseStyle(o.Style)
	if err != nil {
		return err
	}
	o.Style = string(style)
	if o.Color == "" {
		o.Color = connection.DefaultColor
	}
	if err := errors.ValidateColor(o.Color); err != nil {
		return err
	}
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = connection.DefaultStrokeWidth
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.MaxCells == 0 {
		o.MaxCells = grid.DefaultMaxCells
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ConnectionDefaults returns the registry defaults the options describe.
func (o *Options) ConnectionDefaults() connection.Options {
	return connection.Options{
		Style:       curve.Style(o.Style),
		Color:       o.Color,
		StrokeWidth: o.StrokeWidth,
		FromSide:    connection.DefaultFromSide,
		ToSide:      connection.DefaultToSide,
	}
}

// RenderKeyOpts returns cache key options for one rendered format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format:      format,
		Style:       o.Style,
		Color:       o.Color,
		StrokeWidth: o.StrokeWidth,
		Scale:       o.Scale,
		Cards:       !o.NoCards,
		MaxCells:    o.MaxCells,
	}
}
