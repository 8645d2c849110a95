package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/tether/pkg/connection"
	"github.com/matzehuels/tether/pkg/observability"
	"github.com/matzehuels/tether/pkg/render"
	"github.com/matzehuels/tether/pkg/scene"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, s *scene.Scene, conns []*connection.Connection, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	renderOpts := []render.Option{
		render.WithCards(!opts.NoCards),
		render.WithScale(opts.Scale),
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		start := time.Now()
		observability.Render().OnRenderStart(ctx, format)

		var data []byte
		var err error
		switch format {
		case FormatSVG:
			data = render.SVG(s, conns, renderOpts...)
		case FormatPNG:
			data, err = render.PNG(s, conns, renderOpts...)
		}

		observability.Render().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
