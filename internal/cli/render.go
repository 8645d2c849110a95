package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/pipeline"
	"github.com/matzehuels/tether/pkg/scene"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string  // output file path (or base path for multiple formats)
	formats     string  // comma-separated output formats
	style       string  // default path style for links without one
	color       string  // default stroke color
	strokeWidth float64 // default stroke width
	scale       float64 // PNG pixel density
	noCards     bool    // draw connections only
	noCache     bool    // bypass the render cache
}

// renderCommand creates the render command for drawing a scene.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Route every link of a scene and write SVG/PNG",
		Long: `Render loads a scene (TOML, JSON or DOT), routes each link around the
scene's blocking cards and writes the resulting document.

Defaults for style, color, stroke width and scale come from the config file.`,
		Example: `  tether render board.toml
  tether render board.toml -f svg,png -o out/board`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png (comma-separated)")
	cmd.Flags().StringVar(&opts.style, "style", "", "default path style: curved, orthogonal, straight")
	cmd.Flags().StringVar(&opts.color, "color", "", "default stroke color")
	cmd.Flags().Float64Var(&opts.strokeWidth, "stroke-width", 0, "default stroke width")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG pixel density")
	cmd.Flags().BoolVar(&opts.noCards, "no-cards", false, "draw connections only")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

// pipelineOptions merges flags over the config file's render section.
func (c *CLI) pipelineOptions(opts renderOpts) pipeline.Options {
	cfg := c.Config.Render
	p := pipeline.Options{
		Formats:     parseFormats(opts.formats),
		Style:       cfg.Style,
		Color:       cfg.Color,
		StrokeWidth: cfg.StrokeWidth,
		Scale:       cfg.Scale,
		NoCards:     opts.noCards,
		MaxCells:    c.Config.Engine.MaxCells,
		Logger:      c.Logger,
	}
	if opts.style != "" {
		p.Style = opts.style
	}
	if opts.color != "" {
		p.Color = opts.color
	}
	if opts.strokeWidth > 0 {
		p.StrokeWidth = opts.strokeWidth
	}
	if opts.scale > 0 {
		p.Scale = opts.scale
	}
	return p
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	popts := c.pipelineOptions(opts)
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	s, err := scene.Load(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(cmd, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Routing %d connections...", len(s.Links)))
	spinner.Start()
	result, err := runner.Execute(ctx, s, popts)
	spinner.Stop()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	prog.done("Rendered "+input, "links", result.Stats.Links, "fallbacks", result.Stats.Fallbacks, "cached", result.CacheInfo.RenderHit)

	printStats(result.Stats, result.CacheInfo.RenderHit)
	for _, format := range popts.Formats {
		path := outputPath(input, opts.output, format, len(popts.Formats))
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		printFile(path)
	}
	if result.Stats.Fallbacks > 0 {
		printWarning("%d connection(s) fell back to a straight line", result.Stats.Fallbacks)
		printNextStep("See which ones", "tether inspect "+input)
	}
	return nil
}
