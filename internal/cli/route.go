package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/geometry"
	"github.com/matzehuels/tether/pkg/pipeline"
)

// routeOpts holds the command-line flags for the route command.
type routeOpts struct {
	from      string
	to        string
	obstacles []string
	style     string
	maxCells  int
	asJSON    bool
	noCache   bool
}

// routeCommand creates the route command for routing a single connection.
func (c *CLI) routeCommand() *cobra.Command {
	var opts routeOpts

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Route one connection around obstacles",
		Example: `  tether route --from 0,100 --to 300,100 --obstacle 100,50,200,150
  tether route --from 0,0 --to 400,300 --style orthogonal --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(c)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			resp, hit, err := runner.Route(cmd.Context(), req)
			if err != nil {
				return err
			}
			c.Logger.Debug("route", "cached", hit, "cells", resp.Cells)

			out := cmd.OutOrStdout()
			if opts.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			printRoute(out, resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "start point as x,y")
	cmd.Flags().StringVar(&opts.to, "to", "", "end point as x,y")
	cmd.Flags().StringArrayVar(&opts.obstacles, "obstacle", nil, "obstacle as left,top,right,bottom (repeatable)")
	cmd.Flags().StringVar(&opts.style, "style", "", "path style: curved (default), orthogonal, straight")
	cmd.Flags().IntVar(&opts.maxCells, "max-cells", 0, "grid cell limit (default from config)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (o *routeOpts) request(c *CLI) (pipeline.RouteRequest, error) {
	var req pipeline.RouteRequest
	var err error
	if req.Start, err = parsePoint(o.from); err != nil {
		return req, err
	}
	if req.End, err = parsePoint(o.to); err != nil {
		return req, err
	}
	for _, s := range o.obstacles {
		r, err := parseRect(s)
		if err != nil {
			return req, err
		}
		req.Obstacles = append(req.Obstacles, r)
	}
	req.Style = o.style
	if req.Style == "" {
		req.Style = c.Config.Render.Style
	}
	req.MaxCells = o.maxCells
	if req.MaxCells == 0 {
		req.MaxCells = c.Config.Engine.MaxCells
	}
	return req, nil
}

func printRoute(w io.Writer, resp pipeline.RouteResponse) {
	fmt.Fprintf(w, "%s %s\n", StyleDim.Render("outcome"), outcomeStyle(resp.Outcome).Render(resp.Outcome))
	pts := make([]string, len(resp.Waypoints))
	for i, p := range resp.Waypoints {
		pts[i] = p.String()
	}
	fmt.Fprintf(w, "%s %s\n", StyleDim.Render("waypoints"), strings.Join(pts, " "))
	fmt.Fprintf(w, "%s %s\n", StyleDim.Render("path"), StyleValue.Render(resp.Path))
}

// parseFloats splits s on commas into exactly n finite numbers.
func parseFloats(s string, n int, what string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s %q: want %d comma-separated numbers", what, s, n)
	}
	vals := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s %q", what, s)
		}
		if err := errors.ValidateCoordinate(what, v); err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// parsePoint parses "x,y".
func parsePoint(s string) (geometry.Point, error) {
	v, err := parseFloats(s, 2, "point")
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.Pt(v[0], v[1]), nil
}

// parseRect parses "left,top,right,bottom".
func parseRect(s string) (geometry.Rect, error) {
	v, err := parseFloats(s, 4, "obstacle")
	if err != nil {
		return geometry.Rect{}, err
	}
	return geometry.Rect{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}, nil
}
