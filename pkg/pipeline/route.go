package pipeline

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/tether/pkg/cache"
	"github.com/matzehuels/tether/pkg/curve"
	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/geometry"
	"github.com/matzehuels/tether/pkg/grid"
	"github.com/matzehuels/tether/pkg/obstacle"
	"github.com/matzehuels/tether/pkg/route"
)

// RouteRequest is a single point-to-point route.
type RouteRequest struct {
	Start     geometry.Point  `json:"start"`
	End       geometry.Point  `json:"end"`
	Obstacles []geometry.Rect `json:"obstacles,omitempty"`
	Style     string          `json:"style,omitempty"`
	MaxCells  int             `json:"max_cells,omitempty"`
}

// RouteResponse is the routed path and its rendering.
type RouteResponse struct {
	Waypoints []geometry.Point `json:"waypoints"`
	Path      string           `json:"path"`
	Outcome   string           `json:"outcome"`
	Cost      float64          `json:"cost"`
	Cells     int              `json:"cells"`
}

// Validate checks coordinates and the style, and fills in defaults.
func (req *RouteRequest) Validate() error {
	coords := []struct {
		name string
		v    float64
	}{
		{"start.x", req.Start.X}, {"start.y", req.Start.Y},
		{"end.x", req.End.X}, {"end.y", req.End.Y},
	}
	for _, c := range coords {
		if err := errors.ValidateCoordinate(c.name, c.v); err != nil {
			return err
		}
	}
	for i, o := range req.Obstacles {
		if o.Empty() {
			return errors.New(errors.ErrCodeInvalidInput, "obstacle %d is empty: %s", i, o)
		}
	}
	style, err := curve.ParseStyle(req.Style)
	if err != nil {
		return err
	}
	req.Style = string(style)
	if req.MaxCells == 0 {
		req.MaxCells = grid.DefaultMaxCells
	}
	return nil
}

// Route computes a single route, consulting the cache first. The bool
// reports a cache hit.
func (r *Runner) Route(ctx context.Context, req RouteRequest) (RouteResponse, bool, error) {
	if err := req.Validate(); err != nil {
		return RouteResponse{}, false, err
	}

	key := r.Keyer.RouteKey(routeKeyOpts(req))
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var resp RouteResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			return resp, true, nil
		}
		// Unreadable entries are recomputed.
	}

	router := route.New(route.WithMaxCells(req.MaxCells), route.WithLogger(r.Logger))
	res := router.RouteContext(ctx, req.Start, req.End, obstacle.FromRects(req.Obstacles...))
	resp := RouteResponse{
		Waypoints: res.Waypoints,
		Path:      curve.GeneratePath(res.Waypoints, curve.Style(req.Style)),
		Outcome:   res.Outcome.String(),
		Cost:      res.Cost,
		Cells:     res.Cells,
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := r.Cache.Set(ctx, key, data, TTLRoute); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		}
	}
	return resp, false, nil
}

func routeKeyOpts(req RouteRequest) cache.RouteKeyOpts {
	obstacles := make([][4]float64, len(req.Obstacles))
	for i, o := range req.Obstacles {
		obstacles[i] = [4]float64{o.Left, o.Top, o.Right, o.Bottom}
	}
	return cache.RouteKeyOpts{
		Start:     [2]float64{req.Start.X, req.Start.Y},
		End:       [2]float64{req.End.X, req.End.Y},
		Obstacles: obstacles,
		Style:     req.Style,
		MaxCells:  req.MaxCells,
	}
}
