// Package route computes obstacle-avoiding connection routes.
//
// A [Router] runs the full pipeline for one connection:
//
//  1. build a [grid.Grid] over the endpoints' bounding box plus margin,
//     using only the obstacles overlapping that region
//  2. search it with [astar.Search]
//  3. fall back to the straight segment when the search fails
//  4. string-pull the result with [smooth.Reduce]
//
// Routing never fails: every [Result] carries at least the two endpoints, and
// [Result.Outcome] tells whether the route is a real detour or a fallback.
//
//	r := route.New(route.WithLogger(logger))
//	res := r.Route(from.Anchor(geometry.SideRight), to.Anchor(geometry.SideLeft), tracker)
//	d := curve.GeneratePath(res.Waypoints, curve.Curved)
package route

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tether/pkg/astar"
	"github.com/matzehuels/tether/pkg/geometry"
	"github.com/matzehuels/tether/pkg/grid"
	"github.com/matzehuels/tether/pkg/obstacle"
	"github.com/matzehuels/tether/pkg/observability"
	"github.com/matzehuels/tether/pkg/smooth"
)

// ObstacleSet answers region queries for blocking rectangles.
// [*obstacle.Tracker] and [obstacle.List] both implement it.
type ObstacleSet interface {
	Within(region geometry.Rect) []obstacle.Obstacle
}

// Outcome describes how a route was produced.
type Outcome int

const (
	// Routed means the grid search found a path.
	Routed Outcome = iota
	// EndpointOutsideGrid means an endpoint had no grid node; the route is straight.
	EndpointOutsideGrid
	// NoPathFound means obstacles disconnect the endpoints; the route is straight.
	NoPathFound
	// GridTooLarge means the grid exceeded the cell limit; the route is straight.
	GridTooLarge
)

var outcomeNames = [...]string{
	Routed:              "routed",
	EndpointOutsideGrid: "endpoint_outside_grid",
	NoPathFound:         "no_path_found",
	GridTooLarge:        "grid_too_large",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Fallback reports whether the route is the straight-line fallback.
func (o Outcome) Fallback() bool { return o != Routed }

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Result is a computed route.
type Result struct {
	// Raw is the unsmoothed search path.
	Raw []geometry.Point

	// Waypoints is the smoothed route. It is never empty: the first point is
	// the start and the last is the end.
	Waypoints []geometry.Point

	// Cost is the grid cost of Raw; zero for fallbacks.
	Cost float64

	Outcome Outcome

	// Cells is the grid size, or zero when no grid was built.
	Cells int

	// Obstacles counts the obstacles considered for this route.
	Obstacles int
}

// Router routes connections. The zero value is not usable; call [New].
// A Router holds no per-route state and may be shared.
type Router struct {
	maxCells int
	logger   *log.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithMaxCells bounds the grid size of a single route. Values <= 0 disable
// the bound.
func WithMaxCells(n int) Option {
	return func(r *Router) { r.maxCells = n }
}

// WithLogger sets the logger outcomes are reported to at debug level.
func WithLogger(l *log.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Router.
func New(opts ...Option) *Router {
	r := &Router{
		maxCells: grid.DefaultMaxCells,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route computes the route from start to end around the obstacles in set.
// A nil set means no obstacles.
func (r *Router) Route(start, end geometry.Point, set ObstacleSet) Result {
	return r.RouteContext(context.Background(), start, end, set)
}

// RouteContext is Route with a context for observability hooks. The search
// itself is not cancellable.
func (r *Router) RouteContext(ctx context.Context, start, end geometry.Point, set ObstacleSet) Result {
	began := time.Now()

	var obstacles []obstacle.Obstacle
	if set != nil {
		obstacles = set.Within(grid.Region(start, end))
	}

	res := r.search(start, end, obstacles)
	res.Obstacles = len(obstacles)
	if res.Outcome == Routed {
		res.Waypoints = smooth.Reduce(res.Raw, obstacles)
	} else {
		res.Waypoints = []geometry.Point{start, end}
	}

	elapsed := time.Since(began)
	r.logger.Debug("routed connection",
		"from", start,
		"to", end,
		"outcome", res.Outcome,
		"cells", res.Cells,
		"obstacles", res.Obstacles,
		"raw", len(res.Raw),
		"waypoints", len(res.Waypoints),
		"duration", elapsed)
	observability.Route().OnRoute(ctx, res.Outcome.String(), res.Cells, len(res.Waypoints), elapsed)

	return res
}

func (r *Router) search(start, end geometry.Point, obstacles []obstacle.Obstacle) Result {
	g, err := grid.Build(start, end, obstacles, grid.WithMaxCells(r.maxCells))
	if err != nil {
		cols, rows := grid.Size(grid.Region(start, end))
		r.logger.Debug("grid too large, using straight line", "cols", cols, "rows", rows, "max", r.maxCells)
		return Result{Raw: []geometry.Point{start, end}, Outcome: GridTooLarge}
	}

	found := astar.Search(g, start, end)
	res := Result{Raw: found.Path, Cost: found.Cost, Cells: g.Len()}
	switch found.Reason {
	case astar.Found:
		res.Outcome = Routed
	case astar.EndpointOutsideGrid:
		res.Outcome = EndpointOutsideGrid
	default:
		res.Outcome = NoPathFound
	}
	return res
}
