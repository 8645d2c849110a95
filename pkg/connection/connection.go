// Package connection owns the routed connections between cards.
//
// A [Registry] ties the engine together: it refreshes the obstacle snapshot,
// routes each connection with a [route.Router], renders the route with
// [curve.Render] and hands the caller a [Handle] to display. Handles are
// updated in place when connections are re-routed, so the caller inserts a
// handle once and re-reads it after every refresh.
//
//	reg := connection.New(obstacle.NewTracker(obstacle.Static(cards...)))
//	h := reg.Create(api, db, connection.Options{Style: curve.Orthogonal})
//	// ... cards move ...
//	reg.RefreshAll()
//	fmt.Println(h.PathData)
//
// A Registry is not safe for concurrent use. Re-routing is synchronous and
// costs one grid search per connection, so callers decide when to refresh
// (typically at the end of a drag) instead of on every pointer move.
package connection

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tether/pkg/curve"
	"github.com/matzehuels/tether/pkg/geometry"
	"github.com/matzehuels/tether/pkg/obstacle"
	"github.com/matzehuels/tether/pkg/observability"
	"github.com/matzehuels/tether/pkg/route"
)

// Defaults applied to zero-valued [Options] fields.
const (
	DefaultColor       = "#3b82f6"
	DefaultStrokeWidth = 2.0
	DefaultFromSide    = geometry.SideRight
	DefaultToSide      = geometry.SideLeft
)

// Namespace seeds connection IDs. IDs are UUIDv5 values of the endpoint
// names within this namespace, so the same pair always gets the same ID.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/tether/connection"))

// Options controls how a connection is drawn.
type Options struct {
	Style       curve.Style
	Color       string
	StrokeWidth float64

	// FromSide and ToSide pick the card edges the connection attaches to.
	FromSide geometry.Side
	ToSide   geometry.Side
}

func (o Options) withDefaults(d Options) Options {
	if o.Style == "" {
		o.Style = d.Style
	}
	if o.Color == "" {
		o.Color = d.Color
	}
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = d.StrokeWidth
	}
	if o.FromSide == "" {
		o.FromSide = d.FromSide
	}
	if o.ToSide == "" {
		o.ToSide = d.ToSide
	}
	return o
}

var builtinDefaults = Options{
	Style:       curve.DefaultStyle,
	Color:       DefaultColor,
	StrokeWidth: DefaultStrokeWidth,
	FromSide:    DefaultFromSide,
	ToSide:      DefaultToSide,
}

// Connection is a stored, routed connection.
type Connection struct {
	ID       string
	From, To geometry.BoundsProvider
	Options  Options

	// Start and End are the anchor points the last route used.
	Start, End geometry.Point

	Waypoints []geometry.Point
	Outcome   route.Outcome
	Handle    *Handle
}

// Description renders the connection's current route.
func (c *Connection) Description() curve.Description {
	return curve.Render(c.Waypoints, c.Options.Style)
}

type pair struct {
	from, to geometry.BoundsProvider
}

// Registry stores connections keyed by their (from, to) endpoint pair.
// Endpoints must be comparable; pointers are the usual choice.
type Registry struct {
	tracker  *obstacle.Tracker
	router   *route.Router
	logger   *log.Logger
	defaults Options

	conns map[pair]*Connection
	order []pair
	anon  int
}

// Option configures a Registry.
type Option func(*Registry)

// WithRouter replaces the default router.
func WithRouter(r *route.Router) Option {
	return func(reg *Registry) {
		if r != nil {
			reg.router = r
		}
	}
}

// WithLogger sets the registry logger.
func WithLogger(l *log.Logger) Option {
	return func(reg *Registry) {
		if l != nil {
			reg.logger = l
		}
	}
}

// WithDefaults overrides the defaults applied to zero-valued Options fields.
// Zero fields of d keep the built-in defaults.
func WithDefaults(d Options) Option {
	return func(reg *Registry) { reg.defaults = d.withDefaults(builtinDefaults) }
}

// New creates a registry that reads obstacles from tracker. A nil tracker
// means no obstacles.
func New(tracker *obstacle.Tracker, opts ...Option) *Registry {
	if tracker == nil {
		tracker = obstacle.NewTracker(nil)
	}
	reg := &Registry{
		tracker:  tracker,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		defaults: builtinDefaults,
		conns:    make(map[pair]*Connection),
	}
	for _, opt := range opts {
		opt(reg)
	}
	if reg.router == nil {
		reg.router = route.New(route.WithLogger(reg.logger))
	}
	return reg
}

// Create routes a connection from one card to another and returns its
// handle. Creating a pair that already exists re-routes it with the new
// options and returns the existing handle. Nil endpoints yield nil.
func (r *Registry) Create(from, to geometry.BoundsProvider, opts Options) *Handle {
	if from == nil || to == nil {
		return nil
	}
	k := pair{from, to}
	c, ok := r.conns[k]
	if !ok {
		c = &Connection{ID: r.newID(from, to), From: from, To: to}
		c.Handle = &Handle{ID: c.ID}
		r.conns[k] = c
		r.order = append(r.order, k)
	}
	c.Options = opts.withDefaults(r.defaults)

	r.tracker.Refresh()
	r.update(context.Background(), c)
	r.logger.Debug("created connection", "id", c.ID, "outcome", c.Outcome, "waypoints", len(c.Waypoints))
	return c.Handle
}

// RefreshAll re-routes every connection against a single fresh obstacle
// snapshot, in creation order, and returns the number of connections.
func (r *Registry) RefreshAll() int {
	return r.RefreshAllContext(context.Background())
}

// RefreshAllContext is RefreshAll with a context for observability hooks.
func (r *Registry) RefreshAllContext(ctx context.Context) int {
	began := time.Now()
	n := r.tracker.Refresh()
	for _, k := range r.order {
		r.update(ctx, r.conns[k])
	}
	elapsed := time.Since(began)
	r.logger.Debug("refreshed connections", "connections", len(r.order), "obstacles", n, "duration", elapsed)
	observability.Route().OnRefresh(ctx, len(r.order), n, elapsed)
	return len(r.order)
}

// UpdateOne re-routes a single connection against a fresh obstacle snapshot.
func (r *Registry) UpdateOne(from, to geometry.BoundsProvider) (*Handle, bool) {
	c, ok := r.conns[pair{from, to}]
	if !ok {
		return nil, false
	}
	r.tracker.Refresh()
	r.update(context.Background(), c)
	return c.Handle, true
}

// Remove deletes a connection. It reports whether the pair existed.
func (r *Registry) Remove(from, to geometry.BoundsProvider) bool {
	k := pair{from, to}
	if _, ok := r.conns[k]; !ok {
		return false
	}
	delete(r.conns, k)
	for i, o := range r.order {
		if o == k {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the connection for a pair.
func (r *Registry) Get(from, to geometry.BoundsProvider) (*Connection, bool) {
	c, ok := r.conns[pair{from, to}]
	return c, ok
}

// Connections returns every connection in creation order.
func (r *Registry) Connections() []*Connection {
	out := make([]*Connection, len(r.order))
	for i, k := range r.order {
		out[i] = r.conns[k]
	}
	return out
}

// Len returns the number of connections.
func (r *Registry) Len() int { return len(r.order) }

// Tracker returns the obstacle tracker the registry refreshes.
func (r *Registry) Tracker() *obstacle.Tracker { return r.tracker }

func (r *Registry) update(ctx context.Context, c *Connection) {
	c.Start = c.From.Bounds().Anchor(c.Options.FromSide)
	c.End = c.To.Bounds().Anchor(c.Options.ToSide)

	res := r.router.RouteContext(ctx, c.Start, c.End, r.tracker)
	c.Waypoints = res.Waypoints
	c.Outcome = res.Outcome
	if res.Outcome.Fallback() {
		r.logger.Debug("connection fell back to a straight line", "id", c.ID, "outcome", res.Outcome)
	}

	d := c.Description()
	h := c.Handle
	h.PathData = d.String()
	h.bounds = geometry.Bounding(d.Points()...)
	h.Style = c.Options.Style
	h.Color = c.Options.Color
	h.StrokeWidth = c.Options.StrokeWidth
	h.Start = c.Start
	h.End = c.End
}

func (r *Registry) newID(from, to geometry.BoundsProvider) string {
	fn, fok := from.(geometry.Named)
	tn, tok := to.(geometry.Named)
	var name string
	if fok && tok {
		name = fn.Name() + "->" + tn.Name()
	} else {
		r.anon++
		name = "anonymous#" + strconv.Itoa(r.anon)
	}
	return uuid.NewSHA1(Namespace, []byte(name)).String()
}
