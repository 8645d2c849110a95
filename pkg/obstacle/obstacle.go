// Package obstacle tracks the rectangles a connection must route around.
//
// A [Tracker] pulls the current bounding box of every blocking element from a
// [Source] each time [Tracker.Refresh] is called. Nothing is updated
// incrementally: cards may have moved arbitrarily between two refreshes, so
// every refresh is a full snapshot.
//
// Snapshots are indexed in an R-tree so the router can ask only for the
// obstacles overlapping the region a single route can reach:
//
//	tr := obstacle.NewTracker(obstacle.Static(cardA, cardB))
//	tr.Refresh()
//	near := tr.Within(geometry.Rect{Left: 0, Top: 0, Right: 400, Bottom: 300})
package obstacle

import (
	"slices"

	"github.com/dhconnelly/rtreego"

	"github.com/matzehuels/tether/pkg/geometry"
)

// Obstacle is a snapshot of one blocking rectangle.
type Obstacle struct {
	geometry.Rect

	// Owner is the provider the rectangle was read from, if any.
	Owner geometry.BoundsProvider
}

// Blocks reports whether p is inside the obstacle.
// Degenerate rectangles never block.
func (o Obstacle) Blocks(p geometry.Point) bool {
	return o.Rect.Contains(p)
}

// Source yields the elements currently tagged as blocking.
type Source func() []geometry.BoundsProvider

// Static returns a Source over a fixed set of providers. The providers are
// still queried for their bounds on every refresh.
func Static(providers ...geometry.BoundsProvider) Source {
	return func() []geometry.BoundsProvider { return providers }
}

// Rects returns a Source of fixed rectangles with no owner.
func Rects(rects ...geometry.Rect) Source {
	providers := make([]geometry.BoundsProvider, len(rects))
	for i, r := range rects {
		providers[i] = &geometry.Box{Rect: r}
	}
	return Static(providers...)
}

// List is a plain obstacle slice. It answers region queries by linear scan
// and is useful when no tracker is involved.
type List []Obstacle

// FromRects wraps rectangles as an obstacle List.
func FromRects(rects ...geometry.Rect) List {
	l := make(List, len(rects))
	for i, r := range rects {
		l[i] = Obstacle{Rect: r}
	}
	return l
}

// Within returns the obstacles whose interior overlaps region, in list order.
func (l List) Within(region geometry.Rect) []Obstacle {
	var out []Obstacle
	for _, o := range l {
		if !o.Empty() && o.Intersects(region) {
			out = append(out, o)
		}
	}
	return out
}

// Blocked reports whether any obstacle contains p.
func Blocked(obstacles []Obstacle, p geometry.Point) bool {
	for _, o := range obstacles {
		if o.Blocks(p) {
			return true
		}
	}
	return false
}

// Tracker owns the current obstacle snapshot.
// It is not safe for concurrent use.
type Tracker struct {
	source    Source
	obstacles []Obstacle
	tree      *rtreego.Rtree
}

// NewTracker creates a tracker reading from src. A nil src yields no obstacles.
func NewTracker(src Source) *Tracker {
	return &Tracker{source: src}
}

// Refresh replaces the snapshot with the current bounds of every element the
// source reports and returns the new obstacle count.
func (t *Tracker) Refresh() int {
	var providers []geometry.BoundsProvider
	if t.source != nil {
		providers = t.source()
	}

	t.obstacles = make([]Obstacle, 0, len(providers))
	t.tree = rtreego.NewTree(2, 25, 50)
	for _, p := range providers {
		if p == nil {
			continue
		}
		o := Obstacle{Rect: p.Bounds(), Owner: p}
		t.obstacles = append(t.obstacles, o)
		if e, ok := newEntry(len(t.obstacles)-1, o.Rect); ok {
			t.tree.Insert(e)
		}
	}
	return len(t.obstacles)
}

// Len returns the size of the current snapshot.
func (t *Tracker) Len() int { return len(t.obstacles) }

// Obstacles returns the snapshot in source order.
func (t *Tracker) Obstacles() []Obstacle {
	return slices.Clone(t.obstacles)
}

// Within returns the obstacles whose interior overlaps region, in source order.
func (t *Tracker) Within(region geometry.Rect) []Obstacle {
	if t.tree == nil || len(t.obstacles) == 0 {
		return nil
	}
	q, ok := toRTree(region)
	if !ok {
		return nil
	}

	hits := t.tree.SearchIntersect(q)
	idx := make([]int, 0, len(hits))
	for _, h := range hits {
		e := h.(*entry)
		// rtreego treats touching rectangles as intersecting.
		if t.obstacles[e.idx].Intersects(region) {
			idx = append(idx, e.idx)
		}
	}
	slices.Sort(idx)

	out := make([]Obstacle, len(idx))
	for i, n := range idx {
		out[i] = t.obstacles[n]
	}
	return out
}

// entry adapts a snapshot index to rtreego.Spatial.
type entry struct {
	idx  int
	rect rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.rect }

func newEntry(idx int, r geometry.Rect) (*entry, bool) {
	rr, ok := toRTree(r)
	if !ok {
		return nil, false
	}
	return &entry{idx: idx, rect: rr}, true
}

func toRTree(r geometry.Rect) (rtreego.Rect, bool) {
	if r.Empty() {
		return rtreego.Rect{}, false
	}
	rr, err := rtreego.NewRect(
		rtreego.Point{r.Left, r.Top},
		[]float64{r.Width(), r.Height()},
	)
	if err != nil {
		return rtreego.Rect{}, false
	}
	return rr, true
}
