// Package grid builds the bounded lattice that connection search runs on.
//
// A grid covers the bounding box of a route's two endpoints, expanded by
// [Margin] on every side so the search has room to detour around obstacles
// sitting near the straight line. Cells are [CellSize] units square and each
// node sits at its cell's center. A node is walkable when its center is not
// inside any obstacle, using the same containment test the smoother uses.
//
// Grids are built fresh for every search and never shared.
package grid

import (
	"errors"
	"math"

	"github.com/matzehuels/tether/pkg/geometry"
	"github.com/matzehuels/tether/pkg/obstacle"
)

const (
	// CellSize is the edge length of one grid cell.
	CellSize = 8.0

	// Margin is how far the grid extends beyond the endpoints' bounding box.
	Margin = 100.0

	// DefaultMaxCells bounds the node count of a single grid.
	DefaultMaxCells = 512 * 512
)

// ErrTooLarge is returned by [Build] when the grid would exceed its cell limit.
var ErrTooLarge = errors.New("grid exceeds maximum cell count")

// NoParent marks a node without a predecessor.
const NoParent = -1

// Node is one lattice cell. G, H and F carry search state for a single run.
type Node struct {
	X, Y     float64 // cell center
	I, J     int     // column, row
	Walkable bool

	G, H, F float64
	Parent  int
}

// Point returns the node's center.
func (n *Node) Point() geometry.Point { return geometry.Point{X: n.X, Y: n.Y} }

// Grid is a row-major lattice of nodes.
type Grid struct {
	Origin geometry.Point // top-left corner of cell (0,0)
	Cols   int
	Rows   int
	Nodes  []Node
}

type options struct {
	maxCells int
}

// Option configures [Build].
type Option func(*options)

// WithMaxCells caps the number of cells. Values <= 0 disable the cap.
func WithMaxCells(n int) Option {
	return func(o *options) { o.maxCells = n }
}

// Region returns the area a grid for start and end would cover.
func Region(start, end geometry.Point) geometry.Rect {
	return geometry.Bounding(start, end).Inset(-Margin)
}

// Size returns the column and row counts of the grid covering region.
func Size(region geometry.Rect) (cols, rows int) {
	cols = int(math.Ceil(region.Width() / CellSize))
	rows = int(math.Ceil(region.Height() / CellSize))
	return max(cols, 1), max(rows, 1)
}

// Build lays out the grid for a route from start to end.
// Obstacles outside the grid region are harmless; callers usually pass the
// result of a region query.
func Build(start, end geometry.Point, obstacles []obstacle.Obstacle, opts ...Option) (*Grid, error) {
	o := options{maxCells: DefaultMaxCells}
	for _, opt := range opts {
		opt(&o)
	}

	region := Region(start, end)
	cols, rows := Size(region)
	if o.maxCells > 0 && cols*rows > o.maxCells {
		return nil, ErrTooLarge
	}

	g := &Grid{
		Origin: geometry.Point{X: region.Left, Y: region.Top},
		Cols:   cols,
		Rows:   rows,
		Nodes:  make([]Node, cols*rows),
	}

	inf := math.Inf(1)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			c := g.center(i, j)
			g.Nodes[j*cols+i] = Node{
				X: c.X, Y: c.Y,
				I: i, J: j,
				Walkable: !obstacle.Blocked(obstacles, c),
				G:        inf,
				H:        0,
				F:        inf,
				Parent:   NoParent,
			}
		}
	}
	return g, nil
}

func (g *Grid) center(i, j int) geometry.Point {
	return geometry.Point{
		X: g.Origin.X + float64(i)*CellSize + CellSize/2,
		Y: g.Origin.Y + float64(j)*CellSize + CellSize/2,
	}
}

// Len returns the number of nodes.
func (g *Grid) Len() int { return len(g.Nodes) }

// Index returns the node id of cell (i, j), or false if it is out of bounds.
func (g *Grid) Index(i, j int) (int, bool) {
	if i < 0 || j < 0 || i >= g.Cols || j >= g.Rows {
		return 0, false
	}
	return j*g.Cols + i, true
}

// Node returns the node with the given id.
func (g *Grid) Node(id int) *Node { return &g.Nodes[id] }

// NodeAt returns the node nearest to p. It fails when p lies outside the grid
// or farther than one cell width from the nearest center.
func (g *Grid) NodeAt(p geometry.Point) (int, bool) {
	i := int(math.Round((p.X - g.Origin.X - CellSize/2) / CellSize))
	j := int(math.Round((p.Y - g.Origin.Y - CellSize/2) / CellSize))
	id, ok := g.Index(i, j)
	if !ok {
		return 0, false
	}
	if geometry.Distance(g.Nodes[id].Point(), p) > CellSize {
		return 0, false
	}
	return id, true
}

// offsets lists the 8 neighbor directions, orthogonal first.
var offsets = [8][2]int{
	{1, 0}, {0, 1}, {-1, 0}, {0, -1},
	{1, 1}, {-1, 1}, {-1, -1}, {1, -1},
}

// Neighbors appends the in-bounds neighbors of id to dst and returns it.
// Walkability is left to the caller.
func (g *Grid) Neighbors(dst []int, id int) []int {
	n := &g.Nodes[id]
	for _, d := range offsets {
		if nid, ok := g.Index(n.I+d[0], n.J+d[1]); ok {
			dst = append(dst, nid)
		}
	}
	return dst
}

// Walkable counts the walkable nodes.
func (g *Grid) Walkable() int {
	count := 0
	for i := range g.Nodes {
		if g.Nodes[i].Walkable {
			count++
		}
	}
	return count
}
