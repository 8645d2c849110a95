// Package astar finds least-cost routes over a [grid.Grid].
//
// The search is 8-connected: four orthogonal and four diagonal neighbors,
// each costed by the Euclidean distance between cell centers. The octile
// heuristic is admissible for that cost model, so a returned route is optimal
// over the grid, though not over the continuous plane.
//
// Failures never surface as errors. When an endpoint has no grid node, or the
// open set runs dry, [Search] returns the straight line from start to end and
// reports why in [Result.Reason].
package astar

import (
	"container/heap"

	"github.com/matzehuels/tether/pkg/geometry"
	"github.com/matzehuels/tether/pkg/grid"
)

// Reason explains how a search ended.
type Reason int

const (
	// Found means a grid route was found.
	Found Reason = iota
	// EndpointOutsideGrid means start or end has no grid node.
	EndpointOutsideGrid
	// NoPathFound means the goal is unreachable over walkable cells.
	NoPathFound
)

func (r Reason) String() string {
	switch r {
	case Found:
		return "found"
	case EndpointOutsideGrid:
		return "endpoint_outside_grid"
	case NoPathFound:
		return "no_path_found"
	default:
		return "unknown"
	}
}

// Result is the outcome of one search.
type Result struct {
	// Path runs from start to end. Interior points are cell centers; the
	// first and last are the exact endpoints passed to Search.
	Path []geometry.Point

	// Cost is the grid cost of the route between the start and goal cell
	// centers. It is zero for fallbacks.
	Cost float64

	Reason Reason

	// Expanded counts nodes moved to the closed set.
	Expanded int
}

// Straight returns the fallback result for reason.
func Straight(start, end geometry.Point, reason Reason) Result {
	return Result{Path: []geometry.Point{start, end}, Reason: reason}
}

// Search runs A* on g from start to end. g's node state is consumed; build a
// fresh grid for every search.
func Search(g *grid.Grid, start, end geometry.Point) Result {
	s, ok := g.NodeAt(start)
	if !ok {
		return Straight(start, end, EndpointOutsideGrid)
	}
	goal, ok := g.NodeAt(end)
	if !ok {
		return Straight(start, end, EndpointOutsideGrid)
	}
	if s == goal {
		return Result{Path: []geometry.Point{start, end}, Reason: Found}
	}

	target := g.Node(goal).Point()
	closed := make([]bool, g.Len())
	open := newOpenSet(g)

	sn := g.Node(s)
	sn.G = 0
	sn.H = geometry.Octile(sn.Point(), target)
	sn.F = sn.H
	heap.Push(open, s)

	expanded := 0
	neighbors := make([]int, 0, 8)
	for open.Len() > 0 {
		cur := heap.Pop(open).(int)
		if cur == goal {
			return Result{
				Path:     reconstruct(g, goal, start, end),
				Cost:     g.Node(goal).G,
				Reason:   Found,
				Expanded: expanded,
			}
		}
		closed[cur] = true
		expanded++

		cn := g.Node(cur)
		neighbors = g.Neighbors(neighbors[:0], cur)
		for _, nid := range neighbors {
			if closed[nid] || !passable(g, nid, goal) {
				continue
			}
			nn := g.Node(nid)
			tentative := cn.G + geometry.Distance(cn.Point(), nn.Point())
			if nn.G <= tentative {
				continue
			}
			nn.Parent = cur
			nn.G = tentative
			nn.H = geometry.Octile(nn.Point(), target)
			nn.F = nn.G + nn.H
			if open.contains(nid) {
				heap.Fix(open, open.pos[nid])
			} else {
				heap.Push(open, nid)
			}
		}
	}
	return Straight(start, end, NoPathFound)
}

// passable reports whether the search may enter next. The goal is accepted
// even when its center is blocked, since anchors sit on card edges.
func passable(g *grid.Grid, next, goal int) bool {
	return g.Node(next).Walkable || next == goal
}

// reconstruct walks parent links back from goal and pins the endpoints.
func reconstruct(g *grid.Grid, goal int, start, end geometry.Point) []geometry.Point {
	var path []geometry.Point
	for id := goal; id != grid.NoParent; id = g.Node(id).Parent {
		path = append(path, g.Node(id).Point())
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	path[0] = start
	path[len(path)-1] = end
	return path
}
