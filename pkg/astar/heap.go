package astar

import "github.com/matzehuels/tether/pkg/grid"

// openSet is a binary heap of node ids ordered by F, then H, then id.
// pos tracks each node's heap slot so improved nodes can be fixed in place.
type openSet struct {
	g   *grid.Grid
	ids []int
	pos []int
}

func newOpenSet(g *grid.Grid) *openSet {
	pos := make([]int, g.Len())
	for i := range pos {
		pos[i] = -1
	}
	return &openSet{g: g, pos: pos}
}

func (o *openSet) contains(id int) bool { return o.pos[id] >= 0 }

func (o *openSet) Len() int { return len(o.ids) }

func (o *openSet) Less(i, j int) bool {
	a, b := o.g.Node(o.ids[i]), o.g.Node(o.ids[j])
	if a.F != b.F {
		return a.F < b.F
	}
	if a.H != b.H {
		return a.H < b.H
	}
	return o.ids[i] < o.ids[j]
}

func (o *openSet) Swap(i, j int) {
	o.ids[i], o.ids[j] = o.ids[j], o.ids[i]
	o.pos[o.ids[i]] = i
	o.pos[o.ids[j]] = j
}

func (o *openSet) Push(x any) {
	id := x.(int)
	o.pos[id] = len(o.ids)
	o.ids = append(o.ids, id)
}

func (o *openSet) Pop() any {
	n := len(o.ids)
	id := o.ids[n-1]
	o.ids = o.ids[:n-1]
	o.pos[id] = -1
	return id
}
