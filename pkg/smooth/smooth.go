// Package smooth removes the zig-zag that 8-direction grid search leaves in a
// route.
//
// [Reduce] does greedy string pulling: from the current anchor it skips ahead
// as far as a straight segment stays clear, then continues from the last clear
// point. Clearance is checked by sampling [Samples] points along the segment
// against the same containment test the grid uses. A very thin obstacle can
// fall between two samples; that approximation is kept on purpose because it
// defines which shortcuts are taken.
package smooth

import (
	"github.com/matzehuels/tether/pkg/geometry"
	"github.com/matzehuels/tether/pkg/obstacle"
)

// Samples is the number of equally spaced points tested per segment,
// endpoints included.
const Samples = 20

// Visible reports whether the segment a→b is clear of every obstacle at all
// sample points.
func Visible(a, b geometry.Point, obstacles []obstacle.Obstacle) bool {
	for k := 0; k < Samples; k++ {
		t := float64(k) / float64(Samples-1)
		if obstacle.Blocked(obstacles, a.Lerp(b, t)) {
			return false
		}
	}
	return true
}

// Reduce returns path with every waypoint removed that a clear shortcut can
// skip. The result starts and ends with the input's endpoints and is never
// longer than path.
func Reduce(path []geometry.Point, obstacles []obstacle.Obstacle) []geometry.Point {
	n := len(path)
	if n <= 2 {
		return append([]geometry.Point(nil), path...)
	}

	out := []geometry.Point{path[0]}
	i := 0
	for i < n-1 {
		j := i + 2
		for j < n && Visible(path[i], path[j], obstacles) {
			j++
		}
		out = append(out, path[j-1])
		i = j - 1
	}
	if last := path[n-1]; out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}
