// Package curve turns routed waypoints into vector path descriptions.
//
// # Styles
//
// Three styles are supported:
//
//   - [Straight]: a polyline through every waypoint.
//   - [Orthogonal]: one axis-aligned elbow per waypoint pair. The longer axis
//     of each pair is travelled first.
//   - [Curved] (default): cubic Bezier segments. A two-point route becomes a
//     flat S-curve; longer routes pass smoothly through every waypoint.
//
// # Output
//
// A [Description] renders to SVG path data with [Description.String] and
// converts to a seehuhn.de/go/geom path with [Description.Data] for
// rasterization. Numbers are rounded to two decimals so identical input always
// yields byte-identical output.
//
//	d := curve.GeneratePath(waypoints, curve.Curved)
//	fmt.Fprintf(w, `<path d="%s"/>`, d)
package curve

import (
	"math"
	"strings"

	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/geometry"
)

// Style selects how waypoints are joined.
type Style string

const (
	Straight   Style = "straight"
	Orthogonal Style = "orthogonal"
	Curved     Style = "curved"
)

// DefaultStyle is used when no style is given.
const DefaultStyle = Curved

// Styles lists every supported style.
var Styles = []Style{Straight, Orthogonal, Curved}

// ParseStyle validates a style name. The empty string selects [DefaultStyle].
func ParseStyle(s string) (Style, error) {
	switch style := Style(strings.ToLower(strings.TrimSpace(s))); style {
	case "":
		return DefaultStyle, nil
	case Straight, Orthogonal, Curved:
		return style, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidStyle, "invalid style %q: must be straight, orthogonal or curved", s)
	}
}

const (
	// maxHandle caps the control-point offset of a two-point curve.
	maxHandle = 100.0
	// tension is the control-point offset as a fraction of segment length
	// for multi-point curves.
	tension = 0.3
)

// Render builds the path description for waypoints in the given style.
// Fewer than two waypoints yield an empty description. Unknown styles fall
// back to [DefaultStyle].
func Render(waypoints []geometry.Point, style Style) Description {
	if len(waypoints) < 2 {
		return Description{}
	}
	switch style {
	case Straight:
		return straight(waypoints)
	case Orthogonal:
		return orthogonal(waypoints)
	default:
		if len(waypoints) == 2 {
			return sCurve(waypoints[0], waypoints[1])
		}
		return smoothThrough(waypoints)
	}
}

// GeneratePath returns the SVG path data for waypoints in the given style.
func GeneratePath(waypoints []geometry.Point, style Style) string {
	return Render(waypoints, style).String()
}

func straight(w []geometry.Point) Description {
	var d Description
	d.MoveTo(w[0])
	for _, p := range w[1:] {
		d.LineTo(p)
	}
	return d
}

func orthogonal(w []geometry.Point) Description {
	var d Description
	d.MoveTo(w[0])
	for k := 1; k < len(w); k++ {
		a, b := w[k-1], w[k]
		if math.Abs(b.X-a.X) > math.Abs(b.Y-a.Y) {
			d.HLineTo(b.X)
			d.VLineTo(b.Y)
		} else {
			d.VLineTo(b.Y)
			d.HLineTo(b.X)
		}
	}
	return d
}

// sCurve joins two points with handles along the horizontal axis, leaving the
// start to the right and entering the end from the left.
func sCurve(s, e geometry.Point) Description {
	off := math.Min(0.5*math.Abs(e.X-s.X), maxHandle)
	var d Description
	d.MoveTo(s)
	d.CubeTo(
		geometry.Point{X: s.X + off, Y: s.Y},
		geometry.Point{X: e.X - off, Y: e.Y},
		e,
	)
	return d
}

// smoothThrough passes a cubic through every waypoint. End handles follow
// their own segment; interior waypoints get a symmetric handle pair along the
// average of the incoming and outgoing directions.
func smoothThrough(w []geometry.Point) Description {
	n := len(w)
	dirs := make([]float64, n-1)
	lens := make([]float64, n-1)
	for k := 0; k < n-1; k++ {
		v := w[k+1].Sub(w[k])
		dirs[k] = math.Atan2(v.Y, v.X)
		lens[k] = math.Hypot(v.X, v.Y)
	}

	// out[k] is the handle leaving w[k]; in[k] the handle entering w[k].
	out := make([]geometry.Point, n)
	in := make([]geometry.Point, n)
	out[0] = polar(w[0], dirs[0], tension*lens[0])
	in[n-1] = polar(w[n-1], dirs[n-2], -tension*lens[n-2])
	for k := 1; k < n-1; k++ {
		a := tangent(dirs[k-1], dirs[k])
		off := tension * math.Min(lens[k-1], lens[k])
		in[k] = polar(w[k], a, -off)
		out[k] = polar(w[k], a, off)
	}

	var d Description
	d.MoveTo(w[0])
	for k := 1; k < n; k++ {
		d.CubeTo(out[k-1], in[k], w[k])
	}
	return d
}

// tangent averages two directions on the unit circle. Opposite directions
// cancel out; the incoming one is kept then.
func tangent(in, out float64) float64 {
	sy := math.Sin(in) + math.Sin(out)
	sx := math.Cos(in) + math.Cos(out)
	if math.Abs(sx) < 1e-12 && math.Abs(sy) < 1e-12 {
		return in
	}
	return math.Atan2(sy, sx)
}

func polar(p geometry.Point, angle, r float64) geometry.Point {
	return geometry.Point{X: p.X + r*math.Cos(angle), Y: p.Y + r*math.Sin(angle)}
}
