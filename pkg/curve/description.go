package curve

import (
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"github.com/matzehuels/tether/pkg/geometry"
)

// Op is an SVG path command letter. All commands use absolute coordinates.
type Op byte

const (
	OpMoveTo  Op = 'M'
	OpLineTo  Op = 'L'
	OpHLineTo Op = 'H'
	OpVLineTo Op = 'V'
	OpCubeTo  Op = 'C'
)

// Command is one path segment. H and V carry a single coordinate.
type Command struct {
	Op   Op
	Args []float64
}

// Description is an ordered list of path commands.
type Description struct {
	Commands []Command
}

func (d *Description) add(op Op, args ...float64) {
	d.Commands = append(d.Commands, Command{Op: op, Args: args})
}

func (d *Description) MoveTo(p geometry.Point) { d.add(OpMoveTo, p.X, p.Y) }
func (d *Description) LineTo(p geometry.Point) { d.add(OpLineTo, p.X, p.Y) }
func (d *Description) HLineTo(x float64)       { d.add(OpHLineTo, x) }
func (d *Description) VLineTo(y float64)       { d.add(OpVLineTo, y) }

// CubeTo appends a cubic Bezier with control points c1, c2 ending at p.
func (d *Description) CubeTo(c1, c2, p geometry.Point) {
	d.add(OpCubeTo, c1.X, c1.Y, c2.X, c2.Y, p.X, p.Y)
}

// Empty reports whether d has no commands.
func (d Description) Empty() bool { return len(d.Commands) == 0 }

// String renders d as SVG path data, e.g. "M 0 100 C 100 100 200 100 300 100".
func (d Description) String() string {
	var b strings.Builder
	for i, c := range d.Commands {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(c.Op))
		for _, v := range c.Args {
			b.WriteByte(' ')
			b.WriteString(FormatNumber(v))
		}
	}
	return b.String()
}

// FormatNumber rounds to two decimals and drops trailing zeros. Path data
// and SVG attributes use it so equal input renders byte-identically.
func FormatNumber(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // normalize -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Data yields d as a geom path. H and V become absolute line segments. The
// point slice passed to yield is reused between segments.
func (d Description) Data() path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		var buf [3]vec.Vec2
		var cur vec.Vec2
		for _, c := range d.Commands {
			cmd, n := path.CmdLineTo, 1
			switch c.Op {
			case OpMoveTo:
				cmd = path.CmdMoveTo
				cur = vec.Vec2{X: c.Args[0], Y: c.Args[1]}
			case OpLineTo:
				cur = vec.Vec2{X: c.Args[0], Y: c.Args[1]}
			case OpHLineTo:
				cur.X = c.Args[0]
			case OpVLineTo:
				cur.Y = c.Args[0]
			case OpCubeTo:
				cmd, n = path.CmdCubeTo, 3
				buf[0] = vec.Vec2{X: c.Args[0], Y: c.Args[1]}
				buf[1] = vec.Vec2{X: c.Args[2], Y: c.Args[3]}
				cur = vec.Vec2{X: c.Args[4], Y: c.Args[5]}
			default:
				continue
			}
			buf[n-1] = cur
			if !yield(cmd, buf[:n]) {
				return
			}
		}
	}
}

// Points returns every coordinate pair d visits, control points included.
// The control polygon of a cubic contains the curve, so the bounding box of
// the result covers the rendered path.
func (d Description) Points() []geometry.Point {
	var pts []geometry.Point
	var cur geometry.Point
	for _, c := range d.Commands {
		switch c.Op {
		case OpHLineTo:
			cur.X = c.Args[0]
			pts = append(pts, cur)
		case OpVLineTo:
			cur.Y = c.Args[0]
			pts = append(pts, cur)
		default:
			for k := 0; k+1 < len(c.Args); k += 2 {
				pts = append(pts, geometry.Point{X: c.Args[k], Y: c.Args[k+1]})
			}
			cur = pts[len(pts)-1]
		}
	}
	return pts
}

// Sample flattens d into a polyline with steps points per cubic segment.
func (d Description) Sample(steps int) []geometry.Point {
	if steps < 1 {
		steps = 1
	}
	var pts []geometry.Point
	for cmd, args := range d.Data() {
		switch cmd {
		case path.CmdMoveTo, path.CmdLineTo:
			pts = append(pts, geometry.Point{X: args[0].X, Y: args[0].Y})
		case path.CmdCubeTo:
			p0 := pts[len(pts)-1]
			c1 := geometry.Point{X: args[0].X, Y: args[0].Y}
			c2 := geometry.Point{X: args[1].X, Y: args[1].Y}
			p3 := geometry.Point{X: args[2].X, Y: args[2].Y}
			for s := 1; s <= steps; s++ {
				pts = append(pts, cubicAt(p0, c1, c2, p3, float64(s)/float64(steps)))
			}
		}
	}
	return pts
}

func cubicAt(p0, c1, c2, p3 geometry.Point, t float64) geometry.Point {
	u := 1 - t
	a, b, c, e := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return geometry.Point{
		X: a*p0.X + b*c1.X + c*c2.X + e*p3.X,
		Y: a*p0.Y + b*c1.Y + c*c2.Y + e*p3.Y,
	}
}
