package render

import (
	"math"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// flatness is the maximum distance, in device pixels, between a cubic and
// its flattened polyline.
const flatness = 0.25

// canvas maps document coordinates onto a vector.Rasterizer.
type canvas struct {
	r      *vector.Rasterizer
	origin vec.Vec2
	scale  float64
}

func (c *canvas) device(v vec.Vec2) vec.Vec2 {
	return v.Sub(c.origin).Mul(c.scale)
}

// flatten converts p to polylines in device space, one per subpath.
// Quadratic segments are elevated to cubics first.
func (c *canvas) flatten(p path.Path) [][]vec.Vec2 {
	var lines [][]vec.Vec2
	var cur []vec.Vec2
	for cmd, pts := range p.ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			if len(cur) > 1 {
				lines = append(lines, cur)
			}
			cur = []vec.Vec2{c.device(pts[0])}
		case path.CmdLineTo:
			cur = append(cur, c.device(pts[0]))
		case path.CmdCubeTo:
			p0 := cur[len(cur)-1]
			cur = flattenCubic(cur, p0, c.device(pts[0]), c.device(pts[1]), c.device(pts[2]))
		case path.CmdClose:
			if len(cur) > 0 {
				cur = append(cur, cur[0])
			}
		}
	}
	if len(cur) > 1 {
		lines = append(lines, cur)
	}
	return lines
}

// flattenCubic appends the polyline approximation of a device-space cubic,
// using Wang's formula for the segment count.
func flattenCubic(dst []vec.Vec2, p0, p1, p2, p3 vec.Vec2) []vec.Vec2 {
	d1 := p0.Sub(p1.Mul(2)).Add(p2)
	d2 := p1.Sub(p2.Mul(2)).Add(p3)
	m := max(d1.Length(), d2.Length())
	n := 1
	if m > 0 {
		if f := math.Sqrt(3 * m / (4 * flatness)); f > 1 {
			n = int(math.Ceil(f))
		}
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		pt := p0.Mul(u * u * u).Add(p1.Mul(3 * u * u * t)).Add(p2.Mul(3 * u * t * t)).Add(p3.Mul(t * t * t))
		dst = append(dst, pt)
	}
	return dst
}

// polygon adds a closed polygon. Winding is normalized so overlapping
// shapes accumulate instead of cancelling.
func (c *canvas) polygon(pts ...vec.Vec2) {
	if len(pts) < 3 {
		return
	}
	area := 0.0
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		area += a.X*b.Y - b.X*a.Y
	}
	if area > 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	c.r.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		c.r.LineTo(float32(p.X), float32(p.Y))
	}
	c.r.ClosePath()
}

// stroke expands a device-space polyline of the given width into quads with
// round-ish joins.
func (c *canvas) stroke(line []vec.Vec2, width float64) {
	hw := width / 2
	for i := 1; i < len(line); i++ {
		a, b := line[i-1], line[i]
		d := b.Sub(a)
		l := d.Length()
		if l == 0 {
			continue
		}
		n := vec.Vec2{X: -d.Y / l * hw, Y: d.X / l * hw}
		c.polygon(a.Add(n), b.Add(n), b.Sub(n), a.Sub(n))
	}
	for _, p := range line {
		c.disc(p, hw)
	}
}

// disc adds an octagon approximating a circle.
func (c *canvas) disc(center vec.Vec2, r float64) {
	pts := make([]vec.Vec2, 8)
	for k := range pts {
		a := float64(k) * math.Pi / 4
		pts[k] = vec.Vec2{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
	}
	c.polygon(pts...)
}

// arrow adds a filled arrowhead with its tip at the end of line.
func (c *canvas) arrow(line []vec.Vec2, length float64) {
	if len(line) < 2 {
		return
	}
	tip := line[len(line)-1]
	var d vec.Vec2
	for i := len(line) - 2; i >= 0; i-- {
		if d = tip.Sub(line[i]); d.Length() > 0 {
			break
		}
	}
	l := d.Length()
	if l == 0 {
		return
	}
	u := d.Mul(1 / l)
	base := tip.Sub(u.Mul(length))
	n := vec.Vec2{X: -u.Y, Y: u.X}.Mul(length / 2)
	c.polygon(tip, base.Add(n), base.Sub(n))
}

// rect adds an axis-aligned rectangle given in document coordinates.
func (c *canvas) rect(left, top, right, bottom float64) {
	c.polygon(
		c.device(vec.Vec2{X: left, Y: top}),
		c.device(vec.Vec2{X: right, Y: top}),
		c.device(vec.Vec2{X: right, Y: bottom}),
		c.device(vec.Vec2{X: left, Y: bottom}),
	)
}
