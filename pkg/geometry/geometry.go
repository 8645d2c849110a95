// Package geometry provides the planar primitives shared by every routing stage.
//
// # Coordinates
//
// All values live in the host canvas' display space: x grows to the right and
// y grows downward, matching SVG. A [Rect] is stored by its four edges rather
// than origin and size so the containment test stays a pure comparison.
//
// # Containment
//
// [Rect.Contains] is the single obstacle predicate of the engine. The grid uses
// it to decide walkability and the smoother uses it for line of sight. Both
// must agree, otherwise a smoothed segment can cut through a corner the search
// went around. The test is strict: points on an edge are outside, which lets
// anchor points sit on a card's border without being blocked by the card.
package geometry

import (
	"fmt"
	"math"
)

// Point is a position in display space.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale multiplies both coordinates by s.
func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Lerp returns the point at parameter t on the segment p→q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Distance is the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Octile is the 8-direction grid distance between a and b:
// dx + dy + (√2−2)·min(dx, dy). It never exceeds [Distance] along any
// 8-connected path, so it is admissible for grid search.
func Octile(a, b Point) float64 {
	dx := math.Abs(b.X - a.X)
	dy := math.Abs(b.Y - a.Y)
	return dx + dy + (math.Sqrt2-2)*math.Min(dx, dy)
}

// PathLength sums the Euclidean lengths of consecutive segments.
func PathLength(pts []Point) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += Distance(pts[i-1], pts[i])
	}
	return total
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Left   float64 `json:"left" toml:"left"`
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
}

// RectXYWH builds a Rect from an origin and a size.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Bounding returns the smallest Rect covering every point.
// It returns the zero Rect when pts is empty.
func Bounding(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Left: pts[0].X, Top: pts[0].Y, Right: pts[0].X, Bottom: pts[0].Y}
	for _, p := range pts[1:] {
		r.Left = math.Min(r.Left, p.X)
		r.Top = math.Min(r.Top, p.Y)
		r.Right = math.Max(r.Right, p.X)
		r.Bottom = math.Max(r.Bottom, p.Y)
	}
	return r
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Empty reports whether r has no interior.
func (r Rect) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Contains reports whether p lies strictly inside r.
func (r Rect) Contains(p Point) bool {
	return p.X > r.Left && p.X < r.Right && p.Y > r.Top && p.Y < r.Bottom
}

// Inset shrinks r by d on every side; a negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{Left: r.Left + d, Top: r.Top + d, Right: r.Right - d, Bottom: r.Bottom - d}
}

// Union returns the smallest Rect covering r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, o.Left),
		Top:    math.Min(r.Top, o.Top),
		Right:  math.Max(r.Right, o.Right),
		Bottom: math.Max(r.Bottom, o.Bottom),
	}
}

// Intersects reports whether the interiors of r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

// Anchor returns the midpoint of the given side of r.
func (r Rect) Anchor(s Side) Point {
	c := r.Center()
	switch s {
	case SideTop:
		return Point{X: c.X, Y: r.Top}
	case SideBottom:
		return Point{X: c.X, Y: r.Bottom}
	case SideLeft:
		return Point{X: r.Left, Y: c.Y}
	default:
		return Point{X: r.Right, Y: c.Y}
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g %g,%g]", r.Left, r.Top, r.Right, r.Bottom)
}
