package geometry

import (
	"math"
	"testing"
)

func TestRectContainsIsStrict(t *testing.T) {
	r := Rect{Left: 100, Top: 50, Right: 200, Bottom: 150}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Pt(150, 100), true},
		{"left edge", Pt(100, 100), false},
		{"right edge", Pt(200, 100), false},
		{"top edge", Pt(150, 50), false},
		{"bottom edge", Pt(150, 150), false},
		{"corner", Pt(100, 50), false},
		{"outside", Pt(250, 100), false},
		{"just inside", Pt(100.001, 149.999), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestAnchor(t *testing.T) {
	r := RectXYWH(10, 20, 100, 40)

	tests := []struct {
		side Side
		want Point
	}{
		{SideTop, Pt(60, 20)},
		{SideRight, Pt(110, 40)},
		{SideBottom, Pt(60, 60)},
		{SideLeft, Pt(10, 40)},
	}

	for _, tt := range tests {
		t.Run(string(tt.side), func(t *testing.T) {
			if got := r.Anchor(tt.side); got != tt.want {
				t.Errorf("Anchor(%s) = %v, want %v", tt.side, got, tt.want)
			}
		})
	}
}

func TestOctileIsAdmissible(t *testing.T) {
	// For any delta, octile never exceeds the cost of walking it with
	// diagonal plus straight unit steps, and is at least the Euclidean distance.
	cases := []Point{Pt(0, 0), Pt(8, 0), Pt(8, 8), Pt(24, 8), Pt(-40, 16), Pt(3, 100)}
	for _, d := range cases {
		o := Octile(Pt(0, 0), d)
		e := Distance(Pt(0, 0), d)
		if o < e-1e-9 {
			t.Errorf("Octile(%v) = %v < Euclidean %v", d, o, e)
		}
		dx, dy := math.Abs(d.X), math.Abs(d.Y)
		walk := math.Sqrt2*math.Min(dx, dy) + math.Abs(dx-dy)
		if math.Abs(o-walk) > 1e-9 {
			t.Errorf("Octile(%v) = %v, want %v", d, o, walk)
		}
	}
}

func TestBounding(t *testing.T) {
	r := Bounding(Pt(300, 100), Pt(0, 120), Pt(40, -5))
	want := Rect{Left: 0, Top: -5, Right: 300, Bottom: 120}
	if r != want {
		t.Errorf("Bounding = %v, want %v", r, want)
	}
	if got := Bounding(); got != (Rect{}) {
		t.Errorf("Bounding() = %v, want zero", got)
	}
}

func TestParseSide(t *testing.T) {
	if s, err := ParseSide(" Right "); err != nil || s != SideRight {
		t.Errorf("ParseSide(Right) = %q, %v", s, err)
	}
	if _, err := ParseSide("middle"); err == nil {
		t.Error("ParseSide(middle) should fail")
	}
}

func TestRectEmptyAndIntersects(t *testing.T) {
	if !RectXYWH(0, 0, 0, 10).Empty() {
		t.Error("zero-width rect should be empty")
	}
	a := RectXYWH(0, 0, 10, 10)
	if a.Intersects(RectXYWH(10, 0, 10, 10)) {
		t.Error("touching rects should not intersect")
	}
	if !a.Intersects(RectXYWH(5, 5, 10, 10)) {
		t.Error("overlapping rects should intersect")
	}
}
