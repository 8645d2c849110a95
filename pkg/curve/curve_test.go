package curve

import (
	"math"
	"strings"
	"testing"

	"seehuhn.de/go/geom/path"

	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/geometry"
)

func TestGeneratePathDegenerate(t *testing.T) {
	for _, style := range append(Styles, Style("bogus")) {
		if got := GeneratePath(nil, style); got != "" {
			t.Errorf("GeneratePath(nil, %s) = %q, want empty", style, got)
		}
		if got := GeneratePath([]geometry.Point{geometry.Pt(3, 4)}, style); got != "" {
			t.Errorf("GeneratePath([p], %s) = %q, want empty", style, got)
		}
	}
}

func TestStraight(t *testing.T) {
	got := GeneratePath([]geometry.Point{geometry.Pt(0, 0), geometry.Pt(10, 5), geometry.Pt(20, 0)}, Straight)
	want := "M 0 0 L 10 5 L 20 0"
	if got != want {
		t.Errorf("GeneratePath() = %q, want %q", got, want)
	}
}

func TestOrthogonalAxisOrder(t *testing.T) {
	tests := []struct {
		name string
		to   geometry.Point
		want string
	}{
		{"horizontal dominant", geometry.Pt(100, 50), "M 0 0 H 100 V 50"},
		{"vertical dominant", geometry.Pt(50, 100), "M 0 0 V 100 H 50"},
		{"tie goes vertical", geometry.Pt(40, 40), "M 0 0 V 40 H 40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeneratePath([]geometry.Point{geometry.Pt(0, 0), tt.to}, Orthogonal)
			if got != tt.want {
				t.Errorf("GeneratePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOrthogonalPerSegment(t *testing.T) {
	got := GeneratePath([]geometry.Point{geometry.Pt(0, 0), geometry.Pt(100, 10), geometry.Pt(110, 200)}, Orthogonal)
	want := "M 0 0 H 100 V 10 V 200 H 110"
	if got != want {
		t.Errorf("GeneratePath() = %q, want %q", got, want)
	}
}

func TestCurvedTwoPoints(t *testing.T) {
	tests := []struct {
		name       string
		start, end geometry.Point
		want       string
	}{
		{"level", geometry.Pt(0, 100), geometry.Pt(300, 100), "M 0 100 C 100 100 200 100 300 100"},
		{"short", geometry.Pt(0, 0), geometry.Pt(60, 40), "M 0 0 C 30 0 30 40 60 40"},
		{"vertical", geometry.Pt(10, 0), geometry.Pt(10, 200), "M 10 0 C 10 0 10 200 10 200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeneratePath([]geometry.Point{tt.start, tt.end}, Curved)
			if got != tt.want {
				t.Errorf("GeneratePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCurvedThroughWaypoints(t *testing.T) {
	w := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(100, 0), geometry.Pt(100, 100), geometry.Pt(200, 100)}
	d := Render(w, Curved)

	if len(d.Commands) != len(w) {
		t.Fatalf("commands = %d, want %d", len(d.Commands), len(w))
	}
	for k, c := range d.Commands[1:] {
		if c.Op != OpCubeTo {
			t.Fatalf("command %d = %c, want C", k+1, c.Op)
		}
		end := geometry.Pt(c.Args[4], c.Args[5])
		if end != w[k+1] {
			t.Errorf("segment %d ends at %v, want %v", k+1, end, w[k+1])
		}
	}

	// First handle runs along the first segment at 30% of its length.
	first := d.Commands[1]
	if !near(first.Args[0], 30) || !near(first.Args[1], 0) {
		t.Errorf("first handle = (%v,%v), want (30,0)", first.Args[0], first.Args[1])
	}

	// Handles around an interior waypoint are symmetric about it.
	in := geometry.Pt(first.Args[2], first.Args[3])
	out := geometry.Pt(d.Commands[2].Args[0], d.Commands[2].Args[1])
	mid := in.Lerp(out, 0.5)
	if !near(mid.X, 100) || !near(mid.Y, 0) {
		t.Errorf("handles around (100,0) centered at %v", mid)
	}
	// At a right-angle turn the tangent is the diagonal, offset 30.
	if got := geometry.Distance(in, w[1]); !near(got, 30) {
		t.Errorf("handle offset = %v, want 30", got)
	}
}

func TestCurvedReversal(t *testing.T) {
	// Opposite in/out directions must not produce NaN handles.
	w := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(100, 0), geometry.Pt(0, 0)}
	got := GeneratePath(w, Curved)
	if strings.Contains(got, "NaN") {
		t.Errorf("GeneratePath() = %q", got)
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"", Curved, false},
		{"straight", Straight, false},
		{" Orthogonal ", Orthogonal, false},
		{"curved", Curved, false},
		{"wiggly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStyle(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStyle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidStyle) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidStyle)
			}
			if got != tt.want {
				t.Errorf("ParseStyle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{-0.001, "0"},
		{12.345678, "12.35"},
		{-3.5, "-3.5"},
		{100, "100"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDataLowersAxisLines(t *testing.T) {
	d := Render([]geometry.Point{geometry.Pt(0, 0), geometry.Pt(100, 50)}, Orthogonal)

	var cmds []path.Command
	var last []float64
	for cmd, pts := range d.Data() {
		cmds = append(cmds, cmd)
		last = []float64{pts[len(pts)-1].X, pts[len(pts)-1].Y}
	}
	if len(cmds) != 3 || cmds[0] != path.CmdMoveTo || cmds[1] != path.CmdLineTo || cmds[2] != path.CmdLineTo {
		t.Fatalf("commands = %v", cmds)
	}
	if last[0] != 100 || last[1] != 50 {
		t.Errorf("path ends at %v, want (100,50)", last)
	}
}

func TestDataStopsEarly(t *testing.T) {
	d := Render([]geometry.Point{geometry.Pt(0, 0), geometry.Pt(50, 50), geometry.Pt(100, 0)}, Straight)
	n := 0
	for range d.Data() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("iterated %d segments after break, want 1", n)
	}
}

func TestSampleFollowsCurve(t *testing.T) {
	d := Render([]geometry.Point{geometry.Pt(0, 100), geometry.Pt(300, 100)}, Curved)
	pts := d.Sample(10)
	if len(pts) != 11 {
		t.Fatalf("Sample(10) = %d points, want 11", len(pts))
	}
	for _, p := range pts {
		if !near(p.Y, 100) {
			t.Errorf("level curve left the line: %v", p)
		}
	}
	if pts[10] != geometry.Pt(300, 100) {
		t.Errorf("last sample = %v", pts[10])
	}
}

func TestPointsBoundCurve(t *testing.T) {
	d := Render([]geometry.Point{geometry.Pt(0, 0), geometry.Pt(100, 80), geometry.Pt(40, 160)}, Curved)
	box := geometry.Bounding(d.Points()...)
	bb := d.Data().BBox()
	if bb.LLx != box.Left || bb.LLy != box.Top || bb.URx != box.Right || bb.URy != box.Bottom {
		t.Errorf("Data().BBox() = %+v, want %v", bb, box)
	}
	for _, p := range d.Sample(16) {
		if p.X < box.Left-1e-9 || p.X > box.Right+1e-9 || p.Y < box.Top-1e-9 || p.Y > box.Bottom+1e-9 {
			t.Errorf("sample %v outside control box %v", p, box)
		}
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }
