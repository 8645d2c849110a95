package obstacle

import (
	"testing"

	"github.com/matzehuels/tether/pkg/geometry"
)

func TestTrackerRefreshIsFullSnapshot(t *testing.T) {
	a := &geometry.Box{ID: "a", Rect: geometry.RectXYWH(0, 0, 50, 50)}
	b := &geometry.Box{ID: "b", Rect: geometry.RectXYWH(100, 0, 50, 50)}

	providers := []geometry.BoundsProvider{a, b}
	tr := NewTracker(func() []geometry.BoundsProvider { return providers })

	if n := tr.Refresh(); n != 2 {
		t.Fatalf("Refresh() = %d, want 2", n)
	}

	// Move a card and drop another; nothing changes until the next refresh.
	a.Move(500, 0)
	providers = []geometry.BoundsProvider{a}
	if got := tr.Obstacles()[0].Left; got != 0 {
		t.Errorf("snapshot changed before refresh: left = %v", got)
	}

	if n := tr.Refresh(); n != 1 {
		t.Fatalf("Refresh() = %d, want 1", n)
	}
	if got := tr.Obstacles()[0].Left; got != 500 {
		t.Errorf("left after refresh = %v, want 500", got)
	}
}

func TestTrackerEmptySource(t *testing.T) {
	for _, src := range []Source{nil, Static()} {
		tr := NewTracker(src)
		if n := tr.Refresh(); n != 0 {
			t.Errorf("Refresh() = %d, want 0", n)
		}
		if got := tr.Within(geometry.RectXYWH(0, 0, 100, 100)); len(got) != 0 {
			t.Errorf("Within() = %v, want none", got)
		}
	}
}

func TestTrackerWithin(t *testing.T) {
	tr := NewTracker(Rects(
		geometry.RectXYWH(0, 0, 10, 10),
		geometry.RectXYWH(1000, 1000, 10, 10),
		geometry.RectXYWH(50, 50, 10, 10),
		geometry.RectXYWH(60, 0, 0, 10), // degenerate
		geometry.RectXYWH(100, 0, 10, 10),
	))
	tr.Refresh()

	got := tr.Within(geometry.Rect{Left: 5, Top: 5, Right: 100, Bottom: 100})
	if len(got) != 2 {
		t.Fatalf("Within() returned %d obstacles, want 2: %v", len(got), got)
	}
	// Source order is preserved.
	if got[0].Left != 0 || got[1].Left != 50 {
		t.Errorf("Within() order = %v", got)
	}

	// The tracker and a plain list agree.
	list := FromRects(
		geometry.RectXYWH(0, 0, 10, 10),
		geometry.RectXYWH(1000, 1000, 10, 10),
		geometry.RectXYWH(50, 50, 10, 10),
		geometry.RectXYWH(60, 0, 0, 10),
		geometry.RectXYWH(100, 0, 10, 10),
	)
	fromList := list.Within(geometry.Rect{Left: 5, Top: 5, Right: 100, Bottom: 100})
	if len(fromList) != len(got) {
		t.Errorf("List.Within() = %d, Tracker.Within() = %d", len(fromList), len(got))
	}
}

func TestBlocked(t *testing.T) {
	obs := FromRects(geometry.Rect{Left: 100, Top: 50, Right: 200, Bottom: 150})
	if !Blocked(obs, geometry.Pt(150, 100)) {
		t.Error("center should be blocked")
	}
	if Blocked(obs, geometry.Pt(100, 100)) {
		t.Error("edge should not be blocked")
	}
}
