package geometry

import (
	"fmt"
	"strings"
)

// Side names the edge of a rectangle a connection attaches to.
type Side string

const (
	SideTop    Side = "top"
	SideRight  Side = "right"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
)

// ParseSide converts a user-supplied side name. The empty string is not
// accepted; callers apply their own defaults first.
func ParseSide(s string) (Side, error) {
	switch side := Side(strings.ToLower(strings.TrimSpace(s))); side {
	case SideTop, SideRight, SideBottom, SideLeft:
		return side, nil
	default:
		return "", fmt.Errorf("unknown side %q (want top, right, bottom or left)", s)
	}
}

// BoundsProvider is anything that can report its current bounding box.
// Cards, anchors and obstacles only need this one capability.
type BoundsProvider interface {
	Bounds() Rect
}

// Named is implemented by providers with a stable identifier.
type Named interface {
	Name() string
}

// Box is a BoundsProvider backed by a fixed rectangle.
type Box struct {
	ID   string
	Rect Rect
}

func (b *Box) Bounds() Rect { return b.Rect }
func (b *Box) Name() string { return b.ID }

// Move translates the box by (dx, dy).
func (b *Box) Move(dx, dy float64) {
	b.Rect.Left += dx
	b.Rect.Right += dx
	b.Rect.Top += dy
	b.Rect.Bottom += dy
}
