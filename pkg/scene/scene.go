// Package scene describes a board of cards and the links between them.
//
// A scene is the file-based stand-in for an interactive canvas: cards are
// the draggable elements whose bounding boxes anchor and obstruct
// connections, and links name the connections to route. Scenes are read
// from TOML or JSON:
//
//	[[cards]]
//	id = "api"
//	x = 0
//	y = 80
//	width = 120
//	height = 48
//
//	[[links]]
//	from = "api"
//	to = "db"
//	style = "orthogonal"
//
// [Scene.Connect] routes every link through a [connection.Registry].
package scene

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/matzehuels/tether/pkg/cache"
	"github.com/matzehuels/tether/pkg/connection"
	"github.com/matzehuels/tether/pkg/curve"
	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/geometry"
	"github.com/matzehuels/tether/pkg/obstacle"
)

// Card is a rectangular element on the board.
type Card struct {
	ID     string  `json:"id" toml:"id"`
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
	Label  string  `json:"label,omitempty" toml:"label,omitempty"`

	// Blocking controls whether connections route around the card.
	// Unset means blocking.
	Blocking *bool `json:"blocking,omitempty" toml:"blocking,omitempty"`
}

// Bounds implements geometry.BoundsProvider.
func (c *Card) Bounds() geometry.Rect { return geometry.RectXYWH(c.X, c.Y, c.Width, c.Height) }

// Name implements geometry.Named.
func (c *Card) Name() string { return c.ID }

// IsBlocking reports whether the card is an obstacle.
func (c *Card) IsBlocking() bool { return c.Blocking == nil || *c.Blocking }

// Text returns the label, falling back to the id.
func (c *Card) Text() string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}

// Link asks for a connection between two cards.
type Link struct {
	From     string `json:"from" toml:"from"`
	To       string `json:"to" toml:"to"`
	Style    string `json:"style,omitempty" toml:"style,omitempty"`
	Color    string `json:"color,omitempty" toml:"color,omitempty"`
	FromSide string `json:"from_side,omitempty" toml:"from_side,omitempty"`
	ToSide   string `json:"to_side,omitempty" toml:"to_side,omitempty"`
}

// Scene is a board of cards and links.
type Scene struct {
	Cards []Card `json:"cards" toml:"cards"`
	Links []Link `json:"links,omitempty" toml:"links,omitempty"`
}

// Card returns the card with the given id.
func (s *Scene) Card(id string) (*Card, bool) {
	for i := range s.Cards {
		if s.Cards[i].ID == id {
			return &s.Cards[i], true
		}
	}
	return nil, false
}

// Source returns an obstacle source over the blocking cards. The source
// reads the cards on every refresh, so moved cards are picked up.
func (s *Scene) Source() obstacle.Source {
	return func() []geometry.BoundsProvider {
		out := make([]geometry.BoundsProvider, 0, len(s.Cards))
		for i := range s.Cards {
			if s.Cards[i].IsBlocking() {
				out = append(out, &s.Cards[i])
			}
		}
		return out
	}
}

// Bounds returns the box covering every card.
func (s *Scene) Bounds() geometry.Rect {
	if len(s.Cards) == 0 {
		return geometry.Rect{}
	}
	r := s.Cards[0].Bounds()
	for i := 1; i < len(s.Cards); i++ {
		r = r.Union(s.Cards[i].Bounds())
	}
	return r
}

// Validate reports the first structural problem in the scene.
func (s *Scene) Validate() error {
	seen := make(map[string]bool, len(s.Cards))
	for i := range s.Cards {
		c := &s.Cards[i]
		if err := errors.ValidateID(c.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "card %d", i)
		}
		if seen[c.ID] {
			return errors.New(errors.ErrCodeInvalidScene, "duplicate card id %q", c.ID)
		}
		seen[c.ID] = true
		for _, v := range []struct {
			name string
			val  float64
		}{{"x", c.X}, {"y", c.Y}} {
			if err := errors.ValidateCoordinate(v.name, v.val); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScene, err, "card %q", c.ID)
			}
		}
		if err := errors.ValidateSize("width", c.Width); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "card %q", c.ID)
		}
		if err := errors.ValidateSize("height", c.Height); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "card %q", c.ID)
		}
	}

	for i, l := range s.Links {
		if !seen[l.From] {
			return errors.New(errors.ErrCodeCardNotFound, "link %d: unknown card %q", i, l.From)
		}
		if !seen[l.To] {
			return errors.New(errors.ErrCodeCardNotFound, "link %d: unknown card %q", i, l.To)
		}
		if _, err := l.Options(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "link %d (%s -> %s)", i, l.From, l.To)
		}
	}
	return nil
}

// Options converts the link's drawing fields. Empty fields stay zero so the
// registry defaults apply.
func (l Link) Options() (connection.Options, error) {
	var opts connection.Options
	if l.Style != "" {
		style, err := curve.ParseStyle(l.Style)
		if err != nil {
			return opts, err
		}
		opts.Style = style
	}
	if l.Color != "" {
		if err := errors.ValidateColor(l.Color); err != nil {
			return opts, err
		}
		opts.Color = l.Color
	}
	if l.FromSide != "" {
		side, err := geometry.ParseSide(l.FromSide)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "from_side")
		}
		opts.FromSide = side
	}
	if l.ToSide != "" {
		side, err := geometry.ParseSide(l.ToSide)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "to_side")
		}
		opts.ToSide = side
	}
	return opts, nil
}

// Connect creates a connection in reg for every link, in order. The scene
// must be valid.
func (s *Scene) Connect(reg *connection.Registry) ([]*connection.Handle, error) {
	handles := make([]*connection.Handle, 0, len(s.Links))
	for i, l := range s.Links {
		from, ok := s.Card(l.From)
		if !ok {
			return nil, errors.New(errors.ErrCodeCardNotFound, "link %d: unknown card %q", i, l.From)
		}
		to, ok := s.Card(l.To)
		if !ok {
			return nil, errors.New(errors.ErrCodeCardNotFound, "link %d: unknown card %q", i, l.To)
		}
		opts, err := l.Options()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "link %d", i)
		}
		handles = append(handles, reg.Create(from, to, opts))
	}
	return handles, nil
}

// Hash returns a stable content hash for cache keys.
func (s *Scene) Hash() string {
	data, _ := json.Marshal(s)
	return cache.Hash(data)
}

// Format is a scene file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".dot", ".gv":
		return FormatDOT, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer scene format from %q (want .toml, .json or .dot)", path)
	}
}
