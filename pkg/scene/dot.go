package scene

import (
	"bytes"
	"context"
	"encoding/xml"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/geometry"
)

// importPadding is the gap left between the board origin and the nearest
// imported card.
const importPadding = 20.0

// ImportDOT lays out a Graphviz graph and converts it to a scene. Each node
// becomes a card sized to its Graphviz shape and each edge becomes a link.
// Coordinates are Graphviz points, shifted so the board starts near the
// origin. Set rankdir=LR in the graph to get layouts that suit the default
// right-to-left anchors.
func ImportDOT(ctx context.Context, data []byte) (*Scene, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "layout DOT")
	}

	s, err := fromGraphvizSVG(buf.Bytes())
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// svgElem is the subset of Graphviz SVG output needed to recover layout.
// Groups nest (clusters, and hyperlink wrappers around node shapes), so the
// same type decodes <g> and <a>.
type svgElem struct {
	Class    string       `xml:"class,attr"`
	Title    string       `xml:"title"`
	Polygons []svgPolygon `xml:"polygon"`
	Ellipses []svgEllipse `xml:"ellipse"`
	Texts    []string     `xml:"text"`
	Groups   []svgElem    `xml:"g"`
	Anchors  []svgElem    `xml:"a"`
}

type svgPolygon struct {
	Points string `xml:"points,attr"`
}

type svgEllipse struct {
	CX float64 `xml:"cx,attr"`
	CY float64 `xml:"cy,attr"`
	RX float64 `xml:"rx,attr"`
	RY float64 `xml:"ry,attr"`
}

func fromGraphvizSVG(data []byte) (*Scene, error) {
	var root svgElem
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read graphviz output")
	}

	s := &Scene{}
	var walk func(e svgElem)
	walk = func(e svgElem) {
		switch e.Class {
		case "node":
			if r, ok := e.bounds(); ok {
				card := Card{ID: e.Title, X: r.Left, Y: r.Top, Width: r.Width(), Height: r.Height()}
				if label := strings.TrimSpace(strings.Join(e.allTexts(), " ")); label != "" && label != e.Title {
					card.Label = label
				}
				s.Cards = append(s.Cards, card)
			}
			return
		case "edge":
			if from, to, ok := splitEdgeTitle(e.Title); ok {
				s.Links = append(s.Links, Link{From: from, To: to})
			}
			return
		}
		for _, g := range e.Groups {
			walk(g)
		}
		for _, a := range e.Anchors {
			walk(a)
		}
	}
	walk(root)

	if len(s.Cards) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidScene, "graph has no nodes")
	}
	normalize(s)
	return s, nil
}

// bounds returns the box covering every shape in the element.
func (e svgElem) bounds() (geometry.Rect, bool) {
	var pts []geometry.Point
	var collect func(e svgElem)
	collect = func(e svgElem) {
		for _, p := range e.Polygons {
			pts = append(pts, parsePoints(p.Points)...)
		}
		for _, el := range e.Ellipses {
			pts = append(pts,
				geometry.Pt(el.CX-el.RX, el.CY-el.RY),
				geometry.Pt(el.CX+el.RX, el.CY+el.RY))
		}
		for _, g := range e.Groups {
			collect(g)
		}
		for _, a := range e.Anchors {
			collect(a)
		}
	}
	collect(e)
	if len(pts) == 0 {
		return geometry.Rect{}, false
	}
	r := geometry.Bounding(pts...)
	return r, !r.Empty()
}

func (e svgElem) allTexts() []string {
	texts := append([]string(nil), e.Texts...)
	for _, g := range e.Groups {
		texts = append(texts, g.allTexts()...)
	}
	for _, a := range e.Anchors {
		texts = append(texts, a.allTexts()...)
	}
	return texts
}

// parsePoints reads an SVG points list ("x,y x,y ...").
func parsePoints(s string) []geometry.Point {
	var pts []geometry.Point
	for _, pair := range strings.Fields(s) {
		xs, ys, ok := strings.Cut(pair, ",")
		if !ok {
			continue
		}
		x, errX := strconv.ParseFloat(xs, 64)
		y, errY := strconv.ParseFloat(ys, 64)
		if errX == nil && errY == nil {
			pts = append(pts, geometry.Pt(x, y))
		}
	}
	return pts
}

func splitEdgeTitle(title string) (from, to string, ok bool) {
	for _, sep := range []string{"->", "--"} {
		if from, to, ok = strings.Cut(title, sep); ok {
			return stripPort(from), stripPort(to), true
		}
	}
	return "", "", false
}

// stripPort drops a ":port" suffix from an edge endpoint.
func stripPort(s string) string {
	if i := strings.IndexByte(s, ':'); i > 0 {
		return s[:i]
	}
	return s
}

// normalize shifts every card so the board's top-left corner sits at
// (importPadding, importPadding) and rounds coordinates to two decimals.
func normalize(s *Scene) {
	minX, minY := math.Inf(1), math.Inf(1)
	for _, c := range s.Cards {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
	}
	for i := range s.Cards {
		c := &s.Cards[i]
		c.X = round2(c.X - minX + importPadding)
		c.Y = round2(c.Y - minY + importPadding)
		c.Width = round2(c.Width)
		c.Height = round2(c.Height)
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
