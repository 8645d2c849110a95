package connection

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/tether/pkg/curve"
	"github.com/matzehuels/tether/pkg/geometry"
)

// ArrowSize is the arrowhead length in stroke widths.
const ArrowSize = 5.0

// Handle is the renderable form of a connection: an SVG container holding
// the path and an arrowhead marker at its end. The registry updates a handle
// in place each time its connection is re-routed.
type Handle struct {
	ID          string
	PathData    string
	Style       curve.Style
	Color       string
	StrokeWidth float64
	Start, End  geometry.Point

	bounds geometry.Rect
}

// MarkerID returns the id of the handle's arrowhead marker.
func (h *Handle) MarkerID() string { return "arrow-" + h.ID }

// SVG renders the handle as a standalone <svg> element positioned in canvas
// coordinates, suitable for an overlay covering the canvas.
func (h *Handle) SVG() string {
	pad := h.StrokeWidth * (ArrowSize + 1)
	b := h.bounds
	if b == (geometry.Rect{}) {
		b = geometry.Bounding(h.Start, h.End)
	}
	b = b.Inset(-pad)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="connection" data-id="%s" viewBox="%s %s %s %s" width="%s" height="%s" style="position:absolute;left:%spx;top:%spx;overflow:visible;pointer-events:none">`,
		h.ID, num(b.Left), num(b.Top), num(b.Width()), num(b.Height()),
		num(b.Width()), num(b.Height()), num(b.Left), num(b.Top))
	buf.WriteString("<defs>")
	WriteMarker(&buf, h.MarkerID(), h.Color)
	buf.WriteString("</defs>")
	WritePath(&buf, h)
	buf.WriteString("</svg>")
	return buf.String()
}

// WriteMarker writes an arrowhead <marker> sized in stroke widths.
func WriteMarker(buf *bytes.Buffer, id, color string) {
	fmt.Fprintf(buf, `<marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="%s" markerHeight="%s" orient="auto-start-reverse">`,
		escape(id), num(ArrowSize), num(ArrowSize))
	fmt.Fprintf(buf, `<path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>`, escape(color))
	buf.WriteString("</marker>")
}

// WritePath writes the handle's <path> element referencing its marker.
func WritePath(buf *bytes.Buffer, h *Handle) {
	fmt.Fprintf(buf, `<path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round" marker-end="url(#%s)"/>`,
		h.PathData, escape(h.Color), num(h.StrokeWidth), escape(h.MarkerID()))
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func num(v float64) string {
	return curve.FormatNumber(v)
}
