package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/tether/pkg/connection"
	"github.com/matzehuels/tether/pkg/curve"
	"github.com/matzehuels/tether/pkg/scene"
)

const (
	cardFill   = "#f8fafc"
	cardStroke = "#94a3b8"
	cardText   = "#0f172a"
	cardRadius = 6.0
)

// SVG renders the scene's cards and the given connections as an SVG document.
// s may be nil to draw connections only.
func SVG(s *scene.Scene, conns []*connection.Connection, opts ...Option) []byte {
	r := newRenderer(opts...)
	f := r.frame(s, conns)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%s" height="%s">`+"\n",
		num(f.Left), num(f.Top), num(f.Width()), num(f.Height()), num(f.Width()), num(f.Height()))

	if len(conns) > 0 {
		buf.WriteString("  <defs>")
		for _, c := range conns {
			connection.WriteMarker(&buf, c.Handle.MarkerID(), c.Handle.Color)
		}
		buf.WriteString("</defs>\n")
	}

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(f.Left), num(f.Top), num(f.Width()), num(f.Height()), escapeXML(r.background))
	}

	if r.cards && s != nil {
		buf.WriteString(`  <g class="cards">` + "\n")
		for i := range s.Cards {
			renderCard(&buf, &s.Cards[i])
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString(`  <g class="connections">` + "\n")
	for _, c := range conns {
		fmt.Fprintf(&buf, `    <g class="connection" data-id="%s" data-outcome="%s">`, c.ID, c.Outcome)
		connection.WritePath(&buf, c.Handle)
		buf.WriteString("</g>\n")
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderCard(buf *bytes.Buffer, c *scene.Card) {
	b := c.Bounds()
	dash := ""
	if !c.IsBlocking() {
		dash = ` stroke-dasharray="4 3"`
	}
	fmt.Fprintf(buf, `    <rect class="card" id="card-%s" x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" stroke="%s" stroke-width="1"%s/>`+"\n",
		escapeXML(c.ID), num(b.Left), num(b.Top), num(b.Width()), num(b.Height()), num(cardRadius), cardFill, cardStroke, dash)

	text := c.Text()
	size := fontSize(b, text)
	center := b.Center()
	fmt.Fprintf(buf, `    <text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="%s" fill="%s">%s</text>`+"\n",
		num(center.X), num(center.Y), num(size), cardText, escapeXML(truncate(text, b.Width(), size)))
}

func num(v float64) string { return curve.FormatNumber(v) }
