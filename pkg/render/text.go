package render

import (
	"bytes"
	"encoding/xml"

	"github.com/matzehuels/tether/pkg/geometry"
)

const (
	fontHeightRatio = 0.45
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 18.0
)

// fontSize picks a label size that fits text inside a card.
func fontSize(r geometry.Rect, text string) float64 {
	n := max(1, len(text))
	byHeight := r.Height() * fontHeightRatio
	byWidth := (r.Width() * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// truncate shortens text to what fits at size inside width.
func truncate(text string, width, size float64) string {
	maxChars := int(width * fontWidthRatio / (size * fontCharWidth))
	if maxChars < 3 {
		maxChars = 3
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
