package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"

	"github.com/matzehuels/tether/pkg/connection"
	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/scene"
)

// maxPixels bounds the raster size of a single PNG.
const maxPixels = 8192 * 8192

// PNG rasterizes the same drawing as [SVG]. Labels use a fixed bitmap face,
// so their size does not follow the card size.
func PNG(s *scene.Scene, conns []*connection.Connection, opts ...Option) ([]byte, error) {
	img, err := Raster(s, conns, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// Raster draws the scene into an RGBA image.
func Raster(s *scene.Scene, conns []*connection.Connection, opts ...Option) (*image.RGBA, error) {
	r := newRenderer(opts...)
	f := r.frame(s, conns)

	w := int(math.Ceil(f.Width() * r.scale))
	h := int(math.Ceil(f.Height() * r.scale))
	if w <= 0 || h <= 0 || w*h > maxPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image size %dx%d out of range", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if r.background != "" {
		bg := parseColor(r.background, color.RGBA{255, 255, 255, 255})
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	c := &canvas{
		r:      vector.NewRasterizer(w, h),
		origin: vec.Vec2{X: f.Left, Y: f.Top},
		scale:  r.scale,
	}
	fill := func(col color.RGBA) {
		c.r.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{})
		c.r.Reset(w, h)
	}

	if r.cards && s != nil {
		for i := range s.Cards {
			b := s.Cards[i].Bounds()
			c.rect(b.Left, b.Top, b.Right, b.Bottom)
		}
		fill(parseColor(cardFill, color.RGBA{}))

		for i := range s.Cards {
			b := s.Cards[i].Bounds()
			for _, edge := range [][4]float64{
				{b.Left, b.Top, b.Right, b.Top},
				{b.Right, b.Top, b.Right, b.Bottom},
				{b.Right, b.Bottom, b.Left, b.Bottom},
				{b.Left, b.Bottom, b.Left, b.Top},
			} {
				c.stroke([]vec.Vec2{
					c.device(vec.Vec2{X: edge[0], Y: edge[1]}),
					c.device(vec.Vec2{X: edge[2], Y: edge[3]}),
				}, r.scale)
			}
		}
		fill(parseColor(cardStroke, color.RGBA{}))
		drawLabels(img, s, c)
	}

	fallback := parseColor(connection.DefaultColor, color.RGBA{})
	for _, conn := range conns {
		width := conn.Options.StrokeWidth * r.scale
		lines := c.flatten(conn.Description().Data())
		for _, line := range lines {
			c.stroke(line, width)
		}
		if len(lines) > 0 {
			c.arrow(lines[len(lines)-1], connection.ArrowSize*width)
		}
		fill(parseColor(conn.Options.Color, fallback))
	}
	return img, nil
}

func drawLabels(img *image.RGBA, s *scene.Scene, c *canvas) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(parseColor(cardText, color.RGBA{A: 255})),
		Face: face,
	}
	for i := range s.Cards {
		card := &s.Cards[i]
		b := card.Bounds()
		center := c.device(vec.Vec2{X: b.Center().X, Y: b.Center().Y})
		width := b.Width() * c.scale
		text := truncate(card.Text(), width, float64(face.Advance)/fontCharWidth)
		adv := d.MeasureString(text)
		d.Dot = fixed.Point26_6{
			X: fixed.I(int(center.X)) - adv/2,
			Y: fixed.I(int(center.Y) + face.Ascent/2),
		}
		d.DrawString(text)
	}
}
