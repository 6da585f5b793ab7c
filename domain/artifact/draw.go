package artifact

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	colCursor    = color.NRGBA{0, 255, 0, 255}
	colCandidate = color.NRGBA{0, 0, 255, 255}
	colTarget    = color.NRGBA{255, 0, 0, 255}
	colBand      = color.NRGBA{0, 255, 0, 255}
	colRoute     = color.NRGBA{255, 165, 0, 255}
	colRouteEdge = color.NRGBA{255, 200, 0, 255}
	colMarker    = color.NRGBA{255, 0, 255, 255}
)

// canvas is an editable copy of a frame that accepts screen coordinates.
type canvas struct {
	img    *image.NRGBA
	origin image.Point
}

func newCanvas(frame *image.RGBA) *canvas {
	return &canvas{img: imaging.Clone(frame), origin: frame.Bounds().Min}
}

func (c *canvas) local(p image.Point) image.Point { return p.Sub(c.origin) }

func (c *canvas) width() int { return c.img.Bounds().Dx() }

func (c *canvas) set(p image.Point, col color.NRGBA) {
	if p.In(c.img.Bounds()) {
		c.img.SetNRGBA(p.X, p.Y, col)
	}
}

// rect outlines r (screen coordinates) with the given stroke width.
func (c *canvas) rect(r image.Rectangle, col color.NRGBA, stroke int) {
	r = r.Sub(c.origin).Canon()
	for s := 0; s < stroke; s++ {
		for x := r.Min.X - s; x <= r.Max.X+s; x++ {
			c.set(image.Pt(x, r.Min.Y-s), col)
			c.set(image.Pt(x, r.Max.Y+s), col)
		}
		for y := r.Min.Y - s; y <= r.Max.Y+s; y++ {
			c.set(image.Pt(r.Min.X-s, y), col)
			c.set(image.Pt(r.Max.X+s, y), col)
		}
	}
}

// centeredRect outlines a size-sized box around centre.
func (c *canvas) centeredRect(center, size image.Point, col color.NRGBA, stroke int) {
	half := size.Div(2)
	c.rect(image.Rectangle{Min: center.Sub(half), Max: center.Add(half)}, col, stroke)
}

// circle draws a ring of radius r around centre.
func (c *canvas) circle(center image.Point, r int, col color.NRGBA, stroke int) {
	p := c.local(center)
	outer, inner := r*r, (r-stroke)*(r-stroke)
	if r-stroke < 0 {
		inner = -1
	}
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			d := x*x + y*y
			if d <= outer && d > inner {
				c.set(image.Pt(p.X+x, p.Y+y), col)
			}
		}
	}
}

// hline draws a full-width horizontal line at screen y.
func (c *canvas) hline(y int, col color.NRGBA, stroke int) {
	ly := y - c.origin.Y
	for s := 0; s < stroke; s++ {
		for x := 0; x < c.width(); x++ {
			c.set(image.Pt(x, ly+s), col)
		}
	}
}

// band shades a translucent vertical strip of width w centred horizontally,
// spanning screen rows minY..maxY.
func (c *canvas) band(minY, maxY, w int, fill, edge color.NRGBA) {
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	cx := c.width() / 2
	r := image.Rect(cx-w/2, minY-c.origin.Y, cx+w/2, maxY-c.origin.Y).Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	strip := imaging.New(r.Dx(), r.Dy(), fill)
	c.img = imaging.Overlay(c.img, strip, r.Min, 0.3)
	c.rect(r.Add(c.origin), edge, 2)
}

// label writes text with its baseline at screen point p.
func (c *canvas) label(p image.Point, text string, col color.NRGBA) {
	lp := c.local(p)
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(lp.X, lp.Y),
	}
	d.DrawString(text)
}
