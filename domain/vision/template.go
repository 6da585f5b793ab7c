package vision

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/disintegration/imaging"
)

// Template is an immutable structural pattern: grayscale values plus an
// optional opacity mask. Pixels with alpha==0 are excluded from matching.
type Template struct {
	Name string
	pre  *templatePrecomp

	scaledMu sync.Mutex
	scaled   map[float64]*templatePrecomp
}

// templatePrecomp caches grayscale pixels and summary statistics for a
// template (or a scaled version of it). Statistics cover opaque pixels only.
type templatePrecomp struct {
	gray   []float32
	mask   []bool // nil when every pixel is opaque
	n      float64
	sumT   float64
	sumT2  float64
	W, H   int
	meanT  float64
	stdT   float64
	masked bool
}

// ErrEmptyTemplate is returned for templates with no opaque pixels.
var ErrEmptyTemplate = errors.New("vision: template has no opaque pixels")

// NewTemplate builds a Template from img.
func NewTemplate(name string, img image.Image) (*Template, error) {
	if img == nil {
		return nil, fmt.Errorf("vision: template %s: nil image", name)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("vision: template %s: %w", name, ErrEmptyTemplate)
	}
	gray := make([]float32, w*h)
	mask := make([]bool, w*h)
	masked := false
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bb, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			off := y*w + x
			if a == 0 {
				masked = true
				continue
			}
			mask[off] = true
			gray[off] = float32(luma(r, g, bb))
		}
	}
	if !masked {
		mask = nil
	}
	pc := newPrecomp(gray, mask, w, h)
	if pc.n == 0 {
		return nil, fmt.Errorf("vision: template %s: %w", name, ErrEmptyTemplate)
	}
	return &Template{Name: name, pre: pc}, nil
}

// LoadTemplate decodes the image at path into a Template named after path.
func LoadTemplate(path string) (*Template, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vision: load template %s: %w", path, err)
	}
	return NewTemplate(path, img)
}

// Size returns the template dimensions.
func (t *Template) Size() image.Point { return image.Pt(t.pre.W, t.pre.H) }

// Masked reports whether the template has transparent pixels.
func (t *Template) Masked() bool { return t.pre.masked }

func luma(r, g, b uint32) float64 {
	return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
}

func newPrecomp(gray []float32, mask []bool, w, h int) *templatePrecomp {
	var sumT, sumT2, n float64
	for i, v := range gray {
		if mask != nil && !mask[i] {
			continue
		}
		fv := float64(v)
		sumT += fv
		sumT2 += fv * fv
		n++
	}
	pc := &templatePrecomp{gray: gray, mask: mask, n: n, sumT: sumT, sumT2: sumT2, W: w, H: h, masked: mask != nil}
	if n == 0 {
		return pc
	}
	pc.meanT = sumT / n
	varT := (sumT2 - sumT*sumT/n) / n
	if varT > 0 {
		pc.stdT = math.Sqrt(varT)
	}
	return pc
}

// scaledPrecomp returns the template resampled by factor, cached per factor.
// Scaling is done with bilinear interpolation on the base grayscale data;
// the mask is resampled by nearest neighbour.
func (t *Template) scaledPrecomp(factor float64) *templatePrecomp {
	if factor <= 0 {
		return nil
	}
	if factor == 1.0 {
		return t.pre
	}
	t.scaledMu.Lock()
	defer t.scaledMu.Unlock()
	if pc, ok := t.scaled[factor]; ok {
		return pc
	}
	pc := scalePrecomp(t.pre, factor)
	if t.scaled == nil {
		t.scaled = make(map[float64]*templatePrecomp)
	}
	t.scaled[factor] = pc
	return pc
}

func scalePrecomp(base *templatePrecomp, factor float64) *templatePrecomp {
	w := int(float64(base.W) * factor)
	h := int(float64(base.H) * factor)
	if w < 2 || h < 2 {
		return nil
	}
	gray := make([]float32, w*h)
	var mask []bool
	if base.mask != nil {
		mask = make([]bool, w*h)
	}
	fx := float64(base.W) / float64(w)
	fy := float64(base.H) / float64(h)
	bw, bh := base.W, base.H
	src := base.gray
	for y := 0; y < h; y++ {
		ys := clampF((float64(y)+0.5)*fy-0.5, 0, float64(bh-1))
		y0 := int(math.Floor(ys))
		y1 := min(y0+1, bh-1)
		dy := ys - float64(y0)
		for x := 0; x < w; x++ {
			xs := clampF((float64(x)+0.5)*fx-0.5, 0, float64(bw-1))
			x0 := int(math.Floor(xs))
			x1 := min(x0+1, bw-1)
			dx := xs - float64(x0)
			top := float64(src[y0*bw+x0])*(1-dx) + float64(src[y0*bw+x1])*dx
			bottom := float64(src[y1*bw+x0])*(1-dx) + float64(src[y1*bw+x1])*dx
			off := y*w + x
			gray[off] = float32(top*(1-dy) + bottom*dy)
			if mask != nil {
				nx := min(int(math.Round(xs)), bw-1)
				ny := min(int(math.Round(ys)), bh-1)
				mask[off] = base.mask[ny*bw+nx]
			}
		}
	}
	pc := newPrecomp(gray, mask, w, h)
	if pc.n == 0 {
		return nil
	}
	return pc
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
