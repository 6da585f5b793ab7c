package blob

import (
	"fmt"
	"image"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/soocke/splash-fisher/config"
)

// minSplashArea is the smallest contour area reported as a splash.
const minSplashArea = 50

// SplashColorFinder reports the largest splash-coloured region as the only
// splash candidate.
type SplashColorFinder struct {
	det    *Detector
	logger *slog.Logger
}

// NewSplashColorFinder returns a colour-based splash finder for rng.
func NewSplashColorFinder(rng config.ColorRange, logger *slog.Logger) *SplashColorFinder {
	return &SplashColorFinder{det: NewDetector(rng, Filter{MinArea: minSplashArea}, logger), logger: logger}
}

// FindSplashes returns at most one centre and its enclosing-circle size.
func (f *SplashColorFinder) FindSplashes(frame *image.RGBA) ([]image.Point, image.Point) {
	blobs, err := f.det.Detect(frame)
	if err != nil {
		if f.logger != nil {
			f.logger.Error("splash colour detection failed", "error", err)
		}
		return nil, image.Point{}
	}
	best, ok := largest(blobs)
	if !ok {
		return nil, image.Point{}
	}
	d := int(2 * best.Radius)
	return []image.Point{best.Center}, image.Pt(d, d)
}

func largest(blobs []Blob) (Blob, bool) {
	if len(blobs) == 0 {
		return Blob{}, false
	}
	best := blobs[0]
	for _, b := range blobs[1:] {
		if b.Area > best.Area {
			best = b
		}
	}
	return best, true
}

// HoughFinder locates the strongest circle with the Hough gradient method.
type HoughFinder struct {
	params config.CircleParams
	logger *slog.Logger
}

// NewHoughFinder returns a circle finder configured by params.
func NewHoughFinder(params config.CircleParams, logger *slog.Logger) *HoughFinder {
	return &HoughFinder{params: params, logger: logger}
}

// Circle is a detected circle in screen coordinates.
type Circle struct {
	Center image.Point
	Radius float64
}

// Circles returns every detected circle, strongest first.
func (h *HoughFinder) Circles(frame *image.RGBA) ([]Circle, error) {
	if frame == nil || frame.Bounds().Empty() {
		return nil, nil
	}
	src, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return nil, fmt.Errorf("blob: convert frame: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	gocv.GaussianBlur(gray, &gray, image.Pt(9, 9), 2, 2, gocv.BorderDefault)

	circles := gocv.NewMat()
	defer circles.Close()
	p := h.params
	gocv.HoughCirclesWithParams(gray, &circles, gocv.HoughGradient,
		p.DP, p.MinDist, p.Param1, p.Param2, p.MinRadius, p.MaxRadius)
	if circles.Empty() || circles.Cols() == 0 {
		return nil, nil
	}
	origin := frame.Bounds().Min
	out := make([]Circle, circles.Cols())
	for i := range out {
		x := circles.GetFloatAt(0, i*3)
		y := circles.GetFloatAt(0, i*3+1)
		out[i] = Circle{
			Center: image.Pt(int(x+0.5), int(y+0.5)).Add(origin),
			Radius: float64(circles.GetFloatAt(0, i*3+2)),
		}
	}
	return out, nil
}

// FindCircle returns the strongest circle's centre.
func (h *HoughFinder) FindCircle(frame *image.RGBA) (image.Point, bool) {
	circles, err := h.Circles(frame)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("hough detection failed", "error", err)
		}
		return image.Point{}, false
	}
	if len(circles) == 0 {
		return image.Point{}, false
	}
	return circles[0].Center, true
}
