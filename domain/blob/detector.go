// Package blob finds colour regions and circles in frames with OpenCV.
package blob

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"gocv.io/x/gocv"

	"github.com/soocke/splash-fisher/config"
)

// Blob is one accepted colour region.
type Blob struct {
	Center image.Point // screen coordinates
	Radius float64     // minimum enclosing circle radius
	Area   float64     // contour area
	Fill   float64     // Area over the enclosing circle's area
}

// Filter bounds which contours are accepted as blobs.
type Filter struct {
	MinRadius float64
	MaxRadius float64
	MinFill   float64
	MinArea   float64
}

// Detector thresholds an HSV range, removes speckle with a morphological
// open then close, and reports external contours that pass Filter.
type Detector struct {
	lower  gocv.Scalar
	upper  gocv.Scalar
	filter Filter
	logger *slog.Logger
}

// NewDetector returns a detector for rng.
func NewDetector(rng config.ColorRange, filter Filter, logger *slog.Logger) *Detector {
	lo, hi := rng.Lower(), rng.Upper()
	return &Detector{
		lower:  gocv.NewScalar(float64(lo[0]), float64(lo[1]), float64(lo[2]), 0),
		upper:  gocv.NewScalar(float64(hi[0]), float64(hi[1]), float64(hi[2]), 0),
		filter: filter,
		logger: logger,
	}
}

// Detect returns the accepted blobs in contour order.
func (d *Detector) Detect(frame *image.RGBA) ([]Blob, error) {
	if frame == nil || frame.Bounds().Empty() {
		return nil, nil
	}
	src, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return nil, fmt.Errorf("blob: convert frame: %w", err)
	}
	defer src.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(src, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, d.lower, d.upper, &mask)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(5, 5))
	defer kernel.Close()
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)
	gocv.GaussianBlur(mask, &mask, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	origin := frame.Bounds().Min
	var blobs []Blob
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		x, y, r := gocv.MinEnclosingCircle(c)
		b, ok := d.accept(float64(x), float64(y), float64(r), gocv.ContourArea(c))
		if !ok {
			continue
		}
		b.Center = b.Center.Add(origin)
		blobs = append(blobs, b)
	}
	return blobs, nil
}

// accept applies the radius, area and fill-ratio filter to one contour.
func (d *Detector) accept(x, y, radius, area float64) (Blob, bool) {
	f := d.filter
	if f.MinRadius > 0 && radius < f.MinRadius {
		return Blob{}, false
	}
	if f.MaxRadius > 0 && radius > f.MaxRadius {
		return Blob{}, false
	}
	if area < f.MinArea {
		return Blob{}, false
	}
	circle := math.Pi * radius * radius
	if circle == 0 {
		return Blob{}, false
	}
	fill := area / circle
	if fill < f.MinFill {
		return Blob{}, false
	}
	return Blob{Center: image.Pt(int(x), int(y)), Radius: radius, Area: area, Fill: fill}, true
}

// FindMarkers returns the centres of accepted blobs and their average radius.
// Detection errors are logged and reported as no markers.
func (d *Detector) FindMarkers(frame *image.RGBA) ([]image.Point, float64) {
	blobs, err := d.Detect(frame)
	if err != nil {
		if d.logger != nil {
			d.logger.Error("marker detection failed", "error", err)
		}
		return nil, 0
	}
	if len(blobs) == 0 {
		return nil, 0
	}
	pts := make([]image.Point, len(blobs))
	var sum float64
	for i, b := range blobs {
		pts[i] = b.Center
		sum += b.Radius
	}
	return pts, sum / float64(len(blobs))
}
