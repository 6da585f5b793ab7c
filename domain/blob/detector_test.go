package blob

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/soocke/splash-fisher/config"
)

func TestAccept_AppliesRadiusAndFill(t *testing.T) {
	d := NewDetector(config.ColorRange{}, Filter{MinRadius: 15, MaxRadius: 100, MinFill: 0.6}, nil)

	full := math.Pi * 20 * 20
	cases := []struct {
		name   string
		radius float64
		area   float64
		want   bool
	}{
		{"filled disc", 20, full * 0.9, true},
		{"too small", 10, math.Pi * 100, false},
		{"too large", 120, math.Pi * 120 * 120, false},
		{"sparse ring", 20, full * 0.3, false},
		{"degenerate", 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := d.accept(50, 50, tc.radius, tc.area)
			if ok != tc.want {
				t.Fatalf("accept(r=%v, area=%v) = %v, want %v", tc.radius, tc.area, ok, tc.want)
			}
		})
	}
}

func TestLargest(t *testing.T) {
	if _, ok := largest(nil); ok {
		t.Fatalf("empty input should report nothing")
	}
	got, _ := largest([]Blob{{Area: 60}, {Area: 300, Center: image.Pt(4, 5)}, {Area: 120}})
	if got.Center != image.Pt(4, 5) {
		t.Fatalf("expected largest blob, got %+v", got)
	}
}

// TestDetect_FindsMarkerDisc draws one marker-coloured disc on a dark
// background and expects its centre back in screen coordinates.
func TestDetect_FindsMarkerDisc(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 200, 160))
	draw.Draw(frame, frame.Bounds(), &image.Uniform{color.RGBA{A: 255}}, image.Point{}, draw.Src)
	// RGB(33,54,54) is HSV (90,99,54) in OpenCV units.
	marker := color.RGBA{R: 33, G: 54, B: 54, A: 255}
	cx, cy, r := 100, 80, 25
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r {
				frame.SetRGBA(x, y, marker)
			}
		}
	}
	shifted := *frame
	shifted.Rect = frame.Rect.Add(image.Pt(300, 200))

	rng := config.ColorRange{{80, 60, 40}, {100, 140, 70}}
	d := NewDetector(rng, Filter{MinRadius: 15, MaxRadius: 100, MinFill: 0.6}, nil)
	pts, avg := d.FindMarkers(&shifted)
	if len(pts) != 1 {
		t.Fatalf("expected one marker, got %v", pts)
	}
	if dx, dy := pts[0].X-400, pts[0].Y-280; dx*dx+dy*dy > 4 {
		t.Fatalf("marker centre off: %v", pts[0])
	}
	if avg < 20 || avg > 30 {
		t.Fatalf("average radius %v outside expected range", avg)
	}
}
