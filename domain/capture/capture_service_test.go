package capture

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"testing"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type fakeGrabber struct {
	screen  image.Rectangle
	err     error
	regions []image.Rectangle
}

func (f *fakeGrabber) Grab(region image.Rectangle) (*image.RGBA, error) {
	f.regions = append(f.regions, region)
	if f.err != nil {
		return nil, f.err
	}
	size := f.screen.Size()
	if !region.Empty() {
		size = region.Size()
	}
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img, nil
}

func (f *fakeGrabber) Bounds() (image.Rectangle, error) { return f.screen, nil }

func TestService_RegionFramesUseScreenCoordinates(t *testing.T) {
	g := &fakeGrabber{screen: image.Rect(0, 0, 800, 600)}
	s := NewService(discardLogger, g)
	s.SetRegion(image.Rect(300, 200, 100, 50))

	img, err := s.Capture()
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	want := image.Rect(100, 50, 300, 200)
	if img.Bounds() != want {
		t.Fatalf("bounds: got %v want %v", img.Bounds(), want)
	}
	if r, _, _, _ := img.At(100, 50).RGBA(); r == 0 {
		t.Fatalf("origin pixel should map to region min")
	}
	if g.regions[0] != want {
		t.Fatalf("grabber received %v", g.regions[0])
	}
	if st := s.Stats(); st.Captures != 1 || st.Failures != 0 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestService_FullScreenUsesDisplayOrigin(t *testing.T) {
	g := &fakeGrabber{screen: image.Rect(1920, 0, 3840, 1080)}
	s := NewService(discardLogger, g)
	img, err := s.Capture()
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if img.Bounds().Min != (image.Point{X: 1920}) {
		t.Fatalf("expected display origin, got %v", img.Bounds())
	}
}

func TestService_FailureCounted(t *testing.T) {
	g := &fakeGrabber{screen: image.Rect(0, 0, 10, 10), err: errors.New("boom")}
	s := NewService(discardLogger, g)
	if _, err := s.Capture(); err == nil {
		t.Fatalf("expected error")
	}
	if st := s.Stats(); st.Failures != 1 || st.Captures != 0 {
		t.Fatalf("unexpected stats %+v", st)
	}
}
