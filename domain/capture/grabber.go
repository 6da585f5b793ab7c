package capture

import (
	"fmt"
	"image"

	kbinani "github.com/kbinani/screenshot"
	"github.com/vova616/screenshot"
)

// Grabber captures a screen region. An empty region means the whole screen
// (or the whole configured display). Returned images may have a zero origin;
// the service translates them into screen coordinates.
type Grabber interface {
	Grab(region image.Rectangle) (*image.RGBA, error)
	Bounds() (image.Rectangle, error)
}

// screenGrabber captures the primary screen.
type screenGrabber struct{}

func (screenGrabber) Grab(region image.Rectangle) (*image.RGBA, error) {
	if region.Empty() {
		return screenshot.CaptureScreen()
	}
	return screenshot.CaptureRect(region)
}

func (screenGrabber) Bounds() (image.Rectangle, error) { return screenshot.ScreenRect() }

// displayGrabber captures one display of a multi-monitor setup.
type displayGrabber struct{ index int }

func (g displayGrabber) Grab(region image.Rectangle) (*image.RGBA, error) {
	if region.Empty() {
		return kbinani.CaptureDisplay(g.index)
	}
	return kbinani.CaptureRect(region)
}

func (g displayGrabber) Bounds() (image.Rectangle, error) {
	return kbinani.GetDisplayBounds(g.index), nil
}

// NewGrabber returns a grabber for display, or for the primary screen when
// display is negative.
func NewGrabber(display int) (Grabber, error) {
	if display < 0 {
		return screenGrabber{}, nil
	}
	if n := kbinani.NumActiveDisplays(); display >= n {
		return nil, fmt.Errorf("capture: display %d out of range (%d active)", display, n)
	}
	return displayGrabber{index: display}, nil
}

// toScreen re-bases img so its bounds start at origin. Pixel data is shared.
func toScreen(img *image.RGBA, origin image.Point) *image.RGBA {
	if img == nil || img.Rect.Min == origin {
		return img
	}
	out := *img
	out.Rect = img.Rect.Sub(img.Rect.Min).Add(origin)
	return &out
}
