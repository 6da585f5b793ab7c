package capture

import "image"

// FrameSource provides on-demand frames in screen coordinates.
type FrameSource interface {
	Capture() (*image.RGBA, error)
}

// RegionSetter narrows capture to a sub-rectangle of the screen.
type RegionSetter interface {
	SetRegion(image.Rectangle)
	Region() image.Rectangle
}
