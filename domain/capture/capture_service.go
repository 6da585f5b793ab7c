package capture

import (
	"errors"
	"image"
	"log/slog"
	"sync/atomic"
	"time"
)

const captureStatsLogInterval = 5 * time.Second

// ErrNoFrame is returned when the grabber yields neither an image nor an error.
var ErrNoFrame = errors.New("capture: no frame")

// Service grabs frames on demand (full screen or a configured region) and
// keeps capture instrumentation. It holds no frame history.
type Service struct {
	grabber      Grabber
	logger       *slog.Logger
	region       atomic.Pointer[image.Rectangle]
	captures     atomic.Uint64
	failures     atomic.Uint64
	captureNanos atomic.Uint64
	lastCapture  atomic.Int64
	lastLog      atomic.Int64
	now          func() time.Time
}

// NewService constructs a capture service backed by grabber.
func NewService(logger *slog.Logger, grabber Grabber) *Service {
	return &Service{grabber: grabber, logger: logger, now: time.Now}
}

// SetRegion restricts capture to r. An empty rectangle restores full-screen capture.
func (s *Service) SetRegion(r image.Rectangle) {
	r = r.Canon()
	s.region.Store(&r)
}

// Region returns the current capture region (empty for full screen).
func (s *Service) Region() image.Rectangle {
	if r := s.region.Load(); r != nil {
		return *r
	}
	return image.Rectangle{}
}

// Capture grabs a fresh frame. The frame's bounds are in screen coordinates.
func (s *Service) Capture() (*image.RGBA, error) {
	start := s.now()
	region := s.Region()
	img, err := s.grabber.Grab(region)
	if err == nil && img == nil {
		err = ErrNoFrame
	}
	if err != nil {
		s.failures.Add(1)
		if s.logger != nil {
			s.logger.Error("capture failed", "region", region.String(), "error", err)
		}
		return nil, err
	}
	origin := region.Min
	if region.Empty() {
		if b, berr := s.grabber.Bounds(); berr == nil {
			origin = b.Min
		}
	}
	img = toScreen(img, origin)

	end := s.now()
	s.captureNanos.Add(uint64(end.Sub(start).Nanoseconds()))
	s.captures.Add(1)
	s.lastCapture.Store(end.UnixNano())
	if last := s.lastLog.Load(); end.UnixNano()-last >= int64(captureStatsLogInterval) {
		if s.lastLog.CompareAndSwap(last, end.UnixNano()) {
			s.logStats()
		}
	}
	return img, nil
}

// ScreenBounds reports the bounds of the captured screen or display.
func (s *Service) ScreenBounds() (image.Rectangle, error) { return s.grabber.Bounds() }

// Stats returns capture counters and the average grab latency.
func (s *Service) Stats() CaptureStats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	var last time.Time
	if ns := s.lastCapture.Load(); ns != 0 {
		last = time.Unix(0, ns)
	}
	return CaptureStats{
		Captures:         captures,
		Failures:         s.failures.Load(),
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      last,
	}
}

func (s *Service) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"failures", stats.Failures,
		"avg_capture", stats.AvgCapture,
	)
}

var _ FrameSource = (*Service)(nil)
var _ RegionSetter = (*Service)(nil)
