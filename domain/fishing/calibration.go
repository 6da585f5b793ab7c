package fishing

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/soocke/splash-fisher/domain/target"
)

// CalibrationSettings bound the calibration passes.
type CalibrationSettings struct {
	Samples       int           // primary pass target
	Duration      time.Duration // primary and retry pass limit
	ExtraSamples  int           // supplementary pass target
	ExtraDuration time.Duration
	Interval      time.Duration // between frames
	HoldDelay     time.Duration // after pressing the button
	Margin        int           // px added around the observed range
	StartSamples  int           // samples averaged for the start position
}

// calibrator samples the moving navigation marker while the control button
// is held.
type calibrator struct {
	cfg       CalibrationSettings
	frames    FrameSource
	input     Input
	markers   MarkerFinder
	btn       *button
	artifacts Artifacts
	keepGoing func() bool
	sleep     func(time.Duration)
	now       func() time.Time
	logger    *slog.Logger

	trace []int
	steps int
}

// Trace returns the y coordinates observed on every iteration so far,
// marker positions where found and the cursor otherwise.
func (c *calibrator) Trace() []int { return c.trace }

// Run collects up to minSamples samples within maxDuration. It returns at
// once, without touching the button, when either bound is not positive.
// The button is released on every return path.
func (c *calibrator) Run(minSamples int, maxDuration time.Duration, prefix string) ([]Sample, error) {
	if minSamples <= 0 || maxDuration <= 0 {
		return nil, nil
	}
	if err := c.btn.Hold(); err != nil {
		return nil, fmt.Errorf("calibration hold: %w", err)
	}
	defer c.btn.Release()
	c.sleep(c.cfg.HoldDelay)

	var samples []Sample
	start := c.now()
	for len(samples) < minSamples && c.now().Sub(start) < maxDuration && c.keepGoing() {
		frame, err := c.frames.Capture()
		if err != nil {
			c.logger.Warn("calibration capture failed", "error", err)
			c.sleep(c.cfg.Interval)
			continue
		}
		markers, radius := c.markers.FindMarkers(frame)
		cursor, err := c.input.CursorPosition()
		if err != nil {
			return samples, fmt.Errorf("calibration cursor: %w", err)
		}
		if p, ok := target.Select(markers, cursor, nil); ok {
			samples = append(samples, Sample{Elapsed: c.now().Sub(start), Pos: p, Size: radius})
			c.trace = append(c.trace, p.Y)
			c.steps++
			if c.artifacts != nil {
				if err := c.artifacts.CalibrationStep(prefix, c.steps, frame, markers, p); err != nil {
					c.logger.Warn("calibration artifact failed", "error", err)
				}
			}
			c.logger.Debug("calibration sample", "pass", prefix, "x", p.X, "y", p.Y, "radius", radius)
		} else {
			c.trace = append(c.trace, cursor.Y)
		}
		c.sleep(c.cfg.Interval)
	}
	c.logger.Info("calibration pass finished", "pass", passName(prefix), "samples", len(samples), "elapsed", c.now().Sub(start))
	return samples, nil
}

// Calibrate runs the primary pass, a retry for any shortfall and, when
// anything was collected, a supplementary pass.
func (c *calibrator) Calibrate() ([]Sample, error) {
	s := c.cfg
	samples, err := c.Run(s.Samples, s.Duration, "")
	if err != nil {
		return samples, err
	}
	if short := s.Samples - len(samples); short > 0 && c.keepGoing() {
		c.logger.Info("calibration retry", "shortfall", short)
		more, err := c.Run(short, s.Duration, "retry_")
		samples = append(samples, more...)
		if err != nil {
			return samples, err
		}
	}
	if len(samples) > 0 && c.keepGoing() {
		more, err := c.Run(s.ExtraSamples, s.ExtraDuration, "additional_")
		samples = append(samples, more...)
		if err != nil {
			return samples, err
		}
	} else if len(samples) == 0 {
		c.logger.Warn("no calibration samples collected")
	}
	return samples, nil
}

func passName(prefix string) string {
	if prefix == "" {
		return "primary"
	}
	return strings.TrimSuffix(prefix, "_")
}
