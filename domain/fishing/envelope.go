package fishing

import (
	"image"
	"math"
	"time"

	"github.com/soocke/splash-fisher/domain/target"
)

// Sample is one calibration observation of the moving marker.
type Sample struct {
	Elapsed time.Duration
	Pos     image.Point
	Size    float64
}

// Envelope is the calibrated vertical movement of the navigation marker.
type Envelope struct {
	MinY, MaxY int
	Speed      float64 // px/s
	Start      image.Point
	Defaulted  bool
}

// Band returns the vertical band splash candidates must fall in.
func (e Envelope) Band() target.Band {
	return target.Band{Min: e.MinY, Max: e.MaxY, Axis: target.AxisY}
}

// defaultSpeed is used when fewer than two samples exist.
const defaultSpeed = 100

// DefaultEnvelope spans the middle 40% of the screen height.
func DefaultEnvelope(screenW, screenH int) Envelope {
	return Envelope{
		MinY:      int(float64(screenH) * 0.3),
		MaxY:      int(float64(screenH) * 0.7),
		Speed:     defaultSpeed,
		Start:     image.Pt(screenW/2, screenH/2),
		Defaulted: true,
	}
}

// DeriveEnvelope computes the movement envelope from calibration samples.
// With no samples it returns DefaultEnvelope.
func DeriveEnvelope(samples []Sample, s CalibrationSettings, screenW, screenH int) Envelope {
	if len(samples) == 0 {
		return DefaultEnvelope(screenW, screenH)
	}
	minY, maxY := samples[0].Pos.Y, samples[0].Pos.Y
	for _, sm := range samples[1:] {
		minY = min(minY, sm.Pos.Y)
		maxY = max(maxY, sm.Pos.Y)
	}

	speed := float64(defaultSpeed)
	if len(samples) > 1 && s.Interval > 0 {
		var sum float64
		for i := 1; i < len(samples); i++ {
			sum += math.Abs(float64(samples[i].Pos.Y - samples[i-1].Pos.Y))
		}
		speed = sum / float64(len(samples)-1) / s.Interval.Seconds()
	}

	env := Envelope{
		MinY:  minY - s.Margin,
		MaxY:  maxY + s.Margin,
		Speed: speed,
	}
	n := s.StartSamples
	if n > 0 && len(samples) >= n {
		var sum float64
		for _, sm := range samples[:n] {
			sum += float64(sm.Pos.Y)
		}
		env.Start = image.Pt(screenW/2, int(sum/float64(n)))
	} else {
		env.Start = image.Pt(screenW/2, (env.MinY+env.MaxY)/2)
	}
	return env
}
