// Package artifact writes annotated debug screenshots for a fishing session.
package artifact

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/disintegration/imaging"

	"github.com/soocke/splash-fisher/domain/fishing"
)

// Recorder saves PNG artifacts into one timestamped session directory.
type Recorder struct {
	dir    string
	logger *slog.Logger
}

// ErrNoFrame is returned when an artifact is requested without a frame.
var ErrNoFrame = errors.New("artifact: no frame")

// NewRecorder creates <base>/<YYYYmmdd_HHMMSS>/ for a session started at start.
func NewRecorder(base string, start time.Time, logger *slog.Logger) (*Recorder, error) {
	dir := filepath.Join(base, start.Format("20060102_150405"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create session dir: %w", err)
	}
	return &Recorder{dir: dir, logger: logger}, nil
}

// Factory returns an ArtifactFactory writing under base.
func Factory(base string, logger *slog.Logger) fishing.ArtifactFactory {
	return func(start time.Time) (fishing.Artifacts, error) {
		r, err := NewRecorder(base, start, logger)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// Dir is the session directory.
func (r *Recorder) Dir() string { return r.dir }

func (r *Recorder) save(name string, c *canvas) error {
	path := filepath.Join(r.dir, name)
	if err := imaging.Save(c.img, path); err != nil {
		return fmt.Errorf("artifact: save %s: %w", name, err)
	}
	if r.logger != nil {
		r.logger.Debug("artifact saved", "path", path)
	}
	return nil
}

// CalibrationStep marks detected calibration markers and the chosen one.
func (r *Recorder) CalibrationStep(prefix string, n int, frame *image.RGBA, markers []image.Point, chosen image.Point) error {
	if frame == nil {
		return ErrNoFrame
	}
	c := newCanvas(frame)
	for _, m := range markers {
		c.circle(m, 20, colMarker, 2)
	}
	c.circle(chosen, 24, colTarget, 3)
	c.label(chosen.Add(image.Pt(28, 4)), fmt.Sprintf("(%d,%d)", chosen.X, chosen.Y), colTarget)
	return r.save(fmt.Sprintf("%scalib_step_%d.png", prefix, n), c)
}

// Route shades the vertical extent of the observed calibration trace.
func (r *Recorder) Route(frame *image.RGBA, trace []int) error {
	if frame == nil {
		return ErrNoFrame
	}
	if len(trace) == 0 {
		return nil
	}
	c := newCanvas(frame)
	drawRoute(c, trace, 30)
	return r.save("circle_route_visualization.png", c)
}

// AfterCalibration shows the derived envelope and start position.
func (r *Recorder) AfterCalibration(frame *image.RGBA, env fishing.Envelope, trace []int) error {
	if frame == nil {
		return ErrNoFrame
	}
	c := newCanvas(frame)
	drawRoute(c, trace, 20)
	drawRange(c, env.MinY, env.MaxY)
	c.circle(env.Start, 10, colTarget, 3)
	if env.Defaulted {
		c.label(c.origin.Add(image.Pt(10, 20)), "default envelope", colTarget)
	}
	return r.save("step_0_after_calibration.png", c)
}

// Move annotates one tracking step: cursor, candidates, target and range.
func (r *Recorder) Move(n int, frame *image.RGBA, shot fishing.MoveShot) error {
	if frame == nil {
		return ErrNoFrame
	}
	c := newCanvas(frame)
	c.circle(shot.Cursor, 15, colCursor, 3)
	for _, p := range shot.Candidates {
		c.centeredRect(p, shot.Size, colCandidate, 2)
	}
	c.centeredRect(shot.Target, shot.Size, colTarget, 3)
	drawRoute(c, shot.Trace, 20)
	drawRange(c, shot.Band.Min, shot.Band.Max)
	return r.save(fmt.Sprintf("step_%d_move.png", n), c)
}

func drawRoute(c *canvas, trace []int, width int) {
	if len(trace) == 0 {
		return
	}
	lo, hi := slices.Min(trace), slices.Max(trace)
	c.band(lo, hi, width, colRoute, colRouteEdge)
	cx := c.origin.X + c.width()/2
	c.label(image.Pt(cx-width/2, lo-10), fmt.Sprintf("Route: %d-%d", lo, hi), colRouteEdge)
	c.circle(image.Pt(cx, lo), 8, colRoute, 8)
	c.circle(image.Pt(cx, hi), 8, colRoute, 8)
}

func drawRange(c *canvas, minY, maxY int) {
	if minY == 0 && maxY == 0 {
		return
	}
	c.hline(minY, colBand, 2)
	c.hline(maxY, colBand, 2)
	c.label(image.Pt(c.origin.X+10, minY-10), fmt.Sprintf("Y-range: %d-%d", minY, maxY), colBand)
}
