package motion

import (
	"fmt"
	"image"
	"math"
	"time"
)

// GlideOptions shape a scripted interpolated move.
type GlideOptions struct {
	Steps    int           // default 30
	MinDelay time.Duration // default 10ms
	MaxDelay time.Duration // default 30ms
	Jitter   int           // max px per axis on intermediate points, default 3
}

// DefaultGlideOptions returns the usual glide shape.
func DefaultGlideOptions() GlideOptions {
	return GlideOptions{Steps: 30, MinDelay: 10 * time.Millisecond, MaxDelay: 30 * time.Millisecond, Jitter: 3}
}

func (o GlideOptions) withDefaults() GlideOptions {
	d := DefaultGlideOptions()
	if o.Steps <= 0 {
		o.Steps = d.Steps
	}
	if o.MinDelay <= 0 {
		o.MinDelay = d.MinDelay
	}
	if o.MaxDelay < o.MinDelay {
		o.MaxDelay = o.MinDelay
	}
	if o.Jitter < 0 {
		o.Jitter = 0
	}
	return o
}

// GlidePath returns the clamped points visited by a glide from from to to.
// The last point is the clamped target without jitter.
func (c *Controller) GlidePath(from, to image.Point, opts GlideOptions) []image.Point {
	opts = opts.withDefaults()
	w, h := c.mover.ScreenSize()
	pts := make([]image.Point, opts.Steps)
	for i := 1; i <= opts.Steps; i++ {
		t := float64(i) / float64(opts.Steps)
		p := image.Pt(
			from.X+int(math.Round(float64(to.X-from.X)*t)),
			from.Y+int(math.Round(float64(to.Y-from.Y)*t)),
		)
		if i == opts.Steps {
			p = to
		} else if opts.Jitter > 0 {
			p.X += c.rng.IntN(2*opts.Jitter+1) - opts.Jitter
			p.Y += c.rng.IntN(2*opts.Jitter+1) - opts.Jitter
		}
		pts[i-1] = clampPoint(p, w, h)
	}
	return pts
}

// Glide moves the cursor from from to to along GlidePath, sleeping a random
// delay in [MinDelay, MaxDelay] after each step.
func (c *Controller) Glide(from, to image.Point, opts GlideOptions) error {
	opts = opts.withDefaults()
	prev := from
	for i, p := range c.GlidePath(from, to, opts) {
		d := p.Sub(prev)
		if d.X != 0 || d.Y != 0 {
			if err := c.mover.MoveRelative(d.X, d.Y); err != nil {
				return fmt.Errorf("motion: glide step %d: %w", i, err)
			}
		}
		prev = p
		c.sleep(c.delay(opts))
	}
	return nil
}

func (c *Controller) delay(opts GlideOptions) time.Duration {
	span := opts.MaxDelay - opts.MinDelay
	if span <= 0 {
		return opts.MinDelay
	}
	return opts.MinDelay + time.Duration(c.rng.Int64N(int64(span)+1))
}

func clampPoint(p image.Point, w, h int) image.Point {
	if w > 0 {
		p.X = clampInt(p.X, 0, w-1)
	}
	if h > 0 {
		p.Y = clampInt(p.Y, 0, h-1)
	}
	return p
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
