// Package motion turns target positions into relative cursor movement.
package motion

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"time"
)

// Mover is the slice of the input port motion needs.
type Mover interface {
	MoveRelative(dx, dy int) error
	ScreenSize() (int, int)
}

// DefaultEpsilon is the distance below which a target counts as reached.
const DefaultEpsilon = 1.0

// Controller issues cursor movement toward targets.
type Controller struct {
	mover   Mover
	epsilon float64
	rng     *rand.Rand
	sleep   func(time.Duration)
}

// Option configures a Controller.
type Option func(*Controller)

// WithEpsilon overrides the reached threshold.
func WithEpsilon(eps float64) Option {
	return func(c *Controller) {
		if eps > 0 {
			c.epsilon = eps
		}
	}
}

// WithRand supplies the jitter and delay source.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) {
		if r != nil {
			c.rng = r
		}
	}
}

// WithSleep replaces time.Sleep between glide steps.
func WithSleep(fn func(time.Duration)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// NewController returns a controller driving m.
func NewController(m Mover, opts ...Option) *Controller {
	c := &Controller{
		mover:   m,
		epsilon: DefaultEpsilon,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		sleep:   time.Sleep,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// StepTowards issues at most one relative move from cur toward target and
// reports whether the target was already within epsilon. The move is scaled
// to maxStep (no limit when maxStep <= 0), a non-zero axis always moves at
// least one pixel, and no axis moves past the target.
func (c *Controller) StepTowards(cur, target image.Point, maxStep float64) (bool, error) {
	dx, dy, reached := Step(cur, target, maxStep, c.epsilon)
	if reached {
		return true, nil
	}
	if err := c.mover.MoveRelative(dx, dy); err != nil {
		return false, fmt.Errorf("motion: step (%d,%d): %w", dx, dy, err)
	}
	return false, nil
}

// Step computes the delta StepTowards would issue.
func Step(cur, target image.Point, maxStep, epsilon float64) (dx, dy int, reached bool) {
	rx, ry := float64(target.X-cur.X), float64(target.Y-cur.Y)
	dist := math.Hypot(rx, ry)
	if dist < epsilon {
		return 0, 0, true
	}
	scale := 1.0
	if maxStep > 0 && dist > maxStep {
		scale = maxStep / dist
	}
	dx = axisStep(target.X-cur.X, rx*scale)
	dy = axisStep(target.Y-cur.Y, ry*scale)
	if dx == 0 && dy == 0 {
		// Only reachable with a non-positive epsilon.
		return 0, 0, true
	}
	return dx, dy, false
}

// axisStep rounds a scaled delta, keeping at least one pixel of motion on a
// non-zero axis and never exceeding the remaining distance.
func axisStep(remaining int, scaled float64) int {
	if remaining == 0 {
		return 0
	}
	s := int(math.Round(scaled))
	if s == 0 {
		if remaining > 0 {
			return 1
		}
		return -1
	}
	if abs(s) > abs(remaining) {
		return remaining
	}
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
