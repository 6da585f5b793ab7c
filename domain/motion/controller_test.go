package motion

import (
	"errors"
	"image"
	"math"
	"math/rand/v2"
	"testing"
	"time"
)

// fakeMover tracks an absolute cursor from relative moves.
type fakeMover struct {
	pos   image.Point
	w, h  int
	moves []image.Point
	err   error
}

func (m *fakeMover) MoveRelative(dx, dy int) error {
	if m.err != nil {
		return m.err
	}
	m.moves = append(m.moves, image.Pt(dx, dy))
	m.pos = m.pos.Add(image.Pt(dx, dy))
	return nil
}

func (m *fakeMover) ScreenSize() (int, int) { return m.w, m.h }

func noSleep(time.Duration) {}

func TestStepTowards_ConvergesWithoutOvershoot(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 500; trial++ {
		start := image.Pt(rng.IntN(2000)-1000, rng.IntN(2000)-1000)
		target := image.Pt(rng.IntN(2000)-1000, rng.IntN(2000)-1000)
		maxStep := float64(rng.IntN(250)) + 0.5
		m := &fakeMover{pos: start}
		c := NewController(m, WithSleep(noSleep))

		dist := math.Hypot(float64(target.X-start.X), float64(target.Y-start.Y))
		bound := int(math.Ceil(dist))
		calls := 0
		for {
			prev := m.pos
			reached, err := c.StepTowards(m.pos, target, maxStep)
			if err != nil {
				t.Fatal(err)
			}
			if reached {
				break
			}
			calls++
			if calls > bound {
				t.Fatalf("trial %d: %v->%v maxStep %v exceeded %d steps", trial, start, target, maxStep, bound)
			}
			d := m.pos.Sub(prev)
			if d == (image.Point{}) {
				t.Fatalf("trial %d: zero delta issued at %v", trial, prev)
			}
			if overshoot(prev.X, m.pos.X, target.X) || overshoot(prev.Y, m.pos.Y, target.Y) {
				t.Fatalf("trial %d: step %v from %v passed target %v", trial, d, prev, target)
			}
		}
		if m.pos != target {
			t.Fatalf("trial %d: stopped at %v, want %v", trial, m.pos, target)
		}
	}
}

// overshoot reports whether moving from a to b crossed t.
func overshoot(a, b, t int) bool {
	return (a <= t && b > t) || (a >= t && b < t)
}

func TestStepTowards_ScalesToMaxStep(t *testing.T) {
	m := &fakeMover{}
	c := NewController(m)
	reached, err := c.StepTowards(image.Pt(0, 0), image.Pt(300, 400), 100)
	if err != nil || reached {
		t.Fatalf("unexpected reached=%v err=%v", reached, err)
	}
	if len(m.moves) != 1 || m.moves[0] != image.Pt(60, 80) {
		t.Fatalf("expected single (60,80) move, got %v", m.moves)
	}
}

func TestStepTowards_UnitFloorOnSmallAxis(t *testing.T) {
	dx, dy, reached := Step(image.Pt(0, 0), image.Pt(1000, -2), 10, DefaultEpsilon)
	if reached || dx != 10 || dy != -1 {
		t.Fatalf("expected (10,-1), got (%d,%d) reached=%v", dx, dy, reached)
	}
}

func TestStepTowards_ReachedIssuesNoMove(t *testing.T) {
	m := &fakeMover{}
	c := NewController(m)
	reached, err := c.StepTowards(image.Pt(5, 5), image.Pt(5, 5), 50)
	if err != nil || !reached {
		t.Fatalf("same point must be reached, got %v %v", reached, err)
	}
	if len(m.moves) != 0 {
		t.Fatalf("no movement expected, got %v", m.moves)
	}
}

func TestStepTowards_PropagatesInjectionError(t *testing.T) {
	boom := errors.New("denied")
	c := NewController(&fakeMover{err: boom})
	if _, err := c.StepTowards(image.Pt(0, 0), image.Pt(10, 0), 5); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped injection error, got %v", err)
	}
}

func TestGlide_ClampsAndLandsOnTarget(t *testing.T) {
	m := &fakeMover{pos: image.Pt(5, 5), w: 100, h: 80}
	var slept []time.Duration
	c := NewController(m, WithRand(rand.New(rand.NewPCG(7, 7))), WithSleep(func(d time.Duration) { slept = append(slept, d) }))

	opts := DefaultGlideOptions()
	path := c.GlidePath(image.Pt(5, 5), image.Pt(150, -20), opts)
	if len(path) != opts.Steps {
		t.Fatalf("expected %d points, got %d", opts.Steps, len(path))
	}
	for i, p := range path {
		if p.X < 0 || p.X > 99 || p.Y < 0 || p.Y > 79 {
			t.Fatalf("point %d %v outside screen", i, p)
		}
	}

	if err := c.Glide(image.Pt(5, 5), image.Pt(150, -20), opts); err != nil {
		t.Fatal(err)
	}
	if m.pos != image.Pt(99, 0) {
		t.Fatalf("glide should land on clamped target, got %v", m.pos)
	}
	if len(slept) != opts.Steps {
		t.Fatalf("expected one delay per step, got %d", len(slept))
	}
	for _, d := range slept {
		if d < opts.MinDelay || d > opts.MaxDelay {
			t.Fatalf("delay %v outside [%v,%v]", d, opts.MinDelay, opts.MaxDelay)
		}
	}
}

func TestGlidePath_JitterBounded(t *testing.T) {
	m := &fakeMover{w: 4000, h: 4000}
	c := NewController(m, WithRand(rand.New(rand.NewPCG(3, 9))))
	from, to := image.Pt(1000, 1000), image.Pt(1300, 1600)
	opts := GlideOptions{Steps: 30, Jitter: 3}
	for i, p := range c.GlidePath(from, to, opts) {
		tt := float64(i+1) / 30
		ex := from.X + int(math.Round(300*tt))
		ey := from.Y + int(math.Round(600*tt))
		if abs(p.X-ex) > 3 || abs(p.Y-ey) > 3 {
			t.Fatalf("point %d %v strays from (%d,%d)", i, p, ex, ey)
		}
	}
}
