package fishing

import (
	"image"
	"log/slog"
	"sync"
	"testing"
	"time"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// fakeClock advances on Sleep so timed loops finish without waiting.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	// Yield so polling tests observe intermediate states.
	time.Sleep(50 * time.Microsecond)
}

// fakeInput tracks the cursor and button presses.
type fakeInput struct {
	mu        sync.Mutex
	pos       image.Point
	w, h      int
	downs     int
	ups       int
	keys      []string
	moves     int
	pressErr  error
	moveErr   error
	failAfter int // moves allowed before moveErr is returned
}

func newFakeInput(pos image.Point) *fakeInput {
	return &fakeInput{pos: pos, w: 1000, h: 800}
}

func (f *fakeInput) PressKey(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pressErr != nil {
		return f.pressErr
	}
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeInput) ButtonDown() error {
	f.mu.Lock()
	f.downs++
	f.mu.Unlock()
	return nil
}

func (f *fakeInput) ButtonUp() error {
	f.mu.Lock()
	f.ups++
	f.mu.Unlock()
	return nil
}

func (f *fakeInput) MoveRelative(dx, dy int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.moveErr != nil && f.moves >= f.failAfter {
		return f.moveErr
	}
	f.moves++
	f.pos = f.pos.Add(image.Pt(dx, dy))
	return nil
}

func (f *fakeInput) CursorPosition() (image.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos, nil
}

func (f *fakeInput) ScreenSize() (int, int) { return f.w, f.h }

func (f *fakeInput) snapshot() (pos image.Point, downs, ups int, keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos, f.downs, f.ups, append([]string(nil), f.keys...)
}

type fakeFrames struct{}

func (fakeFrames) Capture() (*image.RGBA, error) { return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil }

// scriptedMarkers returns markers[i] on call i and the last entry afterwards.
type scriptedMarkers struct {
	mu      sync.Mutex
	markers [][]image.Point
	calls   int
}

func (s *scriptedMarkers) FindMarkers(*image.RGBA) ([]image.Point, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := min(s.calls, len(s.markers)-1)
	s.calls++
	if i < 0 {
		return nil, 0
	}
	return s.markers[i], 20
}

type fixedSplashes struct {
	mu    sync.Mutex
	pts   []image.Point
	calls int
}

func (f *fixedSplashes) FindSplashes(*image.RGBA) ([]image.Point, image.Point) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.pts, image.Pt(16, 16)
}

func (f *fixedSplashes) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// panickySplashes reports first once and panics on every later call.
type panickySplashes struct {
	mu    sync.Mutex
	first image.Point
	calls int
}

func (p *panickySplashes) FindSplashes(*image.RGBA) ([]image.Point, image.Point) {
	p.mu.Lock()
	p.calls++
	n := p.calls
	p.mu.Unlock()
	if n > 1 {
		panic("splash detector fault")
	}
	return []image.Point{p.first}, image.Pt(16, 16)
}

type fixedCircle struct {
	pt image.Point
	ok bool
}

func (f fixedCircle) FindCircle(*image.RGBA) (image.Point, bool) { return f.pt, f.ok }

// testSettings returns fast settings with calibration disabled.
func testSettings() Settings {
	return Settings{
		CastKey:           "e",
		ConfirmKey:        "space",
		MaxStep:           100,
		HoldDelay:         200 * time.Millisecond,
		StepDelay:         10 * time.Millisecond,
		Settle:            time.Second,
		MissWait:          500 * time.Millisecond,
		PausePoll:         100 * time.Millisecond,
		MaxStepsPerTarget: 400,
		StrokePx:          200,
		Calibration: CalibrationSettings{
			Interval:     100 * time.Millisecond,
			Margin:       50,
			StartSamples: 5,
		},
		CatchTimeout:  6 * time.Second,
		CatchDistance: 10,
		CatchPoll:     50 * time.Millisecond,
	}
}

// waitForState waits up to timeout for the driver to reach expected state.
func waitForState(t *testing.T, d *Driver, expected State, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if d.State() == expected {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timeout waiting for state %v (got %v)", expected, d.State())
}

// waitFor polls cond until it holds or timeout passes.
func waitFor(t *testing.T, what string, cond func() bool, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", what)
}

type transitionRecorder struct {
	mu  sync.Mutex
	seq []State
}

// listener records transitions.
func (r *transitionRecorder) listener(prev, next State) {
	r.mu.Lock()
	r.seq = append(r.seq, next)
	r.mu.Unlock()
}

func (r *transitionRecorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.seq...)
}
