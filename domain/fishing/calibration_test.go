package fishing

import (
	"image"
	"testing"
	"time"
)

func newTestCalibrator(in *fakeInput, markers MarkerFinder, clock *fakeClock, cfg CalibrationSettings) *calibrator {
	return &calibrator{
		cfg:       cfg,
		frames:    fakeFrames{},
		input:     in,
		markers:   markers,
		btn:       &button{input: in, logger: discardLogger},
		keepGoing: func() bool { return true },
		sleep:     clock.Sleep,
		now:       clock.Now,
		logger:    discardLogger,
	}
}

func defaultCalibration() CalibrationSettings {
	return CalibrationSettings{
		Samples:       10,
		Duration:      20 * time.Second,
		ExtraSamples:  5,
		ExtraDuration: 10 * time.Second,
		Interval:      100 * time.Millisecond,
		HoldDelay:     200 * time.Millisecond,
		Margin:        50,
		StartSamples:  5,
	}
}

func TestCalibratorRun_ZeroBoundsReturnImmediately(t *testing.T) {
	in := newFakeInput(image.Pt(0, 0))
	clock := newFakeClock()
	c := newTestCalibrator(in, &scriptedMarkers{markers: [][]image.Point{{{5, 5}}}}, clock, defaultCalibration())
	start := clock.Now()

	for _, tc := range []struct {
		n int
		d time.Duration
	}{{0, time.Second}, {5, 0}, {-1, -1}} {
		samples, err := c.Run(tc.n, tc.d, "")
		if err != nil || len(samples) != 0 {
			t.Fatalf("Run(%d,%v) = %v, %v; want empty", tc.n, tc.d, samples, err)
		}
	}
	_, downs, ups, _ := in.snapshot()
	if downs != 0 || ups != 0 {
		t.Fatalf("button should not be touched, downs=%d ups=%d", downs, ups)
	}
	if !clock.Now().Equal(start) {
		t.Fatalf("zero-bound calibration should not sleep")
	}
}

func TestCalibratorRun_SamplesNearestMarker(t *testing.T) {
	in := newFakeInput(image.Pt(100, 100))
	markers := &scriptedMarkers{markers: [][]image.Point{
		{{400, 400}, {110, 120}},
		nil,
		{{90, 95}},
	}}
	c := newTestCalibrator(in, markers, newFakeClock(), defaultCalibration())

	samples, err := c.Run(3, 10*time.Second, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	if samples[0].Pos != image.Pt(110, 120) || samples[1].Pos != image.Pt(90, 95) {
		t.Fatalf("unexpected sample positions %+v", samples)
	}
	if samples[0].Size != 20 {
		t.Fatalf("sample size should carry marker radius, got %v", samples[0].Size)
	}
	if !(samples[0].Elapsed < samples[1].Elapsed) {
		t.Fatalf("elapsed must increase: %+v", samples)
	}
	trace := c.Trace()
	if len(trace) != 4 || trace[1] != 100 {
		t.Fatalf("miss should record cursor y in trace, got %v", trace)
	}
	_, downs, ups, _ := in.snapshot()
	if downs != 1 || ups != 1 {
		t.Fatalf("button should be held once and released once, downs=%d ups=%d", downs, ups)
	}
}

func TestCalibratorRun_StopsWhenFlagsSayStop(t *testing.T) {
	in := newFakeInput(image.Pt(0, 0))
	c := newTestCalibrator(in, &scriptedMarkers{markers: [][]image.Point{{{1, 1}}}}, newFakeClock(), defaultCalibration())
	calls := 0
	c.keepGoing = func() bool {
		calls++
		return calls <= 2
	}
	samples, _ := c.Run(10, 20*time.Second, "")
	if len(samples) != 2 {
		t.Fatalf("expected loop to stop after 2 samples, got %d", len(samples))
	}
	_, downs, ups, _ := in.snapshot()
	if downs != 1 || ups != 1 {
		t.Fatalf("button must be released on cancellation, downs=%d ups=%d", downs, ups)
	}
}

func TestCalibrate_EscalationWithNoMarkers(t *testing.T) {
	in := newFakeInput(image.Pt(0, 0))
	clock := newFakeClock()
	c := newTestCalibrator(in, &scriptedMarkers{}, clock, defaultCalibration())
	start := clock.Now()

	samples, err := c.Calibrate()
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 0 {
		t.Fatalf("expected no samples, got %d", len(samples))
	}
	_, downs, ups, _ := in.snapshot()
	if downs != 2 || ups != 2 {
		t.Fatalf("primary and retry passes expected, downs=%d ups=%d", downs, ups)
	}
	if el := clock.Now().Sub(start); el < 40*time.Second || el > 41*time.Second {
		t.Fatalf("two 20s passes expected, took %v", el)
	}
}

func TestCalibrate_SupplementaryPassAfterSuccess(t *testing.T) {
	in := newFakeInput(image.Pt(0, 0))
	c := newTestCalibrator(in, &scriptedMarkers{markers: [][]image.Point{{{10, 10}}}}, newFakeClock(), defaultCalibration())

	samples, err := c.Calibrate()
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 15 {
		t.Fatalf("expected 10 primary + 5 supplementary samples, got %d", len(samples))
	}
	_, downs, _, _ := in.snapshot()
	if downs != 2 {
		t.Fatalf("expected primary and supplementary passes, got %d", downs)
	}
}

func TestCalibrate_RetryRequestsShortfall(t *testing.T) {
	in := newFakeInput(image.Pt(0, 0))
	// Markers appear on the first 4 frames only, then vanish until the retry
	// pass, which finds them again.
	script := make([][]image.Point, 0, 400)
	for i := 0; i < 4; i++ {
		script = append(script, []image.Point{{10, 10}})
	}
	for i := 0; i < 196; i++ {
		script = append(script, nil)
	}
	script = append(script, []image.Point{{10, 12}})
	c := newTestCalibrator(in, &scriptedMarkers{markers: script}, newFakeClock(), defaultCalibration())

	samples, err := c.Calibrate()
	if err != nil {
		t.Fatal(err)
	}
	// 4 primary + 6 retry + 5 supplementary.
	if len(samples) != 15 {
		t.Fatalf("expected 15 samples, got %d", len(samples))
	}
	if samples[4].Pos != image.Pt(10, 12) {
		t.Fatalf("retry samples should follow primary ones, got %+v", samples[4])
	}
}
