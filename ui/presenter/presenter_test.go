package presenter

import (
	"strings"
	"testing"
	"time"

	"github.com/soocke/splash-fisher/domain/fishing"
	"github.com/soocke/splash-fisher/ui/model"
)

type mockStateView struct {
	labels  []string
	running []bool
}

func (v *mockStateView) SetStateLabel(s string) { v.labels = append(v.labels, s) }
func (v *mockStateView) SetRunning(b bool)      { v.running = append(v.running, b) }

func TestStatePresenter_FlushesLatestOnTick(t *testing.T) {
	view := &mockStateView{}
	p := NewStatePresenter(view)

	p.Tick(time.Now())
	if len(view.labels) != 0 {
		t.Fatalf("no pending state should not update the view")
	}

	p.OnState(fishing.StateIdle, fishing.StateCasting)
	p.OnState(fishing.StateCasting, fishing.StateCalibrating)
	p.Tick(time.Now())
	if len(view.labels) != 1 || view.labels[0] != "State: "+fishing.StateCalibrating.String() {
		t.Fatalf("expected single calibrating label, got %v", view.labels)
	}
	if !view.running[0] {
		t.Fatalf("calibrating should report running")
	}

	// Same state again is not re-rendered.
	p.OnState(fishing.StateCalibrating, fishing.StateCalibrating)
	p.Tick(time.Now())
	if len(view.labels) != 1 {
		t.Fatalf("repeated state re-rendered: %v", view.labels)
	}

	p.OnState(fishing.StateTracking, fishing.StateStopped)
	p.Tick(time.Now())
	if len(view.running) != 2 || view.running[1] {
		t.Fatalf("stopped should report not running, got %v", view.running)
	}
}

type mockRun struct {
	running bool
	stats   fishing.Stats
}

func (r *mockRun) Running() bool        { return r.running }
func (r *mockRun) Stats() fishing.Stats { return r.stats }

type mockSessionView struct {
	session, total time.Duration
	counters       []string
}

func (v *mockSessionView) SetSession(s, t time.Duration) { v.session, v.total = s, t }
func (v *mockSessionView) SetCounters(s string)          { v.counters = append(v.counters, s) }

func TestSessionPresenter_Tick(t *testing.T) {
	run := &mockRun{running: true}
	view := &mockSessionView{}
	p := NewSessionPresenter(model.NewSessionModel(), run, view)
	base := time.Unix(100, 0)

	p.Tick(base)
	run.stats = fishing.Stats{Targets: 3, Misses: 1, Catches: 2}
	p.Tick(base.Add(4 * time.Second))
	if view.session != 4*time.Second || view.total != 4*time.Second {
		t.Fatalf("expected 4s session, got %v/%v", view.session, view.total)
	}
	if len(view.counters) != 2 {
		t.Fatalf("expected counters updated twice, got %v", view.counters)
	}
	if got := view.counters[1]; got != "Runs: 1  Targets: 3  Misses: 1  Catches: 2" {
		t.Fatalf("unexpected counters %q", got)
	}
	p.Tick(base.Add(5 * time.Second))
	if len(view.counters) != 2 {
		t.Fatalf("unchanged counters should not be re-rendered")
	}
}

type mockLogs struct {
	lines   []string
	dropped uint64
}

func (l *mockLogs) Drain() []string {
	out := l.lines
	l.lines = nil
	return out
}
func (l *mockLogs) Dropped() uint64 { return l.dropped }

type mockLogView struct{ lines []string }

func (v *mockLogView) AppendLog(lines []string) { v.lines = append(v.lines, lines...) }

func TestLogPresenter_DrainsAndReportsDrops(t *testing.T) {
	src := &mockLogs{lines: []string{"a", "b"}}
	view := &mockLogView{}
	p := NewLogPresenter(src, view)

	p.Tick(time.Now())
	if strings.Join(view.lines, ",") != "a,b" {
		t.Fatalf("unexpected lines %v", view.lines)
	}
	p.Tick(time.Now())
	if len(view.lines) != 2 {
		t.Fatalf("empty drain should append nothing")
	}

	src.lines = []string{"c"}
	src.dropped = 5
	p.Tick(time.Now())
	if len(view.lines) != 4 || !strings.Contains(view.lines[2], "5 log lines dropped") || view.lines[3] != "c" {
		t.Fatalf("expected drop notice before new line, got %v", view.lines)
	}
}

type countTicker struct{ n int }

func (c *countTicker) Tick(time.Time) { c.n++ }

func TestLoop_TicksAndSchedules(t *testing.T) {
	a, b := &countTicker{}, &countTicker{}
	scheduled := 0
	l := NewLoop(func() { scheduled++ }, a, nil, b)
	l.Tick()
	l.Tick()
	if a.n != 2 || b.n != 2 || scheduled != 2 {
		t.Fatalf("unexpected counts a=%d b=%d scheduled=%d", a.n, b.n, scheduled)
	}
	var nilLoop *Loop
	nilLoop.Tick()
}
