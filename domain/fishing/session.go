package fishing

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/splash-fisher/domain/motion"
	"github.com/soocke/splash-fisher/domain/target"
)

// ErrCastFailed wraps a failed cast input; it ends the session.
var ErrCastFailed = errors.New("fishing: cast input failed")

// Deps are the collaborators a Driver needs. Nav, Catch, Hotkeys and
// Artifacts are optional; an ArtifactFactory may return nil to skip output
// for one session.
type Deps struct {
	Frames    FrameSource
	Input     Input
	Splashes  SplashFinder
	Markers   MarkerFinder
	Nav       CircleFinder
	Catch     CircleFinder
	Hotkeys   HotkeySource
	Artifacts ArtifactFactory

	Rand  *rand.Rand
	Sleep func(time.Duration)
	Now   func() time.Time
	Exit  func(code int)
}

// Driver runs at most one fishing session at a time on its own goroutine.
type Driver struct {
	deps   Deps
	logger *slog.Logger
	motion *motion.Controller
	btn    *button

	flags    Flags
	active   atomic.Bool
	state    atomic.Int32
	controls chan Control
	wg       sync.WaitGroup

	mu        sync.Mutex
	settings  Settings
	listeners []StateListener
	stats     Stats
	lastErr   error
}

// NewDriver wires a driver; the session starts with Start.
func NewDriver(logger *slog.Logger, deps Deps, settings Settings) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if deps.Sleep == nil {
		deps.Sleep = time.Sleep
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Exit == nil {
		deps.Exit = os.Exit
	}
	d := &Driver{
		deps:     deps,
		logger:   logger,
		btn:      &button{input: deps.Input, logger: logger},
		controls: make(chan Control, 16),
		settings: settings,
	}
	d.motion = motion.NewController(deps.Input, motion.WithRand(deps.Rand), motion.WithSleep(deps.Sleep))
	return d
}

// SetSettings replaces the settings used by the next session.
func (d *Driver) SetSettings(s Settings) {
	d.mu.Lock()
	d.settings = s
	d.mu.Unlock()
}

// Start launches a session in mode. It returns false and logs a warning
// when a session is already running.
func (d *Driver) Start(mode MoveMode) bool {
	if !d.active.CompareAndSwap(false, true) {
		d.logger.Warn("session already running", "state", d.State().String())
		return false
	}
	d.discardControls()
	d.flags.start()

	d.mu.Lock()
	s := d.settings
	d.stats = Stats{Started: d.deps.Now()}
	d.lastErr = nil
	d.mu.Unlock()

	d.wg.Add(1)
	go d.run(mode, s)
	return true
}

// Stop asks the running session to end after the current iteration.
func (d *Driver) Stop() {
	if d.flags.Running() {
		d.logger.Info("stop requested")
	}
	d.flags.Stop()
}

// TogglePause flips the paused flag and returns the new value.
func (d *Driver) TogglePause() bool {
	p := d.flags.TogglePause()
	d.logger.Info("pause toggled", "paused", p)
	return p
}

// EmergencyExit stops the session, releases the button and terminates the
// process.
func (d *Driver) EmergencyExit() {
	d.logger.Warn("emergency exit")
	d.flags.Stop()
	d.btn.Release()
	d.deps.Exit(0)
}

// Publish queues c for the session loop. Emergency exit is handled at once.
func (d *Driver) Publish(c Control) {
	if c == ControlEmergencyExit {
		d.EmergencyExit()
		return
	}
	select {
	case d.controls <- c:
	default:
		d.logger.Warn("control queue full, dropping", "control", c.String())
	}
}

// Wait blocks until the current session, if any, has stopped.
func (d *Driver) Wait() { d.wg.Wait() }

func (d *Driver) State() State  { return State(d.state.Load()) }
func (d *Driver) Running() bool { return d.flags.Running() }
func (d *Driver) Paused() bool  { return d.flags.Paused() }

// AddListener registers l for state transitions.
func (d *Driver) AddListener(l StateListener) {
	d.mu.Lock()
	d.listeners = append(d.listeners, l)
	d.mu.Unlock()
}

// Stats returns a snapshot of the current or last session counters.
func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Err returns the error that ended the last session, if any.
func (d *Driver) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

func (d *Driver) run(mode MoveMode, s Settings) {
	defer d.wg.Done()
	defer d.finish()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("session panic", "error", r, "stack", string(debug.Stack()))
			d.setErr(fmt.Errorf("fishing: session panic: %v", r))
		}
	}()
	sess := &session{d: d, s: s, mode: mode}
	if err := sess.run(); err != nil {
		d.logger.Error("session failed", "error", err)
		d.setErr(err)
	}
}

func (d *Driver) finish() {
	d.btn.Release()
	d.mu.Lock()
	d.stats.Ended = d.deps.Now()
	st := d.stats
	d.mu.Unlock()
	d.transition(StateStopped)
	d.flags.Stop()
	d.logger.Info("session stopped", "targets", st.Targets, "catches", st.Catches, "misses", st.Misses,
		"duration", st.Ended.Sub(st.Started).Round(time.Second))
	d.active.Store(false)
}

func (d *Driver) setErr(err error) {
	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()
}

func (d *Driver) updateStats(fn func(*Stats)) {
	d.mu.Lock()
	fn(&d.stats)
	d.mu.Unlock()
}

func (d *Driver) transition(next State) {
	prev := State(d.state.Swap(int32(next)))
	if prev == next {
		return
	}
	d.logger.Debug("session state transition", "from", prev.String(), "to", next.String())
	d.mu.Lock()
	ls := slices.Clone(d.listeners)
	d.mu.Unlock()
	for _, l := range ls {
		func() {
			defer recoverLog(d.logger, "state listener panic")
			l(prev, next)
		}()
	}
}

// drainControls applies every queued control.
func (d *Driver) drainControls() {
	for {
		select {
		case c := <-d.controls:
			switch c {
			case ControlPauseToggle:
				d.TogglePause()
			case ControlStop:
				d.Stop()
			}
		default:
			return
		}
	}
}

func (d *Driver) discardControls() {
	for {
		select {
		case <-d.controls:
		default:
			return
		}
	}
}

// keepGoing applies queued controls and reports whether the current step
// loop may continue. Pausing ends the loop so the caller releases the button.
func (d *Driver) keepGoing() bool {
	d.drainControls()
	return d.flags.Running() && !d.flags.Paused()
}

// session holds the state of one run.
type session struct {
	d        *Driver
	s        Settings
	mode     MoveMode
	arts     Artifacts
	env      Envelope
	trace    []int
	step     int
	lastSeen time.Time
}

func (ss *session) run() error {
	d, s := ss.d, ss.s
	d.transition(StateCasting)
	if d.deps.Hotkeys != nil {
		stop := d.deps.Hotkeys.Listen(d.Publish)
		defer stop()
	}
	if d.deps.Artifacts != nil {
		arts, err := d.deps.Artifacts(d.deps.Now())
		if err != nil {
			d.logger.Warn("debug artifacts disabled", "error", err)
		} else if arts != nil {
			ss.arts = arts
			d.logger.Info("debug artifacts enabled", "dir", arts.Dir())
		}
	}

	d.logger.Info("session starting", "mode", ss.mode.String(), "cast_key", s.CastKey, "delay", s.StartDelay)
	d.deps.Sleep(s.StartDelay)
	if !d.flags.Running() {
		return nil
	}
	if err := d.deps.Input.PressKey(s.CastKey); err != nil {
		return fmt.Errorf("%w: %w", ErrCastFailed, err)
	}
	d.logger.Info("cast", "key", s.CastKey)
	d.deps.Sleep(s.CastSettle)
	if !d.flags.Running() {
		return nil
	}

	d.transition(StateCalibrating)
	if err := ss.calibrate(); err != nil {
		return err
	}
	d.transition(StateTracking)
	ss.afterCalibration()
	if s.GlideToStart && d.flags.Running() {
		cur, err := d.deps.Input.CursorPosition()
		if err != nil {
			return fmt.Errorf("cursor position: %w", err)
		}
		if err := d.motion.Glide(cur, ss.env.Start, s.Glide); err != nil {
			return err
		}
	}
	return ss.track()
}

func (ss *session) calibrate() error {
	d := ss.d
	w, h := d.deps.Input.ScreenSize()
	if d.deps.Markers == nil {
		ss.env = DefaultEnvelope(w, h)
		d.logger.Warn("no marker detector, using default envelope")
		return nil
	}
	cal := &calibrator{
		cfg:       ss.s.Calibration,
		frames:    d.deps.Frames,
		input:     d.deps.Input,
		markers:   d.deps.Markers,
		btn:       d.btn,
		artifacts: ss.arts,
		keepGoing: d.keepGoing,
		sleep:     d.deps.Sleep,
		now:       d.deps.Now,
		logger:    d.logger,
	}
	samples, err := cal.Calibrate()
	ss.trace = cal.Trace()
	if err != nil {
		return err
	}
	ss.env = DeriveEnvelope(samples, ss.s.Calibration, w, h)
	d.updateStats(func(st *Stats) { st.Samples = len(samples) })
	if ss.env.Defaulted {
		d.logger.Warn("calibration produced no samples, using default envelope",
			"min_y", ss.env.MinY, "max_y", ss.env.MaxY)
	} else {
		d.logger.Info("calibration complete", "samples", len(samples), "min_y", ss.env.MinY, "max_y", ss.env.MaxY,
			"speed", ss.env.Speed, "start_x", ss.env.Start.X, "start_y", ss.env.Start.Y)
	}
	if ss.arts != nil && len(ss.trace) > 0 {
		if frame, err := d.deps.Frames.Capture(); err == nil {
			if err := ss.arts.Route(frame, ss.trace); err != nil {
				d.logger.Warn("route visualization failed", "error", err)
			}
		}
	}
	return nil
}

func (ss *session) afterCalibration() {
	if ss.arts == nil {
		return
	}
	frame, err := ss.d.deps.Frames.Capture()
	if err != nil {
		ss.d.logger.Warn("capture for calibration artifact failed", "error", err)
		return
	}
	if err := ss.arts.AfterCalibration(frame, ss.env, ss.trace); err != nil {
		ss.d.logger.Warn("calibration artifact failed", "error", err)
	}
}

func (ss *session) track() error {
	d := ss.d
	ss.lastSeen = d.deps.Now()
	for {
		d.drainControls()
		if !d.flags.Running() {
			return nil
		}
		if d.flags.Paused() {
			d.transition(StatePaused)
			d.deps.Sleep(ss.s.PausePoll)
			continue
		}
		d.transition(StateTracking)
		var err error
		if ss.mode == ModeSplash {
			err = ss.followSplash()
		} else {
			err = ss.stroke()
		}
		if err != nil {
			return err
		}
	}
}

// followSplash runs one tracking iteration toward the nearest splash.
func (ss *session) followSplash() error {
	d, s := ss.d, ss.s
	frame, err := d.deps.Frames.Capture()
	if err != nil {
		d.logger.Warn("capture failed", "error", err)
		return ss.miss()
	}
	candidates, size := d.deps.Splashes.FindSplashes(frame)
	cursor, err := d.deps.Input.CursorPosition()
	if err != nil {
		return fmt.Errorf("cursor position: %w", err)
	}
	ref := cursor
	if d.deps.Nav != nil {
		if c, ok := d.deps.Nav.FindCircle(frame); ok {
			ref = c
		}
	}
	band := ss.env.Band()
	tgt, ok := target.Select(candidates, ref, &band)
	if !ok {
		d.logger.Debug("no splash in range", "found", len(candidates), "min_y", band.Min, "max_y", band.Max)
		return ss.miss()
	}
	ss.lastSeen = d.deps.Now()
	d.logger.Info("new target", "x", tgt.X, "y", tgt.Y, "candidates", len(candidates))

	if err := d.btn.Hold(); err != nil {
		return fmt.Errorf("hold button: %w", err)
	}
	d.deps.Sleep(s.HoldDelay)
	reached, err := ss.driveTo(tgt)
	ss.step++
	ss.recordMove(MoveShot{Candidates: candidates, Size: size, Target: tgt, Band: band, Trace: ss.trace})
	d.btn.Release()
	if err != nil {
		return err
	}
	d.updateStats(func(st *Stats) { st.LastStep = ss.step })
	if reached {
		d.updateStats(func(st *Stats) { st.Targets++ })
		d.logger.Info("target reached, button released", "x", tgt.X, "y", tgt.Y)
		if s.CatchEnabled {
			ss.watchCatch(tgt)
		}
	} else if d.flags.Running() && !d.flags.Paused() {
		d.logger.Warn("target not reached within step limit", "x", tgt.X, "y", tgt.Y, "limit", s.MaxStepsPerTarget)
	}
	d.deps.Sleep(s.Settle)
	return nil
}

// stroke holds the button and moves a fixed distance toward one screen edge.
func (ss *session) stroke() error {
	d, s := ss.d, ss.s
	cursor, err := d.deps.Input.CursorPosition()
	if err != nil {
		return fmt.Errorf("cursor position: %w", err)
	}
	w, _ := d.deps.Input.ScreenSize()
	dx := s.StrokePx
	if ss.mode == ModeLeft {
		dx = -dx
	}
	tgt := image.Pt(cursor.X+dx, cursor.Y)
	if w > 0 {
		tgt.X = max(0, min(tgt.X, w-1))
	}
	if err := d.btn.Hold(); err != nil {
		return fmt.Errorf("hold button: %w", err)
	}
	d.deps.Sleep(s.HoldDelay)
	_, err = ss.driveTo(tgt)
	ss.step++
	d.btn.Release()
	if err != nil {
		return err
	}
	d.updateStats(func(st *Stats) { st.LastStep = ss.step })
	d.logger.Debug("stroke", "mode", ss.mode.String(), "x", tgt.X)
	d.deps.Sleep(s.Settle)
	return nil
}

// driveTo steps toward tgt until reached, paused, stopped or out of steps.
func (ss *session) driveTo(tgt image.Point) (bool, error) {
	d, s := ss.d, ss.s
	for i := 0; s.MaxStepsPerTarget <= 0 || i < s.MaxStepsPerTarget; i++ {
		if !d.keepGoing() {
			return false, nil
		}
		cur, err := d.deps.Input.CursorPosition()
		if err != nil {
			return false, fmt.Errorf("cursor position: %w", err)
		}
		reached, err := d.motion.StepTowards(cur, tgt, s.MaxStep)
		if err != nil {
			return false, err
		}
		if reached {
			return true, nil
		}
		d.deps.Sleep(s.StepDelay)
	}
	return false, nil
}

// miss waits before the next detection attempt, ending the session once
// nothing has been found for the configured timeout.
func (ss *session) miss() error {
	d := ss.d
	d.updateStats(func(st *Stats) { st.Misses++ })
	if t := ss.s.NoDetectionTimeout; t > 0 && d.deps.Now().Sub(ss.lastSeen) >= t {
		d.logger.Warn("no splash detected, stopping", "timeout", t)
		d.flags.Stop()
		return nil
	}
	d.deps.Sleep(ss.s.MissWait)
	return nil
}

func (ss *session) recordMove(shot MoveShot) {
	if ss.arts == nil {
		return
	}
	d := ss.d
	frame, err := d.deps.Frames.Capture()
	if err != nil {
		d.logger.Warn("capture for move artifact failed", "error", err)
		return
	}
	if cur, err := d.deps.Input.CursorPosition(); err == nil {
		shot.Cursor = cur
	}
	if err := ss.arts.Move(ss.step, frame, shot); err != nil {
		d.logger.Warn("move artifact failed", "step", ss.step, "error", err)
	}
}

func recoverLog(logger *slog.Logger, msg string) {
	if r := recover(); r != nil {
		if logger != nil {
			logger.Error(msg, "error", r)
		}
	}
}
