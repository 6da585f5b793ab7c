package fishing

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/soocke/splash-fisher/domain/target"
)

// State enumerates the session driver states.
type State int32

const (
	StateIdle State = iota
	StateCasting
	StateCalibrating
	StateTracking
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCasting:
		return "casting"
	case StateCalibrating:
		return "calibrating"
	case StateTracking:
		return "tracking"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StateListener is called on the session goroutine after each transition.
type StateListener func(prev, next State)

// MoveMode selects how the tracking loop moves the cursor.
type MoveMode int

const (
	ModeSplash MoveMode = iota // follow the nearest splash
	ModeLeft
	ModeRight
)

func (m MoveMode) String() string {
	switch m {
	case ModeLeft:
		return "left"
	case ModeRight:
		return "right"
	default:
		return "splash"
	}
}

// ParseMoveMode maps "splash", "left" or "right" to a MoveMode.
func ParseMoveMode(s string) (MoveMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "splash":
		return ModeSplash, nil
	case "left":
		return ModeLeft, nil
	case "right":
		return ModeRight, nil
	}
	return ModeSplash, fmt.Errorf("fishing: unknown move mode %q", s)
}

// Control is a user request delivered to a running session.
type Control int

const (
	ControlPauseToggle Control = iota
	ControlStop
	ControlEmergencyExit
)

func (c Control) String() string {
	switch c {
	case ControlPauseToggle:
		return "pause-toggle"
	case ControlStop:
		return "stop"
	case ControlEmergencyExit:
		return "emergency-exit"
	default:
		return "unknown"
	}
}

// Ports. The session only talks to the outside world through these.

// FrameSource captures a fresh frame in screen coordinates.
type FrameSource interface {
	Capture() (*image.RGBA, error)
}

// Input injects synthetic keyboard and mouse events.
type Input interface {
	PressKey(key string) error
	ButtonDown() error
	ButtonUp() error
	MoveRelative(dx, dy int) error
	CursorPosition() (image.Point, error)
	ScreenSize() (int, int)
}

// MarkerFinder reports calibration marker centres and their average radius.
type MarkerFinder interface {
	FindMarkers(frame *image.RGBA) ([]image.Point, float64)
}

// SplashFinder reports splash centres and the matched pattern size.
type SplashFinder interface {
	FindSplashes(frame *image.RGBA) ([]image.Point, image.Point)
}

// CircleFinder reports the centre of a single circle marker.
type CircleFinder interface {
	FindCircle(frame *image.RGBA) (image.Point, bool)
}

// HotkeySource delivers key presses as controls until the returned stop
// function is called.
type HotkeySource interface {
	Listen(publish func(Control)) (stop func())
}

// MoveShot describes one tracking step for debug output.
type MoveShot struct {
	Candidates []image.Point
	Size       image.Point // matched pattern size
	Target     image.Point
	Cursor     image.Point
	Band       target.Band
	Trace      []int
}

// Artifacts records diagnostic screenshots for one session.
type Artifacts interface {
	CalibrationStep(prefix string, n int, frame *image.RGBA, markers []image.Point, chosen image.Point) error
	Route(frame *image.RGBA, trace []int) error
	AfterCalibration(frame *image.RGBA, env Envelope, trace []int) error
	Move(n int, frame *image.RGBA, shot MoveShot) error
	Dir() string
}

// ArtifactFactory opens the artifact output for a session started at start.
type ArtifactFactory func(start time.Time) (Artifacts, error)

// Stats summarises the current or last session.
type Stats struct {
	Started  time.Time
	Ended    time.Time
	Targets  int // targets reached
	Misses   int // iterations without a usable target
	Catches  int // confirmed catches
	Samples  int // calibration samples
	LastStep int
}
