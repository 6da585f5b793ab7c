package input

import (
	"fmt"
	"image"
	"log/slog"
)

// Backend is the full input surface the session driver uses.
type Backend interface {
	PressKey(key string) error
	ButtonDown() error
	ButtonUp() error
	MoveRelative(dx, dy int) error
	CursorPosition() (image.Point, error)
	ScreenSize() (int, int)
}

// New returns the named backend ("robotgo" or "winapi") holding the right
// mouse button. An unavailable winapi backend falls back to robotgo.
func New(name string, logger *slog.Logger) (Backend, error) {
	switch name {
	case "", "robotgo":
		return NewRobotgo("right"), nil
	case "winapi":
		w, err := NewWinAPI("right")
		if err != nil {
			if logger != nil {
				logger.Warn("winapi input unavailable, using robotgo", "error", err)
			}
			return NewRobotgo("right"), nil
		}
		return w, nil
	}
	return nil, fmt.Errorf("input: unknown backend %q", name)
}
