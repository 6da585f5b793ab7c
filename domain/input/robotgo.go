package input

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"
)

// Robotgo drives input through github.com/go-vgo/robotgo.
type Robotgo struct {
	button string // held control button
}

// NewRobotgo returns a backend holding button ("left" or "right").
func NewRobotgo(button string) *Robotgo {
	if button == "" {
		button = "right"
	}
	return &Robotgo{button: button}
}

// PressKey taps a keyboard key or clicks a mouse button.
func (r *Robotgo) PressKey(name string) error {
	k, err := ParseKey(name)
	if err != nil {
		return err
	}
	if k.IsMouse() {
		robotgo.Click(k.Mouse)
		return nil
	}
	if err := robotgo.KeyTap(k.Name); err != nil {
		return fmt.Errorf("input: key tap %q: %w", k.Name, err)
	}
	return nil
}

func (r *Robotgo) ButtonDown() error {
	if err := robotgo.Toggle(r.button); err != nil {
		return fmt.Errorf("input: %s button down: %w", r.button, err)
	}
	return nil
}

func (r *Robotgo) ButtonUp() error {
	if err := robotgo.Toggle(r.button, "up"); err != nil {
		return fmt.Errorf("input: %s button up: %w", r.button, err)
	}
	return nil
}

// MoveRelative shifts the cursor by (dx, dy).
func (r *Robotgo) MoveRelative(dx, dy int) error {
	robotgo.MoveRelative(dx, dy)
	return nil
}

func (r *Robotgo) CursorPosition() (image.Point, error) {
	x, y := robotgo.Location()
	return image.Pt(x, y), nil
}

func (r *Robotgo) ScreenSize() (int, int) { return robotgo.GetScreenSize() }
