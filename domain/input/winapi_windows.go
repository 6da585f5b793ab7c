//go:build windows

package input

import (
	"fmt"
	"image"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	mouseeventfMove      = 0x0001
	mouseeventfLeftDown  = 0x0002
	mouseeventfLeftUp    = 0x0004
	mouseeventfRightDown = 0x0008
	mouseeventfRightUp   = 0x0010
	keyeventfKeyUp       = 0x0002
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	procMouseEvent   = user32.NewProc("mouse_event")
	procKeybdEvent   = user32.NewProc("keybd_event")
	procGetCursorPos = user32.NewProc("GetCursorPos")
	procGetSysMetric = user32.NewProc("GetSystemMetrics")
)

// WinAPI drives input with legacy user32 calls.
type WinAPI struct {
	down, up uintptr // held control button flags
}

// NewWinAPI returns a backend holding button ("left" or "right").
func NewWinAPI(button string) (*WinAPI, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("input: load user32: %w", err)
	}
	if button == "left" {
		return &WinAPI{down: mouseeventfLeftDown, up: mouseeventfLeftUp}, nil
	}
	return &WinAPI{down: mouseeventfRightDown, up: mouseeventfRightUp}, nil
}

// PressKey sends a key down followed by a key up, or a mouse click for
// mouse1/mouse2.
func (w *WinAPI) PressKey(name string) error {
	k, err := ParseKey(name)
	if err != nil {
		return err
	}
	if k.IsMouse() {
		down, up := uintptr(mouseeventfRightDown), uintptr(mouseeventfRightUp)
		if k.Mouse == "left" {
			down, up = mouseeventfLeftDown, mouseeventfLeftUp
		}
		_, _, _ = procMouseEvent.Call(down, 0, 0, 0, 0)
		time.Sleep(30 * time.Millisecond)
		_, _, _ = procMouseEvent.Call(up, 0, 0, 0, 0)
		return nil
	}
	_, _, _ = procKeybdEvent.Call(uintptr(k.VK), 0, 0, 0)
	// hold briefly like a human press
	time.Sleep(40 * time.Millisecond)
	_, _, _ = procKeybdEvent.Call(uintptr(k.VK), 0, keyeventfKeyUp, 0)
	return nil
}

func (w *WinAPI) ButtonDown() error {
	_, _, _ = procMouseEvent.Call(w.down, 0, 0, 0, 0)
	return nil
}

func (w *WinAPI) ButtonUp() error {
	_, _, _ = procMouseEvent.Call(w.up, 0, 0, 0, 0)
	return nil
}

// MoveRelative issues a relative mouse_event move.
func (w *WinAPI) MoveRelative(dx, dy int) error {
	_, _, _ = procMouseEvent.Call(mouseeventfMove, uintptr(int32(dx)), uintptr(int32(dy)), 0, 0)
	return nil
}

type point struct{ X, Y int32 }

func (w *WinAPI) CursorPosition() (image.Point, error) {
	var p point
	r, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p)))
	if r == 0 {
		return image.Point{}, fmt.Errorf("input: GetCursorPos: %w", err)
	}
	return image.Pt(int(p.X), int(p.Y)), nil
}

// ScreenSize returns the primary screen size.
func (w *WinAPI) ScreenSize() (int, int) {
	cx, _, _ := procGetSysMetric.Call(0) // SM_CXSCREEN
	cy, _, _ := procGetSysMetric.Call(1) // SM_CYSCREEN
	return int(cx), int(cy)
}
