//go:build !windows

package input

import "image"

// WinAPI is only available on Windows.
type WinAPI struct{}

// NewWinAPI always fails off Windows.
func NewWinAPI(string) (*WinAPI, error) { return nil, ErrUnsupported }

func (*WinAPI) PressKey(string) error                { return ErrUnsupported }
func (*WinAPI) ButtonDown() error                    { return ErrUnsupported }
func (*WinAPI) ButtonUp() error                      { return ErrUnsupported }
func (*WinAPI) MoveRelative(int, int) error          { return ErrUnsupported }
func (*WinAPI) CursorPosition() (image.Point, error) { return image.Point{}, ErrUnsupported }
func (*WinAPI) ScreenSize() (int, int)               { return 0, 0 }
