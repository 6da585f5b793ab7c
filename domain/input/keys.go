// Package input injects synthetic keyboard and mouse events.
package input

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupported is returned by backends not available on this platform.
	ErrUnsupported = errors.New("input: backend not supported on this platform")
	// ErrUnknownKey is returned for key names no backend can press.
	ErrUnknownKey = errors.New("input: unknown key")
)

// Key is a parsed key name.
type Key struct {
	Name  string // normalised name as robotgo understands it
	Mouse string // "left" or "right" for mouse1/mouse2, empty otherwise
	VK    byte   // Windows virtual-key code; 0 for mouse keys
}

// IsMouse reports whether the key is a mouse button.
func (k Key) IsMouse() bool { return k.Mouse != "" }

var namedKeys = map[string]byte{
	"space":     0x20,
	"enter":     0x0D,
	"tab":       0x09,
	"esc":       0x1B,
	"escape":    0x1B,
	"backspace": 0x08,
	"left":      0x25,
	"up":        0x26,
	"right":     0x27,
	"down":      0x28,
	"shift":     0x10,
	"ctrl":      0x11,
	"alt":       0x12,
}

// ParseKey converts a key token ("e", "space", "F3", "mouse1") to a Key.
func ParseKey(token string) (Key, error) {
	k := strings.ToLower(strings.TrimSpace(token))
	switch k {
	case "mouse1":
		return Key{Name: k, Mouse: "left"}, nil
	case "mouse2":
		return Key{Name: k, Mouse: "right"}, nil
	}
	if vk, ok := namedKeys[k]; ok {
		if k == "escape" {
			k = "esc"
		}
		return Key{Name: k, VK: vk}, nil
	}
	if len(k) == 1 {
		c := k[0]
		switch {
		case c >= 'a' && c <= 'z':
			return Key{Name: k, VK: c - 'a' + 'A'}, nil // VK codes match upper-case ASCII
		case c >= '0' && c <= '9':
			return Key{Name: k, VK: c}, nil
		}
	}
	if len(k) >= 2 && k[0] == 'f' {
		var n int
		if _, err := fmt.Sscanf(k[1:], "%d", &n); err == nil && n >= 1 && n <= 12 && fmt.Sprint(n) == k[1:] {
			return Key{Name: k, VK: byte(0x70 + n - 1)}, nil // VK_F1=0x70
		}
	}
	return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, token)
}
