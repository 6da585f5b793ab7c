// Package hotkey turns global key presses into session controls.
package hotkey

import (
	"log/slog"
	"strings"
	"sync"

	hook "github.com/robotn/gohook"

	"github.com/soocke/splash-fisher/domain/fishing"
)

// Bindings maps key names to controls.
type Bindings map[string]fishing.Control

// NewBindings binds the pause and emergency-exit keys. Empty keys are skipped.
func NewBindings(pauseKey, exitKey string) Bindings {
	b := Bindings{}
	if k := normalize(pauseKey); k != "" {
		b[k] = fishing.ControlPauseToggle
	}
	if k := normalize(exitKey); k != "" {
		b[k] = fishing.ControlEmergencyExit
	}
	return b
}

// Classify returns the control bound to key.
func (b Bindings) Classify(key string) (fishing.Control, bool) {
	c, ok := b[normalize(key)]
	return c, ok
}

func normalize(k string) string { return strings.ToLower(strings.TrimSpace(k)) }

// Listener reads the process-wide keyboard hook. Only one Listen may be
// active at a time. Bindings may be replaced while listening.
type Listener struct {
	bmu      sync.RWMutex
	bindings Bindings
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewListener returns a listener for bindings.
func NewListener(bindings Bindings, logger *slog.Logger) *Listener {
	return &Listener{bindings: bindings, logger: logger}
}

// SetBindings replaces the key map. Later key presses use b.
func (l *Listener) SetBindings(b Bindings) {
	l.bmu.Lock()
	l.bindings = b
	l.bmu.Unlock()
	if l.logger != nil {
		l.logger.Info("hotkeys rebound", "keys", len(b))
	}
}

func (l *Listener) classify(key string) (fishing.Control, bool) {
	l.bmu.RLock()
	defer l.bmu.RUnlock()
	return l.bindings.Classify(key)
}

// Listen starts the hook and publishes a control for every bound key press
// until stop is called.
func (l *Listener) Listen(publish func(fishing.Control)) (stop func()) {
	l.mu.Lock()
	events := hook.Start()
	go func() {
		defer func() {
			if r := recover(); r != nil && l.logger != nil {
				l.logger.Error("hotkey listener panic", "error", r)
			}
		}()
		for ev := range events {
			if ev.Kind != hook.KeyDown {
				continue
			}
			name := keyName(ev)
			c, ok := l.classify(name)
			if !ok {
				continue
			}
			if l.logger != nil {
				l.logger.Debug("hotkey", "key", name, "control", c.String())
			}
			publish(c)
		}
	}()
	if l.logger != nil {
		l.bmu.RLock()
		n := len(l.bindings)
		l.bmu.RUnlock()
		l.logger.Info("hotkeys active", "keys", n)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			hook.End()
			l.mu.Unlock()
		})
	}
}

func keyName(ev hook.Event) string {
	if ev.Keychar != hook.CharUndefined && ev.Keychar > ' ' {
		return string(ev.Keychar)
	}
	return hook.RawcodetoKeychar(ev.Rawcode)
}
