package fishing

import (
	"log/slog"
	"sync/atomic"
)

// Flags are the running/paused switches shared between the session worker
// and the foreground. Reads may lag a write by one loop iteration.
type Flags struct {
	running atomic.Bool
	paused  atomic.Bool
}

func (f *Flags) Running() bool { return f.running.Load() }
func (f *Flags) Paused() bool  { return f.paused.Load() }

// Stop clears running.
func (f *Flags) Stop() { f.running.Store(false) }

// TogglePause flips paused and returns the new value.
func (f *Flags) TogglePause() bool {
	for {
		old := f.paused.Load()
		if f.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// start clears paused and sets running.
func (f *Flags) start() {
	f.paused.Store(false)
	f.running.Store(true)
}

// button pairs ButtonDown with exactly one ButtonUp.
type button struct {
	input  Input
	held   atomic.Bool
	logger *slog.Logger
}

// Hold presses the control button if it is not already held.
func (b *button) Hold() error {
	if !b.held.CompareAndSwap(false, true) {
		return nil
	}
	if err := b.input.ButtonDown(); err != nil {
		b.held.Store(false)
		return err
	}
	return nil
}

// Release lifts the button when held; further calls are no-ops.
func (b *button) Release() {
	if !b.held.CompareAndSwap(true, false) {
		return
	}
	if err := b.input.ButtonUp(); err != nil {
		b.logger.Error("button release failed", "error", err)
	}
}

func (b *button) Held() bool { return b.held.Load() }
