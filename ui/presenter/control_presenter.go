package presenter

import (
	"github.com/soocke/splash-fisher/domain/fishing"
)

// ModeModel provides the selected movement mode.
type ModeModel interface {
	Mode() fishing.MoveMode
}

// SessionControl narrows what the presenter needs from the session driver.
type SessionControl interface {
	Start(mode fishing.MoveMode) bool
	Stop()
	TogglePause() bool
	Running() bool
}

// ControlView updates UI elements affected by starting or stopping a run.
// The state label is owned by StatePresenter.
type ControlView interface {
	ConfigEditable(bool)
}

// ControlPresenter owns the start/stop and pause buttons.
type ControlPresenter struct {
	mode     ModeModel
	session  SessionControl
	view     ControlView
	onActive func(bool) // optional, records the fishing-active flag
}

func NewControlPresenter(mode ModeModel, session SessionControl, view ControlView, onActive func(bool)) *ControlPresenter {
	return &ControlPresenter{mode: mode, session: session, view: view, onActive: onActive}
}

// Enable starts a run in the selected mode. Idempotent.
func (c *ControlPresenter) Enable() {
	if c == nil || c.mode == nil || c.session == nil || c.view == nil {
		return
	}
	if c.session.Running() {
		return
	}
	if !c.session.Start(c.mode.Mode()) {
		return
	}
	c.view.ConfigEditable(false)
	if c.onActive != nil {
		c.onActive(true)
	}
}

// Disable asks the running session to stop. Idempotent.
func (c *ControlPresenter) Disable() {
	if c == nil || c.session == nil || c.view == nil {
		return
	}
	if !c.session.Running() {
		return
	}
	c.session.Stop()
	c.view.ConfigEditable(true)
	if c.onActive != nil {
		c.onActive(false)
	}
}

// OnState clears the fishing-active flag when a session ends, including runs
// that stop on their own. It is registered as a driver listener and runs on
// the session goroutine, so it leaves the view alone.
func (c *ControlPresenter) OnState(_, next fishing.State) {
	if c == nil || c.onActive == nil || next != fishing.StateStopped {
		return
	}
	c.onActive(false)
}

// Toggle flips between running and stopped.
func (c *ControlPresenter) Toggle() {
	if c == nil || c.session == nil {
		return
	}
	if c.session.Running() {
		c.Disable()
		return
	}
	c.Enable()
}

// Pause toggles pause on a running session.
func (c *ControlPresenter) Pause() {
	if c == nil || c.session == nil || !c.session.Running() {
		return
	}
	c.session.TogglePause()
}
