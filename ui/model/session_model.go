package model

import (
	"time"
)

// SessionModel tracks the current run duration, the accumulated active time
// and how many runs have been started. It is decoupled from the UI;
// presenters poll Values() and update views. The zero value is ready to use.
type SessionModel struct {
	active      bool
	runStart    time.Time
	lastRun     time.Duration
	accumulated time.Duration
	runs        int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the model using the current running state and timestamp.
func (m *SessionModel) OnTick(running bool, now time.Time) {
	if m == nil {
		return
	}
	if running {
		if !m.active { // off -> on
			m.active = true
			m.runStart = now
			m.lastRun = 0
			m.runs++
		}
		m.lastRun = now.Sub(m.runStart)
	} else if m.active { // on -> off
		m.lastRun = now.Sub(m.runStart)
		m.accumulated += m.lastRun
		m.active = false
	}
}

// Values returns the current run duration and the total accumulated duration.
// The total includes the ongoing run when active.
func (m *SessionModel) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.lastRun
	total = m.accumulated
	if m.active {
		total += session
	}
	return
}

// Runs is the number of runs observed so far.
func (m *SessionModel) Runs() int {
	if m == nil {
		return 0
	}
	return m.runs
}
