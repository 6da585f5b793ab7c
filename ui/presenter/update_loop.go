package presenter

import "time"

// Ticker is a presenter refreshed from the UI loop.
type Ticker interface {
	Tick(now time.Time)
}

// Loop aggregates presenters and drives periodic updates.
//
// It calls Tick on each presenter in order and then invokes the scheduler
// callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Presenters []Ticker
	Schedule   func()
	now        func() time.Time
}

func NewLoop(schedule func(), presenters ...Ticker) *Loop {
	return &Loop{Presenters: presenters, Schedule: schedule, now: time.Now}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.now != nil {
		now = l.now()
	}
	for _, p := range l.Presenters {
		if p != nil {
			p.Tick(now)
		}
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
