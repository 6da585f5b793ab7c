package presenter

import (
	"fmt"
	"time"

	"github.com/soocke/splash-fisher/domain/fishing"
	"github.com/soocke/splash-fisher/ui/model"
)

// RunSource reports whether a session is running and its counters.
type RunSource interface {
	Running() bool
	Stats() fishing.Stats
}

// SessionView displays durations and session counters.
type SessionView interface {
	SetSession(session, total time.Duration)
	SetCounters(text string)
}

// SessionPresenter formats run durations and counters for the view.
type SessionPresenter struct {
	sess *model.SessionModel
	src  RunSource
	view SessionView
	last string
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, src RunSource, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, src: src, view: view}
}

// Tick advances the session model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.src == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.src.Running(), now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)
	if text := FormatCounters(p.src.Stats(), p.sess.Runs()); text != p.last {
		p.last = text
		p.view.SetCounters(text)
	}
}

// FormatCounters renders session counters for the stats label.
func FormatCounters(st fishing.Stats, runs int) string {
	return fmt.Sprintf("Runs: %d  Targets: %d  Misses: %d  Catches: %d", runs, st.Targets, st.Misses, st.Catches)
}
