package presenter

import (
	"sync"
	"time"

	"github.com/soocke/splash-fisher/domain/fishing"
)

// StateView shows the session state and whether a run is in progress.
type StateView interface {
	SetStateLabel(string)
	SetRunning(bool)
}

// StatePresenter receives state transitions from the session worker and
// reflects the latest one on the next UI tick.
type StatePresenter struct {
	view StateView

	mu      sync.Mutex
	pending []fishing.State
	latest  fishing.State
	shown   bool
}

func NewStatePresenter(view StateView) *StatePresenter {
	return &StatePresenter{view: view}
}

// OnState queues a transition. It is registered as a driver listener and
// runs on the session goroutine.
func (p *StatePresenter) OnState(prev, next fishing.State) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, next)
	p.mu.Unlock()
}

// Tick flushes queued states and updates the view with the most recent one.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	if len(p.pending) == 0 {
		p.mu.Unlock()
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	p.mu.Unlock()

	if p.shown && last == p.latest {
		return
	}
	p.latest, p.shown = last, true
	p.view.SetStateLabel("State: " + last.String())
	p.view.SetRunning(last != fishing.StateStopped && last != fishing.StateIdle)
}
