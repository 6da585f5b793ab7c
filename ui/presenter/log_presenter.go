package presenter

import (
	"fmt"
	"time"
)

// LogSource yields buffered log lines; each line is returned once.
type LogSource interface {
	Drain() []string
	Dropped() uint64
}

// LogView appends lines to the log pane.
type LogView interface {
	AppendLog(lines []string)
}

// LogPresenter moves buffered log records into the log pane on each tick.
type LogPresenter struct {
	src     LogSource
	view    LogView
	dropped uint64
}

func NewLogPresenter(src LogSource, view LogView) *LogPresenter {
	return &LogPresenter{src: src, view: view}
}

func (p *LogPresenter) Tick(now time.Time) {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	lines := p.src.Drain()
	if d := p.src.Dropped(); d > p.dropped {
		lines = append([]string{fmt.Sprintf("... %d log lines dropped", d-p.dropped)}, lines...)
		p.dropped = d
	}
	if len(lines) > 0 {
		p.view.AppendLog(lines)
	}
}
