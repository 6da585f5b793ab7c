package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows run durations and session counters.
type SessionStats interface {
	SetSession(d time.Duration)
	SetTotal(d time.Duration)
	SetCounters(text string)
}

type sessionStats struct {
	sessionLbl  *LabelWidget
	totalLbl    *LabelWidget
	countersLbl *LabelWidget
}

// NewSessionStats places the session and total labels at (row, startCol)
// and (row, startCol+1) and the counters label on the next row. A nil
// parent positions them relative to the App root.
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{
		sessionLbl:  Label(Width(16), Anchor("w")),
		totalLbl:    Label(Width(16), Anchor("w")),
		countersLbl: Label(Anchor("w")),
	}
	place := func(w Widget, opts ...Opt) {
		if parent != nil {
			opts = append(opts, In(parent))
		}
		Grid(w, opts...)
	}
	place(s.sessionLbl, Row(row), Column(startCol), Sticky("w"), Padx("0.2m"))
	place(s.totalLbl, Row(row), Column(startCol+1), Sticky("w"), Padx("0.2m"))
	place(s.countersLbl, Row(row+1), Column(startCol), Columnspan(2), Sticky("w"), Padx("0.2m"))
	s.sessionLbl.Configure(Txt("Session: 00:00"))
	s.totalLbl.Configure(Txt("Total: 00:00"))
	s.countersLbl.Configure(Txt("Runs: 0"))
	return s
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	if h := seconds / 3600; h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, seconds/60%60, seconds%60)
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// SetSession updates the session duration display.
func (s *sessionStats) SetSession(d time.Duration) {
	if s == nil || s.sessionLbl == nil {
		return
	}
	s.sessionLbl.Configure(Txt("Session: " + clock(d)))
}

// SetTotal updates the total duration display.
func (s *sessionStats) SetTotal(d time.Duration) {
	if s == nil || s.totalLbl == nil {
		return
	}
	s.totalLbl.Configure(Txt("Total: " + clock(d)))
}

func (s *sessionStats) SetCounters(text string) {
	if s == nil || s.countersLbl == nil {
		return
	}
	s.countersLbl.Configure(Txt(text))
}
