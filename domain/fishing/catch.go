package fishing

import (
	"image"
	"math"
)

// watchCatch polls the catch circle after a target is reached and presses
// the confirm key once the shrinking circle is centred on tgt. It gives up
// after the catch timeout or when the session pauses or stops.
func (ss *session) watchCatch(tgt image.Point) bool {
	d, s := ss.d, ss.s
	if d.deps.Catch == nil || s.CatchTimeout <= 0 {
		return false
	}
	d.logger.Debug("waiting for catch circle", "x", tgt.X, "y", tgt.Y)
	deadline := d.deps.Now().Add(s.CatchTimeout)
	for d.deps.Now().Before(deadline) {
		if !d.keepGoing() {
			return false
		}
		frame, err := d.deps.Frames.Capture()
		if err != nil {
			d.logger.Warn("catch capture failed", "error", err)
		} else if c, ok := d.deps.Catch.FindCircle(frame); ok && dist(c, tgt) < s.CatchDistance {
			if err := d.deps.Input.PressKey(s.ConfirmKey); err != nil {
				d.logger.Error("confirm key press failed", "key", s.ConfirmKey, "error", err)
				return false
			}
			d.updateStats(func(st *Stats) { st.Catches++ })
			d.logger.Info("catch confirmed", "x", c.X, "y", c.Y)
			return true
		}
		d.deps.Sleep(s.CatchPoll)
	}
	d.logger.Debug("catch window expired")
	return false
}

func dist(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
