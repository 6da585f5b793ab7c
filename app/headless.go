package app

import (
	"context"
	"errors"
)

// ErrNotStarted is returned when the driver refuses to start a run.
var ErrNotStarted = errors.New("app: session did not start")

// RunHeadless starts one run in the configured mode without a window and
// blocks until it stops or ctx is cancelled. It returns the error that
// ended the run, if any.
func RunHeadless(ctx context.Context, c *AppContainer) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if c.Config.Debug {
		startDiagnostics(runCtx, c)
	}

	mode := c.Mode.Mode()
	if !c.Driver.Start(mode) {
		return ErrNotStarted
	}
	c.Logger.Info("headless run started", "mode", mode.String())
	c.setActive(true)
	defer c.setActive(false)

	done := make(chan struct{})
	go func() {
		c.Driver.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		c.Logger.Info("interrupted, stopping")
		c.Driver.Stop()
		<-done
	}
	return c.Driver.Err()
}
