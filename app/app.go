package app

import (
	"context"
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/splash-fisher/debug"
	"github.com/soocke/splash-fisher/ui/presenter"
	"github.com/soocke/splash-fisher/ui/theme"
	"github.com/soocke/splash-fisher/ui/view"
)

const (
	tick          = 100 * time.Millisecond
	debugInterval = 10 * time.Second
)

// app is the Tk control window around a container.
type app struct {
	c       *AppContainer
	width   int
	height  int
	afterID string
	loop    *presenter.Loop
	cancel  context.CancelFunc
}

func NewApp(title string, width, height int, c *AppContainer) *app {
	a := &app{c: c, width: width, height: height}
	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a
}

// Start builds the window, starts the update loop and blocks until the
// window is closed.
func (a *app) Start() {
	c := a.c
	theme.InitStyles()
	c.RootView.Build(view.Handlers{
		OnToggle:      c.ControlPresenter.Toggle,
		OnPause:       c.ControlPresenter.Pause,
		OnExit:        a.exitHandler,
		OnModeChanged: c.SetMode,
		OnApplied:     c.Reconfigure,
	})

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if c.Config.Debug {
		startDiagnostics(ctx, c)
	}

	a.loop = presenter.NewLoop(a.scheduleUpdate,
		c.StatePresenter,
		c.SessionPresenter,
		c.LogPresenter,
	)
	c.Logger.Info("control window ready", "mode", c.Mode.Mode().String())
	a.scheduleUpdate()

	App.Wait()
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.c.Driver.Stop()
	a.c.Driver.Wait()
	if a.cancel != nil {
		a.cancel()
	}
	Destroy(App)
}

// scheduleUpdate queues the next tick on Tk's event loop thread.
func (a *app) scheduleUpdate() {
	a.afterID = TclAfter(tick, func() { a.loop.Tick() })
}

func startDiagnostics(ctx context.Context, c *AppContainer) {
	l := c.Logger.With("component", "debug")
	debug.StartGoroutineLogger(ctx, debugInterval, l, c.DiagnosticAttrs)
	debug.StartMemLogger(ctx, debugInterval, l)
}
