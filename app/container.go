package app

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/splash-fisher/config"
	"github.com/soocke/splash-fisher/domain/artifact"
	"github.com/soocke/splash-fisher/domain/blob"
	"github.com/soocke/splash-fisher/domain/capture"
	"github.com/soocke/splash-fisher/domain/fishing"
	"github.com/soocke/splash-fisher/domain/hotkey"
	"github.com/soocke/splash-fisher/domain/input"
	"github.com/soocke/splash-fisher/domain/vision"
	"github.com/soocke/splash-fisher/logsink"
	"github.com/soocke/splash-fisher/ui/model"
	"github.com/soocke/splash-fisher/ui/presenter"
	"github.com/soocke/splash-fisher/ui/view"
)

// AppContainer assembles config, domain services, models, presenters and
// the root view.
type AppContainer struct {
	Config       *config.Config
	ConfigPath   string
	KeyBindings  *config.KeyBindings
	KeybindsPath string
	Logger       *slog.Logger
	LogBuf       *logsink.Buffer

	CaptureSvc *capture.Service
	Input      input.Backend
	Templates  *vision.Store
	Hotkeys    *hotkey.Listener
	Driver     *fishing.Driver

	Session  *model.SessionModel
	Mode     *model.ModeModel
	RootView *view.RootView

	// Presenters
	StatePresenter   *presenter.StatePresenter
	SessionPresenter *presenter.SessionPresenter
	LogPresenter     *presenter.LogPresenter
	ControlPresenter *presenter.ControlPresenter
}

// Paths names the configuration documents backing a container.
type Paths struct {
	Config   string
	Keybinds string
}

// BuildContainer constructs all components. No window is created; the
// view is built by the app wrapper.
func BuildContainer(cfg *config.Config, kb config.KeyBindings, paths Paths, logger *slog.Logger, buf *logsink.Buffer) (*AppContainer, error) {
	c := &AppContainer{
		Config:       cfg,
		ConfigPath:   paths.Config,
		KeyBindings:  &kb,
		KeybindsPath: paths.Keybinds,
		Logger:       logger,
		LogBuf:       buf,
		Session:      model.NewSessionModel(),
		Mode:         model.NewModeModel(cfg.MoveMode),
	}

	grabber, err := capture.NewGrabber(cfg.Display)
	if err != nil {
		return nil, err
	}
	c.CaptureSvc = capture.NewService(logger.With("component", "capture"), grabber)
	if r := selection(cfg); !r.Empty() {
		c.CaptureSvc.SetRegion(r)
		logger.Info("capture region", "rect", r.String())
	}

	c.Input, err = input.New(cfg.InputBackend, logger)
	if err != nil {
		return nil, err
	}
	c.Templates = vision.NewStore(cfg.TemplateDir, logger.With("component", "templates"))
	c.Hotkeys = hotkey.NewListener(hotkey.NewBindings(cfg.PauseKey, cfg.ExitKey), logger.With("component", "hotkey"))

	deps := fishing.Deps{
		Frames:    c.CaptureSvc,
		Input:     c.Input,
		Splashes:  splashFinder(cfg, c.Templates, logger),
		Markers:   markerFinder(cfg, logger),
		Nav:       navFinder(cfg, c.Templates, logger),
		Catch:     catchFinder(cfg, c.Templates, logger),
		Hotkeys:   c.Hotkeys,
		Artifacts: c.artifacts(),
	}
	c.Driver = fishing.NewDriver(logger.With("component", "session"), deps, c.settings())

	c.RootView = view.NewRootView(cfg, paths.Config, c.KeyBindings, paths.Keybinds, logger)
	c.StatePresenter = presenter.NewStatePresenter(c.RootView)
	c.Driver.AddListener(c.StatePresenter.OnState)
	c.Driver.AddListener(func(prev, next fishing.State) {
		logger.Debug("state", "from", prev.String(), "to", next.String())
	})
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, c.Driver, c.RootView)
	c.LogPresenter = presenter.NewLogPresenter(buf, c.RootView)
	c.ControlPresenter = presenter.NewControlPresenter(c.Mode, c.Driver, c.RootView, c.setActive)
	c.Driver.AddListener(c.ControlPresenter.OnState)
	return c, nil
}

func (c *AppContainer) settings() fishing.Settings {
	return fishing.SettingsFromConfig(c.Config, config.CastKey(c.Config, *c.KeyBindings))
}

// Reconfigure pushes edited settings to the driver for the next run and
// rebinds the pause and exit hotkeys at once.
func (c *AppContainer) Reconfigure(cfg *config.Config, kb config.KeyBindings) {
	*c.KeyBindings = kb
	c.Driver.SetSettings(c.settings())
	c.Hotkeys.SetBindings(hotkey.NewBindings(cfg.PauseKey, cfg.ExitKey))
	c.Logger.Info("settings applied", "cast_key", config.CastKey(cfg, kb), "speed", cfg.Speed)
}

// artifacts returns a factory that consults the current config at session
// start, so toggling screenshots applies to the next run.
func (c *AppContainer) artifacts() fishing.ArtifactFactory {
	return func(start time.Time) (fishing.Artifacts, error) {
		if !c.Config.SaveDebugScreenshots {
			return nil, nil
		}
		return artifact.Factory(c.Config.DebugDir, c.Logger.With("component", "artifact"))(start)
	}
}

func (c *AppContainer) setActive(active bool) {
	c.Config.FishingActive = active
	if err := c.Config.Save(c.ConfigPath); err != nil {
		c.Logger.Error("config save failed", "error", err)
	}
}

// SetMode selects the move mode for the next run and persists it.
func (c *AppContainer) SetMode(name string) {
	if err := c.Mode.SetName(name); err != nil {
		c.Logger.Warn("invalid move mode", "mode", name, "error", err)
		return
	}
	c.Config.MoveMode = c.Mode.Mode().String()
	if err := c.Config.Save(c.ConfigPath); err != nil {
		c.Logger.Error("config save failed", "error", err)
	}
}

// DiagnosticAttrs reports capture and session counters for the debug logger.
func (c *AppContainer) DiagnosticAttrs() []slog.Attr {
	cs := c.CaptureSvc.Stats()
	st := c.Driver.Stats()
	return []slog.Attr{
		slog.String("state", c.Driver.State().String()),
		slog.Uint64("captures", cs.Captures),
		slog.Uint64("capture_failures", cs.Failures),
		slog.Duration("capture_avg", cs.AvgCapture),
		slog.Int("targets", st.Targets),
		slog.Int("misses", st.Misses),
	}
}

func selection(cfg *config.Config) image.Rectangle {
	if cfg.SelectionW <= 0 || cfg.SelectionH <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(cfg.SelectionX, cfg.SelectionY, cfg.SelectionX+cfg.SelectionW, cfg.SelectionY+cfg.SelectionH)
}

func matchOptions(cfg *config.Config, threshold float64) vision.MatchOptions {
	return vision.MatchOptions{Threshold: threshold, Stride: cfg.Stride, Refine: cfg.Refine}
}

func splashFinder(cfg *config.Config, store *vision.Store, logger *slog.Logger) fishing.SplashFinder {
	l := logger.With("component", "splash")
	if cfg.SplashDetector == "color" {
		return blob.NewSplashColorFinder(cfg.SplashColorRange, l)
	}
	return vision.NewSplashFinder(store, matchOptions(cfg, cfg.SplashThreshold), cfg.SplashMinSeparation, l)
}

func markerFinder(cfg *config.Config, logger *slog.Logger) fishing.MarkerFinder {
	return blob.NewDetector(cfg.CalibrationColorRange, blob.Filter{
		MinRadius: cfg.MarkerMinRadius,
		MaxRadius: cfg.MarkerMaxRadius,
		MinFill:   cfg.MarkerMinFill,
	}, logger.With("component", "markers"))
}

func navFinder(cfg *config.Config, store *vision.Store, logger *slog.Logger) fishing.CircleFinder {
	multi := vision.MultiScaleOptions{MinScale: cfg.NavMinScale, MaxScale: cfg.NavMaxScale, ScaleStep: cfg.NavScaleStep}
	return vision.NewCircleFinder(store, vision.NavCircleTemplate, matchOptions(cfg, cfg.NavThreshold), multi, logger.With("component", "nav"))
}

func catchFinder(cfg *config.Config, store *vision.Store, logger *slog.Logger) fishing.CircleFinder {
	l := logger.With("component", "catch")
	if cfg.CatchDetector == "hough" {
		return blob.NewHoughFinder(cfg.CircleParams, l)
	}
	return vision.NewCircleFinder(store, vision.CatchCircleTemplate, matchOptions(cfg, cfg.CatchThreshold), vision.MultiScaleOptions{}, l)
}
