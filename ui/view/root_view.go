package view

import (
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/soocke/splash-fisher/config"
	"github.com/soocke/splash-fisher/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Modes lists the movement modes offered in the selector, in display order.
var Modes = []string{"splash", "left", "right"}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	kb      *config.KeyBindings
	kbPath  string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	Log         LogPane

	// Widgets
	StateLabel *TLabelWidget
	ModeSelect *TComboboxWidget
	StartBtn   *TButtonWidget
	PauseBtn   *TButtonWidget
}

// Handlers are the user actions the root view forwards.
type Handlers struct {
	OnToggle      func()
	OnPause       func()
	OnExit        func()
	OnModeChanged func(mode string)
	OnApplied     Applied
}

func NewRootView(cfg *config.Config, cfgPath string, kb *config.KeyBindings, kbPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, kb: kb, kbPath: kbPath, logger: logger}
}

// Build constructs the layout. Handlers are invoked on user actions.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	// Rows 0-1: session stats, state label, buttons frame
	rv.Session = NewSessionStats(nil, 0, 0)
	rv.StateLabel = TLabel(Txt("State: idle"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, Row(0), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(3), Rowspan(2), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.StartBtn = TButton(Txt("Start"), Style(theme.StylePrimaryButton), Command(h.OnToggle))
	Grid(rv.StartBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.PauseBtn = TButton(Txt("Pause"), Command(h.OnPause), State("disabled"))
	Grid(rv.PauseBtn, In(btnFrame), Row(1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	rv.ModeSelect = TCombobox(Values(Modes), Width(12), State("readonly"))
	Grid(rv.ModeSelect, In(btnFrame), Row(2), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.ModeSelect.Current(max(slices.Index(Modes, rv.cfg.MoveMode), 0))
	Bind(rv.ModeSelect, "<<ComboboxSelected>>", Command(func() {
		idx, err := strconv.Atoi(rv.ModeSelect.Current(nil))
		if err != nil || idx < 0 || idx >= len(Modes) {
			if rv.logger != nil {
				rv.logger.Error("mode selection parse error", "error", err)
			}
			return
		}
		if h.OnModeChanged != nil {
			h.OnModeChanged(Modes[idx])
		}
	}))
	darkBtn := TButton(Txt("Dark Mode"), Command(func() { theme.ToggleDark() }))
	Grid(darkBtn, In(btnFrame), Row(3), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := TButton(Txt("Exit"), Style(theme.StyleDangerButton), Command(h.OnExit))
	Grid(exitBtn, In(btnFrame), Row(4), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	// Config panel rows
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.kb, rv.kbPath, rv.logger, h.OnApplied)
	endRow := rv.ConfigPanel.Build(2)

	rv.Log = NewLogPane(endRow, 4)
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetRunning switches the start button and the pause button between the
// running and stopped layouts.
func (rv *RootView) SetRunning(running bool) {
	if rv == nil || rv.StartBtn == nil {
		return
	}
	if running {
		rv.StartBtn.Configure(Txt("Stop"), Style(theme.StyleDangerButton))
		rv.PauseBtn.Configure(State("normal"))
		rv.ModeSelect.Configure(State("disabled"))
		return
	}
	rv.StartBtn.Configure(Txt("Start"), Style(theme.StylePrimaryButton))
	rv.PauseBtn.Configure(State("disabled"))
	rv.ModeSelect.Configure(State("readonly"))
	rv.SetConfigEditable(true)
}

// SetConfigEditable toggles config panel editability.
func (rv *RootView) SetConfigEditable(enabled bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
}

// ConfigEditable redirects to SetConfigEditable to satisfy the control view contract.
func (rv *RootView) ConfigEditable(b bool) { rv.SetConfigEditable(b) }

// SetSession updates both session and total run durations.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(session)
	rv.Session.SetTotal(total)
}

func (rv *RootView) SetCounters(text string) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetCounters(text)
	}
}

func (rv *RootView) AppendLog(lines []string) {
	if rv != nil && rv.Log != nil {
		rv.Log.AppendLog(lines)
	}
}
