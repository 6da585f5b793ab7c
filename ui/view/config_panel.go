package view

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/soocke/splash-fisher/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the settings form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into the config and key bindings and persists both
}

// Applied is called after a successful save with the new values.
type Applied func(cfg *config.Config, kb config.KeyBindings)

type configPanel struct {
	cfg       *config.Config
	cfgPath   string
	kb        *config.KeyBindings
	kbPath    string
	logger    *slog.Logger
	onApplied Applied
	applyBtn  *ButtonWidget
	widgets   map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg and kb.
func NewConfigPanel(cfg *config.Config, cfgPath string, kb *config.KeyBindings, kbPath string, logger *slog.Logger, onApplied Applied) ConfigPanel {
	return &configPanel{
		cfg: cfg, cfgPath: cfgPath,
		kb: kb, kbPath: kbPath,
		logger: logger, onApplied: onApplied,
		widgets: make(map[string]*TextWidget),
	}
}

func (v *configPanel) Build(startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(16))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	fishingKey := ""
	if v.kb != nil && v.kb.Present {
		fishingKey = v.kb.FishingKey
	}
	makeRow("bindKey", "Cast Key (single char)", c.BindKey)
	makeRow("fishingKey", "Fishing Key ("+strings.Join(config.SupportedKeys, "/")+")", fishingKey)
	makeRow("speed", "Speed (1-10)", strconv.Itoa(c.Speed))
	makeRow("pauseKey", "Pause Key", c.PauseKey)
	makeRow("exitKey", "Exit Key", c.ExitKey)
	makeRow("confirmKey", "Confirm Key", c.ConfirmKey)
	makeRow("noDetectionTimeoutS", "No Detection Timeout (s)", strconv.Itoa(c.NoDetectionTimeoutS))
	makeRow("catchEnabled", "Confirm Catches (true/false)", fmt.Sprintf("%t", c.CatchEnabled))
	makeRow("saveDebugScreenshots", "Save Debug Screenshots (true/false)", fmt.Sprintf("%t", c.SaveDebugScreenshots))
	v.applyBtn = Button(Txt("Save Settings"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(id string) (string, bool) {
	w := v.widgets[id]
	if w == nil {
		return "", false
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), "")), true
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	fields := make(map[string]string, len(v.widgets))
	for id := range v.widgets {
		if s, ok := v.text(id); ok {
			fields[id] = s
		}
	}
	var kb config.KeyBindings
	if v.kb != nil {
		kb = *v.kb
	}
	cfg, kb, err := applyFields(*v.cfg, kb, fields)
	if err != nil {
		if v.logger != nil {
			v.logger.Error("settings rejected", "error", err)
		}
		return
	}
	if err := cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
		return
	}
	*v.cfg = cfg
	if kb.Present {
		if err := config.SaveKeyBindings(v.kbPath, kb); err != nil {
			if v.logger != nil {
				v.logger.Error("keybinds save failed", "error", err)
			}
			kb.Present = false
		}
	} else if err := os.Remove(v.kbPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		if v.logger != nil {
			v.logger.Warn("keybinds reset failed", "path", v.kbPath, "error", err)
		}
	}
	if v.kb != nil {
		*v.kb = kb
	}
	if v.logger != nil {
		v.logger.Info("settings saved", "path", v.cfgPath, "cast_key", config.CastKey(v.cfg, kb), "speed", v.cfg.Speed)
	}
	if v.onApplied != nil {
		v.onApplied(v.cfg, kb)
	}
}

// applyFields parses the form values into copies of cfg and kb. Unparsable
// numbers and booleans keep their previous values; an unsupported fishing
// key is an error.
func applyFields(cfg config.Config, kb config.KeyBindings, fields map[string]string) (config.Config, config.KeyBindings, error) {
	assignInt := func(id string, dst *int) {
		if i, ok := parseIntField(fields[id]); ok {
			*dst = i
		}
	}
	assignBool := func(id string, dst *bool) {
		if b, ok := parseBoolLoose(fields[id]); ok {
			*dst = b
		}
	}
	assignKey := func(id string, dst *string) {
		if s := fields[id]; s != "" {
			*dst = s
		}
	}
	assignKey("bindKey", &cfg.BindKey)
	assignKey("pauseKey", &cfg.PauseKey)
	assignKey("exitKey", &cfg.ExitKey)
	assignKey("confirmKey", &cfg.ConfirmKey)
	assignInt("speed", &cfg.Speed)
	assignInt("noDetectionTimeoutS", &cfg.NoDetectionTimeoutS)
	assignBool("catchEnabled", &cfg.CatchEnabled)
	assignBool("saveDebugScreenshots", &cfg.SaveDebugScreenshots)

	if fk, ok := fields["fishingKey"]; ok {
		fk = strings.ToLower(fk)
		switch {
		case fk == "":
			kb = config.KeyBindings{FishingKey: config.DefaultKeyBindings().FishingKey}
		case config.IsSupportedKey(fk):
			kb = config.KeyBindings{FishingKey: fk, Present: true}
		default:
			return cfg, kb, fmt.Errorf("%w: %q", config.ErrUnsupportedKey, fk)
		}
	}
	cfg.Validate()
	return cfg, kb, nil
}

// parsing helpers (unexported)
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}

func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
