package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is the configuration document used when no -config flag is given.
const DefaultPath = "fishing_config.json"

// HSV is an OpenCV-style hue/saturation/value triplet (H 0..179, S and V 0..255).
type HSV [3]int

// ColorRange holds the lower and upper HSV bounds of a colour mask.
// It serialises as [[h,s,v],[h,s,v]].
type ColorRange [2]HSV

// Lower returns the lower bound.
func (r ColorRange) Lower() HSV { return r[0] }

// Upper returns the upper bound.
func (r ColorRange) Upper() HSV { return r[1] }

// CircleParams configures Hough circle detection.
type CircleParams struct {
	DP        float64 `json:"dp"`        // inverse accumulator resolution ratio
	MinDist   float64 `json:"minDist"`   // minimum distance between detected centres
	Param1    float64 `json:"param1"`    // upper Canny threshold
	Param2    float64 `json:"param2"`    // accumulator threshold
	MinRadius int     `json:"minRadius"` // px
	MaxRadius int     `json:"maxRadius"` // px
}

// Config holds the persisted settings for detection, input and session timing.
// Durations are stored as integer milliseconds to keep the JSON document flat.
type Config struct {
	Debug bool `json:"debug"`

	// Control keys
	BindKey    string `json:"bind_key"`
	PauseKey   string `json:"pause_key"`
	ExitKey    string `json:"exit_key"`
	ConfirmKey string `json:"confirm_key"`

	Speed         int    `json:"speed"`
	FishingActive bool   `json:"fishing_active"`
	MoveMode      string `json:"move_mode"`
	InputBackend  string `json:"input_backend"`

	// Colour detection
	SplashColorRange      ColorRange   `json:"splash_color_range"`
	CalibrationColorRange ColorRange   `json:"calibration_color_range"`
	CircleParams          CircleParams `json:"circle_params"`
	MarkerMinRadius       float64      `json:"marker_min_radius"`
	MarkerMaxRadius       float64      `json:"marker_max_radius"`
	MarkerMinFill         float64      `json:"marker_min_fill"`

	// Template detection
	TemplateDir         string  `json:"template_dir"`
	SplashDetector      string  `json:"splash_detector"`
	CatchDetector       string  `json:"catch_detector"`
	SplashThreshold     float64 `json:"splash_threshold"`
	NavThreshold        float64 `json:"nav_threshold"`
	CatchThreshold      float64 `json:"catch_threshold"`
	SplashMinSeparation float64 `json:"splash_min_separation"`
	Stride              int     `json:"stride"`
	Refine              bool    `json:"refine"`
	NavMinScale         float64 `json:"nav_min_scale"` // 0 disables multi-scale nav matching
	NavMaxScale         float64 `json:"nav_max_scale"`
	NavScaleStep        float64 `json:"nav_scale_step"`

	// Capture
	Display    int `json:"display"`
	SelectionX int `json:"selection_x"`
	SelectionY int `json:"selection_y"`
	SelectionW int `json:"selection_w"`
	SelectionH int `json:"selection_h"`

	// Calibration
	CalibrationSamples      int  `json:"calibration_samples"`
	CalibrationDurationMs   int  `json:"calibration_duration_ms"`
	CalibrationExtraSamples int  `json:"calibration_extra_samples"`
	CalibrationExtraMs      int  `json:"calibration_extra_ms"`
	CalibrationIntervalMs   int  `json:"calibration_interval_ms"`
	CalibrationHoldDelayMs  int  `json:"calibration_hold_delay_ms"`
	CalibrationMarginPx     int  `json:"calibration_margin_px"`
	CalibrationStartSamples int  `json:"calibration_start_samples"`
	GlideToStart            bool `json:"glide_to_start"`

	// Session timing
	StartDelayMs        int `json:"start_delay_ms"`
	CastSettleMs        int `json:"cast_settle_ms"`
	HoldDelayMs         int `json:"hold_delay_ms"`
	StepDelayMs         int `json:"step_delay_ms"`
	SettleMs            int `json:"settle_ms"`
	MissWaitMs          int `json:"miss_wait_ms"`
	PausePollMs         int `json:"pause_poll_ms"`
	NoDetectionTimeoutS int `json:"no_detection_timeout_s"`
	MaxStepsPerTarget   int `json:"max_steps_per_target"`
	ModeStrokePx        int `json:"mode_stroke_px"`

	// Catch confirmation
	CatchEnabled    bool    `json:"catch_enabled"`
	CatchTimeoutMs  int     `json:"catch_timeout_ms"`
	CatchDistancePx float64 `json:"catch_distance_px"`

	// Debug artifacts
	SaveDebugScreenshots bool   `json:"save_debug_screenshots"`
	DebugDir             string `json:"debug_dir"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:      false,
		BindKey:    "e",
		PauseKey:   "p",
		ExitKey:    "q",
		ConfirmKey: "space",

		Speed:         5,
		FishingActive: false,
		MoveMode:      "splash",
		InputBackend:  "robotgo",

		SplashColorRange:      ColorRange{{90, 150, 50}, {120, 255, 255}},
		CalibrationColorRange: ColorRange{{79, 87, 52}, {107, 118, 56}},
		CircleParams:          CircleParams{DP: 1, MinDist: 100, Param1: 50, Param2: 30, MinRadius: 10, MaxRadius: 100},
		MarkerMinRadius:       15,
		MarkerMaxRadius:       100,
		MarkerMinFill:         0.6,

		TemplateDir:         "templates",
		SplashDetector:      "template",
		CatchDetector:       "template",
		SplashThreshold:     0.75,
		NavThreshold:        0.75,
		CatchThreshold:      0.85,
		SplashMinSeparation: 50,
		Stride:              1,
		Refine:              true,

		Display: -1,

		CalibrationSamples:      10,
		CalibrationDurationMs:   20000,
		CalibrationExtraSamples: 5,
		CalibrationExtraMs:      10000,
		CalibrationIntervalMs:   100,
		CalibrationHoldDelayMs:  200,
		CalibrationMarginPx:     50,
		CalibrationStartSamples: 5,
		GlideToStart:            true,

		StartDelayMs:        5000,
		CastSettleMs:        2000,
		HoldDelayMs:         200,
		StepDelayMs:         10,
		SettleMs:            1000,
		MissWaitMs:          500,
		PausePollMs:         100,
		NoDetectionTimeoutS: 60,
		MaxStepsPerTarget:   400,
		ModeStrokePx:        200,

		CatchEnabled:    true,
		CatchTimeoutMs:  6000,
		CatchDistancePx: 10,

		SaveDebugScreenshots: false,
		DebugDir:             "debug_screenshots",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() {
	d := DefaultConfig()
	c.BindKey = normalizeKey(c.BindKey, d.BindKey)
	c.PauseKey = normalizeKey(c.PauseKey, d.PauseKey)
	c.ExitKey = normalizeKey(c.ExitKey, d.ExitKey)
	if strings.TrimSpace(c.ConfirmKey) == "" {
		c.ConfirmKey = d.ConfirmKey
	}
	if c.Speed < 1 {
		c.Speed = 1
	} else if c.Speed > 10 {
		c.Speed = 10
	}
	switch c.MoveMode {
	case "splash", "left", "right":
	default:
		c.MoveMode = d.MoveMode
	}
	switch c.InputBackend {
	case "robotgo", "winapi":
	default:
		c.InputBackend = d.InputBackend
	}
	switch c.SplashDetector {
	case "template", "color":
	default:
		c.SplashDetector = d.SplashDetector
	}
	switch c.CatchDetector {
	case "template", "hough":
	default:
		c.CatchDetector = d.CatchDetector
	}
	clampRange(&c.SplashColorRange)
	clampRange(&c.CalibrationColorRange)
	if c.CircleParams.DP <= 0 {
		c.CircleParams.DP = d.CircleParams.DP
	}
	if c.CircleParams.MinDist <= 0 {
		c.CircleParams.MinDist = d.CircleParams.MinDist
	}
	if c.CircleParams.Param1 <= 0 {
		c.CircleParams.Param1 = d.CircleParams.Param1
	}
	if c.CircleParams.Param2 <= 0 {
		c.CircleParams.Param2 = d.CircleParams.Param2
	}
	if c.CircleParams.MinRadius < 0 {
		c.CircleParams.MinRadius = 0
	}
	if c.CircleParams.MaxRadius < c.CircleParams.MinRadius {
		c.CircleParams.MaxRadius = c.CircleParams.MinRadius
	}
	if c.MarkerMinRadius < 0 {
		c.MarkerMinRadius = d.MarkerMinRadius
	}
	if c.MarkerMaxRadius <= c.MarkerMinRadius {
		c.MarkerMaxRadius = c.MarkerMinRadius + d.MarkerMaxRadius
	}
	if c.MarkerMinFill <= 0 || c.MarkerMinFill > 1 {
		c.MarkerMinFill = d.MarkerMinFill
	}
	if strings.TrimSpace(c.TemplateDir) == "" {
		c.TemplateDir = d.TemplateDir
	}
	clampUnit(&c.SplashThreshold, d.SplashThreshold)
	clampUnit(&c.NavThreshold, d.NavThreshold)
	clampUnit(&c.CatchThreshold, d.CatchThreshold)
	if c.SplashMinSeparation < 0 {
		c.SplashMinSeparation = d.SplashMinSeparation
	}
	if c.Stride <= 0 {
		c.Stride = 1
	}
	if c.NavMinScale < 0 || c.NavMaxScale < c.NavMinScale || c.NavScaleStep < 0 {
		c.NavMinScale, c.NavMaxScale, c.NavScaleStep = 0, 0, 0
	}
	if c.Display < -1 {
		c.Display = -1
	}
	if c.SelectionW < 0 || c.SelectionH < 0 {
		c.SelectionW, c.SelectionH = 0, 0
	}
	nonNegative(&c.CalibrationSamples, &c.CalibrationDurationMs, &c.CalibrationExtraSamples,
		&c.CalibrationExtraMs, &c.CalibrationHoldDelayMs, &c.CalibrationMarginPx,
		&c.StartDelayMs, &c.CastSettleMs, &c.HoldDelayMs, &c.StepDelayMs, &c.SettleMs,
		&c.NoDetectionTimeoutS, &c.CatchTimeoutMs)
	if c.CalibrationIntervalMs <= 0 {
		c.CalibrationIntervalMs = d.CalibrationIntervalMs
	}
	if c.CalibrationStartSamples <= 0 {
		c.CalibrationStartSamples = d.CalibrationStartSamples
	}
	if c.MissWaitMs <= 0 {
		c.MissWaitMs = d.MissWaitMs
	}
	if c.PausePollMs <= 0 {
		c.PausePollMs = d.PausePollMs
	}
	if c.MaxStepsPerTarget <= 0 {
		c.MaxStepsPerTarget = d.MaxStepsPerTarget
	}
	if c.ModeStrokePx <= 0 {
		c.ModeStrokePx = d.ModeStrokePx
	}
	if c.CatchDistancePx <= 0 {
		c.CatchDistancePx = d.CatchDistancePx
	}
	if strings.TrimSpace(c.DebugDir) == "" {
		c.DebugDir = d.DebugDir
	}
}

// MaxStep is the per-step cursor distance derived from Speed.
func (c *Config) MaxStep() float64 { return float64(20 * c.Speed) }

// openConfig opens the configuration document for reading.
var openConfig = func(path string) (io.ReadCloser, error) { return os.Open(path) }

// Load reads configuration from the given JSON file path. When the file does
// not exist, cannot be opened, or cannot be decoded, the defaults are written
// to path and returned. Open and decode errors are returned alongside the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := openConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, cfg.Save(path)
		}
		err = fmt.Errorf("config: open %s: %w", path, err)
		if serr := cfg.Save(path); serr != nil {
			return cfg, errors.Join(err, serr)
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		cfg = DefaultConfig()
		if serr := cfg.Save(path); serr != nil {
			return cfg, errors.Join(fmt.Errorf("config: decode %s: %w", path, err), serr)
		}
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	c.Validate()
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

func normalizeKey(k, def string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	if k == "" {
		return def
	}
	return k
}

func clampRange(r *ColorRange) {
	for i := range r {
		r[i][0] = clampInt(r[i][0], 0, 179)
		r[i][1] = clampInt(r[i][1], 0, 255)
		r[i][2] = clampInt(r[i][2], 0, 255)
	}
}

func clampUnit(v *float64, def float64) {
	if *v <= 0 || *v > 1 {
		*v = def
	}
}

func nonNegative(vals ...*int) {
	for _, v := range vals {
		if *v < 0 {
			*v = 0
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
