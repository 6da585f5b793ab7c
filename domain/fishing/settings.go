package fishing

import (
	"time"

	"github.com/soocke/splash-fisher/config"
	"github.com/soocke/splash-fisher/domain/motion"
)

// Settings are the per-session timings and limits.
type Settings struct {
	CastKey    string
	ConfirmKey string
	MaxStep    float64 // px per StepTowards call

	StartDelay time.Duration
	CastSettle time.Duration
	HoldDelay  time.Duration
	StepDelay  time.Duration
	Settle     time.Duration
	MissWait   time.Duration
	PausePoll  time.Duration

	NoDetectionTimeout time.Duration // 0 disables
	MaxStepsPerTarget  int
	StrokePx           int

	Calibration  CalibrationSettings
	GlideToStart bool
	Glide        motion.GlideOptions

	CatchEnabled  bool
	CatchTimeout  time.Duration
	CatchDistance float64
	CatchPoll     time.Duration
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// SettingsFromConfig builds session settings; castKey is the resolved cast input.
func SettingsFromConfig(cfg *config.Config, castKey string) Settings {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if castKey == "" {
		castKey = cfg.BindKey
	}
	return Settings{
		CastKey:    castKey,
		ConfirmKey: cfg.ConfirmKey,
		MaxStep:    cfg.MaxStep(),

		StartDelay: ms(cfg.StartDelayMs),
		CastSettle: ms(cfg.CastSettleMs),
		HoldDelay:  ms(cfg.HoldDelayMs),
		StepDelay:  ms(cfg.StepDelayMs),
		Settle:     ms(cfg.SettleMs),
		MissWait:   ms(cfg.MissWaitMs),
		PausePoll:  ms(cfg.PausePollMs),

		NoDetectionTimeout: time.Duration(cfg.NoDetectionTimeoutS) * time.Second,
		MaxStepsPerTarget:  cfg.MaxStepsPerTarget,
		StrokePx:           cfg.ModeStrokePx,

		Calibration: CalibrationSettings{
			Samples:       cfg.CalibrationSamples,
			Duration:      ms(cfg.CalibrationDurationMs),
			ExtraSamples:  cfg.CalibrationExtraSamples,
			ExtraDuration: ms(cfg.CalibrationExtraMs),
			Interval:      ms(cfg.CalibrationIntervalMs),
			HoldDelay:     ms(cfg.CalibrationHoldDelayMs),
			Margin:        cfg.CalibrationMarginPx,
			StartSamples:  cfg.CalibrationStartSamples,
		},
		GlideToStart: cfg.GlideToStart,
		Glide:        motion.DefaultGlideOptions(),

		CatchEnabled:  cfg.CatchEnabled,
		CatchTimeout:  ms(cfg.CatchTimeoutMs),
		CatchDistance: cfg.CatchDistancePx,
		CatchPoll:     50 * time.Millisecond,
	}
}
