package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/soocke/splash-fisher/app"
	"github.com/soocke/splash-fisher/config"
	"github.com/soocke/splash-fisher/logsink"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "configuration document")
	kbPath := flag.String("keybinds", config.DefaultKeyBindingsPath, "key bindings document")
	headless := flag.Bool("headless", false, "run one session without the control window")
	debugFlag := flag.Bool("debug", false, "debug logging and runtime diagnostics")
	mode := flag.String("mode", "", "move mode override: splash, left or right")
	flag.Parse()

	level := new(slog.LevelVar)
	buf := logsink.NewBuffer(0)
	logger := NewLogger(level, buf)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Error("config load failed, using defaults", "path", *cfgPath, "error", err)
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if cfg.Debug {
		level.Set(slog.LevelDebug)
	}
	if *mode != "" {
		cfg.MoveMode = *mode
		cfg.Validate()
	}

	kb, err := config.LoadKeyBindings(*kbPath)
	if err != nil {
		logger.Warn("keybinds rejected, using defaults", "path", *kbPath, "error", err)
	}
	logger.Info("configuration loaded",
		"config", *cfgPath,
		"cast_key", config.CastKey(cfg, kb),
		"speed", cfg.Speed,
		"mode", cfg.MoveMode,
		"input", cfg.InputBackend,
	)

	c, err := app.BuildContainer(cfg, kb, app.Paths{Config: *cfgPath, Keybinds: *kbPath}, logger, buf)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if *headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := app.RunHeadless(ctx, c); err != nil {
			logger.Error("session ended with error", "error", err)
			stop()
			os.Exit(1)
		}
		return
	}

	application := app.NewApp("Splash Fisher", 820, 640, c)
	application.Start()
}
