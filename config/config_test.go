package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_MissingFilePersistsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fishing_config.json")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("defaults should be persisted: %v", err)
	}
}

func TestLoad_CorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fishing_config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("expected defaults after corrupt file, got %+v", cfg)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("rewritten defaults should load cleanly: %v", err)
	}
	if !reflect.DeepEqual(again, DefaultConfig()) {
		t.Fatalf("reloaded config differs from defaults")
	}
}

func TestLoad_UnopenableFilePersistsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fishing_config.json")
	denied := errors.New("permission denied")
	orig := openConfig
	openConfig = func(string) (io.ReadCloser, error) { return nil, denied }
	t.Cleanup(func() { openConfig = orig })

	cfg, err := Load(path)
	if !errors.Is(err, denied) {
		t.Fatalf("expected open error to be reported, got %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("defaults should be persisted: %v", err)
	}
}

func TestDefaultConfig_ScansEveryPosition(t *testing.T) {
	if got := DefaultConfig().Stride; got != 1 {
		t.Fatalf("default stride should be 1, got %d", got)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fishing_config.json")
	cfg := DefaultConfig()
	cfg.BindKey = "r"
	cfg.PauseKey = "o"
	cfg.ExitKey = "x"
	cfg.Speed = 8
	cfg.FishingActive = true
	cfg.MoveMode = "left"
	cfg.SplashColorRange = ColorRange{{10, 20, 30}, {40, 50, 60}}
	cfg.CircleParams = CircleParams{DP: 1.5, MinDist: 80, Param1: 60, Param2: 25, MinRadius: 12, MaxRadius: 90}
	cfg.SplashThreshold = 0.8
	cfg.SelectionX, cfg.SelectionY, cfg.SelectionW, cfg.SelectionH = 10, 20, 300, 200
	cfg.SaveDebugScreenshots = true
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(cfg, loaded) {
		t.Fatalf("round trip mismatch:\nsaved  %+v\nloaded %+v", cfg, loaded)
	}
}

func TestValidate_ClampsRanges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Speed = 42
	cfg.MoveMode = "diagonal"
	cfg.SplashColorRange = ColorRange{{-5, 300, 20}, {200, 10, 999}}
	cfg.NavThreshold = 1.5
	cfg.Stride = 0
	cfg.BindKey = "  E "
	cfg.Validate()
	if cfg.Speed != 10 {
		t.Fatalf("speed should clamp to 10, got %d", cfg.Speed)
	}
	if cfg.MoveMode != "splash" {
		t.Fatalf("unknown move mode should fall back, got %q", cfg.MoveMode)
	}
	want := ColorRange{{0, 255, 20}, {179, 10, 255}}
	if cfg.SplashColorRange != want {
		t.Fatalf("colour range clamp: got %v want %v", cfg.SplashColorRange, want)
	}
	if cfg.NavThreshold != DefaultConfig().NavThreshold {
		t.Fatalf("threshold outside (0,1] should reset, got %v", cfg.NavThreshold)
	}
	if cfg.Stride != 1 {
		t.Fatalf("stride should be at least 1, got %d", cfg.Stride)
	}
	if cfg.BindKey != "e" {
		t.Fatalf("bind key should be normalised, got %q", cfg.BindKey)
	}
	if got := cfg.MaxStep(); got != 200 {
		t.Fatalf("max step for speed 10: got %v", got)
	}
}

func TestKeyBindings_RoundTripAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config", "keybinds.json")

	kb, err := LoadKeyBindings(path)
	if err != nil {
		t.Fatalf("missing document should yield defaults: %v", err)
	}
	if kb.FishingKey != "mouse1" || kb.Present {
		t.Fatalf("default fishing key: got %+v", kb)
	}

	if err := SaveKeyBindings(path, KeyBindings{FishingKey: "Space"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	kb, err = LoadKeyBindings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if kb.FishingKey != "space" || !kb.Present {
		t.Fatalf("round trip: got %+v", kb)
	}
}

func TestKeyBindings_RejectsUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	if err := SaveKeyBindings(path, KeyBindings{FishingKey: "f13"}); !errors.Is(err, ErrUnsupportedKey) {
		t.Fatalf("expected ErrUnsupportedKey, got %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"fishing_key":"banana"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	kb, err := LoadKeyBindings(path)
	if !errors.Is(err, ErrUnsupportedKey) {
		t.Fatalf("expected ErrUnsupportedKey on load, got %v", err)
	}
	if kb != DefaultKeyBindings() {
		t.Fatalf("unsupported stored value should fall back to defaults, got %+v", kb)
	}
}

func TestCastKey_PrefersBinding(t *testing.T) {
	cfg := DefaultConfig()
	if got := CastKey(cfg, KeyBindings{FishingKey: "k", Present: true}); got != "k" {
		t.Fatalf("expected bound key, got %q", got)
	}
	if got := CastKey(cfg, DefaultKeyBindings()); got != cfg.BindKey {
		t.Fatalf("expected bind key fallback, got %q", got)
	}
}
