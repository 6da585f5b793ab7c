package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// DefaultKeyBindingsPath is the side document holding the fishing key.
const DefaultKeyBindingsPath = "config/keybinds.json"

// SupportedKeys lists the input names accepted for the fishing key.
var SupportedKeys = []string{"mouse1", "mouse2", "space", "k", "l", "left", "right"}

// KeyBindings maps logical actions to input names.
type KeyBindings struct {
	FishingKey string `mapstructure:"fishing_key"`
	// Present is set when the binding came from the document or environment.
	Present bool `mapstructure:"-"`
}

// ErrUnsupportedKey is returned when a binding names an input outside SupportedKeys.
var ErrUnsupportedKey = errors.New("config: unsupported key")

// DefaultKeyBindings returns the bindings used when the document is missing.
func DefaultKeyBindings() KeyBindings { return KeyBindings{FishingKey: SupportedKeys[0]} }

// IsSupportedKey reports whether k is one of SupportedKeys.
func IsSupportedKey(k string) bool {
	return slices.Contains(SupportedKeys, strings.ToLower(strings.TrimSpace(k)))
}

func newKeyViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix("splashfisher")
	v.SetDefault("fishing_key", DefaultKeyBindings().FishingKey)
	_ = v.BindEnv("fishing_key")
	return v
}

// LoadKeyBindings reads the key-bindings document at path. A missing file
// yields the defaults without error; SPLASHFISHER_FISHING_KEY overrides the
// file value. An unsupported stored value falls back to the default and is
// reported as ErrUnsupportedKey.
func LoadKeyBindings(path string) (KeyBindings, error) {
	v := newKeyViper()
	v.SetConfigFile(path)
	_, present := os.LookupEnv("SPLASHFISHER_FISHING_KEY")
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &nf) {
			return DefaultKeyBindings(), fmt.Errorf("config: read keybinds %s: %w", path, err)
		}
	} else {
		present = true
	}
	var kb KeyBindings
	if err := v.Unmarshal(&kb); err != nil {
		return DefaultKeyBindings(), fmt.Errorf("config: decode keybinds: %w", err)
	}
	kb.FishingKey = strings.ToLower(strings.TrimSpace(kb.FishingKey))
	if !IsSupportedKey(kb.FishingKey) {
		bad := kb.FishingKey
		return DefaultKeyBindings(), fmt.Errorf("%w: %q", ErrUnsupportedKey, bad)
	}
	kb.Present = present
	return kb, nil
}

// SaveKeyBindings writes kb to path, creating parent directories.
func SaveKeyBindings(path string, kb KeyBindings) error {
	key := strings.ToLower(strings.TrimSpace(kb.FishingKey))
	if !IsSupportedKey(key) {
		return fmt.Errorf("%w: %q", ErrUnsupportedKey, kb.FishingKey)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create dir: %w", err)
		}
	}
	v := viper.New()
	v.SetConfigType("json")
	v.Set("fishing_key", key)
	return v.WriteConfigAs(path)
}

// CastKey resolves the key pressed to cast: the bound fishing key when a
// binding is present, otherwise the config bind key.
func CastKey(cfg *Config, kb KeyBindings) string {
	if kb.Present && IsSupportedKey(kb.FishingKey) {
		return kb.FishingKey
	}
	if cfg != nil {
		return cfg.BindKey
	}
	return DefaultConfig().BindKey
}
