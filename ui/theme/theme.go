// Package theme holds the palette and ttk styles of the control window.
package theme

import (
	tk "modernc.org/tk9.0"
)

// Palette defines the semantic colours used across widgets.
type Palette struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Accent    string
	Text      string
	TextMuted string
	OnAccent  string
}

var (
	light = Palette{
		AppBg:     "#f7f9fb",
		Surface:   "#ffffff",
		Border:    "#d0d7de",
		Primary:   "#2563eb",
		Danger:    "#dc2626",
		Accent:    "#10b981",
		Text:      "#1e293b",
		TextMuted: "#64748b",
		OnAccent:  "white",
	}
	dark = Palette{
		AppBg:     "#0f172a",
		Surface:   "#1e293b",
		Border:    "#334155",
		Primary:   "#3b82f6",
		Danger:    "#ef4444",
		Accent:    "#10b981",
		Text:      "#f1f5f9",
		TextMuted: "#94a3b8",
		OnAccent:  "#f0fdf4",
	}
)

// Style names used with Style(...).
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStateLabel    = "state.TLabel"
)

var darkMode bool

// Current returns the palette for the active mode.
func Current() Palette {
	if darkMode {
		return dark
	}
	return light
}

// InitStyles (re)applies styles for the current mode.
func InitStyles() { applyStyles(Current()) }

// SetDark selects dark or light mode and reapplies styles.
func SetDark(on bool) bool {
	darkMode = on
	applyStyles(Current())
	return darkMode
}

// ToggleDark flips dark mode and returns the new value.
func ToggleDark() bool { return SetDark(!darkMode) }

// IsDark reports the current mode.
func IsDark() bool { return darkMode }

func applyStyles(p Palette) {
	_ = tk.ActivateTheme("azure light")
	tk.App.Configure(tk.Background(p.AppBg))

	button := func(name, bg string) {
		tk.StyleConfigure(name,
			tk.Background(bg),
			tk.Foreground("white"),
			tk.Padding("4p 3p"),
			tk.Borderwidth(1),
			tk.Relief("ridge"),
		)
	}
	button(StylePrimaryButton, p.Primary)
	button(StyleDangerButton, p.Danger)

	tk.StyleConfigure(StyleStateLabel,
		tk.Foreground(p.OnAccent),
		tk.Background(p.Accent),
		tk.Padding("4p 2p"),
		tk.Borderwidth(1),
		tk.Relief("groove"),
	)
}
