// Package theme provides the color palettes served to the browser shell.
// Palettes are resolved through the bubbletint registry and exported as CSS
// hex strings; the shell applies them as custom properties.
package theme

import (
	"fmt"

	tint "github.com/lrstanley/bubbletint/v2"
)

var (
	enabled     bool
	currentName string
)

// Initialize sets up the theme registry with the named theme. An empty name
// disables theming and the shell falls back to its built-in palette. Unknown
// names fall back to the default tint, matching how an unknown --theme flag
// behaves.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}
	enabled = true
	currentName = themeName
	tint.NewDefaultRegistry()
	if ok := tint.SetTintID(themeName); !ok {
		tint.SetTintID("default")
		currentName = "default"
	}
	return nil
}

// IsEnabled reports whether a tint theme is active.
func IsEnabled() bool {
	return enabled
}

// Current returns the active tint, or nil when theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// List returns the theme names offered in the settings panel and the CLI.
// A curated subset of the tint registry; every entry is a valid tint id.
func List() []string {
	return []string{
		"default",
		"catppuccin_mocha",
		"dracula",
		"gruvbox_dark",
		"nord",
		"one_dark",
		"rose_pine",
		"solarized_dark",
		"solarized_light",
		"tokyo_night",
	}
}

// Palette is the JSON view of a theme sent to the shell.
type Palette struct {
	Name       string     `json:"name"`
	Background string     `json:"background"`
	Surface    string     `json:"surface"`
	Text       string     `json:"text"`
	Accent     string     `json:"accent"`
	Cursor     string     `json:"cursor"`
	Border     string     `json:"border"`
	BorderDim  string     `json:"borderDim"`
	ANSI       [16]string `json:"ansi"`
}

// fallback is the built-in palette used when theming is disabled.
var fallback = Palette{
	Name:       "default",
	Background: "#14141a",
	Surface:    "#1e1e28",
	Text:       "#e5e5e5",
	Accent:     "#5c5cff",
	Cursor:     "#00ff00",
	Border:     "#afffff",
	BorderDim:  "#3a3a4a",
	ANSI: [16]string{
		"#000000", "#cd0000", "#00cd00", "#cdcd00",
		"#0000ee", "#cd00cd", "#00cdcd", "#e5e5e5",
		"#7f7f7f", "#ff0000", "#00ff00", "#ffff00",
		"#5c5cff", "#ff00ff", "#00ffff", "#ffffff",
	},
}

// CurrentPalette returns the active theme as CSS hex values. Tints may
// leave individual fields unset; those take the built-in palette's value.
func CurrentPalette() Palette {
	t := Current()
	if t == nil {
		return fallback
	}
	p := Palette{
		Name:       currentName,
		Background: hex(t.Bg, fallback.Background),
		Surface:    hex(t.Black, fallback.Surface),
		Text:       hex(t.Fg, fallback.Text),
		Accent:     hex(t.BrightBlue, fallback.Accent),
		Cursor:     hex(t.Cursor, fallback.Cursor),
		Border:     hex(t.BrightCyan, fallback.Border),
		BorderDim:  hex(t.BrightBlack, fallback.BorderDim),
	}
	ansi := [16]*tint.Color{
		t.Black, t.Red, t.Green, t.Yellow,
		t.Blue, t.Purple, t.Cyan, t.White,
		t.BrightBlack, t.BrightRed, t.BrightGreen, t.BrightYellow,
		t.BrightBlue, t.BrightPurple, t.BrightCyan, t.BrightWhite,
	}
	for i, c := range ansi {
		p.ANSI[i] = hex(c, fallback.ANSI[i])
	}
	return p
}

// hex converts a tint color to a #rrggbb CSS literal, or def when the tint
// leaves the field unset.
func hex(c *tint.Color, def string) string {
	if c == nil {
		return def
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
