package theme

import (
	"regexp"
	"testing"
)

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestInitializeEmptyDisables(t *testing.T) {
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize(\"\") returned error: %v", err)
	}
	if IsEnabled() {
		t.Error("Expected theming disabled for empty name")
	}
	if Current() != nil {
		t.Error("Expected nil tint when disabled")
	}

	p := CurrentPalette()
	if p.Name != "default" || p.Background == "" {
		t.Error("Expected the built-in fallback palette when disabled")
	}
}

func TestInitializeKnownTheme(t *testing.T) {
	if err := Initialize("dracula"); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if !IsEnabled() {
		t.Error("Expected theming enabled")
	}
	if Current() == nil {
		t.Error("Expected a tint to be active")
	}
	if got := CurrentPalette().Name; got != "dracula" {
		t.Errorf("Expected palette name dracula, got %q", got)
	}
}

func TestInitializeUnknownFallsBack(t *testing.T) {
	if err := Initialize("no_such_theme"); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if !IsEnabled() {
		t.Error("Expected theming still enabled on fallback")
	}
	if got := CurrentPalette().Name; got != "default" {
		t.Errorf("Expected fallback to default, got %q", got)
	}
}

func TestPaletteColorsAreCSSHex(t *testing.T) {
	for _, name := range List() {
		if err := Initialize(name); err != nil {
			t.Fatalf("Initialize(%q) returned error: %v", name, err)
		}
		p := CurrentPalette()

		for label, v := range map[string]string{
			"background": p.Background,
			"surface":    p.Surface,
			"text":       p.Text,
			"accent":     p.Accent,
			"border":     p.Border,
			"borderDim":  p.BorderDim,
		} {
			if !hexColor.MatchString(v) {
				t.Errorf("Theme %q: %s = %q is not a CSS hex color", name, label, v)
			}
		}
		for i, v := range p.ANSI {
			if !hexColor.MatchString(v) {
				t.Errorf("Theme %q: ansi[%d] = %q is not a CSS hex color", name, i, v)
			}
		}
	}
}

// Some tints leave color fields unset (nil pointers). The palette must not
// dereference them and falls back to the built-in value per field.
func TestSparseTintsUseFallbackColors(t *testing.T) {
	for _, name := range []string{"tokyo_night", "one_dark", "rose_pine"} {
		if err := Initialize(name); err != nil {
			t.Fatalf("Initialize(%q) returned error: %v", name, err)
		}
		p := CurrentPalette()
		if p.Name != name {
			t.Errorf("Expected palette name %q, got %q", name, p.Name)
		}
		if !hexColor.MatchString(p.Cursor) {
			t.Errorf("Theme %q: cursor = %q is not a CSS hex color", name, p.Cursor)
		}
		for i, v := range p.ANSI {
			if !hexColor.MatchString(v) {
				t.Errorf("Theme %q: ansi[%d] = %q is not a CSS hex color", name, i, v)
			}
		}
	}
}

func TestHex(t *testing.T) {
	if got := hex(nil, "#123456"); got != "#123456" {
		t.Errorf("hex(nil, def) = %q, want the fallback value", got)
	}
}
