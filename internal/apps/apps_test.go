package apps_test

import (
	"testing"

	"github.com/Gaurav-Gosain/webtop/internal/apps"
	"github.com/Gaurav-Gosain/webtop/internal/desktop"
)

// =============================================================================
// Registry Tests
// =============================================================================

func TestRegistryManifests(t *testing.T) {
	if len(apps.Registry) == 0 {
		t.Fatal("Expected built-in apps registered")
	}

	seen := make(map[string]bool)
	for _, app := range apps.Registry {
		if app.ID == "" || app.Title == "" || app.Icon == "" {
			t.Errorf("App %q missing required manifest fields", app.ID)
		}
		if app.DefaultSize.Width <= 0 || app.DefaultSize.Height <= 0 {
			t.Errorf("App %q has no default size", app.ID)
		}
		if seen[app.ID] {
			t.Errorf("Duplicate app id %q", app.ID)
		}
		seen[app.ID] = true
	}

	for _, id := range []string{"sound", "notes", "files", "settings", "about", "sysmon"} {
		if !seen[id] {
			t.Errorf("Expected built-in app %q", id)
		}
	}
}

func TestLookup(t *testing.T) {
	if app := apps.Lookup("notes"); app == nil || app.ID != "notes" {
		t.Error("Expected Lookup to find notes")
	}
	if apps.Lookup("missing") != nil {
		t.Error("Expected nil for an unknown app id")
	}
}

// =============================================================================
// Launch Tests
// =============================================================================

func TestLaunchOpensWindowWithDefaults(t *testing.T) {
	d := desktop.New()

	w := apps.Launch(d, "notes")

	if w == nil {
		t.Fatal("Expected a window")
	}
	app := apps.Lookup("notes")
	if w.Size != app.DefaultSize {
		t.Errorf("Expected default size %+v, got %+v", app.DefaultSize, w.Size)
	}
	if w.Title != app.Title {
		t.Errorf("Expected title %q, got %q", app.Title, w.Title)
	}
	if w.Metadata["icon"] != app.Icon {
		t.Error("Expected the icon carried in window metadata")
	}
}

func TestLaunchUnknownApp(t *testing.T) {
	d := desktop.New()

	if apps.Launch(d, "missing") != nil {
		t.Error("Expected nil for an unknown app")
	}
	if d.Windows().Len() != 0 {
		t.Error("Expected no window opened")
	}
}

func TestLaunchSingletonFocusesExisting(t *testing.T) {
	d := desktop.New()

	first := apps.Launch(d, "settings")
	apps.Launch(d, "notes")
	second := apps.Launch(d, "settings")

	if second == nil || second.ID != first.ID {
		t.Fatal("Expected the existing settings window returned")
	}
	if d.Windows().Len() != 2 {
		t.Errorf("Expected 2 windows, got %d", d.Windows().Len())
	}
	if !first.Focused {
		t.Error("Expected the existing singleton window refocused")
	}
}

func TestLaunchNonSingletonOpensCopies(t *testing.T) {
	d := desktop.New()

	a := apps.Launch(d, "notes")
	b := apps.Launch(d, "notes")

	if a.ID == b.ID {
		t.Error("Expected two distinct notes windows")
	}
	if d.Windows().Len() != 2 {
		t.Errorf("Expected 2 windows, got %d", d.Windows().Len())
	}
}
