// Package apps holds the built-in application manifests. The manifests feed
// the dock and launcher in the browser shell; the applications themselves
// render client-side, so a manifest is metadata only: what to call the
// window, how big to open it, and whether a second instance is allowed.
package apps

import (
	"github.com/Gaurav-Gosain/webtop/internal/desktop"
)

// App describes one launchable application.
type App struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Icon        string       `json:"icon"`
	Category    string       `json:"category"`
	DefaultSize desktop.Size `json:"defaultSize"`
	// Singleton apps focus their existing window instead of opening another.
	Singleton bool `json:"singleton"`
}

// Registry is the fixed set of built-in apps, in dock order.
var Registry = []App{
	{
		ID:          "files",
		Title:       "Files",
		Icon:        "folder",
		Category:    "system",
		DefaultSize: desktop.Size{Width: 720, Height: 480},
	},
	{
		ID:          "notes",
		Title:       "Notes",
		Icon:        "note",
		Category:    "productivity",
		DefaultSize: desktop.Size{Width: 560, Height: 640},
	},
	{
		ID:          "sound",
		Title:       "Sound",
		Icon:        "speaker",
		Category:    "media",
		DefaultSize: desktop.Size{Width: 420, Height: 300},
		Singleton:   true,
	},
	{
		ID:          "sysmon",
		Title:       "System Monitor",
		Icon:        "activity",
		Category:    "system",
		DefaultSize: desktop.Size{Width: 640, Height: 420},
		Singleton:   true,
	},
	{
		ID:          "settings",
		Title:       "Settings",
		Icon:        "gear",
		Category:    "system",
		DefaultSize: desktop.Size{Width: 600, Height: 520},
		Singleton:   true,
	},
	{
		ID:          "about",
		Title:       "About",
		Icon:        "info",
		Category:    "system",
		DefaultSize: desktop.Size{Width: 440, Height: 320},
		Singleton:   true,
	},
}

// Lookup returns the manifest for the given app id, or nil.
func Lookup(id string) *App {
	for i := range Registry {
		if Registry[i].ID == id {
			return &Registry[i]
		}
	}
	return nil
}

// Launch opens a window for the app on the desktop. Unknown ids return nil.
// For singleton apps that already have a window anywhere, the existing window
// is focused instead and returned.
func Launch(d *desktop.Desktop, appID string) *desktop.Window {
	app := Lookup(appID)
	if app == nil {
		return nil
	}
	if app.Singleton {
		for _, w := range d.Windows().Windows() {
			if w.AppID == app.ID {
				d.FocusWindow(w.ID)
				return w
			}
		}
	}
	return d.OpenWindow(app.ID, app.Title, app.DefaultSize, map[string]any{
		"icon":     app.Icon,
		"category": app.Category,
	})
}
