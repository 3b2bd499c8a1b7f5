package config

import (
	"sort"
	"strings"
)

// ActionDescriptions maps action names to human-readable descriptions for
// the settings panel and the CLI keybinding table.
var ActionDescriptions = map[string]string{
	"close_window":    "Close the focused window",
	"minimize_window": "Minimize the focused window",
	"maximize_window": "Maximize the focused window",
	"restore_window":  "Restore the focused window",
	"cycle_window":    "Focus the next window",
	"snap_left":       "Snap window to the left half",
	"snap_right":      "Snap window to the right half",
	"snap_top":        "Snap window to the full desktop",
	"toggle_overview": "Toggle the workspace overview",
	"open_launcher":   "Open the app launcher",
}

func init() {
	for i := '1'; i <= '9'; i++ {
		ActionDescriptions["switch_workspace_"+string(i)] = "Switch to workspace " + string(i)
		ActionDescriptions["move_to_workspace_"+string(i)] = "Move window to workspace " + string(i)
	}
}

// KeybindRegistry resolves shortcuts to actions and back. Keys are stored
// normalized so lookups are case- and alias-insensitive.
type KeybindRegistry struct {
	actionToKeys map[string][]string
	keyToAction  map[string]string
	normalizer   *KeyNormalizer
}

// NewKeybindRegistry builds a registry from the user configuration.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		actionToKeys: make(map[string][]string),
		keyToAction:  make(map[string]string),
		normalizer:   NewKeyNormalizer(),
	}
	for _, section := range []map[string][]string{
		cfg.Keybindings.WindowManagement,
		cfg.Keybindings.Workspaces,
		cfg.Keybindings.Layout,
		cfg.Keybindings.System,
	} {
		for action, keys := range section {
			for _, key := range keys {
				for _, norm := range r.normalizer.NormalizeKey(key) {
					r.actionToKeys[action] = append(r.actionToKeys[action], norm)
					r.keyToAction[norm] = action
				}
			}
		}
	}
	return r
}

// GetKeys returns the normalized shortcuts bound to an action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.actionToKeys[action]
}

// GetAction returns the action bound to a shortcut, or "" when unbound.
func (r *KeybindRegistry) GetAction(key string) string {
	for _, norm := range r.normalizer.NormalizeKey(key) {
		if action, ok := r.keyToAction[norm]; ok {
			return action
		}
	}
	return ""
}

// GetKeysForDisplay returns the shortcuts for an action joined for display.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	return strings.Join(r.actionToKeys[action], ", ")
}

// Actions returns every bound action name, sorted.
func (r *KeybindRegistry) Actions() []string {
	out := make([]string, 0, len(r.actionToKeys))
	for action := range r.actionToKeys {
		out = append(out, action)
	}
	sort.Strings(out)
	return out
}

// KeyNormalizer canonicalizes shortcut strings from the config file and the
// browser. Browsers report "Meta"/"ArrowLeft"/"Escape"; config files tend
// toward "meta+left" and "esc". Both map to the same normalized form.
type KeyNormalizer struct {
	aliases map[string][]string
}

// NewKeyNormalizer returns a normalizer with the standard alias table.
func NewKeyNormalizer() *KeyNormalizer {
	return &KeyNormalizer{
		aliases: map[string][]string{
			"return":     {"return", "enter"},
			"enter":      {"enter", "return"},
			"esc":        {"esc", "escape"},
			"escape":     {"escape", "esc"},
			"arrowleft":  {"left"},
			"arrowright": {"right"},
			"arrowup":    {"up"},
			"arrowdown":  {"down"},
			" ":          {"space"},
		},
	}
}

// NormalizeKey lowercases a chord, canonicalizes modifier order and expands
// aliases. It returns every normalized form the input could match.
func (n *KeyNormalizer) NormalizeKey(key string) []string {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil
	}

	parts := strings.Split(key, "+")
	base := parts[len(parts)-1]
	mods := parts[:len(parts)-1]

	// Canonical modifier order: ctrl, alt, shift, meta.
	ordered := make([]string, 0, len(mods))
	for _, want := range []string{"ctrl", "alt", "shift", "meta"} {
		for _, m := range mods {
			m = strings.TrimSpace(m)
			if m == "cmd" || m == "super" {
				m = "meta"
			}
			if m == want {
				ordered = append(ordered, m)
			}
		}
	}

	if base == "cmd" || base == "super" {
		base = "meta"
	}
	bases := []string{base}
	if alt, ok := n.aliases[base]; ok {
		bases = alt
	}

	out := make([]string, 0, len(bases))
	for _, b := range bases {
		chord := b
		if len(ordered) > 0 {
			chord = strings.Join(ordered, "+") + "+" + b
		}
		out = append(out, chord)
	}
	return out
}

// ValidateKey reports whether a chord is usable as a binding, with a reason
// when it is not.
func (n *KeyNormalizer) ValidateKey(key string) (bool, string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, "empty key"
	}
	parts := strings.Split(strings.ToLower(key), "+")
	if parts[len(parts)-1] == "" {
		return false, "missing base key"
	}
	for _, m := range parts[:len(parts)-1] {
		switch m {
		case "ctrl", "alt", "shift", "meta", "cmd", "super":
		default:
			return false, "unknown modifier: " + m
		}
	}
	return true, ""
}
