// Package config handles WebTop's user configuration: the TOML config file,
// keybinding registry, and the layout constants shared by the engine and the
// shell.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// Layout constants shared by the state engine and the browser shell. The
// shell mirrors these in CSS; changing one side without the other breaks
// snap geometry.
const (
	// DockWidth is the width of the dock strip on the left edge, in pixels.
	DockWidth = 64
	// TitleBarHeight is the height of the top bar, in pixels.
	TitleBarHeight = 32

	// CascadeOriginX and CascadeOriginY anchor the open-window cascade.
	CascadeOriginX = 100
	CascadeOriginY = 60
	// CascadeStep is the diagonal offset between consecutively opened windows.
	CascadeStep = 30
	// CascadeWrap is how many windows open before the cascade restarts.
	CascadeWrap = 8

	// DefaultWindowWidth and DefaultWindowHeight apply when an app manifest
	// does not specify a size.
	DefaultWindowWidth  = 640
	DefaultWindowHeight = 480
)

// UserConfig is the on-disk configuration.
type UserConfig struct {
	Server      ServerConfig      `toml:"server"`
	Appearance  AppearanceConfig  `toml:"appearance"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
}

// ServerConfig controls the HTTP/WebTransport listener.
type ServerConfig struct {
	Host           string `toml:"host"`
	Port           string `toml:"port"`
	MaxConnections int    `toml:"max_connections"`
	IdleTimeout    int    `toml:"idle_timeout_seconds"`
}

// AppearanceConfig controls the shell's look.
type AppearanceConfig struct {
	Theme        string `toml:"theme"`
	Wallpaper    string `toml:"wallpaper"`
	DockAutoHide bool   `toml:"dock_auto_hide"`
}

// KeybindingsConfig maps desktop actions to one or more shortcuts. Keys are
// action names, values are key chords in "mod+key" form.
type KeybindingsConfig struct {
	WindowManagement map[string][]string `toml:"window_management"`
	Workspaces       map[string][]string `toml:"workspaces"`
	Layout           map[string][]string `toml:"layout"`
	System           map[string][]string `toml:"system"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *UserConfig {
	cfg := &UserConfig{
		Server: ServerConfig{
			Host:           "localhost",
			Port:           "8089",
			MaxConnections: 0,
			IdleTimeout:    0,
		},
		Appearance: AppearanceConfig{
			Theme:     "tokyo_night",
			Wallpaper: "gradient",
		},
		Keybindings: KeybindingsConfig{
			WindowManagement: map[string][]string{
				"close_window":    {"alt+f4"},
				"minimize_window": {"alt+down"},
				"maximize_window": {"alt+up"},
				"restore_window":  {"alt+shift+down"},
				"cycle_window":    {"alt+tab"},
			},
			Layout: map[string][]string{
				"snap_left":  {"meta+left"},
				"snap_right": {"meta+right"},
				"snap_top":   {"meta+up"},
			},
			System: map[string][]string{
				"toggle_overview": {"meta"},
				"open_launcher":   {"meta+space"},
			},
			Workspaces: map[string][]string{},
		},
	}
	for i := 1; i <= 9; i++ {
		cfg.Keybindings.Workspaces[fmt.Sprintf("switch_workspace_%d", i)] = []string{fmt.Sprintf("alt+%d", i)}
		cfg.Keybindings.Workspaces[fmt.Sprintf("move_to_workspace_%d", i)] = []string{fmt.Sprintf("alt+shift+%d", i)}
	}
	return cfg
}

// GetConfigPath returns the path of the user config file, creating the
// parent directory if needed.
func GetConfigPath() (string, error) {
	dir := filepath.Join(xdg.ConfigHome, "webtop")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory: %w", err)
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadUserConfig reads the user config, writing the defaults first if no
// file exists yet. Unknown actions are kept so users can bind shell-side
// extensions without fighting the loader.
func LoadUserConfig() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes the configuration to the user config path with a short
// explanatory header.
func SaveConfig(cfg *UserConfig) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("# WebTop configuration file\n")
	sb.WriteString("# Keybindings map actions to arrays of shortcuts; multiple\n")
	sb.WriteString("# shortcuts can be bound to the same action.\n\n")

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	sb.Write(data)

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
