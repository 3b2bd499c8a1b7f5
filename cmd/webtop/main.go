// Package main implements webtop - a browser desktop served from a single
// Go binary. The server owns all window and workspace state; the browser is
// a thin shell that renders snapshots and sends intents back.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/webtop/internal/config"
	"github.com/Gaurav-Gosain/webtop/internal/theme"
	"github.com/Gaurav-Gosain/webtop/internal/web"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Command-line flags
var (
	servePort           string
	serveHost           string
	serveMaxConnections int
	serveIdleTimeout    time.Duration
	themeName           string
	debugMode           bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "webtop",
		Short: "Browser desktop environment served from a single binary",
		Long: `webtop - A desktop environment for the browser

Serves a desktop shell (dock, launcher, draggable windows, workspaces) over
HTTP. All window management runs server-side; the browser renders state
snapshots and sends every intent back over the wire.

Server features:
  - Dual protocol support: WebTransport (HTTP/3 over QUIC) for low latency
    with automatic WebSocket fallback for broader compatibility
  - Per-connection desktop sessions, nothing shared between tabs
  - Self-signed TLS certificate generation for WebTransport
  - Live system metrics (CPU, memory, uptime) pushed to the shell
  - Structured logging with charmbracelet/log

Desktop features:
  - Overlapping windows with minimize, maximize, restore and edge snapping
  - Dynamic workspaces: always one empty workspace ready, empties pruned
  - Configurable keybindings resolved server-side
  - Color themes with palettes exported to the shell as CSS`,
		Example: `  # Start on the default port (8089)
  webtop

  # Start on a custom port
  webtop --port 8080

  # Bind to all interfaces for remote access
  webtop --host 0.0.0.0

  # Start with a specific theme
  webtop --theme dracula

  # Limit concurrent connections
  webtop --max-connections 10`,
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServer()
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&servePort, "port", "", "Server port (default from config, 8089)")
	rootCmd.Flags().StringVar(&serveHost, "host", "", "Server host (default from config, localhost)")
	rootCmd.Flags().IntVar(&serveMaxConnections, "max-connections", 0, "Maximum concurrent connections (0 = unlimited)")
	rootCmd.Flags().DurationVar(&serveIdleTimeout, "idle-timeout", 0, "Disconnect idle sessions after this duration (0 = never)")
	rootCmd.Flags().StringVar(&themeName, "theme", "", "Color theme (e.g., dracula, nord, tokyo_night)")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	// Config command group
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage webtop configuration",
		Long:  `Manage the webtop configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the webtop configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return editConfigFile()
		},
	}

	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the webtop configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return resetConfigToDefaults()
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)

	// Keybinds command group
	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
	}

	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		Long:  `Display all configured keybindings in a formatted table`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return listKeybindings()
		},
	}

	keybindsCmd.AddCommand(keybindsListCmd)

	// Themes command group
	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "View available themes",
	}

	themesListCmd := &cobra.Command{
		Use:   "list",
		Short: "List available themes",
		Long:  `Display every built-in color theme with its palette`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return listThemes()
		},
	}

	themesCmd.AddCommand(themesListCmd)

	rootCmd.AddCommand(configCmd, keybindsCmd, themesCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

func runServer() error {
	if debugMode {
		log.SetLevel(log.DebugLevel)
		web.SetLogLevel(log.DebugLevel)
	}

	userConfig, err := config.LoadUserConfig()
	if err != nil {
		log.Warn("failed to load config, using defaults", "error", err)
		userConfig = config.DefaultConfig()
	}

	// Flags win over the config file
	serverConfig := web.Config{
		Host:           userConfig.Server.Host,
		Port:           userConfig.Server.Port,
		MaxConnections: userConfig.Server.MaxConnections,
		IdleTimeout:    time.Duration(userConfig.Server.IdleTimeout) * time.Second,
		Debug:          debugMode,
	}
	if serveHost != "" {
		serverConfig.Host = serveHost
	}
	if servePort != "" {
		serverConfig.Port = servePort
	}
	if serveMaxConnections > 0 {
		serverConfig.MaxConnections = serveMaxConnections
	}
	if serveIdleTimeout > 0 {
		serverConfig.IdleTimeout = serveIdleTimeout
	}

	name := userConfig.Appearance.Theme
	if themeName != "" {
		name = themeName
	}
	if err := theme.Initialize(name); err != nil {
		log.Warn("failed to load theme", "theme", name, "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
	}()

	// Pick up theme edits without restarting; new sessions see the change
	go func() {
		err := config.Watch(ctx, func(cfg *config.UserConfig) {
			log.Info("config reloaded", "theme", cfg.Appearance.Theme)
			if themeName == "" {
				if err := theme.Initialize(cfg.Appearance.Theme); err != nil {
					log.Warn("failed to apply reloaded theme", "error", err)
				}
			}
		})
		if err != nil {
			log.Debug("config watcher stopped", "error", err)
		}
	}()

	server := web.NewServer(serverConfig)
	return server.Start(ctx)
}

func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

// editConfigFile opens the config file in $EDITOR
func editConfigFile() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", configPath)
		if _, err := config.LoadUserConfig(); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "vi", "nano", "emacs"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Please set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resetConfigToDefaults resets the configuration file to default settings
func resetConfigToDefaults() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Warning: This will overwrite your existing configuration at:\n")
		fmt.Printf("  %s\n\n", configPath)
		fmt.Printf("Are you sure you want to reset to defaults? (yes/no): ")

		var response string
		_, _ = fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))

		if response != "yes" && response != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := config.SaveConfig(config.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Configuration reset to defaults\n")
	fmt.Printf("  Location: %s\n", configPath)
	fmt.Println("\nYou can customize it with: webtop config edit")
	return nil
}

// listKeybindings prints all configured keybindings in a pretty table
func listKeybindings() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Using default keybindings...")
		userConfig = config.DefaultConfig()
	}

	registry := config.NewKeybindRegistry(userConfig)
	printKeybindingsTable(registry)
	return nil
}

// printKeybindingsTable prints keybindings in a pretty table format
func printKeybindingsTable(registry *config.KeybindRegistry) {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().
		Padding(0, 1)

	sections := []struct {
		Title   string
		Actions []string
	}{
		{
			Title: "Window Management",
			Actions: []string{
				"close_window", "minimize_window", "maximize_window",
				"restore_window", "cycle_window",
			},
		},
		{
			Title:   "Workspaces",
			Actions: generateWorkspaceActions(),
		},
		{
			Title: "Layout",
			Actions: []string{
				"snap_left", "snap_right", "snap_top",
			},
		},
		{
			Title: "System",
			Actions: []string{
				"toggle_overview", "open_launcher",
			},
		},
	}

	fmt.Println()
	fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Render("WebTop Keybindings"))
	fmt.Println()

	for _, section := range sections {
		rows := [][]string{}

		for _, action := range section.Actions {
			keys := registry.GetKeys(action)
			if len(keys) == 0 {
				continue // Skip unbound actions
			}

			desc := config.ActionDescriptions[action]
			if desc == "" {
				desc = action
			}

			rows = append(rows, []string{strings.Join(keys, ", "), desc})
		}

		if len(rows) == 0 {
			continue
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
			Headers("Keys", "Action").
			Rows(rows...).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == -1 {
					return headerStyle
				}
				return cellStyle
			})

		fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")).Render(section.Title))
		fmt.Println(t.Render())
		fmt.Println()
	}

	note := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true).
		Render("Note: shortcuts are resolved server-side; the browser forwards every modifier chord.")
	fmt.Println(note)
	fmt.Println()
}

// generateWorkspaceActions generates all workspace switch and move actions (1-9)
func generateWorkspaceActions() []string {
	actions := []string{}
	for i := 1; i <= 9; i++ {
		actions = append(actions, fmt.Sprintf("switch_workspace_%d", i))
	}
	for i := 1; i <= 9; i++ {
		actions = append(actions, fmt.Sprintf("move_to_workspace_%d", i))
	}
	return actions
}

// listThemes prints every built-in theme with a palette preview
func listThemes() error {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().
		Padding(0, 1)

	rows := [][]string{}
	for _, name := range theme.List() {
		if err := theme.Initialize(name); err != nil {
			continue
		}
		p := theme.CurrentPalette()
		rows = append(rows, []string{name, p.Background, p.Text, p.Accent})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("Theme", "Background", "Text", "Accent").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return cellStyle
		})

	fmt.Println()
	fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Render("WebTop Themes"))
	fmt.Println()
	fmt.Println(t.Render())
	fmt.Println()
	fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true).Render("Use with: webtop --theme <name>"))
	fmt.Println()
	return nil
}
