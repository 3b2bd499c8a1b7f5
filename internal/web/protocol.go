package web

import (
	"encoding/json"

	"github.com/Gaurav-Gosain/webtop/internal/apps"
	"github.com/Gaurav-Gosain/webtop/internal/desktop"
	"github.com/Gaurav-Gosain/webtop/internal/system"
	"github.com/Gaurav-Gosain/webtop/internal/theme"
)

// Client message types. Every message is a JSON object carrying a "type"
// plus the fields that type needs; unknown types are answered with an error
// message rather than dropping the connection.
const (
	MsgOpenWindow      = "open_window"
	MsgCloseWindow     = "close_window"
	MsgFocusWindow     = "focus_window"
	MsgMoveWindow      = "move_window"
	MsgResizeWindow    = "resize_window"
	MsgMinimizeWindow  = "minimize_window"
	MsgMaximizeWindow  = "maximize_window"
	MsgRestoreWindow   = "restore_window"
	MsgSnapWindow      = "snap_window"
	MsgSetTitle        = "set_title"
	MsgSwitchWorkspace = "switch_workspace"
	MsgMoveToWorkspace = "move_to_workspace"
	MsgToggleOverview  = "toggle_overview"
	MsgViewport        = "viewport"
	MsgKey             = "key"
)

// Server message types.
const (
	MsgSnapshot = "snapshot"
	MsgApps     = "apps"
	MsgTheme    = "theme"
	MsgMetrics  = "metrics"
	MsgError    = "error"
)

// ClientMessage is the union of every client request. Fields not used by a
// given type are left at their zero value.
type ClientMessage struct {
	Type        string `json:"type"`
	ID          string `json:"id,omitempty"`
	AppID       string `json:"appId,omitempty"`
	Title       string `json:"title,omitempty"`
	X           int    `json:"x,omitempty"`
	Y           int    `json:"y,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Zone        string `json:"zone,omitempty"`
	Index       int    `json:"index,omitempty"`
	WorkspaceID string `json:"workspaceId,omitempty"`
	Key         string `json:"key,omitempty"`
	Ctrl        bool   `json:"ctrl,omitempty"`
	Alt         bool   `json:"alt,omitempty"`
	Shift       bool   `json:"shift,omitempty"`
	Meta        bool   `json:"meta,omitempty"`
}

// ServerMessage is the envelope for everything pushed to the shell.
type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

func marshalMessage(msgType string, data any) []byte {
	out, err := json.Marshal(ServerMessage{Type: msgType, Data: data})
	if err != nil {
		logger.Error("message marshal failed", "type", msgType, "err", err)
		return nil
	}
	return out
}

func snapshotMessage(snap desktop.Snapshot) []byte {
	return marshalMessage(MsgSnapshot, snap)
}

func appsMessage() []byte {
	return marshalMessage(MsgApps, apps.Registry)
}

func themeMessage() []byte {
	return marshalMessage(MsgTheme, theme.CurrentPalette())
}

func metricsMessage(stats system.Stats) []byte {
	return marshalMessage(MsgMetrics, stats)
}

func errorMessage(text string) []byte {
	return marshalMessage(MsgError, map[string]string{"message": text})
}
