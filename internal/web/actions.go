package web

import (
	"fmt"
	"strings"

	"github.com/Gaurav-Gosain/webtop/internal/apps"
	"github.com/Gaurav-Gosain/webtop/internal/desktop"
)

// dispatch routes one decoded client message to the session's desktop.
func (s *Server) dispatch(session *Session, msg ClientMessage) {
	d := session.Desktop

	switch msg.Type {
	case MsgOpenWindow:
		if w := apps.Launch(d, msg.AppID); w == nil {
			session.sendError(fmt.Sprintf("unknown app %q", msg.AppID))
		}
	case MsgCloseWindow:
		d.CloseWindow(msg.ID)
	case MsgFocusWindow:
		d.FocusWindow(msg.ID)
	case MsgMoveWindow:
		d.MoveWindow(msg.ID, msg.X, msg.Y)
	case MsgResizeWindow:
		d.ResizeWindow(msg.ID, msg.Width, msg.Height)
	case MsgMinimizeWindow:
		d.MinimizeWindow(msg.ID)
	case MsgMaximizeWindow:
		d.MaximizeWindow(msg.ID)
	case MsgRestoreWindow:
		d.RestoreWindow(msg.ID)
	case MsgSnapWindow:
		d.SnapWindow(msg.ID, desktop.SnapZone(msg.Zone))
	case MsgSetTitle:
		d.SetWindowTitle(msg.ID, msg.Title)
	case MsgSwitchWorkspace:
		d.SwitchWorkspace(msg.Index)
	case MsgMoveToWorkspace:
		d.MoveWindowToWorkspace(msg.ID, msg.WorkspaceID)
	case MsgToggleOverview:
		d.ToggleOverview()
	case MsgViewport:
		d.SetViewport(msg.Width, msg.Height)
	case MsgKey:
		s.dispatchKey(session, msg)
	default:
		logger.Warn("unknown message type", "session", session.ID, "type", msg.Type)
		session.sendError(fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

// dispatchKey resolves a key combo through the session's keybind registry and
// applies the bound action. Unbound combos are silently ignored; the shell
// forwards every shortcut candidate and lets the server decide.
func (s *Server) dispatchKey(session *Session, msg ClientMessage) {
	combo := comboString(msg)
	if combo == "" {
		return
	}

	action := session.Keybinds.GetAction(combo)
	if action == "" {
		return
	}

	logger.Debug("key action", "session", session.ID, "combo", combo, "action", action)
	applyAction(session.Desktop, action)
}

// comboString builds the canonical "mod+mod+key" form from a key message.
// Modifier keys pressed alone keep their own name (the bare meta tap toggles
// the overview).
func comboString(msg ClientMessage) string {
	key := strings.ToLower(msg.Key)
	if key == "" {
		return ""
	}

	var parts []string
	if msg.Ctrl && key != "ctrl" {
		parts = append(parts, "ctrl")
	}
	if msg.Alt && key != "alt" {
		parts = append(parts, "alt")
	}
	if msg.Shift && key != "shift" {
		parts = append(parts, "shift")
	}
	if msg.Meta && key != "meta" {
		parts = append(parts, "meta")
	}
	parts = append(parts, key)
	return strings.Join(parts, "+")
}

// applyAction performs a named keybind action against the desktop. Actions
// on a window target the focused one.
func applyAction(d *desktop.Desktop, action string) {
	focused := d.FocusedWindow()

	switch action {
	case "close_window":
		if focused != nil {
			d.CloseWindow(focused.ID)
		}
	case "minimize_window":
		if focused != nil {
			d.MinimizeWindow(focused.ID)
		}
	case "maximize_window":
		if focused != nil {
			d.MaximizeWindow(focused.ID)
		}
	case "restore_window":
		if focused != nil {
			d.RestoreWindow(focused.ID)
		}
	case "cycle_window":
		cycleFocus(d)
	case "snap_left":
		if focused != nil {
			d.SnapWindow(focused.ID, desktop.SnapLeft)
		}
	case "snap_right":
		if focused != nil {
			d.SnapWindow(focused.ID, desktop.SnapRight)
		}
	case "snap_top":
		if focused != nil {
			d.SnapWindow(focused.ID, desktop.SnapTop)
		}
	case "toggle_overview":
		d.ToggleOverview()
	case "open_launcher":
		// Launcher is rendered client-side; the combo reaching this far
		// means the shell chose not to handle it, so nothing to do.
	default:
		if idx, ok := workspaceActionIndex(action, "switch_workspace_"); ok {
			d.SwitchWorkspace(idx)
		} else if idx, ok := workspaceActionIndex(action, "move_to_workspace_"); ok {
			moveFocusedToWorkspace(d, idx)
		}
	}
}

// cycleFocus moves focus to the next non-minimized window in the active
// workspace, in creation order, wrapping around.
func cycleFocus(d *desktop.Desktop) {
	active := d.Workspaces().ActiveWorkspace()
	var visible []*desktop.Window
	for _, w := range d.Windows().WindowsByWorkspace(active.ID) {
		if w.Status != desktop.StatusMinimized {
			visible = append(visible, w)
		}
	}
	if len(visible) == 0 {
		return
	}

	next := visible[0]
	for i, w := range visible {
		if w.Focused {
			next = visible[(i+1)%len(visible)]
			break
		}
	}
	d.FocusWindow(next.ID)
}

// moveFocusedToWorkspace sends the focused window to the workspace at the
// given index, when both exist.
func moveFocusedToWorkspace(d *desktop.Desktop, index int) {
	focused := d.FocusedWindow()
	if focused == nil {
		return
	}
	all := d.Workspaces().Workspaces()
	if index < 0 || index >= len(all) {
		return
	}
	d.MoveWindowToWorkspace(focused.ID, all[index].ID)
}

// workspaceActionIndex parses actions like "switch_workspace_3" into the
// zero-based workspace index.
func workspaceActionIndex(action, prefix string) (int, bool) {
	if !strings.HasPrefix(action, prefix) {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(strings.TrimPrefix(action, prefix), "%d", &n); err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}
