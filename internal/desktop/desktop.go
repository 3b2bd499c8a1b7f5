package desktop

import (
	"sync"
)

// EventType identifies what kind of mutation a listener is being told about.
type EventType string

const (
	// EventWindowOpened fires after a window is created.
	EventWindowOpened EventType = "window_opened"
	// EventWindowClosed fires after a window is removed.
	EventWindowClosed EventType = "window_closed"
	// EventStateChanged fires after any other mutation.
	EventStateChanged EventType = "state_changed"
)

// Event describes a single desktop mutation.
type Event struct {
	Type     EventType
	WindowID string
}

// Desktop ties the window store and the workspace store together. The two
// stores are deliberately decoupled (the workspace store only sees opaque
// ids), so every compound action that touches both - opening, closing,
// moving a window between workspaces - goes through here and updates both
// sides in one call. The workspace store is the source of truth for
// membership; Window.WorkspaceID is kept in lockstep for display.
//
// All methods are safe for use from a single owner goroutine plus readers
// of Snapshot; a mutex makes each operation atomic relative to the others.
type Desktop struct {
	mu       sync.Mutex
	windows  *WindowManager
	wspaces  *WorkspaceManager
	viewport Size
	onChange func(Event)
}

// New returns an empty desktop: no windows, one empty workspace.
func New() *Desktop {
	return &Desktop{
		windows: NewWindowManager(),
		wspaces: NewWorkspaceManager(),
	}
}

// OnChange registers the single listener notified after every mutation.
func (d *Desktop) OnChange(fn func(Event)) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

func (d *Desktop) emit(ev Event) {
	if d.onChange != nil {
		d.onChange(ev)
	}
}

// SetViewport records the browser viewport size, used for snap and maximize
// geometry.
func (d *Desktop) SetViewport(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.viewport = Size{Width: width, Height: height}
	d.emit(Event{Type: EventStateChanged})
}

// Viewport returns the last reported viewport size.
func (d *Desktop) Viewport() Size {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewport
}

// OpenWindow creates a window in the active workspace and registers its
// membership there, in one step.
func (d *Desktop) OpenWindow(appID, title string, defaultSize Size, metadata map[string]any) *Window {
	d.mu.Lock()
	defer d.mu.Unlock()

	ws := d.wspaces.ActiveWorkspace()
	w := d.windows.OpenWindow(appID, title, ws.ID, defaultSize, metadata)
	d.wspaces.AddWindowToWorkspace(ws.ID, w.ID)
	d.emit(Event{Type: EventWindowOpened, WindowID: w.ID})
	return w
}

// CloseWindow removes the window and its workspace membership.
func (d *Desktop) CloseWindow(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.windows.CloseWindow(id)
	d.wspaces.RemoveWindowFromWorkspace(id)
	d.emit(Event{Type: EventWindowClosed, WindowID: id})
}

// FocusWindow focuses the window and brings it to the front.
func (d *Desktop) FocusWindow(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.windows.FocusWindow(id)
	d.emit(Event{Type: EventStateChanged, WindowID: id})
}

// MinimizeWindow hides the window to the dock.
func (d *Desktop) MinimizeWindow(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.windows.MinimizeWindow(id)
	d.emit(Event{Type: EventStateChanged, WindowID: id})
}

// MaximizeWindow fills the usable desktop with the window.
func (d *Desktop) MaximizeWindow(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.windows.MaximizeWindow(id, UsableBounds(d.viewport))
	d.emit(Event{Type: EventStateChanged, WindowID: id})
}

// RestoreWindow reverts a maximized or snapped window to its saved geometry.
func (d *Desktop) RestoreWindow(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.windows.RestoreWindow(id)
	d.emit(Event{Type: EventStateChanged, WindowID: id})
}

// MoveWindow repositions the window.
func (d *Desktop) MoveWindow(id string, x, y int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.windows.MoveWindow(id, x, y)
	d.emit(Event{Type: EventStateChanged, WindowID: id})
}

// ResizeWindow changes the window dimensions.
func (d *Desktop) ResizeWindow(id string, width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.windows.ResizeWindow(id, width, height)
	d.emit(Event{Type: EventStateChanged, WindowID: id})
}

// SetWindowTitle renames the window.
func (d *Desktop) SetWindowTitle(id, title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.windows.SetWindowTitle(id, title)
	d.emit(Event{Type: EventStateChanged, WindowID: id})
}

// SnapWindow applies a half- or full-desktop geometry preset.
func (d *Desktop) SnapWindow(id string, zone SnapZone) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.windows.SnapWindow(id, zone, d.viewport)
	d.emit(Event{Type: EventStateChanged, WindowID: id})
}

// SwitchWorkspace activates the workspace at index.
func (d *Desktop) SwitchWorkspace(index int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wspaces.SwitchWorkspace(index)
	d.emit(Event{Type: EventStateChanged})
}

// MoveWindowToWorkspace reassigns the window's bucket membership and its
// recorded workspace id together, so the two views cannot drift.
func (d *Desktop) MoveWindowToWorkspace(windowID, targetWorkspaceID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.wspaces.Workspace(targetWorkspaceID) == nil {
		return
	}
	d.wspaces.MoveWindowToWorkspace(windowID, targetWorkspaceID)
	if w := d.windows.Window(windowID); w != nil {
		w.WorkspaceID = targetWorkspaceID
	}
	d.emit(Event{Type: EventStateChanged, WindowID: windowID})
}

// ToggleOverview flips the workspace overview.
func (d *Desktop) ToggleOverview() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wspaces.ToggleOverview()
	d.emit(Event{Type: EventStateChanged})
}

// SetOverviewOpen shows or hides the workspace overview.
func (d *Desktop) SetOverviewOpen(open bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wspaces.SetOverviewOpen(open)
	d.emit(Event{Type: EventStateChanged})
}

// Windows exposes the window store for read access.
func (d *Desktop) Windows() *WindowManager {
	return d.windows
}

// Workspaces exposes the workspace store for read access.
func (d *Desktop) Workspaces() *WorkspaceManager {
	return d.wspaces
}

// FocusedWindow returns the focused window, or nil.
func (d *Desktop) FocusedWindow() *Window {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.windows.FocusedWindow()
}

// Snapshot is the JSON-ready view of the whole desktop, pushed to the shell
// after every mutation.
type Snapshot struct {
	Windows         []Window    `json:"windows"`
	Workspaces      []Workspace `json:"workspaces"`
	ActiveWorkspace int         `json:"activeWorkspace"`
	OverviewOpen    bool        `json:"overviewOpen"`
	Viewport        Size        `json:"viewport"`
}

// Snapshot copies the current desktop state.
func (d *Desktop) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := Snapshot{
		Windows:         make([]Window, 0, d.windows.Len()),
		Workspaces:      make([]Workspace, 0, len(d.wspaces.Workspaces())),
		ActiveWorkspace: d.wspaces.ActiveIndex(),
		OverviewOpen:    d.wspaces.OverviewOpen(),
		Viewport:        d.viewport,
	}
	for _, w := range d.windows.Windows() {
		cp := *w
		if w.PrevPos != nil {
			p := *w.PrevPos
			cp.PrevPos = &p
		}
		if w.PrevSize != nil {
			s := *w.PrevSize
			cp.PrevSize = &s
		}
		snap.Windows = append(snap.Windows, cp)
	}
	for _, ws := range d.wspaces.Workspaces() {
		cp := Workspace{ID: ws.ID, Windows: append([]string(nil), ws.Windows...)}
		snap.Workspaces = append(snap.Workspaces, cp)
	}
	return snap
}
