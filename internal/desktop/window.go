// Package desktop implements the WebTop window and workspace state engine.
// It owns every open window's geometry, stacking order, focus and status,
// plus the partition of windows into workspaces. All state is in-memory and
// session-scoped; nothing survives a reload by design.
package desktop

import (
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/webtop/internal/config"
)

// Status is the lifecycle state of a window. Snapping is a geometry preset
// layered on StatusNormal, not a status of its own.
type Status string

const (
	// StatusNormal is a freely positioned window.
	StatusNormal Status = "normal"
	// StatusMinimized is a window hidden to the dock.
	StatusMinimized Status = "minimized"
	// StatusMaximized is a window filling the desktop bounds.
	StatusMaximized Status = "maximized"
)

// SnapZone identifies where a window should be snapped.
type SnapZone string

const (
	// SnapLeft occupies the left half of the usable desktop.
	SnapLeft SnapZone = "left"
	// SnapRight occupies the right half of the usable desktop.
	SnapRight SnapZone = "right"
	// SnapTop occupies the full usable desktop.
	SnapTop SnapZone = "top"
)

// Position is a window's top-left corner in desktop coordinates.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a window's outer dimensions in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is a position and size together, used for desktop bounds.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Window represents one open application surface.
type Window struct {
	ID          string         `json:"id"`
	AppID       string         `json:"appId"`
	WorkspaceID string         `json:"workspaceId"`
	Title       string         `json:"title"`
	Position    Position       `json:"position"`
	Size        Size           `json:"size"`
	ZIndex      int            `json:"zIndex"`
	Status      Status         `json:"status"`
	Focused     bool           `json:"isFocused"`
	PrevPos     *Position      `json:"prevPosition,omitempty"`
	PrevSize    *Size          `json:"prevSize,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// WindowManager is the window store. It owns the set of open windows, their
// stacking order and the focus invariant: at most one window is focused at
// any time. Z-indices come from a per-manager counter that only ever grows,
// so "bring to front" is a fresh allocation, never a renumbering.
type WindowManager struct {
	windows []*Window // creation order
	nextZ   int
}

// NewWindowManager returns an empty window store.
func NewWindowManager() *WindowManager {
	return &WindowManager{}
}

func createID() string {
	return uuid.New().String()
}

// topZ hands out the next stacking position. Strictly greater than every
// z-index ever assigned by this manager.
func (m *WindowManager) topZ() int {
	m.nextZ++
	return m.nextZ
}

func (m *WindowManager) find(id string) *Window {
	for _, w := range m.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (m *WindowManager) focusOnly(target *Window) {
	for _, w := range m.windows {
		w.Focused = w == target
	}
}

// OpenWindow creates a window owned by appID and focuses it. The initial
// position cascades diagonally, wrapping every eight windows so stacks of
// freshly opened windows stay distinguishable.
func (m *WindowManager) OpenWindow(appID, title, workspaceID string, defaultSize Size, metadata map[string]any) *Window {
	n := len(m.windows)
	w := &Window{
		ID:          createID(),
		AppID:       appID,
		WorkspaceID: workspaceID,
		Title:       title,
		Position: Position{
			X: config.CascadeOriginX + config.CascadeStep*(n%config.CascadeWrap),
			Y: config.CascadeOriginY + config.CascadeStep*(n%config.CascadeWrap),
		},
		Size:     defaultSize,
		ZIndex:   m.topZ(),
		Status:   StatusNormal,
		Metadata: metadata,
	}
	m.windows = append(m.windows, w)
	m.focusOnly(w)
	return w
}

// CloseWindow removes the window from the set. Focus passes to the topmost
// remaining non-minimized window; minimized windows never grab focus (the
// same rule MinimizeWindow uses for its refocus). No-op on unknown ids.
func (m *WindowManager) CloseWindow(id string) {
	idx := -1
	for i, w := range m.windows {
		if w.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	m.windows = append(m.windows[:idx], m.windows[idx+1:]...)
	m.focusOnly(m.topVisible())
}

// topVisible returns the non-minimized window with the greatest z-index,
// or nil when every window is minimized (or none exist).
func (m *WindowManager) topVisible() *Window {
	var top *Window
	for _, w := range m.windows {
		if w.Status == StatusMinimized {
			continue
		}
		if top == nil || w.ZIndex >= top.ZIndex {
			top = w
		}
	}
	return top
}

// FocusWindow gives the window focus and a fresh top z-index. Focusing a
// minimized window restores it to normal. Unknown ids leave focus untouched.
func (m *WindowManager) FocusWindow(id string) {
	w := m.find(id)
	if w == nil {
		return
	}
	if w.Status == StatusMinimized {
		w.Status = StatusNormal
	}
	w.ZIndex = m.topZ()
	m.focusOnly(w)
}

// MinimizeWindow hides the window to the dock and hands focus to the topmost
// remaining visible window, if any.
func (m *WindowManager) MinimizeWindow(id string) {
	w := m.find(id)
	if w == nil {
		return
	}
	w.Status = StatusMinimized
	w.Focused = false
	m.focusOnly(m.topVisible())
}

// MaximizeWindow saves the current geometry and fills the given desktop
// bounds. The window is focused and brought to the front.
func (m *WindowManager) MaximizeWindow(id string, bounds Rect) {
	w := m.find(id)
	if w == nil {
		return
	}
	w.PrevPos = &Position{X: w.Position.X, Y: w.Position.Y}
	w.PrevSize = &Size{Width: w.Size.Width, Height: w.Size.Height}
	w.Status = StatusMaximized
	w.Position = Position{X: bounds.X, Y: bounds.Y}
	w.Size = Size{Width: bounds.Width, Height: bounds.Height}
	w.ZIndex = m.topZ()
	m.focusOnly(w)
}

// RestoreWindow returns the window to normal status, reverting to the saved
// geometry when one exists and clearing it. Focus and stacking are untouched.
func (m *WindowManager) RestoreWindow(id string) {
	w := m.find(id)
	if w == nil {
		return
	}
	w.Status = StatusNormal
	if w.PrevPos != nil {
		w.Position = *w.PrevPos
	}
	if w.PrevSize != nil {
		w.Size = *w.PrevSize
	}
	w.PrevPos = nil
	w.PrevSize = nil
}

// MoveWindow overwrites the window position. Nothing else changes.
func (m *WindowManager) MoveWindow(id string, x, y int) {
	if w := m.find(id); w != nil {
		w.Position = Position{X: x, Y: y}
	}
}

// ResizeWindow overwrites the window size. Nothing else changes.
func (m *WindowManager) ResizeWindow(id string, width, height int) {
	if w := m.find(id); w != nil {
		w.Size = Size{Width: width, Height: height}
	}
}

// SetWindowTitle overwrites the display title.
func (m *WindowManager) SetWindowTitle(id, title string) {
	if w := m.find(id); w != nil {
		w.Title = title
	}
}

// SetWindowStatus overwrites the status without any of the side effects the
// dedicated transitions carry.
func (m *WindowManager) SetWindowStatus(id string, status Status) {
	if w := m.find(id); w != nil {
		w.Status = status
	}
}

// SnapWindow applies a geometry preset against the usable desktop (the
// viewport minus the dock strip and the top bar). The pre-snap geometry is
// saved only once, so re-snapping left to right and back never clobbers the
// geometry that predates the first snap. Snapping keeps the window normal.
func (m *WindowManager) SnapWindow(id string, zone SnapZone, viewport Size) {
	w := m.find(id)
	if w == nil {
		return
	}
	switch zone {
	case SnapLeft, SnapRight, SnapTop:
	default:
		return
	}
	if w.PrevPos == nil {
		w.PrevPos = &Position{X: w.Position.X, Y: w.Position.Y}
		w.PrevSize = &Size{Width: w.Size.Width, Height: w.Size.Height}
	}

	usable := UsableBounds(viewport)
	half := usable.Width / 2
	switch zone {
	case SnapLeft:
		w.Position = Position{X: usable.X, Y: usable.Y}
		w.Size = Size{Width: half, Height: usable.Height}
	case SnapRight:
		w.Position = Position{X: usable.X + half, Y: usable.Y}
		w.Size = Size{Width: usable.Width - half, Height: usable.Height}
	case SnapTop:
		w.Position = Position{X: usable.X, Y: usable.Y}
		w.Size = Size{Width: usable.Width, Height: usable.Height}
	}

	w.Status = StatusNormal
	w.ZIndex = m.topZ()
	m.focusOnly(w)
}

// UsableBounds returns the desktop area available to windows: the viewport
// minus the dock strip on the left and the top bar.
func UsableBounds(viewport Size) Rect {
	return Rect{
		X:      config.DockWidth,
		Y:      config.TitleBarHeight,
		Width:  max(viewport.Width-config.DockWidth, 0),
		Height: max(viewport.Height-config.TitleBarHeight, 0),
	}
}

// Window returns the window with the given id, or nil.
func (m *WindowManager) Window(id string) *Window {
	return m.find(id)
}

// FocusedWindow returns the single focused window, or nil when no window
// holds focus.
func (m *WindowManager) FocusedWindow() *Window {
	for _, w := range m.windows {
		if w.Focused {
			return w
		}
	}
	return nil
}

// WindowsByWorkspace returns the windows whose recorded workspace id matches,
// in creation order.
func (m *WindowManager) WindowsByWorkspace(workspaceID string) []*Window {
	var out []*Window
	for _, w := range m.windows {
		if w.WorkspaceID == workspaceID {
			out = append(out, w)
		}
	}
	return out
}

// Windows returns every open window in creation order.
func (m *WindowManager) Windows() []*Window {
	return m.windows
}

// Len returns the number of open windows.
func (m *WindowManager) Len() int {
	return len(m.windows)
}
