package desktop

// Workspace is an ordered bucket of window ids forming one virtual desktop.
type Workspace struct {
	ID      string   `json:"id"`
	Windows []string `json:"windows"`
}

// WorkspaceManager is the workspace store. It partitions window ids into
// ordered workspaces and keeps the collection normalized: every workspace
// except the last holds at least one window, and the last is always an empty
// one ready to receive the next window. The store only ever sees opaque
// window ids; it knows nothing about window internals.
type WorkspaceManager struct {
	workspaces   []*Workspace
	activeIndex  int
	overviewOpen bool
}

// NewWorkspaceManager returns a store with a single empty workspace.
func NewWorkspaceManager() *WorkspaceManager {
	return &WorkspaceManager{
		workspaces: []*Workspace{{ID: createID()}},
	}
}

// normalize restores the workspace invariants after a structural mutation:
// empty workspaces other than the trailing one are pruned, a fresh trailing
// empty workspace is appended when the last one fills up, and the active
// index is clamped back into range.
func (m *WorkspaceManager) normalize() {
	kept := m.workspaces[:0]
	for i, ws := range m.workspaces {
		if len(ws.Windows) > 0 || i == len(m.workspaces)-1 {
			kept = append(kept, ws)
		}
	}
	m.workspaces = kept

	if len(m.workspaces) == 0 || len(m.workspaces[len(m.workspaces)-1].Windows) > 0 {
		m.workspaces = append(m.workspaces, &Workspace{ID: createID()})
	}

	if m.activeIndex >= len(m.workspaces) {
		m.activeIndex = len(m.workspaces) - 1
	}
	if m.activeIndex < 0 {
		m.activeIndex = 0
	}
}

// SwitchWorkspace activates the workspace at index. Out-of-range indices are
// ignored.
func (m *WorkspaceManager) SwitchWorkspace(index int) {
	if index >= 0 && index < len(m.workspaces) {
		m.activeIndex = index
	}
}

// AddWindowToWorkspace appends the window id to the named workspace. The
// caller is responsible for the id not already living in another workspace;
// MoveWindowToWorkspace handles that case in one step.
func (m *WorkspaceManager) AddWindowToWorkspace(workspaceID, windowID string) {
	for _, ws := range m.workspaces {
		if ws.ID == workspaceID {
			ws.Windows = append(ws.Windows, windowID)
			break
		}
	}
	m.normalize()
}

// RemoveWindowFromWorkspace removes the window id from every workspace.
func (m *WorkspaceManager) RemoveWindowFromWorkspace(windowID string) {
	for _, ws := range m.workspaces {
		ws.Windows = removeID(ws.Windows, windowID)
	}
	m.normalize()
}

// MoveWindowToWorkspace removes the window id from wherever it lives and
// appends it to the target workspace, as a single normalized step.
func (m *WorkspaceManager) MoveWindowToWorkspace(windowID, targetWorkspaceID string) {
	for _, ws := range m.workspaces {
		ws.Windows = removeID(ws.Windows, windowID)
	}
	for _, ws := range m.workspaces {
		if ws.ID == targetWorkspaceID {
			ws.Windows = append(ws.Windows, windowID)
			break
		}
	}
	m.normalize()
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ToggleOverview flips the workspace overview visibility flag.
func (m *WorkspaceManager) ToggleOverview() {
	m.overviewOpen = !m.overviewOpen
}

// SetOverviewOpen sets the workspace overview visibility flag.
func (m *WorkspaceManager) SetOverviewOpen(open bool) {
	m.overviewOpen = open
}

// OverviewOpen reports whether the workspace overview is showing.
func (m *WorkspaceManager) OverviewOpen() bool {
	return m.overviewOpen
}

// ActiveWorkspace returns the workspace at the active index. The invariants
// guarantee the collection is never empty and the index is in range.
func (m *WorkspaceManager) ActiveWorkspace() *Workspace {
	return m.workspaces[m.activeIndex]
}

// ActiveIndex returns the index of the active workspace.
func (m *WorkspaceManager) ActiveIndex() int {
	return m.activeIndex
}

// Workspaces returns every workspace in order.
func (m *WorkspaceManager) Workspaces() []*Workspace {
	return m.workspaces
}

// WorkspaceFor returns the workspace containing the window id, or nil.
func (m *WorkspaceManager) WorkspaceFor(windowID string) *Workspace {
	for _, ws := range m.workspaces {
		for _, id := range ws.Windows {
			if id == windowID {
				return ws
			}
		}
	}
	return nil
}

// Workspace returns the workspace with the given id, or nil.
func (m *WorkspaceManager) Workspace(id string) *Workspace {
	for _, ws := range m.workspaces {
		if ws.ID == id {
			return ws
		}
	}
	return nil
}
