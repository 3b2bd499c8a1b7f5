package desktop

import "testing"

// =============================================================================
// Workspace Invariant Tests
// =============================================================================

func TestNewWorkspaceManagerStartsEmpty(t *testing.T) {
	m := NewWorkspaceManager()

	if len(m.Workspaces()) != 1 {
		t.Fatalf("Expected one workspace, got %d", len(m.Workspaces()))
	}
	if m.ActiveIndex() != 0 {
		t.Errorf("Expected active index 0, got %d", m.ActiveIndex())
	}
	if len(m.ActiveWorkspace().Windows) != 0 {
		t.Error("Expected the initial workspace to be empty")
	}
}

func TestAddWindowAppendsTrailingEmpty(t *testing.T) {
	m := NewWorkspaceManager()
	ws := m.ActiveWorkspace()

	m.AddWindowToWorkspace(ws.ID, "win-1")

	all := m.Workspaces()
	if len(all) != 2 {
		t.Fatalf("Expected a fresh trailing workspace, got %d total", len(all))
	}
	if len(all[0].Windows) != 1 || all[0].Windows[0] != "win-1" {
		t.Errorf("Expected win-1 in the first workspace, got %v", all[0].Windows)
	}
	if len(all[1].Windows) != 0 {
		t.Error("Expected the trailing workspace to be empty")
	}
	if m.ActiveIndex() != 0 {
		t.Errorf("Expected active index unchanged, got %d", m.ActiveIndex())
	}
}

func TestRemoveLastWindowPrunesWorkspace(t *testing.T) {
	m := NewWorkspaceManager()
	first := m.ActiveWorkspace()
	m.AddWindowToWorkspace(first.ID, "win-1")
	second := m.Workspaces()[1]
	m.AddWindowToWorkspace(second.ID, "win-2")

	// Three workspaces now: [win-1] [win-2] [].
	if len(m.Workspaces()) != 3 {
		t.Fatalf("Expected 3 workspaces, got %d", len(m.Workspaces()))
	}

	m.RemoveWindowFromWorkspace("win-1")

	all := m.Workspaces()
	if len(all) != 2 {
		t.Fatalf("Expected the emptied workspace pruned, got %d", len(all))
	}
	if all[0].ID != second.ID {
		t.Error("Expected the occupied workspace to survive the prune")
	}
	if len(all[len(all)-1].Windows) != 0 {
		t.Error("Expected the last workspace to remain empty")
	}
}

func TestRemoveOnlyWindowKeepsSingleEmpty(t *testing.T) {
	m := NewWorkspaceManager()
	ws := m.ActiveWorkspace()
	m.AddWindowToWorkspace(ws.ID, "win-1")

	m.RemoveWindowFromWorkspace("win-1")

	if len(m.Workspaces()) != 1 {
		t.Fatalf("Expected exactly one empty workspace, got %d", len(m.Workspaces()))
	}
	if len(m.Workspaces()[0].Windows) != 0 {
		t.Error("Expected the surviving workspace to be empty")
	}
}

func TestActiveIndexClampedAfterPrune(t *testing.T) {
	m := NewWorkspaceManager()
	first := m.ActiveWorkspace()
	m.AddWindowToWorkspace(first.ID, "win-1")
	m.SwitchWorkspace(1)

	m.RemoveWindowFromWorkspace("win-1")

	if m.ActiveIndex() != 0 {
		t.Errorf("Expected active index clamped to 0, got %d", m.ActiveIndex())
	}
}

// =============================================================================
// Switch / Move Tests
// =============================================================================

func TestSwitchWorkspace(t *testing.T) {
	m := NewWorkspaceManager()
	m.AddWindowToWorkspace(m.ActiveWorkspace().ID, "win-1")

	m.SwitchWorkspace(1)
	if m.ActiveIndex() != 1 {
		t.Errorf("Expected active index 1, got %d", m.ActiveIndex())
	}

	m.SwitchWorkspace(5)
	if m.ActiveIndex() != 1 {
		t.Errorf("Expected out-of-range switch ignored, got %d", m.ActiveIndex())
	}

	m.SwitchWorkspace(-1)
	if m.ActiveIndex() != 1 {
		t.Errorf("Expected negative switch ignored, got %d", m.ActiveIndex())
	}
}

func TestMoveWindowToWorkspace(t *testing.T) {
	m := NewWorkspaceManager()
	first := m.ActiveWorkspace()
	m.AddWindowToWorkspace(first.ID, "win-1")
	m.AddWindowToWorkspace(first.ID, "win-2")
	target := m.Workspaces()[1]

	m.MoveWindowToWorkspace("win-1", target.ID)

	if got := m.WorkspaceFor("win-1"); got == nil || got.ID != target.ID {
		t.Error("Expected win-1 in the target workspace")
	}
	if got := m.WorkspaceFor("win-2"); got == nil || got.ID != first.ID {
		t.Error("Expected win-2 left behind in the source workspace")
	}
	// The target was the trailing empty; moving in should grow a new one.
	all := m.Workspaces()
	if len(all[len(all)-1].Windows) != 0 {
		t.Error("Expected a fresh trailing empty workspace after the move")
	}
}

func TestMoveWindowNeverDuplicates(t *testing.T) {
	m := NewWorkspaceManager()
	first := m.ActiveWorkspace()
	m.AddWindowToWorkspace(first.ID, "win-1")
	target := m.Workspaces()[1]

	m.MoveWindowToWorkspace("win-1", target.ID)
	m.MoveWindowToWorkspace("win-1", target.ID)

	count := 0
	for _, ws := range m.Workspaces() {
		for _, id := range ws.Windows {
			if id == "win-1" {
				count++
			}
		}
	}
	if count != 1 {
		t.Errorf("Expected win-1 to live in exactly one workspace, got %d", count)
	}
}

// =============================================================================
// Overview Tests
// =============================================================================

func TestOverviewToggle(t *testing.T) {
	m := NewWorkspaceManager()

	if m.OverviewOpen() {
		t.Error("Expected overview closed initially")
	}
	m.ToggleOverview()
	if !m.OverviewOpen() {
		t.Error("Expected overview open after toggle")
	}
	m.SetOverviewOpen(false)
	if m.OverviewOpen() {
		t.Error("Expected overview closed after SetOverviewOpen(false)")
	}
}

// =============================================================================
// Lookup Tests
// =============================================================================

func TestWorkspaceLookups(t *testing.T) {
	m := NewWorkspaceManager()
	ws := m.ActiveWorkspace()
	m.AddWindowToWorkspace(ws.ID, "win-1")

	if got := m.Workspace(ws.ID); got == nil || got.ID != ws.ID {
		t.Error("Expected Workspace to find the bucket by id")
	}
	if m.Workspace("missing") != nil {
		t.Error("Expected nil for an unknown workspace id")
	}
	if m.WorkspaceFor("missing") != nil {
		t.Error("Expected nil for an unknown window id")
	}
}
