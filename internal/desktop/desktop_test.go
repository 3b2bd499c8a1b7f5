package desktop

import "testing"

func newTestDesktop() *Desktop {
	d := New()
	d.SetViewport(1920, 1080)
	return d
}

func openOn(d *Desktop, appID string) *Window {
	return d.OpenWindow(appID, appID, Size{Width: 640, Height: 480}, nil)
}

// =============================================================================
// Compound Operation Tests
// =============================================================================

func TestDesktopOpenWindowRegistersMembership(t *testing.T) {
	d := newTestDesktop()

	w := openOn(d, "notes")

	ws := d.Workspaces().WorkspaceFor(w.ID)
	if ws == nil {
		t.Fatal("Expected the new window registered in a workspace")
	}
	if w.WorkspaceID != ws.ID {
		t.Errorf("Expected WorkspaceID %s, got %s", ws.ID, w.WorkspaceID)
	}
	if len(d.Workspaces().Workspaces()) != 2 {
		t.Errorf("Expected a trailing empty workspace, got %d total", len(d.Workspaces().Workspaces()))
	}
}

func TestDesktopCloseWindowRemovesMembership(t *testing.T) {
	d := newTestDesktop()
	w := openOn(d, "notes")

	d.CloseWindow(w.ID)

	if d.Windows().Len() != 0 {
		t.Error("Expected window removed from the window store")
	}
	if d.Workspaces().WorkspaceFor(w.ID) != nil {
		t.Error("Expected membership removed from the workspace store")
	}
	if len(d.Workspaces().Workspaces()) != 1 {
		t.Errorf("Expected a single empty workspace, got %d", len(d.Workspaces().Workspaces()))
	}
}

func TestDesktopMaximizeUsesViewport(t *testing.T) {
	d := newTestDesktop()
	w := openOn(d, "notes")

	d.MaximizeWindow(w.ID)

	want := UsableBounds(Size{Width: 1920, Height: 1080})
	if w.Position.X != want.X || w.Position.Y != want.Y {
		t.Errorf("Expected maximize origin (%d, %d), got (%d, %d)", want.X, want.Y, w.Position.X, w.Position.Y)
	}
	if w.Size.Width != want.Width || w.Size.Height != want.Height {
		t.Errorf("Expected maximize size %dx%d, got %dx%d", want.Width, want.Height, w.Size.Width, w.Size.Height)
	}
}

func TestDesktopMoveWindowToWorkspace(t *testing.T) {
	d := newTestDesktop()
	w := openOn(d, "notes")
	target := d.Workspaces().Workspaces()[1]

	d.MoveWindowToWorkspace(w.ID, target.ID)

	if got := d.Workspaces().WorkspaceFor(w.ID); got == nil || got.ID != target.ID {
		t.Error("Expected bucket membership moved to the target workspace")
	}
	if w.WorkspaceID != target.ID {
		t.Error("Expected the window's recorded workspace id updated in lockstep")
	}
}

func TestDesktopMoveToUnknownWorkspaceIsNoop(t *testing.T) {
	d := newTestDesktop()
	w := openOn(d, "notes")
	before := w.WorkspaceID

	d.MoveWindowToWorkspace(w.ID, "missing")

	if w.WorkspaceID != before {
		t.Error("Expected the window to stay in its workspace")
	}
	if got := d.Workspaces().WorkspaceFor(w.ID); got == nil || got.ID != before {
		t.Error("Expected bucket membership unchanged")
	}
}

// =============================================================================
// Event Tests
// =============================================================================

func TestDesktopEmitsEvents(t *testing.T) {
	d := newTestDesktop()
	var events []Event
	d.OnChange(func(ev Event) { events = append(events, ev) })

	w := openOn(d, "notes")
	d.FocusWindow(w.ID)
	d.CloseWindow(w.ID)

	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	if events[0].Type != EventWindowOpened || events[0].WindowID != w.ID {
		t.Errorf("Unexpected first event %+v", events[0])
	}
	if events[1].Type != EventStateChanged {
		t.Errorf("Unexpected second event %+v", events[1])
	}
	if events[2].Type != EventWindowClosed || events[2].WindowID != w.ID {
		t.Errorf("Unexpected third event %+v", events[2])
	}
}

// =============================================================================
// Snapshot Tests
// =============================================================================

func TestSnapshotIsDeepCopy(t *testing.T) {
	d := newTestDesktop()
	w := openOn(d, "notes")
	d.MaximizeWindow(w.ID)

	snap := d.Snapshot()

	if len(snap.Windows) != 1 {
		t.Fatalf("Expected 1 window in snapshot, got %d", len(snap.Windows))
	}
	cp := &snap.Windows[0]
	cp.Title = "mutated"
	cp.PrevPos.X = -999
	snap.Workspaces[0].Windows[0] = "mutated"

	if w.Title == "mutated" {
		t.Error("Expected snapshot title edits isolated from live state")
	}
	if w.PrevPos.X == -999 {
		t.Error("Expected snapshot saved geometry isolated from live state")
	}
	if d.Workspaces().WorkspaceFor(w.ID) == nil {
		t.Error("Expected live membership isolated from snapshot edits")
	}
}

func TestSnapshotFields(t *testing.T) {
	d := newTestDesktop()
	openOn(d, "notes")
	d.SwitchWorkspace(1)
	d.ToggleOverview()

	snap := d.Snapshot()

	if snap.ActiveWorkspace != 1 {
		t.Errorf("Expected active workspace 1, got %d", snap.ActiveWorkspace)
	}
	if !snap.OverviewOpen {
		t.Error("Expected overview open in snapshot")
	}
	if snap.Viewport.Width != 1920 || snap.Viewport.Height != 1080 {
		t.Errorf("Unexpected snapshot viewport %+v", snap.Viewport)
	}
	if len(snap.Workspaces) != 2 {
		t.Errorf("Expected 2 workspaces in snapshot, got %d", len(snap.Workspaces))
	}
}

// =============================================================================
// Scenario Tests
// =============================================================================

// Opening two windows then minimizing the second should hand focus back to
// the first, with the second hidden but retaining its slot.
func TestScenarioMinimizeSecondWindow(t *testing.T) {
	d := newTestDesktop()
	a := openOn(d, "notes")
	b := openOn(d, "files")

	d.MinimizeWindow(b.ID)

	if !a.Focused {
		t.Error("Expected first window refocused")
	}
	if b.Status != StatusMinimized || b.Focused {
		t.Error("Expected second window minimized and unfocused")
	}
	if d.Workspaces().WorkspaceFor(b.ID) == nil {
		t.Error("Expected minimized window to keep its workspace slot")
	}
}

// Moving the only window of workspace 1 to workspace 2 should leave exactly
// two workspaces: the occupied target plus a fresh trailing empty, with the
// active index clamped onto the survivor.
func TestScenarioMoveOnlyWindowAcrossWorkspaces(t *testing.T) {
	d := newTestDesktop()
	w := openOn(d, "notes")
	target := d.Workspaces().Workspaces()[1]

	d.MoveWindowToWorkspace(w.ID, target.ID)

	all := d.Workspaces().Workspaces()
	if len(all) != 2 {
		t.Fatalf("Expected 2 workspaces after normalization, got %d", len(all))
	}
	if all[0].ID != target.ID {
		t.Error("Expected the emptied source pruned and the target first")
	}
	if len(all[1].Windows) != 0 {
		t.Error("Expected a fresh trailing empty workspace")
	}
	if d.Workspaces().ActiveIndex() != 0 {
		t.Errorf("Expected active index clamped to 0, got %d", d.Workspaces().ActiveIndex())
	}
}
