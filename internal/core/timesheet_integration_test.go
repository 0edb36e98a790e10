package core_test

import (
	"context"
	"errors"
	"testing"

	"lumix-backoffice/internal/core"
)

func TestTimesheetService_ClockCycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewTimesheetService(pool)
	ctx := context.Background()

	entry, err := svc.ClockIn(ctx, 1, 1)
	if err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	if entry.Status != core.TimeEntryOpen {
		t.Errorf("New entry status = %q, want open", entry.Status)
	}

	// A second clock-in while an entry is open must be rejected.
	var verr *core.ValidationError
	if _, err := svc.ClockIn(ctx, 1, 1); !errors.As(err, &verr) {
		t.Errorf("Second ClockIn: expected ValidationError, got %v", err)
	}

	status, err := svc.Status(ctx, 1)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.OpenEntry == nil || status.OpenEntry.ID != entry.ID {
		t.Fatalf("Status open entry = %+v, want entry %d", status.OpenEntry, entry.ID)
	}
	if status.OpenBreak != nil {
		t.Errorf("Status reports an open break before any break started")
	}

	closed, err := svc.ClockOut(ctx, 1)
	if err != nil {
		t.Fatalf("ClockOut failed: %v", err)
	}
	if closed.Status != core.TimeEntryClosed || closed.EndTime == nil {
		t.Errorf("Closed entry = %+v, want closed with end time", closed)
	}
	if closed.NetMinutes < 0 {
		t.Errorf("Net minutes = %d, must never be negative", closed.NetMinutes)
	}

	if _, err := svc.ClockOut(ctx, 1); !errors.As(err, &verr) {
		t.Errorf("ClockOut without open entry: expected ValidationError, got %v", err)
	}
}

func TestTimesheetService_BreakGuards(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewTimesheetService(pool)
	ctx := context.Background()

	var verr *core.ValidationError

	// Break requires an open entry.
	if _, err := svc.StartBreak(ctx, 1); !errors.As(err, &verr) {
		t.Errorf("StartBreak while clocked out: expected ValidationError, got %v", err)
	}

	if _, err := svc.ClockIn(ctx, 1, 1); err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	brk, err := svc.StartBreak(ctx, 1)
	if err != nil {
		t.Fatalf("StartBreak failed: %v", err)
	}
	if brk.Status != core.TimeEntryOpen {
		t.Errorf("New break status = %q, want open", brk.Status)
	}

	// Only one break can be open at a time.
	if _, err := svc.StartBreak(ctx, 1); !errors.As(err, &verr) {
		t.Errorf("Second StartBreak: expected ValidationError, got %v", err)
	}

	// Clocking out with the break still open must be rejected.
	if _, err := svc.ClockOut(ctx, 1); !errors.As(err, &verr) {
		t.Errorf("ClockOut with open break: expected ValidationError, got %v", err)
	}

	ended, err := svc.EndBreak(ctx, 1)
	if err != nil {
		t.Fatalf("EndBreak failed: %v", err)
	}
	if ended.Status != core.TimeEntryClosed {
		t.Errorf("Ended break status = %q, want closed", ended.Status)
	}

	if _, err := svc.EndBreak(ctx, 1); !errors.As(err, &verr) {
		t.Errorf("EndBreak without active break: expected ValidationError, got %v", err)
	}

	if _, err := svc.ClockOut(ctx, 1); err != nil {
		t.Fatalf("ClockOut after ending break failed: %v", err)
	}
}

func TestTimesheetService_EntriesRoleScoping(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewTimesheetService(pool)
	ctx := context.Background()

	// One closed entry for each seeded user.
	for _, userID := range []int{1, 2} {
		if _, err := svc.ClockIn(ctx, 1, userID); err != nil {
			t.Fatalf("ClockIn for user %d failed: %v", userID, err)
		}
		if _, err := svc.ClockOut(ctx, userID); err != nil {
			t.Fatalf("ClockOut for user %d failed: %v", userID, err)
		}
	}

	adminView, err := svc.Entries(ctx, 1, 1, core.RoleAdmin)
	if err != nil {
		t.Fatalf("Entries as admin failed: %v", err)
	}
	if len(adminView) != 2 {
		t.Errorf("Admin sees %d entries, want 2", len(adminView))
	}

	viewerView, err := svc.Entries(ctx, 1, 2, core.RoleViewer)
	if err != nil {
		t.Fatalf("Entries as viewer failed: %v", err)
	}
	if len(viewerView) != 1 {
		t.Fatalf("Viewer sees %d entries, want only their own", len(viewerView))
	}
	if viewerView[0].UserID != 2 {
		t.Errorf("Viewer sees entry for user %d, want 2", viewerView[0].UserID)
	}

	summary, err := svc.Summary(ctx, 1, 1, core.RoleAdmin, "", "")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if len(summary) != 2 {
		t.Errorf("Admin summary has %d rows, want 2", len(summary))
	}

	viewerSummary, err := svc.Summary(ctx, 1, 2, core.RoleViewer, "", "")
	if err != nil {
		t.Fatalf("Viewer summary failed: %v", err)
	}
	if len(viewerSummary) != 1 || viewerSummary[0].UserID != 2 {
		t.Errorf("Viewer summary = %+v, want only user 2", viewerSummary)
	}
}
