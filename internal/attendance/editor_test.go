package attendance_test

import (
	"context"
	"testing"
	"time"

	"attendance_backend/internal/attendance"
	"attendance_backend/internal/models"
	"attendance_backend/internal/storage/memory"
)

const (
	testTenant = uint(1)
	testActor  = uint(9)
	testDay    = "2026-08-14"
)

func newTestEditor(t *testing.T, delay time.Duration) (*attendance.Editor, *memory.Store) {
	t.Helper()
	store := memory.New()
	ed := attendance.NewEditor(store, delay, testTenant, testDay, testActor)
	t.Cleanup(ed.Close)
	return ed, store
}

func TestEditor_ExclusiveStatusCommitsImmediately(t *testing.T) {
	ed, store := newTestEditor(t, time.Minute)
	ctx := context.Background()

	rec, err := ed.SelectStatus(ctx, 5, models.StatusOnTime)
	if err != nil {
		t.Fatalf("SelectStatus: %v", err)
	}
	if rec.Status != models.StatusOnTime {
		t.Errorf("status = %s", rec.Status)
	}
	if rec.RecordedBy != testActor {
		t.Errorf("recorded_by = %d", rec.RecordedBy)
	}
	if store.Writes() != 1 {
		t.Errorf("expected 1 write, got %d", store.Writes())
	}
}

func TestEditor_FlagHeldUntilClockTimePresent(t *testing.T) {
	ed, store := newTestEditor(t, time.Minute)
	ctx := context.Background()

	ds, err := ed.ToggleLate(ctx, 5)
	if err != nil {
		t.Fatalf("ToggleLate: %v", err)
	}
	if !ds.Flags.Late {
		t.Error("Late toggle should show in the display state")
	}
	if !ds.Pending {
		t.Error("held selection should be pending")
	}
	if store.Writes() != 0 {
		t.Fatalf("incomplete selection must not write, got %d writes", store.Writes())
	}

	if _, err := ed.SetClockIn(ctx, 5, "10:45"); err != nil {
		t.Fatalf("SetClockIn: %v", err)
	}
	if err := ed.Flush(ctx, 5); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	stored, err := store.FetchByKey(ctx, testTenant, 5, testDay)
	if err != nil {
		t.Fatalf("FetchByKey: %v", err)
	}
	if stored == nil {
		t.Fatal("expected a stored record")
	}
	if stored.Status != models.StatusLate {
		t.Errorf("status = %s", stored.Status)
	}
	if stored.ClockIn == nil || *stored.ClockIn != "10:45" {
		t.Error("clock-in should be persisted")
	}
	if stored.ClockOut != nil {
		t.Error("LATE must not carry a clock-out")
	}
}

func TestEditor_BothFlagsCommitAsCombinedStatus(t *testing.T) {
	ed, store := newTestEditor(t, time.Minute)
	ctx := context.Background()

	if _, err := ed.ToggleLate(ctx, 5); err != nil {
		t.Fatalf("ToggleLate: %v", err)
	}
	if _, err := ed.ToggleLeftEarly(ctx, 5); err != nil {
		t.Fatalf("ToggleLeftEarly: %v", err)
	}
	if _, err := ed.SetClockIn(ctx, 5, "10:45"); err != nil {
		t.Fatalf("SetClockIn: %v", err)
	}
	if store.Writes() != 0 {
		t.Fatalf("still missing clock-out, got %d writes", store.Writes())
	}

	if _, err := ed.SetClockOut(ctx, 5, "16:00"); err != nil {
		t.Fatalf("SetClockOut: %v", err)
	}
	if err := ed.Flush(ctx, 5); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	stored, _ := store.FetchByKey(ctx, testTenant, 5, testDay)
	if stored == nil {
		t.Fatal("expected a stored record")
	}
	if stored.Status != models.StatusLateAndLeftEarly {
		t.Errorf("status = %s, want LATE_AND_LEFT_EARLY", stored.Status)
	}
}

func TestEditor_ExclusiveSelectionClearsClockTimes(t *testing.T) {
	ed, store := newTestEditor(t, time.Minute)
	ctx := context.Background()

	if _, err := ed.ToggleLate(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.SetClockIn(ctx, 5, "10:45"); err != nil {
		t.Fatal(err)
	}
	if err := ed.Flush(ctx, 5); err != nil {
		t.Fatal(err)
	}

	if _, err := ed.SelectStatus(ctx, 5, models.StatusDayOff); err != nil {
		t.Fatalf("SelectStatus: %v", err)
	}

	stored, _ := store.FetchByKey(ctx, testTenant, 5, testDay)
	if stored.Status != models.StatusDayOff {
		t.Errorf("status = %s", stored.Status)
	}
	if stored.ClockIn != nil || stored.ClockOut != nil {
		t.Error("exclusive selection must clear clock times")
	}
}

func TestEditor_NoShowKeepsNotes(t *testing.T) {
	ed, store := newTestEditor(t, time.Minute)
	ctx := context.Background()

	if _, err := ed.SelectStatus(ctx, 5, models.StatusNoShow); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.SetNotes(ctx, 5, "no call"); err != nil {
		t.Fatal(err)
	}
	if err := ed.Flush(ctx, 5); err != nil {
		t.Fatal(err)
	}

	stored, _ := store.FetchByKey(ctx, testTenant, 5, testDay)
	if stored.Notes == nil || *stored.Notes != "no call" {
		t.Errorf("notes = %v", stored.Notes)
	}
}

func TestEditor_NotesDebounceCollapsesBurst(t *testing.T) {
	ed, store := newTestEditor(t, 40*time.Millisecond)
	ctx := context.Background()

	if _, err := ed.SelectStatus(ctx, 5, models.StatusNoShow); err != nil {
		t.Fatal(err)
	}
	base := store.Writes()

	// Five keystroke-level edits inside the debounce window.
	for _, text := range []string{"s", "si", "sic", "sick", "sick today"} {
		if _, err := ed.SetNotes(ctx, 5, text); err != nil {
			t.Fatalf("SetNotes(%q): %v", text, err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)

	if got := store.Writes() - base; got != 1 {
		t.Errorf("expected exactly 1 write for the burst, got %d", got)
	}
	stored, _ := store.FetchByKey(ctx, testTenant, 5, testDay)
	if stored.Notes == nil || *stored.Notes != "sick today" {
		t.Errorf("persisted notes = %v, want final value", stored.Notes)
	}
}

func TestEditor_OverlayClearedForNewRecordRetainedForExisting(t *testing.T) {
	ed, store := newTestEditor(t, time.Minute)
	ctx := context.Background()

	// New record path: the flag edit creates the row, so the overlay is
	// cleared once the write confirms.
	if _, err := ed.ToggleLate(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.SetClockIn(ctx, 5, "10:45"); err != nil {
		t.Fatal(err)
	}
	if err := ed.Flush(ctx, 5); err != nil {
		t.Fatal(err)
	}
	ds, err := ed.DisplayState(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Pending {
		t.Error("overlay should be cleared after creating the row")
	}

	// Existing record path: a later edit keeps its overlay after the
	// flush so a racing refresh cannot flicker the field.
	if _, err := ed.SetClockIn(ctx, 5, "11:00"); err != nil {
		t.Fatal(err)
	}
	if err := ed.Flush(ctx, 5); err != nil {
		t.Fatal(err)
	}
	ds, err = ed.DisplayState(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !ds.Pending {
		t.Error("overlay should be retained for a pre-existing row")
	}
	if ds.ClockIn == nil || *ds.ClockIn != "11:00" {
		t.Errorf("display clock-in = %v", ds.ClockIn)
	}
	stored, _ := store.FetchByKey(ctx, testTenant, 5, testDay)
	if stored.ClockIn == nil || *stored.ClockIn != "11:00" {
		t.Errorf("stored clock-in = %v", stored.ClockIn)
	}
}

func TestEditor_NaturalKeyInvariant(t *testing.T) {
	ed, store := newTestEditor(t, 10*time.Millisecond)
	ctx := context.Background()

	// A messy editing session for one member and day.
	if _, err := ed.SelectStatus(ctx, 5, models.StatusOnTime); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.ToggleLate(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.SetClockIn(ctx, 5, "10:45"); err != nil {
		t.Fatal(err)
	}
	if err := ed.Flush(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.SelectStatus(ctx, 5, models.StatusDayOff); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.SetNotes(ctx, 5, "pto"); err != nil {
		t.Fatal(err)
	}
	if err := ed.Flush(ctx, 5); err != nil {
		t.Fatal(err)
	}

	if store.Len() != 1 {
		t.Errorf("expected exactly 1 record for the key, got %d", store.Len())
	}
	rows, _ := store.FetchDaily(ctx, testTenant, testDay)
	if len(rows) != 1 {
		t.Fatalf("expected 1 daily row, got %d", len(rows))
	}
	if rows[0].Status != models.StatusDayOff {
		t.Errorf("final status = %s", rows[0].Status)
	}
}
