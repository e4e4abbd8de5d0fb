// internal/attendance/editor.go
package attendance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"attendance_backend/internal/models"
)

// ErrIncompleteSelection gates a flag-based status that is still missing
// a required clock time. It never reaches callers as a failure; the
// partial selection stays in the overlay until the time arrives.
var ErrIncompleteSelection = errors.New("selection missing required clock time")

// Editor is one day-sheet editing session: a tenant, a calendar day and
// the acting user, bound over the store, a pending-edit overlay and the
// autosave coordinator. All mutating calls return the merged display
// state so the caller can re-render without a second round trip.
type Editor struct {
	store    Store
	overlay  *Overlay
	autosave *AutoSaveCoordinator
	tenantID uint
	date     string
	actorID  uint
}

func NewEditor(store Store, delay time.Duration, tenantID uint, date string, actorID uint) *Editor {
	return &Editor{
		store:    store,
		overlay:  NewOverlay(),
		autosave: NewAutoSaveCoordinator(delay),
		tenantID: tenantID,
		date:     date,
		actorID:  actorID,
	}
}

// Close drops any timers still pending. Edits held only in the overlay
// are lost, same as closing the browser tab.
func (e *Editor) Close() {
	e.autosave.Stop()
}

// DisplayState returns the merged persisted + pending view for a member.
func (e *Editor) DisplayState(ctx context.Context, memberID uint) (DisplayState, error) {
	rec, err := e.store.FetchByKey(ctx, e.tenantID, memberID, e.date)
	if err != nil {
		return DisplayState{}, err
	}
	var edit *PendingEdit
	if pe, ok := e.overlay.Get(memberID); ok {
		edit = &pe
	}
	return MergeDisplay(rec, edit), nil
}

// ToggleLate flips the Late toggle and commits if the resulting flag set
// has every clock time it needs.
func (e *Editor) ToggleLate(ctx context.Context, memberID uint) (DisplayState, error) {
	return e.toggleFlag(ctx, memberID, func(f *FlagSet) { f.Late = !f.Late })
}

// ToggleLeftEarly flips the LeftEarly toggle, same contract as ToggleLate.
func (e *Editor) ToggleLeftEarly(ctx context.Context, memberID uint) (DisplayState, error) {
	return e.toggleFlag(ctx, memberID, func(f *FlagSet) { f.LeftEarly = !f.LeftEarly })
}

func (e *Editor) toggleFlag(ctx context.Context, memberID uint, flip func(*FlagSet)) (DisplayState, error) {
	rec, err := e.store.FetchByKey(ctx, e.tenantID, memberID, e.date)
	if err != nil {
		return DisplayState{}, err
	}
	edit := e.edit(memberID, rec, func(p *PendingEdit) { flip(&p.Flags) })
	if _, ok := edit.Flags.Canonical(); ok {
		if err := e.flush(ctx, memberID); err != nil && !errors.Is(err, ErrIncompleteSelection) {
			return DisplayState{}, err
		}
	}
	return e.DisplayState(ctx, memberID)
}

// SelectStatus commits one of the exclusive statuses immediately. It
// clears the toggles and any entered clock times; notes survive only for
// NO_SHOW and DAY_OFF.
func (e *Editor) SelectStatus(ctx context.Context, memberID uint, status models.AttendanceStatus) (models.AttendanceRecord, error) {
	if !IsExclusive(status) {
		return models.AttendanceRecord{}, fmt.Errorf("status %s is toggle-driven, not selectable", status)
	}
	ds, err := e.DisplayState(ctx, memberID)
	if err != nil {
		return models.AttendanceRecord{}, err
	}
	_, _, notes := NormalizeFields(status, nil, nil, ds.Notes)
	rec, err := e.store.MarkAttendance(ctx, MarkParams{
		TenantID:     e.tenantID,
		TeamMemberID: memberID,
		Date:         e.date,
		Status:       status,
		Notes:        notes,
		RecordedBy:   e.actorID,
	})
	if err != nil {
		return models.AttendanceRecord{}, err
	}
	// The commit captured everything worth keeping; drop the overlay and
	// the timer that would have re-committed it.
	e.autosave.Cancel(memberID)
	e.overlay.Clear(memberID)
	return rec, nil
}

// SetClockIn records the clock-in locally and schedules a debounced
// commit; time inputs fire a change event per keystroke just like the
// notes field does.
func (e *Editor) SetClockIn(ctx context.Context, memberID uint, value string) (DisplayState, error) {
	if _, err := ParseClock(value); err != nil {
		return DisplayState{}, err
	}
	return e.setField(ctx, memberID, func(p *PendingEdit) { p.ClockIn = &value })
}

// SetClockOut records the clock-out locally, same contract as SetClockIn.
func (e *Editor) SetClockOut(ctx context.Context, memberID uint, value string) (DisplayState, error) {
	if _, err := ParseClock(value); err != nil {
		return DisplayState{}, err
	}
	return e.setField(ctx, memberID, func(p *PendingEdit) { p.ClockOut = &value })
}

// SetNotes records the free-text edit locally and schedules a debounced
// commit. Only the last value in a burst reaches the store.
func (e *Editor) SetNotes(ctx context.Context, memberID uint, text string) (DisplayState, error) {
	return e.setField(ctx, memberID, func(p *PendingEdit) { p.Notes = &text })
}

func (e *Editor) setField(ctx context.Context, memberID uint, apply func(*PendingEdit)) (DisplayState, error) {
	rec, err := e.store.FetchByKey(ctx, e.tenantID, memberID, e.date)
	if err != nil {
		return DisplayState{}, err
	}
	edit := e.edit(memberID, rec, apply)
	e.autosave.Schedule(memberID, func() {
		err := e.flush(context.Background(), memberID)
		if err != nil && !errors.Is(err, ErrIncompleteSelection) {
			log.Printf("autosave: member %d on %s: %v", memberID, e.date, err)
		}
	})
	return MergeDisplay(rec, &edit), nil
}

// Flush commits a pending debounce right now instead of waiting out the
// delay. Called on blur / sheet navigation. A selection still missing a
// clock time is not a failure; it simply stays local.
func (e *Editor) Flush(ctx context.Context, memberID uint) error {
	e.autosave.Cancel(memberID)
	if err := e.flush(ctx, memberID); err != nil && !errors.Is(err, ErrIncompleteSelection) {
		return err
	}
	return nil
}

// flush re-reads the live overlay and persists it if it is committable:
// a satisfied flag set writes its canonical status, an edit on top of an
// existing row rewrites that row's status with the merged fields.
// Anything else stays local.
func (e *Editor) flush(ctx context.Context, memberID uint) error {
	rec, err := e.store.FetchByKey(ctx, e.tenantID, memberID, e.date)
	if err != nil {
		return err
	}
	pe, ok := e.overlay.Get(memberID)
	if !ok {
		return nil
	}
	ds := MergeDisplay(rec, &pe)

	if status, ok := pe.Flags.Canonical(); ok {
		if !pe.Flags.Satisfied(ds.ClockIn, ds.ClockOut) {
			return ErrIncompleteSelection
		}
		return e.mark(ctx, memberID, rec, status, ds)
	}
	if rec != nil {
		return e.mark(ctx, memberID, rec, rec.Status, ds)
	}
	// No stored row and no status selected yet: the edit has nowhere to
	// land, so it waits in the overlay.
	return nil
}

func (e *Editor) mark(ctx context.Context, memberID uint, rec *models.AttendanceRecord, status models.AttendanceStatus, ds DisplayState) error {
	ci, co, notes := NormalizeFields(status, ds.ClockIn, ds.ClockOut, ds.Notes)
	if _, err := e.store.MarkAttendance(ctx, MarkParams{
		TenantID:     e.tenantID,
		TeamMemberID: memberID,
		Date:         e.date,
		Status:       status,
		ClockIn:      ci,
		ClockOut:     co,
		Notes:        notes,
		RecordedBy:   e.actorID,
	}); err != nil {
		return err
	}
	// A row that existed before the edit keeps its overlay so a refresh
	// racing the write cannot flicker the field back. A row this flush
	// created is confirmed persisted, so the overlay can go.
	if rec == nil {
		e.overlay.Clear(memberID)
	}
	return nil
}

// edit applies fn under the overlay lock, seeding a fresh pending edit
// from the stored row so its flags start out consistent with what the
// member sees on screen.
func (e *Editor) edit(memberID uint, rec *models.AttendanceRecord, fn func(*PendingEdit)) PendingEdit {
	return e.overlay.Edit(memberID, func() PendingEdit {
		pe := PendingEdit{WasPersisted: rec != nil}
		if rec != nil {
			if f, ok := FlagsFor(rec.Status); ok {
				pe.Flags = f
			}
		}
		return pe
	}, fn)
}

// EditorRegistry hands out one editor per (tenant, actor, day) so a
// user's pending edits follow them across requests.
type EditorRegistry struct {
	mu      sync.Mutex
	store   Store
	delay   time.Duration
	editors map[string]*Editor
}

func NewEditorRegistry(store Store, delay time.Duration) *EditorRegistry {
	return &EditorRegistry{
		store:   store,
		delay:   delay,
		editors: make(map[string]*Editor),
	}
}

func (r *EditorRegistry) SheetFor(tenantID uint, date string, actorID uint) *Editor {
	key := fmt.Sprintf("%d|%d|%s", tenantID, actorID, date)
	r.mu.Lock()
	defer r.mu.Unlock()
	if ed, ok := r.editors[key]; ok {
		return ed
	}
	ed := NewEditor(r.store, r.delay, tenantID, date, actorID)
	r.editors[key] = ed
	return ed
}
