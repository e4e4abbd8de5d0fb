// internal/attendance/overlay.go
package attendance

import (
	"sync"

	"attendance_backend/internal/models"
)

// PendingEdit holds uncommitted input for one team member's day: flag
// toggles waiting on a clock time, or field edits waiting on the
// autosave timer. WasPersisted records whether a stored row existed when
// the edit began; it decides whether the overlay survives a flush.
type PendingEdit struct {
	Flags        FlagSet
	ClockIn      *string
	ClockOut     *string
	Notes        *string
	WasPersisted bool
}

// Overlay keeps pending edits keyed by team member id. Handlers run
// concurrently under gin, so access is mutex guarded.
type Overlay struct {
	mu    sync.Mutex
	edits map[uint]*PendingEdit
}

func NewOverlay() *Overlay {
	return &Overlay{edits: make(map[uint]*PendingEdit)}
}

// Get returns a copy of the member's pending edit, if any.
func (o *Overlay) Get(memberID uint) (PendingEdit, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.edits[memberID]
	if !ok {
		return PendingEdit{}, false
	}
	return *e, true
}

// Edit applies fn to the member's pending edit, creating it with init
// first if none exists, and returns the resulting value.
func (o *Overlay) Edit(memberID uint, init func() PendingEdit, fn func(*PendingEdit)) PendingEdit {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.edits[memberID]
	if !ok {
		created := init()
		e = &created
		o.edits[memberID] = e
	}
	fn(e)
	return *e
}

func (o *Overlay) Clear(memberID uint) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.edits, memberID)
}

// DisplayState is the merged view of a persisted record and any pending
// local edit, used by callers to render flags, times and notes.
type DisplayState struct {
	Record   *models.AttendanceRecord `json:"record,omitempty"`
	Status   models.AttendanceStatus  `json:"status,omitempty"`
	Flags    FlagSet                  `json:"flags"`
	ClockIn  *string                  `json:"clock_in,omitempty"`
	ClockOut *string                  `json:"clock_out,omitempty"`
	Notes    *string                  `json:"notes,omitempty"`
	Pending  bool                     `json:"pending"`
}

// MergeDisplay is a pure projection: pending fields win over persisted
// ones, and when an edit exists its flags are authoritative (the editor
// seeds them from the stored status when the edit is created).
func MergeDisplay(rec *models.AttendanceRecord, edit *PendingEdit) DisplayState {
	ds := DisplayState{Record: rec}
	if rec != nil {
		ds.Status = rec.Status
		if f, ok := FlagsFor(rec.Status); ok {
			ds.Flags = f
		}
		ds.ClockIn = rec.ClockIn
		ds.ClockOut = rec.ClockOut
		ds.Notes = rec.Notes
	}
	if edit != nil {
		ds.Pending = true
		ds.Flags = edit.Flags
		if st, ok := edit.Flags.Canonical(); ok {
			ds.Status = st
		}
		if edit.ClockIn != nil {
			ds.ClockIn = edit.ClockIn
		}
		if edit.ClockOut != nil {
			ds.ClockOut = edit.ClockOut
		}
		if edit.Notes != nil {
			ds.Notes = edit.Notes
		}
	}
	return ds
}
