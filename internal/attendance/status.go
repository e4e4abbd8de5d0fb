// internal/attendance/status.go
package attendance

import "attendance_backend/internal/models"

// FlagSet is the pair of independent toggles the editing UI exposes.
// Late and LeftEarly can be combined; everything else on the sheet is an
// exclusive selection that clears them.
type FlagSet struct {
	Late      bool `json:"late"`
	LeftEarly bool `json:"left_early"`
}

// Canonical collapses the flag set into the status that gets stored.
// The second return is false for the empty set, which never writes.
func (f FlagSet) Canonical() (models.AttendanceStatus, bool) {
	switch {
	case f.Late && f.LeftEarly:
		return models.StatusLateAndLeftEarly, true
	case f.Late:
		return models.StatusLate, true
	case f.LeftEarly:
		return models.StatusLeftEarly, true
	}
	return "", false
}

// Satisfied reports whether every clock time the flag set requires is
// present: Late needs a clock-in, LeftEarly needs a clock-out.
func (f FlagSet) Satisfied(clockIn, clockOut *string) bool {
	if !f.Late && !f.LeftEarly {
		return false
	}
	if f.Late && (clockIn == nil || *clockIn == "") {
		return false
	}
	if f.LeftEarly && (clockOut == nil || *clockOut == "") {
		return false
	}
	return true
}

// FlagsFor projects a stored status back onto the toggles. ok is false
// for the exclusive statuses, which render without any flag set.
func FlagsFor(status models.AttendanceStatus) (FlagSet, bool) {
	switch status {
	case models.StatusLate:
		return FlagSet{Late: true}, true
	case models.StatusLeftEarly:
		return FlagSet{LeftEarly: true}, true
	case models.StatusLateAndLeftEarly:
		return FlagSet{Late: true, LeftEarly: true}, true
	}
	return FlagSet{}, false
}

// IsExclusive reports whether status is one of the mutually exclusive
// selections that commit immediately and clear the toggles.
func IsExclusive(status models.AttendanceStatus) bool {
	switch status {
	case models.StatusOnTime, models.StatusNoShow, models.StatusDayOff:
		return true
	}
	return false
}

// FieldSet says which auxiliary columns matter for a status.
type FieldSet struct {
	NeedClockIn  bool
	NeedClockOut bool
	AllowNotes   bool
}

func Requires(status models.AttendanceStatus) FieldSet {
	switch status {
	case models.StatusLate:
		return FieldSet{NeedClockIn: true}
	case models.StatusLeftEarly:
		return FieldSet{NeedClockOut: true}
	case models.StatusLateAndLeftEarly:
		return FieldSet{NeedClockIn: true, NeedClockOut: true}
	case models.StatusNoShow, models.StatusDayOff:
		return FieldSet{AllowNotes: true}
	}
	// ON_TIME carries nothing.
	return FieldSet{}
}

// NormalizeFields forces every field that is irrelevant for status to
// nil, so a write can never leave a stale clock time or note behind a
// status change.
func NormalizeFields(status models.AttendanceStatus, clockIn, clockOut, notes *string) (ci, co, n *string) {
	fs := Requires(status)
	if fs.NeedClockIn {
		ci = clockIn
	}
	if fs.NeedClockOut {
		co = clockOut
	}
	if fs.AllowNotes {
		n = notes
	}
	return ci, co, n
}
