// internal/attendance/store.go
package attendance

import (
	"context"
	"fmt"
	"time"

	"attendance_backend/internal/models"
)

// ErrKind classifies store failures. Fetch failures surface as a
// retryable banner without touching already-loaded rows; write failures
// surface against the single affected row.
type ErrKind string

const (
	ErrFetch ErrKind = "fetch"
	ErrWrite ErrKind = "write"
)

type StoreError struct {
	Kind ErrKind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("attendance %s: %v", e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func FetchError(err error) *StoreError { return &StoreError{Kind: ErrFetch, Err: err} }
func WriteError(err error) *StoreError { return &StoreError{Kind: ErrWrite, Err: err} }

// MarkParams is one attendance upsert, keyed by (tenant, member, date).
type MarkParams struct {
	TenantID     uint
	TeamMemberID uint
	Date         string // YYYY-MM-DD
	Status       models.AttendanceStatus
	ClockIn      *string
	ClockOut     *string
	Notes        *string
	RecordedBy   uint
}

// Store is the persistence surface the engine runs against. FetchByKey
// returns (nil, nil) when no record exists for the key. MarkAttendance
// is an idempotent upsert: a second call with the same key updates the
// existing row in place, preserving its id.
type Store interface {
	FetchDaily(ctx context.Context, tenantID uint, date string) ([]models.AttendanceRecord, error)
	FetchMonthly(ctx context.Context, tenantID uint, yearMonth string) ([]models.AttendanceRecord, error)
	FetchByKey(ctx context.Context, tenantID, teamMemberID uint, date string) (*models.AttendanceRecord, error)
	MarkAttendance(ctx context.Context, p MarkParams) (models.AttendanceRecord, error)
	DeleteAttendance(ctx context.Context, tenantID uint, id string) error
}

// MonthRange expands "YYYY-MM" into the first and last day of that
// month, both inclusive.
func MonthRange(yearMonth string) (first, last string, err error) {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return "", "", fmt.Errorf("invalid month %q", yearMonth)
	}
	return t.Format("2006-01-02"), t.AddDate(0, 1, -1).Format("2006-01-02"), nil
}
