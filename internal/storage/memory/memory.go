// internal/storage/memory/memory.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"attendance_backend/internal/attendance"
	"attendance_backend/internal/models"

	"github.com/google/uuid"
)

// Store is an in-memory attendance.Store for tests. It mirrors the
// postgres store's semantics: natural-key upsert preserving the id,
// tenant scoping, and the ordering contracts of the fetch calls. Writes
// counts successful MarkAttendance calls so debounce tests can assert
// exact persistence counts.
type Store struct {
	mu     sync.Mutex
	rows   map[string]*models.AttendanceRecord
	writes int
	seq    int
}

func New() *Store {
	return &Store{rows: make(map[string]*models.AttendanceRecord)}
}

func key(tenantID, memberID uint, date string) string {
	return fmt.Sprintf("%d|%d|%s", tenantID, memberID, date)
}

func (s *Store) FetchDaily(_ context.Context, tenantID uint, date string) ([]models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.AttendanceRecord
	for _, rec := range s.rows {
		if rec.TenantID == tenantID && rec.WorkDate == date {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) FetchMonthly(_ context.Context, tenantID uint, yearMonth string) ([]models.AttendanceRecord, error) {
	first, last, err := attendance.MonthRange(yearMonth)
	if err != nil {
		return nil, attendance.FetchError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.AttendanceRecord
	for _, rec := range s.rows {
		if rec.TenantID == tenantID && rec.WorkDate >= first && rec.WorkDate <= last {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].WorkDate < out[j].WorkDate
	})
	return out, nil
}

func (s *Store) FetchByKey(_ context.Context, tenantID, teamMemberID uint, date string) (*models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.rows[key(tenantID, teamMemberID, date)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *Store) MarkAttendance(_ context.Context, p attendance.MarkParams) (models.AttendanceRecord, error) {
	if !p.Status.Valid() {
		return models.AttendanceRecord{}, attendance.WriteError(fmt.Errorf("unknown status %q", p.Status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(p.TenantID, p.TeamMemberID, p.Date)
	now := time.Now().UTC().Add(time.Duration(s.seq) * time.Millisecond)
	s.seq++

	rec, ok := s.rows[k]
	if !ok {
		rec = &models.AttendanceRecord{
			ID:           uuid.NewString(),
			TenantID:     p.TenantID,
			TeamMemberID: p.TeamMemberID,
			WorkDate:     p.Date,
			CreatedAt:    now,
		}
		s.rows[k] = rec
	}
	rec.Status = p.Status
	rec.ClockIn = p.ClockIn
	rec.ClockOut = p.ClockOut
	rec.Notes = p.Notes
	rec.RecordedBy = p.RecordedBy
	rec.UpdatedAt = now

	s.writes++
	cp := *rec
	return cp, nil
}

func (s *Store) DeleteAttendance(_ context.Context, tenantID uint, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, rec := range s.rows {
		if rec.TenantID == tenantID && rec.ID == id {
			delete(s.rows, k)
			return nil
		}
	}
	return attendance.WriteError(fmt.Errorf("record %s not found", id))
}

// Writes is the number of successful MarkAttendance calls so far.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Len is the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
