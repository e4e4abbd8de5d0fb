// internal/storage/attendance_store.go
package storage

import (
	"context"
	"errors"
	"fmt"

	"attendance_backend/internal/attendance"
	"attendance_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pageSize is the hard cap the query layer puts on a single response.
// FetchMonthly pages past it; nothing else needs more rows than this.
const pageSize = 1000

// AttendanceStore is the postgres-backed attendance.Store.
type AttendanceStore struct {
	db *gorm.DB
}

func NewAttendanceStore(db *gorm.DB) *AttendanceStore {
	return &AttendanceStore{db: db}
}

func (s *AttendanceStore) FetchDaily(ctx context.Context, tenantID uint, date string) ([]models.AttendanceRecord, error) {
	var rows []models.AttendanceRecord
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND work_date = ?", tenantID, date).
		Order("created_at desc").
		Find(&rows).Error; err != nil {
		return nil, attendance.FetchError(err)
	}
	return rows, nil
}

// FetchMonthly returns every record in the month regardless of the page
// cap, issuing sequential range-bounded queries ordered by date.
func (s *AttendanceStore) FetchMonthly(ctx context.Context, tenantID uint, yearMonth string) ([]models.AttendanceRecord, error) {
	first, last, err := attendance.MonthRange(yearMonth)
	if err != nil {
		return nil, attendance.FetchError(err)
	}
	rows, err := collectPages(ctx, pageSize, func(offset int) ([]models.AttendanceRecord, error) {
		var page []models.AttendanceRecord
		if err := s.db.WithContext(ctx).
			Where("tenant_id = ? AND work_date BETWEEN ? AND ?", tenantID, first, last).
			Order("work_date asc").
			Offset(offset).
			Limit(pageSize).
			Find(&page).Error; err != nil {
			return nil, err
		}
		return page, nil
	})
	if err != nil {
		return nil, attendance.FetchError(err)
	}
	return rows, nil
}

func (s *AttendanceStore) FetchByKey(ctx context.Context, tenantID, teamMemberID uint, date string) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND team_member_id = ? AND work_date = ?", tenantID, teamMemberID, date).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, attendance.FetchError(err)
	}
	return &rec, nil
}

// MarkAttendance upserts on the natural key in a single statement, so
// two near-simultaneous marks for the same new (member, date) cannot
// both insert. A conflicting row keeps its id and created_at; everything
// the caller controls is overwritten.
func (s *AttendanceStore) MarkAttendance(ctx context.Context, p attendance.MarkParams) (models.AttendanceRecord, error) {
	if !p.Status.Valid() {
		return models.AttendanceRecord{}, attendance.WriteError(fmt.Errorf("unknown status %q", p.Status))
	}

	rec := models.AttendanceRecord{
		TenantID:     p.TenantID,
		TeamMemberID: p.TeamMemberID,
		WorkDate:     p.Date,
		Status:       p.Status,
		ClockIn:      p.ClockIn,
		ClockOut:     p.ClockOut,
		Notes:        p.Notes,
		RecordedBy:   p.RecordedBy,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "tenant_id"}, {Name: "team_member_id"}, {Name: "work_date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "clock_in", "clock_out", "notes", "recorded_by", "updated_at",
		}),
	}).Create(&rec).Error
	if err != nil {
		return models.AttendanceRecord{}, attendance.WriteError(err)
	}

	// Re-read so the caller sees the stored id and timestamps when the
	// upsert landed on an existing row.
	var stored models.AttendanceRecord
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND team_member_id = ? AND work_date = ?", p.TenantID, p.TeamMemberID, p.Date).
		First(&stored).Error; err != nil {
		return models.AttendanceRecord{}, attendance.FetchError(err)
	}
	return stored, nil
}

func (s *AttendanceStore) DeleteAttendance(ctx context.Context, tenantID uint, id string) error {
	res := s.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.AttendanceRecord{})
	if res.Error != nil {
		return attendance.WriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return attendance.WriteError(fmt.Errorf("record %s not found", id))
	}
	return nil
}
