// internal/models/attendance.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	StatusOnTime           AttendanceStatus = "ON_TIME"
	StatusLate             AttendanceStatus = "LATE"
	StatusLeftEarly        AttendanceStatus = "LEFT_EARLY"
	StatusLateAndLeftEarly AttendanceStatus = "LATE_AND_LEFT_EARLY"
	StatusNoShow           AttendanceStatus = "NO_SHOW"
	StatusDayOff           AttendanceStatus = "DAY_OFF"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusOnTime, StatusLate, StatusLeftEarly, StatusLateAndLeftEarly, StatusNoShow, StatusDayOff:
		return true
	}
	return false
}

// AttendanceRecord is one team member's attendance for one calendar day.
// The unique index on (tenant_id, team_member_id, work_date) is the
// natural key: the database rejects a second row for the same day, so
// MarkAttendance can upsert on conflict instead of check-then-insert.
type AttendanceRecord struct {
	ID           string           `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID     uint             `gorm:"uniqueIndex:idx_member_day;not null" json:"tenant_id"`
	TeamMemberID uint             `gorm:"uniqueIndex:idx_member_day;not null" json:"team_member_id"`
	WorkDate     string           `gorm:"type:date;uniqueIndex:idx_member_day;not null" json:"work_date"`
	Status       AttendanceStatus `gorm:"type:varchar(20);not null" json:"status"`
	ClockIn      *string          `gorm:"type:time" json:"clock_in,omitempty"`
	ClockOut     *string          `gorm:"type:time" json:"clock_out,omitempty"`
	Notes        *string          `gorm:"type:text" json:"notes,omitempty"`
	RecordedBy   uint             `gorm:"index" json:"recorded_by"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (r *AttendanceRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
