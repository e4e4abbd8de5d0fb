// internal/models/shift.go
package models

// ShiftSchedule maps a shift code to its nominal boundaries as "HH:MM"
// times of day. A shift whose end is numerically before its start
// (NIGHT 18:00-02:00) crosses midnight.
type ShiftSchedule struct {
	Code      string `gorm:"type:varchar(20);primaryKey" json:"code"`
	Name      string `gorm:"not null" json:"name"`
	StartTime string `gorm:"type:time;not null" json:"start_time"`
	EndTime   string `gorm:"type:time;not null" json:"end_time"`
}
