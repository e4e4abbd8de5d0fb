// internal/models/team_member.go
package models

import "time"

// TeamMember is owned by the staff directory elsewhere in the platform;
// this service only reads it to resolve names and shift assignments.
type TeamMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"index;not null" json:"tenant_id"`
	FullName  string    `gorm:"not null" json:"full_name"`
	ShiftCode string    `gorm:"type:varchar(20)" json:"shift_code"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
