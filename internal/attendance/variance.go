// internal/attendance/variance.go
package attendance

import (
	"fmt"
	"strconv"
	"strings"

	"attendance_backend/internal/models"
)

const minutesPerDay = 24 * 60

// ParseClock converts an "HH:MM" time of day into minutes since
// midnight. A trailing seconds component is accepted and ignored, since
// postgres time columns scan back as "HH:MM:SS".
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 3)
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return h*60 + m, nil
}

// LatenessMinutes is how many minutes after the shift's nominal start
// the clock-in landed. start and end are minutes since midnight; a shift
// wraps midnight when end < start. A clock-in that numerically precedes
// the start but falls inside the post-midnight segment belongs to the
// next calendar day and is shifted forward a full day before comparison.
// Never negative.
func LatenessMinutes(start, end, clockIn int) int {
	if end < start && clockIn < start && clockIn <= end {
		clockIn += minutesPerDay
	}
	if d := clockIn - start; d > 0 {
		return d
	}
	return 0
}

// EarlinessMinutes is how many minutes before the shift's nominal end
// the clock-out landed. For a wrapping shift the end boundary lives on
// the next day, so both it and a post-midnight clock-out are shifted
// forward before comparison. Never negative.
func EarlinessMinutes(start, end, clockOut int) int {
	if end < start {
		end += minutesPerDay
		if clockOut < start {
			clockOut += minutesPerDay
		}
	}
	if d := end - clockOut; d > 0 {
		return d
	}
	return 0
}

// MissedMinutes is the schedule variance one record represents against
// the member's shift. A missing shift assignment or a missing required
// clock time contributes zero; variance is a best-effort display metric,
// not a validation error.
func MissedMinutes(rec models.AttendanceRecord, shift *models.ShiftSchedule) int {
	if shift == nil {
		return 0
	}
	start, err := ParseClock(shift.StartTime)
	if err != nil {
		return 0
	}
	end, err := ParseClock(shift.EndTime)
	if err != nil {
		return 0
	}

	total := 0
	switch rec.Status {
	case models.StatusLate, models.StatusLateAndLeftEarly:
		if m, ok := clockMinutes(rec.ClockIn); ok {
			total += LatenessMinutes(start, end, m)
		}
	}
	switch rec.Status {
	case models.StatusLeftEarly, models.StatusLateAndLeftEarly:
		if m, ok := clockMinutes(rec.ClockOut); ok {
			total += EarlinessMinutes(start, end, m)
		}
	}
	return total
}

// TotalMissedHours sums lateness and early-departure time in hours
// across a reporting window, resolving each record's shift through
// shiftByMember.
func TotalMissedHours(records []models.AttendanceRecord, shiftByMember map[uint]*models.ShiftSchedule) float64 {
	total := 0
	for _, rec := range records {
		total += MissedMinutes(rec, shiftByMember[rec.TeamMemberID])
	}
	return float64(total) / 60
}

func clockMinutes(s *string) (int, bool) {
	if s == nil || *s == "" {
		return 0, false
	}
	m, err := ParseClock(*s)
	if err != nil {
		return 0, false
	}
	return m, true
}
