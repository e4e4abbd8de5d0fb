// internal/handlers/report.go
package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"attendance_backend/internal/attendance"
	"attendance_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportHandler serves the month-level variance views: a JSON summary
// for the dashboard and an XLSX download for payroll.
type ReportHandler struct {
	DB    *gorm.DB
	Store attendance.Store
}

func NewReportHandler(db *gorm.DB, store attendance.Store) *ReportHandler {
	return &ReportHandler{DB: db, Store: store}
}

type MemberSummary struct {
	TeamMemberID uint    `json:"team_member_id"`
	FullName     string  `json:"full_name"`
	ShiftCode    string  `json:"shift_code"`
	Records      int     `json:"records"`
	MissedHours  float64 `json:"missed_hours"`
}

type monthData struct {
	records       []models.AttendanceRecord
	memberByID    map[uint]models.TeamMember
	shiftByMember map[uint]*models.ShiftSchedule
}

func (h *ReportHandler) loadMonth(c *gin.Context) (string, *monthData, bool) {
	month := strings.TrimSpace(c.Query("month"))
	if !validMonth(month) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return "", nil, false
	}
	tenantID := c.GetUint("tenant_id")

	records, err := h.Store.FetchMonthly(c.Request.Context(), tenantID, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load", "detail": err.Error()})
		return "", nil, false
	}

	var members []models.TeamMember
	if err := h.DB.WithContext(c.Request.Context()).
		Where("tenant_id = ?", tenantID).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load", "detail": err.Error()})
		return "", nil, false
	}
	var shifts []models.ShiftSchedule
	if err := h.DB.WithContext(c.Request.Context()).Find(&shifts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load", "detail": err.Error()})
		return "", nil, false
	}

	shiftByCode := make(map[string]*models.ShiftSchedule, len(shifts))
	for i := range shifts {
		shiftByCode[shifts[i].Code] = &shifts[i]
	}
	data := &monthData{
		records:       records,
		memberByID:    make(map[uint]models.TeamMember, len(members)),
		shiftByMember: make(map[uint]*models.ShiftSchedule, len(members)),
	}
	for _, m := range members {
		data.memberByID[m.ID] = m
		data.shiftByMember[m.ID] = shiftByCode[m.ShiftCode]
	}
	return month, data, true
}

func (d *monthData) summaries() []MemberSummary {
	byMember := make(map[uint][]models.AttendanceRecord)
	for _, rec := range d.records {
		byMember[rec.TeamMemberID] = append(byMember[rec.TeamMemberID], rec)
	}

	out := make([]MemberSummary, 0, len(byMember))
	for memberID, recs := range byMember {
		s := MemberSummary{
			TeamMemberID: memberID,
			Records:      len(recs),
			MissedHours:  attendance.TotalMissedHours(recs, d.shiftByMember),
		}
		if m, ok := d.memberByID[memberID]; ok {
			s.FullName = m.FullName
			s.ShiftCode = m.ShiftCode
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamMemberID < out[j].TeamMemberID })
	return out
}

func (h *ReportHandler) MonthlySummary(c *gin.Context) {
	month, data, ok := h.loadMonth(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "month": month, "data": data.summaries()})
}

// MonthlyReport streams the month as an XLSX workbook: one row per
// record plus a per-member summary block.
func (h *ReportHandler) MonthlyReport(c *gin.Context) {
	month, data, ok := h.loadMonth(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Attendance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Team Member", "Shift", "Status", "Clock In", "Clock Out", "Missed Hours", "Notes"}
	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}

	row := 2
	for _, rec := range data.records {
		member := data.memberByID[rec.TeamMemberID]
		missed := float64(attendance.MissedMinutes(rec, data.shiftByMember[rec.TeamMemberID])) / 60

		values := []any{
			rec.WorkDate,
			member.FullName,
			member.ShiftCode,
			string(rec.Status),
			deref(rec.ClockIn),
			deref(rec.ClockOut),
			missed,
			deref(rec.Notes),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Totals")
	row++
	for _, s := range data.summaries() {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), s.Records)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), s.MissedHours)
		row++
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%s.xlsx"`, month))
	if err := f.Write(c.Writer); err != nil {
		log.Printf("report write: %v", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
