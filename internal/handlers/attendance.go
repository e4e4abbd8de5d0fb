// internal/handlers/attendance.go
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"attendance_backend/internal/attendance"
	"attendance_backend/internal/models"
	"attendance_backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	Store attendance.Store
	Hub   *ws.Hub
}

func NewAttendanceHandler(store attendance.Store, hub *ws.Hub) *AttendanceHandler {
	return &AttendanceHandler{Store: store, Hub: hub}
}

type MarkRequest struct {
	TeamMemberID uint    `json:"team_member_id" binding:"required"`
	Date         string  `json:"date" binding:"required"`
	Status       string  `json:"status" binding:"required"`
	ClockIn      *string `json:"clock_in"`
	ClockOut     *string `json:"clock_out"`
	Notes        *string `json:"notes"`
}

func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	status := models.AttendanceStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status", "detail": req.Status})
		return
	}
	if !validDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	for _, clock := range []*string{req.ClockIn, req.ClockOut} {
		if clock == nil {
			continue
		}
		if _, err := attendance.ParseClock(*clock); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clock time", "detail": *clock})
			return
		}
	}

	ci, co, notes := attendance.NormalizeFields(status, req.ClockIn, req.ClockOut, req.Notes)
	if fs, ok := attendance.FlagsFor(status); ok && !fs.Satisfied(ci, co) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status missing required clock time", "detail": string(status)})
		return
	}

	rec, err := h.Store.MarkAttendance(c.Request.Context(), attendance.MarkParams{
		TenantID:     c.GetUint("tenant_id"),
		TeamMemberID: req.TeamMemberID,
		Date:         req.Date,
		Status:       status,
		ClockIn:      ci,
		ClockOut:     co,
		Notes:        notes,
		RecordedBy:   c.GetUint("user_id"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save", "detail": err.Error()})
		return
	}

	h.Hub.Broadcast("attendance_marked", rec)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": rec})
}

func (h *AttendanceHandler) ListDaily(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if !validDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	rows, err := h.Store.FetchDaily(c.Request.Context(), c.GetUint("tenant_id"), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": rows})
}

func (h *AttendanceHandler) ListMonthly(c *gin.Context) {
	month := strings.TrimSpace(c.Query("month"))
	rows, err := h.Store.FetchMonthly(c.Request.Context(), c.GetUint("tenant_id"), month)
	if err != nil {
		var serr *attendance.StoreError
		if errors.As(err, &serr) && serr.Kind == attendance.ErrFetch && !validMonth(month) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": rows})
}

func (h *AttendanceHandler) Delete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	if err := h.Store.DeleteAttendance(c.Request.Context(), c.GetUint("tenant_id"), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete", "detail": err.Error()})
		return
	}

	h.Hub.Broadcast("attendance_deleted", gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}
