// internal/handlers/sheet.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"attendance_backend/internal/attendance"
	"attendance_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SheetHandler is the day-sheet editing surface. Each (tenant, user,
// day) gets its own editor session so toggles and half-typed fields held
// in the pending overlay follow the user across requests.
type SheetHandler struct {
	Sheets *attendance.EditorRegistry
}

func NewSheetHandler(store attendance.Store) *SheetHandler {
	return &SheetHandler{
		Sheets: attendance.NewEditorRegistry(store, attendance.DefaultAutoSaveDelay),
	}
}

func (h *SheetHandler) editor(c *gin.Context) (*attendance.Editor, uint, bool) {
	date := c.Param("date")
	if !validDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return nil, 0, false
	}
	memberID64, err := strconv.ParseUint(strings.TrimSpace(c.Param("member_id")), 10, 64)
	if err != nil || memberID64 == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return nil, 0, false
	}

	ed := h.Sheets.SheetFor(c.GetUint("tenant_id"), date, c.GetUint("user_id"))
	return ed, uint(memberID64), true
}

func (h *SheetHandler) DisplayState(c *gin.Context) {
	ed, memberID, ok := h.editor(c)
	if !ok {
		return
	}
	ds, err := ed.DisplayState(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": ds})
}

type ToggleRequest struct {
	Flag string `json:"flag" binding:"required"` // "late" | "left_early"
}

func (h *SheetHandler) Toggle(c *gin.Context) {
	ed, memberID, ok := h.editor(c)
	if !ok {
		return
	}
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	var (
		ds  attendance.DisplayState
		err error
	)
	switch strings.ToLower(req.Flag) {
	case "late":
		ds, err = ed.ToggleLate(c.Request.Context(), memberID)
	case "left_early":
		ds, err = ed.ToggleLeftEarly(c.Request.Context(), memberID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown flag", "detail": req.Flag})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": ds})
}

type SelectStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *SheetHandler) SelectStatus(c *gin.Context) {
	ed, memberID, ok := h.editor(c)
	if !ok {
		return
	}
	var req SelectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	status := models.AttendanceStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !attendance.IsExclusive(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not an exclusive status", "detail": req.Status})
		return
	}

	rec, err := ed.SelectStatus(c.Request.Context(), memberID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": rec})
}

type SetClockRequest struct {
	Field string `json:"field" binding:"required"` // "in" | "out"
	Value string `json:"value" binding:"required"` // "HH:MM"
}

func (h *SheetHandler) SetClock(c *gin.Context) {
	ed, memberID, ok := h.editor(c)
	if !ok {
		return
	}
	var req SetClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	var (
		ds  attendance.DisplayState
		err error
	)
	switch strings.ToLower(req.Field) {
	case "in":
		ds, err = ed.SetClockIn(c.Request.Context(), memberID, req.Value)
	case "out":
		ds, err = ed.SetClockOut(c.Request.Context(), memberID, req.Value)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown clock field", "detail": req.Field})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to set clock time", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": ds})
}

type SetNotesRequest struct {
	Text string `json:"text"`
}

func (h *SheetHandler) SetNotes(c *gin.Context) {
	ed, memberID, ok := h.editor(c)
	if !ok {
		return
	}
	var req SetNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	ds, err := ed.SetNotes(c.Request.Context(), memberID, req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": ds})
}

// Flush commits any debounce still pending for the member, used when the
// UI navigates away before the timer fires.
func (h *SheetHandler) Flush(c *gin.Context) {
	ed, memberID, ok := h.editor(c)
	if !ok {
		return
	}
	if err := ed.Flush(c.Request.Context(), memberID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
