// internal/routes/router.go
package routes

import (
	"attendance_backend/internal/handlers"
	"attendance_backend/internal/middleware"
	"attendance_backend/internal/storage"
	"attendance_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	store := storage.NewAttendanceStore(db)
	hub := ws.NewHub()

	attH := handlers.NewAttendanceHandler(store, hub)
	repH := handlers.NewReportHandler(db, store)
	sheetH := handlers.NewSheetHandler(store)

	r.GET("/healthz", handlers.Health)

	api := r.Group("/api/v1")

	// The websocket feed authenticates via query token before the group
	// middleware applies.
	api.GET("/attendance/live", middleware.TokenFromQuery(), hub.Handle)

	api.Use(middleware.AuthRequired())
	{
		api.GET("/attendance", attH.ListDaily)
		api.GET("/attendance/monthly", attH.ListMonthly)
		api.POST("/attendance", attH.Mark)
		api.DELETE("/attendance/:id", attH.Delete)

		api.GET("/attendance/summary", repH.MonthlySummary)
		api.GET("/attendance/report", repH.MonthlyReport)

		sheet := api.Group("/sheet/:date/members/:member_id")
		{
			sheet.GET("", sheetH.DisplayState)
			sheet.POST("/toggle", sheetH.Toggle)
			sheet.POST("/status", sheetH.SelectStatus)
			sheet.POST("/clock", sheetH.SetClock)
			sheet.POST("/notes", sheetH.SetNotes)
			sheet.POST("/flush", sheetH.Flush)
		}
	}

	return r
}
