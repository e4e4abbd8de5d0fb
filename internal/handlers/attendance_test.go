package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"attendance_backend/internal/attendance"
	"attendance_backend/internal/handlers"
	"attendance_backend/internal/models"
	"attendance_backend/internal/storage/memory"

	"github.com/gin-gonic/gin"
)

// testAuth stands in for the JWT middleware, pinning the actor and
// tenant the way a parsed token would.
func testAuth(c *gin.Context) {
	c.Set("user_id", uint(9))
	c.Set("tenant_id", uint(1))
	c.Next()
}

func newTestRouter(store attendance.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewAttendanceHandler(store, nil)

	api := r.Group("/api/v1", testAuth)
	api.GET("/attendance", h.ListDaily)
	api.GET("/attendance/monthly", h.ListMonthly)
	api.POST("/attendance", h.Mark)
	api.DELETE("/attendance/:id", h.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMark_OnTime(t *testing.T) {
	store := memory.New()
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/v1/attendance",
		`{"team_member_id":5,"date":"2026-08-14","status":"ON_TIME"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	rows, _ := store.FetchDaily(context.Background(), 1, "2026-08-14")
	if len(rows) != 1 {
		t.Fatalf("expected 1 stored row, got %d", len(rows))
	}
	if rows[0].RecordedBy != 9 {
		t.Errorf("recorded_by = %d, want the authenticated actor", rows[0].RecordedBy)
	}
}

func TestMark_TwiceIsIdempotent(t *testing.T) {
	store := memory.New()
	r := newTestRouter(store)
	body := `{"team_member_id":5,"date":"2026-08-14","status":"ON_TIME"}`

	for i := 0; i < 2; i++ {
		if w := doJSON(t, r, http.MethodPost, "/api/v1/attendance", body); w.Code != http.StatusOK {
			t.Fatalf("mark %d: status %d", i, w.Code)
		}
	}

	rows, _ := store.FetchDaily(context.Background(), 1, "2026-08-14")
	if len(rows) != 1 {
		t.Errorf("expected 1 row after two identical marks, got %d", len(rows))
	}
}

func TestMark_LateRequiresClockIn(t *testing.T) {
	store := memory.New()
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/v1/attendance",
		`{"team_member_id":5,"date":"2026-08-14","status":"LATE"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if store.Writes() != 0 {
		t.Error("incomplete selection must not write")
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/attendance",
		`{"team_member_id":5,"date":"2026-08-14","status":"LATE","clock_in":"10:45"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMark_IrrelevantFieldsDropped(t *testing.T) {
	store := memory.New()
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/v1/attendance",
		`{"team_member_id":5,"date":"2026-08-14","status":"NO_SHOW","clock_in":"10:45","notes":"no call"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	rec, _ := store.FetchByKey(context.Background(), 1, 5, "2026-08-14")
	if rec.ClockIn != nil {
		t.Error("NO_SHOW must not store a clock-in")
	}
	if rec.Notes == nil || *rec.Notes != "no call" {
		t.Error("NO_SHOW keeps notes")
	}
}

func TestMark_Validation(t *testing.T) {
	store := memory.New()
	r := newTestRouter(store)

	cases := []string{
		`{"team_member_id":5,"date":"2026-08-14","status":"SLEEPING"}`,
		`{"team_member_id":5,"date":"14/08/2026","status":"ON_TIME"}`,
		`{"team_member_id":5,"date":"2026-08-14","status":"LATE","clock_in":"25:00"}`,
		`{"date":"2026-08-14","status":"ON_TIME"}`,
	}
	for _, body := range cases {
		if w := doJSON(t, r, http.MethodPost, "/api/v1/attendance", body); w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestListDaily(t *testing.T) {
	store := memory.New()
	r := newTestRouter(store)

	for member := uint(1); member <= 2; member++ {
		if _, err := store.MarkAttendance(context.Background(), attendance.MarkParams{
			TenantID: 1, TeamMemberID: member, Date: "2026-08-14", Status: models.StatusOnTime,
		}); err != nil {
			t.Fatal(err)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/attendance?date=2026-08-14", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}

	var resp struct {
		Data []models.AttendanceRecord `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("expected 2 rows, got %d", len(resp.Data))
	}

	if w := doJSON(t, r, http.MethodGet, "/api/v1/attendance?date=14-08", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad date: expected 400, got %d", w.Code)
	}
}

func TestListMonthly_BadMonth(t *testing.T) {
	r := newTestRouter(memory.New())
	if w := doJSON(t, r, http.MethodGet, "/api/v1/attendance/monthly?month=August", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDelete(t *testing.T) {
	store := memory.New()
	r := newTestRouter(store)

	rec, err := store.MarkAttendance(context.Background(), attendance.MarkParams{
		TenantID: 1, TeamMemberID: 5, Date: "2026-08-14", Status: models.StatusOnTime,
	})
	if err != nil {
		t.Fatal(err)
	}

	if w := doJSON(t, r, http.MethodDelete, "/api/v1/attendance/"+rec.ID, ""); w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}
	if store.Len() != 0 {
		t.Error("record should be deleted")
	}
}
