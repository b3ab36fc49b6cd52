package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/campusmind/advising-backend/internal/domain"
)

func TestExportEvaluations_Success(t *testing.T) {
	e := newChatTestEnv(t)
	e.expSvc.csv = "timestamp,student id,chat id,input text,AI evaluation text\n"
	e.expSvc.count = 0

	w := postJSON(t, e.router, "/admin/export", ExportRequest{},
		map[string]string{"Authorization": "Bearer " + e.token(t, facultyID)})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp ExportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || !strings.HasPrefix(resp.CSVData, "timestamp,") {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ExportTimestamp.IsZero() {
		t.Fatal("export timestamp not set")
	}
}

func TestExportEvaluations_Bounds(t *testing.T) {
	e := newChatTestEnv(t)

	w := postJSON(t, e.router, "/admin/export", ExportRequest{
		StartDate: "2024-01-01T00:00:00Z",
		EndDate:   "2024-03-31T23:59:59Z",
	}, map[string]string{"Authorization": "Bearer " + e.token(t, facultyID)})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if e.expSvc.gotStart == nil || e.expSvc.gotEnd == nil {
		t.Fatal("bounds not forwarded")
	}
	if !e.expSvc.gotStart.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", e.expSvc.gotStart)
	}
}

func TestExportEvaluations_MalformedDate(t *testing.T) {
	e := newChatTestEnv(t)

	w := postJSON(t, e.router, "/admin/export", ExportRequest{StartDate: "01/02/2024"},
		map[string]string{"Authorization": "Bearer " + e.token(t, facultyID)})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestExportEvaluations_StudentForbidden(t *testing.T) {
	e := newChatTestEnv(t)

	w := postJSON(t, e.router, "/admin/export", ExportRequest{},
		map[string]string{"Authorization": "Bearer " + e.token(t, studentID)})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestExportEvaluations_NoToken(t *testing.T) {
	e := newChatTestEnv(t)

	w := postJSON(t, e.router, "/admin/export", ExportRequest{}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetStats_Faculty(t *testing.T) {
	e := newChatTestEnv(t)
	e.expSvc.stats = domain.UsageStats{TotalMessages: 156, EvaluationCount: 45, ActiveUsers: 23, ComputedAt: time.Now().UTC()}

	w := getPath(t, e.router, "/admin/stats", e.token(t, facultyID))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Stats.TotalMessages != 156 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGetStats_ServiceError(t *testing.T) {
	e := newChatTestEnv(t)
	e.expSvc.statsErr = errors.New("scan failed")

	w := getPath(t, e.router, "/admin/stats", e.token(t, facultyID))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetStats_StudentForbidden(t *testing.T) {
	e := newChatTestEnv(t)

	w := getPath(t, e.router, "/admin/stats", e.token(t, studentID))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
}
