// Faculty admin HTTP handlers.
//
// This file exposes the reporting endpoints, both gated to faculty role and
// above by middleware:
//   - POST /admin/export  (CSV export of competency evaluations)
//   - GET  /admin/stats   (on-demand usage statistics)
package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusmind/advising-backend/internal/domain"
	"github.com/campusmind/advising-backend/internal/services"
)

// ExportRequest bounds the evaluation export. Dates are RFC 3339 timestamps;
// either bound may be omitted.
type ExportRequest struct {
	StartDate string `json:"start_date,omitempty" example:"2024-01-01T00:00:00Z"`
	EndDate   string `json:"end_date,omitempty" example:"2024-03-31T23:59:59Z"`
}

// ExportResponse carries the generated CSV and export metadata.
type ExportResponse struct {
	Success         bool      `json:"success"`
	CSVData         string    `json:"csv_data"`
	RecordCount     int       `json:"record_count"`
	ExportTimestamp time.Time `json:"export_timestamp"`
}

// StatsResponse wraps the usage statistics snapshot.
type StatsResponse struct {
	Success bool              `json:"success"`
	Stats   domain.UsageStats `json:"stats"`
}

// parseBound parses an optional RFC 3339 bound. Empty input yields nil.
func parseBound(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ExportEvaluations godoc
// @ID          exportEvaluations
// @Summary     Export competency evaluations as CSV
// @Description Generates a CSV of evaluation-flagged chat turns, optionally bounded by an inclusive date range. Faculty role required.
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    handlers.ExportRequest  false  "Optional date bounds"
//
// @Success     200  {object}  handlers.ExportResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed or inverted date range"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse  "Faculty access required"
// @Router      /admin/export [post]
func (h *Handlers) ExportEvaluations(c *gin.Context) {
	var req ExportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}

	start, err := parseBound(req.StartDate)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid start_date")
		return
	}
	end, err := parseBound(req.EndDate)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid end_date")
		return
	}

	var buf bytes.Buffer
	n, err := h.exportSvc.WriteEvaluationCSV(c.Request.Context(), &buf, start, end)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRange) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "end_date precedes start_date")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeExportFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ExportResponse{
		Success:         true,
		CSVData:         buf.String(),
		RecordCount:     n,
		ExportTimestamp: time.Now().UTC(),
	})
}

// GetStats godoc
// @ID          getStats
// @Summary     Usage statistics
// @Description Recomputes and returns the usage snapshot (total messages, evaluations, distinct users). Faculty role required.
// @Tags        Admin
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
//
// @Success     200  {object}  handlers.StatsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse  "Faculty access required"
// @Router      /admin/stats [get]
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.exportSvc.Stats(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeStatsFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, StatsResponse{Success: true, Stats: stats})
}
