// Package services – ExportService
//
// This file implements the faculty reporting views: a CSV export of
// evaluation-flagged turns and the on-demand usage statistics snapshot.
// Exported rows carry the stored field values verbatim; no transformation
// beyond timestamp rendering is applied.
package services

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/campusmind/advising-backend/internal/domain"
	"github.com/campusmind/advising-backend/internal/store"
)

// csvHeader is the fixed first row of every evaluation export.
var csvHeader = []string{"timestamp", "student id", "chat id", "input text", "AI evaluation text"}

// ExportService serves the faculty-only export and statistics endpoints.
type ExportService struct {
	// Store is the persistence gateway queried for evaluations and totals.
	Store store.Store
}

// NewExportService constructs an ExportService over the given gateway.
func NewExportService(st store.Store) *ExportService {
	return &ExportService{Store: st}
}

// WriteEvaluationCSV streams the evaluation export to w: the fixed header
// row followed by one row per evaluation-flagged turn, newest first. It
// returns the number of data rows written. Non-nil bounds filter inclusively
// on the turn timestamp; an inverted range is rejected with ErrInvalidRange
// before any store access.
func (s *ExportService) WriteEvaluationCSV(ctx context.Context, w io.Writer, start, end *time.Time) (int, error) {
	tr := otel.Tracer("services/ExportService")
	ctx, span := tr.Start(ctx, "WriteEvaluationCSV",
		trace.WithAttributes(
			attribute.Bool("export.bounded_start", start != nil),
			attribute.Bool("export.bounded_end", end != nil),
		),
	)
	defer span.End()

	if start != nil && end != nil && end.Before(*start) {
		return 0, ErrInvalidRange
	}

	turns, err := s.Store.Evaluations(ctx, start, end)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}
	for _, t := range turns {
		row := []string{
			t.Timestamp.UTC().Format(time.RFC3339),
			t.UserID,
			t.ChatID,
			t.UserMessage,
			t.AIResponse,
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	return len(turns), nil
}

// Stats recomputes the usage snapshot by full scan.
func (s *ExportService) Stats(ctx context.Context) (domain.UsageStats, error) {
	tr := otel.Tracer("services/ExportService")
	ctx, span := tr.Start(ctx, "Stats")
	defer span.End()

	return s.Store.UsageStats(ctx)
}
