package store

import (
	"context"
	"testing"

	"github.com/campusmind/advising-backend/internal/domain"
)

func TestCannedStore_AppendIsNoOpSuccess(t *testing.T) {
	s := NewCannedStore()

	turn := domain.ChatTurn{ChatID: "c1", UserID: "u1", UserMessage: "hi", AIResponse: "hello"}
	if err := s.AppendTurn(context.Background(), &turn); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if turn.ID == "" || turn.Timestamp.IsZero() {
		t.Fatalf("append should still stamp the turn: %+v", turn)
	}

	// Appended turns are not retained.
	got, err := s.History(context.Background(), "u1", 10, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected the 2 fixed sample turns, got %d", len(got))
	}
}

func TestCannedStore_HistoryPagination(t *testing.T) {
	s := NewCannedStore()

	got, err := s.History(context.Background(), "anyone", 1, 1)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 1 || got[0].ChatID != "chat_002" {
		t.Fatalf("unexpected page: %+v", got)
	}

	got, err = s.History(context.Background(), "anyone", 5, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("offset past end should yield empty slice, got %d", len(got))
	}
}

func TestCannedStore_FixedStats(t *testing.T) {
	s := NewCannedStore()

	stats, err := s.UsageStats(context.Background())
	if err != nil {
		t.Fatalf("UsageStats: %v", err)
	}
	if stats.TotalMessages != 156 || stats.EvaluationCount != 45 || stats.ActiveUsers != 23 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.ComputedAt.IsZero() {
		t.Fatal("ComputedAt not set")
	}
}

func TestCannedStore_Evaluations(t *testing.T) {
	s := NewCannedStore()

	got, err := s.Evaluations(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Evaluations: %v", err)
	}
	if len(got) != 1 || !got[0].IsEvaluation {
		t.Fatalf("expected the single sample evaluation, got %+v", got)
	}
}
