package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campusmind/advising-backend/internal/domain"
)

// CannedStore is the disconnected backend used in mock mode. Reads answer
// from fixed sample data and appends succeed without storing anything, so
// the whole system runs with no external services or credentials.
type CannedStore struct {
	history     []domain.ChatTurn
	evaluations []domain.ChatTurn
}

// NewCannedStore builds the store with its fixed sample transcript.
func NewCannedStore() *CannedStore {
	t1 := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 14, 14, 20, 0, 0, time.UTC)

	evalTurn := domain.ChatTurn{
		ID:           uuid.NewString(),
		ChatID:       "chat_001",
		UserID:       "student001",
		UserMessage:  "Through the group work in the peer support class, I learned how important it is to really listen to the other person.",
		AIResponse:   "[Competency Evaluation Results]\n\n◆ Empathy ★★★★☆ (4/5)\n◆ Teamwork ★★★★☆ (4/5)\n\n[Summary]\nThe listening experience in group work has given you a deep appreciation of understanding others.",
		IsEvaluation: true,
		Timestamp:    t1,
		CreatedAt:    t1,
	}
	generalTurn := domain.ChatTurn{
		ID:           uuid.NewString(),
		ChatID:       "chat_002",
		UserID:       "student001",
		UserMessage:  "In today's role play I tried the advisee role for the first time and felt how hard it is to open up.",
		AIResponse:   "A new perspective from role play is an important step in growing as a supporter. What did you find especially difficult?",
		IsEvaluation: false,
		Timestamp:    t2,
		CreatedAt:    t2,
	}

	return &CannedStore{
		history:     []domain.ChatTurn{evalTurn, generalTurn},
		evaluations: []domain.ChatTurn{evalTurn},
	}
}

// AppendTurn is a no-op success; nothing is retained.
func (s *CannedStore) AppendTurn(_ context.Context, turn *domain.ChatTurn) error {
	now := time.Now().UTC()
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = now
	}
	turn.CreatedAt = now
	return nil
}

// History slices the fixed sample transcript, ignoring the requesting user.
func (s *CannedStore) History(_ context.Context, _ string, limit, offset int) ([]domain.ChatTurn, error) {
	if offset >= len(s.history) || limit <= 0 {
		return []domain.ChatTurn{}, nil
	}
	end := offset + limit
	if end > len(s.history) {
		end = len(s.history)
	}
	out := make([]domain.ChatTurn, end-offset)
	copy(out, s.history[offset:end])
	return out, nil
}

// Evaluations returns the fixed sample evaluations regardless of bounds.
func (s *CannedStore) Evaluations(_ context.Context, _, _ *time.Time) ([]domain.ChatTurn, error) {
	out := make([]domain.ChatTurn, len(s.evaluations))
	copy(out, s.evaluations)
	return out, nil
}

// UsageStats returns fixed sample totals with a fresh computed-at stamp.
func (s *CannedStore) UsageStats(_ context.Context) (domain.UsageStats, error) {
	return domain.UsageStats{
		TotalMessages:   156,
		EvaluationCount: 45,
		ActiveUsers:     23,
		ComputedAt:      time.Now().UTC(),
	}, nil
}

// Close has nothing to release.
func (s *CannedStore) Close() error { return nil }
