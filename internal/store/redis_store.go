package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/campusmind/advising-backend/internal/config"
	"github.com/campusmind/advising-backend/internal/domain"
)

// Redis key layout. Each turn is one JSON document pushed onto the head of
// a per-user list and a global list, so index 0 is always the newest turn
// and LRANGE gives newest-first pagination for free.
const (
	userTurnsKeyFmt = "turns:user:%s"
	allTurnsKey     = "turns:all"
)

// RedisStore is the list-style backend: turns are JSON documents in Redis
// lists. Read queries that the list model cannot answer server-side
// (evaluation filtering, aggregate counts) scan the global list and filter
// client-side, matching the full-scan contract of UsageStats.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis at %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client}, nil
}

// AppendTurn pushes the turn onto the per-user and global lists. The two
// pushes run in one pipeline; a fresh UUID and UTC timestamps are assigned
// the same way the document backend does.
func (s *RedisStore) AppendTurn(ctx context.Context, turn *domain.ChatTurn) error {
	now := time.Now().UTC()
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = now
	}
	turn.CreatedAt = now

	raw, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("encode chat turn: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, fmt.Sprintf(userTurnsKeyFmt, turn.UserID), raw)
	pipe.LPush(ctx, allTurnsKey, raw)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push chat turn: %w", err)
	}
	return nil
}

// History reads limit entries from the user's list starting at offset.
// LPUSH ordering makes the range newest-first without sorting.
func (s *RedisStore) History(ctx context.Context, userID string, limit, offset int) ([]domain.ChatTurn, error) {
	if limit <= 0 {
		return []domain.ChatTurn{}, nil
	}
	key := fmt.Sprintf(userTurnsKeyFmt, userID)
	raws, err := s.client.LRange(ctx, key, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read history list: %w", err)
	}
	return decodeTurns(raws), nil
}

// Evaluations scans the global list newest-first and keeps the
// evaluation-flagged turns whose timestamp falls inside the inclusive
// bounds.
func (s *RedisStore) Evaluations(ctx context.Context, start, end *time.Time) ([]domain.ChatTurn, error) {
	raws, err := s.client.LRange(ctx, allTurnsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read turns list: %w", err)
	}

	out := make([]domain.ChatTurn, 0)
	for _, t := range decodeTurns(raws) {
		if !t.IsEvaluation {
			continue
		}
		if start != nil && t.Timestamp.Before(*start) {
			continue
		}
		if end != nil && t.Timestamp.After(*end) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// UsageStats scans the global list and counts totals, evaluations, and
// distinct users client-side.
func (s *RedisStore) UsageStats(ctx context.Context) (domain.UsageStats, error) {
	raws, err := s.client.LRange(ctx, allTurnsKey, 0, -1).Result()
	if err != nil {
		return domain.UsageStats{}, fmt.Errorf("read turns list: %w", err)
	}

	stats := domain.UsageStats{ComputedAt: time.Now().UTC()}
	users := make(map[string]struct{})
	for _, t := range decodeTurns(raws) {
		stats.TotalMessages++
		if t.IsEvaluation {
			stats.EvaluationCount++
		}
		users[t.UserID] = struct{}{}
	}
	stats.ActiveUsers = int64(len(users))
	return stats, nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// decodeTurns unmarshals list entries, skipping and logging any corrupt
// document rather than failing the whole read.
func decodeTurns(raws []string) []domain.ChatTurn {
	out := make([]domain.ChatTurn, 0, len(raws))
	for _, raw := range raws {
		var t domain.ChatTurn
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			log.Warn().Err(err).Msg("skipping corrupt chat-turn document")
			continue
		}
		out = append(out, t)
	}
	return out
}
