// Package store implements the transcript persistence gateway. One Store
// interface covers the capability set (append a turn, read a user's history,
// read evaluation-flagged turns, compute usage statistics); three backends
// satisfy it: a GORM/SQLite record store, a Redis list store, and a canned
// in-process store for disconnected operation. The backend is selected once
// at startup and never switched at runtime.
package store

import (
	"context"
	"time"

	"github.com/campusmind/advising-backend/internal/config"
	"github.com/campusmind/advising-backend/internal/domain"
)

// Store is the persistence gateway contract. All methods are context-aware
// and safe for concurrent use.
type Store interface {
	// AppendTurn persists one chat turn, assigning a fresh record id and a
	// server-set UTC creation timestamp.
	AppendTurn(ctx context.Context, turn *domain.ChatTurn) error

	// History returns at most limit turns for userID, newest first,
	// starting after offset entries.
	History(ctx context.Context, userID string, limit, offset int) ([]domain.ChatTurn, error)

	// Evaluations returns evaluation-flagged turns, newest first. A non-nil
	// bound filters inclusively on the turn timestamp.
	Evaluations(ctx context.Context, start, end *time.Time) ([]domain.ChatTurn, error)

	// UsageStats aggregates totals over the whole store by full scan.
	UsageStats(ctx context.Context) (domain.UsageStats, error)

	// Close releases the backend connection.
	Close() error
}

// Open selects and connects the backend named by the configuration. Mock
// mode short-circuits to the canned store without contacting anything.
func Open(cfg config.Config) (Store, error) {
	if cfg.MockMode {
		return NewCannedStore(), nil
	}
	switch cfg.StoreBackend {
	case config.StoreList:
		return NewRedisStore(cfg.Redis)
	default:
		return NewGormStore(cfg.DBPath)
	}
}
