package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusmind/advising-backend/internal/domain"
)

// GormStore is the document-style backend: chat turns live as rows in a
// SQLite database behind GORM. It follows the "thin repository" approach:
// no business logic, only persistence and query composition. On DB errors
// the raw gorm error is propagated; translation happens in the service
// layer.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens (or creates) the SQLite database at path, applies
// PRAGMAs, and migrates the chat_turns schema.
func NewGormStore(path string) (*GormStore, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.AutoMigrate(&domain.ChatTurn{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

// NewGormStoreFromDB wraps an already-open handle. Used by tests that run
// against an in-memory database.
func NewGormStoreFromDB(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AppendTurn inserts a new chat-turn row. The record ID is a randomly
// generated UUID and CreatedAt is set to UTC; a zero Timestamp is filled
// with the creation time.
func (s *GormStore) AppendTurn(ctx context.Context, turn *domain.ChatTurn) error {
	now := time.Now().UTC()
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = now
	}
	turn.CreatedAt = now
	return s.db.WithContext(ctx).Create(turn).Error
}

// History returns a paginated slice of the user's turns, ordered by turn
// timestamp descending (most recent first). It returns an empty slice when
// the user has no turns.
func (s *GormStore) History(ctx context.Context, userID string, limit, offset int) ([]domain.ChatTurn, error) {
	var out []domain.ChatTurn
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// Evaluations returns evaluation-flagged turns ordered by timestamp
// descending. Non-nil bounds are inclusive on both ends.
func (s *GormStore) Evaluations(ctx context.Context, start, end *time.Time) ([]domain.ChatTurn, error) {
	q := s.db.WithContext(ctx).
		Where("is_evaluation = ?", true).
		Order("timestamp desc")
	if start != nil {
		q = q.Where("timestamp >= ?", *start)
	}
	if end != nil {
		q = q.Where("timestamp <= ?", *end)
	}
	var out []domain.ChatTurn
	err := q.Find(&out).Error
	return out, err
}

// UsageStats aggregates the whole table: total turns, evaluation-flagged
// turns, and distinct users. Computed on demand, never maintained
// incrementally.
func (s *GormStore) UsageStats(ctx context.Context) (domain.UsageStats, error) {
	var stats domain.UsageStats

	if err := s.db.WithContext(ctx).
		Model(&domain.ChatTurn{}).
		Count(&stats.TotalMessages).Error; err != nil {
		return domain.UsageStats{}, err
	}
	if err := s.db.WithContext(ctx).
		Model(&domain.ChatTurn{}).
		Where("is_evaluation = ?", true).
		Count(&stats.EvaluationCount).Error; err != nil {
		return domain.UsageStats{}, err
	}
	if err := s.db.WithContext(ctx).
		Model(&domain.ChatTurn{}).
		Distinct("user_id").
		Count(&stats.ActiveUsers).Error; err != nil {
		return domain.UsageStats{}, err
	}

	stats.ComputedAt = time.Now().UTC()
	return stats, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
