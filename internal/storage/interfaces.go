// Package storage defines the export sinks the engine exposes data
// through. Normalized trades go to Postgres, computed aggregates to
// ClickHouse; the in-memory implementations back tests and fixture
// runs. The engine itself never reads its inputs back from here;
// these are write-mostly sinks for callers that want to keep results.
package storage

import (
	"context"
	"time"

	"backtest-analytics/internal/domain"
)

// GroupMetricsSnapshot ties exported group metrics to the dataset
// fingerprint and computation time they were produced from.
type GroupMetricsSnapshot struct {
	Fingerprint string
	ComputedAt  time.Time
	Metrics     domain.GroupMetrics
}

// TradeRecordStore provides access to normalized trade storage.
type TradeRecordStore interface {
	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error)

	// GetBySourceFile retrieves all trades from one source file, in insertion order.
	GetBySourceFile(ctx context.Context, sourceFile string) ([]*domain.TradeRecord, error)

	// GetAll retrieves all trades in insertion order.
	GetAll(ctx context.Context) ([]*domain.TradeRecord, error)
}

// GroupMetricsStore provides access to exported group-metrics
// snapshots, keyed by (fingerprint, group_key, key).
type GroupMetricsStore interface {
	// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, snapshots []GroupMetricsSnapshot) error

	// GetByFingerprint retrieves all snapshots for a dataset fingerprint.
	GetByFingerprint(ctx context.Context, fingerprint string) ([]GroupMetricsSnapshot, error)

	// GetAll retrieves all snapshots.
	GetAll(ctx context.Context) ([]GroupMetricsSnapshot, error)
}
