package clickhouse

import (
	"context"
	"fmt"

	"backtest-analytics/internal/domain"
	"backtest-analytics/internal/storage"
)

// GroupMetricsStore implements storage.GroupMetricsStore using ClickHouse.
type GroupMetricsStore struct {
	conn *Conn
}

// NewGroupMetricsStore creates a new GroupMetricsStore.
func NewGroupMetricsStore(conn *Conn) *GroupMetricsStore {
	return &GroupMetricsStore{conn: conn}
}

// Compile-time interface check.
var _ storage.GroupMetricsStore = (*GroupMetricsStore)(nil)

const snapshotColumns = `
	fingerprint, computed_at, group_key, key,
	trades_count, total_pnl, avg_pnl, median_pnl, std_pnl,
	win_rate, profit_factor, expected_value,
	max_profit, max_loss, gross_profit, gross_loss, reward_variability,
	total_fees, avg_fee, median_fee, avg_holding_hours, median_holding_hours
`

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
// ClickHouse MergeTree does not enforce uniqueness, so duplicates are
// checked explicitly before the batch is sent.
func (s *GroupMetricsStore) InsertBulk(ctx context.Context, snapshots []storage.GroupMetricsSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{})
	for _, snap := range snapshots {
		key := snap.Fingerprint + "|" + string(snap.Metrics.GroupKey) + "|" + snap.Metrics.Key
		if _, exists := seen[key]; exists {
			return storage.ErrDuplicateKey
		}
		seen[key] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, snap := range snapshots {
		exists, err := s.exists(ctx, snap.Fingerprint, string(snap.Metrics.GroupKey), snap.Metrics.Key)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO group_metrics_snapshots (`+snapshotColumns+`)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snapshots {
		m := snap.Metrics
		err = batch.Append(
			snap.Fingerprint, snap.ComputedAt, string(m.GroupKey), m.Key,
			int64(m.Summary.TradeCount), m.Summary.TotalPnL, m.Summary.AvgPnL, m.Summary.MedianPnL, m.Summary.StdPnL,
			m.Summary.WinRate, m.Summary.ProfitFactor, m.Summary.ExpectedValue,
			m.Summary.MaxProfit, m.Summary.MaxLoss, m.Summary.GrossProfit, m.Summary.GrossLoss, m.Summary.RewardVariability,
			m.TotalFees, m.AvgFee, m.MedianFee, m.AvgHoldingHours, m.MedianHoldingHours,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByFingerprint retrieves all snapshots for a dataset fingerprint.
func (s *GroupMetricsStore) GetByFingerprint(ctx context.Context, fingerprint string) ([]storage.GroupMetricsSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM group_metrics_snapshots FINAL
		WHERE fingerprint = ?
		ORDER BY group_key ASC, key ASC
	`

	rows, err := s.conn.Query(ctx, query, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("query by fingerprint: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// GetAll retrieves all snapshots.
func (s *GroupMetricsStore) GetAll(ctx context.Context) ([]storage.GroupMetricsSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM group_metrics_snapshots FINAL
		ORDER BY fingerprint ASC, group_key ASC, key ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// exists checks if a snapshot with the given key exists.
func (s *GroupMetricsStore) exists(ctx context.Context, fingerprint, groupKey, key string) (bool, error) {
	query := `
		SELECT count(*) FROM group_metrics_snapshots FINAL
		WHERE fingerprint = ? AND group_key = ? AND key = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, fingerprint, groupKey, key).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanSnapshots scans multiple rows into a slice.
func scanSnapshots(rows chRows) ([]storage.GroupMetricsSnapshot, error) {
	var snapshots []storage.GroupMetricsSnapshot

	for rows.Next() {
		var snap storage.GroupMetricsSnapshot
		var groupKey string
		var tradeCount int64

		err := rows.Scan(
			&snap.Fingerprint, &snap.ComputedAt, &groupKey, &snap.Metrics.Key,
			&tradeCount, &snap.Metrics.Summary.TotalPnL, &snap.Metrics.Summary.AvgPnL, &snap.Metrics.Summary.MedianPnL, &snap.Metrics.Summary.StdPnL,
			&snap.Metrics.Summary.WinRate, &snap.Metrics.Summary.ProfitFactor, &snap.Metrics.Summary.ExpectedValue,
			&snap.Metrics.Summary.MaxProfit, &snap.Metrics.Summary.MaxLoss, &snap.Metrics.Summary.GrossProfit, &snap.Metrics.Summary.GrossLoss, &snap.Metrics.Summary.RewardVariability,
			&snap.Metrics.TotalFees, &snap.Metrics.AvgFee, &snap.Metrics.MedianFee, &snap.Metrics.AvgHoldingHours, &snap.Metrics.MedianHoldingHours,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		snap.Metrics.GroupKey = domain.GroupKey(groupKey)
		snap.Metrics.Summary.TradeCount = int(tradeCount)
		snap.ComputedAt = snap.ComputedAt.UTC()
		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snapshots, nil
}
