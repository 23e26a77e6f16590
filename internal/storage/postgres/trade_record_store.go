package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"backtest-analytics/internal/domain"
	"backtest-analytics/internal/storage"
)

// TradeRecordStore implements storage.TradeRecordStore using PostgreSQL.
type TradeRecordStore struct {
	pool *Pool
}

// NewTradeRecordStore creates a new TradeRecordStore.
func NewTradeRecordStore(pool *Pool) *TradeRecordStore {
	return &TradeRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)

const tradeColumns = `
	trade_id, symbol, strategy_name, trade_type,
	entry_price, exit_price, pnl, pnl_percentage, fee,
	holding_period_sec, opened_at, closed_at,
	source_file, considered_timeframes, seq
`

const insertTradeQuery = `
	INSERT INTO trade_records (
		trade_id, symbol, strategy_name, trade_type,
		entry_price, exit_price, pnl, pnl_percentage, fee,
		holding_period_sec, opened_at, closed_at,
		source_file, considered_timeframes, seq
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8, $9,
		$10, $11, $12,
		$13, $14, $15
	)
`

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeRecordStore) InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		_, err := tx.Exec(ctx, insertTradeQuery,
			t.TradeID, t.Symbol, t.StrategyName, string(t.TradeType),
			t.EntryPrice, t.ExitPrice, t.PnL, t.PnLPercentage, t.Fee,
			t.HoldingPeriodSec, t.OpenedAt, t.ClosedAt,
			t.SourceFile, t.ConsideredTimeframes, t.Seq,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeRecordStore) GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error) {
	query := `SELECT ` + tradeColumns + ` FROM trade_records WHERE trade_id = $1`

	row := s.pool.QueryRow(ctx, query, tradeID)
	t, err := scanTradeRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade record by id: %w", err)
	}
	return t, nil
}

// GetBySourceFile retrieves all trades from one source file, in insertion order.
func (s *TradeRecordStore) GetBySourceFile(ctx context.Context, sourceFile string) ([]*domain.TradeRecord, error) {
	query := `SELECT ` + tradeColumns + ` FROM trade_records WHERE source_file = $1 ORDER BY seq ASC`

	rows, err := s.pool.Query(ctx, query, sourceFile)
	if err != nil {
		return nil, fmt.Errorf("get trade records by source file: %w", err)
	}
	defer rows.Close()

	return scanTradeRecords(rows)
}

// GetAll retrieves all trades in insertion order.
func (s *TradeRecordStore) GetAll(ctx context.Context) ([]*domain.TradeRecord, error) {
	query := `SELECT ` + tradeColumns + ` FROM trade_records ORDER BY seq ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all trade records: %w", err)
	}
	defer rows.Close()

	return scanTradeRecords(rows)
}

// scanTradeRecord scans a single row into a TradeRecord.
func scanTradeRecord(row pgx.Row) (*domain.TradeRecord, error) {
	var t domain.TradeRecord
	var tradeType string

	err := row.Scan(
		&t.TradeID, &t.Symbol, &t.StrategyName, &tradeType,
		&t.EntryPrice, &t.ExitPrice, &t.PnL, &t.PnLPercentage, &t.Fee,
		&t.HoldingPeriodSec, &t.OpenedAt, &t.ClosedAt,
		&t.SourceFile, &t.ConsideredTimeframes, &t.Seq,
	)
	if err != nil {
		return nil, err
	}

	t.TradeType = domain.TradeType(tradeType)
	t.OpenedAt = t.OpenedAt.UTC()
	t.ClosedAt = t.ClosedAt.UTC()
	return &t, nil
}

// scanTradeRecords scans multiple rows into a slice of TradeRecord.
func scanTradeRecords(rows pgx.Rows) ([]*domain.TradeRecord, error) {
	var trades []*domain.TradeRecord

	for rows.Next() {
		t, err := scanTradeRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade record row: %w", err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade record rows: %w", err)
	}

	return trades, nil
}
