package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backtest-analytics/internal/domain"
	"backtest-analytics/internal/storage"
	"backtest-analytics/internal/storage/postgres"
)

func testTrade(id, sourceFile string, seq int) *domain.TradeRecord {
	opened := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return &domain.TradeRecord{
		TradeID:              id,
		Symbol:               "BTCUSDT",
		StrategyName:         "breakout",
		TradeType:            domain.TradeTypeLong,
		EntryPrice:           62000.5,
		ExitPrice:            63100.0,
		PnL:                  1099.5,
		PnLPercentage:        1.77,
		Fee:                  12.4,
		HoldingPeriodSec:     5400,
		OpenedAt:             opened,
		ClosedAt:             opened.Add(90 * time.Minute),
		SourceFile:           sourceFile,
		ConsideredTimeframes: []string{"1h", "4h"},
		Seq:                  seq,
	}
}

func TestTradeRecordStore_RoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewTradeRecordStore(pool)
	ctx := context.Background()

	want := testTrade("t1", "a.json", 0)
	require.NoError(t, store.InsertBulk(ctx, []*domain.TradeRecord{want}))

	got, err := store.GetByID(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, want.Symbol, got.Symbol)
	assert.Equal(t, want.StrategyName, got.StrategyName)
	assert.Equal(t, want.TradeType, got.TradeType)
	assert.Equal(t, want.PnL, got.PnL)
	assert.Equal(t, want.HoldingPeriodSec, got.HoldingPeriodSec)
	assert.True(t, want.OpenedAt.Equal(got.OpenedAt), "OpenedAt mismatch: %v vs %v", want.OpenedAt, got.OpenedAt)
	assert.True(t, want.ClosedAt.Equal(got.ClosedAt), "ClosedAt mismatch: %v vs %v", want.ClosedAt, got.ClosedAt)
	assert.Equal(t, want.ConsideredTimeframes, got.ConsideredTimeframes)
	assert.Equal(t, want.Seq, got.Seq)
}

func TestTradeRecordStore_DuplicateRollsBackBatch(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewTradeRecordStore(pool)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.TradeRecord{testTrade("t1", "a.json", 0)}))

	err := store.InsertBulk(ctx, []*domain.TradeRecord{
		testTrade("t2", "a.json", 1),
		testTrade("t1", "a.json", 2),
	})
	require.ErrorIs(t, err, storage.ErrDuplicateKey)

	_, err = store.GetByID(ctx, "t2")
	assert.ErrorIs(t, err, storage.ErrNotFound, "failed batch must leave no rows behind")
}

func TestTradeRecordStore_GetBySourceFile(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewTradeRecordStore(pool)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.TradeRecord{
		testTrade("t1", "a.json", 0),
		testTrade("t2", "a.json", 1),
		testTrade("t3", "b.json", 2),
	}))

	fromA, err := store.GetBySourceFile(ctx, "a.json")
	require.NoError(t, err)
	require.Len(t, fromA, 2)
	assert.Equal(t, "t1", fromA[0].TradeID)
	assert.Equal(t, "t2", fromA[1].TradeID)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTradeRecordStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewTradeRecordStore(pool)

	_, err := store.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
