package dataset

import (
	"testing"
	"time"

	"backtest-analytics/internal/domain"
)

func sampleTrades() []*domain.TradeRecord {
	return []*domain.TradeRecord{
		{Symbol: "ETHUSDT", StrategyName: "meanrev", OpenedAt: day(2024, 3, 5), Seq: 0},
		{Symbol: "BTCUSDT", StrategyName: "breakout", OpenedAt: day(2024, 3, 1), Seq: 1},
		{Symbol: "ETHUSDT", StrategyName: "breakout", OpenedAt: day(2024, 3, 9), Seq: 2},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestDataset_DistinctValuesSorted(t *testing.T) {
	ds := New(sampleTrades(), "fp")

	symbols := ds.Symbols()
	if len(symbols) != 2 || symbols[0] != "BTCUSDT" || symbols[1] != "ETHUSDT" {
		t.Errorf("expected sorted distinct symbols [BTCUSDT ETHUSDT], got %v", symbols)
	}

	strategies := ds.Strategies()
	if len(strategies) != 2 || strategies[0] != "breakout" || strategies[1] != "meanrev" {
		t.Errorf("expected sorted distinct strategies [breakout meanrev], got %v", strategies)
	}
}

func TestDataset_DateRange(t *testing.T) {
	ds := New(sampleTrades(), "fp")

	minDate, maxDate, ok := ds.DateRange()
	if !ok {
		t.Fatal("expected ok=true for non-empty dataset")
	}
	if !minDate.Equal(day(2024, 3, 1)) {
		t.Errorf("expected min %v, got %v", day(2024, 3, 1), minDate)
	}
	if !maxDate.Equal(day(2024, 3, 9)) {
		t.Errorf("expected max %v, got %v", day(2024, 3, 9), maxDate)
	}
}

func TestDataset_Empty(t *testing.T) {
	ds := New(nil, "fp")

	if ds.Len() != 0 {
		t.Errorf("expected Len 0, got %d", ds.Len())
	}
	if _, _, ok := ds.DateRange(); ok {
		t.Error("expected ok=false for empty dataset")
	}
	if s := ds.Symbols(); len(s) != 0 {
		t.Errorf("expected no symbols, got %v", s)
	}
}

func TestDataset_FingerprintCarried(t *testing.T) {
	ds := New(sampleTrades(), "abc123")

	if ds.Fingerprint() != "abc123" {
		t.Errorf("expected fingerprint abc123, got %s", ds.Fingerprint())
	}
}
