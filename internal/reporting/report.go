// Package reporting converts analytics outputs into display-ready
// structures and rendered report files. It performs shape conversion
// and display rounding only; all computation lives in analytics.
package reporting

import (
	"time"

	"backtest-analytics/internal/domain"
)

// Report is the complete generated report structure.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	DataDir     string
	Fingerprint string // base58 content fingerprint of the load
	Warnings    []string

	// Data Summary
	DataSummary DataSummary

	// Overall metrics (display-rounded)
	Overall domain.MetricsSummary

	// Grouped metrics (display-rounded, sorted by key)
	StrategyMetrics []domain.GroupMetrics
	SymbolMetrics   []domain.GroupMetrics

	// Top strategies by total PnL (caller-side ranking)
	TopStrategies []domain.GroupMetrics

	// Cumulative PnL series
	Series []domain.CumulativePnlPoint
}

// DataSummary describes the analyzed dataset.
type DataSummary struct {
	TotalTrades    int
	SymbolCount    int
	StrategyCount  int
	LongTrades     int
	ShortTrades    int
	DateRangeStart time.Time
	DateRangeEnd   time.Time
}

// Table is an ordered set of rows with a fixed column order, ready for
// an external renderer.
type Table struct {
	Columns []string
	Rows    [][]string
}

// XYPoint is one coordinate pair of a rendered series.
type XYPoint struct {
	X time.Time
	Y float64
}
