package domain

import "time"

// TradeType identifies the direction of a closed position.
type TradeType string

// Trade direction constants as they appear in source files.
const (
	TradeTypeLong  TradeType = "long"
	TradeTypeShort TradeType = "short"
)

// TradeRecord represents one closed backtest trade after normalization.
// Records are immutable once built; filtering copies references into a
// new view and never touches the record itself.
type TradeRecord struct {
	TradeID      string    // deterministic hash
	Symbol       string    // instrument, e.g. "BTCUSDT"
	StrategyName string    // strategy label from the source file
	TradeType    TradeType // long | short

	// Execution
	EntryPrice       float64
	ExitPrice        float64
	PnL              float64 // quote-currency units, signed
	PnLPercentage    float64
	Fee              float64 // non-negative
	HoldingPeriodSec int64   // seconds the position was open

	// Timing (UTC, converted from millisecond epoch)
	OpenedAt time.Time
	ClosedAt time.Time

	// Provenance
	SourceFile           string
	ConsideredTimeframes []string // file-level, may be empty

	// Seq is the insertion order assigned by the normalizer
	// (file-processing order, then per-file order). Used as the stable
	// tie-break for order-dependent computations.
	Seq int
}

// IsProfitable reports whether the trade closed with positive PnL.
func (t *TradeRecord) IsProfitable() bool {
	return t.PnL > 0
}

// IsLong reports whether the trade was a long position.
func (t *TradeRecord) IsLong() bool {
	return t.TradeType == TradeTypeLong
}

// DurationHours returns the holding period in hours.
func (t *TradeRecord) DurationHours() float64 {
	return float64(t.HoldingPeriodSec) / 3600
}
