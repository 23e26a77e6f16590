package domain

import (
	"encoding/json"
	"math"
	"time"
)

// GroupKey selects the dimension for grouped metrics.
type GroupKey string

// Grouping dimensions.
const (
	GroupByStrategy GroupKey = "strategy_name"
	GroupBySymbol   GroupKey = "symbol"
)

// MetricsSummary holds the scalar statistics for one set of trades.
// Produced fresh on every computation; values are unrounded, rounding
// happens only at the output boundary.
//
// Edge-case policy (fixed, not an approximation):
//   - WinRate is 0 when TradeCount is 0.
//   - StdPnL is 0 when TradeCount < 2 (sample stddev undefined).
//   - ProfitFactor is GrossProfit/GrossLoss when GrossLoss > 0, +Inf
//     when GrossLoss == 0 and GrossProfit > 0, otherwise 0.
//   - RewardVariability is AvgPnL/StdPnL when StdPnL > 0, otherwise 0.
//     It is a per-trade ratio, not an annualized Sharpe ratio.
type MetricsSummary struct {
	TradeCount int `json:"trades_count"`

	TotalPnL  float64 `json:"total_pnl"`
	AvgPnL    float64 `json:"avg_pnl"`
	MedianPnL float64 `json:"median_pnl"`
	StdPnL    float64 `json:"std_pnl"` // sample standard deviation (n-1)

	WinRate       float64 `json:"win_rate"`       // percent, [0, 100]
	ProfitFactor  float64 `json:"profit_factor"`  // may be +Inf
	ExpectedValue float64 `json:"expected_value"` // mean PnL per trade (== AvgPnL by contract)

	MaxProfit float64 `json:"max_profit"` // max single-trade PnL, 0 when empty
	MaxLoss   float64 `json:"max_loss"`   // min single-trade PnL, 0 when empty

	GrossProfit float64 `json:"gross_profit"`
	GrossLoss   float64 `json:"gross_loss"` // absolute value of summed losses

	RewardVariability float64 `json:"reward_variability"` // AvgPnL / StdPnL, not annualized
}

// MarshalJSON encodes a non-finite profit factor as the string "inf",
// since JSON has no representation for infinity.
func (s MetricsSummary) MarshalJSON() ([]byte, error) {
	type alias MetricsSummary
	aux := struct {
		alias
		ProfitFactor any `json:"profit_factor"`
	}{alias: alias(s), ProfitFactor: s.ProfitFactor}
	if math.IsInf(s.ProfitFactor, 1) {
		aux.ProfitFactor = "inf"
	}
	return json.Marshal(aux)
}

// GroupMetrics is a MetricsSummary for one distinct grouping value,
// plus the fee and holding statistics computed per partition.
type GroupMetrics struct {
	GroupKey GroupKey `json:"group_key"` // dimension the partition was built on
	Key      string   `json:"key"`       // the distinct strategy_name or symbol value

	Summary MetricsSummary `json:"summary"`

	TotalFees float64 `json:"total_fees"`
	AvgFee    float64 `json:"avg_fee"`
	MedianFee float64 `json:"median_fee"`

	AvgHoldingHours    float64 `json:"avg_holding_hours"`
	MedianHoldingHours float64 `json:"median_holding_hours"`
}

// CumulativePnlPoint is one step of the cumulative PnL series, ordered
// by close time ascending with insertion order as the tie-break.
type CumulativePnlPoint struct {
	ClosedAt      time.Time `json:"closed_at"`
	TradeNumber   int       `json:"trade_number"` // 1-based sequence index
	PnL           float64   `json:"pnl"`
	CumulativePnL float64   `json:"cumulative_pnl"`
	Symbol        string    `json:"symbol"`
	StrategyName  string    `json:"strategy_name"`
}
