package reporting

import (
	"fmt"
	"math"

	"backtest-analytics/internal/domain"
)

// groupColumns is the fixed column order for grouped-metrics tables.
var groupColumns = []string{
	"key",
	"trades_count",
	"total_pnl",
	"avg_pnl",
	"median_pnl",
	"std_pnl",
	"win_rate",
	"profit_factor",
	"expected_value",
	"max_profit",
	"max_loss",
	"gross_profit",
	"gross_loss",
	"reward_variability",
	"total_fees",
	"avg_fee",
	"median_fee",
	"avg_holding_hours",
	"median_holding_hours",
}

// ToTable converts grouped metrics into ordered rows with the fixed
// column order above. Row order follows the input slice.
func ToTable(groups []domain.GroupMetrics) Table {
	rows := make([][]string, len(groups))
	for i, g := range groups {
		m := g.Summary
		rows[i] = []string{
			g.Key,
			fmt.Sprintf("%d", m.TradeCount),
			formatPnL(m.TotalPnL),
			formatRatio(m.AvgPnL),
			formatRatio(m.MedianPnL),
			formatRatio(m.StdPnL),
			formatPnL(m.WinRate),
			formatProfitFactor(m.ProfitFactor),
			formatRatio(m.ExpectedValue),
			formatPnL(m.MaxProfit),
			formatPnL(m.MaxLoss),
			formatPnL(m.GrossProfit),
			formatPnL(m.GrossLoss),
			formatRatio(m.RewardVariability),
			formatPnL(g.TotalFees),
			formatRatio(g.AvgFee),
			formatRatio(g.MedianFee),
			formatRatio(g.AvgHoldingHours),
			formatRatio(g.MedianHoldingHours),
		}
	}
	return Table{Columns: groupColumns, Rows: rows}
}

// ToSeries converts a cumulative PnL series into x/y coordinate pairs
// (close time, cumulative PnL).
func ToSeries(points []domain.CumulativePnlPoint) []XYPoint {
	pairs := make([]XYPoint, len(points))
	for i, p := range points {
		pairs[i] = XYPoint{X: p.ClosedAt, Y: p.CumulativePnL}
	}
	return pairs
}

// formatPnL renders PnL-scale values (2 decimals).
func formatPnL(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// formatRatio renders percentage/ratio-scale values (4 decimals).
func formatRatio(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// formatProfitFactor renders the profit factor, keeping the documented
// +Inf edge case readable.
func formatProfitFactor(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", v)
}
