package reporting

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"backtest-analytics/internal/domain"
)

// RenderGroupCSV renders grouped metrics as a CSV string using the
// fixed column order. Values containing commas are quoted.
func RenderGroupCSV(groups []domain.GroupMetrics) string {
	table := ToTable(groups)

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Write(table.Columns)
	for _, row := range table.Rows {
		w.Write(row)
	}
	w.Flush()
	return sb.String()
}

// RenderSeriesCSV renders the cumulative PnL series as a CSV string.
func RenderSeriesCSV(points []domain.CumulativePnlPoint) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Write([]string{"closed_at", "trade_number", "pnl", "cumulative_pnl", "symbol", "strategy_name"})
	for _, p := range points {
		w.Write([]string{
			p.ClosedAt.Format(time.RFC3339),
			strconv.Itoa(p.TradeNumber),
			fmt.Sprintf("%.2f", p.PnL),
			fmt.Sprintf("%.2f", p.CumulativePnL),
			p.Symbol,
			p.StrategyName,
		})
	}
	w.Flush()
	return sb.String()
}
