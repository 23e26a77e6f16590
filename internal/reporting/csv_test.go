package reporting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backtest-analytics/internal/domain"
)

func TestRenderGroupCSV(t *testing.T) {
	out := RenderGroupCSV(sampleGroups())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "key,trades_count,total_pnl,"))
	assert.True(t, strings.HasPrefix(lines[1], "breakout,2,20.00,"))
	assert.True(t, strings.HasPrefix(lines[2], "meanrev,1,-4.00,"))
}

func TestRenderSeriesCSV(t *testing.T) {
	closed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	out := RenderSeriesCSV([]domain.CumulativePnlPoint{
		{ClosedAt: closed, TradeNumber: 1, PnL: 5, CumulativePnL: 5, Symbol: "BTCUSDT", StrategyName: "breakout"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "closed_at,trade_number,pnl,cumulative_pnl,symbol,strategy_name", lines[0])
	assert.Equal(t, "2024-03-01T12:00:00Z,1,5.00,5.00,BTCUSDT,breakout", lines[1])
}

func TestRenderGroupCSV_QuotesCommaValues(t *testing.T) {
	groups := []domain.GroupMetrics{{
		GroupKey: domain.GroupByStrategy,
		Key:      "grid,v2",
		Summary:  domain.MetricsSummary{TradeCount: 1, TotalPnL: 3},
	}}

	out := RenderGroupCSV(groups)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], `"grid,v2",1,3.00,`))
}

func TestRenderSeriesCSV_QuotesCommaValues(t *testing.T) {
	closed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	out := RenderSeriesCSV([]domain.CumulativePnlPoint{
		{ClosedAt: closed, TradeNumber: 1, PnL: 5, CumulativePnL: 5, Symbol: "BTC,USDT", StrategyName: "breakout"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `2024-03-01T12:00:00Z,1,5.00,5.00,"BTC,USDT",breakout`, lines[1])
}

func TestRenderSeriesCSV_Empty(t *testing.T) {
	out := RenderSeriesCSV(nil)
	assert.Equal(t, "closed_at,trade_number,pnl,cumulative_pnl,symbol,strategy_name\n", out)
}
