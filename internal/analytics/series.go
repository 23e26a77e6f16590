package analytics

import (
	"sort"

	"backtest-analytics/internal/domain"
)

// CumulativeSeries builds the cumulative PnL series: trades stable-
// sorted by ClosedAt ascending (ties broken by insertion order), each
// assigned a 1-based sequence index and the running PnL sum.
// Deterministic and idempotent: recomputing on unchanged input yields
// an identical sequence.
func CumulativeSeries(trades []*domain.TradeRecord) []domain.CumulativePnlPoint {
	if len(trades) == 0 {
		return nil
	}

	sorted := make([]*domain.TradeRecord, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].ClosedAt.Equal(sorted[j].ClosedAt) {
			return sorted[i].ClosedAt.Before(sorted[j].ClosedAt)
		}
		return sorted[i].Seq < sorted[j].Seq
	})

	points := make([]domain.CumulativePnlPoint, len(sorted))
	cumulative := 0.0
	for i, t := range sorted {
		cumulative += t.PnL
		points[i] = domain.CumulativePnlPoint{
			ClosedAt:      t.ClosedAt,
			TradeNumber:   i + 1,
			PnL:           t.PnL,
			CumulativePnL: cumulative,
			Symbol:        t.Symbol,
			StrategyName:  t.StrategyName,
		}
	}

	return points
}
