package analytics

import (
	"sort"

	"backtest-analytics/internal/domain"
)

// GroupBy partitions trades by the grouping key and applies the full
// scalar contract to each partition, plus partition-level fee and
// holding-period statistics. Every distinct key value present in the
// input appears exactly once; no keys are merged or dropped.
//
// Results are sorted by key for deterministic output. Ranking (e.g.
// "top N by total PnL") is the caller's concern.
func GroupBy(trades []*domain.TradeRecord, key domain.GroupKey) []domain.GroupMetrics {
	if len(trades) == 0 {
		return nil
	}

	partitions := make(map[string][]*domain.TradeRecord)
	for _, t := range trades {
		k := groupValue(t, key)
		partitions[k] = append(partitions[k], t)
	}

	keys := make([]string, 0, len(partitions))
	for k := range partitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]domain.GroupMetrics, 0, len(keys))
	for _, k := range keys {
		part := partitions[k]

		fees := make([]float64, len(part))
		holdingHours := make([]float64, len(part))
		for i, t := range part {
			fees[i] = t.Fee
			holdingHours[i] = t.DurationHours()
		}

		groups = append(groups, domain.GroupMetrics{
			GroupKey: key,
			Key:      k,
			Summary:  Summarize(part),

			TotalFees: computeSum(fees),
			AvgFee:    computeMean(fees),
			MedianFee: computeMedian(fees),

			AvgHoldingHours:    computeMean(holdingHours),
			MedianHoldingHours: computeMedian(holdingHours),
		})
	}

	return groups
}

func groupValue(t *domain.TradeRecord, key domain.GroupKey) string {
	if key == domain.GroupBySymbol {
		return t.Symbol
	}
	return t.StrategyName
}

// TopByTotalPnL returns the n groups with the highest total PnL,
// descending. A caller-side ranking helper; the grouping contract
// itself stays unordered.
func TopByTotalPnL(groups []domain.GroupMetrics, n int) []domain.GroupMetrics {
	if n <= 0 || len(groups) == 0 {
		return nil
	}

	ranked := make([]domain.GroupMetrics, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Summary.TotalPnL > ranked[j].Summary.TotalPnL
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
