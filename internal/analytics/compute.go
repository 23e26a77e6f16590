// Package analytics computes summary statistics and derived series over
// normalized trade records. All functions are pure: they never mutate
// their input and are safe to call concurrently on a shared dataset.
package analytics

import (
	"math"
	"sort"

	"backtest-analytics/internal/domain"
)

// Summarize calculates the full scalar contract for a set of trades.
// Empty input yields a zero-valued summary, never an error; "no data"
// is a load-time condition, not a metrics-time one.
func Summarize(trades []*domain.TradeRecord) domain.MetricsSummary {
	n := len(trades)
	if n == 0 {
		return domain.MetricsSummary{}
	}

	pnls := make([]float64, n)
	wins := 0
	grossProfit := 0.0
	grossLoss := 0.0
	maxProfit := trades[0].PnL
	maxLoss := trades[0].PnL

	for i, t := range trades {
		pnls[i] = t.PnL
		if t.PnL > 0 {
			wins++
			grossProfit += t.PnL
		} else if t.PnL < 0 {
			grossLoss += -t.PnL
		}
		if t.PnL > maxProfit {
			maxProfit = t.PnL
		}
		if t.PnL < maxLoss {
			maxLoss = t.PnL
		}
	}

	mean := computeMean(pnls)
	stddev := computeStddev(pnls, mean)

	return domain.MetricsSummary{
		TradeCount: n,

		TotalPnL:  computeSum(pnls),
		AvgPnL:    mean,
		MedianPnL: computeMedian(pnls),
		StdPnL:    stddev,

		WinRate:       100 * float64(wins) / float64(n),
		ProfitFactor:  computeProfitFactor(grossProfit, grossLoss),
		ExpectedValue: mean,

		MaxProfit: maxProfit,
		MaxLoss:   maxLoss,

		GrossProfit: grossProfit,
		GrossLoss:   grossLoss,

		RewardVariability: computeRewardVariability(mean, stddev),
	}
}

// computeProfitFactor applies the three-way edge-case rule:
// gross_profit/gross_loss when losses exist, +Inf when only profits
// exist, 0 when there is nothing to divide on either side.
func computeProfitFactor(grossProfit, grossLoss float64) float64 {
	if grossLoss > 0 {
		return grossProfit / grossLoss
	}
	if grossProfit > 0 {
		return math.Inf(1)
	}
	return 0
}

// computeRewardVariability calculates mean PnL per unit of PnL
// variability. Per-trade ratio only; it is not annualized and must not
// be read as a true Sharpe ratio.
func computeRewardVariability(mean, stddev float64) float64 {
	if stddev > 0 {
		return mean / stddev
	}
	return 0
}

// computeSum adds values without intermediate rounding.
func computeSum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// computeMean calculates the arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return computeSum(values) / float64(len(values))
}

// computeMedian calculates the median (average of the two middle
// values for even counts). Input is not modified.
func computeMedian(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// computeStddev calculates sample standard deviation (n-1 denominator).
// Returns 0 when fewer than 2 samples exist so downstream ratios stay
// well-defined instead of propagating NaN.
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}
