package analytics

import (
	"math"

	"backtest-analytics/internal/domain"
)

// Display rounding happens here, at the output boundary, and nowhere
// else: intermediate sums always stay unrounded so grouped and overall
// metrics never compound rounding error. PnL-scale values get 2
// decimals, percentage/ratio-scale values get 4.

// RoundSummary returns a copy of the summary with display rounding
// applied. +Inf profit factors pass through unchanged.
func RoundSummary(m domain.MetricsSummary) domain.MetricsSummary {
	m.TotalPnL = round2(m.TotalPnL)
	m.AvgPnL = round4(m.AvgPnL)
	m.MedianPnL = round4(m.MedianPnL)
	m.StdPnL = round4(m.StdPnL)
	m.WinRate = round2(m.WinRate)
	m.ProfitFactor = round2(m.ProfitFactor)
	m.ExpectedValue = round4(m.ExpectedValue)
	m.MaxProfit = round2(m.MaxProfit)
	m.MaxLoss = round2(m.MaxLoss)
	m.GrossProfit = round2(m.GrossProfit)
	m.GrossLoss = round2(m.GrossLoss)
	m.RewardVariability = round4(m.RewardVariability)
	return m
}

// RoundGroup returns a copy of the group metrics with display rounding
// applied to the summary and the partition-level statistics.
func RoundGroup(g domain.GroupMetrics) domain.GroupMetrics {
	g.Summary = RoundSummary(g.Summary)
	g.TotalFees = round2(g.TotalFees)
	g.AvgFee = round4(g.AvgFee)
	g.MedianFee = round4(g.MedianFee)
	g.AvgHoldingHours = round4(g.AvgHoldingHours)
	g.MedianHoldingHours = round4(g.MedianHoldingHours)
	return g
}

func round2(v float64) float64 {
	return roundTo(v, 100)
}

func round4(v float64) float64 {
	return roundTo(v, 10000)
}

func roundTo(v, scale float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return math.Round(v*scale) / scale
}
