package analytics

import (
	"math"
	"testing"

	"backtest-analytics/internal/domain"
)

func TestRoundSummary(t *testing.T) {
	s := domain.MetricsSummary{
		TotalPnL:          12.3456,
		AvgPnL:            1.234567,
		WinRate:           33.333333,
		ProfitFactor:      1.98765,
		RewardVariability: 0.123456,
	}

	r := RoundSummary(s)

	if r.TotalPnL != 12.35 {
		t.Errorf("expected TotalPnL 12.35, got %f", r.TotalPnL)
	}
	if r.AvgPnL != 1.2346 {
		t.Errorf("expected AvgPnL 1.2346, got %f", r.AvgPnL)
	}
	if r.WinRate != 33.33 {
		t.Errorf("expected WinRate 33.33, got %f", r.WinRate)
	}
	if r.ProfitFactor != 1.99 {
		t.Errorf("expected ProfitFactor 1.99, got %f", r.ProfitFactor)
	}
	if r.RewardVariability != 0.1235 {
		t.Errorf("expected RewardVariability 0.1235, got %f", r.RewardVariability)
	}

	// Input stays untouched
	if s.TotalPnL != 12.3456 {
		t.Error("input summary was mutated")
	}
}

func TestRoundSummary_InfPassesThrough(t *testing.T) {
	r := RoundSummary(domain.MetricsSummary{ProfitFactor: math.Inf(1)})

	if !math.IsInf(r.ProfitFactor, 1) {
		t.Errorf("expected +Inf to pass through, got %f", r.ProfitFactor)
	}
}

func TestRoundGroup(t *testing.T) {
	g := domain.GroupMetrics{
		Key:                "breakout",
		TotalFees:          9.87654,
		AvgFee:             0.987654,
		MedianHoldingHours: 1.23456789,
	}

	r := RoundGroup(g)

	if r.TotalFees != 9.88 {
		t.Errorf("expected TotalFees 9.88, got %f", r.TotalFees)
	}
	if r.AvgFee != 0.9877 {
		t.Errorf("expected AvgFee 0.9877, got %f", r.AvgFee)
	}
	if r.MedianHoldingHours != 1.2346 {
		t.Errorf("expected MedianHoldingHours 1.2346, got %f", r.MedianHoldingHours)
	}
}
