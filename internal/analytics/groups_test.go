package analytics

import (
	"testing"

	"backtest-analytics/internal/domain"
)

func groupedTrades() []*domain.TradeRecord {
	return []*domain.TradeRecord{
		{Symbol: "BTCUSDT", StrategyName: "breakout", PnL: 10, Fee: 1, HoldingPeriodSec: 3600, Seq: 0},
		{Symbol: "ETHUSDT", StrategyName: "breakout", PnL: -5, Fee: 2, HoldingPeriodSec: 7200, Seq: 1},
		{Symbol: "BTCUSDT", StrategyName: "meanrev", PnL: 20, Fee: 3, HoldingPeriodSec: 1800, Seq: 2},
		{Symbol: "ETHUSDT", StrategyName: "meanrev", PnL: -5, Fee: 4, HoldingPeriodSec: 3600, Seq: 3},
	}
}

func TestGroupBy_Strategy(t *testing.T) {
	groups := GroupBy(groupedTrades(), domain.GroupByStrategy)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	// Sorted by key
	if groups[0].Key != "breakout" || groups[1].Key != "meanrev" {
		t.Errorf("expected keys [breakout meanrev], got [%s %s]", groups[0].Key, groups[1].Key)
	}
	if groups[0].Summary.TotalPnL != 5 {
		t.Errorf("expected breakout TotalPnL 5, got %f", groups[0].Summary.TotalPnL)
	}
	if groups[1].Summary.TotalPnL != 15 {
		t.Errorf("expected meanrev TotalPnL 15, got %f", groups[1].Summary.TotalPnL)
	}
	if groups[0].TotalFees != 3 {
		t.Errorf("expected breakout TotalFees 3, got %f", groups[0].TotalFees)
	}
	// breakout holds 1h and 2h
	if groups[0].AvgHoldingHours != 1.5 {
		t.Errorf("expected breakout AvgHoldingHours 1.5, got %f", groups[0].AvgHoldingHours)
	}
}

func TestGroupBy_PartitionSumsMatchOverall(t *testing.T) {
	trades := groupedTrades()
	overall := Summarize(trades)

	for _, key := range []domain.GroupKey{domain.GroupByStrategy, domain.GroupBySymbol} {
		sum := 0.0
		count := 0
		for _, g := range GroupBy(trades, key) {
			sum += g.Summary.TotalPnL
			count += g.Summary.TradeCount
		}
		if sum != overall.TotalPnL {
			t.Errorf("group %s: partition PnL sum %f != overall %f", key, sum, overall.TotalPnL)
		}
		if count != overall.TradeCount {
			t.Errorf("group %s: partition count %d != overall %d", key, count, overall.TradeCount)
		}
	}
}

func TestGroupBy_Empty(t *testing.T) {
	if groups := GroupBy(nil, domain.GroupByStrategy); groups != nil {
		t.Errorf("expected nil for empty input, got %v", groups)
	}
}

func TestTopByTotalPnL(t *testing.T) {
	groups := GroupBy(groupedTrades(), domain.GroupByStrategy)

	top := TopByTotalPnL(groups, 1)
	if len(top) != 1 {
		t.Fatalf("expected 1 group, got %d", len(top))
	}
	if top[0].Key != "meanrev" {
		t.Errorf("expected meanrev on top, got %s", top[0].Key)
	}

	// n larger than group count returns everything, descending
	all := TopByTotalPnL(groups, 10)
	if len(all) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(all))
	}
	if all[0].Summary.TotalPnL < all[1].Summary.TotalPnL {
		t.Error("expected descending order by TotalPnL")
	}

	if got := TopByTotalPnL(groups, 0); got != nil {
		t.Errorf("expected nil for n=0, got %v", got)
	}
}

func TestTopByTotalPnL_DoesNotMutateInput(t *testing.T) {
	groups := GroupBy(groupedTrades(), domain.GroupByStrategy)
	first := groups[0].Key

	TopByTotalPnL(groups, 2)

	if groups[0].Key != first {
		t.Error("input slice order was mutated")
	}
}
