package domain

import "testing"

func TestTradeRecord_IsProfitable(t *testing.T) {
	if !(&TradeRecord{PnL: 0.01}).IsProfitable() {
		t.Error("positive PnL should be profitable")
	}
	if (&TradeRecord{PnL: 0}).IsProfitable() {
		t.Error("zero PnL is not a win")
	}
	if (&TradeRecord{PnL: -0.01}).IsProfitable() {
		t.Error("negative PnL should not be profitable")
	}
}

func TestTradeRecord_DurationHours(t *testing.T) {
	tr := &TradeRecord{HoldingPeriodSec: 5400}
	if got := tr.DurationHours(); got != 1.5 {
		t.Errorf("expected 1.5 hours, got %f", got)
	}
}

func TestTradeRecord_IsLong(t *testing.T) {
	if !(&TradeRecord{TradeType: TradeTypeLong}).IsLong() {
		t.Error("long trade not detected")
	}
	if (&TradeRecord{TradeType: TradeTypeShort}).IsLong() {
		t.Error("short trade reported as long")
	}
}
