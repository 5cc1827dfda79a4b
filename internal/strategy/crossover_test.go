package strategy

import (
	"testing"

	"trendbot/internal/indicator"
)

func snap(fast, slow, macdLine, macdSignal float64) indicator.Snapshot {
	return indicator.Snapshot{
		SMAFast:    fast,
		SMASlow:    slow,
		MACDLine:   macdLine,
		MACDSignal: macdSignal,
		Valid:      true,
	}
}

func TestCrossoverBuySignal(t *testing.T) {
	strat := Crossover{}
	snapshot := MarketSnapshot{
		Prev:        snap(99, 100, -0.1, 0.1),
		Curr:        snap(101, 100, 0.5, 0.2),
		PositionQty: 0,
	}
	intent := strat.Decide(snapshot)
	if intent.Action != Buy {
		t.Fatalf("expected BUY, got %s (%s)", intent.Action, intent.Reason)
	}
}

func TestCrossoverBuyRequiresMACDConfirmation(t *testing.T) {
	strat := Crossover{}
	snapshot := MarketSnapshot{
		Prev:        snap(99, 100, 0, 0),
		Curr:        snap(101, 100, 0.1, 0.5),
		PositionQty: 0,
	}
	intent := strat.Decide(snapshot)
	if intent.Action != Hold || intent.Reason != "golden_cross_macd_unconfirmed" {
		t.Fatalf("expected HOLD on unconfirmed MACD, got %s (%s)", intent.Action, intent.Reason)
	}
}

func TestCrossoverBuySkippedWhileLong(t *testing.T) {
	strat := Crossover{}
	snapshot := MarketSnapshot{
		Prev:        snap(99, 100, 0, 0),
		Curr:        snap(101, 100, 0.5, 0.2),
		PositionQty: 10,
	}
	intent := strat.Decide(snapshot)
	if intent.Action != Hold {
		t.Fatalf("expected HOLD while long, got %s", intent.Action)
	}
}

func TestCrossoverBuyFromEqualSMAs(t *testing.T) {
	strat := Crossover{}
	snapshot := MarketSnapshot{
		Prev:        snap(100, 100, 0, 0),
		Curr:        snap(101, 100, 0.5, 0.2),
		PositionQty: 0,
	}
	intent := strat.Decide(snapshot)
	if intent.Action != Buy {
		t.Fatalf("expected BUY when SMAs were touching, got %s (%s)", intent.Action, intent.Reason)
	}
}

func TestCrossoverSellSignal(t *testing.T) {
	strat := Crossover{}
	snapshot := MarketSnapshot{
		Prev:        snap(101, 100, 0.5, 0.2),
		Curr:        snap(99, 100, 0.5, 0.2),
		PositionQty: 10,
	}
	intent := strat.Decide(snapshot)
	if intent.Action != Sell || intent.Reason != "death_cross" {
		t.Fatalf("expected SELL on death cross even with bullish MACD, got %s (%s)", intent.Action, intent.Reason)
	}
}

func TestCrossoverSellSkippedWhileFlat(t *testing.T) {
	strat := Crossover{}
	snapshot := MarketSnapshot{
		Prev:        snap(101, 100, 0, 0),
		Curr:        snap(99, 100, 0, 0),
		PositionQty: 0,
	}
	intent := strat.Decide(snapshot)
	if intent.Action != Hold {
		t.Fatalf("expected HOLD when flat, got %s", intent.Action)
	}
}

func TestCrossoverHoldWithoutCross(t *testing.T) {
	strat := Crossover{}
	snapshot := MarketSnapshot{
		Prev:        snap(105, 100, 0.5, 0.2),
		Curr:        snap(104, 100, 0.5, 0.2),
		PositionQty: 10,
	}
	intent := strat.Decide(snapshot)
	if intent.Action != Hold || intent.Reason != "no_crossover" {
		t.Fatalf("expected HOLD without a cross, got %s (%s)", intent.Action, intent.Reason)
	}
}

func TestCrossoverDecideIsPure(t *testing.T) {
	strat := Crossover{}
	snapshot := MarketSnapshot{
		Prev:        snap(99, 100, -0.1, 0.1),
		Curr:        snap(101, 100, 0.5, 0.2),
		PositionQty: 0,
	}
	first := strat.Decide(snapshot)
	second := strat.Decide(snapshot)
	if first != second {
		t.Fatalf("expected identical decisions, got %v then %v", first, second)
	}
}

func TestCrossoverHoldOnWarmup(t *testing.T) {
	strat := Crossover{}
	snapshot := MarketSnapshot{
		Prev:        indicator.Snapshot{},
		Curr:        snap(101, 100, 0.5, 0.2),
		PositionQty: 0,
	}
	intent := strat.Decide(snapshot)
	if intent.Action != Hold || intent.Reason != "insufficient_history" {
		t.Fatalf("expected HOLD during warm-up, got %s (%s)", intent.Action, intent.Reason)
	}
}
