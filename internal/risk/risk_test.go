package risk

import (
	"testing"

	"github.com/shopspring/decimal"

	"trendbot/internal/strategy"
)

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func TestSharesTargetFraction(t *testing.T) {
	if qty := Shares(d(10000), d(100), d(0.1)); qty != 10 {
		t.Fatalf("expected 10 shares, got %d", qty)
	}
}

func TestSharesFloorsFractionalResult(t *testing.T) {
	if qty := Shares(d(10000), d(333), d(0.1)); qty != 3 {
		t.Fatalf("expected 3 shares, got %d", qty)
	}
}

func TestSharesZeroWhenUnaffordable(t *testing.T) {
	if qty := Shares(d(50), d(100), d(0.1)); qty != 0 {
		t.Fatalf("expected 0 shares, got %d", qty)
	}
}

func TestSharesZeroOnBadInput(t *testing.T) {
	cases := []struct {
		name                         string
		buyingPower, price, fraction decimal.Decimal
	}{
		{"zero_price", d(10000), d(0), d(0.1)},
		{"zero_buying_power", d(0), d(100), d(0.1)},
		{"zero_fraction", d(10000), d(100), d(0)},
		{"negative_buying_power", d(-10000), d(100), d(0.1)},
		{"negative_price", d(10000), d(-100), d(0.1)},
	}
	for _, tc := range cases {
		if qty := Shares(tc.buyingPower, tc.price, tc.fraction); qty != 0 {
			t.Fatalf("%s: expected 0 shares, got %d", tc.name, qty)
		}
	}
}

func TestGateRejectsKillSwitch(t *testing.T) {
	gate := Gate{}
	intent := strategy.TradeIntent{Action: strategy.Buy}
	ctx := RiskContext{Price: d(100), KillSwitch: true}

	if err := gate.Evaluate(intent, 1, ctx); err == nil {
		t.Fatalf("expected kill switch rejection")
	}
}

func TestGateRejectsZeroQty(t *testing.T) {
	gate := Gate{}
	intent := strategy.TradeIntent{Action: strategy.Buy}

	if err := gate.Evaluate(intent, 0, RiskContext{Price: d(100)}); err == nil {
		t.Fatalf("expected invalid quantity rejection")
	}
}

func TestGateRejectsSellWithoutPosition(t *testing.T) {
	gate := Gate{}
	intent := strategy.TradeIntent{Action: strategy.Sell}
	ctx := RiskContext{Price: d(100), PositionQty: 0}

	if err := gate.Evaluate(intent, 5, ctx); err == nil {
		t.Fatalf("expected no-position rejection")
	}
}

func TestGateRejectsMaxNotional(t *testing.T) {
	gate := Gate{}
	intent := strategy.TradeIntent{Action: strategy.Buy}
	ctx := RiskContext{Price: d(100), MaxNotional: d(150)}

	if err := gate.Evaluate(intent, 2, ctx); err == nil {
		t.Fatalf("expected max notional rejection")
	}
}

func TestGateApprovesValidBuy(t *testing.T) {
	gate := Gate{}
	intent := strategy.TradeIntent{Action: strategy.Buy}
	ctx := RiskContext{Price: d(100), MaxNotional: d(500)}

	if err := gate.Evaluate(intent, 1, ctx); err != nil {
		t.Fatalf("expected approval, got %v", err)
	}
}

func TestGateSkipsNotionalCapWhenDisabled(t *testing.T) {
	gate := Gate{}
	intent := strategy.TradeIntent{Action: strategy.Buy}
	ctx := RiskContext{Price: d(100)}

	if err := gate.Evaluate(intent, 50, ctx); err != nil {
		t.Fatalf("expected approval with cap disabled, got %v", err)
	}
}

func TestGatePassesHold(t *testing.T) {
	gate := Gate{}
	intent := strategy.TradeIntent{Action: strategy.Hold}
	ctx := RiskContext{KillSwitch: true}

	if err := gate.Evaluate(intent, 0, ctx); err != nil {
		t.Fatalf("expected hold to pass, got %v", err)
	}
}
