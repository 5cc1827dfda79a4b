package risk

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"trendbot/internal/strategy"
)

// Shares converts buying power into a whole-share order size: the floor of
// buyingPower * fraction / price. Non-positive inputs size to zero rather
// than erroring so a bad account read can never produce an order.
func Shares(buyingPower, price, fraction decimal.Decimal) int64 {
	if buyingPower.Sign() <= 0 || price.Sign() <= 0 || fraction.Sign() <= 0 {
		return 0
	}
	return buyingPower.Mul(fraction).Div(price).Floor().IntPart()
}

type RiskContext struct {
	Price       decimal.Decimal
	PositionQty int64
	MaxNotional decimal.Decimal
	KillSwitch  bool
}

type Gate struct{}

func (g Gate) Evaluate(intent strategy.TradeIntent, qty int64, ctx RiskContext) error {
	if intent.Action == strategy.Hold {
		return nil
	}

	notional := ctx.Price.Mul(decimal.NewFromInt(qty))
	slog.Info("risk evaluation", "intent", intent.Action, "qty", qty, "position", ctx.PositionQty, "price", ctx.Price, "notional", notional)

	if ctx.KillSwitch {
		slog.Info("risk rejected", "reason", "kill_switch_enabled")
		return fmt.Errorf("kill_switch_enabled")
	}
	if qty <= 0 {
		slog.Info("risk rejected", "reason", "invalid_quantity", "qty", qty)
		return fmt.Errorf("invalid_quantity")
	}
	if intent.Action == strategy.Sell && ctx.PositionQty <= 0 {
		slog.Info("risk rejected", "reason", "no_position_to_sell")
		return fmt.Errorf("no_position_to_sell")
	}
	if ctx.MaxNotional.Sign() > 0 && notional.GreaterThan(ctx.MaxNotional) {
		slog.Info("risk rejected", "reason", "max_notional_exceeded", "notional", notional, "max", ctx.MaxNotional)
		return fmt.Errorf("max_notional_exceeded")
	}

	slog.Info("risk approved", "intent", intent.Action, "qty", qty, "reason", intent.Reason)
	return nil
}
