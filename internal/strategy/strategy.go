package strategy

import (
	"fmt"
	"time"

	"trendbot/internal/indicator"
)

type Action string

const (
	Hold Action = "HOLD"
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// MarketSnapshot is everything a strategy may look at for one decision:
// the latest bar, the indicator values for it and the bar before it, and
// the share count currently held at the broker. Strategies never size
// orders; quantity is decided downstream.
type MarketSnapshot struct {
	Symbol      string
	Timestamp   time.Time
	Close       float64
	Prev        indicator.Snapshot
	Curr        indicator.Snapshot
	PositionQty int64
}

type TradeIntent struct {
	Action Action
	Reason string
}

type Strategy interface {
	Name() string
	Decide(snapshot MarketSnapshot) TradeIntent
}

// ForName maps a config value to a strategy implementation.
func ForName(name string, rocThreshold float64) (Strategy, error) {
	switch name {
	case "crossover":
		return Crossover{}, nil
	case "momentum":
		return NewMomentum(rocThreshold), nil
	default:
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
}
