package strategy

// Momentum is the rate-of-change sibling of Crossover: it buys when the
// N-day ROC climbs above the threshold and sells once it falls below the
// negative threshold while shares are held.
type Momentum struct {
	Threshold float64 // percent move that arms a signal
}

func NewMomentum(threshold float64) Momentum {
	if threshold <= 0 {
		threshold = 2.0
	}
	return Momentum{Threshold: threshold}
}

func (m Momentum) Name() string { return "momentum" }

func (m Momentum) Decide(snapshot MarketSnapshot) TradeIntent {
	if !snapshot.Curr.Valid {
		return TradeIntent{Action: Hold, Reason: "insufficient_history"}
	}

	if snapshot.Curr.ROC > m.Threshold && snapshot.PositionQty <= 0 {
		return TradeIntent{Action: Buy, Reason: "roc_above_threshold"}
	}
	if snapshot.Curr.ROC < -m.Threshold && snapshot.PositionQty > 0 {
		return TradeIntent{Action: Sell, Reason: "roc_below_threshold"}
	}

	return TradeIntent{Action: Hold, Reason: "roc_within_band"}
}
