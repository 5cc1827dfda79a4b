package strategy

import "trendbot/internal/indicator"

// Crossover trades the 50/200 golden cross. Entries need the fast SMA to
// cross above the slow SMA on the latest bar with the MACD line above its
// signal line; exits fire on the opposite cross whenever shares are held,
// MACD notwithstanding.
type Crossover struct{}

func (Crossover) Name() string { return "crossover" }

func (Crossover) Decide(snapshot MarketSnapshot) TradeIntent {
	if !snapshot.Prev.Valid || !snapshot.Curr.Valid {
		return TradeIntent{Action: Hold, Reason: "insufficient_history"}
	}

	switch {
	case crossedAbove(snapshot.Prev, snapshot.Curr):
		if snapshot.PositionQty > 0 {
			return TradeIntent{Action: Hold, Reason: "golden_cross_already_long"}
		}
		if snapshot.Curr.MACDLine <= snapshot.Curr.MACDSignal {
			return TradeIntent{Action: Hold, Reason: "golden_cross_macd_unconfirmed"}
		}
		return TradeIntent{Action: Buy, Reason: "golden_cross_macd_confirmed"}
	case crossedBelow(snapshot.Prev, snapshot.Curr):
		if snapshot.PositionQty <= 0 {
			return TradeIntent{Action: Hold, Reason: "death_cross_flat"}
		}
		return TradeIntent{Action: Sell, Reason: "death_cross"}
	}

	return TradeIntent{Action: Hold, Reason: "no_crossover"}
}

func crossedAbove(prev, curr indicator.Snapshot) bool {
	return prev.SMAFast <= prev.SMASlow && curr.SMAFast > curr.SMASlow
}

func crossedBelow(prev, curr indicator.Snapshot) bool {
	return prev.SMAFast >= prev.SMASlow && curr.SMAFast < curr.SMASlow
}
