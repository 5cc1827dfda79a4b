package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"trendbot/internal/broker"
	"trendbot/internal/config"
	"trendbot/internal/indicator"
	"trendbot/internal/md"
	"trendbot/internal/metrics"
	"trendbot/internal/notify"
	"trendbot/internal/risk"
	"trendbot/internal/strategy"
)

// historyMargin is how many daily bars beyond the slow window each fetch
// requests, so the two newest snapshots sit past the warm-up region even
// after short data gaps.
const historyMargin = 50

// Brokerage is the slice of the trading API the engine drives.
type Brokerage interface {
	Account(ctx context.Context) (broker.Account, error)
	Position(ctx context.Context, symbol string) (broker.Position, error)
	PlaceOrder(ctx context.Context, req broker.OrderRequest) (broker.OrderRef, error)
}

// BarSource supplies daily history for one symbol.
type BarSource interface {
	DailyBars(ctx context.Context, symbol string, limit int) ([]md.Bar, error)
}

type Engine struct {
	cfg       config.Config
	strategy  strategy.Strategy
	gate      risk.Gate
	broker    Brokerage
	bars      BarSource
	notifier  notify.Notifier
	decisions *DecisionLogger
	params    indicator.Params
	runID     string
}

func New(cfg config.Config, strat strategy.Strategy, gate risk.Gate, brokerage Brokerage, bars BarSource, notifier notify.Notifier, decisions *DecisionLogger) *Engine {
	params := indicator.DefaultParams()
	params.FastWindow = cfg.SMAFast
	params.SlowWindow = cfg.SMASlow
	params.ROCPeriod = cfg.ROCPeriod

	return &Engine{
		cfg:       cfg,
		strategy:  strat,
		gate:      gate,
		broker:    brokerage,
		bars:      bars,
		notifier:  notifier,
		decisions: decisions,
		params:    params,
		runID:     decisions.RunID(),
	}
}

// Outcome summarizes what one pass did for one symbol.
type Outcome struct {
	Symbol string
	Action strategy.Action
	Result string
	Err    error
}

// RunPass evaluates every configured symbol once. The account is read a
// single time up front; a failure there aborts the pass. Per-symbol
// failures are isolated: they produce an error outcome and the loop moves
// on to the next symbol.
func (e *Engine) RunPass(ctx context.Context) ([]Outcome, error) {
	start := time.Now()
	slog.Info("evaluation pass started", "strategy", e.strategy.Name(), "symbols", e.cfg.Symbols)

	account, err := e.broker.Account(ctx)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("*", "account").Inc()
		e.notify(fmt.Sprintf("Account fetch failed: %v", err))
		return nil, fmt.Errorf("fetch account: %w", err)
	}

	outcomes := make([]Outcome, 0, len(e.cfg.Symbols))
	for i, symbol := range e.cfg.Symbols {
		if i > 0 && e.cfg.SymbolPause > 0 {
			if err := broker.WaitForContext(ctx, e.cfg.SymbolPause); err != nil {
				return outcomes, err
			}
		}
		outcomes = append(outcomes, e.evaluateSymbol(ctx, symbol, account))
	}

	metrics.PassesTotal.Inc()
	slog.Info("evaluation pass finished", "symbols", len(outcomes), "elapsed", time.Since(start))
	return outcomes, nil
}

func (e *Engine) evaluateSymbol(ctx context.Context, symbol string, account broker.Account) Outcome {
	metrics.EvaluationsTotal.WithLabelValues(symbol).Inc()

	var positionQty int64
	position, err := e.broker.Position(ctx, symbol)
	switch {
	case err == nil:
		positionQty = position.Qty
	case broker.IsNotFound(err):
		// flat, nothing held
	default:
		return e.failure(symbol, "position", err)
	}

	bars, err := e.bars.DailyBars(ctx, symbol, e.params.SlowWindow+historyMargin)
	if err != nil {
		return e.failure(symbol, "bars", err)
	}
	if len(bars) == 0 {
		return e.failure(symbol, "bars", errors.New("no bars returned"))
	}

	prev, curr, err := indicator.Compute(md.Closes(bars), e.params)
	if err != nil {
		return e.failure(symbol, "indicator", err)
	}

	last := bars[len(bars)-1]
	intent := e.strategy.Decide(strategy.MarketSnapshot{
		Symbol:      symbol,
		Timestamp:   last.Timestamp,
		Close:       last.Close,
		Prev:        prev,
		Curr:        curr,
		PositionQty: positionQty,
	})
	metrics.DecisionsTotal.WithLabelValues(symbol, string(intent.Action)).Inc()

	decision := Decision{
		RunID:      e.runID,
		Timestamp:  time.Now().UTC(),
		BarTime:    last.Timestamp,
		Symbol:     symbol,
		Close:      last.Close,
		SMAFast:    curr.SMAFast,
		SMASlow:    curr.SMASlow,
		MACDLine:   curr.MACDLine,
		MACDSignal: curr.MACDSignal,
		ROC:        curr.ROC,
		Intent:     intent.Action,
		Reason:     intent.Reason,
	}

	if intent.Action == strategy.Hold {
		decision.Result = "hold"
		e.decisions.Append(decision)
		slog.Info("hold", "symbol", symbol, "reason", intent.Reason)
		return Outcome{Symbol: symbol, Action: strategy.Hold, Result: "hold"}
	}

	price := decimal.NewFromFloat(last.Close)
	var qty int64
	if intent.Action == strategy.Buy {
		qty = risk.Shares(account.BuyingPower, price, e.cfg.TargetFraction)
		if qty == 0 {
			decision.Result = "skipped"
			decision.RejectReason = "zero_quantity"
			e.decisions.Append(decision)
			slog.Warn("buy skipped", "symbol", symbol, "buying_power", account.BuyingPower, "price", last.Close)
			e.notify(fmt.Sprintf("BUY signal for %s skipped: buying power %s sizes to zero shares at %.2f", symbol, account.BuyingPower, last.Close))
			return Outcome{Symbol: symbol, Action: strategy.Buy, Result: "skipped"}
		}
	} else {
		qty = positionQty
	}
	decision.Qty = qty

	riskCtx := risk.RiskContext{
		Price:       price,
		PositionQty: positionQty,
		MaxNotional: e.cfg.MaxNotional,
		KillSwitch:  e.cfg.KillSwitch,
	}
	if err := e.gate.Evaluate(intent, qty, riskCtx); err != nil {
		decision.Result = "rejected"
		decision.RejectReason = err.Error()
		e.decisions.Append(decision)
		return Outcome{Symbol: symbol, Action: intent.Action, Result: "rejected"}
	}

	orderReq, err := e.buildOrder(symbol, price, intent.Action, qty)
	if err != nil {
		decision.Result = "order_build_failed"
		decision.RejectReason = err.Error()
		e.decisions.Append(decision)
		metrics.ErrorsTotal.WithLabelValues(symbol, "order").Inc()
		slog.Error("order build failed", "symbol", symbol, "error", err)
		return Outcome{Symbol: symbol, Action: intent.Action, Result: "error", Err: err}
	}

	ref, err := e.broker.PlaceOrder(ctx, orderReq)
	if err != nil {
		decision.Result = "order_failed"
		decision.RejectReason = err.Error()
		e.decisions.Append(decision)
		metrics.ErrorsTotal.WithLabelValues(symbol, "order").Inc()
		e.notify(fmt.Sprintf("%s order for %d %s failed: %v", intent.Action, qty, symbol, err))
		return Outcome{Symbol: symbol, Action: intent.Action, Result: "order_failed", Err: err}
	}

	decision.Result = "order_submitted"
	decision.OrderID = ref.ID
	decision.ClientOrderID = ref.ClientOrderID
	e.decisions.Append(decision)
	metrics.OrdersTotal.WithLabelValues(symbol, string(orderReq.Side)).Inc()
	slog.Info("order submitted", "symbol", symbol, "side", orderReq.Side, "qty", qty, "order_id", ref.ID, "client_order_id", ref.ClientOrderID)
	e.notify(fmt.Sprintf("%s order placed for %d of %s", intent.Action, qty, symbol))

	return Outcome{Symbol: symbol, Action: intent.Action, Result: "order_submitted"}
}

func (e *Engine) failure(symbol, stage string, err error) Outcome {
	slog.Error("symbol evaluation failed", "symbol", symbol, "stage", stage, "error", err)
	metrics.ErrorsTotal.WithLabelValues(symbol, stage).Inc()
	e.notify(fmt.Sprintf("Error evaluating %s: %v", symbol, err))
	return Outcome{Symbol: symbol, Action: strategy.Hold, Result: "error", Err: err}
}

func (e *Engine) notify(body string) {
	if err := e.notifier.Send(notify.DefaultTitle, body); err != nil {
		slog.Warn("notification failed", "error", err)
	}
}

func (e *Engine) buildOrder(symbol string, price decimal.Decimal, action strategy.Action, qty int64) (broker.OrderRequest, error) {
	orderType, err := parseOrderType(e.cfg.OrderType)
	if err != nil {
		return broker.OrderRequest{}, err
	}
	tif, err := parseTimeInForce(e.cfg.TimeInForce)
	if err != nil {
		return broker.OrderRequest{}, err
	}
	side := alpaca.Buy
	if action == strategy.Sell {
		side = alpaca.Sell
	}

	req := broker.OrderRequest{
		Symbol:        symbol,
		Qty:           qty,
		Side:          side,
		Type:          orderType,
		TimeInForce:   tif,
		ClientOrderID: e.nextClientOrderID(),
	}
	if orderType == alpaca.Limit {
		req.LimitPrice = &price
	}

	return req, nil
}

func (e *Engine) nextClientOrderID() string {
	return e.runID + "-" + uuid.NewString()[:8]
}

func parseOrderType(value string) (alpaca.OrderType, error) {
	switch value {
	case "market":
		return alpaca.Market, nil
	case "limit":
		return alpaca.Limit, nil
	default:
		return "", fmt.Errorf("unsupported order type: %s", value)
	}
}

func parseTimeInForce(value string) (alpaca.TimeInForce, error) {
	switch value {
	case "day":
		return alpaca.Day, nil
	case "gtc":
		return alpaca.GTC, nil
	default:
		return "", fmt.Errorf("unsupported time in force: %s", value)
	}
}
