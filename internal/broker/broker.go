package broker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"
)

type OrderRequest struct {
	Symbol        string
	Qty           int64
	Side          alpaca.Side
	Type          alpaca.OrderType
	TimeInForce   alpaca.TimeInForce
	ClientOrderID string
	LimitPrice    *decimal.Decimal
}

type OrderRef struct {
	ID            string
	ClientOrderID string
	Status        string
}

type Position struct {
	Symbol   string
	Qty      int64
	AvgEntry decimal.Decimal
}

type Account struct {
	Equity      decimal.Decimal
	BuyingPower decimal.Decimal
}

type Client struct {
	client *alpaca.Client
}

func New(apiKey, apiSecret, baseURL string) *Client {
	opts := alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	}
	return &Client{client: alpaca.NewClient(opts)}
}

func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (OrderRef, error) {
	qty := decimal.NewFromInt(req.Qty)
	orderReq := alpaca.PlaceOrderRequest{
		Symbol:        req.Symbol,
		Qty:           &qty,
		Side:          req.Side,
		Type:          req.Type,
		TimeInForce:   req.TimeInForce,
		ClientOrderID: req.ClientOrderID,
		LimitPrice:    req.LimitPrice,
	}

	order, err := c.client.PlaceOrder(orderReq)
	if err != nil {
		slog.Error("place order failed", "side", req.Side, "symbol", req.Symbol, "qty", req.Qty, "type", req.Type, "error", err)
		return OrderRef{}, err
	}

	slog.Info("place order success", "order_id", order.ID, "side", req.Side, "symbol", req.Symbol, "qty", req.Qty, "type", req.Type, "status", order.Status)
	return OrderRef{
		ID:            order.ID,
		ClientOrderID: order.ClientOrderID,
		Status:        string(order.Status),
	}, nil
}

func (c *Client) Position(ctx context.Context, symbol string) (Position, error) {
	pos, err := c.client.GetPosition(symbol)
	if err != nil {
		if IsNotFound(err) {
			slog.Info("no position", "symbol", symbol)
		} else {
			slog.Error("fetch position failed", "symbol", symbol, "error", err)
		}
		return Position{}, err
	}
	qty := pos.Qty.IntPart()

	slog.Info("position fetched", "symbol", symbol, "qty", qty, "avg_entry", pos.AvgEntryPrice)
	return Position{
		Symbol:   pos.Symbol,
		Qty:      qty,
		AvgEntry: pos.AvgEntryPrice,
	}, nil
}

func (c *Client) Account(ctx context.Context) (Account, error) {
	acct, err := c.client.GetAccount()
	if err != nil {
		slog.Error("fetch account failed", "error", err)
		return Account{}, err
	}

	slog.Info("account fetched", "equity", acct.Equity, "buying_power", acct.BuyingPower)
	return Account{Equity: acct.Equity, BuyingPower: acct.BuyingPower}, nil
}

// IsNotFound reports whether err is the broker's 404, which for positions
// means the account simply holds no shares of the symbol.
func IsNotFound(err error) bool {
	var apiErr *alpaca.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func WaitForContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
