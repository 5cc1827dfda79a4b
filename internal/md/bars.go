package md

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    uint64
}

type Client struct {
	client *marketdata.Client
	feed   marketdata.Feed
}

func New(apiKey, apiSecret, feed string) *Client {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	return &Client{client: marketdata.NewClient(opts), feed: parseFeed(feed)}
}

// DailyBars returns the most recent limit daily bars for symbol, oldest
// first. The request window is padded well past limit trading days to
// cover weekends and holidays, then trimmed back to limit.
func (c *Client) DailyBars(ctx context.Context, symbol string, limit int) ([]Bar, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("bar limit must be > 0")
	}
	req := marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      time.Now().UTC().AddDate(0, 0, -2*limit),
		Feed:       c.feed,
	}

	raw, err := c.client.GetBars(symbol, req)
	if err != nil {
		slog.Error("fetch daily bars failed", "symbol", symbol, "error", err)
		return nil, fmt.Errorf("fetch daily bars for %s: %w", symbol, err)
	}

	bars := make([]Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, Bar{
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}
	bars = lastN(bars, limit)

	slog.Info("daily bars fetched", "symbol", symbol, "count", len(bars))
	return bars, nil
}

// Closes extracts the close column in bar order.
func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func lastN(bars []Bar, n int) []Bar {
	if len(bars) <= n {
		return bars
	}
	return bars[len(bars)-n:]
}

func parseFeed(feed string) marketdata.Feed {
	switch feed {
	case "iex":
		return marketdata.IEX
	case "sip":
		return marketdata.SIP
	default:
		return marketdata.IEX
	}
}
