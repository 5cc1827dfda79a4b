package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Symbols        []string
	Strategy       string
	Interval       time.Duration
	SymbolPause    time.Duration
	TargetFraction decimal.Decimal
	MaxNotional    decimal.Decimal
	KillSwitch     bool
	OrderType      string
	TimeInForce    string
	SMAFast        int
	SMASlow        int
	ROCPeriod      int
	ROCThreshold   float64
	Feed           string
	MetricsAddr    string
	LogPath        string
	DecisionsPath  string
	BaseURL        string
	APIKey         string
	APISecret      string
	PushToken      string
}

func Load() (Config, error) {
	var cfg Config
	var symbols string
	var targetFraction string
	var maxNotional string
	var baseURL string

	loadDotEnvIfPresent(".env")

	flag.StringVar(&symbols, "symbols", "", "comma separated symbols (default TRADING_SYMBOLS env or SPY)")
	flag.StringVar(&cfg.Strategy, "strategy", "crossover", "strategy: crossover or momentum")
	flag.DurationVar(&cfg.Interval, "interval", time.Hour, "time between evaluation passes")
	flag.DurationVar(&cfg.SymbolPause, "symbol-pause", time.Second, "pause between symbols within a pass")
	flag.StringVar(&targetFraction, "target-fraction", "", "fraction of buying power per buy (default TARGET_FRACTION env or 0.10)")
	flag.StringVar(&maxNotional, "max-notional", "0", "max notional per order, 0 disables the cap")
	flag.BoolVar(&cfg.KillSwitch, "kill-switch", false, "if true, never place orders")
	flag.StringVar(&cfg.OrderType, "order-type", "market", "order type: market or limit")
	flag.StringVar(&cfg.TimeInForce, "time-in-force", "gtc", "time in force: day or gtc")
	flag.IntVar(&cfg.SMAFast, "sma-fast", 50, "fast SMA window length")
	flag.IntVar(&cfg.SMASlow, "sma-slow", 200, "slow SMA window length")
	flag.IntVar(&cfg.ROCPeriod, "roc-period", 10, "ROC lookback for the momentum strategy")
	flag.Float64Var(&cfg.ROCThreshold, "roc-threshold", 2.0, "ROC percent move that arms a momentum signal")
	flag.StringVar(&cfg.Feed, "feed", "iex", "market data feed: iex or sip")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", ":9090", "prometheus listen address")
	flag.StringVar(&cfg.LogPath, "log-path", "trendbot.log", "append-only log file, empty for stdout only")
	flag.StringVar(&cfg.DecisionsPath, "decisions-path", "decisions.ndjson", "path to decisions log")
	flag.StringVar(&baseURL, "base-url", "", "trading API base URL (default ALPACA_BASE_URL env or paper)")
	flag.Parse()

	cfg.APIKey = os.Getenv("APCA_API_KEY_ID")
	cfg.APISecret = os.Getenv("APCA_API_SECRET_KEY")
	cfg.PushToken = os.Getenv("PUSHBULLET_API_KEY")

	if symbols == "" {
		symbols = os.Getenv("TRADING_SYMBOLS")
	}
	if symbols == "" {
		symbols = "SPY"
	}
	cfg.Symbols = parseSymbols(symbols)

	if targetFraction == "" {
		targetFraction = os.Getenv("TARGET_FRACTION")
	}
	if targetFraction == "" {
		targetFraction = "0.10"
	}
	fraction, err := decimal.NewFromString(targetFraction)
	if err != nil {
		return cfg, fmt.Errorf("invalid target fraction %q: %w", targetFraction, err)
	}
	cfg.TargetFraction = fraction

	notional, err := decimal.NewFromString(maxNotional)
	if err != nil {
		return cfg, fmt.Errorf("invalid max notional %q: %w", maxNotional, err)
	}
	cfg.MaxNotional = notional

	if baseURL == "" {
		baseURL = os.Getenv("ALPACA_BASE_URL")
	}
	if baseURL == "" {
		baseURL = "https://paper-api.alpaca.markets"
	}
	cfg.BaseURL = baseURL

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func parseSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, part := range parts {
		symbol := strings.ToUpper(strings.TrimSpace(part))
		if symbol != "" {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}

func validate(cfg Config) error {
	if len(cfg.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return fmt.Errorf("APCA_API_KEY_ID and APCA_API_SECRET_KEY are required")
	}
	if cfg.Strategy != "crossover" && cfg.Strategy != "momentum" {
		return fmt.Errorf("invalid strategy: %s", cfg.Strategy)
	}
	if cfg.Interval < time.Minute {
		return fmt.Errorf("interval must be >= 1m")
	}
	if cfg.SymbolPause < 0 {
		return fmt.Errorf("symbol-pause must be >= 0")
	}
	if cfg.TargetFraction.Sign() <= 0 || cfg.TargetFraction.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("target fraction must be in (0, 1]")
	}
	if cfg.MaxNotional.Sign() < 0 {
		return fmt.Errorf("max-notional must be >= 0")
	}
	if cfg.OrderType != "market" && cfg.OrderType != "limit" {
		return fmt.Errorf("invalid order type: %s", cfg.OrderType)
	}
	if cfg.TimeInForce != "day" && cfg.TimeInForce != "gtc" {
		return fmt.Errorf("invalid time in force: %s", cfg.TimeInForce)
	}
	if cfg.SMAFast <= 1 {
		return fmt.Errorf("sma-fast must be > 1")
	}
	if cfg.SMASlow <= cfg.SMAFast {
		return fmt.Errorf("sma-slow must be > sma-fast")
	}
	if cfg.ROCPeriod <= 0 {
		return fmt.Errorf("roc-period must be > 0")
	}
	if cfg.DecisionsPath == "" {
		return fmt.Errorf("decisions-path is required")
	}
	return nil
}

func loadDotEnvIfPresent(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	// godotenv leaves variables already exported untouched.
	if err := godotenv.Load(path); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", path, err)
	}
}
