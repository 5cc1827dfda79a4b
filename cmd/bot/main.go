package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"trendbot/internal/broker"
	"trendbot/internal/config"
	"trendbot/internal/engine"
	"trendbot/internal/md"
	"trendbot/internal/metrics"
	"trendbot/internal/notify"
	"trendbot/internal/risk"
	"trendbot/internal/scheduler"
	"trendbot/internal/strategy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logFile, err := setupLogOutput(cfg.LogPath)
	if err != nil {
		log.Fatalf("log output error: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	runID := generateRunID()
	decisions, err := engine.NewDecisionLogger(cfg.DecisionsPath, runID)
	if err != nil {
		log.Fatalf("decision logger error: %v", err)
	}
	defer func() {
		if err := decisions.Close(); err != nil {
			log.Printf("failed to close decision logger: %v", err)
		}
	}()

	strategyImpl, err := strategy.ForName(cfg.Strategy, cfg.ROCThreshold)
	if err != nil {
		log.Fatalf("strategy error: %v", err)
	}

	brokerClient := broker.New(cfg.APIKey, cfg.APISecret, cfg.BaseURL)
	barsClient := md.New(cfg.APIKey, cfg.APISecret, cfg.Feed)

	var notifier notify.Notifier = notify.Nop{}
	if cfg.PushToken != "" {
		notifier = notify.NewPushbullet(cfg.PushToken)
	} else {
		slog.Warn("PUSHBULLET_API_KEY not set, notifications disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalChan
		log.Printf("shutdown signal received")
		cancel()
	}()

	if _, err := brokerClient.Account(ctx); err != nil {
		log.Fatalf("broker account check failed: %v", err)
	}

	metricsSrv := metrics.Serve(cfg.MetricsAddr)
	defer metricsSrv.Close()

	gate := risk.Gate{}
	engineImpl := engine.New(cfg, strategyImpl, gate, brokerClient, barsClient, notifier, decisions)

	startupMsg := fmt.Sprintf("Trading bot started. Monitoring: %s", strings.Join(cfg.Symbols, ", "))
	if err := notifier.Send(notify.DefaultTitle, startupMsg); err != nil {
		slog.Warn("startup notification failed", "error", err)
	}

	log.Printf("starting bot strategy=%s symbols=%s interval=%s run_id=%s", cfg.Strategy, strings.Join(cfg.Symbols, ","), cfg.Interval, runID)

	sched := scheduler.NewInterval(ctx, cfg.Interval)
	sched.RunImmediately = true
	sched.Start(func() {
		if _, err := engineImpl.RunPass(ctx); err != nil && ctx.Err() == nil {
			slog.Error("evaluation pass failed", "error", err)
		}
	})

	log.Printf("bot shutdown complete")
}

func setupLogOutput(path string) (*os.File, error) {
	if strings.TrimSpace(path) == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
		return nil, nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stdout, file)
	log.SetOutput(mw)
	slog.SetDefault(slog.New(slog.NewTextHandler(mw, nil)))
	return file, nil
}

func generateRunID() string {
	timestamp := time.Now().UTC().Format("20060102T150405")
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return timestamp
	}
	return timestamp + "-" + hex.EncodeToString(randomBytes)
}
