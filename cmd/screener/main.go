// Package main runs the continuous screening loop: discover newly
// promoted tokens, evaluate the tracked set against the critical
// filters, and paper trade the graduates.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"rugscreen/internal/alerts"
	"rugscreen/internal/config"
	"rugscreen/internal/dexscreener"
	"rugscreen/internal/domain"
	"rugscreen/internal/evmrpc"
	"rugscreen/internal/goplus"
	"rugscreen/internal/observability"
	"rugscreen/internal/paper"
	"rugscreen/internal/screener"
	"rugscreen/internal/storage"
	chstore "rugscreen/internal/storage/clickhouse"
	"rugscreen/internal/storage/memory"
	"rugscreen/internal/storage/migrations"
	pgstore "rugscreen/internal/storage/postgres"
)

func main() {
	interval := flag.Duration("interval", time.Hour, "Time between screening cycles")
	once := flag.Bool("once", false, "Run a single cycle and exit")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("load config")
	}
	logger := newLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()

		sig = <-sigCh
		logger.Warn().Str("signal", sig.String()).Msg("forcing immediate shutdown")
		os.Exit(1)
	}()

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, logger)
	}

	app, err := buildApp(ctx, cfg, *useMemory, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer app.close()

	if err := app.runLoop(ctx, *interval, *once); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("screening loop failed")
	}
	logger.Info().Msg("shutdown complete")
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	logger.Info().Str("addr", addr).Msg("metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server failed")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}

// app wires the screening loop's collaborators together.
type app struct {
	logger    zerolog.Logger
	discovery *screener.Discovery
	screener  *screener.Screener
	trader    *paper.Trader
	notifier  *alerts.Telegram

	closers []func()
}

func buildApp(ctx context.Context, cfg *config.Config, useMemory bool, logger zerolog.Logger) (*app, error) {
	a := &app{logger: logger}

	var (
		tokenStore    storage.TokenStore = memory.NewTokenStore()
		snapshotStore storage.SnapshotStore
		positionStore storage.PositionStore = memory.NewPositionStore()
	)

	if !useMemory {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			a.close()
			return nil, err
		}
		tokenStore = pgstore.NewTokenStore(pool)
		positionStore = pgstore.NewPositionStore(pool)
	}

	// Snapshot history goes to ClickHouse when configured; without it the
	// screener still runs, just without trend data.
	switch {
	case useMemory:
		snapshotStore = memory.NewSnapshotStore()
	case cfg.ClickhouseDSN != "":
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = conn.Close() })
		snapshotStore = chstore.NewSnapshotStore(conn)
	default:
		logger.Warn().Msg("CLICKHOUSE_URL not set, snapshot history disabled")
	}

	notifier, err := alerts.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	if err != nil {
		a.close()
		return nil, err
	}
	a.notifier = notifier

	dex := dexscreener.NewClient(cfg.DexscreenerBaseURL)
	oracle := goplus.NewClient(cfg.GoplusBaseURL)
	rpc := evmrpc.NewClient(cfg.EVMRPCURL)

	a.discovery = screener.NewDiscovery(dex, tokenStore, cfg.TargetChains, logger)
	a.screener = screener.New(screener.Config{
		Chains:       cfg.TargetChains,
		Thresholds:   cfg.Thresholds,
		Graduation:   cfg.Graduation,
		TradeSizeUSD: cfg.TradeSizeUSD,
		Workers:      cfg.CycleWorkers,
	}, dex, oracle, rpc, tokenStore, snapshotStore, notifier, logger)

	traderCfg := paper.DefaultConfig()
	traderCfg.StartingBalance = decimal.NewFromFloat(cfg.StartingBalance)
	traderCfg.MaxPositionUSD = decimal.NewFromFloat(cfg.MaxPositionUSD)
	traderCfg.MaxPositions = cfg.MaxPositions
	a.trader = paper.NewTrader(traderCfg, positionStore, logger)

	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) runLoop(ctx context.Context, interval time.Duration, once bool) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		a.runCycle(ctx)
		if once {
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// runCycle executes one discovery plus screening pass. Failures inside a
// cycle are logged and absorbed so the loop survives transient outages.
func (a *app) runCycle(ctx context.Context) {
	added, err := a.discovery.Run(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("discovery failed")
	} else if added > 0 {
		a.logger.Info().Int("added", added).Msg("discovery complete")
	}

	result, err := a.screener.RunCycle(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("screening cycle failed")
		return
	}

	a.notifier.CycleSummary(result.Evaluated, result.Graduated, result.Demoted, result.Failed)
	a.enterPositions(ctx, result)
	a.exitPositions(ctx, result)
}

// enterPositions opens paper positions for graduated tokens that are
// still passing. Entry guard rejections are expected and only logged.
func (a *app) enterPositions(ctx context.Context, result *screener.CycleResult) {
	nowMs := time.Now().UnixMilli()
	for _, eval := range result.Evaluations {
		if !eval.Token.Graduated || eval.Token.LastFilterStatus != domain.FilterPass {
			continue
		}
		main, ok := domain.MainPair(eval.Pairs)
		if !ok {
			continue
		}
		if err := a.trader.RevalidateEntry(main, main, eval.Analysis.EvaluatedAt, nowMs); err != nil {
			a.logger.Debug().Err(err).Str("token", eval.Token.Address).Msg("entry revalidation failed")
			continue
		}

		_, err := a.trader.OpenPosition(ctx, eval.Token, main, nowMs)
		switch {
		case err == nil:
		case errors.Is(err, paper.ErrAlreadyOpen),
			errors.Is(err, paper.ErrMaxPositionsOpen),
			errors.Is(err, paper.ErrInsufficientFunds):
			// Normal back-pressure, nothing to do.
		default:
			a.logger.Debug().Err(err).Str("token", eval.Token.Address).Msg("entry rejected")
		}
	}
}

func (a *app) exitPositions(ctx context.Context, result *screener.CycleResult) {
	closed, err := a.trader.CheckExits(ctx, result.Prices, time.Now().UnixMilli())
	if err != nil {
		a.logger.Error().Err(err).Msg("exit check failed")
		return
	}
	for _, pos := range closed {
		a.notifier.PositionClosed(pos)
	}
}
