// Package main runs a single discovery pass: fetch the latest promoted
// token profiles from DexScreener and register unseen tokens for
// screening.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"rugscreen/internal/config"
	"rugscreen/internal/dexscreener"
	"rugscreen/internal/screener"
	"rugscreen/internal/storage/migrations"
	pgstore "rugscreen/internal/storage/postgres"
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("load config")
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to postgres")
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	dex := dexscreener.NewClient(cfg.DexscreenerBaseURL)
	d := screener.NewDiscovery(dex, pgstore.NewTokenStore(pool), cfg.TargetChains, logger)

	added, err := d.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("discovery failed")
	}
	logger.Info().Int("added", added).Msg("discovery complete")
}
