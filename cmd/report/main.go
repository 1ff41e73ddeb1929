// Package main prints a point-in-time screening report: graduation
// statistics, the graduated watchlist with its latest snapshot data,
// and the paper trading ledger.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"rugscreen/internal/config"
	"rugscreen/internal/domain"
	"rugscreen/internal/graduation"
	"rugscreen/internal/metrics"
	"rugscreen/internal/storage"
	chstore "rugscreen/internal/storage/clickhouse"
	pgstore "rugscreen/internal/storage/postgres"
)

func main() {
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (defaults to DATABASE_URL)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (defaults to CLICKHOUSE_URL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *postgresDSN == "" {
		*postgresDSN = cfg.PostgresDSN
	}
	if *clickhouseDSN == "" {
		*clickhouseDSN = cfg.ClickhouseDSN
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	tokenStore := pgstore.NewTokenStore(pool)
	positionStore := pgstore.NewPositionStore(pool)

	// Snapshot history is optional; the report degrades to the Postgres
	// view when ClickHouse is not configured.
	var snapshotStore storage.SnapshotStore
	if *clickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to clickhouse: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()
		snapshotStore = chstore.NewSnapshotStore(conn)
	}

	if err := run(ctx, tokenStore, snapshotStore, positionStore); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, tokens storage.TokenStore, snapshots storage.SnapshotStore, positions storage.PositionStore) error {
	all, err := tokens.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("list tokens: %w", err)
	}

	printSummary(graduation.Summarize(all))
	if err := printWatchlist(ctx, all, snapshots); err != nil {
		return err
	}
	return printLedger(ctx, all, positions)
}

func printSummary(s graduation.Summary) {
	fmt.Println("=== Graduation Summary ===")
	fmt.Printf("  Tracked tokens:    %d\n", s.Total)
	fmt.Printf("  Graduated:         %d (%.1f%%)\n", s.Graduated, s.GraduationRatePct)
	fmt.Printf("  In progress:       %d\n", s.InProgress)
	fmt.Printf("  New:               %d\n", s.New)
	fmt.Printf("  Est. oracle calls: %d/day\n", s.EstDailyOracleCalls)
}

func printWatchlist(ctx context.Context, all []*domain.Token, snapshots storage.SnapshotStore) error {
	fmt.Println("\n=== Graduated Watchlist ===")

	count := 0
	for _, t := range all {
		if !t.Graduated {
			continue
		}
		count++

		line := fmt.Sprintf("  %-12s %s  passes=%d  status=%s",
			t.ChainID, t.Address, t.ConsecutivePasses, t.LastFilterStatus)

		if snapshots != nil {
			history, err := snapshots.GetByToken(ctx, t.Address)
			if err != nil {
				return fmt.Errorf("snapshots for %s: %w", t.Address, err)
			}
			if len(history) > 0 {
				latest := history[len(history)-1]
				line += fmt.Sprintf("  liq=$%.0f  score=%d  at=%s",
					latest.LiquidityUSD, latest.CompositeScore,
					time.UnixMilli(latest.TimestampMs).UTC().Format(time.RFC3339))
			}
		}
		fmt.Println(line)
	}
	if count == 0 {
		fmt.Println("  (none)")
	}
	return nil
}

func printLedger(ctx context.Context, all []*domain.Token, positions storage.PositionStore) error {
	fmt.Println("\n=== Paper Trading ===")

	var everything []*domain.Position
	for _, t := range all {
		posns, err := positions.GetByToken(ctx, t.Address)
		if err != nil {
			return fmt.Errorf("positions for %s: %w", t.Address, err)
		}
		everything = append(everything, posns...)
	}

	var open int
	for _, p := range everything {
		switch p.Status {
		case domain.PositionOpen:
			open++
			fmt.Printf("  OPEN   %-8s %s  cost=$%s  entry=%s\n",
				p.Symbol, p.TokenAddress, p.CostUSD.StringFixed(2), p.EntryPriceUSD.String())
		case domain.PositionClosed:
			if p.PnLUSD != nil {
				fmt.Printf("  CLOSED %-8s %s  pnl=$%s  reason=%s\n",
					p.Symbol, p.TokenAddress, p.PnLUSD.StringFixed(2), p.ExitReason)
			}
		}
	}

	perf := metrics.Summarize(everything)
	fmt.Printf("\n  Open: %d  Closed: %d  Win rate: %.0f%%\n", open, perf.TotalTrades, perf.WinRate*100)
	fmt.Printf("  Realized PnL: $%.2f  Max drawdown: $%.2f  Worst loss streak: %d\n",
		perf.RealizedPnL, perf.MaxDrawdown, perf.MaxConsecutiveLosses)
	return nil
}
