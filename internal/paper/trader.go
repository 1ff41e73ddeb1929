// Package paper simulates trading against screened tokens without
// touching real funds. All money arithmetic uses decimals.
package paper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"rugscreen/internal/domain"
	"rugscreen/internal/idhash"
	"rugscreen/internal/observability"
	"rugscreen/internal/storage"
)

// Entry validation errors.
var (
	ErrNoPrice            = errors.New("pair has no usable price")
	ErrMaxPositionsOpen   = errors.New("max open positions reached")
	ErrInsufficientFunds  = errors.New("insufficient paper balance")
	ErrPriceImpactTooHigh = errors.New("estimated price impact too high")
	ErrLiquidityTooLow    = errors.New("pair liquidity below entry minimum")
	ErrAlreadyOpen        = errors.New("token already has an open position")
	ErrStaleQuote         = errors.New("market data older than allowed for entry")
	ErrLiquidityDropped   = errors.New("liquidity dropped too far since signal")
)

// Config controls position sizing and exit rules.
type Config struct {
	StartingBalance decimal.Decimal
	MaxPositionUSD  decimal.Decimal
	MaxPositions    int

	// Exit thresholds as percent returns.
	StopLossPct   decimal.Decimal // negative, e.g. -50
	TakeProfitPct decimal.Decimal // e.g. 100

	// Entry guards.
	MinEntryLiquidityUSD decimal.Decimal
	MaxPriceImpactPct    decimal.Decimal

	// Revalidation guards between signal and execution.
	MaxQuoteAge         time.Duration
	MaxLiquidityDropPct float64
}

// DefaultConfig returns the standard paper trading parameters.
func DefaultConfig() Config {
	return Config{
		StartingBalance:      decimal.NewFromInt(1000),
		MaxPositionUSD:       decimal.NewFromInt(50),
		MaxPositions:         10,
		StopLossPct:          decimal.NewFromInt(-50),
		TakeProfitPct:        decimal.NewFromInt(100),
		MinEntryLiquidityUSD: decimal.NewFromInt(20_000),
		MaxPriceImpactPct:    decimal.NewFromInt(5),
		MaxQuoteAge:          5 * time.Minute,
		MaxLiquidityDropPct:  30,
	}
}

// Trader is the paper trading ledger.
type Trader struct {
	cfg    Config
	store  storage.PositionStore
	logger zerolog.Logger

	mu      sync.Mutex
	balance decimal.Decimal
}

// NewTrader creates a trader with the configured starting balance.
func NewTrader(cfg Config, store storage.PositionStore, logger zerolog.Logger) *Trader {
	return &Trader{
		cfg:     cfg,
		store:   store,
		logger:  logger.With().Str("component", "paper").Logger(),
		balance: cfg.StartingBalance,
	}
}

// Balance returns the current free balance.
func (t *Trader) Balance() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balance
}

// OpenPosition validates the entry and opens a position sized at the
// configured maximum (or the remaining balance if smaller).
func (t *Trader) OpenPosition(ctx context.Context, token *domain.Token, pair domain.Pair, nowMs int64) (*domain.Position, error) {
	if pair.PriceUSD <= 0 {
		return nil, ErrNoPrice
	}

	liquidity := decimal.NewFromFloat(pair.LiquidityUSD)
	if liquidity.LessThan(t.cfg.MinEntryLiquidityUSD) {
		return nil, fmt.Errorf("%w: $%s < $%s", ErrLiquidityTooLow, liquidity.StringFixed(0), t.cfg.MinEntryLiquidityUSD.StringFixed(0))
	}

	open, err := t.store.GetOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open positions: %w", err)
	}
	if len(open) >= t.cfg.MaxPositions {
		return nil, ErrMaxPositionsOpen
	}
	for _, p := range open {
		if p.TokenAddress == token.Address {
			return nil, ErrAlreadyOpen
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	size := t.cfg.MaxPositionUSD
	if t.balance.LessThan(size) {
		size = t.balance
	}
	if size.IsZero() || size.IsNegative() {
		return nil, ErrInsufficientFunds
	}

	impact := PriceImpactPct(size, liquidity)
	if impact.GreaterThan(t.cfg.MaxPriceImpactPct) {
		return nil, fmt.Errorf("%w: %s%% > %s%%", ErrPriceImpactTooHigh, impact.StringFixed(2), t.cfg.MaxPriceImpactPct.StringFixed(0))
	}

	price := decimal.NewFromFloat(pair.PriceUSD)
	pos := &domain.Position{
		PositionID:    idhash.ComputePositionID(token.Address, pair.PairAddress, nowMs),
		TokenAddress:  token.Address,
		ChainID:       pair.ChainID,
		PairAddress:   pair.PairAddress,
		Symbol:        pair.BaseSymbol,
		EntryPriceUSD: price,
		Quantity:      size.Div(price),
		CostUSD:       size,
		Status:        domain.PositionOpen,
		OpenedAt:      nowMs,
	}

	if err := t.store.Insert(ctx, pos); err != nil {
		return nil, fmt.Errorf("persist position: %w", err)
	}
	t.balance = t.balance.Sub(size)
	observability.RecordPositionOpened(t.balance.InexactFloat64())

	t.logger.Info().
		Str("token", token.Address).
		Str("size_usd", size.StringFixed(2)).
		Str("entry_price", price.String()).
		Msg("opened paper position")
	return pos, nil
}

// RevalidateEntry re-checks an entry signal against fresh market data
// before executing. The signal pair is the one the screening decision
// saw; current is a just-refetched quote for the same pair. Rejects
// stale signals and pairs whose liquidity collapsed in between.
func (t *Trader) RevalidateEntry(signal, current domain.Pair, signalAtMs, nowMs int64) error {
	if nowMs-signalAtMs > t.cfg.MaxQuoteAge.Milliseconds() {
		return fmt.Errorf("%w: signal is %dms old", ErrStaleQuote, nowMs-signalAtMs)
	}
	if current.PriceUSD <= 0 {
		return ErrNoPrice
	}
	if signal.LiquidityUSD > 0 {
		dropPct := (signal.LiquidityUSD - current.LiquidityUSD) / signal.LiquidityUSD * 100
		if dropPct > t.cfg.MaxLiquidityDropPct {
			return fmt.Errorf("%w: %.1f%%", ErrLiquidityDropped, dropPct)
		}
	}
	return nil
}

// ClosePosition closes a position at the given price and credits the
// proceeds back to the balance.
func (t *Trader) ClosePosition(ctx context.Context, pos *domain.Position, exitPrice decimal.Decimal, reason string, nowMs int64) (decimal.Decimal, error) {
	pnl := pos.UnrealizedPnL(exitPrice)

	fill := storage.PositionClose{
		ExitPriceUSD: exitPrice,
		PnLUSD:       pnl,
		Reason:       reason,
		ClosedAt:     nowMs,
	}
	if err := t.store.Close(ctx, pos.PositionID, fill); err != nil {
		return decimal.Zero, fmt.Errorf("close position: %w", err)
	}

	t.mu.Lock()
	t.balance = t.balance.Add(pos.CostUSD).Add(pnl)
	balance := t.balance
	t.mu.Unlock()
	observability.RecordPositionClosed(reason, pnl.InexactFloat64(), balance.InexactFloat64())

	t.logger.Info().
		Str("token", pos.TokenAddress).
		Str("reason", reason).
		Str("pnl_usd", pnl.StringFixed(2)).
		Msg("closed paper position")
	return pnl, nil
}

// CheckExits walks the open positions against current prices and closes
// any that hit the stop loss or take profit, or whose pair vanished.
// Tokens absent from prices are left untouched. Returns the closed
// positions with exit fields populated.
func (t *Trader) CheckExits(ctx context.Context, prices map[string]decimal.Decimal, nowMs int64) ([]*domain.Position, error) {
	open, err := t.store.GetOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open positions: %w", err)
	}

	var closed []*domain.Position
	for _, pos := range open {
		price, known := prices[pos.TokenAddress]
		if !known {
			continue
		}

		var reason string
		switch {
		case price.IsZero() || price.IsNegative():
			// Pair gone or price collapsed to nothing.
			reason = domain.ExitRugged
			price = decimal.Zero
		case returnPct(pos.EntryPriceUSD, price).LessThanOrEqual(t.cfg.StopLossPct):
			reason = domain.ExitStopLoss
		case returnPct(pos.EntryPriceUSD, price).GreaterThanOrEqual(t.cfg.TakeProfitPct):
			reason = domain.ExitTakeProfit
		default:
			continue
		}

		pnl, err := t.ClosePosition(ctx, pos, price, reason, nowMs)
		if err != nil {
			return closed, err
		}
		pos.Status = domain.PositionClosed
		pos.ExitReason = reason
		pos.ExitPriceUSD = &price
		pos.PnLUSD = &pnl
		pos.ClosedAt = &nowMs
		closed = append(closed, pos)
	}
	return closed, nil
}

// PriceImpactPct estimates the constant-product price impact of buying
// sizeUSD against a pool holding liquidityUSD across both sides. The
// quote reserve is half the pool, and the impact of a buy of dx against
// reserve R is dx / (R + dx).
func PriceImpactPct(sizeUSD, liquidityUSD decimal.Decimal) decimal.Decimal {
	if liquidityUSD.IsZero() || liquidityUSD.IsNegative() {
		return decimal.NewFromInt(100)
	}
	reserve := liquidityUSD.Div(decimal.NewFromInt(2))
	return sizeUSD.Div(reserve.Add(sizeUSD)).Mul(decimal.NewFromInt(100))
}

// returnPct is the percent return from entry to price.
func returnPct(entry, price decimal.Decimal) decimal.Decimal {
	if entry.IsZero() {
		return decimal.Zero
	}
	return price.Sub(entry).Div(entry).Mul(decimal.NewFromInt(100))
}
