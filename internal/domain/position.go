package domain

import "github.com/shopspring/decimal"

// PositionStatus is the lifecycle state of a paper position.
type PositionStatus string

const (
	PositionOpen   PositionStatus = "OPEN"
	PositionClosed PositionStatus = "CLOSED"
)

// Exit reasons recorded when a position is closed.
const (
	ExitStopLoss   = "STOP_LOSS"
	ExitTakeProfit = "TAKE_PROFIT"
	ExitManual     = "MANUAL"
	ExitRugged     = "RUGGED"
)

// Position is a simulated trade opened against a screened token.
// Money amounts use decimals so P&L arithmetic stays exact.
type Position struct {
	PositionID   string
	TokenAddress string
	ChainID      string
	PairAddress  string
	Symbol       string

	EntryPriceUSD decimal.Decimal
	Quantity      decimal.Decimal
	CostUSD       decimal.Decimal

	Status     PositionStatus
	ExitReason string

	ExitPriceUSD *decimal.Decimal
	PnLUSD       *decimal.Decimal

	OpenedAt int64  // Unix timestamp in milliseconds
	ClosedAt *int64 // Unix timestamp in milliseconds, nil while open
}

// UnrealizedPnL computes profit or loss against the given mark price.
func (p *Position) UnrealizedPnL(priceUSD decimal.Decimal) decimal.Decimal {
	return p.Quantity.Mul(priceUSD).Sub(p.CostUSD)
}
