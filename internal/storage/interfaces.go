package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"rugscreen/internal/domain"
)

// TokenStore provides access to tracked tokens.
type TokenStore interface {
	// Insert adds a new token. Returns ErrDuplicateKey if the address exists.
	Insert(ctx context.Context, t *domain.Token) error

	// GetByAddress retrieves a token by address. Returns ErrNotFound if not exists.
	GetByAddress(ctx context.Context, address string) (*domain.Token, error)

	// GetAll retrieves all tracked tokens, ordered by discovered_at ASC.
	GetAll(ctx context.Context) ([]*domain.Token, error)

	// GetGraduated retrieves all graduated tokens, ordered by discovered_at ASC.
	GetGraduated(ctx context.Context) ([]*domain.Token, error)

	// UpdateEvaluation persists the outcome of a screening cycle: the new
	// graduation state and the latest filter status. Returns ErrNotFound
	// if the token is not tracked.
	UpdateEvaluation(ctx context.Context, address string, state domain.GraduationState, status domain.FilterStatus) error
}

// SnapshotStore provides access to evaluation_snapshots time-series storage.
type SnapshotStore interface {
	// InsertBulk adds multiple snapshots. Fails entire batch on duplicate
	// (token_address, timestamp_ms).
	InsertBulk(ctx context.Context, snapshots []*domain.EvaluationSnapshot) error

	// GetByToken retrieves all snapshots for a token, ordered by timestamp ASC.
	GetByToken(ctx context.Context, tokenAddress string) ([]*domain.EvaluationSnapshot, error)

	// GetByTimeRange retrieves snapshots for a token within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, tokenAddress string, start, end int64) ([]*domain.EvaluationSnapshot, error)
}

// PositionStore provides access to paper trading positions.
type PositionStore interface {
	// Insert adds a new position. Returns ErrDuplicateKey if position_id exists.
	Insert(ctx context.Context, p *domain.Position) error

	// GetByID retrieves a position by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, positionID string) (*domain.Position, error)

	// GetOpen retrieves all open positions, ordered by opened_at ASC.
	GetOpen(ctx context.Context) ([]*domain.Position, error)

	// GetByToken retrieves all positions for a token, ordered by opened_at ASC.
	GetByToken(ctx context.Context, tokenAddress string) ([]*domain.Position, error)

	// Close marks a position closed with the exit fill. Returns ErrNotFound
	// if the position does not exist, ErrInvalidInput if already closed.
	Close(ctx context.Context, positionID string, fill PositionClose) error
}

// PositionClose carries the exit fill applied when closing a position.
type PositionClose struct {
	ExitPriceUSD decimal.Decimal
	PnLUSD       decimal.Decimal
	Reason       string
	ClosedAt     int64 // Unix timestamp in milliseconds
}
