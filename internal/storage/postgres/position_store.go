package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rugscreen/internal/domain"
	"rugscreen/internal/storage"
)

// PositionStore implements storage.PositionStore using PostgreSQL.
// Money columns are NUMERIC and scan through decimal.Decimal.
type PositionStore struct {
	pool *Pool
}

// NewPositionStore creates a new PositionStore.
func NewPositionStore(pool *Pool) *PositionStore {
	return &PositionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PositionStore = (*PositionStore)(nil)

// Insert adds a new position. Returns ErrDuplicateKey if position_id exists.
func (s *PositionStore) Insert(ctx context.Context, p *domain.Position) error {
	query := `
		INSERT INTO positions (
			position_id, token_address, chain_id, pair_address, symbol,
			entry_price_usd, quantity, cost_usd, status, exit_reason,
			exit_price_usd, pnl_usd, opened_at, closed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := s.pool.Exec(ctx, query,
		p.PositionID,
		p.TokenAddress,
		p.ChainID,
		p.PairAddress,
		p.Symbol,
		p.EntryPriceUSD,
		p.Quantity,
		p.CostUSD,
		string(p.Status),
		p.ExitReason,
		p.ExitPriceUSD,
		p.PnLUSD,
		p.OpenedAt,
		p.ClosedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert position: %w", err)
	}
	return nil
}

// GetByID retrieves a position by its ID. Returns ErrNotFound if not exists.
func (s *PositionStore) GetByID(ctx context.Context, positionID string) (*domain.Position, error) {
	query := positionSelect + ` WHERE position_id = $1`

	row := s.pool.QueryRow(ctx, query, positionID)
	p, err := scanPosition(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get position by id: %w", err)
	}
	return p, nil
}

// GetOpen retrieves all open positions, ordered by opened_at ASC.
func (s *PositionStore) GetOpen(ctx context.Context) ([]*domain.Position, error) {
	query := positionSelect + ` WHERE status = 'OPEN' ORDER BY opened_at ASC, position_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get open positions: %w", err)
	}
	defer rows.Close()

	return scanPositions(rows)
}

// GetByToken retrieves all positions for a token, ordered by opened_at ASC.
func (s *PositionStore) GetByToken(ctx context.Context, tokenAddress string) ([]*domain.Position, error) {
	query := positionSelect + ` WHERE token_address = $1 ORDER BY opened_at ASC, position_id ASC`

	rows, err := s.pool.Query(ctx, query, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("get positions by token: %w", err)
	}
	defer rows.Close()

	return scanPositions(rows)
}

// Close marks a position closed with the exit fill.
func (s *PositionStore) Close(ctx context.Context, positionID string, fill storage.PositionClose) error {
	query := `
		UPDATE positions
		SET status = 'CLOSED',
		    exit_reason = $2,
		    exit_price_usd = $3,
		    pnl_usd = $4,
		    closed_at = $5
		WHERE position_id = $1 AND status = 'OPEN'
	`

	tag, err := s.pool.Exec(ctx, query,
		positionID,
		fill.Reason,
		fill.ExitPriceUSD,
		fill.PnLUSD,
		fill.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("close position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing row from an already closed one.
		if _, err := s.GetByID(ctx, positionID); err != nil {
			return err
		}
		return storage.ErrInvalidInput
	}
	return nil
}

const positionSelect = `
	SELECT position_id, token_address, chain_id, pair_address, symbol,
	       entry_price_usd, quantity, cost_usd, status, exit_reason,
	       exit_price_usd, pnl_usd, opened_at, closed_at
	FROM positions
`

// scanPosition scans a single row into a Position.
func scanPosition(row pgx.Row) (*domain.Position, error) {
	var p domain.Position
	var statusStr string

	err := row.Scan(
		&p.PositionID,
		&p.TokenAddress,
		&p.ChainID,
		&p.PairAddress,
		&p.Symbol,
		&p.EntryPriceUSD,
		&p.Quantity,
		&p.CostUSD,
		&statusStr,
		&p.ExitReason,
		&p.ExitPriceUSD,
		&p.PnLUSD,
		&p.OpenedAt,
		&p.ClosedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = domain.PositionStatus(statusStr)
	return &p, nil
}

// scanPositions scans multiple rows into a slice of Position.
func scanPositions(rows pgx.Rows) ([]*domain.Position, error) {
	var positions []*domain.Position

	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position row: %w", err)
		}
		positions = append(positions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate position rows: %w", err)
	}

	return positions, nil
}
