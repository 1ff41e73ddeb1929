package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rugscreen/internal/domain"
	"rugscreen/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// Insert adds a new token. Returns ErrDuplicateKey if the address exists.
func (s *TokenStore) Insert(ctx context.Context, t *domain.Token) error {
	query := `
		INSERT INTO tokens (
			address, chain_id, dexscreener_url, discovered_at,
			graduated, consecutive_passes, last_security_check_at, last_filter_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		t.Address,
		t.ChainID,
		t.DexscreenerURL,
		t.DiscoveredAt,
		t.Graduated,
		t.ConsecutivePasses,
		t.LastSecurityCheckAt,
		string(t.LastFilterStatus),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// GetByAddress retrieves a token by address. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByAddress(ctx context.Context, address string) (*domain.Token, error) {
	query := tokenSelect + ` WHERE address = $1`

	row := s.pool.QueryRow(ctx, query, address)
	t, err := scanToken(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token by address: %w", err)
	}
	return t, nil
}

// GetAll retrieves all tracked tokens, ordered by discovered_at ASC.
func (s *TokenStore) GetAll(ctx context.Context) ([]*domain.Token, error) {
	query := tokenSelect + ` ORDER BY discovered_at ASC, address ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all tokens: %w", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

// GetGraduated retrieves all graduated tokens, ordered by discovered_at ASC.
func (s *TokenStore) GetGraduated(ctx context.Context) ([]*domain.Token, error) {
	query := tokenSelect + ` WHERE graduated ORDER BY discovered_at ASC, address ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get graduated tokens: %w", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

// UpdateEvaluation persists the outcome of a screening cycle.
func (s *TokenStore) UpdateEvaluation(ctx context.Context, address string, state domain.GraduationState, status domain.FilterStatus) error {
	if !status.IsValid() {
		return storage.ErrInvalidInput
	}

	query := `
		UPDATE tokens
		SET graduated = $2,
		    consecutive_passes = $3,
		    last_security_check_at = $4,
		    last_filter_status = $5
		WHERE address = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		address,
		state.Graduated,
		state.ConsecutivePasses,
		state.LastSecurityCheckAt,
		string(status),
	)
	if err != nil {
		return fmt.Errorf("update token evaluation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const tokenSelect = `
	SELECT address, chain_id, dexscreener_url, discovered_at,
	       graduated, consecutive_passes, last_security_check_at, last_filter_status, created_at
	FROM tokens
`

// scanToken scans a single row into a Token.
func scanToken(row pgx.Row) (*domain.Token, error) {
	var t domain.Token
	var statusStr string

	err := row.Scan(
		&t.Address,
		&t.ChainID,
		&t.DexscreenerURL,
		&t.DiscoveredAt,
		&t.Graduated,
		&t.ConsecutivePasses,
		&t.LastSecurityCheckAt,
		&statusStr,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.LastFilterStatus = domain.FilterStatus(statusStr)
	return &t, nil
}

// scanTokens scans multiple rows into a slice of Token.
func scanTokens(rows pgx.Rows) ([]*domain.Token, error) {
	var tokens []*domain.Token

	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token row: %w", err)
		}
		tokens = append(tokens, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token rows: %w", err)
	}

	return tokens, nil
}
