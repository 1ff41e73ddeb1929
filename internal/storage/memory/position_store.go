package memory

import (
	"context"
	"sort"
	"sync"

	"rugscreen/internal/domain"
	"rugscreen/internal/storage"
)

// PositionStore is an in-memory implementation of storage.PositionStore.
type PositionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Position // keyed by position_id
}

// NewPositionStore creates a new in-memory position store.
func NewPositionStore() *PositionStore {
	return &PositionStore{
		data: make(map[string]*domain.Position),
	}
}

// Insert adds a new position. Returns ErrDuplicateKey if position_id exists.
func (s *PositionStore) Insert(_ context.Context, p *domain.Position) error {
	if p == nil || p.PositionID == "" || p.TokenAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.PositionID]; exists {
		return storage.ErrDuplicateKey
	}

	posCopy := *p
	s.data[p.PositionID] = &posCopy
	return nil
}

// GetByID retrieves a position by its ID. Returns ErrNotFound if not exists.
func (s *PositionStore) GetByID(_ context.Context, positionID string) (*domain.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[positionID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	posCopy := *p
	return &posCopy, nil
}

// GetOpen retrieves all open positions, ordered by opened_at ASC.
func (s *PositionStore) GetOpen(_ context.Context) ([]*domain.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Position
	for _, p := range s.data {
		if p.Status == domain.PositionOpen {
			posCopy := *p
			result = append(result, &posCopy)
		}
	}

	sortPositions(result)
	return result, nil
}

// GetByToken retrieves all positions for a token, ordered by opened_at ASC.
func (s *PositionStore) GetByToken(_ context.Context, tokenAddress string) ([]*domain.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Position
	for _, p := range s.data {
		if p.TokenAddress == tokenAddress {
			posCopy := *p
			result = append(result, &posCopy)
		}
	}

	sortPositions(result)
	return result, nil
}

// Close marks a position closed with the exit fill.
func (s *PositionStore) Close(_ context.Context, positionID string, fill storage.PositionClose) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.data[positionID]
	if !exists {
		return storage.ErrNotFound
	}
	if p.Status == domain.PositionClosed {
		return storage.ErrInvalidInput
	}

	exitPrice := fill.ExitPriceUSD
	pnl := fill.PnLUSD
	closedAt := fill.ClosedAt

	p.Status = domain.PositionClosed
	p.ExitReason = fill.Reason
	p.ExitPriceUSD = &exitPrice
	p.PnLUSD = &pnl
	p.ClosedAt = &closedAt
	return nil
}

func sortPositions(positions []*domain.Position) {
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].OpenedAt != positions[j].OpenedAt {
			return positions[i].OpenedAt < positions[j].OpenedAt
		}
		return positions[i].PositionID < positions[j].PositionID
	})
}

// Verify interface compliance at compile time.
var _ storage.PositionStore = (*PositionStore)(nil)
