// Package memory provides in-memory store implementations used in tests
// and in single-process runs without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"rugscreen/internal/domain"
	"rugscreen/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Token // keyed by token address
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		data: make(map[string]*domain.Token),
	}
}

// Insert adds a new token. Returns ErrDuplicateKey if the address exists.
func (s *TokenStore) Insert(_ context.Context, t *domain.Token) error {
	if t == nil || t.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.Address]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	tokenCopy := *t
	s.data[t.Address] = &tokenCopy
	return nil
}

// GetByAddress retrieves a token by address. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByAddress(_ context.Context, address string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	tokenCopy := *t
	return &tokenCopy, nil
}

// GetAll retrieves all tracked tokens, ordered by discovered_at ASC.
func (s *TokenStore) GetAll(_ context.Context) ([]*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Token, 0, len(s.data))
	for _, t := range s.data {
		tokenCopy := *t
		result = append(result, &tokenCopy)
	}

	sortTokens(result)
	return result, nil
}

// GetGraduated retrieves all graduated tokens, ordered by discovered_at ASC.
func (s *TokenStore) GetGraduated(_ context.Context) ([]*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Token
	for _, t := range s.data {
		if t.Graduated {
			tokenCopy := *t
			result = append(result, &tokenCopy)
		}
	}

	sortTokens(result)
	return result, nil
}

// UpdateEvaluation persists the outcome of a screening cycle.
func (s *TokenStore) UpdateEvaluation(_ context.Context, address string, state domain.GraduationState, status domain.FilterStatus) error {
	if !status.IsValid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.data[address]
	if !exists {
		return storage.ErrNotFound
	}

	t.Graduated = state.Graduated
	t.ConsecutivePasses = state.ConsecutivePasses
	t.LastSecurityCheckAt = state.LastSecurityCheckAt
	t.LastFilterStatus = status
	return nil
}

func sortTokens(tokens []*domain.Token) {
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].DiscoveredAt != tokens[j].DiscoveredAt {
			return tokens[i].DiscoveredAt < tokens[j].DiscoveredAt
		}
		return tokens[i].Address < tokens[j].Address
	})
}

// Verify interface compliance at compile time.
var _ storage.TokenStore = (*TokenStore)(nil)
