package memory

import (
	"context"
	"sort"
	"sync"

	"rugscreen/internal/domain"
	"rugscreen/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data []*domain.EvaluationSnapshot
	keys map[snapshotKey]struct{}
}

type snapshotKey struct {
	tokenAddress string
	timestampMs  int64
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		keys: make(map[snapshotKey]struct{}),
	}
}

// InsertBulk adds multiple snapshots. Fails entire batch on duplicate
// (token_address, timestamp_ms).
func (s *SnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.EvaluationSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	for _, snap := range snapshots {
		if snap == nil || snap.TokenAddress == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check the whole batch before mutating anything.
	batch := make(map[snapshotKey]struct{}, len(snapshots))
	for _, snap := range snapshots {
		k := snapshotKey{snap.TokenAddress, snap.TimestampMs}
		if _, exists := s.keys[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batch[k]; exists {
			return storage.ErrDuplicateKey
		}
		batch[k] = struct{}{}
	}

	for _, snap := range snapshots {
		snapCopy := *snap
		snapCopy.FilterReasons = append([]string(nil), snap.FilterReasons...)
		s.data = append(s.data, &snapCopy)
		s.keys[snapshotKey{snap.TokenAddress, snap.TimestampMs}] = struct{}{}
	}
	return nil
}

// GetByToken retrieves all snapshots for a token, ordered by timestamp ASC.
func (s *SnapshotStore) GetByToken(_ context.Context, tokenAddress string) ([]*domain.EvaluationSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EvaluationSnapshot
	for _, snap := range s.data {
		if snap.TokenAddress == tokenAddress {
			snapCopy := *snap
			snapCopy.FilterReasons = append([]string(nil), snap.FilterReasons...)
			result = append(result, &snapCopy)
		}
	}

	sortSnapshots(result)
	return result, nil
}

// GetByTimeRange retrieves snapshots for a token within [start, end] (inclusive).
func (s *SnapshotStore) GetByTimeRange(_ context.Context, tokenAddress string, start, end int64) ([]*domain.EvaluationSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EvaluationSnapshot
	for _, snap := range s.data {
		if snap.TokenAddress == tokenAddress && snap.TimestampMs >= start && snap.TimestampMs <= end {
			snapCopy := *snap
			snapCopy.FilterReasons = append([]string(nil), snap.FilterReasons...)
			result = append(result, &snapCopy)
		}
	}

	sortSnapshots(result)
	return result, nil
}

func sortSnapshots(snaps []*domain.EvaluationSnapshot) {
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].TimestampMs < snaps[j].TimestampMs
	})
}

// Verify interface compliance at compile time.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)
