package clickhouse

import (
	"context"
	"fmt"

	"rugscreen/internal/domain"
	"rugscreen/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using ClickHouse.
type SnapshotStore struct {
	conn *Conn
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(conn *Conn) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// InsertBulk adds multiple snapshots. Fails entire batch on duplicate
// (token_address, timestamp_ms).
func (s *SnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.EvaluationSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		tokenAddress string
		timestampMs  int64
	}
	seen := make(map[key]struct{})
	for _, snap := range snapshots {
		k := key{snap.TokenAddress, snap.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, snap := range snapshots {
		exists, err := s.exists(ctx, snap.TokenAddress, snap.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO evaluation_snapshots (
			token_address, chain_id, timestamp_ms, liquidity_usd, volume_24h_usd,
			price_usd, pair_count, concentration_score, composite_score,
			filter_status, filter_reasons
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snapshots {
		err = batch.Append(
			snap.TokenAddress, snap.ChainID, uint64(snap.TimestampMs),
			snap.LiquidityUSD, snap.Volume24hUSD, snap.PriceUSD,
			uint32(snap.PairCount), snap.ConcentrationScore, int32(snap.CompositeScore),
			string(snap.FilterStatus), snap.FilterReasons,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByToken retrieves all snapshots for a token, ordered by timestamp ASC.
func (s *SnapshotStore) GetByToken(ctx context.Context, tokenAddress string) ([]*domain.EvaluationSnapshot, error) {
	query := snapshotSelect + `
		WHERE token_address = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("query by token: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// GetByTimeRange retrieves snapshots for a token within [start, end] (inclusive).
func (s *SnapshotStore) GetByTimeRange(ctx context.Context, tokenAddress string, start, end int64) ([]*domain.EvaluationSnapshot, error) {
	query := snapshotSelect + `
		WHERE token_address = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenAddress, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// exists checks if a snapshot with the given key exists.
func (s *SnapshotStore) exists(ctx context.Context, tokenAddress string, timestampMs int64) (bool, error) {
	query := `
		SELECT count(*) FROM evaluation_snapshots
		WHERE token_address = ? AND timestamp_ms = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, tokenAddress, uint64(timestampMs)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

const snapshotSelect = `
	SELECT token_address, chain_id, timestamp_ms, liquidity_usd, volume_24h_usd,
	       price_usd, pair_count, concentration_score, composite_score,
	       filter_status, filter_reasons
	FROM evaluation_snapshots
`

// scanSnapshots scans multiple rows.
func scanSnapshots(rows chRows) ([]*domain.EvaluationSnapshot, error) {
	var snapshots []*domain.EvaluationSnapshot

	for rows.Next() {
		var snap domain.EvaluationSnapshot
		var timestampMs uint64
		var pairCount uint32
		var compositeScore int32
		var statusStr string

		err := rows.Scan(
			&snap.TokenAddress, &snap.ChainID, &timestampMs,
			&snap.LiquidityUSD, &snap.Volume24hUSD, &snap.PriceUSD,
			&pairCount, &snap.ConcentrationScore, &compositeScore,
			&statusStr, &snap.FilterReasons,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		snap.TimestampMs = int64(timestampMs)
		snap.PairCount = int(pairCount)
		snap.CompositeScore = int(compositeScore)
		snap.FilterStatus = domain.FilterStatus(statusStr)
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snapshots, nil
}
