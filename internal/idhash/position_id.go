// Package idhash computes deterministic record identifiers so that
// re-running a cycle over the same inputs never creates duplicate rows.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputePositionID computes a deterministic position_id using SHA256.
// Formula: SHA256(token_address|pair_address|opened_at_ms)
// Returns hex-encoded hash (64 characters).
func ComputePositionID(tokenAddress, pairAddress string, openedAtMs int64) string {
	data := fmt.Sprintf("%s|%s|%d", tokenAddress, pairAddress, openedAtMs)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeTokenID computes a deterministic identifier for a token on a
// chain. Formula: SHA256(chain_id|token_address)
func ComputeTokenID(chainID, tokenAddress string) string {
	data := fmt.Sprintf("%s|%s", chainID, tokenAddress)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
