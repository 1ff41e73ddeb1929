package evmrpc

import (
	"context"
	"math/big"

	"rugscreen/internal/domain"
)

// KnownLockers maps well-known locker and burn addresses to display
// names. LP tokens held by these addresses count as locked supply.
var KnownLockers = map[string]string{
	"0xc765bddb93b0d1c1a88282ba0fa6b2d00e3e0c83": "UNCX",
	"0x407993575c91ce7643a4d4ccacc9a98c36ee1bbe": "PinkLock",
	"0x3f4d6bf08cb7a003488ef082102c2e6418a4551e": "Team Finance",
	"0x9a6d6a0bb0a06dae58b5b3d8b4b4f4e5d8e8b5a5": "TrustSwap",
	"0x000000000000000000000000000000000000dead": "BURN",
	"0x0000000000000000000000000000000000000000": "BURN",
}

// LPSnapshot reads the LP token's total supply and its balance at each
// known locker address. A failed totalSupply read marks the snapshot
// unavailable rather than failing the whole evaluation; individual
// balance read failures are treated as a zero balance at that locker.
func (c *Client) LPSnapshot(ctx context.Context, pairAddress string) domain.LPSupplySnapshot {
	snap := domain.LPSupplySnapshot{
		PairAddress:    pairAddress,
		LockedBalances: make(map[string]float64),
		LockerNames:    make(map[string]string),
	}

	supply, err := c.TotalSupply(ctx, pairAddress)
	if err != nil || supply == nil {
		snap.SupplyUnavailable = true
		return snap
	}
	snap.TotalSupply = bigToFloat(supply)

	for addr, name := range KnownLockers {
		bal, err := c.BalanceOf(ctx, pairAddress, addr)
		if err != nil || bal == nil || bal.Sign() == 0 {
			continue
		}
		snap.LockedBalances[addr] = bigToFloat(bal)
		snap.LockerNames[addr] = name
	}

	return snap
}

// bigToFloat converts raw token units to float64. Lock percentages are
// ratios of same-denominated values, so precision loss cancels out.
func bigToFloat(n *big.Int) float64 {
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}
