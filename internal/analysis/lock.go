package analysis

import "rugscreen/internal/domain"

// Lock tier thresholds in percent of LP supply.
const (
	lockedThresholdPct  = 80
	partialThresholdPct = 30
)

// VerifyLock classifies the LP lock status of a pair from an on-chain supply
// snapshot. The snapshot is supplied by the EVM RPC collaborator; this
// function performs no I/O.
//
// A snapshot whose total supply could not be queried (V3 pools, non-standard
// LP tokens) is a distinct failure mode: it yields UNLOCKED with locker
// identity UNABLE_TO_VERIFY rather than an error.
func VerifyLock(snap domain.LPSupplySnapshot) domain.LockResult {
	if snap.SupplyUnavailable {
		return domain.LockResult{
			Locker: domain.LockerUnverifiable,
			Tier:   domain.LockUnlocked,
		}
	}
	if snap.TotalSupply <= 0 {
		return domain.LockResult{Tier: domain.LockUnlocked}
	}

	var totalLocked float64
	locker := ""
	best := 0.0
	for addr, bal := range snap.LockedBalances {
		if bal <= 0 {
			continue
		}
		totalLocked += bal
		// Attribute the lock to the address holding the most LP tokens.
		// Map iteration order is random, so pick by balance, not order.
		if bal > best {
			best = bal
			if name, ok := snap.LockerNames[addr]; ok {
				locker = name
			} else {
				locker = "BURN"
			}
		}
	}

	lockedPct := clamp(totalLocked/snap.TotalSupply*100, 0, 100)

	var tier domain.LockTier
	switch {
	case lockedPct >= lockedThresholdPct:
		tier = domain.LockLocked
	case lockedPct >= partialThresholdPct:
		tier = domain.LockPartial
	default:
		tier = domain.LockUnlocked
	}

	return domain.LockResult{
		IsLocked:  tier != domain.LockUnlocked,
		LockedPct: lockedPct,
		Locker:    locker,
		Tier:      tier,
	}
}
