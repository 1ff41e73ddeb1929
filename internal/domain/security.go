package domain

// SecurityProfile is a per-token snapshot from the GoPlus security oracle.
// Pointer fields distinguish "unknown" (absent or malformed source data) from
// a genuine zero value. Consumers must not coerce nil into a safe default;
// the critical filter gate turns unknown safety fields into PENDING.
type SecurityProfile struct {
	IsHoneypot     *bool    // nil if oracle did not report the flag
	IsMintable     *bool    // nil if unknown
	BuyTaxPct      *float64 // buy tax in percent, nil if unknown
	SellTaxPct     *float64 // sell tax in percent, nil if unknown
	LPLockedPct    float64  // % of LP supply locked or burned, 0 if unreported
	HolderCount    *int     // total holders, nil if unknown
	TopHolderPct   *float64 // largest non-contract wallet %, nil if unknown
	OwnerRenounced *bool    // true if ownership renounced, nil if unknown
	IsProxy        *bool    // true if upgradeable proxy contract, nil if unknown
	FetchedAt      int64    // fetch timestamp (Unix ms)
}

// SafetyFieldsKnown reports whether the three safety-critical fields the
// filter gate depends on are all present.
func (p SecurityProfile) SafetyFieldsKnown() bool {
	return p.IsHoneypot != nil && p.BuyTaxPct != nil && p.SellTaxPct != nil
}

// LPSupplySnapshot is an on-chain balance snapshot of a liquidity-pool token
// across the known locker and burn addresses, supplied by the EVM RPC
// collaborator. The lock verifier classifies it without further I/O.
type LPSupplySnapshot struct {
	PairAddress       string
	TotalSupply       float64            // LP token total supply (raw units)
	LockedBalances    map[string]float64 // balance per locker/burn address
	LockerNames       map[string]string  // address -> locker identity
	SupplyUnavailable bool               // totalSupply() call failed (non-standard LP token)
}
