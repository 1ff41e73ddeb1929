// Package filter implements the authoritative critical filter gate: seven
// boolean rules that decide whether a token may enter the watchlist. The
// gate is independent from, and stricter than, the composite liquidity
// score; it is a pure function of its inputs and the supplied thresholds.
package filter

// Thresholds configures the seven critical filter rules. Values are passed
// explicitly at call time so tests and deployments can vary them without
// process-wide state.
type Thresholds struct {
	AllowHoneypot         bool
	MinLPLockedPct        float64
	MinConcentrationScore float64
	MinLiquidityUSD       float64
	MaxBuyTaxPct          float64
	MaxSellTaxPct         float64
	AllowMintable         bool
}

// DefaultThresholds returns the standard screening thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AllowHoneypot:         false,
		MinLPLockedPct:        30,
		MinConcentrationScore: 50,
		MinLiquidityUSD:       20_000,
		MaxBuyTaxPct:          10,
		MaxSellTaxPct:         10,
		AllowMintable:         false,
	}
}

// StrictThresholds returns the tighter production profile used once a
// watchlist is established.
func StrictThresholds() Thresholds {
	return Thresholds{
		AllowHoneypot:         false,
		MinLPLockedPct:        60,
		MinConcentrationScore: 60,
		MinLiquidityUSD:       50_000,
		MaxBuyTaxPct:          10,
		MaxSellTaxPct:         10,
		AllowMintable:         false,
	}
}
