package analysis

import (
	"fmt"

	"rugscreen/internal/domain"
)

// Risk band boundaries.
const (
	mediumRiskScore = 30
	highRiskScore   = 60
)

// Built-in liquidity pattern thresholds and points.
const (
	veryLowLiquidityUSD    = 10_000
	lowLiquidityUSD        = 50_000
	veryLowLiquidityPoints = 30
	lowLiquidityPoints     = 15
)

// PatternCheck is a pluggable rugpull pattern matcher over oracle data.
// A check that cannot decide (the relevant field is unknown) reports no match.
type PatternCheck func(profile domain.SecurityProfile) (matched bool, desc string, points int)

// HighTaxCheck flags tokens whose buy or sell tax exceeds 10%.
func HighTaxCheck(p domain.SecurityProfile) (bool, string, int) {
	if p.BuyTaxPct == nil || p.SellTaxPct == nil {
		return false, "", 0
	}
	if *p.BuyTaxPct > 10 || *p.SellTaxPct > 10 {
		return true, fmt.Sprintf("Hidden fee: buy/sell tax %.1f%%/%.1f%%", *p.BuyTaxPct, *p.SellTaxPct), 25
	}
	return false, "", 0
}

// OwnershipCheck flags tokens whose ownership has not been renounced.
func OwnershipCheck(p domain.SecurityProfile) (bool, string, int) {
	if p.OwnerRenounced == nil {
		return false, "", 0
	}
	if !*p.OwnerRenounced {
		return true, "Ownership not renounced", 20
	}
	return false, "", 0
}

// ProxyContractCheck flags upgradeable proxy contracts.
func ProxyContractCheck(p domain.SecurityProfile) (bool, string, int) {
	if p.IsProxy == nil {
		return false, "", 0
	}
	if *p.IsProxy {
		return true, "Proxy contract (upgradeable)", 15
	}
	return false, "", 0
}

// HolderConcentrationCheck flags a single wallet holding over 20% of supply.
func HolderConcentrationCheck(p domain.SecurityProfile) (bool, string, int) {
	if p.TopHolderPct == nil {
		return false, "", 0
	}
	if *p.TopHolderPct > 20 {
		return true, fmt.Sprintf("Single large holder (%.1f%%)", *p.TopHolderPct), 20
	}
	return false, "", 0
}

// DefaultPatternChecks are the oracle-backed checks run when a security
// profile is available.
var DefaultPatternChecks = []PatternCheck{
	HighTaxCheck,
	OwnershipCheck,
	ProxyContractCheck,
	HolderConcentrationCheck,
}

// ScoreRugpull accumulates a heuristic risk score from known scam patterns.
// The liquidity patterns need only the pair list; the pluggable checks run
// against the security profile when one is supplied (nil skips them all).
// The score is additive and monotonic; it is not clamped to 100.
func ScoreRugpull(pairs []domain.Pair, profile *domain.SecurityProfile, checks ...PatternCheck) domain.RugpullResult {
	var patterns []string
	score := 0

	if main, ok := domain.MainPair(pairs); ok {
		// Mutually exclusive: the tighter threshold wins.
		if main.LiquidityUSD < veryLowLiquidityUSD {
			patterns = append(patterns, "Very low liquidity (<$10k)")
			score += veryLowLiquidityPoints
		} else if main.LiquidityUSD < lowLiquidityUSD {
			patterns = append(patterns, "Low liquidity (<$50k)")
			score += lowLiquidityPoints
		}
	}

	if profile != nil {
		if len(checks) == 0 {
			checks = DefaultPatternChecks
		}
		for _, check := range checks {
			if matched, desc, points := check(*profile); matched {
				patterns = append(patterns, desc)
				score += points
			}
		}
	}

	var tier domain.RiskTier
	switch {
	case score < mediumRiskScore:
		tier = domain.RiskLow
	case score < highRiskScore:
		tier = domain.RiskMedium
	default:
		tier = domain.RiskHigh
	}

	return domain.RugpullResult{
		Patterns:  patterns,
		RiskScore: score,
		Tier:      tier,
	}
}
