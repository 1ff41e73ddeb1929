package filter

import (
	"fmt"

	"rugscreen/internal/analysis"
	"rugscreen/internal/domain"
)

// ReasonOracleDataMissing is reported when the gate cannot run because a
// safety-critical oracle field is unknown.
const ReasonOracleDataMissing = "goplus_data_missing_or_invalid"

// Apply evaluates the seven critical filters against a token's security
// profile and pair list.
//
// If any of is_honeypot, buy_tax or sell_tax is unknown the gate returns
// PENDING instead of guessing: an oracle outage must never read as a clean
// PASS. Concentration score and liquidity are still populated in the metrics
// for observability.
//
// Otherwise all seven rules are evaluated unconditionally, each contributing
// at most one reason. Status is PASS iff no reasons accumulated.
func Apply(profile domain.SecurityProfile, pairs []domain.Pair, th Thresholds) domain.FilterResult {
	concentration := analysis.ScoreConcentration(pairs)

	var liquidityUSD float64
	if main, ok := domain.MainPair(pairs); ok {
		liquidityUSD = main.LiquidityUSD
	}

	if !profile.SafetyFieldsKnown() {
		return domain.FilterResult{
			Status:  domain.FilterPending,
			Reasons: []string{ReasonOracleDataMissing},
			Metrics: domain.FilterMetrics{
				ConcentrationScore: concentration.Score,
				LiquidityUSD:       liquidityUSD,
			},
		}
	}

	var reasons []string

	// 1. Honeypot flag.
	if *profile.IsHoneypot && !th.AllowHoneypot {
		reasons = append(reasons, "honeypot_detected")
	}

	// 2. LP locked percentage.
	if profile.LPLockedPct < th.MinLPLockedPct {
		reasons = append(reasons, fmt.Sprintf("lp_locked_too_low_%.1f%%", profile.LPLockedPct))
	}

	// 3. Concentration score.
	if concentration.Score < th.MinConcentrationScore {
		reasons = append(reasons, fmt.Sprintf("concentration_too_low_%.1f", concentration.Score))
	}

	// 4. Main pair liquidity.
	if liquidityUSD < th.MinLiquidityUSD {
		reasons = append(reasons, fmt.Sprintf("liquidity_too_low_$%.0f", liquidityUSD))
	}

	// 5. Buy tax.
	if *profile.BuyTaxPct > th.MaxBuyTaxPct {
		reasons = append(reasons, fmt.Sprintf("buy_tax_too_high_%.1f%%", *profile.BuyTaxPct))
	}

	// 6. Sell tax.
	if *profile.SellTaxPct > th.MaxSellTaxPct {
		reasons = append(reasons, fmt.Sprintf("sell_tax_too_high_%.1f%%", *profile.SellTaxPct))
	}

	// 7. Mintability. An unreported flag counts as mintable: minting is the
	// cheapest rug vector, so absence of evidence is not evidence of absence.
	if !th.AllowMintable {
		if profile.IsMintable == nil {
			reasons = append(reasons, "mintable_status_unknown")
		} else if *profile.IsMintable {
			reasons = append(reasons, "token_is_mintable")
		}
	}

	status := domain.FilterPass
	if len(reasons) > 0 {
		status = domain.FilterFail
	}

	lpLocked := profile.LPLockedPct
	return domain.FilterResult{
		Status:  status,
		Reasons: reasons,
		Metrics: domain.FilterMetrics{
			IsHoneypot:         profile.IsHoneypot,
			LPLockedPct:        &lpLocked,
			ConcentrationScore: concentration.Score,
			LiquidityUSD:       liquidityUSD,
			BuyTaxPct:          profile.BuyTaxPct,
			SellTaxPct:         profile.SellTaxPct,
			IsMintable:         profile.IsMintable,
		},
	}
}
