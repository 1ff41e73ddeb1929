// Package analysis implements the pure scoring functions of the rug screener:
// liquidity concentration, LP lock verification, wash trading detection,
// slippage estimation, rugpull pattern matching and the weighted composite
// score. Every function is side-effect free and total: malformed inputs
// (empty pair lists, zero or negative liquidity, unobtainable supply) map to
// defined worst-case outputs, never to errors or panics.
package analysis

import "rugscreen/internal/domain"

// Liquidity brackets for concentration tiering.
const (
	establishedLiquidityUSD = 10_000_000 // $10M+: multiple venues acceptable
	targetLiquidityUSD      = 500_000    // $500K-$10M: the screening target range
)

// ScoreConcentration computes the liquidity concentration ratio and a 0-100
// score for a token's pair list. Thresholds and score sub-ranges depend on
// the total liquidity bracket: large tokens may legitimately spread across
// venues, small tokens must be concentrated or they are likely scams.
//
// An empty pair list yields (ratio=0, score=0, RED_FLAG).
func ScoreConcentration(pairs []domain.Pair) domain.ConcentrationResult {
	if len(pairs) == 0 {
		return domain.ConcentrationResult{Tier: domain.ConcentrationRedFlag}
	}

	total := domain.TotalLiquidityUSD(pairs)
	main, _ := domain.MainPair(pairs)

	var ratio float64
	if total > 0 {
		ratio = clamp(main.LiquidityUSD/total, 0, 1)
	}

	var tier domain.ConcentrationTier
	var score float64

	switch {
	case total > establishedLiquidityUSD:
		switch {
		case ratio >= 0.3 && main.LiquidityUSD > 5_000_000:
			tier = domain.ConcentrationHealthy
			score = 80 + ratio*20 // 80-100
		case ratio >= 0.2:
			tier = domain.ConcentrationCaution
			score = 50 + ratio*30 // 50-80
		default:
			tier = domain.ConcentrationRedFlag
			score = ratio * 50 // 0-50
		}

	case total >= targetLiquidityUSD:
		switch {
		case ratio >= 0.75:
			tier = domain.ConcentrationHealthy
			score = 85 + ratio*15 // 85-100
		case ratio >= 0.6:
			tier = domain.ConcentrationCaution
			score = 60 + ratio*25 // 60-85
		default:
			tier = domain.ConcentrationRedFlag
			score = ratio * 60 // 0-60
		}

	default:
		// Below the target range this bracket never reaches HEALTHY:
		// low liquidity stays risky no matter how concentrated.
		if ratio >= 0.9 {
			tier = domain.ConcentrationCaution
			score = 40 + ratio*20 // 40-60
		} else {
			tier = domain.ConcentrationRedFlag
			score = ratio * 40 // 0-40
		}
	}

	return domain.ConcentrationResult{
		Ratio:             ratio,
		Score:             clamp(score, 0, 100),
		TotalLiquidityUSD: total,
		MainPairLiquidity: main.LiquidityUSD,
		MainPairDex:       main.DexID,
		PairCount:         len(pairs),
		Tier:              tier,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
