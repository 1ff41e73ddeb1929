package analysis

import "rugscreen/internal/domain"

// Slippage bands in percent.
const (
	slippageLowPct  = 1
	slippageHighPct = 5
)

// EstimateSlippage approximates the price impact of a trade of the given USD
// size against a pair's liquidity. This is the cheap screening estimate
// (trade size / liquidity); the exact constant-product computation from pool
// reserves belongs to pre-execution validation in the paper trading layer.
//
// Zero or negative liquidity yields 100% impact, HIGH.
func EstimateSlippage(pair domain.Pair, tradeSizeUSD float64) domain.SlippageResult {
	if pair.LiquidityUSD <= 0 {
		return domain.SlippageResult{
			EstimatedPct: 100,
			TradeSizeUSD: tradeSizeUSD,
			LiquidityUSD: pair.LiquidityUSD,
			Tier:         domain.SlippageHigh,
		}
	}

	estimated := tradeSizeUSD / pair.LiquidityUSD * 100

	var tier domain.SlippageTier
	switch {
	case estimated < slippageLowPct:
		tier = domain.SlippageLow
	case estimated < slippageHighPct:
		tier = domain.SlippageMedium
	default:
		tier = domain.SlippageHigh
	}

	return domain.SlippageResult{
		EstimatedPct: estimated,
		TradeSizeUSD: tradeSizeUSD,
		LiquidityUSD: pair.LiquidityUSD,
		Tier:         tier,
	}
}
