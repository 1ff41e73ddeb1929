package analysis

import "rugscreen/internal/domain"

// Volume/liquidity ratio bands.
const (
	lowActivityRatio = 0.5
	healthyMaxRatio  = 3.0
	washRatio        = 5.0
)

// DetectWashTrading classifies 24h volume plausibility for one pair via the
// volume/liquidity ratio. A ratio far above liquidity suggests the volume is
// being manufactured.
//
// Zero or negative liquidity yields RED_FLAG with ratio 0.
func DetectWashTrading(pair domain.Pair) domain.WashTradingResult {
	if pair.LiquidityUSD <= 0 {
		return domain.WashTradingResult{
			Volume24hUSD: pair.Volume24hUSD,
			LiquidityUSD: pair.LiquidityUSD,
			Tier:         domain.ActivityRedFlag,
		}
	}

	ratio := pair.Volume24hUSD / pair.LiquidityUSD

	var tier domain.ActivityTier
	switch {
	case ratio < lowActivityRatio:
		tier = domain.ActivityLow // quiet, but not a scam signal on its own
	case ratio <= healthyMaxRatio:
		tier = domain.ActivityHealthy
	case ratio <= washRatio:
		tier = domain.ActivitySuspicious
	default:
		tier = domain.ActivityWashTrading
	}

	return domain.WashTradingResult{
		Ratio:             ratio,
		Volume24hUSD:      pair.Volume24hUSD,
		LiquidityUSD:      pair.LiquidityUSD,
		LikelyWashTrading: tier == domain.ActivityWashTrading,
		Tier:              tier,
	}
}
