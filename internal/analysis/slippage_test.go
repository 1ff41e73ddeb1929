package analysis

import (
	"testing"

	"rugscreen/internal/domain"
)

func TestEstimateSlippage_ZeroLiquidity(t *testing.T) {
	result := EstimateSlippage(domain.Pair{LiquidityUSD: 0}, 50)

	if result.EstimatedPct != 100 {
		t.Errorf("EstimatedPct: got %f, want 100", result.EstimatedPct)
	}
	if result.Tier != domain.SlippageHigh {
		t.Errorf("Tier: got %s, want HIGH", result.Tier)
	}
}

func TestEstimateSlippage_Bands(t *testing.T) {
	tests := []struct {
		name      string
		liquidity float64
		tradeSize float64
		wantPct   float64
		wantTier  domain.SlippageTier
	}{
		{"tiny trade in deep pool", 100_000, 50, 0.05, domain.SlippageLow},
		{"lower medium bound", 100_000, 1000, 1, domain.SlippageMedium},
		{"medium", 50_000, 1000, 2, domain.SlippageMedium},
		{"lower high bound", 100_000, 5000, 5, domain.SlippageHigh},
		{"thin pool", 10_000, 5000, 50, domain.SlippageHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EstimateSlippage(domain.Pair{LiquidityUSD: tt.liquidity}, tt.tradeSize)

			if result.EstimatedPct != tt.wantPct {
				t.Errorf("EstimatedPct: got %f, want %f", result.EstimatedPct, tt.wantPct)
			}
			if result.Tier != tt.wantTier {
				t.Errorf("Tier: got %s, want %s", result.Tier, tt.wantTier)
			}
		})
	}
}
