package analysis

import (
	"strings"
	"testing"

	"rugscreen/internal/domain"
)

func boolPtr(v bool) *bool          { return &v }
func floatPtr(v float64) *float64   { return &v }

func TestScoreRugpull_LiquidityPatterns(t *testing.T) {
	tests := []struct {
		name      string
		liquidity float64
		wantScore int
		wantTier  domain.RiskTier
	}{
		{"very low liquidity", 5_000, 30, domain.RiskMedium},
		{"low liquidity", 30_000, 15, domain.RiskLow},
		{"healthy liquidity", 100_000, 0, domain.RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := []domain.Pair{{LiquidityUSD: tt.liquidity}}

			result := ScoreRugpull(pairs, nil)

			if result.RiskScore != tt.wantScore {
				t.Errorf("RiskScore: got %d, want %d", result.RiskScore, tt.wantScore)
			}
			if result.Tier != tt.wantTier {
				t.Errorf("Tier: got %s, want %s", result.Tier, tt.wantTier)
			}
		})
	}
}

func TestScoreRugpull_ThresholdsMutuallyExclusive(t *testing.T) {
	// <$10k must add only the 30-point pattern, not both.
	result := ScoreRugpull([]domain.Pair{{LiquidityUSD: 8_000}}, nil)

	if result.RiskScore != 30 {
		t.Errorf("RiskScore: got %d, want 30", result.RiskScore)
	}
	if len(result.Patterns) != 1 {
		t.Errorf("Patterns: got %d, want 1", len(result.Patterns))
	}
}

func TestScoreRugpull_OracleChecks(t *testing.T) {
	profile := &domain.SecurityProfile{
		BuyTaxPct:      floatPtr(15),
		SellTaxPct:     floatPtr(15),
		OwnerRenounced: boolPtr(false),
		IsProxy:        boolPtr(true),
		TopHolderPct:   floatPtr(35),
	}
	pairs := []domain.Pair{{LiquidityUSD: 5_000}}

	result := ScoreRugpull(pairs, profile)

	// 30 (liquidity) + 25 (tax) + 20 (ownership) + 15 (proxy) + 20 (holder)
	if result.RiskScore != 110 {
		t.Errorf("RiskScore: got %d, want 110 (additive, uncapped)", result.RiskScore)
	}
	if result.Tier != domain.RiskHigh {
		t.Errorf("Tier: got %s, want HIGH_RISK", result.Tier)
	}
	if len(result.Patterns) != 5 {
		t.Errorf("Patterns: got %d, want 5: %v", len(result.Patterns), result.Patterns)
	}
}

func TestScoreRugpull_UnknownFieldsSkipChecks(t *testing.T) {
	// A profile with every oracle field unknown must contribute no points:
	// unknown is not evidence of a scam pattern.
	result := ScoreRugpull([]domain.Pair{{LiquidityUSD: 100_000}}, &domain.SecurityProfile{})

	if result.RiskScore != 0 {
		t.Errorf("RiskScore: got %d, want 0", result.RiskScore)
	}
	if result.Tier != domain.RiskLow {
		t.Errorf("Tier: got %s, want LOW_RISK", result.Tier)
	}
}

func TestScoreRugpull_EmptyPairs(t *testing.T) {
	result := ScoreRugpull(nil, nil)

	if result.RiskScore != 0 || len(result.Patterns) != 0 {
		t.Errorf("got score=%d patterns=%v, want zero result", result.RiskScore, result.Patterns)
	}
}

func TestScoreRugpull_PatternDescriptions(t *testing.T) {
	profile := &domain.SecurityProfile{
		BuyTaxPct:  floatPtr(20),
		SellTaxPct: floatPtr(5),
	}

	result := ScoreRugpull([]domain.Pair{{LiquidityUSD: 100_000}}, profile, HighTaxCheck)

	if len(result.Patterns) != 1 {
		t.Fatalf("Patterns: got %d, want 1", len(result.Patterns))
	}
	if !strings.Contains(result.Patterns[0], "tax") {
		t.Errorf("pattern description %q should mention tax", result.Patterns[0])
	}
}
