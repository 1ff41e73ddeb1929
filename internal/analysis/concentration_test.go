package analysis

import (
	"testing"

	"rugscreen/internal/domain"
)

func TestScoreConcentration_EmptyPairs(t *testing.T) {
	result := ScoreConcentration(nil)

	if result.Ratio != 0 {
		t.Errorf("Ratio: got %f, want 0", result.Ratio)
	}
	if result.Score != 0 {
		t.Errorf("Score: got %f, want 0", result.Score)
	}
	if result.Tier != domain.ConcentrationRedFlag {
		t.Errorf("Tier: got %s, want RED_FLAG", result.Tier)
	}
	if result.PairCount != 0 {
		t.Errorf("PairCount: got %d, want 0", result.PairCount)
	}
}

func TestScoreConcentration_SinglePairTargetRange(t *testing.T) {
	// $800K single pair: middle bracket, ratio 1.0, should be HEALTHY
	// with a score in [85,100].
	pairs := []domain.Pair{
		{DexID: "pancakeswap", PairAddress: "0xaaa", LiquidityUSD: 800_000},
	}

	result := ScoreConcentration(pairs)

	if result.Ratio != 1.0 {
		t.Errorf("Ratio: got %f, want 1.0", result.Ratio)
	}
	if result.Tier != domain.ConcentrationHealthy {
		t.Errorf("Tier: got %s, want HEALTHY", result.Tier)
	}
	if result.Score < 85 || result.Score > 100 {
		t.Errorf("Score: got %f, want in [85,100]", result.Score)
	}
	if result.MainPairDex != "pancakeswap" {
		t.Errorf("MainPairDex: got %s, want pancakeswap", result.MainPairDex)
	}
}

func TestScoreConcentration_Brackets(t *testing.T) {
	tests := []struct {
		name     string
		pairs    []domain.Pair
		wantTier domain.ConcentrationTier
		minScore float64
		maxScore float64
	}{
		{
			name: "established healthy",
			pairs: []domain.Pair{
				{LiquidityUSD: 12_000_000},
				{LiquidityUSD: 8_000_000},
			},
			wantTier: domain.ConcentrationHealthy,
			minScore: 80, maxScore: 100,
		},
		{
			name: "established caution",
			pairs: []domain.Pair{
				{LiquidityUSD: 3_000_000},
				{LiquidityUSD: 3_000_000},
				{LiquidityUSD: 3_000_000},
				{LiquidityUSD: 3_000_000},
				{LiquidityUSD: 1_000_000},
			},
			wantTier: domain.ConcentrationCaution,
			minScore: 50, maxScore: 80,
		},
		{
			name: "target fragmented",
			pairs: []domain.Pair{
				{LiquidityUSD: 400_000},
				{LiquidityUSD: 350_000},
			},
			wantTier: domain.ConcentrationRedFlag,
			minScore: 0, maxScore: 60,
		},
		{
			name: "target moderately concentrated",
			pairs: []domain.Pair{
				{LiquidityUSD: 650_000},
				{LiquidityUSD: 350_000},
			},
			wantTier: domain.ConcentrationCaution,
			minScore: 60, maxScore: 85,
		},
		{
			name: "low liquidity concentrated never healthy",
			pairs: []domain.Pair{
				{LiquidityUSD: 100_000},
			},
			wantTier: domain.ConcentrationCaution,
			minScore: 40, maxScore: 60,
		},
		{
			name: "low liquidity fragmented",
			pairs: []domain.Pair{
				{LiquidityUSD: 50_000},
				{LiquidityUSD: 50_000},
			},
			wantTier: domain.ConcentrationRedFlag,
			minScore: 0, maxScore: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreConcentration(tt.pairs)
			if result.Tier != tt.wantTier {
				t.Errorf("Tier: got %s, want %s", result.Tier, tt.wantTier)
			}
			if result.Score < tt.minScore || result.Score > tt.maxScore {
				t.Errorf("Score: got %f, want in [%f,%f]", result.Score, tt.minScore, tt.maxScore)
			}
		})
	}
}

func TestScoreConcentration_TieBreaksFirstEncountered(t *testing.T) {
	pairs := []domain.Pair{
		{DexID: "pancakeswap", LiquidityUSD: 500_000},
		{DexID: "biswap", LiquidityUSD: 500_000},
	}

	result := ScoreConcentration(pairs)

	if result.MainPairDex != "pancakeswap" {
		t.Errorf("MainPairDex: got %s, want pancakeswap (first encountered)", result.MainPairDex)
	}
}

func TestScoreConcentration_ClampedOnMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		pairs []domain.Pair
	}{
		{"negative liquidity", []domain.Pair{{LiquidityUSD: -5000}}},
		{"all zero", []domain.Pair{{LiquidityUSD: 0}, {LiquidityUSD: 0}}},
		{"mixed negative", []domain.Pair{{LiquidityUSD: 1000}, {LiquidityUSD: -2000}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreConcentration(tt.pairs)
			if result.Score < 0 || result.Score > 100 {
				t.Errorf("Score out of range: %f", result.Score)
			}
			if result.Ratio < 0 || result.Ratio > 1 {
				t.Errorf("Ratio out of range: %f", result.Ratio)
			}
		})
	}
}
