package analysis

import (
	"fmt"

	"rugscreen/internal/domain"
)

// Composite weights (points out of 100).
const (
	lockWeight          = 30
	concentrationWeight = 20
	distributionWeight  = 15
	washTradingWeight   = 15
	migrationWeight     = 10
	slippageWeight      = 10
)

// Tokens above this total liquidity get partial lock credit even when
// unlocked: at that size a lock is less load-bearing.
const establishedTokenUSD = 50_000_000

// Recommendation boundaries.
const (
	passScore    = 80
	cautionScore = 60
)

// DefaultTradeSizeUSD is the probe trade size used for slippage estimation.
const DefaultTradeSizeUSD = 50

// DistributionTier is the output of the optional LP-holder-distribution
// plug-in. Without holder data the plug-in reports UNKNOWN, which earns no
// points and raises no flag.
type DistributionTier string

const (
	DistributionHealthy DistributionTier = "HEALTHY"
	DistributionCaution DistributionTier = "CAUTION"
	DistributionRedFlag DistributionTier = "RED_FLAG"
	DistributionUnknown DistributionTier = "UNKNOWN"
)

// CompositeInput carries the precomputed sub-analyses for one token.
type CompositeInput struct {
	TokenAddress   string
	Concentration  domain.ConcentrationResult
	Lock           domain.LockResult
	WashTrading    domain.WashTradingResult
	Slippage       domain.SlippageResult
	Rugpull        domain.RugpullResult
	LPDistribution DistributionTier // UNKNOWN when the plug-in is absent
	MigrationScore *int             // nil unless migration detection is implemented
	EvaluatedAt    int64            // Unix ms
}

// ScoreComposite combines the sub-analyses into a single weighted 0-100
// score with a PASS/CAUTION/REJECT recommendation. Sub-scores map through
// tiers rather than linearly; the rugpull risk score subtracts half its value
// from the total. The final score is clamped to [0,100].
func ScoreComposite(in CompositeInput) domain.LiquidityAnalysis {
	score := 0
	var flags []string

	// Lock verification (30 points).
	established := in.Concentration.TotalLiquidityUSD > establishedTokenUSD
	switch in.Lock.Tier {
	case domain.LockLocked:
		score += lockWeight
	case domain.LockPartial:
		score += lockWeight / 2
		flags = append(flags, fmt.Sprintf("Only %.1f%% LP locked", in.Lock.LockedPct))
	default:
		if established {
			score += 10
			flags = append(flags, "No liquidity lock detected (but established token)")
		} else {
			flags = append(flags, "No liquidity lock detected")
		}
	}

	// Concentration (20 points).
	switch in.Concentration.Tier {
	case domain.ConcentrationHealthy:
		score += concentrationWeight
	case domain.ConcentrationCaution:
		score += concentrationWeight / 2
		flags = append(flags, fmt.Sprintf("Fragmented liquidity (%.1f%%)", in.Concentration.Ratio*100))
	default:
		flags = append(flags, "Highly fragmented liquidity")
	}

	// LP holder distribution (15 points). UNKNOWN earns nothing, flags nothing.
	switch in.LPDistribution {
	case DistributionHealthy:
		score += distributionWeight
	case DistributionCaution:
		score += distributionWeight / 2
	}

	// Wash trading (15 points).
	switch in.WashTrading.Tier {
	case domain.ActivityHealthy:
		score += washTradingWeight
	case domain.ActivityLow:
		score += 10 // quiet markets are acceptable, just not full credit
	case domain.ActivitySuspicious:
		score += 7
		flags = append(flags, fmt.Sprintf("Suspicious volume/liquidity ratio (%.2f)", in.WashTrading.Ratio))
	case domain.ActivityWashTrading:
		flags = append(flags, "Likely wash trading detected")
	}

	// Migration pattern (10 points): flat neutral credit until the detector
	// exists, since it needs historical pair tracking.
	if in.MigrationScore != nil {
		score += *in.MigrationScore
	} else {
		score += migrationWeight / 2
	}

	// Slippage (10 points).
	switch in.Slippage.Tier {
	case domain.SlippageLow:
		score += slippageWeight
	case domain.SlippageMedium:
		score += slippageWeight / 2
		flags = append(flags, fmt.Sprintf("Medium slippage (%.2f%%)", in.Slippage.EstimatedPct))
	default:
		flags = append(flags, fmt.Sprintf("High slippage (%.2f%%)", in.Slippage.EstimatedPct))
	}

	// Rugpull patterns subtract; the subtraction is uncapped but the final
	// score is clamped below.
	score -= in.Rugpull.RiskScore / 2
	flags = append(flags, in.Rugpull.Patterns...)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	rec := domain.RecommendReject
	switch {
	case score >= passScore:
		rec = domain.RecommendPass
	case score >= cautionScore:
		rec = domain.RecommendCaution
	}

	return domain.LiquidityAnalysis{
		TokenAddress:   in.TokenAddress,
		TotalScore:     score,
		Recommendation: rec,
		Concentration:  in.Concentration,
		Lock:           in.Lock,
		WashTrading:    in.WashTrading,
		Slippage:       in.Slippage,
		Rugpull:        in.Rugpull,
		Flags:          flags,
		EvaluatedAt:    in.EvaluatedAt,
	}
}

// AnalysisInput carries the raw collaborator data for a full analysis pass.
type AnalysisInput struct {
	TokenAddress string
	Pairs        []domain.Pair
	LPSnapshot   domain.LPSupplySnapshot
	Profile      *domain.SecurityProfile // nil when the oracle had no data
	TradeSizeUSD float64                 // 0 uses DefaultTradeSizeUSD
	NowMs        int64
}

// Analyze runs every sub-scorer over the raw inputs and combines them.
// With no pairs at all it short-circuits to score 0 / REJECT without
// invoking any sub-scorer.
func Analyze(in AnalysisInput) domain.LiquidityAnalysis {
	if len(in.Pairs) == 0 {
		return domain.LiquidityAnalysis{
			TokenAddress:   in.TokenAddress,
			Recommendation: domain.RecommendReject,
			Concentration:  domain.ConcentrationResult{Tier: domain.ConcentrationRedFlag},
			Lock:           domain.LockResult{Tier: domain.LockUnlocked},
			Flags:          []string{"No trading pairs found"},
			EvaluatedAt:    in.NowMs,
		}
	}

	tradeSize := in.TradeSizeUSD
	if tradeSize <= 0 {
		tradeSize = DefaultTradeSizeUSD
	}

	main, _ := domain.MainPair(in.Pairs)

	return ScoreComposite(CompositeInput{
		TokenAddress:   in.TokenAddress,
		Concentration:  ScoreConcentration(in.Pairs),
		Lock:           VerifyLock(in.LPSnapshot),
		WashTrading:    DetectWashTrading(main),
		Slippage:       EstimateSlippage(main, tradeSize),
		Rugpull:        ScoreRugpull(in.Pairs, in.Profile),
		LPDistribution: DistributionUnknown,
		EvaluatedAt:    in.NowMs,
	})
}
