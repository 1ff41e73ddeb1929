package domain

// ConcentrationTier classifies how a token's liquidity is spread across venues.
type ConcentrationTier string

const (
	ConcentrationHealthy ConcentrationTier = "HEALTHY"
	ConcentrationCaution ConcentrationTier = "CAUTION"
	ConcentrationRedFlag ConcentrationTier = "RED_FLAG"
)

// ConcentrationResult is the output of the concentration scorer.
// Score and ratio are always clamped to [0,100] and [0,1].
type ConcentrationResult struct {
	Ratio             float64 // main pair liquidity / total liquidity
	Score             float64 // 0-100, bracket-dependent
	TotalLiquidityUSD float64
	MainPairLiquidity float64
	MainPairDex       string
	PairCount         int
	Tier              ConcentrationTier
}

// LockTier classifies LP lock status.
type LockTier string

const (
	LockLocked   LockTier = "LOCKED"
	LockPartial  LockTier = "PARTIAL"
	LockUnlocked LockTier = "UNLOCKED"
)

// LockerUnverifiable marks LP tokens whose total supply could not be queried
// (V3-style pools and other non-standard LP tokens).
const LockerUnverifiable = "UNABLE_TO_VERIFY"

// LockResult is the output of the lock verifier.
type LockResult struct {
	IsLocked  bool
	LockedPct float64 // 0-100, clamped
	Locker    string  // locker identity, "" if none, LockerUnverifiable on failure
	Tier      LockTier
}

// ActivityTier classifies 24h volume plausibility against liquidity.
type ActivityTier string

const (
	ActivityLow         ActivityTier = "LOW_ACTIVITY"
	ActivityHealthy     ActivityTier = "HEALTHY"
	ActivitySuspicious  ActivityTier = "SUSPICIOUS"
	ActivityWashTrading ActivityTier = "WASH_TRADING"
	ActivityRedFlag     ActivityTier = "RED_FLAG" // zero liquidity
)

// WashTradingResult is the output of the wash trading detector.
type WashTradingResult struct {
	Ratio             float64 // volume_24h / liquidity
	Volume24hUSD      float64
	LiquidityUSD      float64
	LikelyWashTrading bool
	Tier              ActivityTier
}

// SlippageTier classifies estimated price impact.
type SlippageTier string

const (
	SlippageLow    SlippageTier = "LOW"
	SlippageMedium SlippageTier = "MEDIUM"
	SlippageHigh   SlippageTier = "HIGH"
)

// SlippageResult is the output of the slippage estimator. The estimate is a
// linear approximation, not the constant-product formula; the exact impact
// computation lives in the paper-trading pre-execution validation.
type SlippageResult struct {
	EstimatedPct  float64
	TradeSizeUSD  float64
	LiquidityUSD  float64
	Tier          SlippageTier
}

// RiskTier classifies accumulated rugpull risk.
type RiskTier string

const (
	RiskLow    RiskTier = "LOW_RISK"
	RiskMedium RiskTier = "MEDIUM_RISK"
	RiskHigh   RiskTier = "HIGH_RISK"
)

// RugpullResult is the output of the rugpull pattern scorer. RiskScore is
// additive across matched patterns and is not clamped to 100.
type RugpullResult struct {
	Patterns  []string
	RiskScore int
	Tier      RiskTier
}

// Recommendation is the composite scorer's verdict. Informational only; the
// critical filter gate is the authoritative go/no-go decision.
type Recommendation string

const (
	RecommendPass    Recommendation = "PASS"
	RecommendCaution Recommendation = "CAUTION"
	RecommendReject  Recommendation = "REJECT"
)

// LiquidityAnalysis aggregates all sub-scores into one weighted 0-100 score.
type LiquidityAnalysis struct {
	TokenAddress   string
	TotalScore     int // clamped to [0,100]
	Recommendation Recommendation
	Concentration  ConcentrationResult
	Lock           LockResult
	WashTrading    WashTradingResult
	Slippage       SlippageResult
	Rugpull        RugpullResult
	Flags          []string // ordered human-readable warnings
	EvaluatedAt    int64    // Unix ms
}
