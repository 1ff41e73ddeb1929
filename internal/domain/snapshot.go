package domain

// EvaluationSnapshot is one per-cycle time-series point for a token.
// Corresponds to the evaluation_snapshots table in ClickHouse.
type EvaluationSnapshot struct {
	TokenAddress       string
	ChainID            string
	TimestampMs        int64 // Unix timestamp in milliseconds
	LiquidityUSD       float64
	Volume24hUSD       float64
	PriceUSD           float64
	PairCount          int
	ConcentrationScore float64
	CompositeScore     int
	FilterStatus       FilterStatus
	FilterReasons      []string
}
