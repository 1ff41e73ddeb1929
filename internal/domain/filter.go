package domain

// FilterStatus is the critical filter gate verdict.
type FilterStatus string

const (
	FilterPass FilterStatus = "PASS"
	FilterFail FilterStatus = "FAIL"
	// FilterPending means at least one safety-critical oracle field was
	// unknown; neither PASS nor FAIL may be derived from partial data.
	FilterPending FilterStatus = "PENDING"
)

// String returns the string representation of FilterStatus.
func (s FilterStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid value.
func (s FilterStatus) IsValid() bool {
	return s == FilterPass || s == FilterFail || s == FilterPending
}

// FilterMetrics is the snapshot of the seven evaluated values, kept for
// audit and testing. Pointer fields are nil when the gate returned PENDING
// before the corresponding value could be derived.
type FilterMetrics struct {
	IsHoneypot         *bool
	LPLockedPct        *float64
	ConcentrationScore float64
	LiquidityUSD       float64
	BuyTaxPct          *float64
	SellTaxPct         *float64
	IsMintable         *bool
}

// FilterResult is the output of the critical filter gate.
// Reasons is empty iff Status is PASS.
type FilterResult struct {
	Status  FilterStatus
	Reasons []string
	Metrics FilterMetrics
}
