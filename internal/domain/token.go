package domain

// Token is the durable per-token record. Corresponds to the tokens table in
// PostgreSQL. Graduation fields are mutated once per evaluation cycle by the
// graduation state machine; the record itself is never deleted by the screener.
type Token struct {
	Address             string // token contract address (lowercase hex)
	ChainID             string // "bsc", "base", ...
	DexscreenerURL      string // profile URL from discovery, may be empty
	DiscoveredAt        int64  // Unix timestamp in milliseconds
	Graduated           bool   // passed enough consecutive filter cycles
	ConsecutivePasses   int    // current PASS streak, reset on FAIL
	LastSecurityCheckAt *int64 // last GoPlus fetch (Unix ms), nil if never
	LastFilterStatus    FilterStatus
	CreatedAt           int64 // record creation timestamp (ms)
}

// GraduationState is the slice of Token the graduation state machine reads
// and rewrites each cycle.
type GraduationState struct {
	Graduated           bool
	ConsecutivePasses   int
	LastSecurityCheckAt *int64 // Unix ms, nil if never checked
}

// State returns the token's graduation state.
func (t *Token) State() GraduationState {
	return GraduationState{
		Graduated:           t.Graduated,
		ConsecutivePasses:   t.ConsecutivePasses,
		LastSecurityCheckAt: t.LastSecurityCheckAt,
	}
}

// GraduationAction describes the transition taken for one evaluation cycle.
type GraduationAction string

const (
	ActionGraduated GraduationAction = "GRADUATED"
	ActionDemoted   GraduationAction = "DEMOTED"
	ActionProgress  GraduationAction = "PROGRESS"
	ActionNoChange  GraduationAction = "NO_CHANGE"
)

// String returns the string representation of GraduationAction.
func (a GraduationAction) String() string {
	return string(a)
}
