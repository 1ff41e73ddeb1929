// Package graduation implements the pass-streak state machine that throttles
// expensive security oracle re-checks. New tokens are checked every cycle;
// after enough consecutive filter passes a token graduates to a daily check,
// and a single failure demotes it back.
package graduation

import (
	"time"

	"rugscreen/internal/domain"
)

// Policy configures the graduation state machine and refresh schedule.
type Policy struct {
	PassesToGraduate int           // consecutive PASSes required to graduate
	RefreshInterval  time.Duration // max oracle data age for graduated tokens
	DailyRefreshHour int           // UTC hour of the scheduled daily refresh
}

// DefaultPolicy returns the standard policy: graduate after 5 passes,
// refresh graduated tokens every 24h, daily refresh at 03:00 UTC (off-peak).
func DefaultPolicy() Policy {
	return Policy{
		PassesToGraduate: 5,
		RefreshInterval:  24 * time.Hour,
		DailyRefreshHour: 3,
	}
}

// Advance computes the next graduation state from the current one and this
// cycle's filter status. It never mutates its input; the caller persists the
// returned state.
//
// PASS increments the streak and graduates at the threshold. FAIL resets the
// streak and demotes a graduated token. PENDING (or any other status) leaves
// the state untouched: missing oracle data must not break a streak.
func Advance(state domain.GraduationState, status domain.FilterStatus, policy Policy) (domain.GraduationState, domain.GraduationAction) {
	next := state

	switch status {
	case domain.FilterPass:
		next.ConsecutivePasses++
		if next.ConsecutivePasses >= policy.PassesToGraduate && !next.Graduated {
			next.Graduated = true
			return next, domain.ActionGraduated
		}
		if next.Graduated {
			return next, domain.ActionNoChange
		}
		return next, domain.ActionProgress

	case domain.FilterFail:
		if !state.Graduated && state.ConsecutivePasses == 0 {
			return next, domain.ActionNoChange
		}
		wasGraduated := state.Graduated
		next.ConsecutivePasses = 0
		next.Graduated = false
		if wasGraduated {
			return next, domain.ActionDemoted
		}
		return next, domain.ActionProgress

	default:
		return next, domain.ActionNoChange
	}
}

// ShouldFetchSecurity decides whether the security oracle must be queried
// this cycle or cached data can serve.
//
// Non-graduated tokens and tokens with no recorded check always fetch.
// Graduated tokens fetch when the refresh interval has elapsed, or during
// the daily refresh hour provided at least an hour has passed since the
// last check.
func ShouldFetchSecurity(state domain.GraduationState, now time.Time, policy Policy) bool {
	if !state.Graduated {
		return true
	}
	if state.LastSecurityCheckAt == nil {
		return true
	}

	lastCheck := time.UnixMilli(*state.LastSecurityCheckAt)
	elapsed := now.Sub(lastCheck)

	if elapsed >= policy.RefreshInterval {
		return true
	}
	if now.UTC().Hour() == policy.DailyRefreshHour && elapsed >= time.Hour {
		return true
	}
	return false
}

// Summary aggregates fleet-wide graduation statistics.
type Summary struct {
	Total                int
	Graduated            int
	InProgress           int
	New                  int
	GraduationRatePct    float64
	EstDailyOracleCalls  int
}

// Summarize computes graduation statistics over all tracked tokens. The
// oracle call estimate assumes hourly cycles: non-graduated tokens cost 24
// calls per day, graduated tokens one.
func Summarize(tokens []*domain.Token) Summary {
	s := Summary{Total: len(tokens)}
	for _, t := range tokens {
		switch {
		case t.Graduated:
			s.Graduated++
		case t.ConsecutivePasses > 0:
			s.InProgress++
		default:
			s.New++
		}
	}
	if s.Total > 0 {
		s.GraduationRatePct = float64(s.Graduated) / float64(s.Total) * 100
	}
	s.EstDailyOracleCalls = (s.New+s.InProgress)*24 + s.Graduated
	return s
}
