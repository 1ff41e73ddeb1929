package graduation

import (
	"testing"
	"time"

	"rugscreen/internal/domain"
)

func msPtr(t time.Time) *int64 {
	ms := t.UnixMilli()
	return &ms
}

func TestAdvance_GraduatesOnExactlyFifthPass(t *testing.T) {
	policy := DefaultPolicy()
	state := domain.GraduationState{}

	for i := 1; i <= 4; i++ {
		var action domain.GraduationAction
		state, action = Advance(state, domain.FilterPass, policy)
		if action != domain.ActionProgress {
			t.Errorf("pass %d: action got %s, want PROGRESS", i, action)
		}
		if state.Graduated {
			t.Errorf("pass %d: graduated too early", i)
		}
	}

	state, action := Advance(state, domain.FilterPass, policy)
	if action != domain.ActionGraduated {
		t.Errorf("pass 5: action got %s, want GRADUATED", action)
	}
	if !state.Graduated || state.ConsecutivePasses != 5 {
		t.Errorf("pass 5: state got %+v, want graduated with 5 passes", state)
	}

	// Further passes keep counting but change nothing.
	state, action = Advance(state, domain.FilterPass, policy)
	if action != domain.ActionNoChange {
		t.Errorf("pass 6: action got %s, want NO_CHANGE", action)
	}
	if state.ConsecutivePasses != 6 {
		t.Errorf("pass 6: passes got %d, want 6", state.ConsecutivePasses)
	}
}

func TestAdvance_FailDemotesGraduatedToken(t *testing.T) {
	state := domain.GraduationState{Graduated: true, ConsecutivePasses: 12}

	next, action := Advance(state, domain.FilterFail, DefaultPolicy())

	if action != domain.ActionDemoted {
		t.Errorf("action: got %s, want DEMOTED", action)
	}
	if next.Graduated || next.ConsecutivePasses != 0 {
		t.Errorf("state: got %+v, want reset to NEW", next)
	}
}

func TestAdvance_FailResetsStreak(t *testing.T) {
	state := domain.GraduationState{ConsecutivePasses: 3}

	next, action := Advance(state, domain.FilterFail, DefaultPolicy())

	if action != domain.ActionProgress {
		t.Errorf("action: got %s, want PROGRESS", action)
	}
	if next.ConsecutivePasses != 0 {
		t.Errorf("passes: got %d, want 0", next.ConsecutivePasses)
	}
}

func TestAdvance_FailOnNewTokenIsNoChange(t *testing.T) {
	next, action := Advance(domain.GraduationState{}, domain.FilterFail, DefaultPolicy())

	if action != domain.ActionNoChange {
		t.Errorf("action: got %s, want NO_CHANGE", action)
	}
	if next != (domain.GraduationState{}) {
		t.Errorf("state: got %+v, want untouched", next)
	}
}

func TestAdvance_PendingLeavesStreakIntact(t *testing.T) {
	// An oracle outage mid-streak must not cost the token its progress.
	state := domain.GraduationState{ConsecutivePasses: 4}

	next, action := Advance(state, domain.FilterPending, DefaultPolicy())

	if action != domain.ActionNoChange {
		t.Errorf("action: got %s, want NO_CHANGE", action)
	}
	if next.ConsecutivePasses != 4 {
		t.Errorf("passes: got %d, want 4 (preserved)", next.ConsecutivePasses)
	}

	// The streak resumes afterwards.
	next, action = Advance(next, domain.FilterPass, DefaultPolicy())
	if action != domain.ActionGraduated {
		t.Errorf("action after pending: got %s, want GRADUATED", action)
	}
}

func TestShouldFetchSecurity_NonGraduatedAlwaysFetches(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	policy := DefaultPolicy()

	states := []domain.GraduationState{
		{},
		{ConsecutivePasses: 3},
		{ConsecutivePasses: 3, LastSecurityCheckAt: msPtr(now.Add(-time.Minute))},
	}
	for i, state := range states {
		if !ShouldFetchSecurity(state, now, policy) {
			t.Errorf("state %d: got false, want true for non-graduated token", i)
		}
	}
}

func TestShouldFetchSecurity_Graduated(t *testing.T) {
	policy := DefaultPolicy()
	noon := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	refreshHour := time.Date(2025, 6, 1, 3, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		now       time.Time
		lastCheck *int64
		want      bool
	}{
		{"no prior check", noon, nil, true},
		{"interval elapsed", noon, msPtr(noon.Add(-25 * time.Hour)), true},
		{"fresh data outside refresh hour", noon, msPtr(noon.Add(-2 * time.Hour)), false},
		{"refresh hour with stale-enough data", refreshHour, msPtr(refreshHour.Add(-2 * time.Hour)), true},
		{"refresh hour but checked minutes ago", refreshHour, msPtr(refreshHour.Add(-30 * time.Minute)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := domain.GraduationState{
				Graduated:           true,
				ConsecutivePasses:   5,
				LastSecurityCheckAt: tt.lastCheck,
			}
			if got := ShouldFetchSecurity(state, tt.now, policy); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	tokens := []*domain.Token{
		{Address: "0xa", Graduated: true, ConsecutivePasses: 7},
		{Address: "0xb", ConsecutivePasses: 2},
		{Address: "0xc"},
		{Address: "0xd"},
	}

	s := Summarize(tokens)

	if s.Total != 4 || s.Graduated != 1 || s.InProgress != 1 || s.New != 2 {
		t.Errorf("counts: got %+v", s)
	}
	if s.GraduationRatePct != 25 {
		t.Errorf("GraduationRatePct: got %f, want 25", s.GraduationRatePct)
	}
	// (2 new + 1 in progress) * 24 hourly checks + 1 graduated daily check.
	if s.EstDailyOracleCalls != 73 {
		t.Errorf("EstDailyOracleCalls: got %d, want 73", s.EstDailyOracleCalls)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.GraduationRatePct != 0 {
		t.Errorf("got %+v, want zero summary", s)
	}
}
