package metrics

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"rugscreen/internal/domain"
)

func closedPosition(id string, closedAt int64, pnl float64, reason string) *domain.Position {
	p := decimal.NewFromFloat(pnl)
	return &domain.Position{
		PositionID: id,
		Status:     domain.PositionClosed,
		ExitReason: reason,
		PnLUSD:     &p,
		ClosedAt:   &closedAt,
	}
}

func TestSummarize(t *testing.T) {
	positions := []*domain.Position{
		closedPosition("a", 1, 50, domain.ExitTakeProfit),
		closedPosition("b", 2, -25, domain.ExitStopLoss),
		closedPosition("c", 3, -50, domain.ExitRugged),
		closedPosition("d", 4, 10, domain.ExitManual),
		{PositionID: "open", Status: domain.PositionOpen},
	}

	s := Summarize(positions)

	if s.TotalTrades != 4 {
		t.Errorf("TotalTrades: got %d, want 4", s.TotalTrades)
	}
	if s.Wins != 2 || s.Losses != 2 {
		t.Errorf("wins/losses: got %d/%d, want 2/2", s.Wins, s.Losses)
	}
	if s.WinRate != 0.5 {
		t.Errorf("WinRate: got %f, want 0.5", s.WinRate)
	}
	if s.RealizedPnL != -15 {
		t.Errorf("RealizedPnL: got %f, want -15", s.RealizedPnL)
	}
	if s.PnLMin != -50 || s.PnLMax != 50 {
		t.Errorf("min/max: got %f/%f, want -50/50", s.PnLMin, s.PnLMax)
	}
	// Peak after trade a is 50; trough after c is -25. Drawdown 75.
	if s.MaxDrawdown != 75 {
		t.Errorf("MaxDrawdown: got %f, want 75", s.MaxDrawdown)
	}
	if s.MaxConsecutiveLosses != 2 {
		t.Errorf("MaxConsecutiveLosses: got %d, want 2", s.MaxConsecutiveLosses)
	}
	if s.ExitReasons[domain.ExitRugged] != 1 {
		t.Errorf("ExitReasons: %v", s.ExitReasons)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalTrades != 0 || s.WinRate != 0 || s.MaxDrawdown != 0 {
		t.Errorf("empty summary: %+v", s)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	if got := percentile(sorted, 0.50); got != 25 {
		t.Errorf("median: got %f, want 25", got)
	}
	if got := percentile(sorted, 0); got != 10 {
		t.Errorf("p0: got %f, want 10", got)
	}
	if got := percentile(sorted, 1); got != 40 {
		t.Errorf("p100: got %f, want 40", got)
	}
	if got := percentile([]float64{7}, 0.9); got != 7 {
		t.Errorf("single value: got %f, want 7", got)
	}
}

func TestStddev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	m := mean(values)
	got := stddev(values, m)
	want := math.Sqrt(32.0 / 7.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("stddev: got %f, want %f", got, want)
	}

	if got := stddev([]float64{1}, 1); got != 0 {
		t.Errorf("single sample: got %f, want 0", got)
	}
}
