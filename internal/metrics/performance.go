// Package metrics computes paper trading performance statistics from
// closed positions.
package metrics

import (
	"math"
	"sort"

	"rugscreen/internal/domain"
)

// PerformanceSummary aggregates realized results over closed positions.
// Money statistics are in USD.
type PerformanceSummary struct {
	TotalTrades int
	Wins        int
	Losses      int
	WinRate     float64 // wins / total, 0 when no trades

	RealizedPnL float64
	PnLMean     float64
	PnLMedian   float64
	PnLP10      float64
	PnLP90      float64
	PnLMin      float64
	PnLMax      float64
	PnLStddev   float64

	MaxDrawdown          float64 // worst peak-to-trough on cumulative PnL
	MaxConsecutiveLosses int

	ExitReasons map[string]int // closed position count per exit reason
}

// Summarize computes performance statistics over the closed positions in
// the input. Open positions and closed positions without a recorded PnL
// are skipped. Order-dependent statistics use ClosedAt ASC, PositionID
// ASC ordering.
func Summarize(positions []*domain.Position) PerformanceSummary {
	closed := make([]*domain.Position, 0, len(positions))
	for _, p := range positions {
		if p.Status == domain.PositionClosed && p.PnLUSD != nil && p.ClosedAt != nil {
			closed = append(closed, p)
		}
	}

	s := PerformanceSummary{ExitReasons: make(map[string]int)}
	n := len(closed)
	if n == 0 {
		return s
	}

	sort.Slice(closed, func(i, j int) bool {
		if *closed[i].ClosedAt != *closed[j].ClosedAt {
			return *closed[i].ClosedAt < *closed[j].ClosedAt
		}
		return closed[i].PositionID < closed[j].PositionID
	})

	pnls := make([]float64, n)
	for i, p := range closed {
		pnls[i] = p.PnLUSD.InexactFloat64()
		s.ExitReasons[p.ExitReason]++
		if pnls[i] > 0 {
			s.Wins++
		} else {
			s.Losses++
		}
		s.RealizedPnL += pnls[i]
	}

	sorted := make([]float64, n)
	copy(sorted, pnls)
	sort.Float64s(sorted)

	s.TotalTrades = n
	s.WinRate = float64(s.Wins) / float64(n)
	s.PnLMean = mean(pnls)
	s.PnLMedian = percentile(sorted, 0.50)
	s.PnLP10 = percentile(sorted, 0.10)
	s.PnLP90 = percentile(sorted, 0.90)
	s.PnLMin = sorted[0]
	s.PnLMax = sorted[n-1]
	s.PnLStddev = stddev(pnls, s.PnLMean)
	s.MaxDrawdown = maxDrawdown(pnls)
	s.MaxConsecutiveLosses = maxConsecutiveLosses(pnls)
	return s
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the sample standard deviation (n-1 denominator).
func stddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// percentile uses linear interpolation. sorted must be pre-sorted ASC.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// maxDrawdown is the worst peak-to-trough distance on the cumulative PnL
// curve. Values must be in chronological order.
func maxDrawdown(values []float64) float64 {
	cumulative := 0.0
	peak := 0.0
	worst := 0.0

	for _, v := range values {
		cumulative += v
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > worst {
			worst = dd
		}
	}
	return worst
}

// maxConsecutiveLosses is the longest streak of PnL <= 0 in
// chronological order.
func maxConsecutiveLosses(values []float64) int {
	maxStreak := 0
	streak := 0
	for _, v := range values {
		if v <= 0 {
			streak++
			if streak > maxStreak {
				maxStreak = streak
			}
		} else {
			streak = 0
		}
	}
	return maxStreak
}
