// Package screener runs the per-cycle evaluation pipeline: fetch market
// data, gate through the critical filters, advance graduation state, and
// persist the outcome.
package screener

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"rugscreen/internal/analysis"
	"rugscreen/internal/dexscreener"
	"rugscreen/internal/domain"
	"rugscreen/internal/filter"
	"rugscreen/internal/graduation"
	"rugscreen/internal/observability"
	"rugscreen/internal/storage"
)

// PairSource fetches trading pairs for a token.
type PairSource interface {
	TokenPairs(ctx context.Context, tokenAddress string) ([]domain.Pair, error)
}

// SecuritySource fetches a token security profile from the safety oracle.
type SecuritySource interface {
	TokenSecurity(ctx context.Context, chain, tokenAddress string) (domain.SecurityProfile, error)
}

// LockSource reads the on-chain LP supply snapshot for a pair.
type LockSource interface {
	LPSnapshot(ctx context.Context, pairAddress string) domain.LPSupplySnapshot
}

// Notifier receives screening events. Implementations must tolerate
// being called from multiple cycles.
type Notifier interface {
	TokenGraduated(token *domain.Token, analysis domain.LiquidityAnalysis)
	TokenDemoted(token *domain.Token, reasons []string)
}

// Config holds the tunables of a screening cycle.
type Config struct {
	Chains       []string
	Thresholds   filter.Thresholds
	Graduation   graduation.Policy
	TradeSizeUSD float64
	Workers      int
}

// Screener evaluates tracked tokens against the critical filters.
type Screener struct {
	cfg       Config
	pairs     PairSource
	security  SecuritySource
	locks     LockSource
	tokens    storage.TokenStore
	snapshots storage.SnapshotStore
	notifier  Notifier
	logger    zerolog.Logger
	now       func() time.Time
}

// New creates a Screener. snapshots and notifier may be nil; locks may
// be nil when on-chain verification is unavailable.
func New(cfg Config, pairs PairSource, security SecuritySource, locks LockSource,
	tokens storage.TokenStore, snapshots storage.SnapshotStore, notifier Notifier,
	logger zerolog.Logger) *Screener {

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Screener{
		cfg:       cfg,
		pairs:     pairs,
		security:  security,
		locks:     locks,
		tokens:    tokens,
		snapshots: snapshots,
		notifier:  notifier,
		logger:    logger.With().Str("component", "screener").Logger(),
		now:       time.Now,
	}
}

// Evaluation is the outcome of screening a single token once.
type Evaluation struct {
	Token    *domain.Token
	Pairs    []domain.Pair
	Filter   domain.FilterResult
	Action   domain.GraduationAction
	Analysis domain.LiquidityAnalysis

	// SecurityFetched reports whether the oracle was consulted this
	// cycle. When false the filter result carries the previous status.
	SecurityFetched bool
}

// EvaluateToken runs one screening pass over a token and persists the
// resulting state. The token argument is updated in place.
func (s *Screener) EvaluateToken(ctx context.Context, token *domain.Token) (*Evaluation, error) {
	now := s.now()
	nowMs := now.UnixMilli()

	pairs, err := s.pairs.TokenPairs(ctx, token.Address)
	if err != nil {
		return nil, fmt.Errorf("fetch pairs for %s: %w", token.Address, err)
	}
	pairs = dexscreener.FilterChains(pairs, s.cfg.Chains)

	eval := &Evaluation{Token: token, Pairs: pairs}
	state := token.State()

	if graduation.ShouldFetchSecurity(state, now, s.cfg.Graduation) {
		profile, err := s.security.TokenSecurity(ctx, token.ChainID, token.Address)
		observability.RecordSecurityFetch(err)
		if err != nil {
			// Oracle outages degrade to PENDING instead of aborting. The
			// check timestamp stays untouched so the next cycle retries
			// instead of waiting out a full refresh interval.
			s.logger.Warn().Err(err).Str("token", token.Address).Msg("security fetch failed")
			profile = domain.SecurityProfile{}
		} else {
			state.LastSecurityCheckAt = &nowMs
		}
		eval.SecurityFetched = true

		eval.Filter = filter.Apply(profile, pairs, s.cfg.Thresholds)
		eval.Analysis = s.analyze(ctx, token, pairs, &profile, nowMs)
	} else {
		// Not due for a refresh: keep the previous verdict and skip the
		// oracle entirely.
		eval.Filter = domain.FilterResult{Status: token.LastFilterStatus}
		eval.Analysis = s.analyze(ctx, token, pairs, nil, nowMs)
	}

	if eval.SecurityFetched {
		state, eval.Action = graduation.Advance(state, eval.Filter.Status, s.cfg.Graduation)
	} else {
		eval.Action = domain.ActionNoChange
	}

	if err := s.tokens.UpdateEvaluation(ctx, token.Address, state, eval.Filter.Status); err != nil {
		return nil, fmt.Errorf("persist evaluation for %s: %w", token.Address, err)
	}
	token.Graduated = state.Graduated
	token.ConsecutivePasses = state.ConsecutivePasses
	token.LastSecurityCheckAt = state.LastSecurityCheckAt
	token.LastFilterStatus = eval.Filter.Status

	s.persistSnapshot(ctx, token, eval, nowMs)
	s.notify(token, eval)

	return eval, nil
}

// analyze scores the liquidity profile, including the on-chain lock
// snapshot of the main pair when a lock source is wired.
func (s *Screener) analyze(ctx context.Context, token *domain.Token, pairs []domain.Pair, profile *domain.SecurityProfile, nowMs int64) domain.LiquidityAnalysis {
	input := analysis.AnalysisInput{
		TokenAddress: token.Address,
		Pairs:        pairs,
		Profile:      profile,
		TradeSizeUSD: s.cfg.TradeSizeUSD,
		NowMs:        nowMs,
	}
	if s.locks != nil {
		if main, ok := domain.MainPair(pairs); ok {
			input.LPSnapshot = s.locks.LPSnapshot(ctx, main.PairAddress)
		}
	}
	return analysis.Analyze(input)
}

func (s *Screener) persistSnapshot(ctx context.Context, token *domain.Token, eval *Evaluation, nowMs int64) {
	if s.snapshots == nil {
		return
	}

	snap := &domain.EvaluationSnapshot{
		TokenAddress:       token.Address,
		ChainID:            token.ChainID,
		TimestampMs:        nowMs,
		LiquidityUSD:       domain.TotalLiquidityUSD(eval.Pairs),
		PairCount:          len(eval.Pairs),
		ConcentrationScore: eval.Analysis.Concentration.Score,
		CompositeScore:     eval.Analysis.TotalScore,
		FilterStatus:       eval.Filter.Status,
		FilterReasons:      eval.Filter.Reasons,
	}
	if main, ok := domain.MainPair(eval.Pairs); ok {
		snap.PriceUSD = main.PriceUSD
		snap.Volume24hUSD = main.Volume24hUSD
	}

	if err := s.snapshots.InsertBulk(ctx, []*domain.EvaluationSnapshot{snap}); err != nil {
		// Snapshots are observability data; losing one is not fatal.
		s.logger.Warn().Err(err).Str("token", token.Address).Msg("snapshot insert failed")
	}
}

func (s *Screener) notify(token *domain.Token, eval *Evaluation) {
	if s.notifier == nil {
		return
	}
	switch eval.Action {
	case domain.ActionGraduated:
		s.notifier.TokenGraduated(token, eval.Analysis)
	case domain.ActionDemoted:
		s.notifier.TokenDemoted(token, eval.Filter.Reasons)
	}
}

// CycleResult summarizes one full pass over the tracked tokens.
type CycleResult struct {
	Evaluated int
	Failed    int
	Graduated int
	Demoted   int

	// Prices holds the latest main-pair price per token, for the paper
	// trading exit checks. Tokens with no pairs map to zero.
	Prices map[string]decimal.Decimal

	// Evaluations holds the per-token outcomes, keyed by token address.
	// Failed evaluations are absent.
	Evaluations map[string]*Evaluation
}

// RunCycle evaluates every tracked token once, fanning out across the
// configured number of workers.
func (s *Screener) RunCycle(ctx context.Context) (*CycleResult, error) {
	start := time.Now()
	tokens, err := s.tokens.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}

	result := &CycleResult{
		Prices:      make(map[string]decimal.Decimal, len(tokens)),
		Evaluations: make(map[string]*Evaluation, len(tokens)),
	}

	type outcome struct {
		token *domain.Token
		eval  *Evaluation
		err   error
	}

	jobs := make(chan *domain.Token)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for token := range jobs {
				eval, err := s.EvaluateToken(ctx, token)
				outcomes <- outcome{token: token, eval: eval, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, token := range tokens {
			select {
			case jobs <- token:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Cancellation stops the feeder early, so only outcomes the workers
	// actually produce can be counted on. Closing the channel once they
	// drain lets the collector finish on a partial cycle.
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	graduatedNow := 0
	for o := range outcomes {
		if o.err != nil {
			result.Failed++
			observability.RecordEvaluationError()
			s.logger.Error().Err(o.err).Str("token", o.token.Address).Msg("evaluation failed")
			continue
		}
		result.Evaluated++
		result.Evaluations[o.token.Address] = o.eval
		observability.RecordEvaluation(o.eval.Filter.Status.String())
		if o.token.Graduated {
			graduatedNow++
		}
		switch o.eval.Action {
		case domain.ActionGraduated:
			result.Graduated++
			observability.RecordGraduation()
		case domain.ActionDemoted:
			result.Demoted++
			observability.RecordDemotion()
		}
		if main, ok := domain.MainPair(o.eval.Pairs); ok {
			result.Prices[o.token.Address] = decimal.NewFromFloat(main.PriceUSD)
		} else {
			result.Prices[o.token.Address] = decimal.Zero
		}
	}

	observability.RecordCycle(time.Since(start).Seconds(), len(tokens), graduatedNow, time.Now().Unix())
	s.logger.Info().
		Int("evaluated", result.Evaluated).
		Int("failed", result.Failed).
		Int("graduated", result.Graduated).
		Int("demoted", result.Demoted).
		Msg("cycle complete")
	return result, nil
}
