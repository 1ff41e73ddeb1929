package screener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"rugscreen/internal/dexscreener"
	"rugscreen/internal/domain"
	"rugscreen/internal/observability"
	"rugscreen/internal/storage"
)

// ProfileSource fetches the latest promoted token profiles feed.
type ProfileSource interface {
	LatestProfiles(ctx context.Context) ([]dexscreener.TokenProfile, error)
}

// Discovery registers newly promoted tokens for tracking.
type Discovery struct {
	profiles ProfileSource
	tokens   storage.TokenStore
	chains   map[string]bool
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDiscovery creates a Discovery restricted to the given chains.
func NewDiscovery(profiles ProfileSource, tokens storage.TokenStore, chains []string, logger zerolog.Logger) *Discovery {
	allowed := make(map[string]bool, len(chains))
	for _, c := range chains {
		allowed[c] = true
	}
	return &Discovery{
		profiles: profiles,
		tokens:   tokens,
		chains:   allowed,
		logger:   logger.With().Str("component", "discovery").Logger(),
		now:      time.Now,
	}
}

// Run fetches the profiles feed once and inserts unseen tokens. Already
// tracked tokens and off-target chains are skipped. Returns the number
// of newly tracked tokens.
func (d *Discovery) Run(ctx context.Context) (int, error) {
	profiles, err := d.profiles.LatestProfiles(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch profiles: %w", err)
	}

	added := 0
	for _, p := range profiles {
		if !d.chains[p.ChainID] || p.TokenAddress == "" {
			continue
		}

		token := &domain.Token{
			Address:          p.TokenAddress,
			ChainID:          p.ChainID,
			DexscreenerURL:   p.URL,
			DiscoveredAt:     d.now().UnixMilli(),
			LastFilterStatus: domain.FilterPending,
		}
		err := d.tokens.Insert(ctx, token)
		if errors.Is(err, storage.ErrDuplicateKey) {
			continue
		}
		if err != nil {
			return added, fmt.Errorf("track token %s: %w", p.TokenAddress, err)
		}

		added++
		observability.RecordTokenDiscovered()
		d.logger.Info().
			Str("token", p.TokenAddress).
			Str("chain", p.ChainID).
			Msg("tracking new token")
	}

	return added, nil
}
