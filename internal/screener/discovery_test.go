package screener

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"rugscreen/internal/dexscreener"
	"rugscreen/internal/storage/memory"
)

type fakeProfiles struct {
	profiles []dexscreener.TokenProfile
	err      error
}

func (f *fakeProfiles) LatestProfiles(_ context.Context) ([]dexscreener.TokenProfile, error) {
	return f.profiles, f.err
}

func TestDiscoveryRun(t *testing.T) {
	ctx := context.Background()
	tokens := memory.NewTokenStore()

	feed := &fakeProfiles{profiles: []dexscreener.TokenProfile{
		{ChainID: "bsc", TokenAddress: "0xaaa", URL: "https://dexscreener.com/bsc/0xaaa"},
		{ChainID: "base", TokenAddress: "0xbbb"},
		{ChainID: "solana", TokenAddress: "SoLToKeN"}, // off-target chain
		{ChainID: "bsc", TokenAddress: ""},            // malformed entry
	}}

	d := NewDiscovery(feed, tokens, []string{"bsc", "base"}, zerolog.Nop())

	added, err := d.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if added != 2 {
		t.Errorf("added: got %d, want 2", added)
	}

	stored, _ := tokens.GetByAddress(ctx, "0xaaa")
	if stored.LastFilterStatus != "PENDING" {
		t.Errorf("new token status: got %s, want PENDING", stored.LastFilterStatus)
	}
	if stored.DiscoveredAt == 0 {
		t.Error("DiscoveredAt not stamped")
	}
	if _, err := tokens.GetByAddress(ctx, "SoLToKeN"); err == nil {
		t.Error("off-target chain token was tracked")
	}
}

func TestDiscoveryRun_DuplicatesSkipped(t *testing.T) {
	ctx := context.Background()
	tokens := memory.NewTokenStore()

	feed := &fakeProfiles{profiles: []dexscreener.TokenProfile{
		{ChainID: "bsc", TokenAddress: "0xaaa"},
	}}
	d := NewDiscovery(feed, tokens, []string{"bsc"}, zerolog.Nop())

	if added, err := d.Run(ctx); err != nil || added != 1 {
		t.Fatalf("first run: added=%d err=%v", added, err)
	}
	// Second run sees the same feed and tracks nothing new.
	added, err := d.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if added != 0 {
		t.Errorf("added on rerun: got %d, want 0", added)
	}
}
