package filter

import (
	"reflect"
	"strings"
	"testing"

	"rugscreen/internal/domain"
)

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

// cleanProfile returns a profile that passes every default rule.
func cleanProfile() domain.SecurityProfile {
	return domain.SecurityProfile{
		IsHoneypot:  boolPtr(false),
		IsMintable:  boolPtr(false),
		BuyTaxPct:   floatPtr(5),
		SellTaxPct:  floatPtr(5),
		LPLockedPct: 90,
	}
}

// singlePair100k: low bracket, ratio 1.0 -> concentration score 60.
func singlePair100k() []domain.Pair {
	return []domain.Pair{{DexID: "pancakeswap", LiquidityUSD: 100_000}}
}

func TestApply_AllRulesPass(t *testing.T) {
	result := Apply(cleanProfile(), singlePair100k(), DefaultThresholds())

	if result.Status != domain.FilterPass {
		t.Errorf("Status: got %s, want PASS (reasons: %v)", result.Status, result.Reasons)
	}
	if len(result.Reasons) != 0 {
		t.Errorf("Reasons: got %v, want empty", result.Reasons)
	}
	if result.Metrics.LiquidityUSD != 100_000 {
		t.Errorf("Metrics.LiquidityUSD: got %f, want 100000", result.Metrics.LiquidityUSD)
	}
	if result.Metrics.ConcentrationScore != 60 {
		t.Errorf("Metrics.ConcentrationScore: got %f, want 60", result.Metrics.ConcentrationScore)
	}
}

func TestApply_UnknownHoneypotIsPending(t *testing.T) {
	profile := cleanProfile()
	profile.IsHoneypot = nil

	result := Apply(profile, singlePair100k(), DefaultThresholds())

	if result.Status != domain.FilterPending {
		t.Errorf("Status: got %s, want PENDING", result.Status)
	}
	if len(result.Reasons) != 1 || result.Reasons[0] != ReasonOracleDataMissing {
		t.Errorf("Reasons: got %v, want [%s]", result.Reasons, ReasonOracleDataMissing)
	}
	// Observability fields still populated on PENDING.
	if result.Metrics.ConcentrationScore != 60 {
		t.Errorf("Metrics.ConcentrationScore: got %f, want 60", result.Metrics.ConcentrationScore)
	}
	if result.Metrics.LiquidityUSD != 100_000 {
		t.Errorf("Metrics.LiquidityUSD: got %f, want 100000", result.Metrics.LiquidityUSD)
	}
	if result.Metrics.BuyTaxPct != nil || result.Metrics.IsHoneypot != nil {
		t.Error("Metrics safety fields must stay nil on PENDING")
	}
}

func TestApply_UnknownTaxIsPending(t *testing.T) {
	for _, field := range []string{"buy", "sell"} {
		t.Run(field, func(t *testing.T) {
			profile := cleanProfile()
			if field == "buy" {
				profile.BuyTaxPct = nil
			} else {
				profile.SellTaxPct = nil
			}

			result := Apply(profile, singlePair100k(), DefaultThresholds())

			if result.Status != domain.FilterPending {
				t.Errorf("Status: got %s, want PENDING", result.Status)
			}
		})
	}
}

func TestApply_BuyTaxViolation(t *testing.T) {
	profile := cleanProfile()
	profile.BuyTaxPct = floatPtr(15)

	result := Apply(profile, singlePair100k(), DefaultThresholds())

	if result.Status != domain.FilterFail {
		t.Errorf("Status: got %s, want FAIL", result.Status)
	}
	if len(result.Reasons) != 1 {
		t.Fatalf("Reasons: got %v, want exactly one", result.Reasons)
	}
	if !strings.HasPrefix(result.Reasons[0], "buy_tax_too_high") {
		t.Errorf("Reason: got %q, want buy tax violation", result.Reasons[0])
	}
}

func TestApply_ReasonsAccumulate(t *testing.T) {
	profile := domain.SecurityProfile{
		IsHoneypot:  boolPtr(true),
		IsMintable:  boolPtr(true),
		BuyTaxPct:   floatPtr(50),
		SellTaxPct:  floatPtr(50),
		LPLockedPct: 0,
	}
	pairs := []domain.Pair{{LiquidityUSD: 500}}

	result := Apply(profile, pairs, DefaultThresholds())

	if result.Status != domain.FilterFail {
		t.Errorf("Status: got %s, want FAIL", result.Status)
	}
	// All 7 rules violated: honeypot, lp lock, concentration, liquidity,
	// buy tax, sell tax, mintable.
	if len(result.Reasons) != 7 {
		t.Errorf("Reasons: got %d (%v), want 7", len(result.Reasons), result.Reasons)
	}
}

func TestApply_UnknownMintableFails(t *testing.T) {
	profile := cleanProfile()
	profile.IsMintable = nil

	result := Apply(profile, singlePair100k(), DefaultThresholds())

	if result.Status != domain.FilterFail {
		t.Errorf("Status: got %s, want FAIL", result.Status)
	}
	if len(result.Reasons) != 1 || result.Reasons[0] != "mintable_status_unknown" {
		t.Errorf("Reasons: got %v, want [mintable_status_unknown]", result.Reasons)
	}
}

func TestApply_ThresholdOverrides(t *testing.T) {
	// Loosening the thresholds turns the same inputs into a PASS.
	profile := cleanProfile()
	profile.LPLockedPct = 10

	strict := Apply(profile, singlePair100k(), DefaultThresholds())
	if strict.Status != domain.FilterFail {
		t.Fatalf("strict Status: got %s, want FAIL", strict.Status)
	}

	loose := DefaultThresholds()
	loose.MinLPLockedPct = 5
	relaxed := Apply(profile, singlePair100k(), loose)
	if relaxed.Status != domain.FilterPass {
		t.Errorf("relaxed Status: got %s, want PASS (reasons: %v)", relaxed.Status, relaxed.Reasons)
	}
}

func TestApply_Deterministic(t *testing.T) {
	profile := cleanProfile()
	profile.BuyTaxPct = floatPtr(12)
	pairs := singlePair100k()
	th := DefaultThresholds()

	first := Apply(profile, pairs, th)
	for i := 0; i < 10; i++ {
		if got := Apply(profile, pairs, th); !reflect.DeepEqual(first, got) {
			t.Fatalf("call %d differs: %+v vs %+v", i, first, got)
		}
	}
}

func TestApply_PassIffNoReasons(t *testing.T) {
	profiles := []domain.SecurityProfile{
		cleanProfile(),
		{IsHoneypot: boolPtr(true), IsMintable: boolPtr(false), BuyTaxPct: floatPtr(0), SellTaxPct: floatPtr(0), LPLockedPct: 90},
		{IsHoneypot: boolPtr(false), IsMintable: boolPtr(false), BuyTaxPct: floatPtr(11), SellTaxPct: floatPtr(0), LPLockedPct: 90},
		{},
	}

	for i, p := range profiles {
		result := Apply(p, singlePair100k(), DefaultThresholds())
		if (result.Status == domain.FilterPass) != (len(result.Reasons) == 0) {
			t.Errorf("profile %d: status %s inconsistent with reasons %v", i, result.Status, result.Reasons)
		}
	}
}

func TestApply_EmptyPairList(t *testing.T) {
	// No pairs at all: concentration 0 and liquidity 0 both violate.
	result := Apply(cleanProfile(), nil, DefaultThresholds())

	if result.Status != domain.FilterFail {
		t.Errorf("Status: got %s, want FAIL", result.Status)
	}
	if len(result.Reasons) != 2 {
		t.Errorf("Reasons: got %v, want concentration + liquidity violations", result.Reasons)
	}
}
