package modules

import (
	"testing"
)

// cleanFacts returns facts with every flag "0" and taxes at zero.
func cleanFacts() TokenSecurityFacts {
	return TokenSecurityFacts{
		TokenName:    "Clean Token",
		TokenSymbol:  "CLEAN",
		IsOpenSource: "1",
		IsProxy:      "0",
		IsMintable:   "0",
		SelfDestruct: "0",
		HiddenOwner:  "0",
		BuyTax:       "0",
		SellTax:      "0",
	}
}

func TestComputeRiskScore(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*TokenSecurityFacts)
		wantScore int
		wantTier  RiskTier
	}{
		{
			name:      "all flags clear",
			mutate:    func(f *TokenSecurityFacts) {},
			wantScore: 0,
			wantTier:  TierSafe,
		},
		{
			name:      "honeypot alone",
			mutate:    func(f *TokenSecurityFacts) { f.IsHoneypot = "1" },
			wantScore: 100,
			wantTier:  TierCritical,
		},
		{
			name:      "proxy alone",
			mutate:    func(f *TokenSecurityFacts) { f.IsProxy = "1" },
			wantScore: 20,
			wantTier:  TierLow,
		},
		{
			name: "mintable plus pausable",
			mutate: func(f *TokenSecurityFacts) {
				f.IsMintable = "1"
				f.TransferPausable = "1"
			},
			wantScore: 70,
			wantTier:  TierHigh,
		},
		{
			name:      "high buy tax",
			mutate:    func(f *TokenSecurityFacts) { f.BuyTax = "15" },
			wantScore: 70,
			wantTier:  TierHigh,
		},
		{
			name:      "high sell tax",
			mutate:    func(f *TokenSecurityFacts) { f.SellTax = "12.5" },
			wantScore: 70,
			wantTier:  TierHigh,
		},
		{
			name:      "tax exactly at threshold does not trigger",
			mutate:    func(f *TokenSecurityFacts) { f.BuyTax = "10" },
			wantScore: 0,
			wantTier:  TierSafe,
		},
		{
			name:      "malformed tax fails open",
			mutate:    func(f *TokenSecurityFacts) { f.BuyTax = "abc" },
			wantScore: 0,
			wantTier:  TierSafe,
		},
		{
			name:      "missing tax fields fail open",
			mutate:    func(f *TokenSecurityFacts) { f.BuyTax = ""; f.SellTax = "" },
			wantScore: 0,
			wantTier:  TierSafe,
		},
		{
			name:      "closed source",
			mutate:    func(f *TokenSecurityFacts) { f.IsOpenSource = "0" },
			wantScore: 60,
			wantTier:  TierMedium,
		},
		{
			name:      "hidden owner",
			mutate:    func(f *TokenSecurityFacts) { f.HiddenOwner = "1" },
			wantScore: 90,
			wantTier:  TierHigh,
		},
		{
			name: "weights are additive with no cap",
			mutate: func(f *TokenSecurityFacts) {
				f.IsHoneypot = "1"
				f.HoneypotWithSameCreator = "1"
				f.HiddenOwner = "1"
				f.SelfDestruct = "1"
				f.CanTakeBackOwnership = "1"
				f.BuyTax = "99"
				f.IsOpenSource = "0"
				f.IsMintable = "1"
				f.TradingCooldown = "1"
				f.TransferPausable = "1"
				f.IsProxy = "1"
			},
			wantScore: 690,
			wantTier:  TierCritical,
		},
		{
			name:      "anti-whale carries no weight",
			mutate:    func(f *TokenSecurityFacts) { f.IsAntiWhale = "1" },
			wantScore: 0,
			wantTier:  TierSafe,
		},
		{
			name:      "non-1 flag values are false",
			mutate:    func(f *TokenSecurityFacts) { f.IsHoneypot = "true"; f.IsProxy = "yes" },
			wantScore: 0,
			wantTier:  TierSafe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := cleanFacts()
			tt.mutate(&facts)

			score := ComputeRiskScore(facts)
			if score != tt.wantScore {
				t.Errorf("ComputeRiskScore = %d, want %d", score, tt.wantScore)
			}
			if tier := ClassifyScore(score); tier != tt.wantTier {
				t.Errorf("ClassifyScore(%d) = %s, want %s", score, tier, tt.wantTier)
			}
		})
	}
}

func TestComputeRiskScoreDeterministic(t *testing.T) {
	facts := cleanFacts()
	facts.IsHoneypot = "1"
	facts.BuyTax = "20"

	first := ComputeRiskScore(facts)
	for i := 0; i < 10; i++ {
		if got := ComputeRiskScore(facts); got != first {
			t.Fatalf("score changed between calls: %d then %d", first, got)
		}
	}
}

func TestClassifyScoreBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  RiskTier
	}{
		{0, TierSafe},
		{19, TierSafe},
		{20, TierLow},
		{39, TierLow},
		{40, TierMedium},
		{69, TierMedium},
		{70, TierHigh},
		{99, TierHigh},
		{100, TierCritical},
		{690, TierCritical},
	}
	for _, tt := range tests {
		if got := ClassifyScore(tt.score); got != tt.want {
			t.Errorf("ClassifyScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestClassifyScoreMonotonic(t *testing.T) {
	prev := TierSafe
	for score := 0; score <= 200; score++ {
		tier := ClassifyScore(score)
		if tier < prev {
			t.Fatalf("tier regressed at score %d: %s after %s", score, tier, prev)
		}
		prev = tier
	}
}

func TestRecommendation(t *testing.T) {
	tiers := []RiskTier{TierSafe, TierLow, TierMedium, TierHigh, TierCritical}
	seen := map[string]RiskTier{}
	for _, tier := range tiers {
		rec := Recommendation(tier)
		if rec == "" {
			t.Errorf("Recommendation(%s) is empty", tier)
		}
		if other, dup := seen[rec]; dup {
			t.Errorf("tiers %s and %s share a recommendation", other, tier)
		}
		seen[rec] = tier
	}
}

func TestAssessToken(t *testing.T) {
	facts := cleanFacts()
	facts.IsHoneypot = "1"
	facts.IsProxy = "1"

	a := AssessToken("0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef", "56", facts)

	if a.Score != 120 {
		t.Errorf("Score = %d, want 120", a.Score)
	}
	if a.Tier != TierCritical {
		t.Errorf("Tier = %s, want CRITICAL", a.Tier)
	}
	if len(a.Factors) != 2 {
		t.Errorf("Factors = %v, want 2 entries", a.Factors)
	}
	if a.ID == "" {
		t.Error("assessment should carry an id")
	}
	if a.Recommendation != Recommendation(TierCritical) {
		t.Errorf("Recommendation = %q, want the CRITICAL advisory", a.Recommendation)
	}
	if a.TokenSymbol != "CLEAN" {
		t.Errorf("TokenSymbol = %q, want CLEAN", a.TokenSymbol)
	}
}
