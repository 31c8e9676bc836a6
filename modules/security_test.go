package modules

import (
	"encoding/json"
	"strings"
	"testing"
)

const goPlusFixture = `{
	"code": 1,
	"message": "ok",
	"result": {
		"0x1234567890abcdef1234567890abcdef12345678": {
			"token_name": "Suspicious Inu",
			"token_symbol": "SUS",
			"total_supply": "1000000000",
			"is_open_source": "0",
			"is_proxy": "1",
			"is_mintable": "0",
			"selfdestruct": "0",
			"hidden_owner": "1",
			"can_take_back_ownership": "0",
			"is_honeypot": "0",
			"honeypot_with_same_creator": "0",
			"transfer_pausable": "0",
			"is_anti_whale": "1",
			"trading_cooldown": "0",
			"buy_tax": "0.05",
			"sell_tax": "12",
			"holder_count": "4521"
		}
	}
}`

func TestGoPlusEnvelopeDecode(t *testing.T) {
	var env goPlusEnvelope
	if err := json.Unmarshal([]byte(goPlusFixture), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Code != 1 {
		t.Fatalf("Code = %d, want 1", env.Code)
	}

	facts, ok := env.Result["0x1234567890abcdef1234567890abcdef12345678"]
	if !ok {
		t.Fatal("fixture address missing from result map")
	}

	if facts.TokenName != "Suspicious Inu" {
		t.Errorf("TokenName = %q", facts.TokenName)
	}
	if !flagSet(facts.IsProxy) {
		t.Error("is_proxy should parse as set")
	}
	if flagSet(facts.IsHoneypot) {
		t.Error("is_honeypot should parse as clear")
	}
	if !flagSet(facts.HiddenOwner) {
		t.Error("hidden_owner should parse as set")
	}

	// hidden owner 90 + sell tax 70 + closed source 60 + proxy 20
	if score := ComputeRiskScore(facts); score != 240 {
		t.Errorf("ComputeRiskScore = %d, want 240", score)
	}
}

func TestFlagSetContract(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"0", false},
		{"", false},
		{"true", false},
		{"yes", false},
		{"01", false},
		{" 1", false},
	}
	for _, tt := range tests {
		if got := flagSet(tt.value); got != tt.want {
			t.Errorf("flagSet(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestResolveChainID(t *testing.T) {
	tests := []struct {
		slug   string
		wantID string
		wantOK bool
	}{
		{"eth", "1", true},
		{"Ethereum", "1", true},
		{"bsc", "56", true},
		{"BNB", "56", true},
		{"polygon", "137", true},
		{"base", "8453", true},
		{"solana", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		id, ok := ResolveChainID(tt.slug)
		if ok != tt.wantOK || id != tt.wantID {
			t.Errorf("ResolveChainID(%q) = (%q, %v), want (%q, %v)", tt.slug, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestBuildSecurityReply(t *testing.T) {
	var env goPlusEnvelope
	if err := json.Unmarshal([]byte(goPlusFixture), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	facts := env.Result["0x1234567890abcdef1234567890abcdef12345678"]
	a := AssessToken("0x1234567890abcdef1234567890abcdef12345678", "56", facts)

	reply := BuildSecurityReply("bsc", facts, a)

	for _, want := range []string{
		"Suspicious Inu (SUS)",
		"Chain: bsc",
		"Risk: CRITICAL (score 240)",
		"hidden owner",
		"Sell tax: 12.0%",
		"Anti-whale: yes",
		"Holders: 4521",
		Recommendation(TierCritical),
	} {
		if !strings.Contains(reply, want) {
			t.Errorf("reply missing %q:\n%s", want, reply)
		}
	}
}

func TestFormatTax(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "n/a"},
		{"0", "0.0%"},
		{"12", "12.0%"},
		{"0.5", "0.5%"},
		{"garbage", "0.0%"},
	}
	for _, tt := range tests {
		if got := formatTax(tt.in); got != tt.want {
			t.Errorf("formatTax(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
