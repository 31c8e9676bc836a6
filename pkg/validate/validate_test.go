package validate

import (
	"strings"
	"testing"
)

func TestContractAddress(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		valid      bool
		normalized string
		warnings   int
	}{
		{
			name:       "checksummed address",
			input:      "0xdAC17F958D2ee523a2206206994597C13D831ec7",
			valid:      true,
			normalized: "0xdac17f958d2ee523a2206206994597c13d831ec7",
		},
		{
			name:       "already lowercase",
			input:      "0xdac17f958d2ee523a2206206994597c13d831ec7",
			valid:      true,
			normalized: "0xdac17f958d2ee523a2206206994597c13d831ec7",
		},
		{
			name:       "missing 0x prefix",
			input:      "dAC17F958D2ee523a2206206994597C13D831ec7",
			valid:      true,
			normalized: "0xdac17f958d2ee523a2206206994597c13d831ec7",
			warnings:   1,
		},
		{
			name:       "surrounding whitespace",
			input:      "  0xdAC17F958D2ee523a2206206994597C13D831ec7  ",
			valid:      true,
			normalized: "0xdac17f958d2ee523a2206206994597c13d831ec7",
		},
		{name: "empty", input: "", valid: false},
		{name: "whitespace only", input: "   ", valid: false},
		{name: "too short", input: "0x1234", valid: false},
		{name: "non-hex characters", input: "0xZZC17F958D2ee523a2206206994597C13D831ec7", valid: false},
		{name: "zero address", input: "0x0000000000000000000000000000000000000000", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ContractAddress(tt.input)
			if result.IsValid != tt.valid {
				t.Fatalf("ContractAddress(%q).IsValid = %v, want %v (errors: %v)",
					tt.input, result.IsValid, tt.valid, result.Errors)
			}
			if tt.valid && result.Normalized != tt.normalized {
				t.Errorf("Normalized = %q, want %q", result.Normalized, tt.normalized)
			}
			if tt.warnings > 0 && len(result.Warnings) != tt.warnings {
				t.Errorf("got %d warnings %v, want %d", len(result.Warnings), result.Warnings, tt.warnings)
			}
			if !tt.valid && len(result.Errors) == 0 {
				t.Error("invalid result should carry at least one error")
			}
		})
	}
}

func TestChainSlug(t *testing.T) {
	for _, slug := range []string{"eth", "ethereum", "bsc", "bnb", "polygon", "matic", "arbitrum", "arb", "base", "avalanche", "avax"} {
		result := ChainSlug(slug)
		if !result.IsValid {
			t.Errorf("ChainSlug(%q) should be valid, errors: %v", slug, result.Errors)
		}
	}

	result := ChainSlug("  ETH  ")
	if !result.IsValid || result.Normalized != "eth" {
		t.Errorf("ChainSlug should trim and lowercase, got valid=%v normalized=%q", result.IsValid, result.Normalized)
	}

	for _, slug := range []string{"", "solana", "tron", "not-a-chain"} {
		result := ChainSlug(slug)
		if result.IsValid {
			t.Errorf("ChainSlug(%q) should be invalid", slug)
		}
	}
}

func TestCoinSymbol(t *testing.T) {
	tests := []struct {
		input      string
		valid      bool
		normalized string
	}{
		{"btc", true, "btc"},
		{"ETH", true, "eth"},
		{"$PEPE", true, "pepe"},
		{"shiba-inu", true, "shiba-inu"},
		{"", false, ""},
		{"$", false, ""},
		{"btc usd", false, "btc usd"},
		{"-dash", false, "-dash"},
		{strings.Repeat("a", 51), false, strings.Repeat("a", 51)},
	}

	for _, tt := range tests {
		result := CoinSymbol(tt.input)
		if result.IsValid != tt.valid {
			t.Errorf("CoinSymbol(%q).IsValid = %v, want %v (errors: %v)",
				tt.input, result.IsValid, tt.valid, result.Errors)
		}
		if result.Normalized != tt.normalized {
			t.Errorf("CoinSymbol(%q).Normalized = %q, want %q", tt.input, result.Normalized, tt.normalized)
		}
	}
}

func TestCoinSymbolSingleCharWarns(t *testing.T) {
	result := CoinSymbol("x")
	if !result.IsValid {
		t.Fatalf("single-character symbol should still be valid, errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected an ambiguity warning for a single-character symbol")
	}
}
