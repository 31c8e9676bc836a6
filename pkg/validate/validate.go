// Package validate checks the token identifiers users type into chat before
// any request goes out to an external API.
package validate

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Result is the outcome of validating one input.
type Result struct {
	IsValid    bool     `json:"is_valid"`
	Errors     []string `json:"errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Normalized string   `json:"normalized,omitempty"`
}

const zeroAddress = "0x0000000000000000000000000000000000000000"

// ContractAddress validates an EVM contract address. The normalized form is
// lowercased with the 0x prefix.
func ContractAddress(input string) *Result {
	result := &Result{IsValid: true}

	addr := strings.TrimSpace(input)
	if addr == "" {
		result.IsValid = false
		result.Errors = append(result.Errors, "contract address cannot be empty")
		return result
	}

	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		addr = "0x" + addr
		result.Warnings = append(result.Warnings, "added missing 0x prefix")
	}

	if !common.IsHexAddress(addr) {
		result.IsValid = false
		result.Errors = append(result.Errors, "not a valid hex contract address (expected 0x + 40 hex chars)")
		return result
	}

	normalized := strings.ToLower(common.HexToAddress(addr).Hex())
	result.Normalized = normalized

	if normalized == zeroAddress {
		result.IsValid = false
		result.Errors = append(result.Errors, "the zero address is not a token contract")
	}
	return result
}

// Chains this agent can query through GoPlus.
var supportedChains = map[string]bool{
	"eth":       true,
	"ethereum":  true,
	"bsc":       true,
	"bnb":       true,
	"polygon":   true,
	"matic":     true,
	"arbitrum":  true,
	"arb":       true,
	"base":      true,
	"avalanche": true,
	"avax":      true,
}

// ChainSlug validates a chain name. The normalized form is lowercased.
func ChainSlug(input string) *Result {
	result := &Result{IsValid: true}

	slug := strings.ToLower(strings.TrimSpace(input))
	result.Normalized = slug

	if slug == "" {
		result.IsValid = false
		result.Errors = append(result.Errors, "chain name cannot be empty")
		return result
	}
	if !supportedChains[slug] {
		result.IsValid = false
		result.Errors = append(result.Errors, "unsupported chain '"+slug+"'")
	}
	return result
}

var coinSymbolPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]*$`)

// CoinSymbol validates a market-data ticker or CoinGecko id. The normalized
// form is lowercased with any leading $ stripped.
func CoinSymbol(input string) *Result {
	result := &Result{IsValid: true}

	sym := strings.ToLower(strings.TrimSpace(input))
	if strings.HasPrefix(sym, "$") {
		sym = strings.TrimPrefix(sym, "$")
		result.Warnings = append(result.Warnings, "stripped leading $")
	}
	result.Normalized = sym

	if sym == "" {
		result.IsValid = false
		result.Errors = append(result.Errors, "symbol cannot be empty")
		return result
	}
	if len(sym) > 50 {
		result.IsValid = false
		result.Errors = append(result.Errors, "symbol is too long")
	}
	if !coinSymbolPattern.MatchString(sym) {
		result.IsValid = false
		result.Errors = append(result.Errors, "symbol contains invalid characters")
	}
	if len(sym) == 1 {
		result.Warnings = append(result.Warnings, "single-character symbols are ambiguous")
	}
	return result
}
