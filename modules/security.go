package modules

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TokenSecurityFacts is the flat per-token record returned by the GoPlus
// token_security endpoint. Booleans arrive as the literal strings "1"/"0"
// and numbers as decimal strings; both conventions are preserved here so the
// classifier sees exactly what the API said.
type TokenSecurityFacts struct {
	TokenName   string `json:"token_name"`
	TokenSymbol string `json:"token_symbol"`
	TotalSupply string `json:"total_supply"`

	// Contract
	IsOpenSource string `json:"is_open_source"`
	IsProxy      string `json:"is_proxy"`
	IsMintable   string `json:"is_mintable"`
	SelfDestruct string `json:"selfdestruct"`

	// Ownership
	HiddenOwner             string `json:"hidden_owner"`
	CanTakeBackOwnership    string `json:"can_take_back_ownership"`
	IsHoneypot              string `json:"is_honeypot"`
	HoneypotWithSameCreator string `json:"honeypot_with_same_creator"`
	OwnerAddress            string `json:"owner_address"`
	CreatorAddress          string `json:"creator_address"`

	// Trading
	TransferPausable string `json:"transfer_pausable"`
	IsAntiWhale      string `json:"is_anti_whale"`
	TradingCooldown  string `json:"trading_cooldown"`
	BuyTax           string `json:"buy_tax"`
	SellTax          string `json:"sell_tax"`

	HolderCount string `json:"holder_count"`
	IsInDex     string `json:"is_in_dex"`
}

// goPlusEnvelope is the outer GoPlus response; result is keyed by the
// lowercased contract address.
type goPlusEnvelope struct {
	Code    int                           `json:"code"`
	Message string                        `json:"message"`
	Result  map[string]TokenSecurityFacts `json:"result"`
}

const goPlusBaseURL = "https://api.gopluslabs.io"

// chainSlugToID maps the chain names users type to GoPlus numeric chain ids.
var chainSlugToID = map[string]string{
	"eth":       "1",
	"ethereum":  "1",
	"bsc":       "56",
	"bnb":       "56",
	"polygon":   "137",
	"matic":     "137",
	"arbitrum":  "42161",
	"arb":       "42161",
	"base":      "8453",
	"avalanche": "43114",
	"avax":      "43114",
}

// DefaultChainID is used when the user gives an address without a chain.
const DefaultChainID = "1"

// ResolveChainID turns a user-supplied chain slug into a GoPlus chain id.
func ResolveChainID(slug string) (string, bool) {
	id, ok := chainSlugToID[strings.ToLower(strings.TrimSpace(slug))]
	return id, ok
}

const securityCacheTTL = 5 * time.Minute

// FetchTokenSecurity retrieves token-security facts from GoPlus, with a short
// cache so repeated checks of the same token do not hammer the API.
func FetchTokenSecurity(address, chainID string) (TokenSecurityFacts, error) {
	addr := strings.ToLower(strings.TrimSpace(address))
	cacheKey := "goplus:" + chainID + ":" + addr

	ctx := context.Background()
	if raw, err := agentCache.Get(ctx, cacheKey); err == nil && raw != "" {
		var facts TokenSecurityFacts
		if json.Unmarshal([]byte(raw), &facts) == nil {
			return facts, nil
		}
	}

	url := fmt.Sprintf("%s/api/v1/token_security/%s?contract_addresses=%s", goPlusBaseURL, chainID, addr)
	body, err := getJSON("goplus", url, nil)
	if err != nil {
		return TokenSecurityFacts{}, err
	}

	var env goPlusEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return TokenSecurityFacts{}, fmt.Errorf("goplus decode err: %w", err)
	}
	if env.Code != 1 {
		return TokenSecurityFacts{}, fmt.Errorf("goplus api error: %s", env.Message)
	}

	facts, ok := env.Result[addr]
	if !ok {
		return TokenSecurityFacts{}, fmt.Errorf("no security data for token %s on chain %s", addr, chainID)
	}

	if raw, err := json.Marshal(facts); err == nil {
		_ = agentCache.Set(ctx, cacheKey, string(raw), securityCacheTTL)
	}
	return facts, nil
}
