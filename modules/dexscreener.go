package modules

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"tokensentry/pkg/validate"
)

const dexScreenerBaseURL = "https://api.dexscreener.com/latest/dex/tokens"

// DexPair is one trading pair as reported by DexScreener.
type DexPair struct {
	ChainID     string `json:"chainId"`
	DexID       string `json:"dexId"`
	PairAddress string `json:"pairAddress"`
	BaseToken   struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	QuoteToken struct {
		Symbol string `json:"symbol"`
	} `json:"quoteToken"`
	PriceUSD  string `json:"priceUsd"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	PriceChange struct {
		H24 float64 `json:"h24"`
	} `json:"priceChange"`
	PairCreatedAt int64 `json:"pairCreatedAt"` // unix millis
}

type dexScreenerResponse struct {
	Pairs []DexPair `json:"pairs"`
}

// PoolMetrics aggregates a token's liquidity picture across all its pairs.
type PoolMetrics struct {
	Pairs             []DexPair
	TotalLiquidityUSD float64
	TotalVolume24hUSD float64
	LargestPoolShare  float64 // fraction of total liquidity in the deepest pool
	OldestPoolAgeDays float64
}

// Liquidity spread this thin across pools means real trades eat slippage.
const fragmentationSafeShare = 0.5

// GetPoolMetrics fetches every DexScreener pair for a token and aggregates
// liquidity, volume, fragmentation and pool age.
func GetPoolMetrics(address string) (PoolMetrics, error) {
	url := fmt.Sprintf("%s/%s", dexScreenerBaseURL, strings.ToLower(address))
	body, err := getJSON("dexscreener", url, nil)
	if err != nil {
		return PoolMetrics{}, err
	}

	var parsed dexScreenerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return PoolMetrics{}, fmt.Errorf("dexscreener decode err: %w", err)
	}
	if len(parsed.Pairs) == 0 {
		return PoolMetrics{}, fmt.Errorf("no liquidity pools found for %s", address)
	}

	return aggregatePools(parsed.Pairs), nil
}

// aggregatePools computes pool metrics from an already-fetched pair list.
func aggregatePools(pairs []DexPair) PoolMetrics {
	m := PoolMetrics{Pairs: pairs}

	var largest float64
	var oldest int64
	for _, p := range pairs {
		m.TotalLiquidityUSD += p.Liquidity.USD
		m.TotalVolume24hUSD += p.Volume.H24
		if p.Liquidity.USD > largest {
			largest = p.Liquidity.USD
		}
		if p.PairCreatedAt > 0 && (oldest == 0 || p.PairCreatedAt < oldest) {
			oldest = p.PairCreatedAt
		}
	}

	if m.TotalLiquidityUSD > 0 {
		m.LargestPoolShare = largest / m.TotalLiquidityUSD
	}
	if oldest > 0 {
		m.OldestPoolAgeDays = time.Since(time.UnixMilli(oldest)).Hours() / 24
	}

	// deepest pools first for display
	sort.Slice(m.Pairs, func(i, j int) bool {
		return m.Pairs[i].Liquidity.USD > m.Pairs[j].Liquidity.USD
	})
	return m
}

// RunPools is the public entry for the pools command.
func RunPools(args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: pools [address] [chain]. Example: pools 0xdAC17F958D2ee523a2206206994597C13D831ec7", nil
	}
	res := validate.ContractAddress(args[0])
	if !res.IsValid {
		return "Invalid contract address: " + strings.Join(res.Errors, "; "), nil
	}

	var chainFilter string
	if len(args) > 1 {
		chainFilter = strings.ToLower(strings.TrimSpace(args[1]))
	}

	metrics, err := GetPoolMetrics(res.Normalized)
	if err != nil {
		return fmt.Sprintf("Pool lookup for %s failed. Reason: %s", shortAddr(res.Normalized), summarizeErr(err)), nil
	}
	return BuildPoolsReply(res.Normalized, chainFilter, metrics), nil
}

// BuildPoolsReply renders the liquidity-pool analytics summary.
func BuildPoolsReply(address, chainFilter string, m PoolMetrics) string {
	pairs := m.Pairs
	if chainFilter != "" {
		filtered := pairs[:0:0]
		for _, p := range pairs {
			if strings.EqualFold(p.ChainID, chainFilter) {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) > 0 {
			pairs = filtered
		}
	}

	symbol := ""
	if len(pairs) > 0 {
		symbol = strings.ToUpper(pairs[0].BaseToken.Symbol)
	}

	var b strings.Builder
	if symbol != "" {
		fmt.Fprintf(&b, "Liquidity pools for $%s (%s)\n", symbol, shortAddr(address))
	} else {
		fmt.Fprintf(&b, "Liquidity pools for %s\n", shortAddr(address))
	}
	fmt.Fprintf(&b, "Total liquidity: $%s across %d pools • 24h volume: $%s\n",
		formatUSD(m.TotalLiquidityUSD), len(pairs), formatUSD(m.TotalVolume24hUSD))
	if m.OldestPoolAgeDays > 0 {
		fmt.Fprintf(&b, "Oldest pool: %.1f days\n", m.OldestPoolAgeDays)
	}

	b.WriteString("Top pools:\n")
	shown := pairs
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, p := range shown {
		fmt.Fprintf(&b, " - %s/%s on %s (%s): $%s liq • $%s vol • %+.2f%% 24h\n",
			strings.ToUpper(p.BaseToken.Symbol), strings.ToUpper(p.QuoteToken.Symbol),
			p.DexID, p.ChainID,
			formatUSD(p.Liquidity.USD), formatUSD(p.Volume.H24), p.PriceChange.H24)
	}

	if m.LargestPoolShare > 0 && m.LargestPoolShare < fragmentationSafeShare {
		fmt.Fprintf(&b, "⚠️ Liquidity is fragmented: deepest pool holds only %.0f%% of the total. Expect higher slippage.",
			m.LargestPoolShare*100)
	} else {
		fmt.Fprintf(&b, "Deepest pool holds %.0f%% of total liquidity.", m.LargestPoolShare*100)
	}
	return b.String()
}
