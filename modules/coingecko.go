package modules

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Symbol -> CoinGecko id mapping for common tokens. Unknown symbols fall
// through and are tried as ids directly.
var cgSymbolToID = map[string]string{
	"btc":   "bitcoin",
	"eth":   "ethereum",
	"bnb":   "binancecoin",
	"sol":   "solana",
	"matic": "matic-network",
	"ada":   "cardano",
	"doge":  "dogecoin",
	"usdt":  "tether",
	"usdc":  "usd-coin",
	"ltc":   "litecoin",
	"avax":  "avalanche-2",
	"dot":   "polkadot",
	"link":  "chainlink",
	"shib":  "shiba-inu",
	"uni":   "uniswap",
	"ftm":   "fantom",
	"atom":  "cosmos",
	"op":    "optimism",
	"arb":   "arbitrum",
	"pepe":  "pepe",
}

const (
	coinGeckoBaseURL = "https://api.coingecko.com/api/v3"
	marketCacheTTL   = 30 * time.Second
)

// MarketData holds the market fields extracted from CoinGecko.
type MarketData struct {
	ID           string    `json:"id"`
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	PriceUSD     float64   `json:"price_usd"`
	Change24h    float64   `json:"change_24h"` // percentage
	Change7d     float64   `json:"change_7d"`  // percentage
	High24hUSD   float64   `json:"high_24h_usd"`
	Low24hUSD    float64   `json:"low_24h_usd"`
	Volume24hUSD float64   `json:"volume_24h_usd"`
	MarketCapUSD float64   `json:"market_cap_usd"`
	RetrievedAt  time.Time `json:"retrieved_at"`
}

// cgCoinResponse is the subset of /coins/{id} this agent consumes.
type cgCoinResponse struct {
	ID         string `json:"id"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	MarketData struct {
		CurrentPrice      map[string]float64 `json:"current_price"`
		PriceChangePct24h float64            `json:"price_change_percentage_24h"`
		PriceChangePct7d  float64            `json:"price_change_percentage_7d"`
		High24h           map[string]float64 `json:"high_24h"`
		Low24h            map[string]float64 `json:"low_24h"`
		TotalVolume       map[string]float64 `json:"total_volume"`
		MarketCap         map[string]float64 `json:"market_cap"`
	} `json:"market_data"`
}

// resolveCoinID maps a user-typed symbol or id to a CoinGecko id.
func resolveCoinID(symbolOrID string) string {
	s := strings.ToLower(strings.TrimSpace(symbolOrID))
	if id, ok := cgSymbolToID[s]; ok {
		return id
	}
	return s
}

// GetMarketData fetches market data for a symbol or CoinGecko id, with a
// short TTL cache in front of the API.
func GetMarketData(symbolOrID string) (MarketData, error) {
	id := resolveCoinID(symbolOrID)
	cacheKey := "coingecko:" + id

	ctx := context.Background()
	if raw, err := agentCache.Get(ctx, cacheKey); err == nil && raw != "" {
		var md MarketData
		if json.Unmarshal([]byte(raw), &md) == nil {
			return md, nil
		}
	}

	url := fmt.Sprintf("%s/coins/%s?localization=false&tickers=false&market_data=true&community_data=false&developer_data=false&sparkline=false",
		coinGeckoBaseURL, id)
	body, err := getJSON("coingecko", url, nil)
	if err != nil {
		return MarketData{}, err
	}

	var parsed cgCoinResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return MarketData{}, fmt.Errorf("coingecko decode err: %w", err)
	}
	if parsed.ID == "" {
		return MarketData{}, fmt.Errorf("coingecko: no data for '%s'", id)
	}

	md := MarketData{
		ID:           parsed.ID,
		Symbol:       parsed.Symbol,
		Name:         parsed.Name,
		PriceUSD:     parsed.MarketData.CurrentPrice["usd"],
		Change24h:    parsed.MarketData.PriceChangePct24h,
		Change7d:     parsed.MarketData.PriceChangePct7d,
		High24hUSD:   parsed.MarketData.High24h["usd"],
		Low24hUSD:    parsed.MarketData.Low24h["usd"],
		Volume24hUSD: parsed.MarketData.TotalVolume["usd"],
		MarketCapUSD: parsed.MarketData.MarketCap["usd"],
		RetrievedAt:  time.Now().UTC(),
	}

	if raw, err := json.Marshal(md); err == nil {
		_ = agentCache.Set(ctx, cacheKey, string(raw), marketCacheTTL)
	}
	return md, nil
}

// GetCoinSnapshot fetches the full CoinGecko record and renders the extended
// snapshot (rank, ATH, sentiment, homepage) that the typed struct above does
// not carry.
func GetCoinSnapshot(symbolOrID string) (string, error) {
	id := resolveCoinID(symbolOrID)
	url := fmt.Sprintf("%s/coins/%s?localization=false&tickers=false&market_data=true&community_data=true&developer_data=false&sparkline=false",
		coinGeckoBaseURL, id)
	body, err := getJSON("coingecko", url, nil)
	if err != nil {
		return "", err
	}

	root := gjson.ParseBytes(body)
	name := root.Get("name").String()
	if name == "" {
		return "", fmt.Errorf("coingecko: no data for '%s'", id)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CoinGecko snapshot: %s (%s)\n", name, strings.ToUpper(root.Get("symbol").String()))
	if rank := root.Get("market_cap_rank").Int(); rank > 0 {
		fmt.Fprintf(&b, "Rank: #%d\n", rank)
	}
	fmt.Fprintf(&b, "Price: $%s • 24h: %+.2f%% • 7d: %+.2f%%\n",
		formatUSD(root.Get("market_data.current_price.usd").Float()),
		root.Get("market_data.price_change_percentage_24h").Float(),
		root.Get("market_data.price_change_percentage_7d").Float())
	fmt.Fprintf(&b, "MarketCap: $%s • 24h Volume: $%s\n",
		formatUSD(root.Get("market_data.market_cap.usd").Float()),
		formatUSD(root.Get("market_data.total_volume.usd").Float()))
	fmt.Fprintf(&b, "ATH: $%s (%+.1f%% from ATH)\n",
		formatUSD(root.Get("market_data.ath.usd").Float()),
		root.Get("market_data.ath_change_percentage.usd").Float())
	if up := root.Get("sentiment_votes_up_percentage").Float(); up > 0 {
		fmt.Fprintf(&b, "Community sentiment: 👍 %.1f%% / 👎 %.1f%%\n", up, 100-up)
	}
	if home := root.Get("links.homepage.0").String(); home != "" {
		fmt.Fprintf(&b, "Homepage: %s\n", home)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func formatUSD(v float64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%.2fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.0f", v)
	case v >= 1:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.6f", v)
	}
}
