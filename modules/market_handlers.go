package modules

import (
	"fmt"
	"strings"
)

const replyTimeLayout = "2006-01-02 15:04:05 MST"

// RunPrice is the public entry for the price command.
func RunPrice(args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: price [token]. Example: price sol", nil
	}
	md, err := GetMarketData(strings.Join(args, ""))
	if err != nil {
		return marketUnavailable("Price", args[0], err), nil
	}
	return fmt.Sprintf("Price for $%s: $%s (24h: %+.2f%%)\nData as of: %s",
		strings.ToUpper(md.Symbol), formatUSD(md.PriceUSD), md.Change24h,
		md.RetrievedAt.Format(replyTimeLayout)), nil
}

// RunMarketCap is the public entry for the marketcap command.
func RunMarketCap(args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: marketcap [token]. Example: marketcap eth", nil
	}
	md, err := GetMarketData(strings.Join(args, ""))
	if err != nil {
		return marketUnavailable("Market cap", args[0], err), nil
	}
	return fmt.Sprintf("Market cap for $%s: $%s\nPrice: $%s • 24h Volume: $%s",
		strings.ToUpper(md.Symbol), formatUSD(md.MarketCapUSD),
		formatUSD(md.PriceUSD), formatUSD(md.Volume24hUSD)), nil
}

// RunVolume is the public entry for the volume command.
func RunVolume(args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: volume [token]. Example: volume btc", nil
	}
	md, err := GetMarketData(strings.Join(args, ""))
	if err != nil {
		return marketUnavailable("Volume", args[0], err), nil
	}
	turnover := 0.0
	if md.MarketCapUSD > 0 {
		turnover = md.Volume24hUSD / md.MarketCapUSD * 100
	}
	return fmt.Sprintf("24h volume for $%s: $%s (%.1f%% of market cap)",
		strings.ToUpper(md.Symbol), formatUSD(md.Volume24hUSD), turnover), nil
}

// RunTrend is the public entry for the trend command.
func RunTrend(args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: trend [token]. Example: trend sol", nil
	}
	md, err := GetMarketData(strings.Join(args, ""))
	if err != nil {
		return marketUnavailable("Trend", args[0], err), nil
	}
	return buildTrendText(md), nil
}

// RunGeckoSnapshot is the public entry for the gecko command.
func RunGeckoSnapshot(args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: gecko [id_or_symbol]. Example: gecko bitcoin", nil
	}
	reply, err := GetCoinSnapshot(strings.Join(args, ""))
	if err != nil {
		return marketUnavailable("Snapshot", args[0], err), nil
	}
	return reply, nil
}

// buildTrendText renders the 24h/7d trend summary for already-fetched data.
func buildTrendText(md MarketData) string {
	trend := "neutral"
	if md.Change24h >= 2.0 {
		trend = "bullish"
	} else if md.Change24h <= -2.0 {
		trend = "bearish"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Trend for $%s: %s\n", strings.ToUpper(md.Symbol), trend)
	fmt.Fprintf(&b, "24h: %+.2f%% • 7d: %+.2f%%\n", md.Change24h, md.Change7d)
	fmt.Fprintf(&b, "24h range: $%s - $%s\n", formatUSD(md.Low24hUSD), formatUSD(md.High24hUSD))
	fmt.Fprintf(&b, "Price: $%s • MarketCap: $%s", formatUSD(md.PriceUSD), formatUSD(md.MarketCapUSD))
	return b.String()
}

func marketUnavailable(what, symbol string, err error) string {
	return fmt.Sprintf("%s for $%s: (data unavailable). Reason: %s",
		what, strings.ToUpper(symbol), summarizeErr(err))
}
