package modules

import (
	"context"
	"fmt"
	"log"
	"time"

	"tokensentry/pkg/store"
)

// A drop this large between polls is worth waking the user for.
const liquidityDropAlertPct = 30.0

// StartPoolWatcher polls DexScreener for every watchlisted token and sends an
// Alert when a token's aggregate liquidity drops sharply or its pools vanish.
// Runs until ctx is cancelled.
func StartPoolWatcher(ctx context.Context, intervalSec int, wl *store.Store, out chan<- Alert) {
	if wl == nil {
		log.Println("[watcher] no store configured; watcher disabled")
		return
	}
	log.Printf("[watcher] starting pool watcher (interval=%ds)", intervalSec)

	// last observed aggregate liquidity per address
	baseline := map[string]float64{}

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[watcher] stopped")
			return
		case <-ticker.C:
			entries, err := wl.Watched(ctx)
			if err != nil {
				log.Printf("[watcher] could not read watchlist: %v", err)
				continue
			}
			for _, e := range entries {
				checkWatchedToken(e, baseline, out)
			}
		}
	}
}

func checkWatchedToken(e store.WatchEntry, baseline map[string]float64, out chan<- Alert) {
	metrics, err := GetPoolMetrics(e.Address)
	if err != nil {
		prev, seen := baseline[e.Address]
		if seen && prev > 0 {
			out <- Alert{
				Address:   e.Address,
				ChainID:   e.ChainID,
				Kind:      "pool_gone",
				Text:      fmt.Sprintf("pools no longer visible on DexScreener (was $%s liquidity)", formatUSD(prev)),
				Timestamp: time.Now().UTC(),
			}
			delete(baseline, e.Address)
		}
		return
	}

	symbol := ""
	if len(metrics.Pairs) > 0 {
		symbol = metrics.Pairs[0].BaseToken.Symbol
	}

	prev, seen := baseline[e.Address]
	baseline[e.Address] = metrics.TotalLiquidityUSD
	if !seen || prev <= 0 {
		return
	}

	dropPct := (prev - metrics.TotalLiquidityUSD) / prev * 100
	if dropPct >= liquidityDropAlertPct {
		out <- Alert{
			Address:      e.Address,
			ChainID:      e.ChainID,
			Symbol:       symbol,
			Kind:         "liquidity_drop",
			Text:         fmt.Sprintf("liquidity dropped %.1f%% to $%s", dropPct, formatUSD(metrics.TotalLiquidityUSD)),
			LiquidityUSD: metrics.TotalLiquidityUSD,
			ChangePct:    -dropPct,
			Timestamp:    time.Now().UTC(),
		}
	}
}
