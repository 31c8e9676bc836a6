package modules

import (
	"fmt"
	"strings"
	"time"
)

// Alert is a single watchlist event produced by the pool watcher.
type Alert struct {
	Address      string    `json:"address"`
	ChainID      string    `json:"chain_id"`
	Symbol       string    `json:"symbol"`
	Kind         string    `json:"kind"` // e.g. "liquidity_drop", "pool_gone"
	Text         string    `json:"text"`
	LiquidityUSD float64   `json:"liquidity_usd"`
	ChangePct    float64   `json:"change_pct"`
	Timestamp    time.Time `json:"timestamp"`
}

// Summary renders the alert as a single chat/log line.
func (a Alert) Summary() string {
	name := strings.ToUpper(a.Symbol)
	if name == "" {
		name = shortAddr(a.Address)
	}
	return fmt.Sprintf("⚠️ [%s] %s: %s", a.Kind, name, a.Text)
}
