package modules

import (
	"tokensentry/pkg/cache"
	"tokensentry/pkg/store"
)

// Package-level collaborators, wired from main at startup. The defaults keep
// every handler usable without external services.
var (
	agentCache cache.AgentCache = cache.NewMemoryCache()
	db         *store.Store
)

// SetCache swaps the cache backend (e.g. Redis when REDIS_URL is configured).
func SetCache(c cache.AgentCache) {
	if c != nil {
		agentCache = c
	}
}

// SetStore wires the persistence layer for assessments, alerts and the
// watchlist. A nil store disables history without breaking handlers.
func SetStore(s *store.Store) {
	db = s
}

// summarizeErr keeps user-facing failure lines to a single readable sentence.
func summarizeErr(err error) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
