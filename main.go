// main.go
package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"tokensentry/modules"
	"tokensentry/pkg/auth"
	"tokensentry/pkg/cache"
	"tokensentry/pkg/health"
	"tokensentry/pkg/store"
	"tokensentry/pkg/version"

	"github.com/TeneoProtocolAI/teneo-agent-sdk/pkg/agent"
	"github.com/joho/godotenv"
)

const helpText = "Available commands: security, risk, search, price, marketcap, volume, gecko, trend, pools, watch, unwatch, history, ai"

var agentCommands = []string{
	"security", "risk", "search", "price", "marketcap", "volume",
	"gecko", "trend", "pools", "watch", "unwatch", "history", "ai",
}

// TokenSentryAgent routes chat tasks to the plugin modules.
type TokenSentryAgent struct {
	tasksHandled int64
}

func (a *TokenSentryAgent) ProcessTask(ctx context.Context, task string) (string, error) {
	log.Printf("Processing task: %s", task)
	atomic.AddInt64(&a.tasksHandled, 1)

	task = strings.TrimSpace(task)
	task = strings.TrimPrefix(task, "/")
	parts := strings.Fields(task)
	if len(parts) == 0 {
		return "No command provided. " + helpText, nil
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "security", "scan":
		return modules.RunSecurity(args)
	case "risk", "riskcheck":
		return modules.RunRiskCheck(args)
	case "search":
		return modules.RunSearch(args)
	case "price":
		return modules.RunPrice(args)
	case "marketcap":
		return modules.RunMarketCap(args)
	case "volume":
		return modules.RunVolume(args)
	case "gecko", "geckosnapshot":
		return modules.RunGeckoSnapshot(args)
	case "trend":
		return modules.RunTrend(args)
	case "pools", "liquidity":
		return modules.RunPools(args)
	case "watch":
		return modules.RunWatchToken(args)
	case "unwatch":
		return modules.RunUnwatchToken(args)
	case "history":
		return modules.RunHistory(args)
	case "ai":
		return modules.RunAI(args)
	case "help":
		return helpText, nil
	default:
		// natural-language fallback: an address anywhere in the task means
		// the user wants a security check
		if addr, ok := modules.ExtractContractAddress(task); ok {
			return modules.RunSecurity([]string{addr})
		}
		if modules.LLMConfigured() {
			return modules.RunAI(parts)
		}
		return "Unknown command '" + cmd + "'. " + helpText, nil
	}
}

// agentStatus implements health.StatusGetter.
type agentStatus struct {
	handler      *TokenSentryAgent
	db           *store.Store
	cacheBackend string
	startedAt    time.Time
}

func (s *agentStatus) TasksHandled() int {
	return int(atomic.LoadInt64(&s.handler.tasksHandled))
}

func (s *agentStatus) WatchedTokens() int {
	if s.db == nil {
		return 0
	}
	return s.db.WatchedCount(context.Background())
}

func (s *agentStatus) CacheBackend() string { return s.cacheBackend }

func (s *agentStatus) Uptime() time.Duration { return time.Since(s.startedAt) }

func envInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	// persistence
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "tokensentry.db"
	}
	db, err := store.Open(dbPath)
	if err != nil {
		log.Printf("Warning: could not open store at %s: %v (history/watchlist disabled)", dbPath, err)
		db = nil
	} else {
		defer db.Close()
		modules.SetStore(db)
	}

	// cache backend
	cacheBackend := "memory"
	if url := os.Getenv("REDIS_URL"); url != "" {
		if rc, err := cache.NewRedisCache(url, "tokensentry"); err != nil {
			log.Printf("Warning: redis unavailable (%v), falling back to in-memory cache", err)
		} else {
			defer rc.Close()
			modules.SetCache(rc)
			cacheBackend = "redis"
		}
	}

	// wallet identity (optional; the SDK does its own auth from PRIVATE_KEY)
	wallet := ""
	if pk := os.Getenv("PRIVATE_KEY"); pk != "" {
		if id, err := auth.NewIdentity(pk); err != nil {
			log.Printf("Warning: could not parse PRIVATE_KEY: %v", err)
		} else {
			wallet = id.Address()
		}
	}

	// Teneo agent config
	config := agent.DefaultConfig()
	config.Name = "TokenSentry Analyst"
	config.Description = "TokenSentry answers token security, market data, web search and liquidity questions."
	config.Capabilities = []string{
		"token-security-scoring", "risk-classification", "honeypot-detection",
		"market-data", "liquidity-pool-analytics", "web-search", "watchlist-alerts",
	}
	config.PrivateKey = os.Getenv("PRIVATE_KEY")
	config.NFTTokenID = os.Getenv("NFT_TOKEN_ID")
	config.OwnerAddress = os.Getenv("OWNER_ADDRESS")
	config.RateLimitPerMinute = envInt("RATE_LIMIT_PER_MINUTE", 0)

	handler := &TokenSentryAgent{}
	enhancedAgent, err := agent.NewEnhancedAgent(&agent.EnhancedAgentConfig{
		Config:       config,
		AgentHandler: handler,
	})
	if err != nil {
		log.Fatal("agent.NewEnhancedAgent:", err)
	}

	log.Println("Starting TokenSentry Analyst...")
	go enhancedAgent.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// watchlist poller
	alertCh := make(chan modules.Alert, 16)
	pollInterval := envInt("WATCH_POLL_INTERVAL", 60)
	go modules.StartPoolWatcher(ctx, pollInterval, db, alertCh)

	go func() {
		for a := range alertCh {
			log.Println(a.Summary())
			if db != nil {
				rec := store.AlertRecord{
					Address:   a.Address,
					ChainID:   a.ChainID,
					Kind:      a.Kind,
					Text:      a.Text,
					CreatedAt: a.Timestamp,
				}
				if err := db.RecordAlert(ctx, rec); err != nil {
					log.Println("Warning: could not persist alert:", err)
				}
			}
		}
	}()

	// local observability surface
	healthServer := health.NewServer(
		envInt("HEALTH_PORT", 8080),
		&health.AgentInfo{
			Name:        config.Name,
			Version:     version.GetVersion(),
			Wallet:      wallet,
			Description: config.Description,
			Commands:    agentCommands,
		},
		&agentStatus{
			handler:      handler,
			db:           db,
			cacheBackend: cacheBackend,
			startedAt:    time.Now(),
		},
	)
	go func() {
		if err := healthServer.Start(); err != nil {
			log.Println("health server error:", err)
		}
	}()

	// block forever (agent runs in background)
	select {}
}
