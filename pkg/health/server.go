// Package health exposes the agent's local observability endpoints.
package health

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// AgentInfo describes the running agent.
type AgentInfo struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Wallet      string   `json:"wallet,omitempty"`
	Description string   `json:"description"`
	Commands    []string `json:"commands"`
}

// StatusGetter reports the agent's live counters.
type StatusGetter interface {
	TasksHandled() int
	WatchedTokens() int
	CacheBackend() string
	Uptime() time.Duration
}

// Status is the JSON shape served on /status.
type Status struct {
	Status        string    `json:"status"`
	TasksHandled  int       `json:"tasks_handled"`
	WatchedTokens int       `json:"watched_tokens"`
	CacheBackend  string    `json:"cache_backend"`
	Uptime        string    `json:"uptime"`
	Timestamp     time.Time `json:"timestamp"`
	Agent         AgentInfo `json:"agent"`
}

// Server serves /health, /status and /info.
type Server struct {
	port   int
	info   *AgentInfo
	status StatusGetter
	server *http.Server
}

// NewServer creates a health server; call Start to serve.
func NewServer(port int, info *AgentInfo, status StatusGetter) *Server {
	return &Server{port: port, info: info, status: status}
}

// Start serves until the listener fails or Stop is called.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.rootHandler)
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/status", s.statusHandler)
	mux.HandleFunc("/info", s.infoHandler)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	log.Printf("[health] listening on :%d", s.port)
	return s.server.ListenAndServe()
}

// Stop shuts the server down.
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "%s v%s\n", s.info.Name, s.info.Version)
	if s.info.Wallet != "" {
		fmt.Fprintf(w, "Wallet: %s\n", s.info.Wallet)
	}
	fmt.Fprintf(w, "Commands: %s\n", strings.Join(s.info.Commands, ", "))
	fmt.Fprintf(w, "Tasks handled: %d\n", s.status.TasksHandled())
	fmt.Fprintf(w, "Watched tokens: %d\n", s.status.WatchedTokens())
	fmt.Fprintf(w, "Uptime: %v\n", s.status.Uptime())
	fmt.Fprintf(w, "\nEndpoints:\n")
	fmt.Fprintf(w, "  /health - Health check\n")
	fmt.Fprintf(w, "  /status - Detailed status (JSON)\n")
	fmt.Fprintf(w, "  /info   - Agent information (JSON)\n")
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"agent":     s.info.Name,
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(Status{
		Status:        "operational",
		TasksHandled:  s.status.TasksHandled(),
		WatchedTokens: s.status.WatchedTokens(),
		CacheBackend:  s.status.CacheBackend(),
		Uptime:        s.status.Uptime().String(),
		Timestamp:     time.Now().UTC(),
		Agent:         *s.info,
	})
}

func (s *Server) infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(s.info)
}
