package modules

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"tokensentry/pkg/network"
)

// Shared transport for every outbound API call. Individual APIs get their own
// circuit breaker so one flaky provider cannot block the others.
var (
	httpClient = &http.Client{Timeout: 10 * time.Second}

	breakersMu sync.Mutex
	breakers   = map[string]*network.CircuitBreaker{}
)

const maxAPIBody = 512 * 1024

func breakerFor(api string) *network.CircuitBreaker {
	breakersMu.Lock()
	defer breakersMu.Unlock()
	if b, ok := breakers[api]; ok {
		return b
	}
	b := network.NewCircuitBreaker(api, 5, 60*time.Second)
	breakers[api] = b
	return b
}

// getJSON fetches url through the named API's circuit breaker and returns the
// raw body. Non-2xx statuses are errors.
func getJSON(api, url string, headers map[string]string) ([]byte, error) {
	var body []byte
	err := breakerFor(api).Call(func() error {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("%s: build request: %w", api, err)
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s: http err: %w", api, err)
		}
		defer resp.Body.Close()

		body, _ = io.ReadAll(io.LimitReader(resp.Body, maxAPIBody))
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("%s: status %d", api, resp.StatusCode)
		}
		return nil
	})
	return body, err
}

// postJSON posts a JSON payload through the named API's circuit breaker.
func postJSON(api, url string, payload []byte, headers map[string]string) ([]byte, error) {
	var body []byte
	err := breakerFor(api).Call(func() error {
		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("%s: build request: %w", api, err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s: http err: %w", api, err)
		}
		defer resp.Body.Close()

		body, _ = io.ReadAll(io.LimitReader(resp.Body, maxAPIBody))
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("%s: status %d: %s", api, resp.StatusCode, summarizeBody(body))
		}
		return nil
	})
	return body, err
}

func summarizeBody(b []byte) string {
	s := string(b)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
