package modules

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// tavilyRequest is the search payload per the Tavily REST docs.
type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
	MaxResults    int    `json:"max_results"`
}

// RunSearch is the public entry for the web search command.
func RunSearch(args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: search [query]. Example: search latest ethereum upgrade", nil
	}
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return "Usage: search [query]. Example: search latest ethereum upgrade", nil
	}

	apiKey := strings.TrimSpace(os.Getenv("TAVILY_API_KEY"))
	if apiKey == "" {
		return "Web search is not configured. Set TAVILY_API_KEY in .env", nil
	}

	reply, err := searchWeb(apiKey, query)
	if err != nil {
		return fmt.Sprintf("Search for '%s' failed. Reason: %s", query, summarizeErr(err)), nil
	}
	return reply, nil
}

func searchWeb(apiKey, query string) (string, error) {
	payload, err := json.Marshal(tavilyRequest{
		APIKey:        apiKey,
		Query:         query,
		SearchDepth:   "basic",
		IncludeAnswer: true,
		MaxResults:    5,
	})
	if err != nil {
		return "", fmt.Errorf("tavily encode err: %w", err)
	}

	body, err := postJSON("tavily", tavilyEndpoint, payload, nil)
	if err != nil {
		return "", err
	}
	return formatSearchResults(query, body), nil
}

// formatSearchResults renders the Tavily response: answer first when present,
// then the top sources.
func formatSearchResults(query string, body []byte) string {
	root := gjson.ParseBytes(body)

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for: %s\n", query)

	if answer := strings.TrimSpace(root.Get("answer").String()); answer != "" {
		fmt.Fprintf(&b, "%s\n\n", answer)
	}

	results := root.Get("results").Array()
	if len(results) == 0 && root.Get("answer").String() == "" {
		b.WriteString("No results found.")
		return b.String()
	}

	if len(results) > 0 {
		b.WriteString("Sources:\n")
		for i, r := range results {
			if i >= 5 {
				break
			}
			title := r.Get("title").String()
			url := r.Get("url").String()
			snippet := strings.TrimSpace(r.Get("content").String())
			if len(snippet) > 140 {
				snippet = snippet[:140] + "..."
			}
			fmt.Fprintf(&b, " %d. %s\n    %s\n", i+1, title, url)
			if snippet != "" {
				fmt.Fprintf(&b, "    %s\n", snippet)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
