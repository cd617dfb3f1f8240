// Package websearch calls the Serper Google-search API. It is the
// "augmentation" collaborator of the dialogue pipeline and is treated as
// unreliable: callers degrade to FAQ-only answers when it fails.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultEndpoint = "https://google.serper.dev/search"

// Searcher is the boundary the orchestrator depends on.
type Searcher interface {
	Search(ctx context.Context, query string) (*Results, error)
}

// OrganicResult is one organic search hit. Only Link is consumed by the
// pipeline; the other fields are kept for logging.
type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Results is the subset of the Serper response the advisor consumes.
type Results struct {
	Organic []OrganicResult `json:"organic"`
}

// TopLinks returns up to n organic result links.
func (r *Results) TopLinks(n int) []string {
	if r == nil {
		return nil
	}
	var links []string
	for _, item := range r.Organic {
		if item.Link == "" {
			continue
		}
		links = append(links, item.Link)
		if len(links) == n {
			break
		}
	}
	return links
}

// SerperClient talks to the Serper search API.
type SerperClient struct {
	apiKey   string
	endpoint string
	country  string
	language string
	http     *http.Client
}

// NewSerperClient creates a client. country/language default to "in"/"en"
// when empty, matching the advisor's market.
func NewSerperClient(apiKey, country, language string) (*SerperClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("serper API key is not set")
	}
	if country == "" {
		country = "in"
	}
	if language == "" {
		language = "en"
	}
	return &SerperClient{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		country:  country,
		language: language,
		http:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Search runs one web search.
func (c *SerperClient) Search(ctx context.Context, query string) (*Results, error) {
	payload, err := json.Marshal(map[string]string{
		"q":  strings.TrimSpace(query),
		"gl": c.country,
		"hl": c.language,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var results Results
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return &results, nil
}
