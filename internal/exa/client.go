// Package exa is a minimal client for the Exa search-and-contents API.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "https://api.exa.ai"

// ErrNoAPIKey is returned when the Exa API key is not set
var ErrNoAPIKey = errors.New("EXA_API_KEY environment variable not set")

// SearchAPI defines the interface for site-scoped search
type SearchAPI interface {
	SearchAndContents(ctx context.Context, query string, opts SearchOptions) ([]Result, error)
}

// SearchOptions narrows a search request.
type SearchOptions struct {
	// NumResults caps how many hits the service returns.
	NumResults int
	// IncludeDomains restricts results to URLs under these domains.
	IncludeDomains []string
}

// Result is one hit as returned by the Exa API.
type Result struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Text       string   `json:"text"`
	Highlights []string `json:"highlights"`
	Summary    string   `json:"summary"`
}

// Error is a non-success response from the Exa API.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("exa: status %d: %s", e.StatusCode, e.Body)
}

type searchRequest struct {
	Query          string           `json:"query"`
	Type           string           `json:"type"`
	NumResults     int              `json:"numResults"`
	IncludeDomains []string         `json:"includeDomains,omitempty"`
	Contents       *contentsRequest `json:"contents,omitempty"`
}

type contentsRequest struct {
	Text       bool `json:"text"`
	Highlights bool `json:"highlights"`
	Summary    bool `json:"summary"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client calls the Exa HTTP API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Exa client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new Exa client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := &http.Client{}
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// NewClientFromEnv creates a new Exa client using EXA_API_KEY environment variable
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("EXA_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// SearchAndContents runs a search with automatic search-type selection and
// content extraction enabled, returning hits in the service's relevance
// order. Zero hits is not an error.
func (c *Client) SearchAndContents(ctx context.Context, query string, opts SearchOptions) ([]Result, error) {
	payload := searchRequest{
		Query:          query,
		Type:           "auto",
		NumResults:     opts.NumResults,
		IncludeDomains: opts.IncludeDomains,
		Contents: &contentsRequest{
			Text:       true,
			Highlights: true,
			Summary:    true,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &Error{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return parsed.Results, nil
}
