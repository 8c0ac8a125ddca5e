// Package perplexity is a client for the Perplexity search-augmented chat
// completion API. Unlike the rest of the pipeline its failure policy is to
// always return a value: transport errors are folded into the result so the
// caller can forward a structured {error} payload as-is.
package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.perplexity.ai"

	// DefaultModel is the search-augmented model used when the caller
	// does not name one.
	DefaultModel = "llama-3-sonar-large-32k-online"
)

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Choice is one completion choice in a chat reply.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChatResult is the normalized reply shape. On failure only Error is set.
type ChatResult struct {
	ID        string   `json:"id,omitempty"`
	Object    string   `json:"object,omitempty"`
	Created   int64    `json:"created,omitempty"`
	Model     string   `json:"model,omitempty"`
	Choices   []Choice `json:"choices,omitempty"`
	Citations []string `json:"citations,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type chatRequest struct {
	Model                  string    `json:"model"`
	Messages               []Message `json:"messages"`
	Temperature            float64   `json:"temperature"`
	TopP                   float64   `json:"top_p"`
	ReturnCitations        bool      `json:"return_citations"`
	SearchDomainFilter     []string  `json:"search_domain_filter"`
	ReturnImages           bool      `json:"return_images"`
	ReturnRelatedQuestions bool      `json:"return_related_questions"`
	SearchRecencyFilter    string    `json:"search_recency_filter"`
	TopK                   int       `json:"top_k"`
	Stream                 bool      `json:"stream"`
	PresencePenalty        float64   `json:"presence_penalty"`
	FrequencyPenalty       float64   `json:"frequency_penalty"`
}

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client calls the Perplexity HTTP API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Perplexity client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new Perplexity client with explicit configuration.
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

// Chat forwards messages to the chat-with-search service scoped to one
// website and returns the normalized reply. Sampling and filter settings
// are fixed: bounded temperature and nucleus cutoff, citations on, images
// and related questions off, one-month recency, greedy top-k disabled,
// non-streaming, full frequency penalty.
func (c *Client) Chat(ctx context.Context, messages []Message, website, model string) *ChatResult {
	if model == "" {
		model = DefaultModel
	}

	payload := chatRequest{
		Model:                  model,
		Messages:               messages,
		Temperature:            0.2,
		TopP:                   0.9,
		ReturnCitations:        true,
		SearchDomainFilter:     []string{website},
		ReturnImages:           false,
		ReturnRelatedQuestions: false,
		SearchRecencyFilter:    "month",
		TopK:                   0,
		Stream:                 false,
		PresencePenalty:        0,
		FrequencyPenalty:       1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &ChatResult{Error: fmt.Sprintf("failed to encode chat request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return &ChatResult{Error: fmt.Sprintf("failed to build chat request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ChatResult{Error: fmt.Sprintf("chat request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &ChatResult{Error: fmt.Sprintf("chat request returned status %d: %s", resp.StatusCode, string(raw))}
	}

	var result ChatResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return &ChatResult{Error: fmt.Sprintf("failed to decode chat response: %v", err)}
	}

	return &result
}
