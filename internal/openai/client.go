// Package openai wraps the OpenAI API behind small interfaces so the
// pipeline can be tested with fake clients.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultCompletionModel is the model used for vision and JSON-mode completions
	DefaultCompletionModel = openai.GPT4oMini
	// DefaultEmbeddingModel is the OpenAI model used for query embeddings
	DefaultEmbeddingModel = openai.AdaEmbeddingV2
	// DefaultEmbeddingDimensions is the expected dimension of embeddings from ada-002
	DefaultEmbeddingDimensions = 1536
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrNoChoices is returned when a completion reply contains no choices
	ErrNoChoices = errors.New("completion returned no choices")
	// ErrWrongDimensions is returned when embedding has wrong dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions, expected 1536")
	// ErrNoAPIKey is returned when OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
)

// ChatAPI defines the subset of the OpenAI API used for completions
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// EmbeddingAPI defines the subset of the OpenAI API used for embeddings
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Client wraps the OpenAI API client
type Client struct {
	chat       ChatAPI
	embeddings EmbeddingAPI
	model      string
	dimensions int
}

type Config struct {
	APIKey              string
	Model               string
	EmbeddingDimensions int
	Timeout             time.Duration
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultCompletionModel
	}
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	api := openai.NewClientWithConfig(apiCfg)

	return &Client{
		chat:       api,
		embeddings: api,
		model:      model,
		dimensions: dimensions,
	}
}

// NewClientFromEnv creates a new OpenAI client using OPENAI_API_KEY environment variable
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// CompleteVision sends a prompt plus an image data URI to a vision-capable
// model and returns the text of the first choice.
func (c *Client) CompleteVision(ctx context.Context, prompt, imageDataURI string) (string, error) {
	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageDataURI},
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteJSON sends a system instruction and a user message to the model
// with the JSON-object response format enabled, and returns the text of the
// first choice. The system and user contents are kept as two separate
// message entries.
func (c *Client) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateEmbedding generates an embedding for the given text
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	resp, err := c.embeddings.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: DefaultEmbeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	embedding := resp.Data[0].Embedding
	if len(embedding) != c.dimensions {
		return nil, ErrWrongDimensions
	}
	return embedding, nil
}

// UpstreamStatus extracts the HTTP status code from an OpenAI API error,
// or 0 when the error carries none.
func UpstreamStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
