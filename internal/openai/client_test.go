package openai

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockChatAPI is a mock for the chat completion API
type MockChatAPI struct {
	mock.Mock
}

func (m *MockChatAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

// MockEmbeddingAPI is a mock for the embeddings API
type MockEmbeddingAPI struct {
	mock.Mock
}

func (m *MockEmbeddingAPI) CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.EmbeddingResponse), args.Error(1)
}

func chatReply(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func TestClient_CompleteVision_Success(t *testing.T) {
	mockChat := new(MockChatAPI)
	client := &Client{chat: mockChat, model: DefaultCompletionModel, dimensions: DefaultEmbeddingDimensions}

	ctx := context.Background()
	dataURI := "data:image/png;base64,aGVsbG8="

	mockChat.On("CreateChatCompletion", ctx, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		if req.Model != DefaultCompletionModel || len(req.Messages) != 1 {
			return false
		}
		msg := req.Messages[0]
		if msg.Role != openai.ChatMessageRoleUser || len(msg.MultiContent) != 2 {
			return false
		}
		text := msg.MultiContent[0]
		img := msg.MultiContent[1]
		return text.Type == openai.ChatMessagePartTypeText &&
			text.Text == "describe the product" &&
			img.Type == openai.ChatMessagePartTypeImageURL &&
			img.ImageURL != nil &&
			img.ImageURL.URL == dataURI
	})).Return(chatReply(`{"product":"shoes"}`), nil)

	reply, err := client.CompleteVision(ctx, "describe the product", dataURI)

	require.NoError(t, err)
	assert.Equal(t, `{"product":"shoes"}`, reply)
	mockChat.AssertExpectations(t)
}

func TestClient_CompleteVision_NoChoices(t *testing.T) {
	mockChat := new(MockChatAPI)
	client := &Client{chat: mockChat, model: DefaultCompletionModel}

	ctx := context.Background()
	mockChat.On("CreateChatCompletion", ctx, mock.Anything).Return(openai.ChatCompletionResponse{}, nil)

	reply, err := client.CompleteVision(ctx, "prompt", "data:image/png;base64,")

	assert.Empty(t, reply)
	assert.Equal(t, ErrNoChoices, err)
}

func TestClient_CompleteJSON_SeparateMessagesAndJSONFormat(t *testing.T) {
	mockChat := new(MockChatAPI)
	client := &Client{chat: mockChat, model: DefaultCompletionModel}

	ctx := context.Background()
	mockChat.On("CreateChatCompletion", ctx, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		if req.ResponseFormat == nil || req.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
			return false
		}
		if len(req.Messages) != 2 {
			return false
		}
		return req.Messages[0].Role == openai.ChatMessageRoleSystem &&
			req.Messages[0].Content == "system instruction" &&
			req.Messages[1].Role == openai.ChatMessageRoleUser &&
			req.Messages[1].Content == "user payload"
	})).Return(chatReply(`{"intent":"search"}`), nil)

	reply, err := client.CompleteJSON(ctx, "system instruction", "user payload")

	require.NoError(t, err)
	assert.Equal(t, `{"intent":"search"}`, reply)
	mockChat.AssertExpectations(t)
}

func TestClient_CompleteJSON_APIError(t *testing.T) {
	mockChat := new(MockChatAPI)
	client := &Client{chat: mockChat, model: DefaultCompletionModel}

	ctx := context.Background()
	apiErr := &openai.APIError{HTTPStatusCode: 429, Message: "rate limited"}
	mockChat.On("CreateChatCompletion", ctx, mock.Anything).Return(openai.ChatCompletionResponse{}, apiErr)

	reply, err := client.CompleteJSON(ctx, "system", "user")

	assert.Empty(t, reply)
	assert.Error(t, err)
	assert.Equal(t, 429, UpstreamStatus(err))
}

func TestClient_GenerateEmbedding_Success(t *testing.T) {
	mockEmbeddings := new(MockEmbeddingAPI)
	client := &Client{embeddings: mockEmbeddings, dimensions: DefaultEmbeddingDimensions}

	ctx := context.Background()
	expected := make([]float32, DefaultEmbeddingDimensions)
	for i := range expected {
		expected[i] = float32(i) * 0.001
	}

	mockEmbeddings.On("CreateEmbeddings", ctx, mock.MatchedBy(func(req openai.EmbeddingRequestConverter) bool {
		embReq, ok := req.(openai.EmbeddingRequest)
		if !ok {
			return false
		}
		input, ok := embReq.Input.([]string)
		return ok && len(input) == 1 && input[0] == "running shoes" && embReq.Model == DefaultEmbeddingModel
	})).Return(openai.EmbeddingResponse{
		Data: []openai.Embedding{{Embedding: expected}},
	}, nil)

	embedding, err := client.GenerateEmbedding(ctx, "running shoes")

	require.NoError(t, err)
	assert.Len(t, embedding, DefaultEmbeddingDimensions)
	assert.Equal(t, expected, embedding)
	mockEmbeddings.AssertExpectations(t)
}

func TestClient_GenerateEmbedding_EmptyText(t *testing.T) {
	client := NewClient("test-key")

	embedding, err := client.GenerateEmbedding(context.Background(), "")

	assert.Nil(t, embedding)
	assert.Equal(t, ErrEmptyText, err)
}

func TestClient_GenerateEmbedding_WrongDimensions(t *testing.T) {
	mockEmbeddings := new(MockEmbeddingAPI)
	client := &Client{embeddings: mockEmbeddings, dimensions: DefaultEmbeddingDimensions}

	ctx := context.Background()
	mockEmbeddings.On("CreateEmbeddings", ctx, mock.Anything).Return(openai.EmbeddingResponse{
		Data: []openai.Embedding{{Embedding: make([]float32, 512)}},
	}, nil)

	embedding, err := client.GenerateEmbedding(ctx, "text")

	assert.Nil(t, embedding)
	assert.Equal(t, ErrWrongDimensions, err)
}

func TestUpstreamStatus(t *testing.T) {
	assert.Equal(t, 429, UpstreamStatus(&openai.APIError{HTTPStatusCode: 429}))
	assert.Equal(t, 500, UpstreamStatus(&openai.RequestError{HTTPStatusCode: 500}))
	assert.Zero(t, UpstreamStatus(errors.New("connection refused")))
	assert.Zero(t, UpstreamStatus(nil))
}

func TestNewClientFromEnv_NoAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	client, err := NewClientFromEnv()

	assert.Nil(t, client)
	assert.Equal(t, ErrNoAPIKey, err)
}

func TestNewClientWithConfig_Defaults(t *testing.T) {
	client := NewClientWithConfig(Config{APIKey: "test-key"})

	assert.NotNil(t, client)
	assert.Equal(t, DefaultCompletionModel, client.model)
	assert.Equal(t, DefaultEmbeddingDimensions, client.dimensions)
}
