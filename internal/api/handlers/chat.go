package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/sitelens/internal/api"
	"github.com/cloo-solutions/sitelens/internal/perplexity"
)

// ChatClient forwards a message list to a search-augmented chat service.
type ChatClient interface {
	Chat(ctx context.Context, messages []perplexity.Message, website, model string) *perplexity.ChatResult
}

// ChatHandler serves the standalone search-augmented chat endpoint.
type ChatHandler struct {
	client ChatClient
}

func NewChatHandler(client ChatClient) *ChatHandler {
	return &ChatHandler{client: client}
}

// ChatWebsiteRequest is the payload for POST /chat_website/.
type ChatWebsiteRequest struct {
	Messages []perplexity.Message `json:"messages"`
	Website  string               `json:"website"`
	Model    string               `json:"model,omitempty"`
}

// ChatWebsite handles POST /chat_website/. The adapter's failure policy is
// to always return a value, so upstream failures still get a 200 with a
// structured {error} body.
func (h *ChatHandler) ChatWebsite(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		api.Error(w, http.StatusNotImplemented, "chat adapter not configured: PERPLEXITY_API_KEY required")
		return
	}

	var req ChatWebsiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Detail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		api.Detail(w, http.StatusBadRequest, "messages are required")
		return
	}
	if req.Website == "" {
		api.Detail(w, http.StatusBadRequest, "website is required")
		return
	}

	result := h.client.Chat(r.Context(), req.Messages, req.Website, req.Model)
	api.JSON(w, http.StatusOK, result)
}
