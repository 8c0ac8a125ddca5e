//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/cloo-solutions/sitelens/internal/api/handlers"
	"github.com/cloo-solutions/sitelens/internal/exa"
	"github.com/cloo-solutions/sitelens/internal/openai"
	"github.com/cloo-solutions/sitelens/internal/perplexity"
	"github.com/cloo-solutions/sitelens/internal/server"
	"github.com/cloo-solutions/sitelens/internal/service"
)

// E2ETestEnv holds fake upstreams plus a real server wired against them
type E2ETestEnv struct {
	T            *testing.T
	OpenAIServer *httptest.Server
	ExaServer    *httptest.Server
	ChatServer   *httptest.Server
	ServerURL    string
	ServerCloser func()
	HTTPClient   *http.Client

	// LastExaQuery captures the combined query the pipeline sent to search
	LastExaQuery string
}

// SetupE2EEnv starts fake upstream services and the real HTTP server.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	env := &E2ETestEnv{
		T:          t,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}

	env.OpenAIServer = httptest.NewServer(http.HandlerFunc(env.serveOpenAI))
	env.ExaServer = httptest.NewServer(http.HandlerFunc(env.serveExa))
	env.ChatServer = httptest.NewServer(http.HandlerFunc(env.serveChat))

	llmClient := openai.NewClientWithConfig(openai.Config{
		APIKey:  "test-key",
		BaseURL: env.OpenAIServer.URL + "/v1",
	})
	exaClient := exa.NewClientWithConfig(exa.Config{
		APIKey:  "test-key",
		BaseURL: env.ExaServer.URL,
	})
	chatClient := perplexity.NewClientWithConfig(perplexity.Config{
		APIKey:  "test-key",
		BaseURL: env.ChatServer.URL,
	})

	searchSvc := service.NewWebsiteSearchService(service.WebsiteSearchDeps{
		Products:  service.NewProductExtractor(llmClient),
		Intents:   service.NewIntentExtractor(llmClient),
		Suggester: service.NewQuestionSuggester(llmClient),
		Search:    exaClient,
	})

	router := server.NewRouter(server.RouterConfig{
		SearchHandler: handlers.NewSearchHandler(searchSvc),
		ChatHandler:   handlers.NewChatHandler(chatClient),
	})

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	env.ServerURL = fmt.Sprintf("http://localhost:%d", port)
	env.ServerCloser = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}

	waitForServer(t, env.ServerURL, 10*time.Second)
	return env
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	e.OpenAIServer.Close()
	e.ExaServer.Close()
	e.ChatServer.Close()
}

// serveOpenAI fakes the OpenAI chat completion API. Vision requests get a
// product descriptor; JSON-mode requests are routed on the system prompt.
func (e *E2ETestEnv) serveOpenAI(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
		http.NotFound(w, r)
		return
	}

	body, _ := io.ReadAll(r.Body)
	raw := string(body)

	var content string
	switch {
	case strings.Contains(raw, "image_url"):
		content = "```json\n{\"product\":\"running shoes\",\"product_type\":\"footwear\",\"product_color\":\"red\",\"price_category\":\"mid-range\"}\n```"
	case strings.Contains(raw, "suggest next questions"):
		content = `{"suggested_questions":["How do I sign up?","What is pricing?","Is there a free trial?","Do you ship internationally?"]}`
	default:
		content = `{"intent":"potential_customer","query":"pricing","expanded_query":"what does this website charge"}`
	}

	reply := map[string]interface{}{
		"id":     "chatcmpl-e2e",
		"object": "chat.completion",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reply)
}

// serveExa fakes the Exa search API and records the query it received.
func (e *E2ETestEnv) serveExa(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	json.NewDecoder(r.Body).Decode(&req)
	e.LastExaQuery = req.Query

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"results": []map[string]interface{}{
			{
				"url":        "https://example.com/pricing",
				"title":      "Pricing",
				"text":       "Our plans start at $10 per month.",
				"highlights": []string{"plans start at $10"},
				"summary":    "Pricing overview page.",
			},
			{
				"url":     "https://example.com/signup",
				"title":   "Sign up",
				"text":    "Create your account.",
				"summary": "Account creation page.",
			},
		},
	})
}

// serveChat fakes the Perplexity chat completion API.
func (e *E2ETestEnv) serveChat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":    "pplx-e2e",
		"model": perplexity.DefaultModel,
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": "Plans start at $10 per month."},
				"finish_reason": "stop",
			},
		},
		"citations": []string{"https://example.com/pricing"},
	})
}

// PostSearch submits a multipart search request to the running server.
func (e *E2ETestEnv) PostSearch(website, query string, imageData []byte, imageContentType string) (*http.Response, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if website != "" {
		writer.WriteField("website", website)
	}
	if query != "" {
		writer.WriteField("search_string", query)
	}
	if imageData != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="file"; filename="photo.png"`)
		header.Set("Content-Type", imageContentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(imageData); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, e.ServerURL+"/search_website/", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return e.HTTPClient.Do(req)
}

// PostChat submits a chat request to the running server.
func (e *E2ETestEnv) PostChat(payload interface{}) (*http.Response, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, e.ServerURL+"/chat_website/", bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return e.HTTPClient.Do(req)
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
