package exa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SearchAndContents_RequestShape(t *testing.T) {
	var captured searchRequest
	var capturedPath, capturedKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedKey = r.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(searchResponse{Results: []Result{
			{URL: "https://example.com/a", Title: "A", Text: "body a", Highlights: []string{"h1"}, Summary: "summary a"},
			{URL: "https://example.com/b", Title: "B", Text: "body b", Summary: "summary b"},
		}})
	}))
	defer server.Close()

	client := NewClientWithConfig(Config{APIKey: "test-key", BaseURL: server.URL})

	results, err := client.SearchAndContents(context.Background(), "red running shoes", SearchOptions{
		NumResults:     3,
		IncludeDomains: []string{"example.com"},
	})

	require.NoError(t, err)
	assert.Equal(t, "/search", capturedPath)
	assert.Equal(t, "test-key", capturedKey)

	assert.Equal(t, "red running shoes", captured.Query)
	assert.Equal(t, "auto", captured.Type)
	assert.Equal(t, 3, captured.NumResults)
	assert.Equal(t, []string{"example.com"}, captured.IncludeDomains)
	require.NotNil(t, captured.Contents)
	assert.True(t, captured.Contents.Text)
	assert.True(t, captured.Contents.Highlights)
	assert.True(t, captured.Contents.Summary)

	require.Len(t, results, 2)
	assert.Equal(t, "https://example.com/a", results[0].URL)
	assert.Equal(t, []string{"h1"}, results[0].Highlights)
	assert.Nil(t, results[1].Highlights)
}

func TestClient_SearchAndContents_ZeroHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{Results: []Result{}})
	}))
	defer server.Close()

	client := NewClientWithConfig(Config{APIKey: "test-key", BaseURL: server.URL})

	results, err := client.SearchAndContents(context.Background(), "nothing here", SearchOptions{NumResults: 3})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClient_SearchAndContents_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer server.Close()

	client := NewClientWithConfig(Config{APIKey: "bad-key", BaseURL: server.URL})

	results, err := client.SearchAndContents(context.Background(), "query", SearchOptions{NumResults: 3})

	assert.Nil(t, results)
	var exaErr *Error
	require.ErrorAs(t, err, &exaErr)
	assert.Equal(t, http.StatusUnauthorized, exaErr.StatusCode)
	assert.Contains(t, exaErr.Body, "invalid api key")
}

func TestNewClientFromEnv_NoAPIKey(t *testing.T) {
	t.Setenv("EXA_API_KEY", "")

	client, err := NewClientFromEnv()

	assert.Nil(t, client)
	assert.Equal(t, ErrNoAPIKey, err)
}
