package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	envAPIURL = "SITELENS_API_URL"

	defaultAPIURL = "http://localhost:8080"
)

type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClientWithCmd creates an APIClient with config cascade: flag, env, default
func NewAPIClientWithCmd(cmd *cobra.Command) *APIClient {
	_ = godotenv.Load()

	var baseURL string
	if cmd != nil {
		if flagURL, err := cmd.Flags().GetString("api-url"); err == nil && flagURL != "" {
			baseURL = flagURL
		}
	}
	if baseURL == "" {
		baseURL = os.Getenv(envAPIURL)
	}
	if baseURL == "" {
		baseURL = defaultAPIURL
	}

	return &APIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// SearchWebsite posts a multipart search request. The image path is
// optional; its content type is inferred from the file extension.
func (c *APIClient) SearchWebsite(website, query, imagePath string) (json.RawMessage, int, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("website", website); err != nil {
		return nil, 0, err
	}
	if query != "" {
		if err := writer.WriteField("search_string", query); err != nil {
			return nil, 0, err
		}
	}

	if imagePath != "" {
		contentType, err := imageContentType(imagePath)
		if err != nil {
			return nil, 0, err
		}

		file, err := os.Open(imagePath)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to open image: %w", err)
		}
		defer file.Close()

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(imagePath)))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, 0, err
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, 0, fmt.Errorf("failed to copy image: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/search_website/", &body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

// ChatWebsite posts a message list to the search-augmented chat endpoint.
func (c *APIClient) ChatWebsite(website, model string, messages []map[string]string) (json.RawMessage, int, error) {
	payload := map[string]interface{}{
		"messages": messages,
		"website":  website,
	}
	if model != "" {
		payload["model"] = model
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/chat_website/", bytes.NewReader(encoded))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *APIClient) do(req *http.Request) (json.RawMessage, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return json.RawMessage(raw), resp.StatusCode, nil
}

func imageContentType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png", nil
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	default:
		return "", fmt.Errorf("unsupported image extension %q (png and jpeg only)", filepath.Ext(path))
	}
}
