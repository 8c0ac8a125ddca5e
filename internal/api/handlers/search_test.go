package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/cloo-solutions/sitelens/internal/domain"
	"github.com/cloo-solutions/sitelens/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockWebsiteSearcher is a mock for the search pipeline
type MockWebsiteSearcher struct {
	mock.Mock
}

func (m *MockWebsiteSearcher) Search(ctx context.Context, input service.WebsiteSearchInput) (*service.WebsiteSearchOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WebsiteSearchOutput), args.Error(1)
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName, fileContentType string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+fileName+`"`)
		header.Set("Content-Type", fileContentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestSearchHandler_SearchWebsite_MissingWebsite(t *testing.T) {
	mockSvc := new(MockWebsiteSearcher)
	handler := NewSearchHandler(mockSvc)

	body, contentType := multipartBody(t, map[string]string{"search_string": "pricing"}, "", "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/search_website/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.SearchWebsite(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"website is required"}`, rec.Body.String())
	mockSvc.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearchHandler_SearchWebsite_TextOnly(t *testing.T) {
	mockSvc := new(MockWebsiteSearcher)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Search", mock.Anything, service.WebsiteSearchInput{
		Query:   "pricing",
		Website: "example.com",
	}).Return(&service.WebsiteSearchOutput{
		Results: []domain.SearchResultRecord{
			{URL: "https://example.com/pricing", Title: "Pricing", Highlights: []string{}},
		},
		SuggestedQuestions: []string{"How do I sign up?"},
	}, nil)

	body, contentType := multipartBody(t, map[string]string{
		"website":       "example.com",
		"search_string": "pricing",
	}, "", "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/search_website/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.SearchWebsite(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp SearchWebsiteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "https://example.com/pricing", resp.Results[0].URL)
	assert.Equal(t, []string{"How do I sign up?"}, resp.SuggestedQuestions)
	mockSvc.AssertExpectations(t)
}

func TestSearchHandler_SearchWebsite_PassesImageThrough(t *testing.T) {
	mockSvc := new(MockWebsiteSearcher)
	handler := NewSearchHandler(mockSvc)

	imageData := []byte{0x89, 0x50, 0x4e, 0x47}
	mockSvc.On("Search", mock.Anything, mock.MatchedBy(func(input service.WebsiteSearchInput) bool {
		return input.Website == "example.com" &&
			bytes.Equal(input.ImageData, imageData) &&
			input.ImageContentType == "image/png"
	})).Return(&service.WebsiteSearchOutput{}, nil)

	body, contentType := multipartBody(t, map[string]string{"website": "example.com"}, "file", "photo.png", "image/png", imageData)
	req := httptest.NewRequest(http.MethodPost, "/search_website/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.SearchWebsite(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockSvc.AssertExpectations(t)
}

func TestSearchHandler_SearchWebsite_EmptySlicesInJSON(t *testing.T) {
	mockSvc := new(MockWebsiteSearcher)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Search", mock.Anything, mock.Anything).Return(&service.WebsiteSearchOutput{}, nil)

	body, contentType := multipartBody(t, map[string]string{
		"website":       "example.com",
		"search_string": "nothing",
	}, "", "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/search_website/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.SearchWebsite(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[],"suggested_questions":[]}`, rec.Body.String())
}

func TestSearchHandler_SearchWebsite_ValidationErrorFromService(t *testing.T) {
	mockSvc := new(MockWebsiteSearcher)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Search", mock.Anything, mock.Anything).Return(nil, domain.ErrMissingSearchInput)

	body, contentType := multipartBody(t, map[string]string{"website": "example.com"}, "", "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/search_website/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.SearchWebsite(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"you must provide either an image or a search string"}`, rec.Body.String())
}

func TestSearchHandler_SearchWebsite_UpstreamErrorPropagatesStatus(t *testing.T) {
	mockSvc := new(MockWebsiteSearcher)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Search", mock.Anything, mock.Anything).
		Return(nil, domain.NewUpstreamError("site-scoped search failed", 503, nil))

	body, contentType := multipartBody(t, map[string]string{
		"website":       "example.com",
		"search_string": "q",
	}, "", "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/search_website/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.SearchWebsite(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "site-scoped search failed")
}

func TestSearchHandler_SearchWebsite_NotMultipart(t *testing.T) {
	mockSvc := new(MockWebsiteSearcher)
	handler := NewSearchHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/search_website/", bytes.NewBufferString(`{"website":"example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.SearchWebsite(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"invalid multipart form"}`, rec.Body.String())
}
