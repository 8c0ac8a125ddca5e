package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/cloo-solutions/sitelens/internal/api"
	"github.com/cloo-solutions/sitelens/internal/domain"
	"github.com/cloo-solutions/sitelens/internal/service"
)

// maxImageMemoryBytes bounds how much of the multipart form is held in
// memory before spilling to disk.
const maxImageMemoryBytes = 5 * 1024 * 1024

// WebsiteSearcher runs the search pipeline for one request.
type WebsiteSearcher interface {
	Search(ctx context.Context, input service.WebsiteSearchInput) (*service.WebsiteSearchOutput, error)
}

// SearchHandler serves the site-scoped search endpoint.
type SearchHandler struct {
	svc WebsiteSearcher
}

func NewSearchHandler(svc WebsiteSearcher) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// SearchWebsiteResponse is the success payload for POST /search_website/.
type SearchWebsiteResponse struct {
	Results            []domain.SearchResultRecord `json:"results"`
	SuggestedQuestions []string                    `json:"suggested_questions"`
}

// SearchWebsite handles POST /search_website/: a multipart form with an
// optional image file, an optional search_string field and a required
// website field.
func (h *SearchHandler) SearchWebsite(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageMemoryBytes); err != nil {
		api.Detail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	website := r.FormValue("website")
	if website == "" {
		api.Detail(w, http.StatusBadRequest, "website is required")
		return
	}

	input := service.WebsiteSearchInput{
		Query:   r.FormValue("search_string"),
		Website: website,
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			api.Detail(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}
		input.ImageData = data
		input.ImageContentType = header.Header.Get("Content-Type")
	case errors.Is(err, http.ErrMissingFile):
		// no image uploaded
	default:
		api.Detail(w, http.StatusBadRequest, "invalid file upload")
		return
	}

	output, err := h.svc.Search(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	results := output.Results
	if results == nil {
		results = []domain.SearchResultRecord{}
	}
	questions := output.SuggestedQuestions
	if questions == nil {
		questions = []string{}
	}

	api.JSON(w, http.StatusOK, SearchWebsiteResponse{
		Results:            results,
		SuggestedQuestions: questions,
	})
}
