package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cloo-solutions/sitelens/internal/domain"
	"github.com/cloo-solutions/sitelens/internal/exa"
	"github.com/cloo-solutions/sitelens/internal/imaging"
	"github.com/cloo-solutions/sitelens/internal/telemetry"
	"github.com/google/uuid"
)

// SearchClient runs a site-scoped search with content extraction.
type SearchClient interface {
	SearchAndContents(ctx context.Context, query string, opts exa.SearchOptions) ([]exa.Result, error)
}

// EmbeddingClient generates query embeddings for search analytics.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ImageArchive stores uploaded images for later inspection.
type ImageArchive interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
}

// SearchLogRepository records completed searches for analytics.
type SearchLogRepository interface {
	CreateSearchLog(ctx context.Context, entry SearchLogEntry) (string, error)
}

// SearchLogEntry is one analytics record for a completed search.
type SearchLogEntry struct {
	Website        string
	Query          string
	CombinedQuery  string
	HasImage       bool
	Results        []SearchLogResult
	DurationMs     int
	QueryEmbedding []float32
	ImageKey       string
}

// SearchLogResult is the logged subset of one search hit.
type SearchLogResult struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// WebsiteSearchInput carries one request through the pipeline. At least one
// of ImageData and Query must be present; Website is always required.
type WebsiteSearchInput struct {
	ImageData        []byte
	ImageContentType string
	Query            string
	Website          string
}

// WebsiteSearchOutput is the assembled response payload.
type WebsiteSearchOutput struct {
	Results            []domain.SearchResultRecord
	SuggestedQuestions []string
}

// WebsiteSearchDeps wires the pipeline's collaborators. LogRepo, Embedder
// and Archive are optional; when nil the corresponding analytics step is
// skipped.
type WebsiteSearchDeps struct {
	Products  *ProductExtractor
	Intents   *IntentExtractor
	Suggester *QuestionSuggester
	Search    SearchClient
	LogRepo   SearchLogRepository
	Embedder  EmbeddingClient
	Archive   ImageArchive
}

// WebsiteSearchService sequences the search pipeline: encode the image,
// extract a product descriptor and/or an intent descriptor, compose one
// combined query, run the site-scoped search and suggest follow-up
// questions. Steps are strictly sequential; the first failure terminates
// the request.
type WebsiteSearchService struct {
	products  *ProductExtractor
	intents   *IntentExtractor
	suggester *QuestionSuggester
	search    SearchClient
	logRepo   SearchLogRepository
	embedder  EmbeddingClient
	archive   ImageArchive
}

func NewWebsiteSearchService(deps WebsiteSearchDeps) *WebsiteSearchService {
	return &WebsiteSearchService{
		products:  deps.Products,
		intents:   deps.Intents,
		suggester: deps.Suggester,
		search:    deps.Search,
		logRepo:   deps.LogRepo,
		embedder:  deps.Embedder,
		archive:   deps.Archive,
	}
}

// Search runs the full pipeline for one request.
func (s *WebsiteSearchService) Search(ctx context.Context, input WebsiteSearchInput) (*WebsiteSearchOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "WebsiteSearchService.Search", telemetry.SpanAttributes{
		Website:   input.Website,
		Operation: "search_website",
	})
	defer span.End()

	start := time.Now()

	if input.Website == "" {
		return nil, domain.ErrMissingWebsite
	}
	hasImage := len(input.ImageData) > 0
	if !hasImage && input.Query == "" {
		return nil, domain.ErrMissingSearchInput
	}

	var (
		product  *domain.ProductDescriptor
		pngBytes []byte
	)
	if hasImage {
		if !imaging.IsAllowedContentType(input.ImageContentType) {
			return nil, domain.ErrUnsupportedImageType
		}

		dataURI, reencoded, err := imaging.EncodeDataURI(input.ImageData)
		if err != nil {
			return nil, err
		}
		pngBytes = reencoded

		product, err = s.products.Extract(ctx, dataURI)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		if !product.Found() {
			telemetry.AddBreadcrumb(ctx, "pipeline", "no product identified in image")
		}
	}

	var intentText string
	if input.Query != "" {
		var err error
		intentText, err = s.intents.Extract(ctx, input.Query, input.Website)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
	}

	combined, err := ComposeQuery(product, intentText)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	hits, err := s.search.SearchAndContents(ctx, combined, exa.SearchOptions{
		NumResults:     domain.MaxSearchResults,
		IncludeDomains: []string{input.Website},
	})
	if err != nil {
		span.SetError(err)
		return nil, domain.NewUpstreamError("site-scoped search failed", exaStatus(err), err)
	}

	records := normalizeResults(hits)

	questions, err := s.suggester.Suggest(ctx, input.Query, records)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	s.recordSearch(ctx, input, combined, records, hasImage, pngBytes, time.Since(start))

	return &WebsiteSearchOutput{
		Results:            records,
		SuggestedQuestions: questions,
	}, nil
}

// normalizeResults maps provider hits onto SearchResultRecord, preserving
// upstream relevance order and enforcing the result cap.
func normalizeResults(hits []exa.Result) []domain.SearchResultRecord {
	if len(hits) > domain.MaxSearchResults {
		hits = hits[:domain.MaxSearchResults]
	}
	records := make([]domain.SearchResultRecord, len(hits))
	for i, hit := range hits {
		highlights := hit.Highlights
		if highlights == nil {
			highlights = []string{}
		}
		records[i] = domain.SearchResultRecord{
			URL:        hit.URL,
			Title:      hit.Title,
			Text:       hit.Text,
			Highlights: highlights,
			Summary:    hit.Summary,
		}
	}
	return records
}

// recordSearch persists analytics for a completed search. Everything here
// is best-effort: a failed log write, embedding or archive upload never
// fails the request.
func (s *WebsiteSearchService) recordSearch(ctx context.Context, input WebsiteSearchInput, combined string, records []domain.SearchResultRecord, hasImage bool, pngBytes []byte, elapsed time.Duration) {
	if s.logRepo == nil {
		return
	}

	entry := SearchLogEntry{
		Website:       input.Website,
		Query:         input.Query,
		CombinedQuery: combined,
		HasImage:      hasImage,
		DurationMs:    int(elapsed.Milliseconds()),
	}
	for _, record := range records {
		entry.Results = append(entry.Results, SearchLogResult{URL: record.URL, Title: record.Title})
	}

	if s.embedder != nil {
		embedding, err := s.embedder.GenerateEmbedding(ctx, combined)
		if err != nil {
			log.Printf("search_log: embedding skipped: %v", err)
		} else {
			entry.QueryEmbedding = embedding
		}
	}

	if s.archive != nil && len(pngBytes) > 0 {
		key := fmt.Sprintf("searches/%s.png", uuid.NewString())
		if err := s.archive.PutObject(ctx, key, "image/png", pngBytes); err != nil {
			log.Printf("search_log: image archive skipped: %v", err)
		} else {
			entry.ImageKey = key
		}
	}

	if _, err := s.logRepo.CreateSearchLog(ctx, entry); err != nil {
		log.Printf("search_log: write failed: %v", err)
	}
}

// exaStatus extracts the upstream HTTP status from a search error.
func exaStatus(err error) int {
	var exaErr *exa.Error
	if errors.As(err, &exaErr) {
		return exaErr.StatusCode
	}
	return 0
}
