package domain

// MaxSearchResults caps how many hits are requested from and returned by
// the site-scoped search, preserving upstream relevance order.
const MaxSearchResults = 3

// MaxSuggestedQuestions caps the follow-up questions returned per search.
const MaxSuggestedQuestions = 3

// SearchResultRecord is one normalized hit from the search-and-extract
// service, decoupled from any provider's client shape.
type SearchResultRecord struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Text       string   `json:"text"`
	Highlights []string `json:"highlights"`
	Summary    string   `json:"summary"`
}
