package service

import (
	"context"
	"fmt"

	"github.com/cloo-solutions/sitelens/internal/domain"
	"github.com/cloo-solutions/sitelens/internal/openai"
)

const intentPrompt = `Given the user query, and the provided website as context, convert to json with user's intent in a structured way as specified.
Do not add any additional information as the user query json will be used to run the search query.

Return it as following json:

{
  "intent": <intent e.g. search_for_contact, potential_customer, potential_employee, etc.>,
  "query": <actual user query>,
  "expanded_query": <expand and clarify user query if needed ie if user query is ambiguous>
}
`

// JSONCompleter issues a completion request with the JSON-object response
// format enabled.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// IntentExtractor converts free text into a structured intent descriptor
// using the target website as disambiguating context.
type IntentExtractor struct {
	llm JSONCompleter
}

func NewIntentExtractor(llm JSONCompleter) *IntentExtractor {
	return &IntentExtractor{llm: llm}
}

// Extract returns the model's raw JSON text. The query composer treats it
// as an opaque clause; it is never decomposed downstream.
func (e *IntentExtractor) Extract(ctx context.Context, query, website string) (string, error) {
	user := fmt.Sprintf("User query: %s. Provided website as context: %s \n Return as JSON object.", query, website)
	reply, err := e.llm.CompleteJSON(ctx, intentPrompt, user)
	if err != nil {
		return "", domain.NewUpstreamError("intent completion failed", openai.UpstreamStatus(err), err)
	}
	return reply, nil
}
