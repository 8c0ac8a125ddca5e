package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloo-solutions/sitelens/internal/domain"
	"github.com/cloo-solutions/sitelens/internal/openai"
)

const suggestPrompt = `Given user's query and the search results, suggest next questions a user can ask to get more information.
The next questions will be used to suggest to users what are follow up questions they can ask:
e.g
What is zenloop?
Suggested questions would be:
How do i sign up?
What is pricing?
etc.

Return it as json as follows:

{
  "suggested_questions": [
    <related question to original query 1>,
    <related question to original query 2>,
    <related question to original query 3>
  ]
}
`

// QuestionSuggester proposes follow-up questions from the original query
// and the normalized search results.
type QuestionSuggester struct {
	llm JSONCompleter
}

func NewQuestionSuggester(llm JSONCompleter) *QuestionSuggester {
	return &QuestionSuggester{llm: llm}
}

// Suggest serializes the result records into the prompt context, asks the
// model for follow-up questions and decodes its reply. At most
// domain.MaxSuggestedQuestions questions are returned, in model order.
func (s *QuestionSuggester) Suggest(ctx context.Context, query string, results []domain.SearchResultRecord) ([]string, error) {
	serialized, err := json.Marshal(results)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to serialize search results", err)
	}

	user := fmt.Sprintf("Original user query: %s. \n Search results: %s \n Suggest follow up questions as JSON object.", query, serialized)
	reply, err := s.llm.CompleteJSON(ctx, suggestPrompt, user)
	if err != nil {
		return nil, domain.NewUpstreamError("suggestion completion failed", openai.UpstreamStatus(err), err)
	}

	var parsed struct {
		SuggestedQuestions []string `json:"suggested_questions"`
	}
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeParse, "suggestion reply is not a valid question list", err)
	}

	questions := parsed.SuggestedQuestions
	if len(questions) > domain.MaxSuggestedQuestions {
		questions = questions[:domain.MaxSuggestedQuestions]
	}
	return questions, nil
}
