package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cloo-solutions/sitelens/internal/domain"
	"github.com/cloo-solutions/sitelens/internal/openai"
)

// productPrompt is the fixed instruction for the vision model. The reply is
// expected to be a JSON object, possibly wrapped in a markdown code fence.
const productPrompt = `Identify in the image the product and return it in the JSON format: {"product": "product_name", "product_type": "type_of_product", "product_color": "color of product", "price_category": "price category of product"}. If no product is present, please return {"product": "no product found"}.`

// VisionCompleter issues a completion request to a vision-capable model.
type VisionCompleter interface {
	CompleteVision(ctx context.Context, prompt, imageDataURI string) (string, error)
}

// ProductExtractor asks a vision model to describe the product in an image
// and parses the structured descriptor from its reply.
type ProductExtractor struct {
	llm VisionCompleter
}

func NewProductExtractor(llm VisionCompleter) *ProductExtractor {
	return &ProductExtractor{llm: llm}
}

// Extract issues a single vision completion for the encoded image and
// decodes the reply into a ProductDescriptor. Markdown code fences around
// the JSON payload are stripped before decoding; anything that still fails
// strict decoding is a parse failure, not a crash.
func (e *ProductExtractor) Extract(ctx context.Context, imageDataURI string) (*domain.ProductDescriptor, error) {
	reply, err := e.llm.CompleteVision(ctx, productPrompt, imageDataURI)
	if err != nil {
		return nil, domain.NewUpstreamError("vision completion failed", openai.UpstreamStatus(err), err)
	}

	var descriptor domain.ProductDescriptor
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &descriptor); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeParse, "vision reply is not a valid product descriptor", err)
	}

	return &descriptor, nil
}

// stripCodeFence removes the literal "```json" and "```" markers that
// models wrap around JSON payloads. It is idempotent.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
