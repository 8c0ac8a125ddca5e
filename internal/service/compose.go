package service

import "github.com/cloo-solutions/sitelens/internal/domain"

// productClausePrefix seeds the combined query when an image was processed.
const productClausePrefix = "Find similar products as given in the following structured description: "

// ComposeQuery merges the product descriptor and the intent text into one
// combined search string. Either input may be absent; both absent is a
// defect (the entry point rejects such requests before the pipeline runs)
// and fails loudly instead of producing an empty query.
func ComposeQuery(product *domain.ProductDescriptor, intentText string) (string, error) {
	if product == nil && intentText == "" {
		return "", domain.ErrNoQueryInputs
	}

	var combined string
	if product != nil {
		combined = productClausePrefix + product.Clause()
	}
	if intentText != "" {
		if combined != "" {
			combined += " AND " + intentText
		} else {
			combined = intentText
		}
	}
	return combined, nil
}
