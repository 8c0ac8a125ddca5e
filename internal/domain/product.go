package domain

import "encoding/json"

// NoProductSentinel is the value a vision model returns in the product field
// when it cannot identify a product in the image.
const NoProductSentinel = "no product found"

// ProductDescriptor is the structured description of a product extracted
// from an image by a vision model.
type ProductDescriptor struct {
	Product       string `json:"product"`
	ProductType   string `json:"product_type,omitempty"`
	ProductColor  string `json:"product_color,omitempty"`
	PriceCategory string `json:"price_category,omitempty"`
}

// Found reports whether the descriptor identifies an actual product.
func (p *ProductDescriptor) Found() bool {
	return p != nil && p.Product != "" && p.Product != NoProductSentinel
}

// Clause renders the descriptor as a compact JSON clause for embedding in
// a search query string.
func (p *ProductDescriptor) Clause() string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}
