package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductDescriptor_Found(t *testing.T) {
	tests := []struct {
		name       string
		descriptor *ProductDescriptor
		want       bool
	}{
		{
			name:       "real product",
			descriptor: &ProductDescriptor{Product: "running shoes", ProductType: "footwear"},
			want:       true,
		},
		{
			name:       "sentinel value",
			descriptor: &ProductDescriptor{Product: NoProductSentinel},
			want:       false,
		},
		{
			name:       "empty product field",
			descriptor: &ProductDescriptor{},
			want:       false,
		},
		{
			name:       "nil descriptor",
			descriptor: nil,
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.descriptor.Found())
		})
	}
}

func TestProductDescriptor_Clause(t *testing.T) {
	descriptor := &ProductDescriptor{
		Product:       "running shoes",
		ProductType:   "footwear",
		ProductColor:  "red",
		PriceCategory: "mid-range",
	}

	clause := descriptor.Clause()

	assert.JSONEq(t, `{"product":"running shoes","product_type":"footwear","product_color":"red","price_category":"mid-range"}`, clause)
}

func TestProductDescriptor_Clause_OmitsEmptyFields(t *testing.T) {
	descriptor := &ProductDescriptor{Product: NoProductSentinel}

	assert.Equal(t, `{"product":"no product found"}`, descriptor.Clause())
}
