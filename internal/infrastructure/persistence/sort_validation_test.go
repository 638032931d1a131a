package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"asc", "ASC"},
		{"  ASC ", "ASC"},
		{"desc", "DESC"},
		{"sideways", "DESC"},
		{"ASC; DROP TABLE products;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField_Popularity(t *testing.T) {
	const fallback = "unique_customers"

	tests := []struct {
		input    string
		expected string
	}{
		{"", fallback},
		{"total_revenue", "total_revenue"},
		{" trend ", "trend"},
		{"TOTAL_REVENUE", fallback},
		{"wholesale_rate", fallback},
		{"name; DROP TABLE products;--", fallback},
		{"CASE WHEN 1=1 THEN id ELSE name END", fallback},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, PopularitySortFields, fallback))
		})
	}
}
