package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/splitfin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"INVALID_INPUT", ErrCodeValidation},
		{"NOT_FOUND", ErrCodeNotFound},
		{"UNAUTHORIZED", ErrCodeUnauthorized},
		{"FORBIDDEN", ErrCodeForbidden},
		{"SERVICE_UNAVAILABLE", ErrCodeServiceUnavailable},
		{ErrCodeRateLimited, ErrCodeRateLimited},
		{ErrCodeValidation, ErrCodeValidation},
		{"CUSTOM_ERROR", ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		limit   int
		offset  int
		hasMore bool
	}{
		{"first of several pages", 120, 50, 0, true},
		{"exactly the last page", 100, 50, 50, false},
		{"partial last page", 120, 50, 100, false},
		{"empty result", 0, 50, 0, false},
		{"one row left", 51, 50, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewMeta(shared.Page{Total: tt.total, Limit: tt.limit, Offset: tt.offset})
			assert.Equal(t, tt.hasMore, meta.HasMore)
			assert.Equal(t, tt.total, meta.Total)
		})
	}
}

func TestNewListResponse_JSONShape(t *testing.T) {
	resp := NewListResponse([]string{"a", "b"}, 2, NewMeta(shared.Page{Total: 10, Limit: 2}))

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
	assert.NotContains(t, body, "error")

	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(10), meta["total"])
	assert.Equal(t, true, meta["has_more"])
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "product_ids", Message: "This field is required"},
	})

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
	assert.Nil(t, resp.Count)
}

func TestPriceCheckRequest_AnalyzeOrDefault(t *testing.T) {
	var req PriceCheckRequest
	require.NoError(t, json.Unmarshal([]byte(`{"product_ids":[1]}`), &req))
	assert.True(t, req.AnalyzeOrDefault())

	require.NoError(t, json.Unmarshal([]byte(`{"product_ids":[1],"analyze":false}`), &req))
	assert.False(t, req.AnalyzeOrDefault())
}
