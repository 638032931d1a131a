package dto

import "github.com/splitfin/backend/internal/domain/shared"

// Response is the standard API envelope
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Count   *int       `json:"count,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo describes a failed request
type ErrorInfo struct {
	Code      string             `json:"code" example:"ERR_VALIDATION"`
	Message   string             `json:"message" example:"product_ids is required"`
	RequestID string             `json:"request_id,omitempty" example:"6f1c2f0e-3f5e-4b8e-9a51-0f5b1c2d3e4f"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes a single invalid field
type ValidationDetail struct {
	Field   string `json:"field" example:"product_ids"`
	Message string `json:"message" example:"This field is required"`
}

// Meta describes the page returned by an offset-paginated listing
type Meta struct {
	Total   int64 `json:"total" example:"134"`
	Limit   int   `json:"limit" example:"50"`
	Offset  int   `json:"offset" example:"0"`
	HasMore bool  `json:"has_more" example:"true"`
}

// NewMeta builds page metadata from a repository page
func NewMeta(p shared.Page) *Meta {
	return &Meta{
		Total:   p.Total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.HasMore(),
	}
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewListResponse creates a success response carrying a page of rows.
// count is the number of rows on this page, meta.total the number overall.
func NewListResponse(data any, count int, meta *Meta) Response {
	return Response{
		Success: true,
		Data:    data,
		Count:   &count,
		Meta:    meta,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response tagged with the request id
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	resp := NewErrorResponse(code, message)
	resp.Error.RequestID = requestID
	return resp
}

// NewValidationErrorResponse creates an ERR_VALIDATION response with field details
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	resp := NewErrorResponseWithRequestID(ErrCodeValidation, message, requestID)
	resp.Error.Details = details
	return resp
}
