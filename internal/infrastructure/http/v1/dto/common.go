// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"inventory/internal/core/id"
	"inventory/internal/domain"
)

// --- Pagination ---

// ListRequest contains the common list query parameters.
type ListRequest struct {
	Search string `form:"search" binding:"max=255"`
	Limit  int    `form:"limit" binding:"min=0,max=500"`
	Offset int    `form:"offset" binding:"min=0"`
}

// ToFilter converts to the domain list filter.
func (r ListRequest) ToFilter() domain.ListFilter {
	f := domain.ListFilter{
		Search: r.Search,
		Limit:  r.Limit,
		Offset: r.Offset,
	}
	f.Normalize()
	return f
}

// ListResponse wraps list results with pagination.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// FromListResult copies a domain page. A nil page renders as an empty list.
func FromListResult[T any](r domain.ListResult[T]) ListResponse[T] {
	items := r.Items
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Items:      items,
		TotalCount: r.TotalCount,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
