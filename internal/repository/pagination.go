// Package repository provides the data access layer for the finance tracker.
package repository

// Page sizes accepted by listings.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Pagination is an offset window over a listing.
type Pagination struct {
	Limit  int
	Offset int
}

// NewPagination clamps limit to (0, MaxPageSize] and offset to >= 0.
// A non-positive limit means DefaultPageSize.
func NewPagination(limit, offset int) Pagination {
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return Pagination{Limit: limit, Offset: max(offset, 0)}
}

// Page is one window of a listing and where it sits in the whole.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"has_more"`
	TotalPages int   `json:"total_pages"`
	Page       int   `json:"page"`
}

func newPage[T any](items []T, total int64, p Pagination) *Page[T] {
	if items == nil {
		items = []T{}
	}
	limit := int64(p.Limit)
	return &Page[T]{
		Items:      items,
		Total:      total,
		Limit:      p.Limit,
		Offset:     p.Offset,
		HasMore:    int64(p.Offset+len(items)) < total,
		TotalPages: int((total + limit - 1) / limit),
		Page:       p.Offset/p.Limit + 1,
	}
}
