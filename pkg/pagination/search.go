package pagination

import (
	"math"
	"slices"
	"strings"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 15
	MaxPerPage     = 100
	// MaxPage keeps Offset well inside the range every driver accepts.
	MaxPage = math.MaxInt32 / MaxPerPage
)

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection returns desc for "desc" in any case and asc otherwise.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(s, string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// SearchParams describes one page of a filtered, sorted listing.
type SearchParams[F any] struct {
	Page    int
	PerPage int
	Sort    string
	SortDir SortDirection
	Filter  F
}

// Normalize clamps page bounds and drops sort fields not in sortable.
// A valid sort without a direction is ascending. When no valid sort is
// given the listing falls back to created_at desc.
func (p SearchParams[F]) Normalize(sortable ...string) SearchParams[F] {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	if p.Sort == "" || !slices.Contains(sortable, p.Sort) {
		p.Sort = "created_at"
		p.SortDir = SortDesc
		return p
	}
	p.SortDir = ParseSortDirection(string(p.SortDir))
	return p
}

// Offset returns the number of rows to skip.
func (p SearchParams[F]) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// SearchResult is one page of items plus the totals needed to render links.
type SearchResult[T any] struct {
	Items       []T
	Total       int64
	CurrentPage int
	PerPage     int
}

// NewSearchResult builds a result for the page described by params.
func NewSearchResult[T any, F any](items []T, total int64, params SearchParams[F]) SearchResult[T] {
	return SearchResult[T]{
		Items:       items,
		Total:       total,
		CurrentPage: params.Page,
		PerPage:     params.PerPage,
	}
}

// LastPage returns the index of the last page, at least 1.
func (r SearchResult[T]) LastPage() int {
	if r.PerPage <= 0 || r.Total == 0 {
		return 1
	}
	return int(math.Ceil(float64(r.Total) / float64(r.PerPage)))
}

// Map converts every item while keeping the pagination metadata.
func Map[T, U any](r SearchResult[T], fn func(T) U) SearchResult[U] {
	out := make([]U, len(r.Items))
	for i, item := range r.Items {
		out[i] = fn(item)
	}
	return SearchResult[U]{
		Items:       out,
		Total:       r.Total,
		CurrentPage: r.CurrentPage,
		PerPage:     r.PerPage,
	}
}
