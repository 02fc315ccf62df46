package category

import (
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/domain/category"
	"github.com/narwhalmedia/catalog/pkg/pagination"
)

// CreateCommand creates a category. IsActive defaults to true when nil.
type CreateCommand struct {
	Name        string
	Description *string
	IsActive    *bool
}

// UpdateCommand patches a category; nil fields are left untouched.
// ClearDescription removes the description.
type UpdateCommand struct {
	ID               uuid.UUID
	Name             *string
	Description      *string
	ClearDescription bool
	IsActive         *bool
}

// ListQuery is one page of the category listing.
type ListQuery = category.SearchParams

// Output is the read model returned by every use case.
type Output struct {
	ID          uuid.UUID
	Name        string
	Description *string
	IsActive    bool
	CreatedAt   time.Time
}

type ListOutput = pagination.SearchResult[Output]

func toOutput(c *category.Category) Output {
	return Output{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		IsActive:    c.IsActive(),
		CreatedAt:   c.CreatedAt(),
	}
}
