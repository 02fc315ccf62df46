package category

import (
	"context"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/pkg/pagination"
)

// SortableFields lists the columns a category listing may be sorted by.
var SortableFields = []string{"name", "created_at"}

// Filter narrows a category search. Name matches case-insensitively as a substring.
type Filter struct {
	Name string
}

type (
	SearchParams = pagination.SearchParams[Filter]
	SearchResult = pagination.SearchResult[*Category]
)

// Repository persists categories.
type Repository interface {
	Insert(ctx context.Context, c *Category) error
	BulkInsert(ctx context.Context, cs []*Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Category, error)
	// ExistsByIDs splits ids into the ones that exist and the ones that don't.
	ExistsByIDs(ctx context.Context, ids []uuid.UUID) (existing, missing []uuid.UUID, err error)
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}
