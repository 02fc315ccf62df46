package genre

import (
	"context"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/pkg/pagination"
)

var SortableFields = []string{"name", "created_at"}

// Filter narrows a genre search. A genre matches CategoryIDs when it
// belongs to any of them.
type Filter struct {
	Name        string
	CategoryIDs []uuid.UUID
}

type (
	SearchParams = pagination.SearchParams[Filter]
	SearchResult = pagination.SearchResult[*Genre]
)

// Repository persists genres together with their category links.
type Repository interface {
	Insert(ctx context.Context, g *Genre) error
	Update(ctx context.Context, g *Genre) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Genre, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Genre, error)
	ExistsByIDs(ctx context.Context, ids []uuid.UUID) (existing, missing []uuid.UUID, err error)
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}
