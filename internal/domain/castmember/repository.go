package castmember

import (
	"context"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/pkg/pagination"
)

var SortableFields = []string{"name", "created_at"}

// Filter narrows a cast member search; zero values are ignored.
type Filter struct {
	Name string
	Type Type
}

type (
	SearchParams = pagination.SearchParams[Filter]
	SearchResult = pagination.SearchResult[*CastMember]
)

// Repository persists cast members.
type Repository interface {
	Insert(ctx context.Context, m *CastMember) error
	Update(ctx context.Context, m *CastMember) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*CastMember, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*CastMember, error)
	ExistsByIDs(ctx context.Context, ids []uuid.UUID) (existing, missing []uuid.UUID, err error)
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}
