package video

import (
	"context"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/pkg/pagination"
)

var SortableFields = []string{"title", "created_at"}

// Filter narrows a video search. Title matches as a case-insensitive
// substring; each id list matches videos linked to any of its ids, and the
// lists are combined with AND.
type Filter struct {
	Title         string
	CategoryIDs   []uuid.UUID
	GenreIDs      []uuid.UUID
	CastMemberIDs []uuid.UUID
}

type (
	SearchParams = pagination.SearchParams[Filter]
	SearchResult = pagination.SearchResult[*Video]
)

// Repository persists videos with their relations and media.
type Repository interface {
	Insert(ctx context.Context, v *Video) error
	Update(ctx context.Context, v *Video) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Video, error)
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}
