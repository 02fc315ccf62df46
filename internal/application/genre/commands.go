package genre

import (
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/domain/category"
	"github.com/narwhalmedia/catalog/internal/domain/genre"
	"github.com/narwhalmedia/catalog/pkg/pagination"
)

type CreateCommand struct {
	Name        string
	CategoryIDs []uuid.UUID
	IsActive    *bool
}

// UpdateCommand patches a genre. A non-nil CategoryIDs replaces the set.
type UpdateCommand struct {
	ID          uuid.UUID
	Name        *string
	CategoryIDs []uuid.UUID
	IsActive    *bool
}

type ListQuery = genre.SearchParams

// CategoryRef is the category summary embedded in a genre.
type CategoryRef struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

type Output struct {
	ID          uuid.UUID
	Name        string
	CategoryIDs []uuid.UUID
	Categories  []CategoryRef
	IsActive    bool
	CreatedAt   time.Time
}

type ListOutput = pagination.SearchResult[Output]

func toOutput(g *genre.Genre, categories map[uuid.UUID]*category.Category) Output {
	out := Output{
		ID:          g.ID(),
		Name:        g.Name(),
		CategoryIDs: g.CategoryIDs(),
		Categories:  []CategoryRef{},
		IsActive:    g.IsActive(),
		CreatedAt:   g.CreatedAt(),
	}
	for _, id := range out.CategoryIDs {
		if c, ok := categories[id]; ok {
			out.Categories = append(out.Categories, CategoryRef{ID: c.ID(), Name: c.Name(), CreatedAt: c.CreatedAt()})
		}
	}
	return out
}
