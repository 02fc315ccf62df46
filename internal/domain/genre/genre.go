package genre

import (
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/domain/shared"
)

const (
	AggregateType = "Genre"
	NameMaxLength = 255
)

// Genre groups videos and belongs to at least one category.
type Genre struct {
	shared.BaseAggregate
	name        string
	categoryIDs shared.UUIDSet
	isActive    bool
}

// New creates a genre and validates it.
func New(name string, categoryIDs []uuid.UUID, isActive bool) (*Genre, error) {
	g := &Genre{
		BaseAggregate: shared.NewBaseAggregate(),
		name:          name,
		categoryIDs:   shared.NewUUIDSet(categoryIDs...),
		isActive:      isActive,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Restore rebuilds a genre from persisted state.
func Restore(id uuid.UUID, name string, categoryIDs []uuid.UUID, isActive bool, createdAt time.Time) *Genre {
	return &Genre{
		BaseAggregate: shared.RestoreBaseAggregate(id, createdAt),
		name:          name,
		categoryIDs:   shared.NewUUIDSet(categoryIDs...),
		isActive:      isActive,
	}
}

func (g *Genre) Name() string                  { return g.name }
func (g *Genre) IsActive() bool                { return g.isActive }
func (g *Genre) CategoryIDs() []uuid.UUID      { return g.categoryIDs.Slice() }
func (g *Genre) HasCategory(id uuid.UUID) bool { return g.categoryIDs.Has(id) }

func (g *Genre) ChangeName(name string) error {
	g.name = name
	return g.Validate()
}

func (g *Genre) AddCategoryID(id uuid.UUID) {
	g.categoryIDs.Add(id)
}

// RemoveCategoryID detaches a category; a genre must keep at least one.
func (g *Genre) RemoveCategoryID(id uuid.UUID) error {
	g.categoryIDs.Remove(id)
	return g.Validate()
}

// SyncCategoryIDs replaces the category set.
func (g *Genre) SyncCategoryIDs(ids []uuid.UUID) error {
	g.categoryIDs = shared.NewUUIDSet(ids...)
	return g.Validate()
}

func (g *Genre) Activate()   { g.isActive = true }
func (g *Genre) Deactivate() { g.isActive = false }

// Validate checks the genre invariants.
func (g *Genre) Validate() error {
	n := shared.NewNotification()
	n.RequireName("name", g.name, NameMaxLength)
	if g.categoryIDs.Len() == 0 {
		n.Add("categories_id", "categories_id should not be empty")
	}
	return n.Err("genre")
}
