package category

import (
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/domain/shared"
)

const (
	AggregateType = "Category"
	NameMaxLength = 255
)

// Category is a catalog classification such as "Movie" or "Documentary".
type Category struct {
	shared.BaseAggregate
	name        string
	description *string
	isActive    bool
}

// New creates a category and validates it.
func New(name string, description *string, isActive bool) (*Category, error) {
	c := &Category{
		BaseAggregate: shared.NewBaseAggregate(),
		name:          name,
		description:   description,
		isActive:      isActive,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Restore rebuilds a category from persisted state without validation.
func Restore(id uuid.UUID, name string, description *string, isActive bool, createdAt time.Time) *Category {
	return &Category{
		BaseAggregate: shared.RestoreBaseAggregate(id, createdAt),
		name:          name,
		description:   description,
		isActive:      isActive,
	}
}

func (c *Category) Name() string         { return c.name }
func (c *Category) Description() *string { return c.description }
func (c *Category) IsActive() bool       { return c.isActive }

// ChangeName renames the category.
func (c *Category) ChangeName(name string) error {
	c.name = name
	return c.Validate()
}

// ChangeDescription replaces the description; nil clears it.
func (c *Category) ChangeDescription(description *string) {
	c.description = description
}

func (c *Category) Activate()   { c.isActive = true }
func (c *Category) Deactivate() { c.isActive = false }

// Validate checks the category invariants.
func (c *Category) Validate() error {
	n := shared.NewNotification()
	n.RequireName("name", c.name, NameMaxLength)
	return n.Err("category")
}
