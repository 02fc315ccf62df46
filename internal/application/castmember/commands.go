package castmember

import (
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/domain/castmember"
	"github.com/narwhalmedia/catalog/pkg/pagination"
)

type CreateCommand struct {
	Name string
	Type castmember.Type
}

// UpdateCommand patches a cast member; nil fields are left untouched.
type UpdateCommand struct {
	ID   uuid.UUID
	Name *string
	Type *castmember.Type
}

type ListQuery = castmember.SearchParams

type Output struct {
	ID        uuid.UUID
	Name      string
	Type      castmember.Type
	CreatedAt time.Time
}

type ListOutput = pagination.SearchResult[Output]

func toOutput(m *castmember.CastMember) Output {
	return Output{
		ID:        m.ID(),
		Name:      m.Name(),
		Type:      m.Type(),
		CreatedAt: m.CreatedAt(),
	}
}
