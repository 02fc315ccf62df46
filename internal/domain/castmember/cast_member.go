package castmember

import (
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/domain/shared"
)

const (
	AggregateType = "CastMember"
	NameMaxLength = 255
)

// Type is the role a cast member plays in a production.
type Type int

const (
	TypeDirector Type = 1
	TypeActor    Type = 2
)

// Valid reports whether t is a known cast member type.
func (t Type) Valid() bool {
	return t == TypeDirector || t == TypeActor
}

func (t Type) String() string {
	switch t {
	case TypeDirector:
		return "DIRECTOR"
	case TypeActor:
		return "ACTOR"
	default:
		return "UNKNOWN"
	}
}

// CastMember is a director or actor credited in videos.
type CastMember struct {
	shared.BaseAggregate
	name       string
	memberType Type
}

// New creates a cast member and validates it.
func New(name string, memberType Type) (*CastMember, error) {
	m := &CastMember{
		BaseAggregate: shared.NewBaseAggregate(),
		name:          name,
		memberType:    memberType,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Restore rebuilds a cast member from persisted state.
func Restore(id uuid.UUID, name string, memberType Type, createdAt time.Time) *CastMember {
	return &CastMember{
		BaseAggregate: shared.RestoreBaseAggregate(id, createdAt),
		name:          name,
		memberType:    memberType,
	}
}

func (m *CastMember) Name() string { return m.name }
func (m *CastMember) Type() Type   { return m.memberType }

func (m *CastMember) ChangeName(name string) error {
	m.name = name
	return m.Validate()
}

func (m *CastMember) ChangeType(t Type) error {
	m.memberType = t
	return m.Validate()
}

// Validate checks the cast member invariants.
func (m *CastMember) Validate() error {
	n := shared.NewNotification()
	n.RequireName("name", m.name, NameMaxLength)
	if !m.memberType.Valid() {
		n.Add("type", "type must be one of the following values: 1, 2")
	}
	return n.Err("cast member")
}
