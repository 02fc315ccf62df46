package shared

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/google/uuid"

	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
)

// Notification collects validation messages per field so an aggregate can
// report every broken rule at once.
type Notification struct {
	errors map[string][]string
	order  []string
}

// NewNotification returns an empty notification.
func NewNotification() *Notification {
	return &Notification{errors: make(map[string][]string)}
}

// Add records msg against field.
func (n *Notification) Add(field, msg string) {
	if _, ok := n.errors[field]; !ok {
		n.order = append(n.order, field)
	}
	n.errors[field] = append(n.errors[field], msg)
}

// HasErrors reports whether any rule was broken.
func (n *Notification) HasErrors() bool {
	return len(n.order) > 0
}

// Fields returns the fields with errors, in the order they were first reported.
func (n *Notification) Fields() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// Messages returns every message, grouped by field in report order.
func (n *Notification) Messages() []string {
	var out []string
	for _, f := range n.order {
		out = append(out, n.errors[f]...)
	}
	return out
}

// Err converts the notification into a validation error, or nil.
func (n *Notification) Err(entity string) error {
	if !n.HasErrors() {
		return nil
	}
	return pkgerrors.Validation(fmt.Sprintf("%s validation failed", entity), n.Messages()...)
}

// RequireName checks the name rules shared by the catalog aggregates.
func (n *Notification) RequireName(field, value string, max int) {
	if value == "" {
		n.Add(field, fmt.Sprintf("%s should not be empty", field))
		return
	}
	if utf8.RuneCountInString(value) > max {
		n.Add(field, fmt.Sprintf("%s must be shorter than or equal to %d characters", field, max))
	}
}

// UUIDSet is an insertion ordered set of ids.
type UUIDSet struct {
	items map[uuid.UUID]struct{}
	order []uuid.UUID
}

// NewUUIDSet builds a set from ids, dropping duplicates.
func NewUUIDSet(ids ...uuid.UUID) UUIDSet {
	s := UUIDSet{items: make(map[uuid.UUID]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id if absent.
func (s *UUIDSet) Add(id uuid.UUID) {
	if s.items == nil {
		s.items = make(map[uuid.UUID]struct{})
	}
	if _, ok := s.items[id]; ok {
		return
	}
	s.items[id] = struct{}{}
	s.order = append(s.order, id)
}

// Remove deletes id if present.
func (s *UUIDSet) Remove(id uuid.UUID) {
	if _, ok := s.items[id]; !ok {
		return
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Has reports membership.
func (s UUIDSet) Has(id uuid.UUID) bool {
	_, ok := s.items[id]
	return ok
}

// Len returns the set size.
func (s UUIDSet) Len() int {
	return len(s.order)
}

// Slice returns a copy of the ids in insertion order.
func (s UUIDSet) Slice() []uuid.UUID {
	out := make([]uuid.UUID, len(s.order))
	copy(out, s.order)
	return out
}

// Sorted returns the ids sorted by their string form, for stable output.
func (s UUIDSet) Sorted() []uuid.UUID {
	out := s.Slice()
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
