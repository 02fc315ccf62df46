package application

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
)

// IDChecker is implemented by repositories whose rows can be referenced.
type IDChecker interface {
	ExistsByIDs(ctx context.Context, ids []uuid.UUID) (existing, missing []uuid.UUID, err error)
}

// RelationCheck names a set of referenced ids and the repository that owns them.
type RelationCheck struct {
	Entity  string
	IDs     []uuid.UUID
	Checker IDChecker
}

// CheckRelations looks every reference up and returns one message per
// entity that has missing ids, e.g. "Category Not Found using ID a, b".
func CheckRelations(ctx context.Context, checks ...RelationCheck) ([]string, error) {
	var messages []string
	for _, c := range checks {
		if len(c.IDs) == 0 {
			continue
		}
		_, missing, err := c.Checker.ExistsByIDs(ctx, c.IDs)
		if err != nil {
			return nil, fmt.Errorf("checking %s ids: %w", strings.ToLower(c.Entity), err)
		}
		if len(missing) > 0 {
			messages = append(messages, NotFoundMessage(c.Entity, missing...))
		}
	}
	return messages, nil
}

// NotFoundMessage formats the not found message for one or more ids.
func NotFoundMessage(entity string, ids ...uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return fmt.Sprintf("%s Not Found using ID %s", entity, strings.Join(parts, ", "))
}

// MergeValidation folds extra messages into a domain validation error so
// the caller reports every problem at once. Non-validation errors pass
// through unchanged.
func MergeValidation(entity string, err error, extra []string) error {
	if err != nil && !pkgerrors.IsValidation(err) {
		return err
	}
	details := slices.Concat(pkgerrors.DetailsOf(err), extra)
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.Validation(entity+" validation failed", details...)
}
