package gorm

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/narwhalmedia/catalog/pkg/pagination"
)

// nameLike adds a case-insensitive substring match on column.
func nameLike(q *gorm.DB, column, term string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" {
		return q
	}
	return q.Where(fmt.Sprintf("LOWER(%s) LIKE ?", column), "%"+strings.ToLower(term)+"%")
}

// page counts the filtered rows and loads one sorted page into dest,
// preloading the named associations. The sort column must already be
// checked against the sortable list.
func page[F any](q *gorm.DB, params pagination.SearchParams[F], dest any, preloads ...string) (int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	for _, p := range preloads {
		q = q.Preload(p)
	}
	err := q.
		Order(fmt.Sprintf("%s %s", params.Sort, strings.ToUpper(string(params.SortDir)))).
		Order("id").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(dest).Error
	return total, err
}

// existsByIDs splits ids into the ones present in table and the ones missing,
// keeping the caller's order and dropping duplicates.
func existsByIDs(q *gorm.DB, table string, ids []uuid.UUID) (existing, missing []uuid.UUID, err error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	var found []uuid.UUID
	if err := q.Table(table).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, nil, err
	}
	present := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if present[id] {
			existing = append(existing, id)
		} else {
			missing = append(missing, id)
		}
	}
	return existing, missing, nil
}
