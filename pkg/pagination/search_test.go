package pagination_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/narwhalmedia/catalog/pkg/pagination"
)

func TestSearchParams_Normalize(t *testing.T) {
	p := pagination.SearchParams[string]{Page: 0, PerPage: 0, Sort: "password"}.Normalize("name", "created_at")

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 15, p.PerPage)
	assert.Equal(t, "created_at", p.Sort)
	assert.Equal(t, pagination.SortDesc, p.SortDir)

	p = pagination.SearchParams[string]{Page: 3, PerPage: 500, Sort: "name", SortDir: pagination.SortAsc}.Normalize("name")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, pagination.MaxPerPage, p.PerPage)
	assert.Equal(t, "name", p.Sort)
	assert.Equal(t, pagination.SortAsc, p.SortDir)
	assert.Equal(t, 200, p.Offset())
}

func TestParseSortDirection(t *testing.T) {
	assert.Equal(t, pagination.SortAsc, pagination.ParseSortDirection("ASC"))
	assert.Equal(t, pagination.SortDesc, pagination.ParseSortDirection("desc"))
	assert.Equal(t, pagination.SortAsc, pagination.ParseSortDirection(""))
}

func TestSearchParams_NormalizeDefaultsValidSortToAsc(t *testing.T) {
	p := pagination.SearchParams[string]{Sort: "name"}.Normalize("name")
	assert.Equal(t, pagination.SortAsc, p.SortDir)

	p = pagination.SearchParams[string]{Sort: "name", SortDir: "sideways"}.Normalize("name")
	assert.Equal(t, pagination.SortAsc, p.SortDir)

	p = pagination.SearchParams[string]{Sort: "name", SortDir: pagination.SortDesc}.Normalize("name")
	assert.Equal(t, pagination.SortDesc, p.SortDir)
}

func TestSearchParams_NormalizeClampsHugePage(t *testing.T) {
	p := pagination.SearchParams[string]{Page: math.MaxInt, PerPage: pagination.MaxPerPage}.Normalize()

	assert.Equal(t, pagination.MaxPage, p.Page)
	assert.Positive(t, p.Offset())
	assert.LessOrEqual(t, p.Offset(), math.MaxInt32)
}

func TestSearchResult_LastPageAndMap(t *testing.T) {
	params := pagination.SearchParams[struct{}]{Page: 2, PerPage: 2}
	r := pagination.NewSearchResult([]int{3, 4}, 5, params)

	assert.Equal(t, 3, r.LastPage())

	mapped := pagination.Map(r, strconv.Itoa)
	assert.Equal(t, []string{"3", "4"}, mapped.Items)
	assert.Equal(t, int64(5), mapped.Total)
	assert.Equal(t, 2, mapped.CurrentPage)

	empty := pagination.NewSearchResult([]int{}, 0, params)
	assert.Equal(t, 1, empty.LastPage())
}
