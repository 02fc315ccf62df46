package rest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
	"github.com/narwhalmedia/catalog/pkg/pagination"
)

// listQuery is the common part of every listing query string.
type listQuery struct {
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" binding:"omitempty,min=1"`
	Sort    string `form:"sort"`
	SortDir string `form:"sort_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// searchParams binds page, per_page, sort and sort_dir and returns the
// search parameters for filter. Unknown sort fields are dropped later by
// the use case.
func searchParams[F any](c *gin.Context, filter F) (pagination.SearchParams[F], error) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return pagination.SearchParams[F]{}, bindError(err)
	}
	return pagination.SearchParams[F]{
		Page:    q.Page,
		PerPage: q.PerPage,
		Sort:    q.Sort,
		SortDir: pagination.ParseSortDirection(q.SortDir),
		Filter:  filter,
	}, nil
}

// filterValue reads filter[name] from the query string.
func filterValue(c *gin.Context, name string) string {
	return strings.TrimSpace(c.QueryMap("filter")[name])
}

// filterIDs reads filter[name] as a comma separated list of UUIDs.
func filterIDs(c *gin.Context, name string) ([]uuid.UUID, error) {
	raw := filterValue(c, name)
	if raw == "" {
		return nil, nil
	}
	return parseIDs(name, strings.Split(raw, ","))
}

// filterInt reads filter[name] as an integer; 0 when absent.
func filterInt(c *gin.Context, name string) (int, error) {
	raw := filterValue(c, name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Validation("invalid filter", fmt.Sprintf("filter[%s] must be an integer", name))
	}
	return n, nil
}

func parseIDs(field string, values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	var details []string
	for _, v := range values {
		id, err := uuid.Parse(strings.TrimSpace(v))
		if err != nil {
			details = append(details, fmt.Sprintf("%s must contain only UUIDs, got %q", field, v))
			continue
		}
		ids = append(ids, id)
	}
	if len(details) > 0 {
		return nil, pkgerrors.Validation("invalid identifiers", details...)
	}
	return ids, nil
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, pkgerrors.Validation("invalid id", "id must be a UUID")
	}
	return id, nil
}
