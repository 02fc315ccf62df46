package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/narwhalmedia/catalog/pkg/pagination"
)

// DataResponse wraps a single resource.
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// Meta carries the pagination of a listing.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	LastPage    int   `json:"last_page"`
	Total       int64 `json:"total"`
}

// ListResponse wraps one page of resources.
type ListResponse[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

func respond[T any](c *gin.Context, status int, data T) {
	c.JSON(status, DataResponse[T]{Data: data})
}

func respondList[T, U any](c *gin.Context, res pagination.SearchResult[T], present func(T) U) {
	page := pagination.Map(res, present)
	c.JSON(http.StatusOK, ListResponse[U]{
		Data: page.Items,
		Meta: Meta{
			CurrentPage: page.CurrentPage,
			PerPage:     page.PerPage,
			LastPage:    page.LastPage(),
			Total:       page.Total,
		},
	})
}
