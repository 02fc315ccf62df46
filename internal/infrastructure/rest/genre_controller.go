package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appgenre "github.com/narwhalmedia/catalog/internal/application/genre"
	"github.com/narwhalmedia/catalog/internal/domain/genre"
)

type GenreUsecase interface {
	Create(ctx context.Context, cmd appgenre.CreateCommand) (appgenre.Output, error)
	Update(ctx context.Context, cmd appgenre.UpdateCommand) (appgenre.Output, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (appgenre.Output, error)
	List(ctx context.Context, q appgenre.ListQuery) (appgenre.ListOutput, error)
}

type GenreController struct {
	GenreUsecase GenreUsecase
}

type createGenreRequest struct {
	Name         string      `json:"name" binding:"required,max=255"`
	CategoriesID []uuid.UUID `json:"categories_id" binding:"required,min=1"`
	IsActive     *bool       `json:"is_active"`
}

type updateGenreRequest struct {
	Name         *string     `json:"name" binding:"omitempty,min=1,max=255"`
	CategoriesID []uuid.UUID `json:"categories_id" binding:"omitempty,min=1"`
	IsActive     *bool       `json:"is_active"`
}

type GenreCategoryPresenter struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type GenrePresenter struct {
	ID           uuid.UUID                `json:"id"`
	Name         string                   `json:"name"`
	CategoriesID []uuid.UUID              `json:"categories_id"`
	Categories   []GenreCategoryPresenter `json:"categories"`
	IsActive     bool                     `json:"is_active"`
	CreatedAt    time.Time                `json:"created_at"`
}

func presentGenre(o appgenre.Output) GenrePresenter {
	p := GenrePresenter{
		ID:           o.ID,
		Name:         o.Name,
		CategoriesID: o.CategoryIDs,
		Categories:   make([]GenreCategoryPresenter, 0, len(o.Categories)),
		IsActive:     o.IsActive,
		CreatedAt:    o.CreatedAt,
	}
	for _, ref := range o.Categories {
		p.Categories = append(p.Categories, GenreCategoryPresenter{ID: ref.ID, Name: ref.Name, CreatedAt: ref.CreatedAt})
	}
	return p
}

func (ctrl *GenreController) Create(c *gin.Context) {
	var req createGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	out, err := ctrl.GenreUsecase.Create(c.Request.Context(), appgenre.CreateCommand{
		Name:        req.Name,
		CategoryIDs: req.CategoriesID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusCreated, presentGenre(out))
}

func (ctrl *GenreController) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req updateGenreRequest
	if _, err := bindPatch(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	out, err := ctrl.GenreUsecase.Update(c.Request.Context(), appgenre.UpdateCommand{
		ID:          id,
		Name:        req.Name,
		CategoryIDs: req.CategoriesID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, presentGenre(out))
}

func (ctrl *GenreController) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.GenreUsecase.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctrl *GenreController) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	out, err := ctrl.GenreUsecase.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, presentGenre(out))
}

func (ctrl *GenreController) List(c *gin.Context) {
	categoryIDs, err := filterIDs(c, "categories_id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	params, err := searchParams(c, genre.Filter{
		Name:        filterValue(c, "name"),
		CategoryIDs: categoryIDs,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	res, err := ctrl.GenreUsecase.List(c.Request.Context(), params)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondList(c, res, presentGenre)
}
