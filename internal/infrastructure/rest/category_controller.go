package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcategory "github.com/narwhalmedia/catalog/internal/application/category"
	"github.com/narwhalmedia/catalog/internal/domain/category"
)

// CategoryUsecase is the category application service as seen by HTTP.
type CategoryUsecase interface {
	Create(ctx context.Context, cmd appcategory.CreateCommand) (appcategory.Output, error)
	Update(ctx context.Context, cmd appcategory.UpdateCommand) (appcategory.Output, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (appcategory.Output, error)
	List(ctx context.Context, q appcategory.ListQuery) (appcategory.ListOutput, error)
}

type CategoryController struct {
	CategoryUsecase CategoryUsecase
}

type createCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type CategoryPresenter struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func presentCategory(o appcategory.Output) CategoryPresenter {
	return CategoryPresenter{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		IsActive:    o.IsActive,
		CreatedAt:   o.CreatedAt,
	}
}

func (ctrl *CategoryController) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	out, err := ctrl.CategoryUsecase.Create(c.Request.Context(), appcategory.CreateCommand{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusCreated, presentCategory(out))
}

func (ctrl *CategoryController) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req updateCategoryRequest
	present, err := bindPatch(c, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out, err := ctrl.CategoryUsecase.Update(c.Request.Context(), appcategory.UpdateCommand{
		ID:               id,
		Name:             req.Name,
		Description:      req.Description,
		ClearDescription: present.isNull("description"),
		IsActive:         req.IsActive,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, presentCategory(out))
}

func (ctrl *CategoryController) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.CategoryUsecase.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctrl *CategoryController) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	out, err := ctrl.CategoryUsecase.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, presentCategory(out))
}

func (ctrl *CategoryController) List(c *gin.Context) {
	params, err := searchParams(c, category.Filter{Name: filterValue(c, "name")})
	if err != nil {
		_ = c.Error(err)
		return
	}
	res, err := ctrl.CategoryUsecase.List(c.Request.Context(), params)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondList(c, res, presentCategory)
}
