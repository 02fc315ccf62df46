package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcastmember "github.com/narwhalmedia/catalog/internal/application/castmember"
	"github.com/narwhalmedia/catalog/internal/domain/castmember"
)

type CastMemberUsecase interface {
	Create(ctx context.Context, cmd appcastmember.CreateCommand) (appcastmember.Output, error)
	Update(ctx context.Context, cmd appcastmember.UpdateCommand) (appcastmember.Output, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (appcastmember.Output, error)
	List(ctx context.Context, q appcastmember.ListQuery) (appcastmember.ListOutput, error)
}

type CastMemberController struct {
	CastMemberUsecase CastMemberUsecase
}

type createCastMemberRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Type int    `json:"type" binding:"required,oneof=1 2"`
}

type updateCastMemberRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=255"`
	Type *int    `json:"type" binding:"omitempty,oneof=1 2"`
}

type CastMemberPresenter struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Type      castmember.Type `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
}

func presentCastMember(o appcastmember.Output) CastMemberPresenter {
	return CastMemberPresenter{ID: o.ID, Name: o.Name, Type: o.Type, CreatedAt: o.CreatedAt}
}

func (ctrl *CastMemberController) Create(c *gin.Context) {
	var req createCastMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	out, err := ctrl.CastMemberUsecase.Create(c.Request.Context(), appcastmember.CreateCommand{
		Name: req.Name,
		Type: castmember.Type(req.Type),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusCreated, presentCastMember(out))
}

func (ctrl *CastMemberController) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req updateCastMemberRequest
	if _, err := bindPatch(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	cmd := appcastmember.UpdateCommand{ID: id, Name: req.Name}
	if req.Type != nil {
		t := castmember.Type(*req.Type)
		cmd.Type = &t
	}
	out, err := ctrl.CastMemberUsecase.Update(c.Request.Context(), cmd)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, presentCastMember(out))
}

func (ctrl *CastMemberController) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.CastMemberUsecase.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctrl *CastMemberController) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	out, err := ctrl.CastMemberUsecase.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, presentCastMember(out))
}

func (ctrl *CastMemberController) List(c *gin.Context) {
	memberType, err := filterInt(c, "type")
	if err != nil {
		_ = c.Error(err)
		return
	}
	params, err := searchParams(c, castmember.Filter{
		Name: filterValue(c, "name"),
		Type: castmember.Type(memberType),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	res, err := ctrl.CastMemberUsecase.List(c.Request.Context(), params)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondList(c, res, presentCastMember)
}
