package rest

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/narwhalmedia/catalog/pkg/logger"
)

// Controllers are the HTTP handlers mounted by NewRouter.
type Controllers struct {
	Category   *CategoryController
	CastMember *CastMemberController
	Genre      *GenreController
	Video      *VideoController
	Health     *HealthController
}

var registerTagNames sync.Once

// NewRouter builds the gin engine. guards run before every catalog route
// and are typically authentication and authorization.
func NewRouter(ctrls Controllers, log *logger.ZapLogger, guards ...gin.HandlerFunc) *gin.Engine {
	registerTagNames.Do(useJSONFieldNames)

	r := gin.New()
	r.Use(
		logger.GinMiddleware(log),
		gin.CustomRecovery(recovery(log.Zap())),
		ErrorHandler(log.Zap().Named("http")),
	)
	r.HandleMethodNotAllowed = true

	r.GET("/health", ctrls.Health.Health)
	r.GET("/ready", ctrls.Health.Ready)

	api := r.Group("/", guards...)
	NewCategoryRouter(api, ctrls.Category)
	NewCastMemberRouter(api, ctrls.CastMember)
	NewGenreRouter(api, ctrls.Genre)
	NewVideoRouter(api, ctrls.Video)
	return r
}

func NewCategoryRouter(group *gin.RouterGroup, ctrl *CategoryController) {
	g := group.Group("/categories")
	g.POST("", ctrl.Create)
	g.GET("", ctrl.List)
	g.GET("/:id", ctrl.Get)
	g.PATCH("/:id", ctrl.Update)
	g.DELETE("/:id", ctrl.Delete)
}

func NewCastMemberRouter(group *gin.RouterGroup, ctrl *CastMemberController) {
	g := group.Group("/cast-members")
	g.POST("", ctrl.Create)
	g.GET("", ctrl.List)
	g.GET("/:id", ctrl.Get)
	g.PATCH("/:id", ctrl.Update)
	g.DELETE("/:id", ctrl.Delete)
}

func NewGenreRouter(group *gin.RouterGroup, ctrl *GenreController) {
	g := group.Group("/genres")
	g.POST("", ctrl.Create)
	g.GET("", ctrl.List)
	g.GET("/:id", ctrl.Get)
	g.PATCH("/:id", ctrl.Update)
	g.DELETE("/:id", ctrl.Delete)
}

func NewVideoRouter(group *gin.RouterGroup, ctrl *VideoController) {
	g := group.Group("/videos")
	g.POST("", ctrl.Create)
	g.GET("", ctrl.List)
	g.GET("/:id", ctrl.Get)
	g.PATCH("/:id", ctrl.Update)
	g.DELETE("/:id", ctrl.Delete)
	g.POST("/:id/upload", ctrl.Upload)
}

func recovery(log *zap.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Error:      http.StatusText(http.StatusInternalServerError),
			Message:    []string{"internal server error"},
		})
	}
}

// useJSONFieldNames makes validation errors name fields as clients send them.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
}
