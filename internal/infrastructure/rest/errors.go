package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/narwhalmedia/catalog/internal/domain/video"
	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	StatusCode int      `json:"status_code"`
	Error      string   `json:"error"`
	Message    []string `json:"message"`
}

// ErrorHandler renders the last error attached with c.Error. Handlers only
// record errors and return.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		resp := toErrorResponse(err)
		if resp.StatusCode >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err))
		}
		c.AbortWithStatusJSON(resp.StatusCode, resp)
	}
}

func toErrorResponse(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return ErrorResponse{
			StatusCode: http.StatusUnprocessableEntity,
			Error:      http.StatusText(http.StatusUnprocessableEntity),
			Message:    validationMessages(verrs),
		}
	}

	if video.IsMediaStateError(err) {
		return ErrorResponse{
			StatusCode: http.StatusUnprocessableEntity,
			Error:      http.StatusText(http.StatusUnprocessableEntity),
			Message:    []string{err.Error()},
		}
	}

	status := pkgerrors.HTTPStatus(err)
	resp := ErrorResponse{StatusCode: status, Error: http.StatusText(status)}
	switch {
	case status >= http.StatusInternalServerError:
		resp.Message = []string{"internal server error"}
	case len(pkgerrors.DetailsOf(err)) > 0:
		resp.Message = pkgerrors.DetailsOf(err)
	default:
		var appErr *pkgerrors.AppError
		if errors.As(err, &appErr) {
			resp.Message = []string{appErr.Message}
		} else {
			resp.Message = []string{err.Error()}
		}
	}
	return resp
}

func validationMessages(verrs validator.ValidationErrors) []string {
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, validationMessage(fe))
	}
	return messages
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s should not be empty", field)
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be shorter than or equal to %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not be greater than %s", field, fe.Param())
	case "min":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("%s should not be empty", field)
		}
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of the following values: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a UUID", field)
	case "dive":
		return fmt.Sprintf("%s is invalid", field)
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}

// bindError turns a gin binding failure into an application error.
// Validator failures pass through so ErrorHandler can list every field.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return pkgerrors.Wrap(pkgerrors.ErrorTypeBadRequest, "malformed request body", err)
}
