package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", pkgerrors.NotFound("video missing"), http.StatusNotFound},
		{"bad request", pkgerrors.New(pkgerrors.ErrorTypeBadRequest, "bad id"), http.StatusBadRequest},
		{"validation", pkgerrors.Validation("invalid", "name is required"), http.StatusUnprocessableEntity},
		{"conflict", pkgerrors.Conflict("dup"), http.StatusConflict},
		{"unauthorized", pkgerrors.Unauthorized("no token"), http.StatusUnauthorized},
		{"forbidden", pkgerrors.Forbidden("no role"), http.StatusForbidden},
		{"too large", pkgerrors.TooLarge("upload exceeds 1024 bytes"), http.StatusRequestEntityTooLarge},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("loading: %w", pkgerrors.NotFound("x")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pkgerrors.HTTPStatus(tt.err))
		})
	}
}

func TestValidation_Details(t *testing.T) {
	err := pkgerrors.Validation("category is invalid", "name should not be empty", "name must be shorter than or equal to 255 characters")

	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, []string{
		"name should not be empty",
		"name must be shorter than or equal to 255 characters",
	}, pkgerrors.DetailsOf(fmt.Errorf("wrap: %w", err)))
	assert.Contains(t, err.Error(), "name should not be empty")
}

func TestWrap_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := pkgerrors.Wrap(pkgerrors.ErrorTypeInternal, "storing blob", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, pkgerrors.HTTPStatus(err))
	assert.False(t, pkgerrors.IsNotFound(err))
}
