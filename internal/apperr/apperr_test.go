package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("MISSING_FIELD", "weight is required"), http.StatusBadRequest},
		{Unauthorized("invalid credentials"), http.StatusUnauthorized},
		{NotFound("diagnosis not found"), http.StatusNotFound},
		{Conflict("email already exists"), http.StatusConflict},
		{Downstream("classifier failed", errors.New("boom")), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, As(c.err).HTTPStatus(), c.err.Error())
	}
}

func TestAsWrapsUnknownErrorsAsDownstream(t *testing.T) {
	cause := errors.New("connection reset")
	e := As(fmt.Errorf("failed to query: %w", cause))

	assert.Equal(t, KindDownstream, e.Kind)
	assert.Equal(t, http.StatusInternalServerError, e.HTTPStatus())
	assert.ErrorIs(t, e, cause)
}

func TestAsFindsWrappedAppError(t *testing.T) {
	err := fmt.Errorf("create diagnosis: %w", NotFound("user not found"))

	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindValidation))
	assert.Equal(t, "user not found", As(err).Message)
}
