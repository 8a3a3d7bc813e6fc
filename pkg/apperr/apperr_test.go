package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Unauthenticated("x"), http.StatusUnauthorized},
		{apperr.Forbidden("x"), http.StatusForbidden},
		{apperr.NotFound("x"), http.StatusNotFound},
		{apperr.Conflict("x"), http.StatusConflict},
		{apperr.Validation("x"), http.StatusUnprocessableEntity},
		{apperr.Upstream("x", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, apperr.HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("service: %w", apperr.NotFound("franchise not found"))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "franchise not found", apperr.PublicMessage(err))
}

func TestUpstreamHidesCause(t *testing.T) {
	cause := errors.New(`pq: relation "users" does not exist`)
	err := apperr.Upstream("store unavailable", cause)

	assert.Equal(t, "store unavailable", apperr.PublicMessage(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", apperr.PublicMessage(cause))
}

func TestWithCopiesFields(t *testing.T) {
	base := apperr.Upstream("factory failed", nil)
	withURL := base.With("reportUrl", "https://factory/report/1")

	assert.Nil(t, base.Fields)
	assert.Equal(t, map[string]any{"reportUrl": "https://factory/report/1"}, apperr.FieldsOf(withURL))
}
