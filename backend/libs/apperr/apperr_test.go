package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelsMatchByKind(t *testing.T) {
	err := Conflict("table %s already has an active session", "A")

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "table A already has an active session", err.Error())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("repo: %w", Wrap(KindNotFound, cause, "session not found"))

	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "session not found", Message(err))
	assert.Nil(t, Wrap(KindNotFound, nil, "ignored"))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Conflict("dup"), http.StatusConflict},
		{InvalidState("stopped"), http.StatusConflict},
		{NotFound("missing"), http.StatusNotFound},
		{Configuration("negative rate"), http.StatusUnprocessableEntity},
		{Unauthorized("token"), http.StatusUnauthorized},
		{Forbidden("capability"), http.StatusForbidden},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestMessageHidesUntaggedErrors(t *testing.T) {
	assert.Equal(t, "internal error", Message(errors.New("pq: relation missing")))
	assert.Equal(t, "validation", Message(ErrValidation))
}
