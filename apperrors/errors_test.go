package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{InvalidArgument("bad input"), http.StatusBadRequest},
		{Conflict("already exists"), http.StatusBadRequest},
		{InvalidState("not pending"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("not yours"), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{Internal("boom", errors.New("db down")), http.StatusInternalServerError},
		{Upstream("nominatim", errors.New("403")), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), "error: %v", tc.err)
	}
}

func TestUserMessageElidesInternals(t *testing.T) {
	assert.Equal(t, "missing", UserMessage(NotFound("missing")))
	assert.Equal(t, "Internal server error", UserMessage(Internal("boom", errors.New("db down"))))
	assert.Equal(t, "Internal server error", UserMessage(errors.New("raw")))
}

func TestIsKindUnwraps(t *testing.T) {
	wrapped := &Error{Kind: KindConflict, Message: "dup", Err: errors.New("unique violation")}

	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindConflict))
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Internal("query failed", errors.New("timeout"))
	assert.Equal(t, "query failed: timeout", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "timeout")
}
