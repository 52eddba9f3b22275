package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct error", func(t *testing.T) {
		err := New(CodeNotTrusted, "reporter is not a trusted bank")
		assert.True(t, HasCode(err, CodeNotTrusted))
		assert.False(t, HasCode(err, CodeUnauthorized))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		inner := New(CodeAlreadyPaid, "loan is already marked paid")
		err := fmt.Errorf("mark paid: %w", inner)
		assert.True(t, HasCode(err, CodeAlreadyPaid))
	})

	t.Run("plain errors match nothing", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeDependencyFailed, "trust registry check failed")

	require.Error(t, err)
	assert.True(t, HasCode(err, CodeDependencyFailed))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "trust registry check failed")
}

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeUnauthorized, http.StatusForbidden},
		{CodeNotTrusted, http.StatusForbidden},
		{CodeNotOriginalProvider, http.StatusForbidden},
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodeIndexOutOfBounds, http.StatusNotFound},
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyPaid, http.StatusConflict},
		{CodeDependencyFailed, http.StatusBadGateway},
		{CodeBadRequest, http.StatusBadRequest},
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeInternal, http.StatusInternalServerError},
		{Code("unknown_code"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, ToHTTPStatus(tc.code), "code %s", tc.code)
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, CodeConflict, CodeOf(New(CodeConflict, "duplicate")))
}
