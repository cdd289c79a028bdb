package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code   Code
		status int
		kind   string
	}{
		{BadRequest, http.StatusBadRequest, "validation_error"},
		{PermissionDenied, http.StatusForbidden, "forbidden"},
		{NotFound, http.StatusNotFound, "not_found"},
		{ContentFlagged, http.StatusConflict, "content_flagged"},
		{Conflict, http.StatusConflict, "conflict"},
		{Unknown.Code, http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			require.Equal(t, tt.status, tt.code.HTTPStatus())
			require.Equal(t, tt.kind, tt.code.Kind())
		})
	}
}

func TestFrom(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(NotFound, "Not found question"))
	require.True(t, Is(err, NotFound))
	require.Equal(t, "Not found question", From(err).Message)

	require.Equal(t, Unknown, From(errors.New("raw")))
	require.False(t, Is(errors.New("raw"), NotFound))
}
