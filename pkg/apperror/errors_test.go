package apperror

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code   Code
		status int
		show   bool
	}{
		{CodeValidation, http.StatusBadRequest, true},
		{CodeUnauthorized, http.StatusUnauthorized, true},
		{CodeForbidden, http.StatusForbidden, true},
		{CodeNotFound, http.StatusNotFound, true},
		{CodeConflict, http.StatusForbidden, true},
		{CodeStateConflict, http.StatusConflict, true},
		{CodeDependency, http.StatusServiceUnavailable, false},
		{CodeInternal, http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		require.Equal(t, tt.status, meta.HTTPStatus, "code %s", tt.code)
		require.Equal(t, tt.show, meta.ShowMessage, "code %s", tt.code)
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	require.Equal(t, http.StatusInternalServerError, MetadataFor("SOMETHING_ELSE").HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "upload failed")

	require.ErrorIs(t, wrapped, cause)
	require.Equal(t, CodeDependency, wrapped.Code())
	require.Equal(t, "upload failed: boom", wrapped.Error())
}

func TestAsFindsTypedErrorThroughFmtWrap(t *testing.T) {
	base := NotFound("seller not found")
	err := fmt.Errorf("lookup: %w", base)

	typed := As(err)
	require.NotNil(t, typed)
	require.Equal(t, CodeNotFound, typed.Code())
	require.True(t, Is(err, CodeNotFound))
	require.False(t, Is(err, CodeConflict))
	require.Nil(t, As(stdErrors.New("plain")))
}

func TestWithDetails(t *testing.T) {
	err := Validation("invalid payload").WithDetails(map[string]string{"email": "is required"})
	require.Equal(t, map[string]string{"email": "is required"}, err.Details())
}
