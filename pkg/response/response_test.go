package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anycompany/carmarket/pkg/apperror"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "rid-1")
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFromError_TypedError(t *testing.T) {
	c, rec := newContext()
	FromError(c, nil, apperror.NotFound("Buyer not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, c.IsAborted())
	body := decode(t, rec)
	assert.Equal(t, "Buyer not found", body["message"])
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "rid-1", body["request_id"])
	assert.Equal(t, false, body["success"])
}

func TestFromError_ConflictIsForbidden(t *testing.T) {
	c, rec := newContext()
	FromError(c, nil, apperror.Conflict("A user with this email address already exists"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "A user with this email address already exists", decode(t, rec)["message"])
}

func TestFromError_ValidationDetails(t *testing.T) {
	c, rec := newContext()
	FromError(c, nil, apperror.Validation("validation failed").WithDetails(map[string]string{"email": "invalid"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, map[string]any{"email": "invalid"}, body["error"])
}

func TestFromError_UntypedHidesMessage(t *testing.T) {
	c, rec := newContext()
	FromError(c, nil, errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "internal server error", body["message"])
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestFromError_DependencyHidesCause(t *testing.T) {
	c, rec := newContext()
	FromError(c, nil, apperror.Wrap(apperror.CodeDependency, errors.New("dial tcp"), "upload failed"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "dependency unavailable", decode(t, rec)["message"])
}

func TestSuccessEnvelope(t *testing.T) {
	c, _ := newContext()
	env := Success(c, 0, gin.H{"ok": true}, "done", nil)
	assert.Equal(t, http.StatusOK, env.Status)
	assert.True(t, env.Success)
	assert.Equal(t, "rid-1", env.RequestID)
}
