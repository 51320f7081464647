package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAppError_IsSurvivesCopies(t *testing.T) {
	cause := errors.New("row missing")
	err := fmt.Errorf("load: %w", ErrCandidateNotFound.WithError(cause).WithDetails("id=1"))

	assert.True(t, Is(err, ErrCandidateNotFound))
	assert.False(t, Is(err, ErrAssignmentNotFound))
	assert.ErrorIs(t, err, cause)

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode)
	assert.Nil(t, ErrCandidateNotFound.Details)
}

func TestRoleLimitMessage(t *testing.T) {
	err := ErrRoleLimitReached("Manager", 2, 2)
	assert.Equal(t, "Role limit reached for Manager. Current: 2/2", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.HTTPCode)
}

func TestMarshalJSON_HidesCause(t *testing.T) {
	data, err := json.Marshal(InternalError(errors.New("db down")))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "db down")
	assert.Contains(t, string(data), `"domain":"system"`)
}

func serveError(t *testing.T, handler *GinErrorHandler, err error) (int, ErrorResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	handler.HandleGinError(c, err)

	var body struct {
		Message string `json:"message"`
		Error   struct {
			Code    ErrorCode   `json:"code"`
			Message string      `json:"message"`
			Details interface{} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, ErrorResponse{
		Message: body.Message,
		Error:   &AppError{Code: body.Error.Code, Message: body.Error.Message, Details: body.Error.Details},
	}
}

func TestHandleGinError(t *testing.T) {
	code, resp := serveError(t, &GinErrorHandler{}, ErrCandidateLocked)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, ErrCandidateLocked.Message, resp.Message)
	assert.Equal(t, ErrCandidateLocked.Code, resp.Error.Code)

	code, resp = serveError(t, &GinErrorHandler{Debug: false}, errors.New("secret detail"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", resp.Message)
	assert.Nil(t, resp.Error.Details)

	_, resp = serveError(t, &GinErrorHandler{Debug: true}, errors.New("secret detail"))
	assert.Equal(t, "secret detail", resp.Error.Details)
}

func TestValidationErrorDetails(t *testing.T) {
	err := ValidationError(map[string]string{"email": "required"})
	assert.Equal(t, http.StatusBadRequest, err.HTTPCode)
	assert.Equal(t, map[string]string{"email": "required"}, err.Details)
}
