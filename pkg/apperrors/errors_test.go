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

func TestIs_MatchesCopiesOfSentinels(t *testing.T) {
	detailed := ErrCategoryNotFound.WithDetails(map[string]string{"id": "x"})
	assert.True(t, Is(detailed, ErrCategoryNotFound))

	wrapped := fmt.Errorf("lookup: %w", ErrCategoryNotFound.WithError(errors.New("boom")))
	assert.True(t, Is(wrapped, ErrCategoryNotFound))

	assert.False(t, Is(ErrCategoryNotFound, ErrSubcategoryNotFound))
	assert.Nil(t, ErrCategoryNotFound.Details, "WithDetails must not touch the sentinel")
}

func render(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	HandleError(c, err)
	return w
}

func TestHandleError_RendersAppError(t *testing.T) {
	w := render(ErrDuplicateCategorySlug)
	assert.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Domain  string `json:"domain"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, string(CodeAlreadyExists), body.Error.Code)
	assert.Equal(t, DomainCategory, body.Error.Domain)
}

func TestHandleError_HidesInternalCauses(t *testing.T) {
	w := render(errors.New("mongo: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestValidationError_CarriesDetails(t *testing.T) {
	w := render(ValidationError(map[string]string{"slug": "required"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"required"`)
}
