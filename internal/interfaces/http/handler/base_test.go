package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/domain/shared"
	"github.com/loyalty/backend/internal/interfaces/http/dto"
)

func performWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := &BaseHandler{}
	engine.GET("/probe", func(c *gin.Context) {
		h.HandleError(c, err)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
	return w
}

func TestBaseHandler_HandleError(t *testing.T) {
	t.Run("insufficient funds maps to 422 with details", func(t *testing.T) {
		w := performWithError(t, &loyalty.InsufficientFundsError{Balance: 30, Required: 50})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInsufficientBalance, resp.Error.Code)

		details, ok := resp.Error.Details.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(30), details["balance"])
		assert.Equal(t, float64(50), details["required"])
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		w := performWithError(t, shared.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	})

	t.Run("missing tenant context maps to 500", func(t *testing.T) {
		w := performWithError(t, shared.ErrMissingTenantContext)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("invalid credentials map to 401", func(t *testing.T) {
		w := performWithError(t, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("inactive reward maps to 422", func(t *testing.T) {
		w := performWithError(t, shared.NewDomainError("REWARD_INACTIVE", "Reward is not available"))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unknown error maps to 500", func(t *testing.T) {
		w := performWithError(t, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_INTERNAL")
	})
}

func TestCustomerHandler_NotAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewCustomerHandler(nil)
	engine.POST("/customers", h.NotAllowed)
	engine.DELETE("/customers/:id", h.NotAllowed)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/customers"},
		{http.MethodDelete, "/customers/11111111-1111-1111-1111-111111111111"},
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_METHOD_NOT_ALLOWED")
	}
}
