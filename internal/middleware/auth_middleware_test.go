package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave/internal/auth"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Minute)
	employeeID := uuid.NewString()
	token, err := tokens.Issue(employeeID, "MANAGER")
	require.NoError(t, err)

	r := setupRouter()
	r.GET("/me", middleware.AuthMiddleware(tokens), func(c *gin.Context) {
		actor, ok := contextutil.GetActor(c.Request.Context())
		assert.True(t, ok)
		assert.Equal(t, c.GetString(middleware.ContextEmployeeID), actor.EmployeeID)
		c.String(http.StatusOK, c.GetString(middleware.ContextEmployeeID)+"|"+c.GetString(middleware.ContextRole))
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, employeeID+"|MANAGER", w.Body.String())
	})

	t.Run("cookie fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token not found")
	})

	t.Run("foreign signature", func(t *testing.T) {
		other, err := auth.NewTokenService("another-secret", time.Minute).Issue(employeeID, "HR_ADMIN")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+other)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token")
	})
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		role       string
		wantStatus int
	}{
		{role: "HR_ADMIN", wantStatus: http.StatusOK},
		{role: "MANAGER", wantStatus: http.StatusOK},
		{role: "EMPLOYEE", wantStatus: http.StatusForbidden},
		{role: "", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run("role "+tt.role, func(t *testing.T) {
			r := setupRouter()
			r.GET("/team",
				func(c *gin.Context) { c.Set(middleware.ContextRole, tt.role) },
				middleware.RoleMiddleware("HR_ADMIN", "MANAGER"),
				func(c *gin.Context) { c.Status(http.StatusOK) },
			)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/team", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	r := setupRouter()
	r.Use(middleware.RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	t.Run("propagates incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.HeaderRequestID, "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Body.String())
		assert.Equal(t, "req-123", w.Header().Get(middleware.HeaderRequestID))
	})

	t.Run("generates one", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		_, err := uuid.Parse(w.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, w.Body.String(), w.Header().Get(middleware.HeaderRequestID))
	})
}
