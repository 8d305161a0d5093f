package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookkeeping/models"
	"bookkeeping/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMatchPath(t *testing.T) {
	tests := []struct {
		actual   string
		pattern  string
		expected bool
	}{
		{"/api/v1/transactions", "/api/v1/transactions", true},
		{"/api/v1/transactions/123", "/api/v1/transactions", false},
		{"/api/v1/transactions/abc", "/api/v1/transactions/:id", true},
		{"/api/v1/transactions/", "/api/v1/transactions/:id", false},
		{"/api/v1/transactions/abc/link", "/api/v1/transactions/:id/link", true},
		{"/api/v1/transactions/abc/metrics", "/api/v1/transactions/:id/link", false},
		{"api/v1/users", "/api/v1/users", true},
	}
	for _, tt := range tests {
		got := matchPath(tt.actual, tt.pattern)
		assert.Equalf(t, tt.expected, got, "matchPath(%q, %q)", tt.actual, tt.pattern)
	}
}

func TestMatchAPIPermission(t *testing.T) {
	assert.True(t, matchAPIPermission("GET", "/api/v1/transactions/x/metrics", userAllowedAPIs))
	assert.False(t, matchAPIPermission("PATCH", "/api/v1/transactions/x", userAllowedAPIs))
	assert.False(t, matchAPIPermission("GET", "/api/v1/users", userAllowedAPIs))
	assert.False(t, matchAPIPermission("GET", "/api/v1/transactions", nil))
}

func TestRolePermission(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(session *service.Session) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if session != nil {
				c.Set(ctxSessionKey, *session)
			}
			c.Next()
		}, RolePermission())
		r.GET("/api/v1/users", func(c *gin.Context) { c.String(200, "users") })
		r.GET("/api/v1/transactions", func(c *gin.Context) { c.String(200, "list") })
		return r
	}

	do := func(r *gin.Engine, path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		return w.Code
	}

	admin := newRouter(&service.Session{UserID: "1", Role: models.RoleAdmin})
	assert.Equal(t, 200, do(admin, "/api/v1/users"))

	user := newRouter(&service.Session{UserID: "2", Role: models.RoleUser})
	assert.Equal(t, 200, do(user, "/api/v1/transactions"))
	assert.Equal(t, http.StatusForbidden, do(user, "/api/v1/users"))

	anon := newRouter(nil)
	assert.Equal(t, http.StatusUnauthorized, do(anon, "/api/v1/transactions"))
}
