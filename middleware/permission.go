package middleware

import (
	"net/http"
	"strings"

	"bookkeeping/models"

	"github.com/gin-gonic/gin"
)

// userAllowedAPIs 普通用户可访问的接口，格式 METHOD 路径，路径支持 :param 占位符
var userAllowedAPIs = map[string]bool{
	"GET /api/v1/auth/profile":              true,
	"POST /api/v1/auth/logout":              true,
	"PUT /api/v1/auth/password":             true,
	"GET /api/v1/transactions":              true,
	"POST /api/v1/transactions":             true,
	"GET /api/v1/transactions/:id":          true,
	"PUT /api/v1/transactions/:id":          true,
	"DELETE /api/v1/transactions/:id":       true,
	"POST /api/v1/transactions/:id/link":    true,
	"DELETE /api/v1/transactions/:id/link":  true,
	"GET /api/v1/transactions/:id/metrics":  true,
	"POST /api/v1/transactions/:id/excel":   true,
	"DELETE /api/v1/transactions/:id/excel": true,
	"GET /api/v1/statistics/summary":        true,
	"GET /api/v1/export/excel":              true,
	"POST /api/v1/export/email":             true,
}

// RolePermission 按角色校验接口权限，需在 JWTAuth 之后使用
// 管理员绕过；普通用户只能访问 userAllowedAPIs 中的接口
func RolePermission() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			unauthorized(c, "请先登录")
			return
		}

		if session.Role == models.RoleAdmin {
			c.Next()
			return
		}

		if matchAPIPermission(c.Request.Method, c.Request.URL.Path, userAllowedAPIs) {
			c.Next()
			return
		}

		c.JSON(http.StatusForbidden, gin.H{
			"code":    403,
			"message": "权限不足",
		})
		c.Abort()
	}
}

// matchAPIPermission 检查 method+path 是否匹配任一允许的 pattern
func matchAPIPermission(method, path string, allowed map[string]bool) bool {
	if allowed == nil {
		return false
	}
	path = normalizePath(path)
	for key := range allowed {
		parts := strings.SplitN(key, " ", 2)
		if len(parts) != 2 {
			continue
		}
		if parts[0] != method {
			continue
		}
		if matchPath(path, parts[1]) {
			return true
		}
	}
	return false
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return p
}

// matchPath 检查实际路径是否匹配 pattern
// /api/v1/transactions/abc 匹配 /api/v1/transactions/:id
func matchPath(actual, pattern string) bool {
	a := splitPath(normalizePath(actual))
	p := splitPath(normalizePath(pattern))
	if len(a) != len(p) {
		return false
	}
	for i := range a {
		if len(p[i]) > 0 && p[i][0] == ':' {
			if a[i] == "" {
				return false
			}
			continue
		}
		if a[i] != p[i] {
			return false
		}
	}
	return true
}

func splitPath(s string) []string {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}
