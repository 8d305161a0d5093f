package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"bookkeeping/models"
	"bookkeeping/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxSessionKey = "session"
	ctxUserIDKey  = "userID"
)

// Claims JWT 载荷，SessionID 指向服务端会话
type Claims struct {
	SessionID string `json:"sid"`
	UserID    string `json:"uid"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// JWT 令牌签发与校验
type JWT struct {
	secret []byte
	expire time.Duration
}

// NewJWT 创建令牌签发器
func NewJWT(secret string, expire time.Duration) *JWT {
	return &JWT{secret: []byte(secret), expire: expire}
}

// GenerateToken 为会话签发令牌，过期时间与会话一致
func (j *JWT) GenerateToken(s service.Session) (string, error) {
	claims := Claims{
		SessionID: s.ID,
		UserID:    s.UserID,
		Username:  s.Username,
		Role:      s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			Issuer:    "bookkeeping",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// Expire 令牌有效期
func (j *JWT) Expire() time.Duration {
	return j.expire
}

// ParseToken 解析并校验令牌
func (j *JWT) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("不支持的签名算法")
		}
		return j.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("无效的令牌")
	}
	return claims, nil
}

// JWTAuth 校验 Bearer 令牌，且令牌对应的会话必须仍然有效（未登出、未过期）
func JWTAuth(j *JWT, sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "未提供认证令牌")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			unauthorized(c, "认证令牌格式错误")
			return
		}

		claims, err := j.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			unauthorized(c, "认证令牌无效或已过期")
			return
		}

		session, err := sessions.Get(c.Request.Context(), claims.SessionID)
		if err != nil || session.UserID != claims.UserID {
			unauthorized(c, "登录已失效，请重新登录")
			return
		}

		c.Set(ctxSessionKey, session)
		c.Set(ctxUserIDKey, session.UserID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": message})
	c.Abort()
}

// GetCurrentUserID 获取当前登录用户ID，未登录返回空串
func GetCurrentUserID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}

// GetSession 获取当前会话
func GetSession(c *gin.Context) (service.Session, bool) {
	v, ok := c.Get(ctxSessionKey)
	if !ok {
		return service.Session{}, false
	}
	s, ok := v.(service.Session)
	return s, ok
}

// IsAdmin 当前用户是否为管理员
func IsAdmin(c *gin.Context) bool {
	s, ok := GetSession(c)
	return ok && s.Role == models.RoleAdmin
}
