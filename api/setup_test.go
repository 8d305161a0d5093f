package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"bookkeeping/config"
	"bookkeeping/database"
	"bookkeeping/middleware"
	"bookkeeping/models"
	"bookkeeping/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router    *gin.Engine
	txStore   *database.MemoryTransactionStore
	repo      *service.Repository
	directory *service.Directory
	sessions  *service.SessionManager
	jwt       *middleware.JWT
}

// newTestEnv 内存存储 + 全部处理器，路由与线上一致
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		txStore:  database.NewMemoryTransactionStore(),
		sessions: service.NewSessionManager(time.Hour, nil),
		jwt:      middleware.NewJWT("test-secret", time.Hour),
	}
	env.directory = service.NewDirectory(database.NewMemoryUserStore())
	require.NoError(t, env.directory.EnsureDefaults(context.Background()))
	env.repo = service.NewRepository(env.txStore, nil)
	refresher := service.NewRefresher(env.repo, time.Minute)

	auth := NewAuthHandler(env.directory, env.sessions, env.jwt)
	txs := NewTransactionHandler(env.repo, refresher)
	export := NewExportHandler(env.repo, service.NewEmailService(&config.EmailConfig{}), "CNY")
	users := NewUserHandler(env.directory, env.sessions)

	r := gin.New()
	r.GET("/health", NewHealthHandler(env.repo, "test").Health)
	r.POST("/api/v1/auth/login", auth.Login)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(env.jwt, env.sessions), middleware.RolePermission())
	v1.POST("/auth/logout", auth.Logout)
	v1.GET("/auth/profile", auth.GetProfile)
	v1.PUT("/auth/password", auth.ChangePassword)

	v1.GET("/transactions", txs.List)
	v1.POST("/transactions", txs.Create)
	v1.GET("/transactions/:id", txs.Get)
	v1.PUT("/transactions/:id", txs.Update)
	v1.DELETE("/transactions/:id", txs.Delete)
	v1.POST("/transactions/:id/link", txs.Link)
	v1.DELETE("/transactions/:id/link", txs.Unlink)
	v1.GET("/transactions/:id/metrics", txs.Metrics)
	v1.POST("/transactions/:id/excel", txs.AttachExcel)
	v1.DELETE("/transactions/:id/excel", txs.DetachExcel)
	v1.GET("/statistics/summary", txs.Summary)
	v1.GET("/export/excel", export.ExportExcel)
	v1.POST("/export/email", export.EmailReport)

	v1.GET("/users", users.ListUsers)
	v1.POST("/users", users.CreateUser)
	v1.PUT("/users/:id", users.UpdateUser)
	v1.DELETE("/users/:id", users.DeleteUser)

	env.router = r
	return env
}

// token 直接为用户创建会话并签发 token
func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	user, err := e.directory.Get(context.Background(), userID)
	require.NoError(t, err)
	session, err := e.sessions.Create(context.Background(), user)
	require.NoError(t, err)
	tok, err := e.jwt.GenerateToken(session)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) request(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	if body == "" {
		return e.request(method, path, token, nil, "")
	}
	return e.request(method, path, token, bytes.NewBufferString(body), "application/json")
}

// seed 直接写入存储，绕过校验
func (e *testEnv) seed(t *testing.T, txs ...models.Transaction) {
	t.Helper()
	for i := range txs {
		require.NoError(t, e.txStore.Put(context.Background(), &txs[i]))
	}
}

type testResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}
