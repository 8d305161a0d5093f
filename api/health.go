package api

import (
	"net/http"
	"time"

	"bookkeeping/service"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查
type HealthHandler struct {
	repo    *service.Repository
	version string
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(repo *service.Repository, version string) *HealthHandler {
	return &HealthHandler{repo: repo, version: version}
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{} "服务正常"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"version":      h.version,
		"ledger_ready": h.repo.Loaded(),
		"time":         time.Now().Format(time.RFC3339),
	})
}
