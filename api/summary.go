package api

import (
	"bookkeeping/service"

	"github.com/gin-gonic/gin"
)

// Summary 收支汇总
// @Summary 收支汇总
// @Description 区间内总收入、总支出、利润、利润率与月均利润率（百分比，保留两位小数）
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "开始日期 (2024-01-01)"
// @Param end_date query string false "结束日期 (2024-12-31)"
// @Param recent query bool false "未指定日期时取最近六个月"
// @Success 200 {object} Response{data=service.Summary} "获取成功"
// @Failure 400 {object} Response "日期参数错误"
// @Router /api/v1/statistics/summary [get]
func (h *TransactionHandler) Summary(c *gin.Context) {
	if err := h.ensureLoaded(c); err != nil {
		ServiceError(c, err, "加载收支记录失败")
		return
	}
	rng, err := parseDateRange(c)
	if err != nil {
		ServiceError(c, err, "日期参数错误")
		return
	}
	Success(c, service.Summarize(h.repo.All(), rng).Round(2))
}
