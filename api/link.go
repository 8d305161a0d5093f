package api

import (
	"github.com/gin-gonic/gin"
)

// LinkRequest 关联请求
type LinkRequest struct {
	ExpenseID string `json:"expense_id" binding:"required" example:"2"`
}

// Link 关联收入与其收回的支出
// @Summary 关联支出
// @Description 将收入关联到它收回的支出；一条支出只能被一条收入关联，重复关联同一对视为成功
// @Tags 收支关联
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "收入记录ID"
// @Param request body LinkRequest true "被收回的支出"
// @Success 200 {object} Response{data=TransactionView} "关联成功"
// @Failure 400 {object} Response "关联目标不是支出"
// @Failure 404 {object} Response "记录不存在"
// @Failure 409 {object} Response "支出已被其他收入关联"
// @Router /api/v1/transactions/{id}/link [post]
func (h *TransactionHandler) Link(c *gin.Context) {
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	incomeID := c.Param("id")
	if err := h.repo.Link(c.Request.Context(), incomeID, req.ExpenseID); err != nil {
		ServiceError(c, err, "关联支出记录失败")
		return
	}
	income, err := h.repo.Get(incomeID)
	if err != nil {
		ServiceError(c, err, "关联支出记录失败")
		return
	}
	SuccessWithMessage(c, "关联成功", h.view(*income, false))
}

// Unlink 解除收入的关联
// @Summary 取消关联
// @Description 解除收入上的支出关联，未关联时直接成功
// @Tags 收支关联
// @Produce json
// @Security BearerAuth
// @Param id path string true "收入记录ID"
// @Success 200 {object} Response "已取消关联"
// @Failure 404 {object} Response "收入记录不存在"
// @Router /api/v1/transactions/{id}/link [delete]
func (h *TransactionHandler) Unlink(c *gin.Context) {
	if err := h.repo.Unlink(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err, "取消关联支出记录失败")
		return
	}
	SuccessWithMessage(c, "已取消关联", nil)
}

// Metrics 支出的收益指标
// @Summary 收益指标
// @Description 计算支出与收回它的收入之间的收回金额、未收回金额、收益率、月数与月化收益率（百分比，保留两位小数）
// @Tags 收支关联
// @Produce json
// @Security BearerAuth
// @Param id path string true "支出记录ID"
// @Success 200 {object} Response{data=service.Metrics} "计算成功"
// @Failure 400 {object} Response "记录不是支出"
// @Failure 404 {object} Response "记录不存在或未被收回"
// @Failure 422 {object} Response "支出金额为 0"
// @Router /api/v1/transactions/{id}/metrics [get]
func (h *TransactionHandler) Metrics(c *gin.Context) {
	if err := h.ensureLoaded(c); err != nil {
		ServiceError(c, err, "加载收支记录失败")
		return
	}
	m, err := h.repo.Metrics(c.Param("id"))
	if err != nil {
		ServiceError(c, err, "计算收益指标失败")
		return
	}
	Success(c, m.Round(2))
}
