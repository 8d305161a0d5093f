package api

import (
	"fmt"

	"bookkeeping/middleware"
	"bookkeeping/models"
	"bookkeeping/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler 收支记录处理器
type TransactionHandler struct {
	repo      *service.Repository
	refresher *service.Refresher
}

// NewTransactionHandler 创建收支记录处理器
func NewTransactionHandler(repo *service.Repository, refresher *service.Refresher) *TransactionHandler {
	return &TransactionHandler{repo: repo, refresher: refresher}
}

// TransactionRequest 创建/更新收支记录请求
type TransactionRequest struct {
	Type        string          `json:"type" binding:"required,oneof=income expense" example:"expense"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"number" example:"1000.00"`
	Date        string          `json:"date" binding:"required" example:"2024-01-01"`
	Category    string          `json:"category" example:"采购"`
	Description string          `json:"description" example:"一季度采购"`
	// 仅收入可填；不传保持原关联，传空串解除关联
	LinkedExpenseID *string `json:"linked_expense_id" example:""`
}

// TransactionView 收支记录及其关联状态
type TransactionView struct {
	models.Transaction
	LinkState   service.LinkState `json:"link_state"`
	RecoveredBy string            `json:"recovered_by,omitempty"`
	Metrics     *service.Metrics  `json:"metrics,omitempty"`
}

func (r *TransactionRequest) toModel() (models.Transaction, error) {
	date, err := models.ParseDate(r.Date)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%w: 日期格式错误，应为: 2006-01-02", service.ErrInvalidTransaction)
	}
	return models.Transaction{
		Type:            models.TransactionType(r.Type),
		Amount:          r.Amount,
		Date:            date,
		Category:        r.Category,
		Description:     r.Description,
		LinkedExpenseID: r.LinkedExpenseID,
	}, nil
}

func (h *TransactionHandler) view(tx models.Transaction, withMetrics bool) TransactionView {
	v := TransactionView{Transaction: tx, LinkState: service.Unlinked}
	if state, err := h.repo.LinkState(tx.ID); err == nil {
		v.LinkState = state
	}
	if tx.IsExpense() {
		if inc, ok := h.repo.LinkedIncome(tx.ID); ok {
			v.RecoveredBy = inc.ID
			if withMetrics {
				if m, err := service.Calculate(tx, *inc); err == nil {
					m = m.Round(2)
					v.Metrics = &m
				}
			}
		}
	}
	return v
}

func (h *TransactionHandler) views(txs []models.Transaction) []TransactionView {
	out := make([]TransactionView, len(txs))
	for i, tx := range txs {
		out[i] = h.view(tx, false)
	}
	return out
}

// List 获取收支记录列表
// @Summary 获取收支记录列表
// @Description 按日期区间（含两端）与类型筛选收支记录，可选分页
// @Tags 收支记录
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "开始日期 (2024-01-01)"
// @Param end_date query string false "结束日期 (2024-12-31)"
// @Param type query string false "类型 income/expense"
// @Param recent query bool false "未指定日期时取最近六个月"
// @Param refresh query bool false "先从存储重新加载"
// @Param page query int false "页码，不传返回全部"
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} Response{data=[]TransactionView} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 503 {object} Response "存储不可用"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	if c.Query("refresh") == "true" {
		if err := h.refresher.Refresh(c.Request.Context()); err != nil {
			ServiceError(c, err, "加载收支记录失败")
			return
		}
	} else if err := h.ensureLoaded(c); err != nil {
		ServiceError(c, err, "加载收支记录失败")
		return
	}

	rng, err := parseDateRange(c)
	if err != nil {
		ServiceError(c, err, "日期参数错误")
		return
	}
	typ, err := parseType(c)
	if err != nil {
		ServiceError(c, err, "类型参数错误")
		return
	}

	list := h.views(service.Filter(h.repo.All(), rng, typ))

	if page, ok := paginate(c, list); ok {
		Success(c, page)
		return
	}
	Success(c, list)
}

// Get 获取单条收支记录
// @Summary 获取收支记录详情
// @Description 获取单条记录；已被收回的支出附带收益指标
// @Tags 收支记录
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录ID"
// @Success 200 {object} Response{data=TransactionView} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	if err := h.ensureLoaded(c); err != nil {
		ServiceError(c, err, "加载收支记录失败")
		return
	}
	tx, err := h.repo.Get(c.Param("id"))
	if err != nil {
		ServiceError(c, err, "获取收支记录失败")
		return
	}
	Success(c, h.view(*tx, true))
}

// Create 创建收支记录
// @Summary 创建收支记录
// @Description 创建一条收入或支出，返回重新加载后的全部记录
// @Tags 收支记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "收支记录"
// @Success 200 {object} Response{data=[]TransactionView} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "关联的支出不存在"
// @Failure 409 {object} Response "支出已被其他收入关联"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	tx, err := req.toModel()
	if err != nil {
		ServiceError(c, err, "参数错误")
		return
	}

	all, err := h.repo.Create(c.Request.Context(), middleware.GetCurrentUserID(c), tx)
	if err != nil {
		ServiceError(c, err, "创建收支记录失败")
		return
	}
	SuccessWithMessage(c, "创建成功", h.views(all))
}

// Update 更新收支记录
// @Summary 更新收支记录
// @Description 按ID覆盖记录，类型不可修改；ID 不存在时新建
// @Tags 收支记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录ID"
// @Param request body TransactionRequest true "收支记录"
// @Success 200 {object} Response{data=TransactionView} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "支出已被其他收入关联"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if err := h.ensureLoaded(c); err != nil {
		ServiceError(c, err, "加载收支记录失败")
		return
	}
	tx, err := req.toModel()
	if err != nil {
		ServiceError(c, err, "参数错误")
		return
	}
	tx.ID = c.Param("id")
	tx.UserID = middleware.GetCurrentUserID(c)

	// 表格数据通过单独接口维护；未传关联字段时保持原关联
	if existing, err := h.repo.Get(tx.ID); err == nil {
		tx.ExcelData = existing.ExcelData
		if req.LinkedExpenseID == nil {
			tx.LinkedExpenseID = existing.LinkedExpenseID
		}
	}

	if err := h.repo.Update(c.Request.Context(), tx); err != nil {
		ServiceError(c, err, "更新收支记录失败")
		return
	}
	updated, err := h.repo.Get(tx.ID)
	if err != nil {
		ServiceError(c, err, "更新收支记录失败")
		return
	}
	SuccessWithMessage(c, "更新成功", h.view(*updated, false))
}

// Delete 删除收支记录
// @Summary 删除收支记录
// @Description 删除记录；删除已被收回的支出时同时解除收入上的关联
// @Tags 收支记录
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err, "删除收支记录失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// ensureLoaded 缓存未加载时先加载一次
func (h *TransactionHandler) ensureLoaded(c *gin.Context) error {
	if h.repo.Loaded() {
		return nil
	}
	return h.refresher.Refresh(c.Request.Context())
}

// parseDateRange 解析 start_date/end_date；recent=true 且未指定日期时取最近六个月
func parseDateRange(c *gin.Context) (service.DateRange, error) {
	start, end := c.Query("start_date"), c.Query("end_date")
	if start == "" && end == "" && c.Query("recent") == "true" {
		return service.DefaultDateRange(), nil
	}
	return service.ParseDateRange(start, end)
}

func parseType(c *gin.Context) (*models.TransactionType, error) {
	return parseTypeValue(c.Query("type"))
}

func parseTypeValue(raw string) (*models.TransactionType, error) {
	if raw == "" {
		return nil, nil
	}
	typ := models.TransactionType(raw)
	if !typ.IsValid() {
		return nil, fmt.Errorf("%w: 未知的交易类型 %q", service.ErrInvalidTransaction, raw)
	}
	return &typ, nil
}
