package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"bookkeeping/middleware"
	"bookkeeping/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出处理器
type ExportHandler struct {
	repo     *service.Repository
	email    *service.EmailService
	currency string
}

// NewExportHandler 创建导出处理器
func NewExportHandler(repo *service.Repository, email *service.EmailService, currency string) *ExportHandler {
	return &ExportHandler{repo: repo, email: email, currency: currency}
}

// EmailReportRequest 邮件报表请求
type EmailReportRequest struct {
	To        string `json:"to" binding:"required,email" example:"boss@example.com"`
	StartDate string `json:"start_date" example:"2024-01-01"`
	EndDate   string `json:"end_date" example:"2024-12-31"`
	Type      string `json:"type" binding:"omitempty,oneof=income expense" example:""`
}

// workbook 按区间与类型筛选记录并生成工作簿
func (h *ExportHandler) workbook(c *gin.Context, rng service.DateRange, typeQuery string) ([]byte, service.Summary, error) {
	if !h.repo.Loaded() {
		if _, err := h.repo.FetchAll(c.Request.Context()); err != nil {
			return nil, service.Summary{}, err
		}
	}
	typ, err := parseTypeValue(typeQuery)
	if err != nil {
		return nil, service.Summary{}, err
	}

	all := h.repo.All()
	list := service.Filter(all, rng, typ)
	summary := service.Summarize(all, rng)

	var buf bytes.Buffer
	if err := service.ExportWorkbook(&buf, list, summary, h.currency); err != nil {
		return nil, service.Summary{}, err
	}
	return buf.Bytes(), summary, nil
}

func workbookName(s service.Summary) string {
	if s.Start.IsZero() || s.End.IsZero() {
		return "收支记录_全部.xlsx"
	}
	return fmt.Sprintf("收支记录_%s_%s.xlsx", s.Start, s.End)
}

// ExportExcel 导出收支记录为 Excel
// @Summary 导出 Excel
// @Description 按日期区间与类型导出收支记录，末行为汇总
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query string false "开始日期 (2024-01-01)"
// @Param end_date query string false "结束日期 (2024-12-31)"
// @Param type query string false "类型 income/expense"
// @Success 200 {file} file "xlsx 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	rng, err := parseDateRange(c)
	if err != nil {
		ServiceError(c, err, "日期参数错误")
		return
	}
	data, summary, err := h.workbook(c, rng, c.Query("type"))
	if err != nil {
		ServiceError(c, err, "生成 Excel 失败")
		return
	}

	filename := url.PathEscape(workbookName(summary))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// EmailReport 发送收支报表邮件
// @Summary 邮件发送报表
// @Description 生成区间内的收支工作簿，作为附件发送到指定邮箱
// @Tags 导出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EmailReportRequest true "收件人与区间"
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 503 {object} Response "邮件服务未启用"
// @Router /api/v1/export/email [post]
func (h *ExportHandler) EmailReport(c *gin.Context) {
	var req EmailReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if !h.email.Enabled() {
		ServiceError(c, service.ErrEmailDisabled, "邮件服务未启用")
		return
	}
	rng, err := service.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		ServiceError(c, err, "日期参数错误")
		return
	}

	data, summary, err := h.workbook(c, rng, req.Type)
	if err != nil {
		ServiceError(c, err, "生成 Excel 失败")
		return
	}

	username := ""
	if s, ok := middleware.GetSession(c); ok {
		username = s.Username
	}
	att := &service.Attachment{Filename: workbookName(summary), Data: data}
	if err := h.email.SendLedgerReport(req.To, username, summary, h.currency, att); err != nil {
		InternalError(c, SafeErrorMessage(err, "发送邮件失败"))
		return
	}
	SuccessWithMessage(c, fmt.Sprintf("报表已发送至 %s（%s）", req.To, time.Now().Format("2006-01-02 15:04")), nil)
}

// TestEmail 发送测试邮件
// @Summary 发送测试邮件
// @Description 向当前配置的发件邮箱发送测试邮件（仅管理员）
// @Tags 导出
// @Produce json
// @Security BearerAuth
// @Param to query string true "收件人"
// @Success 200 {object} Response "发送成功"
// @Failure 503 {object} Response "邮件服务未启用"
// @Router /api/v1/export/email/test [post]
func (h *ExportHandler) TestEmail(c *gin.Context) {
	to := c.Query("to")
	if to == "" {
		BadRequest(c, "请提供收件人")
		return
	}
	if err := h.email.SendTestEmail(to); err != nil {
		ServiceError(c, err, "发送邮件失败")
		return
	}
	SuccessWithMessage(c, "测试邮件已发送", nil)
}
