package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"bookkeeping/service"

	"github.com/gin-gonic/gin"
)

const (
	maxSpreadsheetSize = 10 << 20
	// maxUploadBody 整个 multipart 请求体的上限，预留表单头部的空间
	maxUploadBody = maxSpreadsheetSize + 1<<20
)

// AttachExcel 上传表格附加到支出
// @Summary 上传支出表格
// @Description 解析上传的 xlsx 第一个工作表（首行为表头），保存为支出记录的表格数据
// @Tags 收支记录
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "支出记录ID"
// @Param file formData file true "xlsx 文件"
// @Success 200 {object} Response{data=TransactionView} "上传成功"
// @Failure 400 {object} Response "文件无效或记录不是支出"
// @Failure 404 {object} Response "记录不存在"
// @Failure 413 {object} Response "文件过大"
// @Router /api/v1/transactions/{id}/excel [post]
func (h *TransactionHandler) AttachExcel(c *gin.Context) {
	tooLarge := fmt.Sprintf("文件不能超过 %dMB", maxSpreadsheetSize>>20)
	if c.Request.ContentLength > maxUploadBody {
		Error(c, http.StatusRequestEntityTooLarge, tooLarge)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)

	file, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			Error(c, http.StatusRequestEntityTooLarge, tooLarge)
			return
		}
		BadRequest(c, "请上传文件")
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".xlsx" && ext != ".xlsm" {
		BadRequest(c, "仅支持 .xlsx 文件")
		return
	}
	if file.Size > maxSpreadsheetSize {
		BadRequest(c, tooLarge)
		return
	}

	f, err := file.Open()
	if err != nil {
		BadRequest(c, "读取文件失败")
		return
	}
	defer f.Close()

	rows, err := service.ParseSheet(f)
	if err != nil {
		ServiceError(c, err, "解析表格失败")
		return
	}

	id := c.Param("id")
	if err := h.repo.AttachExcel(c.Request.Context(), id, rows); err != nil {
		ServiceError(c, err, "保存表格数据失败")
		return
	}
	tx, err := h.repo.Get(id)
	if err != nil {
		ServiceError(c, err, "保存表格数据失败")
		return
	}
	SuccessWithMessage(c, fmt.Sprintf("已导入 %d 行", len(rows)), h.view(*tx, false))
}

// DetachExcel 清除支出上的表格数据
// @Summary 删除支出表格
// @Tags 收支记录
// @Produce json
// @Security BearerAuth
// @Param id path string true "支出记录ID"
// @Success 200 {object} Response "已删除"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id}/excel [delete]
func (h *TransactionHandler) DetachExcel(c *gin.Context) {
	if err := h.repo.AttachExcel(c.Request.Context(), c.Param("id"), nil); err != nil {
		ServiceError(c, err, "删除表格数据失败")
		return
	}
	SuccessWithMessage(c, "已删除", nil)
}
