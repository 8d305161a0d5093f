package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Response 通用响应结构，code 与 HTTP 状态码一致
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	List     interface{} `json:"list"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	SuccessWithMessage(c, "success", data)
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: message, Data: data})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{Code: code, Message: message})
}

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// InternalError 500
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// paginate 未传 page 时返回 ok=false，由调用方返回完整列表
// page_size 缺省 10，超出 1..100 时按 10 处理
func paginate[T any](c *gin.Context, list []T) (PageResponse, bool) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page <= 0 {
		return PageResponse{}, false
	}
	pageSize, err := strconv.Atoi(c.Query("page_size"))
	if err != nil || pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	start := min((page-1)*pageSize, len(list))
	end := min(start+pageSize, len(list))
	return PageResponse{
		Total:    int64(len(list)),
		Page:     page,
		PageSize: pageSize,
		List:     list[start:end],
	}, true
}
