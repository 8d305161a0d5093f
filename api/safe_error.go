package api

import (
	"errors"
	"net/http"

	"bookkeeping/config"
	"bookkeeping/service"

	"github.com/gin-gonic/gin"
)

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// errorStatus 业务错误与 HTTP 状态码的对应关系，按顺序匹配
var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrStoreUnavailable, http.StatusServiceUnavailable},
	{service.ErrPersist, http.StatusInternalServerError},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrNotLinked, http.StatusNotFound},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrProtectedEntity, http.StatusForbidden},
	{service.ErrInvalidOperand, http.StatusUnprocessableEntity},
	{service.ErrLinkConflict, http.StatusConflict},
	{service.ErrDuplicateUsername, http.StatusConflict},
	{service.ErrInvalidTransaction, http.StatusBadRequest},
	{service.ErrInvalidUser, http.StatusBadRequest},
	{service.ErrInvalidDateRange, http.StatusBadRequest},
	{service.ErrInvalidSpreadsheet, http.StatusBadRequest},
	{service.ErrEmailDisabled, http.StatusServiceUnavailable},
}

// statusOf 返回错误对应的状态码，未知错误为 500
func statusOf(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// ServiceError 按业务错误类型响应；4xx 返回错误原文，5xx 经 SafeErrorMessage 处理
func ServiceError(c *gin.Context, err error, fallback string) {
	status := statusOf(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = SafeErrorMessage(err, fallback)
	}
	Error(c, status, message)
}
