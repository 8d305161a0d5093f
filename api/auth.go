package api

import (
	"errors"

	"bookkeeping/middleware"
	"bookkeeping/models"
	"bookkeeping/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	directory *service.Directory
	sessions  *service.SessionManager
	jwt       *middleware.JWT
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(directory *service.Directory, sessions *service.SessionManager, jwt *middleware.JWT) *AuthHandler {
	return &AuthHandler{directory: directory, sessions: sessions, jwt: jwt}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expires_at"`
	UserInfo  models.User `json:"user_info"`
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验用户名密码，创建会话并返回 JWT token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "用户名或密码错误"
// @Failure 429 {object} Response "登录尝试过于频繁"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	user, err := h.directory.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			Unauthorized(c, "用户名或密码错误")
			return
		}
		ServiceError(c, err, "登录失败")
		return
	}

	session, err := h.sessions.Create(c.Request.Context(), user)
	if err != nil {
		ServiceError(c, err, "创建会话失败")
		return
	}
	token, err := h.jwt.GenerateToken(session)
	if err != nil {
		_ = h.sessions.Destroy(c.Request.Context(), session.ID)
		InternalError(c, "生成 token 失败")
		return
	}

	Success(c, LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt.Format("2006-01-02 15:04:05"),
		UserInfo:  *user,
	})
}

// Logout 退出登录
// @Summary 退出登录
// @Description 销毁当前会话，token 随之失效
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "已退出登录"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if s, ok := middleware.GetSession(c); ok {
		if err := h.sessions.Destroy(c.Request.Context(), s.ID); err != nil {
			ServiceError(c, err, "退出登录失败")
			return
		}
	}
	SuccessWithMessage(c, "已退出登录", nil)
}

// GetProfile 获取用户信息
// @Summary 获取当前用户信息
// @Description 获取当前登录用户的详细信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.directory.Get(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		ServiceError(c, err, "获取用户信息失败")
		return
	}
	Success(c, user)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required" example:"admin"`
	NewPassword string `json:"new_password" binding:"required,max=50" example:"newpassword123"`
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Description 校验原密码后修改当前用户密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "密码信息"
// @Success 200 {object} Response "修改成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "原密码错误"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	err := h.directory.ChangePassword(c.Request.Context(), middleware.GetCurrentUserID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			Unauthorized(c, "原密码错误")
			return
		}
		ServiceError(c, err, "修改密码失败")
		return
	}

	SuccessWithMessage(c, "密码修改成功", nil)
}
