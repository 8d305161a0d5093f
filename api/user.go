package api

import (
	"log"

	"bookkeeping/middleware"
	"bookkeeping/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户管理处理器（仅管理员）
type UserHandler struct {
	directory *service.Directory
	sessions  *service.SessionManager
}

// NewUserHandler 创建用户管理处理器
func NewUserHandler(directory *service.Directory, sessions *service.SessionManager) *UserHandler {
	return &UserHandler{directory: directory, sessions: sessions}
}

// CreateUserRequest 新增用户请求
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,max=50" example:"alice"`
	Password string `json:"password" binding:"required,max=50" example:"alice123"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user" example:"user"`
}

// UpdateUserRequest 修改用户请求，未传字段不修改
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,max=50" example:"alice"`
	Password *string `json:"password" binding:"omitempty,max=50" example:"newpassword"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin user" example:"admin"`
}

// ListUsers 用户列表
// @Summary 用户列表
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.User} "获取成功"
// @Failure 403 {object} Response "无权限"
// @Router /api/v1/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.directory.List(c.Request.Context())
	if err != nil {
		ServiceError(c, err, "获取用户列表失败")
		return
	}
	Success(c, users)
}

// CreateUser 新增用户
// @Summary 新增用户
// @Description 用户名唯一，角色默认为 user
// @Tags 用户管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "用户信息"
// @Success 200 {object} Response{data=models.User} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "用户名已存在"
// @Router /api/v1/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	user, err := h.directory.AddUser(c.Request.Context(), service.NewUser{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		ServiceError(c, err, "创建用户失败")
		return
	}
	log.Printf("用户 %s 创建了用户 %s (%s)", middleware.GetCurrentUserID(c), user.Username, user.Role)
	SuccessWithMessage(c, "创建成功", user)
}

// UpdateUser 修改用户
// @Summary 修改用户
// @Description 修改用户名、密码或角色；预置用户的用户名与角色不可修改。角色或密码变更后该用户的会话全部失效
// @Tags 用户管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param request body UpdateUserRequest true "修改内容"
// @Success 200 {object} Response{data=models.User} "修改成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "预置用户不可修改"
// @Failure 404 {object} Response "用户不存在"
// @Failure 409 {object} Response "用户名已存在"
// @Router /api/v1/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	id := c.Param("id")
	before, err := h.directory.Get(c.Request.Context(), id)
	if err != nil {
		ServiceError(c, err, "修改用户失败")
		return
	}
	user, err := h.directory.UpdateUser(c.Request.Context(), id, service.UserPatch{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		ServiceError(c, err, "修改用户失败")
		return
	}

	if user.Role != before.Role || user.Username != before.Username || req.Password != nil {
		n, err := h.sessions.DestroyUser(c.Request.Context(), id)
		if err != nil {
			log.Printf("注销用户 %s 的会话失败: %v", id, err)
		} else if n > 0 {
			log.Printf("用户 %s 信息变更，已注销 %d 个会话", id, n)
		}
	}
	SuccessWithMessage(c, "修改成功", user)
}

// DeleteUser 删除用户
// @Summary 删除用户
// @Description 预置用户与当前登录用户不可删除；删除后其会话全部失效
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} Response "删除成功"
// @Failure 403 {object} Response "不可删除"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.directory.DeleteUser(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		ServiceError(c, err, "删除用户失败")
		return
	}
	if _, err := h.sessions.DestroyUser(c.Request.Context(), id); err != nil {
		log.Printf("注销用户 %s 的会话失败: %v", id, err)
	}
	SuccessWithMessage(c, "删除成功", nil)
}
