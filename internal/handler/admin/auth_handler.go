// Package admin 提供管理员相关的 HTTP Handler
package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/injapanfood/injapanfood-backend/internal/common/handler"
	"github.com/injapanfood/injapanfood-backend/internal/common/response"
	adminService "github.com/injapanfood/injapanfood-backend/internal/service/admin"
)

// AuthHandler 管理员认证处理器
type AuthHandler struct {
	adminAuthService *adminService.AdminAuthService
}

// NewAuthHandler 创建管理员认证处理器
func NewAuthHandler(adminAuthSvc *adminService.AdminAuthService) *AuthHandler {
	return &AuthHandler{
		adminAuthService: adminAuthSvc,
	}
}

// Login 管理员登录
// @Summary 管理员登录
// @Tags 管理员认证
// @Accept json
// @Produce json
// @Param request body adminService.LoginRequest true "请求参数"
// @Success 200 {object} response.Response{data=adminService.LoginResponse}
// @Router /admin/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req adminService.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}
	req.IP = c.ClientIP()

	result, err := h.adminAuthService.Login(c.Request.Context(), &req)
	handler.MustSucceed(c, err, result)
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken 刷新 Token
// @Summary 刷新管理员 Token
// @Tags 管理员认证
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /admin/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tokenPair, err := h.adminAuthService.RefreshToken(c.Request.Context(), req.RefreshToken)
	handler.MustSucceed(c, err, tokenPair)
}

// GetCurrentAdmin 获取当前管理员信息
// @Summary 获取当前管理员信息
// @Tags 管理员认证
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=adminService.AdminInfo}
// @Router /admin/auth/me [get]
func (h *AuthHandler) GetCurrentAdmin(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}

	info, err := h.adminAuthService.GetAdminInfo(c.Request.Context(), adminID)
	handler.MustSucceed(c, err, info)
}

// ChangePassword 修改密码
// @Summary 修改管理员密码
// @Tags 管理员认证
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.ChangePasswordRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /admin/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}

	var req adminService.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	handler.MustSucceed(c, h.adminAuthService.ChangePassword(c.Request.Context(), adminID, &req), nil)
}

// Logout 退出登录
// @Summary 管理员退出登录
// @Tags 管理员认证
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response
// @Router /admin/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// 依赖 JWT 自然过期，不维护 token 黑名单
	response.Success(c, nil)
}

// CreateAdmin 创建管理员账号
// @Summary 创建管理员账号
// @Tags 管理员账号
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.CreateAdminRequest true "请求参数"
// @Success 200 {object} response.Response{data=adminService.AdminInfo}
// @Router /admin/admins [post]
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req adminService.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	info, err := h.adminAuthService.CreateAdmin(c.Request.Context(), &req)
	handler.MustSucceed(c, err, info)
}

// ListAdmins 获取管理员列表
// @Summary 获取管理员列表
// @Tags 管理员账号
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param role query string false "角色"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /admin/admins [get]
func (h *AuthHandler) ListAdmins(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if role := c.Query("role"); role != "" {
		filters["role"] = role
	}

	admins, total, err := h.adminAuthService.ListAdmins(c.Request.Context(), p.Page, p.PageSize, filters)
	handler.MustSucceedPage(c, err, admins, total, p.Page, p.PageSize)
}

// SetAdminStatus 启用/禁用管理员
// @Summary 启用/禁用管理员
// @Tags 管理员账号
// @Produce json
// @Security Bearer
// @Param id path int true "管理员ID"
// @Param status query int true "状态：0-禁用 1-启用"
// @Success 200 {object} response.Response
// @Router /admin/admins/{id}/status [put]
func (h *AuthHandler) SetAdminStatus(c *gin.Context) {
	adminID, ok := handler.ParseID(c, "管理员")
	if !ok {
		return
	}

	status, err := strconv.ParseInt(c.Query("status"), 10, 8)
	if err != nil {
		response.BadRequest(c, "无效的状态")
		return
	}

	handler.MustSucceed(c, h.adminAuthService.SetAdminStatus(c.Request.Context(), adminID, int8(status)), nil)
}

// RegisterRoutes 注册公开路由
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
	}
}

// RegisterProtectedRoutes 注册需要认证的路由
func (h *AuthHandler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.GET("/me", h.GetCurrentAdmin)
		auth.PUT("/password", h.ChangePassword)
		auth.POST("/logout", h.Logout)
	}
}
