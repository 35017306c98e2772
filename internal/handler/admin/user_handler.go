// Package admin 提供管理员相关的 HTTP Handler
package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/injapanfood/injapanfood-backend/internal/common/handler"
	"github.com/injapanfood/injapanfood-backend/internal/common/response"
	adminService "github.com/injapanfood/injapanfood-backend/internal/service/admin"
)

// UserHandler 用户管理处理器
type UserHandler struct {
	userAdminService *adminService.UserAdminService
}

// NewUserHandler 创建用户管理处理器
func NewUserHandler(userAdminSvc *adminService.UserAdminService) *UserHandler {
	return &UserHandler{
		userAdminService: userAdminSvc,
	}
}

// ListUsers 获取用户列表
// @Summary 获取用户列表
// @Tags 管理员-用户
// @Produce json
// @Security Bearer
// @Param email query string false "邮箱"
// @Param status query int false "状态"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req adminService.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	users, total, err := h.userAdminService.ListUsers(c.Request.Context(), &req)
	handler.MustSucceedPage(c, err, users, total, req.Page, req.PageSize)
}

// GetUserDetail 获取用户详情
// @Summary 获取用户详情（含订单统计与优惠券使用记录）
// @Tags 管理员-用户
// @Produce json
// @Security Bearer
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=adminService.UserDetail}
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetUserDetail(c *gin.Context) {
	userID, ok := handler.ParseID(c, "用户")
	if !ok {
		return
	}

	detail, err := h.userAdminService.GetUserDetail(c.Request.Context(), userID)
	handler.MustSucceed(c, err, detail)
}

// SetUserStatus 启用/禁用用户
// @Summary 启用/禁用用户
// @Tags 管理员-用户
// @Produce json
// @Security Bearer
// @Param id path int true "用户ID"
// @Param status query int true "状态：0-禁用 1-启用"
// @Success 200 {object} response.Response
// @Router /admin/users/{id}/status [put]
func (h *UserHandler) SetUserStatus(c *gin.Context) {
	userID, ok := handler.ParseID(c, "用户")
	if !ok {
		return
	}

	status, err := strconv.ParseInt(c.Query("status"), 10, 8)
	if err != nil {
		response.BadRequest(c, "无效的状态")
		return
	}

	handler.MustSucceed(c, h.userAdminService.SetUserStatus(c.Request.Context(), userID, int8(status)), nil)
}
