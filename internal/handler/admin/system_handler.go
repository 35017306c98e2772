// Package admin 提供管理员相关的 HTTP Handler
package admin

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/injapanfood/injapanfood-backend/internal/common/handler"
	"github.com/injapanfood/injapanfood-backend/internal/common/response"
	adminService "github.com/injapanfood/injapanfood-backend/internal/service/admin"
)

// SystemHandler 系统管理处理器（操作审计日志）
type SystemHandler struct {
	operationLogService *adminService.OperationLogService
}

// NewSystemHandler 创建系统管理处理器
func NewSystemHandler(operationLogSvc *adminService.OperationLogService) *SystemHandler {
	return &SystemHandler{
		operationLogService: operationLogSvc,
	}
}

// ListOperationLogs 获取操作日志列表
// @Summary 获取操作日志列表
// @Tags 管理员-系统
// @Produce json
// @Security Bearer
// @Param admin_id query int false "管理员ID"
// @Param module query string false "模块"
// @Param action query string false "动作"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /admin/system/operation-logs [get]
func (h *SystemHandler) ListOperationLogs(c *gin.Context) {
	var req adminService.LogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	logs, total, err := h.operationLogService.List(c.Request.Context(), &req)
	handler.MustSucceedPage(c, err, logs, total, req.Page, req.PageSize)
}

// ListTargetLogs 获取指定对象的操作历史
// @Summary 获取指定对象的操作历史
// @Tags 管理员-系统
// @Produce json
// @Security Bearer
// @Param target_type path string true "对象类型"
// @Param target_id path int true "对象ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /admin/system/operation-logs/{target_type}/{target_id} [get]
func (h *SystemHandler) ListTargetLogs(c *gin.Context) {
	targetType := c.Param("target_type")
	if targetType == "" {
		response.BadRequest(c, "请提供对象类型")
		return
	}

	targetID, ok := handler.ParseParamID(c, "target_id", "对象")
	if !ok {
		return
	}

	p := handler.BindPagination(c)

	logs, total, err := h.operationLogService.ListByTarget(c.Request.Context(), targetType, targetID, p.Page, p.PageSize)
	handler.MustSucceedPage(c, err, logs, total, p.Page, p.PageSize)
}

// GetModuleStats 获取模块操作统计
// @Summary 获取最近时段各模块操作数
// @Tags 管理员-系统
// @Produce json
// @Security Bearer
// @Param hours query int false "统计时段（小时，默认24）"
// @Success 200 {object} response.Response{data=map[string]int64}
// @Router /admin/system/operation-logs/stats [get]
func (h *SystemHandler) GetModuleStats(c *gin.Context) {
	hours := 24
	if hoursStr := c.Query("hours"); hoursStr != "" {
		if v, err := time.ParseDuration(hoursStr + "h"); err == nil && v > 0 {
			hours = int(v.Hours())
		}
	}

	stats, err := h.operationLogService.GetModuleStats(c.Request.Context(), time.Now().Add(-time.Duration(hours)*time.Hour))
	handler.MustSucceed(c, err, stats)
}

// CleanupOperationLogs 清理历史日志
// @Summary 清理指定日期之前的操作日志
// @Tags 管理员-系统
// @Produce json
// @Security Bearer
// @Param before query string true "日期 YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Router /admin/system/operation-logs [delete]
func (h *SystemHandler) CleanupOperationLogs(c *gin.Context) {
	before, err := handler.ParseDate(c.Query("before"))
	if err != nil {
		response.BadRequest(c, "无效的日期格式")
		return
	}

	deleted, err := h.operationLogService.Cleanup(c.Request.Context(), before)
	if handler.HandleError(c, err) {
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}
