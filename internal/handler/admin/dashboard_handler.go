// Package admin 提供管理员相关的 HTTP Handler
package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/injapanfood/injapanfood-backend/internal/common/handler"
	adminService "github.com/injapanfood/injapanfood-backend/internal/service/admin"
)

// DashboardHandler 看板处理器
type DashboardHandler struct {
	dashboardService *adminService.DashboardService
}

// NewDashboardHandler 创建看板处理器
func NewDashboardHandler(dashboardSvc *adminService.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardSvc,
	}
}

// GetStats 获取看板统计
// @Summary 获取看板统计
// @Tags 管理员-看板
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=adminService.DashboardStats}
// @Router /admin/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context())
	handler.MustSucceed(c, err, stats)
}

// GetCouponStats 获取优惠券效果统计
// @Summary 获取单张优惠券的核销统计
// @Tags 管理员-看板
// @Produce json
// @Security Bearer
// @Param id path int true "优惠券ID"
// @Success 200 {object} response.Response{data=adminService.CouponStats}
// @Router /admin/dashboard/coupons/{id} [get]
func (h *DashboardHandler) GetCouponStats(c *gin.Context) {
	couponID, ok := handler.ParseID(c, "优惠券")
	if !ok {
		return
	}

	stats, err := h.dashboardService.GetCouponStats(c.Request.Context(), couponID)
	handler.MustSucceed(c, err, stats)
}

// GetSalesTrend 获取销售趋势
// @Summary 获取最近 N 天销售趋势
// @Tags 管理员-看板
// @Produce json
// @Security Bearer
// @Param days query int false "天数（默认7，最大90）"
// @Success 200 {object} response.Response{data=[]adminService.SalesTrendPoint}
// @Router /admin/dashboard/sales-trend [get]
func (h *DashboardHandler) GetSalesTrend(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	points, err := h.dashboardService.GetSalesTrend(c.Request.Context(), days)
	handler.MustSucceed(c, err, points)
}
