// Package admin 提供管理员相关的 HTTP Handler
package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/injapanfood/injapanfood-backend/internal/common/handler"
	"github.com/injapanfood/injapanfood-backend/internal/common/response"
	adminService "github.com/injapanfood/injapanfood-backend/internal/service/admin"
)

// OrderHandler 订单管理处理器
type OrderHandler struct {
	orderAdminService *adminService.OrderAdminService
}

// NewOrderHandler 创建订单管理处理器
func NewOrderHandler(orderAdminSvc *adminService.OrderAdminService) *OrderHandler {
	return &OrderHandler{
		orderAdminService: orderAdminSvc,
	}
}

// ListOrders 获取订单列表
// @Summary 获取订单列表
// @Tags 管理员-订单
// @Produce json
// @Security Bearer
// @Param user_id query int false "用户ID"
// @Param status query int false "订单状态"
// @Param order_no query string false "订单号（模糊匹配）"
// @Param coupon_id query int false "优惠券ID"
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /admin/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req adminService.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	orders, total, err := h.orderAdminService.ListOrders(c.Request.Context(), &req)
	handler.MustSucceedPage(c, err, orders, total, req.Page, req.PageSize)
}

// GetOrder 获取订单详情
// @Summary 获取订单详情（含明细）
// @Tags 管理员-订单
// @Produce json
// @Security Bearer
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /admin/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := handler.ParseID(c, "订单")
	if !ok {
		return
	}

	order, err := h.orderAdminService.GetOrder(c.Request.Context(), orderID)
	handler.MustSucceed(c, err, order)
}

// ShipOrder 发货
// @Summary 订单发货
// @Tags 管理员-订单
// @Produce json
// @Security Bearer
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response
// @Router /admin/orders/{id}/ship [post]
func (h *OrderHandler) ShipOrder(c *gin.Context) {
	orderID, ok := handler.ParseID(c, "订单")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.orderAdminService.ShipOrder(c.Request.Context(), orderID), nil)
}

// DeliverOrder 送达
// @Summary 订单送达
// @Tags 管理员-订单
// @Produce json
// @Security Bearer
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response
// @Router /admin/orders/{id}/deliver [post]
func (h *OrderHandler) DeliverOrder(c *gin.Context) {
	orderID, ok := handler.ParseID(c, "订单")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.orderAdminService.DeliverOrder(c.Request.Context(), orderID), nil)
}

// CompleteOrder 完成订单
// @Summary 完成订单
// @Tags 管理员-订单
// @Produce json
// @Security Bearer
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response
// @Router /admin/orders/{id}/complete [post]
func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	orderID, ok := handler.ParseID(c, "订单")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.orderAdminService.CompleteOrder(c.Request.Context(), orderID), nil)
}

// CountOrdersByStatus 各状态订单数
// @Summary 各状态订单数
// @Tags 管理员-订单
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=map[int8]int64}
// @Router /admin/orders/counts [get]
func (h *OrderHandler) CountOrdersByStatus(c *gin.Context) {
	counts, err := h.orderAdminService.CountByStatus(c.Request.Context())
	handler.MustSucceed(c, err, counts)
}
