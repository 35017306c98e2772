// Package mall 提供商城相关的 HTTP Handler
package mall

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/injapanfood/injapanfood-backend/internal/common/handler"
	"github.com/injapanfood/injapanfood-backend/internal/common/response"
	orderService "github.com/injapanfood/injapanfood-backend/internal/service/order"
)

// OrderHandler 结算与订单处理器
type OrderHandler struct {
	checkoutService *orderService.CheckoutService
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(checkoutSvc *orderService.CheckoutService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutSvc,
	}
}

// PreviewCheckout 结算预览
// @Summary 结算预览
// @Tags 订单
// @Produce json
// @Security Bearer
// @Param coupon_code query string false "优惠券码"
// @Success 200 {object} response.Response{data=order.PricingResult}
// @Router /api/v1/checkout/preview [get]
func (h *OrderHandler) PreviewCheckout(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	result, err := h.checkoutService.Preview(c.Request.Context(), userID, c.Query("coupon_code"))
	handler.MustSucceed(c, err, result)
}

// CreateOrder 创建订单
// @Summary 从购物车选中项创建订单
// @Tags 订单
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body order.PlaceOrderRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /api/v1/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req orderService.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	order, err := h.checkoutService.PlaceOrder(c.Request.Context(), userID, &req)
	handler.MustSucceed(c, err, order)
}

// PayOrder 确认支付
// @Summary 确认支付
// @Tags 订单
// @Produce json
// @Security Bearer
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response
// @Router /api/v1/orders/{id}/pay [post]
func (h *OrderHandler) PayOrder(c *gin.Context) {
	userID, orderID, ok := handler.RequireUserAndParseID(c, "订单")
	if !ok {
		return
	}

	err := h.checkoutService.ConfirmPayment(c.Request.Context(), userID, orderID)
	handler.MustSucceed(c, err, nil)
}

// GetOrderDetail 获取订单详情
// @Summary 获取订单详情
// @Tags 订单
// @Produce json
// @Security Bearer
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrderDetail(c *gin.Context) {
	userID, orderID, ok := handler.RequireUserAndParseID(c, "订单")
	if !ok {
		return
	}

	order, err := h.checkoutService.GetOrder(c.Request.Context(), userID, orderID)
	handler.MustSucceed(c, err, order)
}

// GetOrders 获取订单列表
// @Summary 获取当前用户订单列表
// @Tags 订单
// @Produce json
// @Security Bearer
// @Param status query int false "订单状态"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/orders [get]
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var status *int8
	if statusStr := c.Query("status"); statusStr != "" {
		v, err := strconv.ParseInt(statusStr, 10, 8)
		if err != nil {
			response.BadRequest(c, "无效的订单状态")
			return
		}
		s := int8(v)
		status = &s
	}

	p := handler.BindPagination(c)

	orders, total, err := h.checkoutService.ListOrders(c.Request.Context(), userID, status, p.Page, p.PageSize)
	handler.MustSucceedPage(c, err, orders, total, p.Page, p.PageSize)
}

// CancelOrder 取消订单
// @Summary 取消待支付订单
// @Tags 订单
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "订单ID"
// @Param reason query string false "取消原因"
// @Success 200 {object} response.Response
// @Router /api/v1/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, orderID, ok := handler.RequireUserAndParseID(c, "订单")
	if !ok {
		return
	}

	err := h.checkoutService.CancelOrder(c.Request.Context(), userID, orderID, c.Query("reason"))
	handler.MustSucceed(c, err, nil)
}
