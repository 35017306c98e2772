// Package admin 提供管理员相关的 HTTP Handler
package admin

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/injapanfood/injapanfood-backend/internal/common/handler"
	"github.com/injapanfood/injapanfood-backend/internal/common/response"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
	marketingService "github.com/injapanfood/injapanfood-backend/internal/service/marketing"
)

// MarketingHandler 优惠券管理处理器
type MarketingHandler struct {
	couponAdminService *marketingService.CouponAdminService
	redemptionService  *marketingService.RedemptionService
}

// NewMarketingHandler 创建优惠券管理处理器
func NewMarketingHandler(
	couponAdminSvc *marketingService.CouponAdminService,
	redemptionSvc *marketingService.RedemptionService,
) *MarketingHandler {
	return &MarketingHandler{
		couponAdminService: couponAdminSvc,
		redemptionService:  redemptionSvc,
	}
}

// handleCouponError 将营销模块的校验错误映射为 400，其余走通用处理
func handleCouponError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, marketingService.ErrCouponCodeExists),
		errors.Is(err, marketingService.ErrCouponCodeRequired),
		errors.Is(err, marketingService.ErrInvalidCouponType),
		errors.Is(err, marketingService.ErrInvalidCouponValue),
		errors.Is(err, marketingService.ErrInvalidTimeWindow):
		response.BadRequest(c, err.Error())
		return true
	case errors.Is(err, marketingService.ErrCouponNotFound):
		response.NotFound(c, err.Error())
		return true
	}
	return handler.HandleError(c, err)
}

// CreateCoupon 创建优惠券
// @Summary 创建优惠券
// @Tags 管理员-优惠券
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body marketingService.CreateCouponRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Coupon}
// @Router /admin/coupons [post]
func (h *MarketingHandler) CreateCoupon(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}

	var req marketingService.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	coupon, err := h.couponAdminService.CreateCoupon(c.Request.Context(), &req, adminID)
	if handleCouponError(c, err) {
		return
	}

	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠券
// @Summary 更新优惠券
// @Tags 管理员-优惠券
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "优惠券ID"
// @Param request body object true "变更字段"
// @Success 200 {object} response.Response{data=models.Coupon}
// @Router /admin/coupons/{id} [put]
func (h *MarketingHandler) UpdateCoupon(c *gin.Context) {
	couponID, ok := handler.ParseID(c, "优惠券")
	if !ok {
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	coupon, err := h.couponAdminService.UpdateCoupon(c.Request.Context(), couponID, fields)
	if handleCouponError(c, err) {
		return
	}

	response.Success(c, coupon)
}

// GetCoupon 获取优惠券详情
// @Summary 获取优惠券详情
// @Tags 管理员-优惠券
// @Produce json
// @Security Bearer
// @Param id path int true "优惠券ID"
// @Success 200 {object} response.Response{data=models.Coupon}
// @Router /admin/coupons/{id} [get]
func (h *MarketingHandler) GetCoupon(c *gin.Context) {
	couponID, ok := handler.ParseID(c, "优惠券")
	if !ok {
		return
	}

	coupon, err := h.couponAdminService.GetCoupon(c.Request.Context(), couponID)
	if handleCouponError(c, err) {
		return
	}

	response.Success(c, coupon)
}

// ListCoupons 获取优惠券列表
// @Summary 获取优惠券列表
// @Tags 管理员-优惠券
// @Produce json
// @Security Bearer
// @Param is_active query bool false "是否启用"
// @Param type query string false "券类型"
// @Param keyword query string false "关键词（券码或名称）"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /admin/coupons [get]
func (h *MarketingHandler) ListCoupons(c *gin.Context) {
	p := handler.BindPagination(c)

	params := repository.CouponListParams{
		Offset:  p.GetOffset(),
		Limit:   p.GetLimit(),
		Type:    c.Query("type"),
		Keyword: c.Query("keyword"),
	}
	if activeStr := c.Query("is_active"); activeStr != "" {
		active := activeStr == "true"
		params.IsActive = &active
	}

	coupons, total, err := h.couponAdminService.ListCoupons(c.Request.Context(), params)
	handler.MustSucceedPage(c, err, coupons, total, p.Page, p.PageSize)
}

// SetCouponActive 启用/停用优惠券
// @Summary 启用/停用优惠券
// @Tags 管理员-优惠券
// @Produce json
// @Security Bearer
// @Param id path int true "优惠券ID"
// @Param active query bool true "是否启用"
// @Success 200 {object} response.Response
// @Router /admin/coupons/{id}/active [put]
func (h *MarketingHandler) SetCouponActive(c *gin.Context) {
	couponID, ok := handler.ParseID(c, "优惠券")
	if !ok {
		return
	}

	active, err := strconv.ParseBool(c.Query("active"))
	if err != nil {
		response.BadRequest(c, "无效的启用状态")
		return
	}

	if handleCouponError(c, h.couponAdminService.SetActive(c.Request.Context(), couponID, active)) {
		return
	}

	response.Success(c, nil)
}

// DeleteCoupon 删除优惠券
// @Summary 删除优惠券
// @Tags 管理员-优惠券
// @Produce json
// @Security Bearer
// @Param id path int true "优惠券ID"
// @Success 200 {object} response.Response
// @Router /admin/coupons/{id} [delete]
func (h *MarketingHandler) DeleteCoupon(c *gin.Context) {
	couponID, ok := handler.ParseID(c, "优惠券")
	if !ok {
		return
	}

	if handleCouponError(c, h.couponAdminService.DeleteCoupon(c.Request.Context(), couponID)) {
		return
	}

	response.Success(c, nil)
}

// GetCouponUsages 获取优惠券核销记录
// @Summary 获取优惠券核销记录
// @Tags 管理员-优惠券
// @Produce json
// @Security Bearer
// @Param id path int true "优惠券ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /admin/coupons/{id}/usages [get]
func (h *MarketingHandler) GetCouponUsages(c *gin.Context) {
	couponID, ok := handler.ParseID(c, "优惠券")
	if !ok {
		return
	}

	p := handler.BindPagination(c)

	usages, total, err := h.redemptionService.GetUsagesByCoupon(c.Request.Context(), couponID, p.GetOffset(), p.GetLimit())
	handler.MustSucceedPage(c, err, usages, total, p.Page, p.PageSize)
}
