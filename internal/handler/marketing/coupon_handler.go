// Package marketing 提供营销相关的 HTTP Handler
package marketing

import (
	"github.com/gin-gonic/gin"

	"github.com/injapanfood/injapanfood-backend/internal/common/handler"
	"github.com/injapanfood/injapanfood-backend/internal/common/response"
	marketingService "github.com/injapanfood/injapanfood-backend/internal/service/marketing"
)

// CouponHandler 优惠券处理器
type CouponHandler struct {
	couponService     *marketingService.CouponService
	redemptionService *marketingService.RedemptionService
}

// NewCouponHandler 创建优惠券处理器
func NewCouponHandler(couponSvc *marketingService.CouponService, redemptionSvc *marketingService.RedemptionService) *CouponHandler {
	return &CouponHandler{
		couponService:     couponSvc,
		redemptionService: redemptionSvc,
	}
}

// GetActiveCoupons 获取当前可用的优惠券列表
// @Summary 获取当前可用的优惠券列表
// @Tags 营销-优惠券
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/coupons [get]
func (h *CouponHandler) GetActiveCoupons(c *gin.Context) {
	p := handler.BindPagination(c)

	coupons, total, err := h.couponService.GetActiveCoupons(c.Request.Context(), p.GetOffset(), p.GetLimit())
	handler.MustSucceedPage(c, err, coupons, total, p.Page, p.PageSize)
}

// ValidateCouponRequest 券码校验请求
type ValidateCouponRequest struct {
	Code          string   `json:"code" binding:"required"`
	CartTotal     int64    `json:"cart_total" binding:"gte=0"`
	ProductCodes  []string `json:"product_codes"`
	CategorySlugs []string `json:"category_slugs"`
}

// ValidateCoupon 校验券码
// @Summary 校验券码并计算折扣
// @Tags 营销-优惠券
// @Accept json
// @Produce json
// @Param request body marketing.ValidateCouponRequest true "请求参数"
// @Success 200 {object} response.Response{data=marketing.ValidationResult}
// @Router /api/v1/coupons/validate [post]
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	// 未登录时按游客（userID=0）校验
	userID := handler.GetOptionalUserID(c)

	result, err := h.couponService.Validate(c.Request.Context(), req.Code, userID, req.CartTotal, req.ProductCodes, req.CategorySlugs)
	handler.MustSucceed(c, err, result)
}

// GetMyUsages 获取当前用户的优惠券使用记录
// @Summary 获取当前用户的优惠券使用记录
// @Tags 营销-优惠券
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/coupons/usages [get]
func (h *CouponHandler) GetMyUsages(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)

	usages, total, err := h.redemptionService.GetUsagesByUser(c.Request.Context(), userID, p.GetOffset(), p.GetLimit())
	handler.MustSucceedPage(c, err, usages, total, p.Page, p.PageSize)
}
