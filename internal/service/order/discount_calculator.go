// Package order 提供订单相关服务
package order

import (
	"context"

	"github.com/injapanfood/injapanfood-backend/internal/common/errors"
	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/service/marketing"
)

// 运费规则
const (
	ShippingFee           = int64(500)
	FreeShippingThreshold = int64(10000)
)

// DiscountCalculator 订单计价器。汇总购物车金额、计算运费，
// 并在给定券码时调用优惠券校验引擎得出折扣。
type DiscountCalculator struct {
	couponService *marketing.CouponService
}

// NewDiscountCalculator 创建订单计价器
func NewDiscountCalculator(couponService *marketing.CouponService) *DiscountCalculator {
	return &DiscountCalculator{couponService: couponService}
}

// PricingResult 计价结果
type PricingResult struct {
	Subtotal       int64  `json:"subtotal"`
	ShippingFee    int64  `json:"shipping_fee"`
	DiscountAmount int64  `json:"discount_amount"`
	Total          int64  `json:"total"`
	CouponApplied  bool   `json:"coupon_applied"`
	CouponReason   string `json:"coupon_reason,omitempty"`

	Coupon        *models.Coupon `json:"coupon,omitempty"`
	ProductCodes  []string       `json:"-"`
	CategorySlugs []string       `json:"-"`
}

// Price 对购物车项计价。items 须预加载 Product 及 Product.Category。
// couponCode 为空时不走优惠券；券不符合条件不是错误，结果中携带原因。
func (c *DiscountCalculator) Price(ctx context.Context, userID int64, items []*models.CartItem, couponCode string) (*PricingResult, error) {
	if len(items) == 0 {
		return nil, errors.ErrCartEmpty
	}

	result := &PricingResult{}
	seenCodes := make(map[string]bool)
	seenSlugs := make(map[string]bool)

	for _, item := range items {
		if item.Product == nil {
			return nil, errors.ErrProductNotFound
		}
		if item.Product.Status != models.ProductStatusOnSale {
			return nil, errors.ErrProductOffShelf.WithMessage("商品 " + item.Product.Name + " 已下架")
		}

		result.Subtotal += item.Product.Price * int64(item.Quantity)

		if !seenCodes[item.Product.Code] {
			seenCodes[item.Product.Code] = true
			result.ProductCodes = append(result.ProductCodes, item.Product.Code)
		}
		if item.Product.Category != nil && !seenSlugs[item.Product.Category.Slug] {
			seenSlugs[item.Product.Category.Slug] = true
			result.CategorySlugs = append(result.CategorySlugs, item.Product.Category.Slug)
		}
	}

	if result.Subtotal < FreeShippingThreshold {
		result.ShippingFee = ShippingFee
	}

	if couponCode != "" {
		validation, err := c.couponService.Validate(ctx, couponCode, userID, result.Subtotal, result.ProductCodes, result.CategorySlugs)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if validation.Valid {
			result.CouponApplied = true
			result.Coupon = validation.Coupon
			result.DiscountAmount = validation.DiscountAmount
		} else {
			result.CouponReason = validation.Reason
		}
	}

	result.Total = result.Subtotal - result.DiscountAmount + result.ShippingFee
	return result, nil
}
