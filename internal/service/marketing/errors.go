// Package marketing 提供营销相关服务
package marketing

import "errors"

// 校验不通过原因（面向用户展示，不作为 error 返回）
const (
	ReasonCouponNotFound        = "coupon not found"
	ReasonCouponInactive        = "coupon inactive"
	ReasonCouponNotYetValid     = "coupon not yet valid"
	ReasonCouponExpired         = "coupon expired"
	ReasonUsageLimitReached     = "usage limit reached"
	ReasonUserUsageLimitReached = "user usage limit reached"
	ReasonOrderAmountTooLow     = "order amount too low"
	ReasonNotApplicableToCart   = "not applicable to cart items"
)

// 营销模块错误定义
var (
	// 核销相关错误
	ErrCouponNotFound = errors.New("优惠券不存在")
	// ErrUsageLimitExhausted 核销提交时总量上限已耗尽（校验与核销之间的竞态，调用方需重新计价）
	ErrUsageLimitExhausted = errors.New("优惠券核销时使用次数已达上限")
	// ErrUserUsageLimitExhausted 核销提交时用户上限已耗尽
	ErrUserUsageLimitExhausted = errors.New("优惠券核销时用户使用次数已达上限")

	// 管理端错误
	ErrCouponCodeExists   = errors.New("券码已存在")
	ErrInvalidCouponType  = errors.New("无效的优惠券类型")
	ErrInvalidCouponValue = errors.New("无效的优惠金额")
	ErrInvalidTimeWindow  = errors.New("无效的有效期区间")
	ErrCouponCodeRequired = errors.New("券码不能为空")
)
