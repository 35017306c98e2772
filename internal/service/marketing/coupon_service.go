// Package marketing 提供营销相关服务
package marketing

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/common/logger"
	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
)

const (
	activeCouponCacheKey = "coupon:active"
	activeCouponCacheTTL = time.Minute
)

// CouponService 优惠券校验服务。校验是只读的：不递增计数、不写使用记录，
// 落库动作由 RedemptionService 在订单确认后执行。
type CouponService struct {
	couponRepo *repository.CouponRepository
	usageRepo  *repository.CouponUsageRepository
	redis      *redis.Client
}

// NewCouponService 创建优惠券校验服务。redisClient 可为 nil（不启用活动券缓存）。
func NewCouponService(couponRepo *repository.CouponRepository, usageRepo *repository.CouponUsageRepository, redisClient *redis.Client) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
		redis:      redisClient,
	}
}

// ValidationResult 校验结果：Valid=true 时携带优惠券与折扣金额，
// Valid=false 时携带不通过原因。普通不符合条件不作为 error 返回。
type ValidationResult struct {
	Valid          bool           `json:"valid"`
	Coupon         *models.Coupon `json:"coupon,omitempty"`
	DiscountAmount int64          `json:"discount_amount"`
	Reason         string         `json:"reason,omitempty"`
}

func invalid(reason string) *ValidationResult {
	return &ValidationResult{Valid: false, Reason: reason}
}

// Validate 校验券码并计算折扣金额。检查顺序固定：
// 券码存在 → 启用 → 时间窗口 → 总量上限 → 用户上限 → 起用金额 → 适用范围 → 计算折扣。
// 返回的 error 仅表示存储访问失败，不表示券不可用。
func (s *CouponService) Validate(ctx context.Context, code string, userID int64, cartTotal int64, productIDs, categoryIDs []string) (*ValidationResult, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid(ReasonCouponNotFound), nil
		}
		return nil, err
	}

	if !coupon.IsActive {
		return invalid(ReasonCouponInactive), nil
	}

	now := time.Now()
	if now.Before(coupon.ValidFrom) {
		return invalid(ReasonCouponNotYetValid), nil
	}
	if now.After(coupon.ValidUntil) {
		return invalid(ReasonCouponExpired), nil
	}

	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return invalid(ReasonUsageLimitReached), nil
	}

	if coupon.UserUsageLimit != nil {
		used, err := s.usageRepo.CountByUserAndCoupon(ctx, userID, coupon.ID)
		if err != nil {
			return nil, err
		}
		if used >= int64(*coupon.UserUsageLimit) {
			return invalid(ReasonUserUsageLimitReached), nil
		}
	}

	if coupon.MinOrderAmount != nil && cartTotal < *coupon.MinOrderAmount {
		return invalid(ReasonOrderAmountTooLow), nil
	}

	// 商品、分类两个维度各自独立限制，同时设置时须同时满足
	if len(coupon.ApplicableProducts) > 0 && !containsAny(coupon.ApplicableProducts, productIDs) {
		return invalid(ReasonNotApplicableToCart), nil
	}
	if len(coupon.ApplicableCategories) > 0 && !containsAny(coupon.ApplicableCategories, categoryIDs) {
		return invalid(ReasonNotApplicableToCart), nil
	}

	return &ValidationResult{
		Valid:          true,
		Coupon:         coupon,
		DiscountAmount: s.CalculateDiscount(coupon, cartTotal),
	}, nil
}

// CalculateDiscount 计算折扣金额（整数日元，向下取整）
func (s *CouponService) CalculateDiscount(coupon *models.Coupon, cartTotal int64) int64 {
	var discount int64

	switch coupon.Type {
	case models.CouponTypePercentage:
		discount = int64(math.Floor(float64(cartTotal) * coupon.Value / 100))
		if coupon.MaxDiscountAmount != nil && discount > *coupon.MaxDiscountAmount {
			discount = *coupon.MaxDiscountAmount
		}
	case models.CouponTypeFixedAmount:
		discount = int64(coupon.Value)
	default:
		return 0
	}

	// 折扣不超过购物车总额，避免订单金额为负
	if discount > cartTotal {
		discount = cartTotal
	}
	if discount < 0 {
		discount = 0
	}

	return discount
}

// containsAny 判断 list 与 candidates 是否有交集
func containsAny(list models.StringList, candidates []string) bool {
	for _, c := range candidates {
		if list.Contains(c) {
			return true
		}
	}
	return false
}

// GetActiveCoupons 获取当前可展示的优惠券列表（按创建时间倒序），带 Redis 缓存
func (s *CouponService) GetActiveCoupons(ctx context.Context, offset, limit int) ([]*models.Coupon, int64, error) {
	type cached struct {
		List  []*models.Coupon `json:"list"`
		Total int64            `json:"total"`
		Limit int              `json:"limit"`
	}

	// 缓存内容与写入时的 limit 绑定：limit 不一致时直接回源，
	// 否则更大的 limit 会拿到被截断的首页。
	cacheKey := ""
	if s.redis != nil && offset == 0 {
		cacheKey = activeCouponCacheKey
		if data, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var c cached
			if json.Unmarshal([]byte(data), &c) == nil && c.Limit == limit {
				return c.List, c.Total, nil
			}
		}
	}

	coupons, total, err := s.couponRepo.ListActive(ctx, time.Now(), offset, limit)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(cached{List: coupons, Total: total, Limit: limit}); err == nil {
			if err := s.redis.Set(ctx, cacheKey, data, activeCouponCacheTTL).Err(); err != nil {
				logger.Warn("活动优惠券缓存写入失败", zap.Error(err))
			}
		}
	}

	return coupons, total, nil
}

// InvalidateActiveCache 管理端变更后清除活动券缓存
func (s *CouponService) InvalidateActiveCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, activeCouponCacheKey).Err(); err != nil {
		logger.Warn("活动优惠券缓存清除失败", zap.Error(err))
	}
}
