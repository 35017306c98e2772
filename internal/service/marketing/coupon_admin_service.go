// Package marketing 提供营销相关服务
package marketing

import (
	"context"
	"strings"
	"time"

	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
)

// CouponAdminService 优惠券管理服务（管理端）
type CouponAdminService struct {
	couponRepo    *repository.CouponRepository
	couponService *CouponService
}

// NewCouponAdminService 创建优惠券管理服务
func NewCouponAdminService(couponRepo *repository.CouponRepository, couponService *CouponService) *CouponAdminService {
	return &CouponAdminService{
		couponRepo:    couponRepo,
		couponService: couponService,
	}
}

// CreateCouponRequest 创建优惠券请求
type CreateCouponRequest struct {
	Code                 string            `json:"code" binding:"required,max=32"`
	Name                 string            `json:"name" binding:"required,max=128"`
	Description          *string           `json:"description"`
	Type                 string            `json:"type" binding:"required"`
	Value                float64           `json:"value" binding:"required"`
	MinOrderAmount       *int64            `json:"min_order_amount"`
	MaxDiscountAmount    *int64            `json:"max_discount_amount"`
	UsageLimit           *int              `json:"usage_limit"`
	UserUsageLimit       *int              `json:"user_usage_limit"`
	ApplicableProducts   models.StringList `json:"applicable_products"`
	ApplicableCategories models.StringList `json:"applicable_categories"`
	ValidFrom            time.Time         `json:"valid_from" binding:"required"`
	ValidUntil           time.Time         `json:"valid_until" binding:"required"`
	IsActive             bool              `json:"is_active"`
}

// CreateCoupon 创建优惠券。券码统一大写存储，used_count 从零开始。
func (s *CouponAdminService) CreateCoupon(ctx context.Context, req *CreateCouponRequest, adminID int64) (*models.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, ErrCouponCodeRequired
	}

	if err := validateCouponTerms(req.Type, req.Value, req.ValidFrom, req.ValidUntil); err != nil {
		return nil, err
	}

	exists, err := s.couponRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCouponCodeExists
	}

	coupon := &models.Coupon{
		Code:                 code,
		Name:                 req.Name,
		Description:          req.Description,
		Type:                 req.Type,
		Value:                req.Value,
		MinOrderAmount:       req.MinOrderAmount,
		MaxDiscountAmount:    req.MaxDiscountAmount,
		UsageLimit:           req.UsageLimit,
		UsedCount:            0,
		UserUsageLimit:       req.UserUsageLimit,
		ApplicableProducts:   req.ApplicableProducts,
		ApplicableCategories: req.ApplicableCategories,
		ValidFrom:            req.ValidFrom,
		ValidUntil:           req.ValidUntil,
		IsActive:             req.IsActive,
		CreatedBy:            &adminID,
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	s.couponService.InvalidateActiveCache(ctx)
	return coupon, nil
}

// validateCouponTerms 校验类型、金额与有效期
func validateCouponTerms(couponType string, value float64, validFrom, validUntil time.Time) error {
	switch couponType {
	case models.CouponTypePercentage:
		if value <= 0 || value > 100 {
			return ErrInvalidCouponValue
		}
	case models.CouponTypeFixedAmount:
		if value <= 0 {
			return ErrInvalidCouponValue
		}
	default:
		return ErrInvalidCouponType
	}

	if !validFrom.Before(validUntil) {
		return ErrInvalidTimeWindow
	}

	return nil
}

// UpdateCoupon 更新优惠券字段。used_count 仅由核销事务维护，
// 补丁中的该字段一律剥除。
func (s *CouponAdminService) UpdateCoupon(ctx context.Context, id int64, fields map[string]interface{}) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	delete(fields, "used_count")
	delete(fields, "id")
	delete(fields, "created_at")

	if code, ok := fields["code"].(string); ok {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			return nil, ErrCouponCodeRequired
		}
		if code != coupon.Code {
			exists, err := s.couponRepo.ExistsByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrCouponCodeExists
			}
		}
		fields["code"] = code
	}

	if len(fields) > 0 {
		if err := s.couponRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	s.couponService.InvalidateActiveCache(ctx)
	return s.couponRepo.GetByID(ctx, id)
}

// SetActive 启用/停用优惠券（软下线路径）
func (s *CouponAdminService) SetActive(ctx context.Context, id int64, isActive bool) error {
	if _, err := s.couponRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.couponRepo.UpdateFields(ctx, id, map[string]interface{}{"is_active": isActive}); err != nil {
		return err
	}
	s.couponService.InvalidateActiveCache(ctx)
	return nil
}

// DeleteCoupon 硬删除优惠券。使用记录不级联删除，历史记录保留。
func (s *CouponAdminService) DeleteCoupon(ctx context.Context, id int64) error {
	if _, err := s.couponRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.couponRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.couponService.InvalidateActiveCache(ctx)
	return nil
}

// GetCoupon 获取优惠券详情
func (s *CouponAdminService) GetCoupon(ctx context.Context, id int64) (*models.Coupon, error) {
	return s.couponRepo.GetByID(ctx, id)
}

// ListCoupons 获取优惠券列表（管理端，支持筛选）
func (s *CouponAdminService) ListCoupons(ctx context.Context, params repository.CouponListParams) ([]*models.Coupon, int64, error) {
	return s.couponRepo.List(ctx, params)
}

// ListActiveCoupons 获取当前有效的优惠券列表
func (s *CouponAdminService) ListActiveCoupons(ctx context.Context, offset, limit int) ([]*models.Coupon, int64, error) {
	return s.couponRepo.ListActive(ctx, time.Now(), offset, limit)
}
