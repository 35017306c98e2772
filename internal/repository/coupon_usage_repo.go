package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/models"
)

// CouponUsageRepository 优惠券使用记录仓储
type CouponUsageRepository struct {
	db *gorm.DB
}

// NewCouponUsageRepository 创建优惠券使用记录仓储
func NewCouponUsageRepository(db *gorm.DB) *CouponUsageRepository {
	return &CouponUsageRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *CouponUsageRepository) WithTx(tx *gorm.DB) *CouponUsageRepository {
	return &CouponUsageRepository{db: tx}
}

// Create 追加使用记录
func (r *CouponUsageRepository) Create(ctx context.Context, usage *models.CouponUsage) error {
	return r.db.WithContext(ctx).Create(usage).Error
}

// GetByOrderID 根据订单 ID 获取使用记录
func (r *CouponUsageRepository) GetByOrderID(ctx context.Context, orderID int64) (*models.CouponUsage, error) {
	var usage models.CouponUsage
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&usage).Error
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

// ExistsByOrderID 判断订单是否已有使用记录
func (r *CouponUsageRepository) ExistsByOrderID(ctx context.Context, orderID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CouponUsage{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}

// CountByUserAndCoupon 统计用户对某优惠券的使用次数
func (r *CouponUsageRepository) CountByUserAndCoupon(ctx context.Context, userID, couponID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CouponUsage{}).
		Where("user_id = ? AND coupon_id = ?", userID, couponID).
		Count(&count).Error
	return count, err
}

// ListByCoupon 获取优惠券的使用历史
func (r *CouponUsageRepository) ListByCoupon(ctx context.Context, couponID int64, offset, limit int) ([]*models.CouponUsage, int64, error) {
	var usages []*models.CouponUsage
	var total int64

	query := r.db.WithContext(ctx).Model(&models.CouponUsage{}).Where("coupon_id = ?", couponID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("used_at DESC").Offset(offset).Limit(limit).Find(&usages).Error; err != nil {
		return nil, 0, err
	}

	return usages, total, nil
}

// ListByUser 获取用户的使用历史
func (r *CouponUsageRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.CouponUsage, int64, error) {
	var usages []*models.CouponUsage
	var total int64

	query := r.db.WithContext(ctx).Model(&models.CouponUsage{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Coupon").Order("used_at DESC").Offset(offset).Limit(limit).Find(&usages).Error; err != nil {
		return nil, 0, err
	}

	return usages, total, nil
}
