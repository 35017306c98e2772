// Package admin 提供管理端服务
package admin

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/common/errors"
	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
)

// DashboardService 管理端看板服务
type DashboardService struct {
	db        *gorm.DB
	orderRepo *repository.OrderRepository
}

// NewDashboardService 创建看板服务
func NewDashboardService(db *gorm.DB, orderRepo *repository.OrderRepository) *DashboardService {
	return &DashboardService{
		db:        db,
		orderRepo: orderRepo,
	}
}

// DashboardStats 看板统计
type DashboardStats struct {
	TodayOrders    int64          `json:"today_orders"`
	TodaySales     int64          `json:"today_sales"`
	TodayUsers     int64          `json:"today_users"`
	TotalUsers     int64          `json:"total_users"`
	ProductsOnSale int64          `json:"products_on_sale"`
	ActiveCoupons  int64          `json:"active_coupons"`
	OrderCounts    map[int8]int64 `json:"order_counts"`
}

// GetStats 获取看板统计
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Order{}).
		Where("created_at >= ?", todayStart).
		Count(&stats.TodayOrders).Error; err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	// 今日销售额：已支付及之后状态的实付金额
	if err := db.Model(&models.Order{}).
		Where("created_at >= ? AND status IN ?", todayStart, []int8{
			models.OrderStatusPaid,
			models.OrderStatusShipping,
			models.OrderStatusDelivered,
			models.OrderStatusCompleted,
		}).
		Select("COALESCE(SUM(actual_amount), 0)").
		Scan(&stats.TodaySales).Error; err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if err := db.Model(&models.User{}).
		Where("created_at >= ?", todayStart).
		Count(&stats.TodayUsers).Error; err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if err := db.Model(&models.Product{}).
		Where("status = ?", models.ProductStatusOnSale).
		Count(&stats.ProductsOnSale).Error; err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if err := db.Model(&models.Coupon{}).
		Where("is_active = ? AND valid_until > ?", true, now).
		Count(&stats.ActiveCoupons).Error; err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	counts, err := s.orderRepo.CountByStatus(ctx, 0)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	stats.OrderCounts = counts

	return stats, nil
}

// CouponStats 优惠券效果统计
type CouponStats struct {
	CouponID      int64  `json:"coupon_id"`
	Code          string `json:"code"`
	UsedCount     int    `json:"used_count"`
	TotalDiscount int64  `json:"total_discount"`
	OrderCount    int64  `json:"order_count"`
}

// GetCouponStats 统计单张优惠券的核销情况
func (s *DashboardService) GetCouponStats(ctx context.Context, couponID int64) (*CouponStats, error) {
	var coupon models.Coupon
	if err := s.db.WithContext(ctx).First(&coupon, couponID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCouponNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	stats := &CouponStats{
		CouponID:  coupon.ID,
		Code:      coupon.Code,
		UsedCount: coupon.UsedCount,
	}

	if err := s.db.WithContext(ctx).Model(&models.CouponUsage{}).
		Where("coupon_id = ?", couponID).
		Select("COALESCE(SUM(discount_amount), 0)").
		Scan(&stats.TotalDiscount).Error; err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if err := s.db.WithContext(ctx).Model(&models.CouponUsage{}).
		Where("coupon_id = ?", couponID).
		Count(&stats.OrderCount).Error; err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return stats, nil
}

// SalesTrendPoint 销售趋势点
type SalesTrendPoint struct {
	Date   string `json:"date"`
	Orders int64  `json:"orders"`
	Sales  int64  `json:"sales"`
}

// GetSalesTrend 最近 N 天销售趋势
func (s *DashboardService) GetSalesTrend(ctx context.Context, days int) ([]*SalesTrendPoint, error) {
	if days <= 0 || days > 90 {
		days = 7
	}

	now := time.Now()
	points := make([]*SalesTrendPoint, 0, days)

	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)

		point := &SalesTrendPoint{Date: dayStart.Format("2006-01-02")}

		paidStatuses := []int8{
			models.OrderStatusPaid,
			models.OrderStatusShipping,
			models.OrderStatusDelivered,
			models.OrderStatusCompleted,
		}

		if err := s.db.WithContext(ctx).Model(&models.Order{}).
			Where("created_at >= ? AND created_at < ? AND status IN ?", dayStart, dayEnd, paidStatuses).
			Count(&point.Orders).Error; err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if err := s.db.WithContext(ctx).Model(&models.Order{}).
			Where("created_at >= ? AND created_at < ? AND status IN ?", dayStart, dayEnd, paidStatuses).
			Select("COALESCE(SUM(actual_amount), 0)").
			Scan(&point.Sales).Error; err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}

		points = append(points, point)
	}

	return points, nil
}
