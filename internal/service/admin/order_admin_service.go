// Package admin 提供管理端服务
package admin

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/common/errors"
	"github.com/injapanfood/injapanfood-backend/internal/common/logger"
	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
)

// OrderAdminService 订单管理服务
type OrderAdminService struct {
	orderRepo *repository.OrderRepository
}

// NewOrderAdminService 创建订单管理服务
func NewOrderAdminService(orderRepo *repository.OrderRepository) *OrderAdminService {
	return &OrderAdminService{orderRepo: orderRepo}
}

// OrderListRequest 订单列表查询
type OrderListRequest struct {
	UserID    int64      `form:"user_id"`
	Status    *int8      `form:"status"`
	OrderNo   string     `form:"order_no"`
	CouponID  int64      `form:"coupon_id"`
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// ListOrders 获取订单列表
func (s *OrderAdminService) ListOrders(ctx context.Context, req *OrderListRequest) ([]*models.Order, int64, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	filters := make(map[string]interface{})
	if req.UserID > 0 {
		filters["user_id"] = req.UserID
	}
	if req.Status != nil {
		filters["status"] = *req.Status
	}
	if req.OrderNo != "" {
		filters["order_no"] = req.OrderNo
	}
	if req.CouponID > 0 {
		filters["coupon_id"] = req.CouponID
	}
	if req.StartDate != nil {
		filters["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		filters["end_date"] = *req.EndDate
	}

	orders, total, err := s.orderRepo.List(ctx, (req.Page-1)*req.PageSize, req.PageSize, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return orders, total, nil
}

// GetOrder 获取订单详情
func (s *OrderAdminService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDWithItems(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return order, nil
}

// ShipOrder 发货：已支付 → 配送中
func (s *OrderAdminService) ShipOrder(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.OrderStatusPaid, map[string]interface{}{
		"status":     models.OrderStatusShipping,
		"shipped_at": time.Now(),
	})
}

// DeliverOrder 送达：配送中 → 已送达
func (s *OrderAdminService) DeliverOrder(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.OrderStatusShipping, map[string]interface{}{
		"status": models.OrderStatusDelivered,
	})
}

// CompleteOrder 完成：已送达 → 已完成
func (s *OrderAdminService) CompleteOrder(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.OrderStatusDelivered, map[string]interface{}{
		"status":       models.OrderStatusCompleted,
		"completed_at": time.Now(),
	})
}

// transition 校验当前状态后流转
func (s *OrderAdminService) transition(ctx context.Context, id int64, from int8, fields map[string]interface{}) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrOrderNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if order.Status != from {
		return errors.ErrOrderStatusError
	}

	if err := s.orderRepo.UpdateFields(ctx, id, fields); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	logger.Info("订单状态流转", logger.OrderNo(order.OrderNo))
	return nil
}

// CountByStatus 统计各状态订单数量（全站）
func (s *OrderAdminService) CountByStatus(ctx context.Context) (map[int8]int64, error) {
	counts, err := s.orderRepo.CountByStatus(ctx, 0)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return counts, nil
}
