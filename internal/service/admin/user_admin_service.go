// Package admin 提供管理端服务
package admin

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/common/errors"
	"github.com/injapanfood/injapanfood-backend/internal/common/logger"
	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
)

// UserAdminService 用户管理服务
type UserAdminService struct {
	userRepo  *repository.UserRepository
	orderRepo *repository.OrderRepository
	usageRepo *repository.CouponUsageRepository
}

// NewUserAdminService 创建用户管理服务
func NewUserAdminService(
	userRepo *repository.UserRepository,
	orderRepo *repository.OrderRepository,
	usageRepo *repository.CouponUsageRepository,
) *UserAdminService {
	return &UserAdminService{
		userRepo:  userRepo,
		orderRepo: orderRepo,
		usageRepo: usageRepo,
	}
}

// UserListRequest 用户列表查询
type UserListRequest struct {
	Email    string `form:"email"`
	Status   *int8  `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ListUsers 获取用户列表
func (s *UserAdminService) ListUsers(ctx context.Context, req *UserListRequest) ([]*models.User, int64, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	filters := make(map[string]interface{})
	if req.Email != "" {
		filters["email"] = req.Email
	}
	if req.Status != nil {
		filters["status"] = *req.Status
	}

	users, total, err := s.userRepo.List(ctx, (req.Page-1)*req.PageSize, req.PageSize, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return users, total, nil
}

// UserDetail 用户详情（含订单统计与优惠券使用记录）
type UserDetail struct {
	User         *models.User          `json:"user"`
	OrderCounts  map[int8]int64        `json:"order_counts"`
	CouponUsages []*models.CouponUsage `json:"coupon_usages"`
}

// GetUserDetail 获取用户详情
func (s *UserAdminService) GetUserDetail(ctx context.Context, userID int64) (*UserDetail, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	counts, err := s.orderRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	usages, _, err := s.usageRepo.ListByUser(ctx, userID, 0, 20)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return &UserDetail{
		User:         user,
		OrderCounts:  counts,
		CouponUsages: usages,
	}, nil
}

// SetUserStatus 启用/禁用用户
func (s *UserAdminService) SetUserStatus(ctx context.Context, userID int64, status int8) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if err := s.userRepo.UpdateStatus(ctx, userID, status); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	logger.Info("用户状态变更", logger.UserID(userID))
	return nil
}
