// Package scheduler 提供定时任务
package scheduler

import (
	"context"
	"time"

	"github.com/injapanfood/injapanfood-backend/internal/common/config"
	"github.com/injapanfood/injapanfood-backend/internal/common/logger"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
	orderService "github.com/injapanfood/injapanfood-backend/internal/service/order"
)

// 单次扫描的处理上限，避免长事务
const expiredOrderBatchSize = 100

// TaskHandler 任务处理器
type TaskHandler struct {
	couponRepo      *repository.CouponRepository
	checkoutService *orderService.CheckoutService
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(
	couponRepo *repository.CouponRepository,
	checkoutSvc *orderService.CheckoutService,
) *TaskHandler {
	return &TaskHandler{
		couponRepo:      couponRepo,
		checkoutService: checkoutSvc,
	}
}

// CancelExpiredOrders 取消超时未支付的订单并回滚库存与优惠券
func (h *TaskHandler) CancelExpiredOrders(ctx context.Context) error {
	cancelled, err := h.checkoutService.CancelExpiredOrders(ctx, expiredOrderBatchSize)
	if err != nil {
		return err
	}

	if cancelled > 0 {
		logger.Info("已取消超时未支付订单",
			logger.Module("scheduler"),
			logger.Int("count", cancelled),
		)
	}
	return nil
}

// DeactivateExpiredCoupons 停用已过有效期的优惠券
func (h *TaskHandler) DeactivateExpiredCoupons(ctx context.Context) error {
	affected, err := h.couponRepo.DeactivateExpired(ctx, time.Now())
	if err != nil {
		return err
	}

	if affected > 0 {
		logger.Info("已停用过期优惠券",
			logger.Module("scheduler"),
			logger.Int64("count", affected),
		)
	}
	return nil
}

// SetupTasks 按业务配置注册所有任务
func SetupTasks(scheduler *Scheduler, handler *TaskHandler, cfg *config.BusinessConfig) {
	orderInterval := time.Duration(cfg.Order.TimeoutCheckInterval) * time.Minute
	if orderInterval <= 0 {
		orderInterval = time.Minute
	}
	couponInterval := time.Duration(cfg.Coupon.ExpireSweepInterval) * time.Minute
	if couponInterval <= 0 {
		couponInterval = 10 * time.Minute
	}

	scheduler.AddTask("CancelExpiredOrders", orderInterval, handler.CancelExpiredOrders)
	scheduler.AddTask("DeactivateExpiredCoupons", couponInterval, handler.DeactivateExpiredCoupons)
}
