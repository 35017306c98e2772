// Package marketing 提供营销相关服务
package marketing

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/common/logger"
	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
)

// errOrderAlreadyRedeemed 事务内部信号：并发重放撞上 order_id 唯一索引，
// 回滚本次递增后对外按重放成功处理
var errOrderAlreadyRedeemed = errors.New("订单已核销")

// RedemptionService 优惠券核销服务。核销是校验之后的最终执行点：
// 递增 used_count 与写入使用记录在同一事务内完成，任一失败则整体回滚。
type RedemptionService struct {
	db         *gorm.DB
	couponRepo *repository.CouponRepository
	usageRepo  *repository.CouponUsageRepository
}

// NewRedemptionService 创建优惠券核销服务
func NewRedemptionService(db *gorm.DB, couponRepo *repository.CouponRepository, usageRepo *repository.CouponUsageRepository) *RedemptionService {
	return &RedemptionService{
		db:         db,
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
	}
}

// Redeem 核销优惠券。每个确认订单调用一次；同一 orderID 重复调用为幂等
// 重放，直接返回成功且不重复递增。校验与核销之间的竞态在这里最终兜底：
// 条件递增失败返回 ErrUsageLimitExhausted，用户上限超出返回
// ErrUserUsageLimitExhausted，调用方据此重新计价订单。
func (s *RedemptionService) Redeem(ctx context.Context, couponID, userID, orderID int64, discountAmount int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		usageTx := s.usageRepo.WithTx(tx)
		couponTx := s.couponRepo.WithTx(tx)

		// 幂等重放：该订单已有使用记录则不再递增
		exists, err := usageTx.ExistsByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if exists {
			return errOrderAlreadyRedeemed
		}

		coupon, err := couponTx.GetByID(ctx, couponID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCouponNotFound
			}
			return err
		}

		// 条件递增：usage_limit 已耗尽时零行受影响。
		// 该语句持有优惠券行锁，并发核销在此串行化。
		if err := couponTx.IncrementUsedCount(ctx, couponID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUsageLimitExhausted
			}
			return err
		}

		// 用户上限必须在拿到行锁之后再查：锁前读取时两笔同用户
		// 订单会读到相同的已用次数而双双通过。此处计数已串行，
		// 超限回滚即撤销上面的递增。
		if coupon.UserUsageLimit != nil {
			used, err := usageTx.CountByUserAndCoupon(ctx, userID, couponID)
			if err != nil {
				return err
			}
			if used >= int64(*coupon.UserUsageLimit) {
				return ErrUserUsageLimitExhausted
			}
		}

		if err := usageTx.Create(ctx, &models.CouponUsage{
			CouponID:       couponID,
			UserID:         userID,
			OrderID:        orderID,
			DiscountAmount: discountAmount,
		}); err != nil {
			if isDuplicateKeyError(err) {
				return errOrderAlreadyRedeemed
			}
			return err
		}

		return nil
	})

	if errors.Is(err, errOrderAlreadyRedeemed) {
		logger.Info("优惠券核销重放，按成功处理",
			logger.CouponID(couponID),
			logger.OrderID(orderID))
		return nil
	}
	return err
}

// isDuplicateKeyError 识别唯一索引冲突（postgres 与 sqlite 的报错文案不同）
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// GetUsagesByCoupon 获取优惠券的核销记录（管理端）
func (s *RedemptionService) GetUsagesByCoupon(ctx context.Context, couponID int64, offset, limit int) ([]*models.CouponUsage, int64, error) {
	return s.usageRepo.ListByCoupon(ctx, couponID, offset, limit)
}

// GetUsagesByUser 获取用户的核销记录
func (s *RedemptionService) GetUsagesByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.CouponUsage, int64, error) {
	return s.usageRepo.ListByUser(ctx, userID, offset, limit)
}
