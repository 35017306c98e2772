// Package order 提供订单相关服务
package order

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/common/errors"
	"github.com/injapanfood/injapanfood-backend/internal/common/logger"
	"github.com/injapanfood/injapanfood-backend/internal/common/utils"
	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
	"github.com/injapanfood/injapanfood-backend/internal/service/marketing"
)

// 待支付订单超时时长
const pendingOrderTTL = 30 * time.Minute

// CheckoutService 结算服务。校验在预览与下单时调用，核销只在支付确认后
// 执行一次；两者之间的竞态由核销服务兜底。
type CheckoutService struct {
	db          *gorm.DB
	orderRepo   *repository.OrderRepository
	cartRepo    *repository.CartRepository
	productRepo *repository.ProductRepository
	addressRepo *repository.AddressRepository
	calculator  *DiscountCalculator
	redemption  *marketing.RedemptionService
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	db *gorm.DB,
	orderRepo *repository.OrderRepository,
	cartRepo *repository.CartRepository,
	productRepo *repository.ProductRepository,
	addressRepo *repository.AddressRepository,
	calculator *DiscountCalculator,
	redemption *marketing.RedemptionService,
) *CheckoutService {
	return &CheckoutService{
		db:          db,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		addressRepo: addressRepo,
		calculator:  calculator,
		redemption:  redemption,
	}
}

// Preview 结算预览：对选中的购物车项计价，券不符合条件时返回原因而非报错
func (s *CheckoutService) Preview(ctx context.Context, userID int64, couponCode string) (*PricingResult, error) {
	items, err := s.cartRepo.ListSelectedByUserID(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.calculator.Price(ctx, userID, items, couponCode)
}

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	AddressID  int64  `json:"address_id" binding:"required"`
	CouponCode string `json:"coupon_code"`
	Remark     string `json:"remark"`
}

// PlaceOrder 从选中的购物车项创建待支付订单。下单时重新校验优惠券并
// 快照券信息，但不递增使用计数；计数在支付确认时核销。
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID int64, req *PlaceOrderRequest) (*models.Order, error) {
	if _, err := s.addressRepo.GetByIDAndUser(ctx, req.AddressID, userID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrAddressNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	items, err := s.cartRepo.ListSelectedByUserID(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	pricing, err := s.calculator.Price(ctx, userID, items, req.CouponCode)
	if err != nil {
		return nil, err
	}
	// 下单时券必须有效；预览阶段允许无效只是为了回显原因
	if req.CouponCode != "" && !pricing.CouponApplied {
		return nil, errors.ErrCouponNotApplicable.WithMessage(pricing.CouponReason)
	}

	var order *models.Order

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderTx := s.orderRepo.WithTx(tx)
		productTx := repository.NewProductRepository(tx)
		cartTx := repository.NewCartRepository(tx)

		for _, item := range items {
			if err := productTx.DecreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
				if stderrors.Is(err, gorm.ErrRecordNotFound) {
					return errors.ErrStockInsufficient.WithMessage("商品 " + item.Product.Name + " 库存不足")
				}
				return err
			}
		}

		expiredAt := time.Now().Add(pendingOrderTTL)
		order = &models.Order{
			OrderNo:        utils.GenerateOrderNo("IJ"),
			UserID:         userID,
			Status:         models.OrderStatusPending,
			TotalAmount:    pricing.Subtotal,
			DiscountAmount: pricing.DiscountAmount,
			ShippingFee:    pricing.ShippingFee,
			ActualAmount:   pricing.Total,
			AddressID:      &req.AddressID,
			ExpiredAt:      &expiredAt,
		}
		if pricing.Coupon != nil {
			order.CouponID = &pricing.Coupon.ID
			order.CouponCode = &pricing.Coupon.Code
		}
		if req.Remark != "" {
			order.Remark = &req.Remark
		}

		if err := orderTx.Create(ctx, order); err != nil {
			return err
		}

		orderItems := make([]*models.OrderItem, len(items))
		for i, item := range items {
			categorySlug := ""
			if item.Product.Category != nil {
				categorySlug = item.Product.Category.Slug
			}
			orderItems[i] = &models.OrderItem{
				OrderID:      order.ID,
				ProductID:    item.ProductID,
				ProductCode:  item.Product.Code,
				ProductName:  item.Product.Name,
				CategorySlug: categorySlug,
				ProductImage: &item.Product.MainImage,
				Price:        item.Product.Price,
				Quantity:     item.Quantity,
				TotalAmount:  item.Product.Price * int64(item.Quantity),
			}
		}
		if err := orderTx.CreateOrderItems(ctx, orderItems); err != nil {
			return err
		}

		return cartTx.DeleteSelected(ctx, userID)
	})

	if err != nil {
		return nil, err
	}

	logger.Info("订单创建成功",
		logger.OrderNo(order.OrderNo),
		logger.UserID(userID),
		logger.Amount(order.ActualAmount))
	return order, nil
}

// ConfirmPayment 支付确认。先核销优惠券（幂等，以 orderID 去重），成功后
// 标记已支付并累计销量。核销竞态失败向上返回，调用方需重新计价订单。
func (s *CheckoutService) ConfirmPayment(ctx context.Context, userID, orderID int64) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrOrderNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if order.UserID != userID {
		return errors.ErrOrderNotFound
	}
	if order.Status != models.OrderStatusPending {
		if order.Status == models.OrderStatusPaid {
			return nil
		}
		return errors.ErrOrderStatusError
	}
	if order.ExpiredAt != nil && time.Now().After(*order.ExpiredAt) {
		return errors.ErrOrderExpired
	}

	// 核销在状态流转之前：核销失败则订单保持待支付，可重新计价
	if order.CouponID != nil {
		if err := s.redemption.Redeem(ctx, *order.CouponID, order.UserID, order.ID, order.DiscountAmount); err != nil {
			if stderrors.Is(err, marketing.ErrUsageLimitExhausted) {
				return errors.ErrCouponUsageLimit
			}
			if stderrors.Is(err, marketing.ErrUserUsageLimitExhausted) {
				return errors.ErrCouponUserLimit
			}
			return errors.ErrDatabaseError.WithError(err)
		}
	}

	now := time.Now()
	if err := s.orderRepo.UpdateFields(ctx, orderID, map[string]interface{}{
		"status":  models.OrderStatusPaid,
		"paid_at": now,
	}); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	items, err := s.orderRepo.GetByIDWithItems(ctx, orderID)
	if err == nil {
		for _, item := range items.Items {
			if err := s.productRepo.IncreaseSales(ctx, item.ProductID, item.Quantity); err != nil {
				logger.Warn("累计销量失败", logger.OrderID(orderID))
			}
		}
	}

	logger.Info("订单支付确认", logger.OrderNo(order.OrderNo), logger.UserID(userID))
	return nil
}

// CancelOrder 取消待支付订单并恢复库存
func (s *CheckoutService) CancelOrder(ctx context.Context, userID, orderID int64, reason string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrOrderNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if order.UserID != userID {
		return errors.ErrOrderNotFound
	}
	if order.Status != models.OrderStatusPending {
		return errors.ErrOrderCannotCancel
	}

	return s.cancelInTx(ctx, orderID, reason)
}

// CancelExpiredOrders 取消已超时的待支付订单（调度任务入口）
func (s *CheckoutService) CancelExpiredOrders(ctx context.Context, limit int) (int, error) {
	orders, err := s.orderRepo.GetExpiredPending(ctx, limit)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, o := range orders {
		if err := s.cancelInTx(ctx, o.ID, "支付超时自动取消"); err != nil {
			logger.Warn("超时订单取消失败", logger.OrderNo(o.OrderNo))
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

func (s *CheckoutService) cancelInTx(ctx context.Context, orderID int64, reason string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderTx := s.orderRepo.WithTx(tx)
		productTx := repository.NewProductRepository(tx)

		// 行锁防止取消与支付确认并发
		order, err := orderTx.GetForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != models.OrderStatusPending {
			return errors.ErrOrderCannotCancel
		}

		full, err := orderTx.GetByIDWithItems(ctx, orderID)
		if err != nil {
			return err
		}
		for _, item := range full.Items {
			if err := productTx.IncreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		now := time.Now()
		return orderTx.UpdateFields(ctx, orderID, map[string]interface{}{
			"status":        models.OrderStatusCancelled,
			"cancelled_at":  now,
			"cancel_reason": reason,
		})
	})
}

// GetOrder 获取用户订单详情
func (s *CheckoutService) GetOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDWithItems(ctx, orderID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if order.UserID != userID {
		return nil, errors.ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 获取用户订单列表
func (s *CheckoutService) ListOrders(ctx context.Context, userID int64, status *int8, page, pageSize int) ([]*models.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return s.orderRepo.ListByUser(ctx, userID, (page-1)*pageSize, pageSize, status)
}
