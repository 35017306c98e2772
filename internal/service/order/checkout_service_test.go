// Package order 结算服务单元测试
package order

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/injapanfood/injapanfood-backend/internal/common/errors"
	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
	"github.com/injapanfood/injapanfood-backend/internal/service/marketing"
)

// setupCheckoutTestDB 创建结算测试数据库
func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.CouponUsage{},
	)
	require.NoError(t, err)

	return db
}

func newCheckoutService(db *gorm.DB) *CheckoutService {
	couponRepo := repository.NewCouponRepository(db)
	usageRepo := repository.NewCouponUsageRepository(db)
	couponService := marketing.NewCouponService(couponRepo, usageRepo, nil)

	return NewCheckoutService(
		db,
		repository.NewOrderRepository(db),
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		repository.NewAddressRepository(db),
		NewDiscountCalculator(couponService),
		marketing.NewRedemptionService(db, couponRepo, usageRepo),
	)
}

var checkoutSeq int64

func createCheckoutUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Email:        fmt.Sprintf("checkout-%d@example.com", atomic.AddInt64(&checkoutSeq, 1)),
		PasswordHash: "hash",
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCheckoutAddress(t *testing.T, db *gorm.DB, userID int64) *models.Address {
	t.Helper()

	address := &models.Address{
		UserID:        userID,
		ReceiverName:  "山田太郎",
		ReceiverPhone: "090-1234-5678",
		PostalCode:    "150-0001",
		Prefecture:    "東京都",
		City:          "渋谷区",
		AddressLine1:  "神宮前1-2-3",
		IsDefault:     true,
	}
	require.NoError(t, db.Create(address).Error)
	return address
}

// createCheckoutProduct 创建指定分类下的商品并加入用户购物车
func createCheckoutProduct(t *testing.T, db *gorm.DB, userID int64, categorySlug string, price int64, quantity int) *models.Product {
	t.Helper()

	var category models.Category
	err := db.Where("slug = ?", categorySlug).First(&category).Error
	if err != nil {
		category = models.Category{
			Slug:   categorySlug,
			Name:   "分类 " + categorySlug,
			Status: models.CategoryStatusActive,
		}
		require.NoError(t, db.Create(&category).Error)
	}

	product := &models.Product{
		CategoryID: category.ID,
		Code:       fmt.Sprintf("co-product-%d", atomic.AddInt64(&checkoutSeq, 1)),
		Name:       "测试商品",
		MainImage:  "https://cdn.example.com/p.jpg",
		Price:      price,
		Stock:      50,
		Status:     models.ProductStatusOnSale,
	}
	require.NoError(t, db.Create(product).Error)

	require.NoError(t, db.Create(&models.CartItem{
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  quantity,
		Selected:  true,
	}).Error)

	return product
}

func createCheckoutCoupon(t *testing.T, db *gorm.DB, opts ...func(*models.Coupon)) *models.Coupon {
	t.Helper()

	coupon := &models.Coupon{
		Code:       fmt.Sprintf("COCODE%d", atomic.AddInt64(&checkoutSeq, 1)),
		Name:       "结算测试券",
		Type:       models.CouponTypeFixedAmount,
		Value:      500,
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidUntil: time.Now().Add(24 * time.Hour),
		IsActive:   true,
	}

	for _, opt := range opts {
		opt(coupon)
	}

	require.NoError(t, db.Create(coupon).Error)
	return coupon
}

func TestCheckoutService_Preview(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(db)
	ctx := context.Background()

	user := createCheckoutUser(t, db)
	createCheckoutProduct(t, db, user.ID, "snacks", 3000, 2)

	t.Run("不使用优惠券", func(t *testing.T) {
		result, err := svc.Preview(ctx, user.ID, "")
		require.NoError(t, err)
		assert.Equal(t, int64(6000), result.Subtotal)
		assert.Equal(t, ShippingFee, result.ShippingFee)
		assert.Equal(t, int64(6500), result.Total)
	})

	t.Run("使用有效优惠券", func(t *testing.T) {
		coupon := createCheckoutCoupon(t, db)

		result, err := svc.Preview(ctx, user.ID, coupon.Code)
		require.NoError(t, err)
		assert.True(t, result.CouponApplied)
		assert.Equal(t, int64(500), result.DiscountAmount)
		assert.Equal(t, int64(6000), result.Total)
	})

	t.Run("券不适用时回显原因", func(t *testing.T) {
		coupon := createCheckoutCoupon(t, db, func(c *models.Coupon) {
			c.ApplicableCategories = models.StringList{"drinks"}
		})

		result, err := svc.Preview(ctx, user.ID, coupon.Code)
		require.NoError(t, err)
		assert.False(t, result.CouponApplied)
		assert.Equal(t, marketing.ReasonNotApplicableToCart, result.CouponReason)
		assert.Equal(t, int64(0), result.DiscountAmount)
	})

	t.Run("满额免运费", func(t *testing.T) {
		heavy := createCheckoutUser(t, db)
		createCheckoutProduct(t, db, heavy.ID, "snacks", 12000, 1)

		result, err := svc.Preview(ctx, heavy.ID, "")
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.ShippingFee)
		assert.Equal(t, int64(12000), result.Total)
	})

	t.Run("空购物车", func(t *testing.T) {
		empty := createCheckoutUser(t, db)
		_, err := svc.Preview(ctx, empty.ID, "")
		assert.ErrorIs(t, err, errors.ErrCartEmpty)
	})
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(db)
	ctx := context.Background()

	user := createCheckoutUser(t, db)
	address := createCheckoutAddress(t, db, user.ID)
	product := createCheckoutProduct(t, db, user.ID, "snacks", 3000, 2)
	coupon := createCheckoutCoupon(t, db)

	order, err := svc.PlaceOrder(ctx, user.ID, &PlaceOrderRequest{
		AddressID:  address.ID,
		CouponCode: coupon.Code,
		Remark:     "置き配希望",
	})
	require.NoError(t, err)

	assert.Equal(t, int8(models.OrderStatusPending), order.Status)
	assert.Equal(t, int64(6000), order.TotalAmount)
	assert.Equal(t, int64(500), order.DiscountAmount)
	assert.Equal(t, int64(6000), order.ActualAmount)
	require.NotNil(t, order.CouponID)
	assert.Equal(t, coupon.ID, *order.CouponID)
	require.NotNil(t, order.CouponCode)
	assert.Equal(t, coupon.Code, *order.CouponCode)
	require.NotNil(t, order.ExpiredAt)

	// 订单项快照商品标识与分类标识
	var items []models.OrderItem
	db.Where("order_id = ?", order.ID).Find(&items)
	require.Len(t, items, 1)
	assert.Equal(t, product.Code, items[0].ProductCode)
	assert.Equal(t, "snacks", items[0].CategorySlug)

	// 下单扣减库存但不递增券计数
	var foundProduct models.Product
	db.First(&foundProduct, product.ID)
	assert.Equal(t, 48, foundProduct.Stock)

	var foundCoupon models.Coupon
	db.First(&foundCoupon, coupon.ID)
	assert.Equal(t, 0, foundCoupon.UsedCount)

	// 选中的购物车项已清空
	var cartCount int64
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount)
	assert.Equal(t, int64(0), cartCount)
}

func TestCheckoutService_PlaceOrder_InvalidCoupon(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(db)
	ctx := context.Background()

	user := createCheckoutUser(t, db)
	address := createCheckoutAddress(t, db, user.ID)
	product := createCheckoutProduct(t, db, user.ID, "snacks", 3000, 1)

	_, err := svc.PlaceOrder(ctx, user.ID, &PlaceOrderRequest{
		AddressID:  address.ID,
		CouponCode: "NOSUCHCODE",
	})
	require.Error(t, err)

	// 下单失败不留下订单与库存变更
	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(0), orderCount)

	var foundProduct models.Product
	db.First(&foundProduct, product.ID)
	assert.Equal(t, 50, foundProduct.Stock)
}

func TestCheckoutService_PlaceOrder_AddressNotOwned(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(db)
	ctx := context.Background()

	user := createCheckoutUser(t, db)
	other := createCheckoutUser(t, db)
	otherAddress := createCheckoutAddress(t, db, other.ID)
	createCheckoutProduct(t, db, user.ID, "snacks", 3000, 1)

	_, err := svc.PlaceOrder(ctx, user.ID, &PlaceOrderRequest{AddressID: otherAddress.ID})
	assert.ErrorIs(t, err, errors.ErrAddressNotFound)
}

func TestCheckoutService_ConfirmPayment(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(db)
	ctx := context.Background()

	user := createCheckoutUser(t, db)
	address := createCheckoutAddress(t, db, user.ID)
	product := createCheckoutProduct(t, db, user.ID, "snacks", 3000, 2)
	coupon := createCheckoutCoupon(t, db)

	order, err := svc.PlaceOrder(ctx, user.ID, &PlaceOrderRequest{
		AddressID:  address.ID,
		CouponCode: coupon.Code,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmPayment(ctx, user.ID, order.ID))

	var found models.Order
	db.First(&found, order.ID)
	assert.Equal(t, int8(models.OrderStatusPaid), found.Status)
	assert.NotNil(t, found.PaidAt)

	// 核销恰好一次
	var foundCoupon models.Coupon
	db.First(&foundCoupon, coupon.ID)
	assert.Equal(t, 1, foundCoupon.UsedCount)

	var usageCount int64
	db.Model(&models.CouponUsage{}).Where("order_id = ?", order.ID).Count(&usageCount)
	assert.Equal(t, int64(1), usageCount)

	// 销量累计
	var foundProduct models.Product
	db.First(&foundProduct, product.ID)
	assert.Equal(t, 2, foundProduct.Sales)

	// 重复确认为幂等：不再递增
	require.NoError(t, svc.ConfirmPayment(ctx, user.ID, order.ID))
	db.First(&foundCoupon, coupon.ID)
	assert.Equal(t, 1, foundCoupon.UsedCount)
}

func TestCheckoutService_ConfirmPayment_RedemptionRace(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(db)
	ctx := context.Background()

	user := createCheckoutUser(t, db)
	address := createCheckoutAddress(t, db, user.ID)
	createCheckoutProduct(t, db, user.ID, "snacks", 3000, 1)

	limit := 1
	coupon := createCheckoutCoupon(t, db, func(c *models.Coupon) {
		c.UsageLimit = &limit
	})

	order, err := svc.PlaceOrder(ctx, user.ID, &PlaceOrderRequest{
		AddressID:  address.ID,
		CouponCode: coupon.Code,
	})
	require.NoError(t, err)

	// 下单与支付之间额度被其他订单抢完
	require.NoError(t, db.Model(&models.Coupon{}).
		Where("id = ?", coupon.ID).
		Update("used_count", 1).Error)

	err = svc.ConfirmPayment(ctx, user.ID, order.ID)
	assert.ErrorIs(t, err, errors.ErrCouponUsageLimit)

	// 订单保持待支付，可重新计价
	var found models.Order
	db.First(&found, order.ID)
	assert.Equal(t, int8(models.OrderStatusPending), found.Status)
}

func TestCheckoutService_CancelOrder(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(db)
	ctx := context.Background()

	user := createCheckoutUser(t, db)
	address := createCheckoutAddress(t, db, user.ID)
	product := createCheckoutProduct(t, db, user.ID, "snacks", 3000, 2)

	order, err := svc.PlaceOrder(ctx, user.ID, &PlaceOrderRequest{AddressID: address.ID})
	require.NoError(t, err)

	require.NoError(t, svc.CancelOrder(ctx, user.ID, order.ID, "不要了"))

	var found models.Order
	db.First(&found, order.ID)
	assert.Equal(t, int8(models.OrderStatusCancelled), found.Status)
	require.NotNil(t, found.CancelReason)
	assert.Equal(t, "不要了", *found.CancelReason)

	// 库存回补
	var foundProduct models.Product
	db.First(&foundProduct, product.ID)
	assert.Equal(t, 50, foundProduct.Stock)

	// 已取消订单不能支付
	err = svc.ConfirmPayment(ctx, user.ID, order.ID)
	assert.ErrorIs(t, err, errors.ErrOrderStatusError)
}

func TestCheckoutService_CancelExpiredOrders(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(db)
	ctx := context.Background()

	user := createCheckoutUser(t, db)
	address := createCheckoutAddress(t, db, user.ID)
	product := createCheckoutProduct(t, db, user.ID, "snacks", 3000, 1)

	order, err := svc.PlaceOrder(ctx, user.ID, &PlaceOrderRequest{AddressID: address.ID})
	require.NoError(t, err)

	// 把订单推到超时
	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("expired_at", past).Error)

	cancelled, err := svc.CancelExpiredOrders(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	var found models.Order
	db.First(&found, order.ID)
	assert.Equal(t, int8(models.OrderStatusCancelled), found.Status)

	var foundProduct models.Product
	db.First(&foundProduct, product.ID)
	assert.Equal(t, 50, foundProduct.Stock)
}
