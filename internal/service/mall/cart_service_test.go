// Package mall 购物车服务单元测试
package mall

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/injapanfood/injapanfood-backend/internal/common/errors"
	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
)

// setupMallTestDB 创建商城测试数据库
func setupMallTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Bundle{},
		&models.BundleItem{},
	)
	require.NoError(t, err)

	return db
}

func newCartService(db *gorm.DB) *CartService {
	return NewCartService(
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
	)
}

var mallSeq int64

func createMallUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Email:        fmt.Sprintf("mall-%d@example.com", atomic.AddInt64(&mallSeq, 1)),
		PasswordHash: "hash",
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createMallCategory 按 slug 查找或创建分类
func createMallCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()

	var category models.Category
	if err := db.Where("slug = ?", slug).First(&category).Error; err == nil {
		return &category
	}

	category = models.Category{
		Slug:   slug,
		Name:   "分类 " + slug,
		Status: models.CategoryStatusActive,
	}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

func createMallProduct(t *testing.T, db *gorm.DB, opts ...func(*models.Product)) *models.Product {
	t.Helper()

	category := createMallCategory(t, db, "snacks")
	product := &models.Product{
		CategoryID: category.ID,
		Code:       fmt.Sprintf("mall-product-%d", atomic.AddInt64(&mallSeq, 1)),
		Name:       "抹茶奇巧",
		MainImage:  "https://cdn.example.com/matcha.jpg",
		Price:      980,
		Stock:      20,
		Status:     models.ProductStatusOnSale,
	}
	for _, opt := range opts {
		opt(product)
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestCartService_AddItem(t *testing.T) {
	db := setupMallTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	user := createMallUser(t, db)
	product := createMallProduct(t, db)

	t.Run("添加新商品", func(t *testing.T) {
		err := svc.AddItem(ctx, user.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 2})
		require.NoError(t, err)

		var item models.CartItem
		require.NoError(t, db.Where("user_id = ? AND product_id = ?", user.ID, product.ID).First(&item).Error)
		assert.Equal(t, 2, item.Quantity)
		assert.True(t, item.Selected)
	})

	t.Run("重复添加合并数量", func(t *testing.T) {
		err := svc.AddItem(ctx, user.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 3})
		require.NoError(t, err)

		var item models.CartItem
		require.NoError(t, db.Where("user_id = ? AND product_id = ?", user.ID, product.ID).First(&item).Error)
		assert.Equal(t, 5, item.Quantity)

		var count int64
		db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("合并后超出库存", func(t *testing.T) {
		// 已有 5 件，库存 20，再加 16 件超出
		err := svc.AddItem(ctx, user.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 16})
		assert.ErrorIs(t, err, errors.ErrStockInsufficient)
	})

	t.Run("库存不足", func(t *testing.T) {
		low := createMallProduct(t, db, func(p *models.Product) { p.Stock = 1 })
		err := svc.AddItem(ctx, user.ID, &AddCartItemRequest{ProductID: low.ID, Quantity: 2})
		assert.ErrorIs(t, err, errors.ErrStockInsufficient)
	})

	t.Run("商品已下架", func(t *testing.T) {
		off := createMallProduct(t, db, func(p *models.Product) { p.Status = models.ProductStatusOffSale })
		err := svc.AddItem(ctx, user.ID, &AddCartItemRequest{ProductID: off.ID, Quantity: 1})
		assert.ErrorIs(t, err, errors.ErrProductOffShelf)
	})

	t.Run("商品不存在", func(t *testing.T) {
		err := svc.AddItem(ctx, user.ID, &AddCartItemRequest{ProductID: 99999, Quantity: 1})
		assert.ErrorIs(t, err, errors.ErrProductNotFound)
	})
}

func TestCartService_GetCart(t *testing.T) {
	db := setupMallTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	user := createMallUser(t, db)
	selected := createMallProduct(t, db, func(p *models.Product) { p.Price = 1200 })
	unselected := createMallProduct(t, db, func(p *models.Product) { p.Price = 500 })

	require.NoError(t, db.Create(&models.CartItem{
		UserID: user.ID, ProductID: selected.ID, Quantity: 2, Selected: true,
	}).Error)
	require.NoError(t, db.Create(&models.CartItem{
		UserID: user.ID, ProductID: unselected.ID, Quantity: 1, Selected: false,
	}).Error)

	cart, err := svc.GetCart(ctx, user.ID)
	require.NoError(t, err)

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.TotalCount)
	// 金额只统计选中项
	assert.Equal(t, 2, cart.SelectedCount)
	assert.Equal(t, int64(2400), cart.TotalAmount)

	for _, item := range cart.Items {
		if item.ProductID == selected.ID {
			assert.Equal(t, selected.Code, item.ProductCode)
			assert.Equal(t, "snacks", item.CategorySlug)
			assert.Equal(t, int64(2400), item.Subtotal)
			assert.True(t, item.OnSale)
		}
	}
}

func TestCartService_UpdateItem(t *testing.T) {
	db := setupMallTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	user := createMallUser(t, db)
	other := createMallUser(t, db)
	product := createMallProduct(t, db)

	item := &models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1, Selected: true}
	require.NoError(t, db.Create(item).Error)

	t.Run("更新数量", func(t *testing.T) {
		err := svc.UpdateItem(ctx, user.ID, item.ID, &UpdateCartItemRequest{Quantity: 3})
		require.NoError(t, err)

		var found models.CartItem
		db.First(&found, item.ID)
		assert.Equal(t, 3, found.Quantity)
		assert.True(t, found.Selected)
	})

	t.Run("更新选中状态", func(t *testing.T) {
		selected := false
		err := svc.UpdateItem(ctx, user.ID, item.ID, &UpdateCartItemRequest{Selected: &selected})
		require.NoError(t, err)

		var found models.CartItem
		db.First(&found, item.ID)
		assert.False(t, found.Selected)
		assert.Equal(t, 3, found.Quantity)
	})

	t.Run("非本人购物车项", func(t *testing.T) {
		err := svc.UpdateItem(ctx, other.ID, item.ID, &UpdateCartItemRequest{Quantity: 9})
		assert.ErrorIs(t, err, errors.ErrCartItemNotFound)
	})

	t.Run("购物车项不存在", func(t *testing.T) {
		err := svc.UpdateItem(ctx, user.ID, 99999, &UpdateCartItemRequest{Quantity: 1})
		assert.ErrorIs(t, err, errors.ErrCartItemNotFound)
	})
}

func TestCartService_RemoveItem(t *testing.T) {
	db := setupMallTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	user := createMallUser(t, db)
	other := createMallUser(t, db)
	product := createMallProduct(t, db)

	item := &models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1, Selected: true}
	require.NoError(t, db.Create(item).Error)

	t.Run("非本人不可删除", func(t *testing.T) {
		err := svc.RemoveItem(ctx, other.ID, item.ID)
		assert.ErrorIs(t, err, errors.ErrCartItemNotFound)
	})

	t.Run("删除成功", func(t *testing.T) {
		require.NoError(t, svc.RemoveItem(ctx, user.ID, item.ID))

		var count int64
		db.Model(&models.CartItem{}).Where("id = ?", item.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

func TestCartService_BatchOperations(t *testing.T) {
	db := setupMallTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	user := createMallUser(t, db)
	p1 := createMallProduct(t, db)
	p2 := createMallProduct(t, db)
	p3 := createMallProduct(t, db)

	items := make([]*models.CartItem, 0, 3)
	for _, p := range []*models.Product{p1, p2, p3} {
		item := &models.CartItem{UserID: user.ID, ProductID: p.ID, Quantity: 2, Selected: true}
		require.NoError(t, db.Create(item).Error)
		items = append(items, item)
	}

	t.Run("获取商品总数量", func(t *testing.T) {
		count, err := svc.GetCartCount(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, count)
	})

	t.Run("取消全选", func(t *testing.T) {
		require.NoError(t, svc.SelectAll(ctx, user.ID, false))

		var count int64
		db.Model(&models.CartItem{}).Where("user_id = ? AND selected = ?", user.ID, true).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("批量移除", func(t *testing.T) {
		err := svc.RemoveItems(ctx, user.ID, []int64{items[0].ID, items[1].ID})
		require.NoError(t, err)

		var count int64
		db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("清空购物车", func(t *testing.T) {
		require.NoError(t, svc.ClearCart(ctx, user.ID))

		var count int64
		db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}
