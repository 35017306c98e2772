// Package mall 商品目录服务单元测试
package mall

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/common/errors"
	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
)

func newProductService(db *gorm.DB) *ProductService {
	return NewProductService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewBundleRepository(db),
	)
}

func strPtr(s string) *string {
	return &s
}

func TestProductService_ListProducts(t *testing.T) {
	db := setupMallTestDB(t)
	svc := newProductService(db)
	ctx := context.Background()

	snacks := createMallCategory(t, db, "snacks")
	drinks := createMallCategory(t, db, "drinks")

	createMallProduct(t, db, func(p *models.Product) {
		p.Name = "抹茶奇巧"
		p.CategoryID = snacks.ID
	})
	createMallProduct(t, db, func(p *models.Product) {
		p.Name = "柚子茶"
		p.CategoryID = drinks.ID
	})
	createMallProduct(t, db, func(p *models.Product) {
		p.Name = "下架商品"
		p.CategoryID = snacks.ID
		p.Status = models.ProductStatusOffSale
	})

	t.Run("只返回在售商品", func(t *testing.T) {
		products, total, err := svc.ListProducts(ctx, &ProductListRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, p := range products {
			assert.Equal(t, int8(models.ProductStatusOnSale), p.Status)
		}
	})

	t.Run("按分类筛选", func(t *testing.T) {
		products, total, err := svc.ListProducts(ctx, &ProductListRequest{CategorySlug: "drinks"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "柚子茶", products[0].Name)
	})

	t.Run("分类不存在", func(t *testing.T) {
		_, _, err := svc.ListProducts(ctx, &ProductListRequest{CategorySlug: "no-such"})
		assert.ErrorIs(t, err, errors.ErrCategoryNotFound)
	})

	t.Run("关键词搜索", func(t *testing.T) {
		products, total, err := svc.ListProducts(ctx, &ProductListRequest{Keyword: "抹茶"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "抹茶奇巧", products[0].Name)
	})
}

func TestProductService_GetProduct(t *testing.T) {
	db := setupMallTestDB(t)
	svc := newProductService(db)
	ctx := context.Background()

	product := createMallProduct(t, db)

	t.Run("获取详情含分类", func(t *testing.T) {
		found, err := svc.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.Code, found.Code)
		require.NotNil(t, found.Category)
		assert.Equal(t, "snacks", found.Category.Slug)
	})

	t.Run("按编码获取", func(t *testing.T) {
		found, err := svc.GetProductByCode(ctx, product.Code)
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)
	})

	t.Run("商品不存在", func(t *testing.T) {
		_, err := svc.GetProduct(ctx, 99999)
		assert.ErrorIs(t, err, errors.ErrProductNotFound)
	})

	t.Run("下架商品不可见", func(t *testing.T) {
		off := createMallProduct(t, db, func(p *models.Product) { p.Status = models.ProductStatusOffSale })

		_, err := svc.GetProduct(ctx, off.ID)
		assert.ErrorIs(t, err, errors.ErrProductOffShelf)

		_, err = svc.GetProductByCode(ctx, off.Code)
		assert.ErrorIs(t, err, errors.ErrProductOffShelf)
	})
}

func TestProductService_HotAndNew(t *testing.T) {
	db := setupMallTestDB(t)
	svc := newProductService(db)
	ctx := context.Background()

	createMallProduct(t, db, func(p *models.Product) {
		p.IsHot = true
		p.Sales = 100
	})
	createMallProduct(t, db, func(p *models.Product) { p.IsNew = true })
	createMallProduct(t, db, func(p *models.Product) {
		p.IsHot = true
		p.Status = models.ProductStatusOffSale
	})

	hot, err := svc.ListHotProducts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, hot, 1)
	assert.True(t, hot[0].IsHot)

	fresh, err := svc.ListNewProducts(ctx, 0) // 非法 limit 回落默认值
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.True(t, fresh[0].IsNew)
}

func TestProductService_GetCategoryTree(t *testing.T) {
	db := setupMallTestDB(t)
	svc := newProductService(db)
	ctx := context.Background()

	parent := createMallCategory(t, db, "food")
	child := models.Category{
		ParentID: &parent.ID,
		Slug:     "food-instant",
		Name:     "方便食品",
		Status:   models.CategoryStatusActive,
	}
	require.NoError(t, db.Create(&child).Error)

	tree, err := svc.GetCategoryTree(ctx)
	require.NoError(t, err)

	var found *models.Category
	for _, node := range tree {
		if node.Slug == "food" {
			found = node
		}
	}
	require.NotNil(t, found)
	require.Len(t, found.Children, 1)
	assert.Equal(t, "food-instant", found.Children[0].Slug)
}

func TestProductService_Bundles(t *testing.T) {
	db := setupMallTestDB(t)
	svc := newProductService(db)
	ctx := context.Background()

	p1 := createMallProduct(t, db, func(p *models.Product) { p.Price = 1000 })
	p2 := createMallProduct(t, db, func(p *models.Product) { p.Price = 800 })

	bundle := &models.Bundle{
		Name:      "零食试吃套装",
		NameJa:    strPtr("お菓子お試しセット"),
		MainImage: strPtr("https://cdn.example.com/bundle.jpg"),
		Price:     2000,
		Status:    models.BundleStatusActive,
	}
	require.NoError(t, db.Create(bundle).Error)
	require.NoError(t, db.Create(&models.BundleItem{BundleID: bundle.ID, ProductID: p1.ID, Quantity: 2}).Error)
	require.NoError(t, db.Create(&models.BundleItem{BundleID: bundle.ID, ProductID: p2.ID, Quantity: 1}).Error)

	disabled := &models.Bundle{
		Name:   "已下架套装",
		Price:  500,
		Status: models.BundleStatusDisabled,
	}
	require.NoError(t, db.Create(disabled).Error)

	t.Run("列表只含上架套装", func(t *testing.T) {
		bundles, total, err := svc.ListBundles(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, bundles, 1)
		assert.Equal(t, "零食试吃套装", bundles[0].Name)
		assert.Equal(t, "お菓子お試しセット", bundles[0].NameJa)
	})

	t.Run("详情与节省金额", func(t *testing.T) {
		info, err := svc.GetBundle(ctx, bundle.ID)
		require.NoError(t, err)

		// 单品合计 1000*2 + 800 = 2800，套装价 2000
		assert.Equal(t, int64(800), info.SavedAmount)
		require.Len(t, info.Items, 2)
		for _, item := range info.Items {
			assert.NotEmpty(t, item.ProductCode)
			assert.NotEmpty(t, item.ProductName)
		}
	})

	t.Run("下架套装不可见", func(t *testing.T) {
		_, err := svc.GetBundle(ctx, disabled.ID)
		assert.ErrorIs(t, err, errors.ErrBundleNotFound)
	})

	t.Run("套装不存在", func(t *testing.T) {
		_, err := svc.GetBundle(ctx, 99999)
		assert.ErrorIs(t, err, errors.ErrBundleNotFound)
	})
}
