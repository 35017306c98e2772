// Package mall 提供商城服务
package mall

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/common/errors"
	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
)

// ProductService 商品服务（用户端目录）
type ProductService struct {
	productRepo  *repository.ProductRepository
	categoryRepo *repository.CategoryRepository
	bundleRepo   *repository.BundleRepository
}

// NewProductService 创建商品服务
func NewProductService(
	productRepo *repository.ProductRepository,
	categoryRepo *repository.CategoryRepository,
	bundleRepo *repository.BundleRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		bundleRepo:   bundleRepo,
	}
}

// ProductListRequest 商品列表请求
type ProductListRequest struct {
	CategorySlug string `form:"category"`
	Keyword      string `form:"keyword"`
	MinPrice     *int64 `form:"min_price"`
	MaxPrice     *int64 `form:"max_price"`
	SortBy       string `form:"sort_by"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

// ListProducts 获取在售商品列表
func (s *ProductService) ListProducts(ctx context.Context, req *ProductListRequest) ([]*models.Product, int64, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	params := repository.ProductListParams{
		Offset:   (req.Page - 1) * req.PageSize,
		Limit:    req.PageSize,
		Keyword:  req.Keyword,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		SortBy:   req.SortBy,
	}

	onSale := int8(models.ProductStatusOnSale)
	params.Status = &onSale

	if req.CategorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, req.CategorySlug)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, errors.ErrCategoryNotFound
			}
			return nil, 0, errors.ErrDatabaseError.WithError(err)
		}
		params.CategoryID = category.ID
	}

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return products, total, nil
}

// GetProduct 获取商品详情（含分类）
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.productRepo.GetByIDWithCategory(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if product.Status != models.ProductStatusOnSale {
		return nil, errors.ErrProductOffShelf
	}
	return product, nil
}

// GetProductByCode 根据商品标识获取详情
func (s *ProductService) GetProductByCode(ctx context.Context, code string) (*models.Product, error) {
	product, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if product.Status != models.ProductStatusOnSale {
		return nil, errors.ErrProductOffShelf
	}
	return product, nil
}

// ListHotProducts 获取热门商品
func (s *ProductService) ListHotProducts(ctx context.Context, limit int) ([]*models.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	products, err := s.productRepo.ListHot(ctx, limit)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return products, nil
}

// ListNewProducts 获取新品
func (s *ProductService) ListNewProducts(ctx context.Context, limit int) ([]*models.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	products, err := s.productRepo.ListNew(ctx, limit)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return products, nil
}

// GetCategoryTree 获取分类树（用户端导航）
func (s *ProductService) GetCategoryTree(ctx context.Context) ([]*models.Category, error) {
	tree, err := s.categoryRepo.GetCategoryTree(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return tree, nil
}

// BundleInfo 组合套装信息
type BundleInfo struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	NameJa        string            `json:"name_ja,omitempty"`
	Description   string            `json:"description,omitempty"`
	MainImage     string            `json:"main_image"`
	Price         int64             `json:"price"`
	OriginalPrice *int64            `json:"original_price,omitempty"`
	SavedAmount   int64             `json:"saved_amount"`
	Items         []*BundleItemInfo `json:"items"`
}

// BundleItemInfo 套装内商品
type BundleItemInfo struct {
	ProductID    int64  `json:"product_id"`
	ProductCode  string `json:"product_code"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	Price        int64  `json:"price"`
	Quantity     int    `json:"quantity"`
}

// ListBundles 获取上架的组合套装列表
func (s *ProductService) ListBundles(ctx context.Context, page, pageSize int) ([]*BundleInfo, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 10
	}

	bundles, total, err := s.bundleRepo.ListActive(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	result := make([]*BundleInfo, len(bundles))
	for i, b := range bundles {
		result[i] = toBundleInfo(b)
	}
	return result, total, nil
}

// GetBundle 获取组合套装详情
func (s *ProductService) GetBundle(ctx context.Context, id int64) (*BundleInfo, error) {
	bundle, err := s.bundleRepo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBundleNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if bundle.Status != models.BundleStatusActive {
		return nil, errors.ErrBundleNotFound
	}
	return toBundleInfo(bundle), nil
}

// toBundleInfo 组装套装信息，节省金额按单品合计与套装价之差计算
func toBundleInfo(bundle *models.Bundle) *BundleInfo {
	info := &BundleInfo{
		ID:            bundle.ID,
		Name:          bundle.Name,
		Price:         bundle.Price,
		OriginalPrice: bundle.OriginalPrice,
		Items:         make([]*BundleItemInfo, 0, len(bundle.Items)),
	}
	if bundle.NameJa != nil {
		info.NameJa = *bundle.NameJa
	}
	if bundle.Description != nil {
		info.Description = *bundle.Description
	}
	if bundle.MainImage != nil {
		info.MainImage = *bundle.MainImage
	}

	var itemTotal int64
	for _, item := range bundle.Items {
		itemInfo := &BundleItemInfo{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			itemInfo.ProductCode = item.Product.Code
			itemInfo.ProductName = item.Product.Name
			itemInfo.ProductImage = item.Product.MainImage
			itemInfo.Price = item.Product.Price
			itemTotal += item.Product.Price * int64(item.Quantity)
		}
		info.Items = append(info.Items, itemInfo)
	}

	if itemTotal > bundle.Price {
		info.SavedAmount = itemTotal - bundle.Price
	}
	return info
}
