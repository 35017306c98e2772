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

// ProductAdminService 商品管理服务（商品、分类、套装）
type ProductAdminService struct {
	productRepo  *repository.ProductRepository
	categoryRepo *repository.CategoryRepository
	bundleRepo   *repository.BundleRepository
}

// NewProductAdminService 创建商品管理服务
func NewProductAdminService(
	productRepo *repository.ProductRepository,
	categoryRepo *repository.CategoryRepository,
	bundleRepo *repository.BundleRepository,
) *ProductAdminService {
	return &ProductAdminService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		bundleRepo:   bundleRepo,
	}
}

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	CategoryID    int64   `json:"category_id" binding:"required"`
	Code          string  `json:"code" binding:"required,max=64"`
	Name          string  `json:"name" binding:"required,max=200"`
	NameJa        *string `json:"name_ja"`
	Subtitle      *string `json:"subtitle"`
	MainImage     string  `json:"main_image" binding:"required"`
	Description   *string `json:"description"`
	Brand         *string `json:"brand"`
	Price         int64   `json:"price" binding:"required,min=1"`
	OriginalPrice *int64  `json:"original_price"`
	Stock         int     `json:"stock" binding:"min=0"`
	IsHot         bool    `json:"is_hot"`
	IsNew         bool    `json:"is_new"`
	Sort          int     `json:"sort"`
}

// CreateProduct 创建商品（草稿状态）
func (s *ProductAdminService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if _, err := s.productRepo.GetByCode(ctx, req.Code); err == nil {
		return nil, errors.ErrAlreadyExists.WithMessage("商品编码已存在")
	} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	product := &models.Product{
		CategoryID:    req.CategoryID,
		Code:          req.Code,
		Name:          req.Name,
		NameJa:        req.NameJa,
		Subtitle:      req.Subtitle,
		MainImage:     req.MainImage,
		Description:   req.Description,
		Brand:         req.Brand,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Stock:         req.Stock,
		IsHot:         req.IsHot,
		IsNew:         req.IsNew,
		Sort:          req.Sort,
		Status:        models.ProductStatusDraft,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return product, nil
}

// UpdateProduct 更新商品字段
func (s *ProductAdminService) UpdateProduct(ctx context.Context, id int64, fields map[string]interface{}) (*models.Product, error) {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	// 编码与销量不允许在此修改
	delete(fields, "code")
	delete(fields, "sales")
	delete(fields, "id")
	delete(fields, "created_at")

	if len(fields) > 0 {
		if err := s.productRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}
	return s.productRepo.GetByID(ctx, id)
}

// SetProductStatus 上架/下架商品
func (s *ProductAdminService) SetProductStatus(ctx context.Context, id int64, status int8) error {
	fields := map[string]interface{}{"status": status}
	if status == models.ProductStatusOnSale {
		fields["published_at"] = time.Now()
	}
	if err := s.productRepo.UpdateFields(ctx, id, fields); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// DeleteProduct 删除商品
func (s *ProductAdminService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListProducts 管理端商品列表（含未上架）
func (s *ProductAdminService) ListProducts(ctx context.Context, params repository.ProductListParams) ([]*models.Product, int64, error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return products, total, nil
}

// GetProduct 获取商品详情
func (s *ProductAdminService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.productRepo.GetByIDWithCategory(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return product, nil
}

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	ParentID *int64  `json:"parent_id"`
	Slug     string  `json:"slug" binding:"required,max=50"`
	Name     string  `json:"name" binding:"required,max=50"`
	NameJa   *string `json:"name_ja"`
	Image    *string `json:"image"`
	Sort     int     `json:"sort"`
}

// CreateCategory 创建分类
func (s *ProductAdminService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error) {
	if _, err := s.categoryRepo.GetBySlug(ctx, req.Slug); err == nil {
		return nil, errors.ErrAlreadyExists.WithMessage("分类标识已存在")
	} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if req.ParentID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.ParentID); err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.ErrCategoryNotFound
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}

	category := &models.Category{
		ParentID: req.ParentID,
		Slug:     req.Slug,
		Name:     req.Name,
		NameJa:   req.NameJa,
		Image:    req.Image,
		Sort:     req.Sort,
		Status:   models.CategoryStatusActive,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return category, nil
}

// UpdateCategory 更新分类字段
func (s *ProductAdminService) UpdateCategory(ctx context.Context, id int64, fields map[string]interface{}) error {
	delete(fields, "id")
	delete(fields, "slug")
	if len(fields) == 0 {
		return nil
	}
	if err := s.categoryRepo.UpdateFields(ctx, id, fields); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// DeleteCategory 删除分类。有商品或子分类时拒绝。
func (s *ProductAdminService) DeleteCategory(ctx context.Context, id int64) error {
	hasProducts, err := s.categoryRepo.HasProducts(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if hasProducts {
		return errors.ErrOperationFailed.WithMessage("分类下存在商品，不可删除")
	}

	hasChildren, err := s.categoryRepo.HasChildren(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if hasChildren {
		return errors.ErrOperationFailed.WithMessage("分类下存在子分类，不可删除")
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// BundleItemRequest 套装内商品
type BundleItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// CreateBundleRequest 创建套装请求
type CreateBundleRequest struct {
	Name          string              `json:"name" binding:"required,max=200"`
	NameJa        *string             `json:"name_ja"`
	Description   *string             `json:"description"`
	MainImage     *string             `json:"main_image"`
	Price         int64               `json:"price" binding:"required,min=1"`
	OriginalPrice *int64              `json:"original_price"`
	Sort          int                 `json:"sort"`
	Items         []BundleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateBundle 创建组合套装（默认下架状态）
func (s *ProductAdminService) CreateBundle(ctx context.Context, req *CreateBundleRequest) (*models.Bundle, error) {
	for _, item := range req.Items {
		if _, err := s.productRepo.GetByID(ctx, item.ProductID); err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.ErrProductNotFound
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}

	bundle := &models.Bundle{
		Name:          req.Name,
		NameJa:        req.NameJa,
		Description:   req.Description,
		MainImage:     req.MainImage,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Sort:          req.Sort,
		Status:        models.BundleStatusDisabled,
	}
	if err := s.bundleRepo.Create(ctx, bundle); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	items := make([]*models.BundleItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = &models.BundleItem{
			BundleID:  bundle.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	if err := s.bundleRepo.ReplaceItems(ctx, bundle.ID, items); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return s.bundleRepo.GetByID(ctx, bundle.ID)
}

// UpdateBundleItems 替换套装内商品
func (s *ProductAdminService) UpdateBundleItems(ctx context.Context, bundleID int64, reqItems []BundleItemRequest) error {
	if _, err := s.bundleRepo.GetByID(ctx, bundleID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrBundleNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	items := make([]*models.BundleItem, len(reqItems))
	for i, item := range reqItems {
		items[i] = &models.BundleItem{
			BundleID:  bundleID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	if err := s.bundleRepo.ReplaceItems(ctx, bundleID, items); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// SetBundleStatus 上架/下架套装
func (s *ProductAdminService) SetBundleStatus(ctx context.Context, id int64, status int8) error {
	if err := s.bundleRepo.UpdateFields(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// DeleteBundle 删除套装
func (s *ProductAdminService) DeleteBundle(ctx context.Context, id int64) error {
	if err := s.bundleRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListBundles 管理端套装列表
func (s *ProductAdminService) ListBundles(ctx context.Context, page, pageSize int, status *int8) ([]*models.Bundle, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	bundles, total, err := s.bundleRepo.List(ctx, (page-1)*pageSize, pageSize, status)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return bundles, total, nil
}
