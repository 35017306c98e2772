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

// CartService 购物车服务
type CartService struct {
	cartRepo    *repository.CartRepository
	productRepo *repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo *repository.CartRepository, productRepo *repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CartItemInfo 购物车项信息
type CartItemInfo struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product_id"`
	ProductCode  string `json:"product_code"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	CategorySlug string `json:"category_slug,omitempty"`
	Price        int64  `json:"price"`
	Quantity     int    `json:"quantity"`
	Subtotal     int64  `json:"subtotal"`
	Selected     bool   `json:"selected"`
	Stock        int    `json:"stock"`
	OnSale       bool   `json:"on_sale"`
}

// CartInfo 购物车信息
type CartInfo struct {
	Items         []*CartItemInfo `json:"items"`
	TotalCount    int             `json:"total_count"`
	SelectedCount int             `json:"selected_count"`
	TotalAmount   int64           `json:"total_amount"`
}

// AddCartItemRequest 添加购物车请求
type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest 更新购物车请求
type UpdateCartItemRequest struct {
	Quantity int   `json:"quantity"`
	Selected *bool `json:"selected"`
}

// GetCart 获取购物车
func (s *CartService) GetCart(ctx context.Context, userID int64) (*CartInfo, error) {
	items, err := s.cartRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	cartInfo := &CartInfo{
		Items: make([]*CartItemInfo, 0, len(items)),
	}

	for _, item := range items {
		itemInfo := toCartItemInfo(item)
		cartInfo.Items = append(cartInfo.Items, itemInfo)
		cartInfo.TotalCount += item.Quantity

		if item.Selected {
			cartInfo.SelectedCount += item.Quantity
			cartInfo.TotalAmount += itemInfo.Subtotal
		}
	}

	return cartInfo, nil
}

// AddItem 添加商品到购物车。已有同一商品时合并数量。
func (s *CartService) AddItem(ctx context.Context, userID int64, req *AddCartItemRequest) error {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrProductNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if product.Status != models.ProductStatusOnSale {
		return errors.ErrProductOffShelf
	}
	if product.Stock < req.Quantity {
		return errors.ErrStockInsufficient
	}

	existing, err := s.cartRepo.GetByUserAndProduct(ctx, userID, req.ProductID)
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.ErrDatabaseError.WithError(err)
	}

	if existing != nil {
		if product.Stock < existing.Quantity+req.Quantity {
			return errors.ErrStockInsufficient
		}
		if err := s.cartRepo.IncrementQuantity(ctx, existing.ID, req.Quantity); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Selected:  true,
	}
	if err := s.cartRepo.Create(ctx, item); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// UpdateItem 更新购物车项数量或选中状态
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID int64, req *UpdateCartItemRequest) error {
	item, err := s.cartRepo.GetByID(ctx, itemID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrCartItemNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if item.UserID != userID {
		return errors.ErrCartItemNotFound
	}

	if req.Quantity > 0 {
		item.Quantity = req.Quantity
	}
	if req.Selected != nil {
		item.Selected = *req.Selected
	}

	if err := s.cartRepo.Update(ctx, item); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// RemoveItem 移除购物车项
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	item, err := s.cartRepo.GetByID(ctx, itemID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrCartItemNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if item.UserID != userID {
		return errors.ErrCartItemNotFound
	}

	return s.cartRepo.Delete(ctx, itemID)
}

// RemoveItems 批量移除购物车项
func (s *CartService) RemoveItems(ctx context.Context, userID int64, itemIDs []int64) error {
	return s.cartRepo.DeleteByIDs(ctx, userID, itemIDs)
}

// ClearCart 清空购物车
func (s *CartService) ClearCart(ctx context.Context, userID int64) error {
	return s.cartRepo.DeleteByUserID(ctx, userID)
}

// SelectAll 全选/取消全选
func (s *CartService) SelectAll(ctx context.Context, userID int64, selected bool) error {
	return s.cartRepo.UpdateAllSelected(ctx, userID, selected)
}

// GetCartCount 获取购物车商品总数量
func (s *CartService) GetCartCount(ctx context.Context, userID int64) (int, error) {
	count, err := s.cartRepo.SumQuantityByUserID(ctx, userID)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}
	return count, nil
}

// toCartItemInfo 转换为购物车项信息
func toCartItemInfo(item *models.CartItem) *CartItemInfo {
	info := &CartItemInfo{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Selected:  item.Selected,
	}

	if item.Product != nil {
		info.ProductCode = item.Product.Code
		info.ProductName = item.Product.Name
		info.ProductImage = item.Product.MainImage
		info.Price = item.Product.Price
		info.Stock = item.Product.Stock
		info.OnSale = item.Product.Status == models.ProductStatusOnSale
		if item.Product.Category != nil {
			info.CategorySlug = item.Product.Category.Slug
		}
	}

	info.Subtotal = info.Price * int64(info.Quantity)
	return info
}
