package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/models"
)

// BundleRepository 组合套装仓储
type BundleRepository struct {
	db *gorm.DB
}

// NewBundleRepository 创建套装仓储
func NewBundleRepository(db *gorm.DB) *BundleRepository {
	return &BundleRepository{db: db}
}

// Create 创建套装（含套装项）
func (r *BundleRepository) Create(ctx context.Context, bundle *models.Bundle) error {
	return r.db.WithContext(ctx).Create(bundle).Error
}

// GetByID 根据 ID 获取套装（包含商品）
func (r *BundleRepository) GetByID(ctx context.Context, id int64) (*models.Bundle, error) {
	var bundle models.Bundle
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&bundle, id).Error
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

// Update 更新套装
func (r *BundleRepository) Update(ctx context.Context, bundle *models.Bundle) error {
	return r.db.WithContext(ctx).Save(bundle).Error
}

// UpdateFields 更新指定字段
func (r *BundleRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Bundle{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除套装及其套装项
func (r *BundleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bundle_id = ?", id).Delete(&models.BundleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Bundle{}, id).Error
	})
}

// ReplaceItems 替换套装内商品
func (r *BundleRepository) ReplaceItems(ctx context.Context, bundleID int64, items []*models.BundleItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bundle_id = ?", bundleID).Delete(&models.BundleItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for _, item := range items {
			item.BundleID = bundleID
		}
		return tx.Create(&items).Error
	})
}

// List 获取套装列表
func (r *BundleRepository) List(ctx context.Context, offset, limit int, status *int8) ([]*models.Bundle, int64, error) {
	var bundles []*models.Bundle
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Bundle{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Items").Preload("Items.Product").
		Order("sort DESC, id DESC").Offset(offset).Limit(limit).
		Find(&bundles).Error; err != nil {
		return nil, 0, err
	}

	return bundles, total, nil
}

// ListActive 获取上架套装列表
func (r *BundleRepository) ListActive(ctx context.Context, offset, limit int) ([]*models.Bundle, int64, error) {
	status := int8(models.BundleStatusActive)
	return r.List(ctx, offset, limit, &status)
}
