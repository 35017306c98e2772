// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/models"
)

// CategoryRepository 商品分类仓储
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create 创建分类
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// GetByID 根据 ID 获取分类
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetBySlug 根据 slug 获取分类
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Update 更新分类
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// UpdateFields 更新指定字段
func (r *CategoryRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除分类
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, id).Error
}

// List 获取分类列表
func (r *CategoryRepository) List(ctx context.Context, filters map[string]interface{}) ([]*models.Category, error) {
	var categories []*models.Category

	query := r.db.WithContext(ctx).Model(&models.Category{})

	// 过滤条件
	if parentID, ok := filters["parent_id"]; ok {
		if parentID == nil {
			query = query.Where("parent_id IS NULL")
		} else {
			query = query.Where("parent_id = ?", parentID)
		}
	}
	if status, ok := filters["status"].(int8); ok {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("sort DESC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}

// ListActive 获取启用的分类列表
func (r *CategoryRepository) ListActive(ctx context.Context) ([]*models.Category, error) {
	return r.List(ctx, map[string]interface{}{"status": int8(models.CategoryStatusActive)})
}

// ListRootCategories 获取顶级分类（parent_id = NULL）
func (r *CategoryRepository) ListRootCategories(ctx context.Context) ([]*models.Category, error) {
	return r.List(ctx, map[string]interface{}{"parent_id": nil, "status": int8(models.CategoryStatusActive)})
}

// GetCategoryTree 获取完整分类树
func (r *CategoryRepository) GetCategoryTree(ctx context.Context) ([]*models.Category, error) {
	// 获取所有启用的分类
	var categories []*models.Category
	if err := r.db.WithContext(ctx).
		Where("status = ?", models.CategoryStatusActive).
		Order("sort DESC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}

	// 构建树结构
	categoryMap := make(map[int64]*models.Category)
	for _, cat := range categories {
		categoryMap[cat.ID] = cat
	}

	var roots []*models.Category
	for _, cat := range categories {
		if cat.ParentID == nil {
			roots = append(roots, cat)
		} else if parent, ok := categoryMap[*cat.ParentID]; ok {
			parent.Children = append(parent.Children, *cat)
		}
	}

	return roots, nil
}

// HasProducts 检查分类是否有商品
func (r *CategoryRepository) HasProducts(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", id).Count(&count).Error
	return count > 0, err
}

// HasChildren 检查分类是否有子分类
func (r *CategoryRepository) HasChildren(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("parent_id = ?", id).Count(&count).Error
	return count > 0, err
}
