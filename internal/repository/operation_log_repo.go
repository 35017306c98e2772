// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/models"
)

// OperationLogRepository 管理端操作审计日志仓储
type OperationLogRepository struct {
	db *gorm.DB
}

// NewOperationLogRepository 创建操作日志仓储
func NewOperationLogRepository(db *gorm.DB) *OperationLogRepository {
	return &OperationLogRepository{db: db}
}

// Create 写入一条审计记录
func (r *OperationLogRepository) Create(ctx context.Context, log *models.OperationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// OperationLogListParams 日志列表筛选条件，零值字段不参与过滤
type OperationLogListParams struct {
	AdminID int64
	Module  string
	Action  string
	Offset  int
	Limit   int
}

// List 分页查询审计日志，按写入顺序倒序，预加载操作人
func (r *OperationLogRepository) List(ctx context.Context, params OperationLogListParams) ([]*models.OperationLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OperationLog{})

	if params.AdminID > 0 {
		query = query.Where("admin_id = ?", params.AdminID)
	}
	if params.Module != "" {
		query = query.Where("module = ?", params.Module)
	}
	if params.Action != "" {
		query = query.Where("action = ?", params.Action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*models.OperationLog
	err := query.Preload("Admin").
		Order("id DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// ListByTarget 查询针对某个对象的操作历史。
// 优惠券、商品详情页的"变更记录"面板使用。
func (r *OperationLogRepository) ListByTarget(ctx context.Context, targetType string, targetID int64, offset, limit int) ([]*models.OperationLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OperationLog{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*models.OperationLog
	err := query.Preload("Admin").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// GetModuleStats 统计 since 以来各模块的操作数
func (r *OperationLogRepository) GetModuleStats(ctx context.Context, since time.Time) (map[string]int64, error) {
	var rows []struct {
		Module string
		Count  int64
	}

	err := r.db.WithContext(ctx).Model(&models.OperationLog{}).
		Select("module, count(*) as count").
		Where("created_at >= ?", since).
		Group("module").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(rows))
	for _, row := range rows {
		stats[row.Module] = row.Count
	}
	return stats, nil
}

// DeleteBefore 删除 before 之前的日志，返回删除条数。定期清理任务调用。
func (r *OperationLogRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&models.OperationLog{})
	return result.RowsAffected, result.Error
}
