// Package admin 提供管理端服务
package admin

import (
	"context"
	"time"

	"github.com/injapanfood/injapanfood-backend/internal/common/errors"
	"github.com/injapanfood/injapanfood-backend/internal/common/logger"
	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
)

// OperationLogService 操作审计日志服务
type OperationLogService struct {
	logRepo *repository.OperationLogRepository
}

// NewOperationLogService 创建操作日志服务
func NewOperationLogService(logRepo *repository.OperationLogRepository) *OperationLogService {
	return &OperationLogService{logRepo: logRepo}
}

// RecordRequest 记录操作
type RecordRequest struct {
	AdminID    int64
	Module     string
	Action     string
	TargetType *string
	TargetID   *int64
	BeforeData models.JSON
	AfterData  models.JSON
	IP         string
	UserAgent  *string
}

// Record 记录一条操作日志。审计失败不阻塞业务，只打日志。
func (s *OperationLogService) Record(ctx context.Context, req *RecordRequest) {
	entry := &models.OperationLog{
		AdminID:    req.AdminID,
		Module:     req.Module,
		Action:     req.Action,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		BeforeData: req.BeforeData,
		AfterData:  req.AfterData,
		IP:         req.IP,
		UserAgent:  req.UserAgent,
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		logger.Warn("操作日志写入失败",
			logger.AdminID(req.AdminID),
			logger.Module(req.Module),
			logger.Action(req.Action))
	}
}

// LogListRequest 日志列表查询
type LogListRequest struct {
	AdminID  int64  `form:"admin_id"`
	Module   string `form:"module"`
	Action   string `form:"action"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// List 获取操作日志列表
func (s *OperationLogService) List(ctx context.Context, req *LogListRequest) ([]*models.OperationLog, int64, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	logs, total, err := s.logRepo.List(ctx, repository.OperationLogListParams{
		AdminID: req.AdminID,
		Module:  req.Module,
		Action:  req.Action,
		Offset:  (req.Page - 1) * req.PageSize,
		Limit:   req.PageSize,
	})
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return logs, total, nil
}

// ListByTarget 获取某个对象的操作历史
func (s *OperationLogService) ListByTarget(ctx context.Context, targetType string, targetID int64, page, pageSize int) ([]*models.OperationLog, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	logs, total, err := s.logRepo.ListByTarget(ctx, targetType, targetID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return logs, total, nil
}

// GetModuleStats 最近时段各模块操作数
func (s *OperationLogService) GetModuleStats(ctx context.Context, since time.Time) (map[string]int64, error) {
	stats, err := s.logRepo.GetModuleStats(ctx, since)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return stats, nil
}

// Cleanup 清理指定时间之前的日志，返回删除条数
func (s *OperationLogService) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	deleted, err := s.logRepo.DeleteBefore(ctx, before)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}
	return deleted, nil
}
