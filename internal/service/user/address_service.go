// Package user 提供用户侧服务
package user

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/common/errors"
	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
)

// AddressService 收货地址服务（日本地址格式）
type AddressService struct {
	addressRepo *repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(addressRepo *repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// CreateAddressRequest 创建地址请求
type CreateAddressRequest struct {
	ReceiverName  string  `json:"receiver_name" binding:"required,max=50"`
	ReceiverPhone string  `json:"receiver_phone" binding:"required,max=20"`
	PostalCode    string  `json:"postal_code" binding:"required,max=10"`
	Prefecture    string  `json:"prefecture" binding:"required,max=20"`
	City          string  `json:"city" binding:"required,max=50"`
	AddressLine1  string  `json:"address_line1" binding:"required,max=255"`
	AddressLine2  *string `json:"address_line2"`
	IsDefault     bool    `json:"is_default"`
}

// UpdateAddressRequest 更新地址请求
type UpdateAddressRequest struct {
	ReceiverName  *string `json:"receiver_name"`
	ReceiverPhone *string `json:"receiver_phone"`
	PostalCode    *string `json:"postal_code"`
	Prefecture    *string `json:"prefecture"`
	City          *string `json:"city"`
	AddressLine1  *string `json:"address_line1"`
	AddressLine2  *string `json:"address_line2"`
	IsDefault     *bool   `json:"is_default"`
}

// Create 创建地址。第一个地址自动设为默认。
func (s *AddressService) Create(ctx context.Context, userID int64, req *CreateAddressRequest) (*models.Address, error) {
	count, err := s.addressRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if count >= models.AddressMaxPerUser {
		return nil, errors.ErrAddressLimit
	}

	if req.IsDefault {
		if err := s.addressRepo.ClearDefault(ctx, userID); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}
	if count == 0 {
		req.IsDefault = true
	}

	address := &models.Address{
		UserID:        userID,
		ReceiverName:  req.ReceiverName,
		ReceiverPhone: req.ReceiverPhone,
		PostalCode:    req.PostalCode,
		Prefecture:    req.Prefecture,
		City:          req.City,
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		IsDefault:     req.IsDefault,
	}
	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return address, nil
}

// GetByID 获取本人地址
func (s *AddressService) GetByID(ctx context.Context, id, userID int64) (*models.Address, error) {
	address, err := s.addressRepo.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrAddressNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return address, nil
}

// Update 更新地址
func (s *AddressService) Update(ctx context.Context, id, userID int64, req *UpdateAddressRequest) (*models.Address, error) {
	address, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.IsDefault != nil && *req.IsDefault && !address.IsDefault {
		if err := s.addressRepo.ClearDefault(ctx, userID); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}

	if req.ReceiverName != nil {
		address.ReceiverName = *req.ReceiverName
	}
	if req.ReceiverPhone != nil {
		address.ReceiverPhone = *req.ReceiverPhone
	}
	if req.PostalCode != nil {
		address.PostalCode = *req.PostalCode
	}
	if req.Prefecture != nil {
		address.Prefecture = *req.Prefecture
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.AddressLine1 != nil {
		address.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		address.AddressLine2 = req.AddressLine2
	}
	if req.IsDefault != nil {
		address.IsDefault = *req.IsDefault
	}

	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return address, nil
}

// Delete 删除地址。删除默认地址后把最早的剩余地址设为默认。
func (s *AddressService) Delete(ctx context.Context, id, userID int64) error {
	address, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	wasDefault := address.IsDefault

	if err := s.addressRepo.DeleteByIDAndUser(ctx, id, userID); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	if wasDefault {
		addresses, err := s.addressRepo.ListByUser(ctx, userID)
		if err != nil || len(addresses) == 0 {
			return nil
		}
		_ = s.addressRepo.SetDefault(ctx, userID, addresses[0].ID)
	}
	return nil
}

// List 获取用户地址列表（默认地址在前）
func (s *AddressService) List(ctx context.Context, userID int64) ([]*models.Address, error) {
	addresses, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return addresses, nil
}

// GetDefault 获取默认地址
func (s *AddressService) GetDefault(ctx context.Context, userID int64) (*models.Address, error) {
	address, err := s.addressRepo.GetDefaultByUser(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrAddressNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return address, nil
}

// SetDefault 设置默认地址
func (s *AddressService) SetDefault(ctx context.Context, id, userID int64) error {
	if err := s.addressRepo.SetDefault(ctx, userID, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrAddressNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}
