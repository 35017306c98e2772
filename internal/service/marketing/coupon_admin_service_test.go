// Package marketing 优惠券管理服务单元测试
package marketing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/models"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
)

func newCouponAdminService(db *gorm.DB) *CouponAdminService {
	couponRepo := repository.NewCouponRepository(db)
	usageRepo := repository.NewCouponUsageRepository(db)
	return NewCouponAdminService(couponRepo, NewCouponService(couponRepo, usageRepo, nil))
}

func validCreateRequest(code string) *CreateCouponRequest {
	return &CreateCouponRequest{
		Code:       code,
		Name:       "新人满减券",
		Type:       models.CouponTypeFixedAmount,
		Value:      500,
		ValidFrom:  time.Now(),
		ValidUntil: time.Now().Add(7 * 24 * time.Hour),
		IsActive:   true,
	}
}

func TestCouponAdminService_CreateCoupon(t *testing.T) {
	db := setupMarketingTestDB(t)
	svc := newCouponAdminService(db)
	ctx := context.Background()

	t.Run("创建成功并规范化券码", func(t *testing.T) {
		req := validCreateRequest("  welcome500 ")
		coupon, err := svc.CreateCoupon(ctx, req, 1)
		require.NoError(t, err)
		assert.Equal(t, "WELCOME500", coupon.Code)
		assert.Equal(t, 0, coupon.UsedCount)
		require.NotNil(t, coupon.CreatedBy)
		assert.Equal(t, int64(1), *coupon.CreatedBy)
	})

	t.Run("可选描述透传保存", func(t *testing.T) {
		desc := "北海道零食专场满减"
		req := validCreateRequest("DESC500")
		req.Description = &desc
		coupon, err := svc.CreateCoupon(ctx, req, 1)
		require.NoError(t, err)
		require.NotNil(t, coupon.Description)
		assert.Equal(t, desc, *coupon.Description)
	})

	t.Run("券码重复", func(t *testing.T) {
		_, err := svc.CreateCoupon(ctx, validCreateRequest("WELCOME500"), 1)
		assert.ErrorIs(t, err, ErrCouponCodeExists)
	})

	t.Run("券码为空", func(t *testing.T) {
		_, err := svc.CreateCoupon(ctx, validCreateRequest("   "), 1)
		assert.ErrorIs(t, err, ErrCouponCodeRequired)
	})

	t.Run("无效类型", func(t *testing.T) {
		req := validCreateRequest("BADTYPE1")
		req.Type = "bogo"
		_, err := svc.CreateCoupon(ctx, req, 1)
		assert.ErrorIs(t, err, ErrInvalidCouponType)
	})

	t.Run("百分比超出范围", func(t *testing.T) {
		req := validCreateRequest("BADPCT1")
		req.Type = models.CouponTypePercentage
		req.Value = 120
		_, err := svc.CreateCoupon(ctx, req, 1)
		assert.ErrorIs(t, err, ErrInvalidCouponValue)
	})

	t.Run("金额非正数", func(t *testing.T) {
		req := validCreateRequest("BADVAL1")
		req.Value = 0
		_, err := svc.CreateCoupon(ctx, req, 1)
		assert.ErrorIs(t, err, ErrInvalidCouponValue)
	})

	t.Run("有效期区间颠倒", func(t *testing.T) {
		req := validCreateRequest("BADWIN1")
		req.ValidFrom = time.Now().Add(24 * time.Hour)
		req.ValidUntil = time.Now()
		_, err := svc.CreateCoupon(ctx, req, 1)
		assert.ErrorIs(t, err, ErrInvalidTimeWindow)
	})
}

func TestCouponAdminService_UpdateCoupon(t *testing.T) {
	db := setupMarketingTestDB(t)
	svc := newCouponAdminService(db)
	ctx := context.Background()

	t.Run("常规字段更新", func(t *testing.T) {
		coupon := createTestCoupon(t, db)

		updated, err := svc.UpdateCoupon(ctx, coupon.ID, map[string]interface{}{
			"name":      "改名后的券",
			"is_active": false,
		})
		require.NoError(t, err)
		assert.Equal(t, "改名后的券", updated.Name)
		assert.False(t, updated.IsActive)
	})

	t.Run("used_count 不可经由更新修改", func(t *testing.T) {
		coupon := createTestCoupon(t, db, func(c *models.Coupon) { c.UsedCount = 3 })

		updated, err := svc.UpdateCoupon(ctx, coupon.ID, map[string]interface{}{
			"used_count": 9999,
			"name":       "试图篡改计数",
		})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.UsedCount)
		assert.Equal(t, "试图篡改计数", updated.Name)
	})

	t.Run("改券码撞已有券码", func(t *testing.T) {
		existing := createTestCoupon(t, db)
		coupon := createTestCoupon(t, db)

		_, err := svc.UpdateCoupon(ctx, coupon.ID, map[string]interface{}{
			"code": existing.Code,
		})
		assert.ErrorIs(t, err, ErrCouponCodeExists)
	})

	t.Run("优惠券不存在", func(t *testing.T) {
		_, err := svc.UpdateCoupon(ctx, 99999, map[string]interface{}{"name": "x"})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestCouponAdminService_SetActive(t *testing.T) {
	db := setupMarketingTestDB(t)
	svc := newCouponAdminService(db)
	ctx := context.Background()

	coupon := createTestCoupon(t, db)

	require.NoError(t, svc.SetActive(ctx, coupon.ID, false))

	found, err := svc.GetCoupon(ctx, coupon.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}

func TestCouponAdminService_DeleteCoupon(t *testing.T) {
	db := setupMarketingTestDB(t)
	svc := newCouponAdminService(db)
	ctx := context.Background()

	coupon := createTestCoupon(t, db)
	createUsageRecord(t, db, coupon.ID, 1, 9501)

	err := svc.DeleteCoupon(ctx, coupon.ID)
	require.NoError(t, err)

	_, err = svc.GetCoupon(ctx, coupon.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 使用记录不级联删除
	var usageCount int64
	db.Model(&models.CouponUsage{}).Where("coupon_id = ?", coupon.ID).Count(&usageCount)
	assert.Equal(t, int64(1), usageCount)
}

func TestCouponAdminService_ListActiveCoupons(t *testing.T) {
	db := setupMarketingTestDB(t)
	svc := newCouponAdminService(db)
	ctx := context.Background()

	createTestCoupon(t, db)
	createTestCoupon(t, db, func(c *models.Coupon) {
		c.ValidUntil = time.Now().Add(-time.Hour)
	})

	coupons, total, err := svc.ListActiveCoupons(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, coupons, 1)
}
