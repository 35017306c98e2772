package models

import (
	"time"
)

// Coupon 优惠券模型
// used_count 仅由核销事务递增，管理端更新不得直接修改
type Coupon struct {
	ID                   int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code                 string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`
	Name                 string     `gorm:"type:varchar(100);not null" json:"name"`
	Description          *string    `gorm:"type:varchar(255)" json:"description,omitempty"`
	Type                 string     `gorm:"type:varchar(20);not null" json:"type"`
	Value                float64    `gorm:"type:decimal(10,2);not null" json:"value"`
	MinOrderAmount       *int64     `json:"min_order_amount,omitempty"`
	MaxDiscountAmount    *int64     `json:"max_discount_amount,omitempty"`
	UsageLimit           *int       `json:"usage_limit,omitempty"`
	UsedCount            int        `gorm:"not null;default:0" json:"used_count"`
	UserUsageLimit       *int       `json:"user_usage_limit,omitempty"`
	ApplicableProducts   StringList `gorm:"type:jsonb" json:"applicable_products,omitempty"`
	ApplicableCategories StringList `gorm:"type:jsonb" json:"applicable_categories,omitempty"`
	ValidFrom            time.Time  `gorm:"not null" json:"valid_from"`
	ValidUntil           time.Time  `gorm:"not null" json:"valid_until"`
	IsActive             bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedBy            *int64     `json:"created_by,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Usages []CouponUsage `gorm:"foreignKey:CouponID" json:"usages,omitempty"`
}

// TableName 表名
func (Coupon) TableName() string {
	return "coupons"
}

// CouponType 优惠券类型
const (
	CouponTypePercentage  = "percentage"   // 百分比折扣
	CouponTypeFixedAmount = "fixed_amount" // 固定金额
)

// CouponUsage 优惠券使用记录（只追加，不可变更）
type CouponUsage struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CouponID       int64     `gorm:"index;not null" json:"coupon_id"`
	UserID         int64     `gorm:"index;not null" json:"user_id"`
	OrderID        int64     `gorm:"uniqueIndex;not null" json:"order_id"`
	DiscountAmount int64     `gorm:"not null" json:"discount_amount"`
	UsedAt         time.Time `gorm:"autoCreateTime" json:"used_at"`

	// 关联
	Coupon *Coupon `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Order  *Order  `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}

// TableName 表名
func (CouponUsage) TableName() string {
	return "coupon_usages"
}
