package models

import (
	"time"
)

// Order 订单模型（金额均为整数日元）
type Order struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNo        string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_no"`
	UserID         int64      `gorm:"index;not null" json:"user_id"`
	Status         int8       `gorm:"type:smallint;not null;default:0" json:"status"`
	TotalAmount    int64      `gorm:"not null" json:"total_amount"`
	DiscountAmount int64      `gorm:"not null;default:0" json:"discount_amount"`
	ShippingFee    int64      `gorm:"not null;default:0" json:"shipping_fee"`
	ActualAmount   int64      `gorm:"not null" json:"actual_amount"`
	CouponID       *int64     `json:"coupon_id,omitempty"`
	CouponCode     *string    `gorm:"type:varchar(32)" json:"coupon_code,omitempty"`
	AddressID      *int64     `json:"address_id,omitempty"`
	Remark         *string    `gorm:"type:varchar(255)" json:"remark,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CancelReason   *string    `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`
	ExpiredAt      *time.Time `json:"expired_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	User    *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Coupon  *Coupon     `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`
	Address *Address    `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName 表名
func (Order) TableName() string {
	return "orders"
}

// OrderStatus 订单状态
const (
	OrderStatusPending   = 0 // 待支付
	OrderStatusPaid      = 1 // 已支付
	OrderStatusShipping  = 2 // 配送中
	OrderStatusDelivered = 3 // 已送达
	OrderStatusCompleted = 4 // 已完成
	OrderStatusCancelled = 5 // 已取消
)

// OrderItem 订单项（下单时快照商品信息）
type OrderItem struct {
	ID           int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64   `gorm:"index;not null" json:"order_id"`
	ProductID    int64   `gorm:"not null" json:"product_id"`
	ProductCode  string  `gorm:"type:varchar(64);not null" json:"product_code"`
	ProductName  string  `gorm:"type:varchar(200);not null" json:"product_name"`
	CategorySlug string  `gorm:"type:varchar(50);not null" json:"category_slug"`
	ProductImage *string `gorm:"type:varchar(255)" json:"product_image,omitempty"`
	Price        int64   `gorm:"not null" json:"price"`
	Quantity     int     `gorm:"not null" json:"quantity"`
	TotalAmount  int64   `gorm:"not null" json:"total_amount"`

	// 关联
	Order   *Order   `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName 表名
func (OrderItem) TableName() string {
	return "order_items"
}
