package models

import (
	"time"
)

// Category 商品分类
type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ParentID  *int64    `gorm:"index" json:"parent_id,omitempty"`
	Slug      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	NameJa    *string   `gorm:"type:varchar(50)" json:"name_ja,omitempty"`
	Image     *string   `gorm:"type:varchar(255)" json:"image,omitempty"`
	Sort      int       `gorm:"not null;default:0" json:"sort"`
	Status    int8      `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Products []Product  `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// TableName 表名
func (Category) TableName() string {
	return "categories"
}

// CategoryStatus 分类状态
const (
	CategoryStatusDisabled = 0 // 禁用
	CategoryStatusActive   = 1 // 启用
)

// Product 商品模型
// Code 是优惠券适用范围列表引用的商品标识
type Product struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID    int64      `gorm:"index;not null" json:"category_id"`
	Code          string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Name          string     `gorm:"type:varchar(200);not null" json:"name"`
	NameJa        *string    `gorm:"type:varchar(200)" json:"name_ja,omitempty"`
	Subtitle      *string    `gorm:"type:varchar(255)" json:"subtitle,omitempty"`
	MainImage     string     `gorm:"type:varchar(255);not null" json:"main_image"`
	Images        JSON       `gorm:"type:jsonb" json:"images,omitempty"`
	Description   *string    `gorm:"type:text" json:"description,omitempty"`
	Brand         *string    `gorm:"type:varchar(50)" json:"brand,omitempty"`
	Price         int64      `gorm:"not null" json:"price"`
	OriginalPrice *int64     `json:"original_price,omitempty"`
	Stock         int        `gorm:"not null;default:0" json:"stock"`
	Sales         int        `gorm:"not null;default:0" json:"sales"`
	IsHot         bool       `gorm:"not null;default:false" json:"is_hot"`
	IsNew         bool       `gorm:"not null;default:false" json:"is_new"`
	IsRecommend   bool       `gorm:"not null;default:false" json:"is_recommend"`
	Sort          int        `gorm:"not null;default:0" json:"sort"`
	Status        int8       `gorm:"type:smallint;not null;default:1" json:"status"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName 表名
func (Product) TableName() string {
	return "products"
}

// ProductStatus 商品状态
const (
	ProductStatusDraft   = 0 // 草稿
	ProductStatusOnSale  = 1 // 上架
	ProductStatusOffSale = 2 // 下架
)

// Bundle 组合套装
type Bundle struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:varchar(200);not null" json:"name"`
	NameJa        *string   `gorm:"type:varchar(200)" json:"name_ja,omitempty"`
	Description   *string   `gorm:"type:text" json:"description,omitempty"`
	MainImage     *string   `gorm:"type:varchar(255)" json:"main_image,omitempty"`
	Price         int64     `gorm:"not null" json:"price"`
	OriginalPrice *int64    `json:"original_price,omitempty"`
	Sort          int       `gorm:"not null;default:0" json:"sort"`
	Status        int8      `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Items []BundleItem `gorm:"foreignKey:BundleID" json:"items,omitempty"`
}

// TableName 表名
func (Bundle) TableName() string {
	return "bundles"
}

// BundleStatus 套装状态
const (
	BundleStatusDisabled = 0 // 下架
	BundleStatusActive   = 1 // 上架
)

// BundleItem 套装内商品
type BundleItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	BundleID  int64 `gorm:"index;not null" json:"bundle_id"`
	ProductID int64 `gorm:"not null" json:"product_id"`
	Quantity  int   `gorm:"not null;default:1" json:"quantity"`

	// 关联
	Bundle  *Bundle  `gorm:"foreignKey:BundleID" json:"bundle,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName 表名
func (BundleItem) TableName() string {
	return "bundle_items"
}

// CartItem 购物车项
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index;not null" json:"user_id"`
	ProductID int64     `gorm:"not null" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Selected  bool      `gorm:"not null;default:true" json:"selected"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName 表名
func (CartItem) TableName() string {
	return "cart_items"
}
