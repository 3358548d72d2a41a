package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                       // 主键
	SellerProfileID uint           `gorm:"not null;index" json:"seller_profile_id"`                    // 卖家档案ID
	CategoryID      uint           `gorm:"not null;index" json:"category_id"`                          // 分类ID
	Name            string         `gorm:"type:varchar(300);not null" json:"name"`                     // 名称
	Slug            string         `gorm:"uniqueIndex;not null" json:"slug"`                           // 唯一标识
	Description     string         `gorm:"type:text" json:"description"`                               // 描述
	Price           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`         // 价格
	DiscountPrice   *Money         `gorm:"type:decimal(20,2)" json:"discount_price,omitempty"`         // 折扣价（可空）
	InventoryCount  int            `gorm:"not null;default:0" json:"inventory_count"`                  // 库存数量
	Status          string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // 状态（pending/active/rejected）
	IsApproved      int            `gorm:"not null;default:0;index" json:"is_approved"`                // 审核标记（0待审/1通过/2驳回）
	RejectionReason string         `gorm:"type:varchar(1000)" json:"rejection_reason,omitempty"`       // 驳回原因
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                                 // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	// 关联
	Category      Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`           // 分类信息
	SellerProfile *SellerProfile `gorm:"foreignKey:SellerProfileID" json:"seller_profile,omitempty"` // 卖家档案
	Images        []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"`              // 图片列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// EffectivePrice 返回实际售价（有折扣价时取折扣价）
func (p *Product) EffectivePrice() Money {
	if p.DiscountPrice != nil && p.DiscountPrice.IsPositive() {
		return *p.DiscountPrice
	}
	return p.Price
}

// Purchasable 商品是否可购买（已上架且审核通过）
func (p *Product) Purchasable() bool {
	return p.Status == "active" && p.IsApproved == 1
}
