package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SellerProfile 卖家档案
type SellerProfile struct {
	ID                    uint            `gorm:"primarykey" json:"id"`                                                    // 主键
	UserID                uint            `gorm:"not null;uniqueIndex" json:"user_id"`                                     // 用户ID
	BusinessName          string          `gorm:"type:varchar(200);not null" json:"business_name"`                         // 商户名称
	BusinessDescription   string          `gorm:"type:varchar(2000)" json:"business_description"`                          // 商户简介
	LogoURL               string          `gorm:"type:varchar(500)" json:"logo_url"`                                       // 商户Logo
	Website               string          `gorm:"type:varchar(500)" json:"website"`                                        // 官网地址
	DefaultCommissionRate decimal.Decimal `gorm:"type:decimal(10,2);not null;default:5" json:"default_commission_rate"`    // 默认佣金比例（百分比，新推广链接创建时快照）
	Verified              bool            `gorm:"not null;default:false" json:"verified"`                                  // 是否已认证
	CreatedAt             time.Time       `gorm:"index" json:"created_at"`                                                 // 创建时间
	UpdatedAt             time.Time       `json:"updated_at"`                                                              // 更新时间
	DeletedAt             gorm.DeletedAt  `gorm:"index" json:"-"`                                                          // 软删除时间

	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`              // 用户信息
	Products []Product `gorm:"foreignKey:SellerProfileID" json:"products,omitempty"` // 商品列表
}

// TableName 指定表名
func (SellerProfile) TableName() string {
	return "seller_profiles"
}
