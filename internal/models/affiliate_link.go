package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AffiliateLink 推广链接（(UserID, ProductID) 唯一，CommissionRate 创建时冻结）
type AffiliateLink struct {
	ID             uint            `gorm:"primarykey" json:"id"`                                          // 主键
	UserID         uint            `gorm:"not null;uniqueIndex:idx_link_user_product" json:"user_id"`     // 推广用户ID
	ProductID      uint            `gorm:"not null;uniqueIndex:idx_link_user_product" json:"product_id"`  // 商品ID
	Code           string          `gorm:"type:varchar(16);not null;uniqueIndex" json:"code"`             // 追踪码
	Clicks         int64           `gorm:"not null;default:0" json:"clicks"`                              // 点击数（仅原子自增）
	Conversions    int64           `gorm:"not null;default:0" json:"conversions"`                         // 成交数（仅原子自增）
	Earnings       Money           `gorm:"type:decimal(20,2);not null;default:0" json:"earnings"`         // 累计佣金
	CommissionRate decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"commission_rate"`            // 佣金比例快照（创建后不随档案变动）
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt      time.Time       `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`                                                // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (AffiliateLink) TableName() string {
	return "affiliate_links"
}
