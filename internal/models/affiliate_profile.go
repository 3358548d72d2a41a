package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AffiliateProfile 推广用户档案
type AffiliateProfile struct {
	ID             uint            `gorm:"primarykey" json:"id"`                               // 主键
	UserID         uint            `gorm:"not null;uniqueIndex" json:"user_id"`                // 用户ID
	Website        string          `gorm:"type:varchar(500)" json:"website"`                   // 推广站点
	Niche          string          `gorm:"type:varchar(200)" json:"niche"`                     // 推广领域
	CommissionRate decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"commission_rate"` // 期望佣金比例（展示用，不影响已有链接）
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt      time.Time       `json:"updated_at"`                                         // 更新时间
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`                                     // 软删除时间

	User  User            `gorm:"foreignKey:UserID" json:"user,omitempty"` // 用户信息
	Links []AffiliateLink `gorm:"foreignKey:UserID;references:UserID" json:"links,omitempty"` // 推广链接
}

// TableName 指定表名
func (AffiliateProfile) TableName() string {
	return "affiliate_profiles"
}
