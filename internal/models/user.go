package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                            // 主键
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`               // 邮箱
	PasswordHash       string         `gorm:"not null" json:"-"`                               // 密码哈希（不返回给前端）
	Role               string         `gorm:"type:varchar(20);not null;index" json:"role"`     // 角色（admin/seller/affiliate/customer）
	Status             string         `gorm:"type:varchar(20);default:'active'" json:"status"` // 账号状态
	EmailVerified      bool           `gorm:"not null;default:false" json:"email_verified"`    // 邮箱是否已验证
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                     // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                                  // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                                   // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                         // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间

	Profile          *Profile          `gorm:"foreignKey:UserID" json:"profile,omitempty"`           // 基础资料
	SellerProfile    *SellerProfile    `gorm:"foreignKey:UserID" json:"seller_profile,omitempty"`    // 卖家档案（role=seller）
	AffiliateProfile *AffiliateProfile `gorm:"foreignKey:UserID" json:"affiliate_profile,omitempty"` // 推广档案（role=affiliate）
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
