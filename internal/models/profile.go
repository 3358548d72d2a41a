package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile 用户基础资料（所有角色共用）
type Profile struct {
	ID        uint           `gorm:"primarykey" json:"id"`                // 主键
	UserID    uint           `gorm:"not null;uniqueIndex" json:"user_id"` // 用户ID
	FirstName string         `gorm:"type:varchar(100)" json:"first_name"` // 名
	LastName  string         `gorm:"type:varchar(100)" json:"last_name"`  // 姓
	Phone     string         `gorm:"type:varchar(32)" json:"phone"`       // 电话
	AvatarURL string         `gorm:"type:varchar(500)" json:"avatar_url"` // 头像地址
	Address   string         `gorm:"type:varchar(500)" json:"address"`    // 地址
	City      string         `gorm:"type:varchar(100)" json:"city"`       // 城市
	Country   string         `gorm:"type:varchar(100)" json:"country"`    // 国家
	CreatedAt time.Time      `gorm:"index" json:"created_at"`             // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                          // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                      // 软删除时间
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profiles"
}
