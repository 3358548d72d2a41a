package models

import (
	"time"

	"gorm.io/gorm"
)

// FlaggedActivity 风险标记记录（后台审查队列）
type FlaggedActivity struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                         // 主键
	EntityType string         `gorm:"type:varchar(50);not null;index" json:"entity_type"`           // 实体类型（user/product/order/affiliate_link）
	EntityID   uint           `gorm:"not null;index" json:"entity_id"`                              // 实体ID
	Reason     string         `gorm:"type:varchar(1000);not null" json:"reason"`                    // 标记原因
	Severity   string         `gorm:"type:varchar(20);not null;default:'low'" json:"severity"`      // 严重程度（low/medium/high）
	Status     string         `gorm:"type:varchar(20);not null;default:'open';index" json:"status"` // 处理状态（open/resolved/dismissed）
	ReviewedBy *uint          `gorm:"index" json:"reviewed_by,omitempty"`                           // 审查管理员ID
	ReviewNote string         `gorm:"type:varchar(1000)" json:"review_note,omitempty"`              // 审查备注
	ReviewedAt *time.Time     `json:"reviewed_at,omitempty"`                                        // 审查时间
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                                   // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间
}

// TableName 指定表名
func (FlaggedActivity) TableName() string {
	return "flagged_activities"
}
