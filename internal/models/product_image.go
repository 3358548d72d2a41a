package models

import "time"

// ProductImage 商品图片（SortOrder 控制展示顺序，IsPrimary 仅一张为主图）
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`                   // 主键
	ProductID uint      `gorm:"not null;index" json:"product_id"`       // 商品ID
	URL       string    `gorm:"type:varchar(500);not null" json:"url"`  // 图片地址
	AltText   string    `gorm:"type:varchar(300)" json:"alt_text"`      // 替代文本
	SortOrder int       `gorm:"default:0;index" json:"sort_order"`      // 排序权重
	IsPrimary bool      `gorm:"default:false" json:"is_primary"`        // 是否主图
	CreatedAt time.Time `gorm:"index" json:"created_at"`                // 创建时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}
