package models

import (
	"time"

	"gorm.io/gorm"
)

// Category 分类表（ParentID 为空表示顶级分类）
type Category struct {
	ID          uint           `gorm:"primarykey" json:"id"`                  // 主键
	Name        string         `gorm:"type:varchar(200);not null" json:"name"` // 名称
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`      // 唯一标识
	Description string         `gorm:"type:varchar(1000)" json:"description"` // 描述
	ParentID    *uint          `gorm:"index" json:"parent_id,omitempty"`      // 父分类ID
	Featured    bool           `gorm:"default:false;index" json:"featured"`   // 是否首页推荐
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`     // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`               // 创建时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                        // 软删除时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// CategoryNode 分类树节点（按 ID 索引组装，避免对象图递归）
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children,omitempty"` // 子分类
}

// BuildCategoryTree 将扁平分类列表组装为树（父节点缺失的挂到顶层）
func BuildCategoryTree(categories []Category) []*CategoryNode {
	index := make(map[uint]*CategoryNode, len(categories))
	for i := range categories {
		index[categories[i].ID] = &CategoryNode{Category: categories[i]}
	}
	roots := make([]*CategoryNode, 0, len(categories))
	for i := range categories {
		node := index[categories[i].ID]
		if pid := categories[i].ParentID; pid != nil {
			if parent, ok := index[*pid]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
