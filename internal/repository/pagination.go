package repository

import "gorm.io/gorm"

// paginationOffset 计算分页偏移量，非法页码按第一页处理。
func paginationOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// applyPagination 应用分页参数；pageSize 不合法时不分页。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	return query.Limit(pageSize).Offset(paginationOffset(page, pageSize))
}
