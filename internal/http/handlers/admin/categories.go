package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/response"
	"github.com/jishi-next/internal/service"
)

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
	Featured    bool   `json:"featured"`
	SortOrder   int    `json:"sort_order"`
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	category, err := h.CategoryService.Create(service.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		Featured:    req.Featured,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Created(c, category)
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Featured    *bool   `json:"featured"`
	SortOrder   *int    `json:"sort_order"`
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	categoryID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	category, err := h.CategoryService.Update(categoryID, service.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Featured:    req.Featured,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类（分类下仍有商品时拒绝）
func (h *Handler) DeleteCategory(c *gin.Context) {
	categoryID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(categoryID); err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithMsg(c, "分类已删除", nil)
}
