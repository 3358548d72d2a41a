package public

import (
	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/response"
)

type cartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// ListCart 当前用户购物车
func (h *Handler) ListCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	items, err := h.CartService.List(userID)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, items)
}

// AddCartItem 加入购物车（已存在则累计数量）
func (h *Handler) AddCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	item, err := h.CartService.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, item)
}

// UpdateCartItem 修改购物车中某商品的数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := paramUint(c, "product_id")
	if !ok {
		return
	}
	var req cartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	if err := h.CartService.UpdateQuantity(userID, productID, req.Quantity); err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithMsg(c, "购物车已更新", nil)
}

// RemoveCartItem 从购物车移除商品
func (h *Handler) RemoveCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := paramUint(c, "product_id")
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(userID, productID); err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithMsg(c, "已移除", nil)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(userID); err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithMsg(c, "购物车已清空", nil)
}
