package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/handlers/shared"
	"github.com/jishi-next/internal/http/response"
)

// ListPendingProducts 待审核商品列表
func (h *Handler) ListPendingProducts(c *gin.Context) {
	page, pageSize := shared.NormalizePagination(
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 20),
	)
	products, total, err := h.ProductService.PendingList(page, pageSize)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithPage(c, products, shared.BuildPagination(page, pageSize, total))
}

// ApproveProduct 审核通过商品（上架）
func (h *Handler) ApproveProduct(c *gin.Context) {
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.Approve(productID)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	shared.RequestLog(c).Infow("product_approved", "product_id", productID)
	response.Success(c, product)
}

type rejectProductRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RejectProduct 驳回商品
func (h *Handler) RejectProduct(c *gin.Context) {
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req rejectProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请填写驳回原因")
		return
	}
	product, err := h.ProductService.Reject(productID, req.Reason)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	shared.RequestLog(c).Infow("product_rejected", "product_id", productID, "reason", req.Reason)
	response.Success(c, product)
}

// DeleteProduct 管理员强制下架删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(adminID, true, productID); err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithMsg(c, "商品已删除", nil)
}
