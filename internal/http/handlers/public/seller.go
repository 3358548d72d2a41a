package public

import (
	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/handlers/shared"
	"github.com/jishi-next/internal/http/response"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/repository"
	"github.com/jishi-next/internal/service"
	"github.com/shopspring/decimal"
)

// SellerDashboard 卖家经营概览
func (h *Handler) SellerDashboard(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	dashboard, err := h.SellerService.Dashboard(userID)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, dashboard)
}

// GetSellerProfile 当前卖家档案
func (h *Handler) GetSellerProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	profile, err := h.SellerService.GetProfile(userID)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, profile)
}

type updateSellerProfileRequest struct {
	BusinessName          *string          `json:"business_name"`
	BusinessDescription   *string          `json:"business_description"`
	LogoURL               *string          `json:"logo_url"`
	Website               *string          `json:"website"`
	DefaultCommissionRate *decimal.Decimal `json:"default_commission_rate"`
}

// UpdateSellerProfile 更新卖家档案
func (h *Handler) UpdateSellerProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req updateSellerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	profile, err := h.SellerService.UpdateProfile(userID, service.UpdateSellerProfileInput{
		BusinessName:          req.BusinessName,
		BusinessDescription:   req.BusinessDescription,
		LogoURL:               req.LogoURL,
		Website:               req.Website,
		DefaultCommissionRate: req.DefaultCommissionRate,
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, profile)
}

// ListSellerProducts 当前卖家的商品列表（含待审核与已驳回）
func (h *Handler) ListSellerProducts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.NormalizePagination(
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 20),
	)
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		Search:       c.Query("search"),
		Status:       c.Query("status"),
		WithCategory: true,
		WithImages:   true,
	}
	products, total, err := h.ProductService.SellerProducts(userID, filter)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithPage(c, products, shared.BuildPagination(page, pageSize, total))
}

type createProductRequest struct {
	CategoryID     uint          `json:"category_id" binding:"required"`
	Name           string        `json:"name" binding:"required"`
	Description    string        `json:"description"`
	Price          models.Money  `json:"price"`
	DiscountPrice  *models.Money `json:"discount_price"`
	InventoryCount int           `json:"inventory_count"`
}

// CreateProduct 卖家创建商品（提交后进入待审核）
func (h *Handler) CreateProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	product, err := h.ProductService.Create(userID, service.CreateProductInput{
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		DiscountPrice:  req.DiscountPrice,
		InventoryCount: req.InventoryCount,
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	shared.RequestLog(c).Infow("product_submitted", "user_id", userID, "product_id", product.ID)
	response.Created(c, product)
}

type updateProductRequest struct {
	CategoryID     *uint         `json:"category_id"`
	Name           *string       `json:"name"`
	Description    *string       `json:"description"`
	Price          *models.Money `json:"price"`
	DiscountPrice  *models.Money `json:"discount_price"`
	InventoryCount *int          `json:"inventory_count"`
}

// UpdateProduct 卖家更新商品（会重新进入审核流程）
func (h *Handler) UpdateProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	product, err := h.ProductService.Update(userID, productID, service.UpdateProductInput{
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		DiscountPrice:  req.DiscountPrice,
		InventoryCount: req.InventoryCount,
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 卖家删除自己的商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(userID, isAdmin(c), productID); err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithMsg(c, "商品已删除", nil)
}

type addProductImageRequest struct {
	URL       string `json:"url" binding:"required"`
	AltText   string `json:"alt_text"`
	SortOrder int    `json:"sort_order"`
	IsPrimary bool   `json:"is_primary"`
}

// AddProductImage 添加商品图片
func (h *Handler) AddProductImage(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req addProductImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	image, err := h.ProductService.AddImage(userID, productID, service.AddImageInput{
		URL:       req.URL,
		AltText:   req.AltText,
		SortOrder: req.SortOrder,
		IsPrimary: req.IsPrimary,
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Created(c, image)
}

// RemoveProductImage 移除商品图片
func (h *Handler) RemoveProductImage(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	imageID, ok := paramUint(c, "image_id")
	if !ok {
		return
	}
	if err := h.ProductService.RemoveImage(userID, productID, imageID); err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithMsg(c, "图片已移除", nil)
}

// ListSellerOrders 包含本店商品的订单列表
func (h *Handler) ListSellerOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.NormalizePagination(
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 20),
	)
	orders, total, err := h.SellerService.SellerOrders(userID, page, pageSize)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, shared.BuildPagination(page, pageSize, total))
}
