package public

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/handlers/shared"
	"github.com/jishi-next/internal/http/response"
	"github.com/jishi-next/internal/repository"
)

// ListProducts 公开商品列表（仅展示已上架商品）
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := shared.NormalizePagination(
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 20),
	)
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   uint(queryInt(c, "category_id", 0)),
		Search:       c.Query("search"),
		MinPrice:     c.Query("min_price"),
		MaxPrice:     c.Query("max_price"),
		WithCategory: true,
		WithImages:   true,
		WithSeller:   true,
	}
	if sellerID := queryInt(c, "seller_id", 0); sellerID > 0 {
		filter.SellerProfileID = uint(sellerID)
	}

	products, total, err := h.ProductService.PublicList(filter)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithPage(c, products, shared.BuildPagination(page, pageSize, total))
}

// GetProductBySlug 公开商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	product, err := h.ProductService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, product)
}

// GetCategoryTree 分类树
func (h *Handler) GetCategoryTree(c *gin.Context) {
	tree, err := h.CategoryService.Tree()
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, tree)
}

// ListFeaturedCategories 推荐分类列表
func (h *Handler) ListFeaturedCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListFeatured()
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, categories)
}

// GetCategoryBySlug 分类详情
func (h *Handler) GetCategoryBySlug(c *gin.Context) {
	category, err := h.CategoryService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, category)
}

// ListSellers 公开卖家列表
func (h *Handler) ListSellers(c *gin.Context) {
	page, pageSize := shared.NormalizePagination(
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 20),
	)
	filter := repository.SellerListFilter{
		Page:         page,
		PageSize:     pageSize,
		Search:       c.Query("search"),
		VerifiedOnly: c.Query("verified") == "true",
	}
	sellers, total, err := h.SellerService.ListPublic(filter)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithPage(c, sellers, shared.BuildPagination(page, pageSize, total))
}

// GetSeller 公开卖家详情
func (h *Handler) GetSeller(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	seller, err := h.SellerService.GetPublic(id)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, seller)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func paramUint(c *gin.Context, key string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || value == 0 {
		response.BadRequest(c, "无效的路径参数")
		return 0, false
	}
	return uint(value), true
}
