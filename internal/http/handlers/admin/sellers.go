package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/handlers/shared"
	"github.com/jishi-next/internal/http/response"
	"github.com/jishi-next/internal/repository"
)

// ListSellerProfiles 卖家档案列表
func (h *Handler) ListSellerProfiles(c *gin.Context) {
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

type verifySellerRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// VerifySeller 认证/取消认证卖家
func (h *Handler) VerifySeller(c *gin.Context) {
	sellerProfileID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req verifySellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	seller, err := h.SellerService.Verify(sellerProfileID, *req.Verified)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	shared.RequestLog(c).Infow("seller_verification_updated",
		"seller_profile_id", sellerProfileID,
		"verified", *req.Verified,
	)
	response.Success(c, seller)
}

// ListAffiliateProfiles 推广档案列表
func (h *Handler) ListAffiliateProfiles(c *gin.Context) {
	page, pageSize := shared.NormalizePagination(
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 20),
	)
	filter := repository.AffiliateProfileListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	}
	profiles, total, err := h.AffiliateService.ListProfiles(filter)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithPage(c, profiles, shared.BuildPagination(page, pageSize, total))
}
