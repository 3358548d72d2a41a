package public

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/handlers/shared"
	"github.com/jishi-next/internal/http/response"
	"github.com/jishi-next/internal/repository"
	"github.com/jishi-next/internal/service"
	"github.com/shopspring/decimal"
)

type createAffiliateLinkRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// CreateAffiliateLink 生成推广链接
// 同一用户同一商品只会存在一条链接，已存在时返回现有链接
func (h *Handler) CreateAffiliateLink(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req createAffiliateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}

	link, created, err := h.AffiliateService.GenerateLink(userID, req.ProductID)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	if created {
		shared.RequestLog(c).Infow("affiliate_link_created",
			"user_id", userID,
			"product_id", req.ProductID,
			"code", link.Code,
		)
		response.Created(c, link)
		return
	}
	response.Success(c, link)
}

// ListAffiliateLinks 当前推广者的链接列表
func (h *Handler) ListAffiliateLinks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.NormalizePagination(
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 20),
	)
	links, total, err := h.AffiliateService.ListLinks(userID, page, pageSize)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithPage(c, links, shared.BuildPagination(page, pageSize, total))
}

// AffiliateLinkPerformance 链接表现报表（含转化率）
func (h *Handler) AffiliateLinkPerformance(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.NormalizePagination(
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 20),
	)
	report, total, err := h.AffiliateService.LinkPerformanceReport(userID, page, pageSize)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithPage(c, report, shared.BuildPagination(page, pageSize, total))
}

// AffiliateDashboardStats 推广数据看板（无数据时各项为零）
func (h *Handler) AffiliateDashboardStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	stats, err := h.AffiliateService.DashboardStats(userID)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, stats)
}

// TrackAffiliateRedirect 追踪码跳转
// 记录一次点击后 302 到商品页，无效追踪码返回 404
func (h *Handler) TrackAffiliateRedirect(c *gin.Context) {
	target, link, err := h.AffiliateService.ResolveAndTrack(c.Param("code"))
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	shared.RequestLog(c).Debugw("affiliate_click_tracked",
		"code", link.Code,
		"product_id", link.ProductID,
	)
	c.Redirect(http.StatusFound, target)
}

// GetAffiliateProfile 当前推广档案
func (h *Handler) GetAffiliateProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	profile, err := h.AffiliateService.GetProfile(userID)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, profile)
}

type updateAffiliateProfileRequest struct {
	Website        *string          `json:"website"`
	Niche          *string          `json:"niche"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
}

// UpdateAffiliateProfile 更新推广档案
func (h *Handler) UpdateAffiliateProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req updateAffiliateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	profile, err := h.AffiliateService.UpdateProfile(userID, service.UpdateAffiliateProfileInput{
		Website:        req.Website,
		Niche:          req.Niche,
		CommissionRate: req.CommissionRate,
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, profile)
}

// AffiliateCatalog 可推广商品目录（附每件商品的生效佣金比例）
func (h *Handler) AffiliateCatalog(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	page, pageSize := shared.NormalizePagination(
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 20),
	)
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   uint(queryInt(c, "category_id", 0)),
		Search:       c.Query("search"),
		WithCategory: true,
		WithSeller:   true,
	}
	items, total, err := h.ProductService.ListForAffiliates(filter, h.Config.Marketplace.FallbackCommissionRate)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithPage(c, items, shared.BuildPagination(page, pageSize, total))
}
