package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/handlers/shared"
	"github.com/jishi-next/internal/http/response"
	"github.com/jishi-next/internal/repository"
	"github.com/jishi-next/internal/service"
)

type flagActivityRequest struct {
	EntityType string `json:"entity_type" binding:"required"`
	EntityID   uint   `json:"entity_id" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
	Severity   string `json:"severity"`
}

// CreateFlag 标记可疑实体（用户/商品/订单/推广链接）
func (h *Handler) CreateFlag(c *gin.Context) {
	var req flagActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	flag, err := h.AdminService.FlagActivity(service.FlagActivityInput{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Reason:     req.Reason,
		Severity:   req.Severity,
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	shared.RequestLog(c).Infow("activity_flagged",
		"entity_type", flag.EntityType,
		"entity_id", flag.EntityID,
		"severity", flag.Severity,
	)
	response.Created(c, flag)
}

// ListFlags 风险标记列表
func (h *Handler) ListFlags(c *gin.Context) {
	page, pageSize := shared.NormalizePagination(
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 20),
	)
	filter := repository.FlaggedListFilter{
		Page:       page,
		PageSize:   pageSize,
		EntityType: c.Query("entity_type"),
		Status:     c.Query("status"),
		Severity:   c.Query("severity"),
	}
	flags, total, err := h.AdminService.ListFlags(filter)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithPage(c, flags, shared.BuildPagination(page, pageSize, total))
}

type reviewFlagRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// ReviewFlag 处理风险标记（resolved/dismissed）
func (h *Handler) ReviewFlag(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	flagID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req reviewFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	flag, err := h.AdminService.ReviewFlag(flagID, adminID, req.Status, req.Note)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, flag)
}
