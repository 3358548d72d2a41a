package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/handlers/shared"
	"github.com/jishi-next/internal/http/response"
	"github.com/jishi-next/internal/repository"
)

// ListOrders 全平台订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := shared.NormalizePagination(
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 20),
	)
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(queryInt(c, "user_id", 0)),
		Status:   c.Query("status"),
		OrderNo:  c.Query("order_no"),
	}
	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, shared.BuildPagination(page, pageSize, total))
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 推进订单状态（pending→processing→shipped→delivered）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	order, err := h.OrderService.UpdateStatus(orderID, req.Status)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	shared.RequestLog(c).Infow("order_status_updated",
		"order_id", orderID,
		"status", req.Status,
	)
	response.Success(c, order)
}

// CancelOrder 管理员取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	orderID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.CancelOrder(adminID, true, orderID)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithMsg(c, "订单已取消", order)
}
