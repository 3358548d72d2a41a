package public

import (
	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/handlers/shared"
	"github.com/jishi-next/internal/http/response"
	"github.com/jishi-next/internal/repository"
	"github.com/jishi-next/internal/service"
)

type createOrderRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
	BillingAddress  string `json:"billing_address"`
	PaymentMethod   string `json:"payment_method"`
	AffiliateCode   string `json:"affiliate_code"`
}

// CreateOrder 从购物车下单
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}

	order, err := h.OrderService.CreateOrder(userID, service.CreateOrderInput{
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
		AffiliateCode:   req.AffiliateCode,
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}

	shared.RequestLog(c).Infow("order_created",
		"user_id", userID,
		"order_no", order.OrderNo,
		"total_amount", order.TotalAmount.String(),
	)
	response.Created(c, order)
}

// ListMyOrders 当前用户订单列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.NormalizePagination(
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 20),
	)
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
	}
	orders, total, err := h.OrderService.ListMyOrders(userID, filter)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, shared.BuildPagination(page, pageSize, total))
}

// GetOrder 订单详情（仅本人或管理员）
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(userID, isAdmin(c), orderID)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单并回补库存
func (h *Handler) CancelOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.CancelOrder(userID, isAdmin(c), orderID)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithMsg(c, "订单已取消", order)
}
