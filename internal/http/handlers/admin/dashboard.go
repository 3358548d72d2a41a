package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/response"
)

// Dashboard 平台全局概览
func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.AdminService.Dashboard()
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, dashboard)
}
