package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/handlers/shared"
	"github.com/jishi-next/internal/http/response"
	"github.com/jishi-next/internal/repository"
)

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := shared.NormalizePagination(
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 20),
	)
	filter := repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("keyword"),
		Role:     c.Query("role"),
		Status:   c.Query("status"),
	}
	users, total, err := h.UserService.ListUsers(filter)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithPage(c, users, shared.BuildPagination(page, pageSize, total))
}

// GetUser 用户详情（含角色档案）
func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	user, err := h.UserService.GetUser(userID)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, user)
}

type setUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetUserStatus 启用/禁用用户
func (h *Handler) SetUserStatus(c *gin.Context) {
	userID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req setUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	user, err := h.UserService.SetUserStatus(c.Request.Context(), userID, req.Status)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, user)
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ChangeUserRole 调整用户角色
func (h *Handler) ChangeUserRole(c *gin.Context) {
	userID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	user, err := h.UserService.ChangeRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, user)
}

// DeleteUser 删除用户（软删除，管理员账号不可删）
func (h *Handler) DeleteUser(c *gin.Context) {
	userID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.UserService.DeleteUser(c.Request.Context(), userID); err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithMsg(c, "用户已删除", nil)
}
