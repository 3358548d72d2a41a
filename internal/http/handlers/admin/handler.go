package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/handlers/shared"
	"github.com/jishi-next/internal/http/response"
	"github.com/jishi-next/internal/provider"
	"github.com/jishi-next/internal/service"
)

// Handler 管理后台接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建管理后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func getAdminID(c *gin.Context) (uint, bool) {
	return shared.GetContextUint(c, "user_id")
}

func paramUint(c *gin.Context, key string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || value == 0 {
		response.BadRequest(c, "无效的路径参数")
		return 0, false
	}
	return uint(value), true
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

type mappedHandlerError struct {
	target error
	code   int
}

var handlerErrorMappings = []mappedHandlerError{
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrProductNotFound, http.StatusNotFound},
	{service.ErrCategoryNotFound, http.StatusNotFound},
	{service.ErrOrderNotFound, http.StatusNotFound},
	{service.ErrFlagNotFound, http.StatusNotFound},
	{service.ErrSellerProfileMissing, http.StatusNotFound},

	{service.ErrSlugExists, http.StatusConflict},
	{service.ErrCategoryInUse, http.StatusConflict},

	{service.ErrRoleImmutable, http.StatusForbidden},

	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrProductNotPending, http.StatusBadRequest},
	{service.ErrInvalidTransition, http.StatusBadRequest},
	{service.ErrFlagClosed, http.StatusBadRequest},
	{service.ErrOrderNotCancelable, http.StatusBadRequest},
	{service.ErrNotOrderOwner, http.StatusForbidden},
}

func respondWithMappedError(c *gin.Context, err error) {
	for _, m := range handlerErrorMappings {
		if errors.Is(err, m.target) {
			shared.RespondError(c, m.code, err.Error(), err)
			return
		}
	}
	shared.RespondError(c, http.StatusInternalServerError, "系统繁忙，请稍后重试", err)
}
