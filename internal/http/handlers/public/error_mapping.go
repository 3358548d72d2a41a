package public

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/handlers/shared"
	"github.com/jishi-next/internal/service"
)

type mappedHandlerError struct {
	target error
	code   int
}

// handlerErrorMappings 业务错误到 HTTP 状态码的统一映射
var handlerErrorMappings = []mappedHandlerError{
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrProductNotFound, http.StatusNotFound},
	{service.ErrCategoryNotFound, http.StatusNotFound},
	{service.ErrOrderNotFound, http.StatusNotFound},
	{service.ErrFlagNotFound, http.StatusNotFound},
	{service.ErrAffiliateCodeInvalid, http.StatusNotFound},
	{service.ErrProfileMissing, http.StatusNotFound},
	{service.ErrSellerProfileMissing, http.StatusNotFound},
	{service.ErrAffiliateProfileMissing, http.StatusNotFound},

	{service.ErrEmailExists, http.StatusConflict},
	{service.ErrSlugExists, http.StatusConflict},
	{service.ErrCategoryInUse, http.StatusConflict},

	{service.ErrNotOrderOwner, http.StatusForbidden},
	{service.ErrNotProductOwner, http.StatusForbidden},
	{service.ErrUserDisabled, http.StatusForbidden},
	{service.ErrRoleImmutable, http.StatusForbidden},

	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrTokenInvalid, http.StatusUnauthorized},

	{service.ErrTooManyRequests, http.StatusTooManyRequests},
}

// respondWithMappedError 按映射表返回业务错误，未命中时回落为 500
func respondWithMappedError(c *gin.Context, err error) {
	for _, m := range handlerErrorMappings {
		if errors.Is(err, m.target) {
			shared.RespondError(c, m.code, err.Error(), err)
			return
		}
	}
	if isBusinessError(err) {
		shared.RespondError(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	shared.RespondError(c, http.StatusInternalServerError, "系统繁忙，请稍后重试", err)
}

// businessErrors 未单独映射的业务错误，统一按 400 处理
var businessErrors = []error{
	service.ErrInvalidEmail,
	service.ErrInvalidPassword,
	service.ErrWeakPassword,
	service.ErrEmailNotVerified,
	service.ErrInvalidRole,
	service.ErrCaptchaRequired,
	service.ErrCaptchaInvalid,
	service.ErrProductNameRequired,
	service.ErrInvalidPrice,
	service.ErrProductUnavailable,
	service.ErrProductNotPending,
	service.ErrCartEmpty,
	service.ErrInvalidQuantity,
	service.ErrInsufficientStock,
	service.ErrOrderNotCancelable,
	service.ErrInvalidTransition,
	service.ErrFlagClosed,
	service.ErrEmailServiceNotConfigured,
}

func isBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
