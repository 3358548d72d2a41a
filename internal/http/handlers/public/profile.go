package public

import (
	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/response"
	"github.com/jishi-next/internal/service"
)

// GetMyProfile 当前用户基础资料
func (h *Handler) GetMyProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	profile, err := h.UserService.GetProfile(userID)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, profile)
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
}

// UpdateMyProfile 更新当前用户基础资料
func (h *Handler) UpdateMyProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	profile, err := h.UserService.UpdateProfile(userID, service.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, profile)
}
