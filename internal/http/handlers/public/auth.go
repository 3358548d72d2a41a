package public

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/http/handlers/shared"
	"github.com/jishi-next/internal/http/response"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/service"
)

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	BusinessName        string `json:"business_name"`
	BusinessDescription string `json:"business_description"`
	Website             string `json:"website"`
	Niche               string `json:"niche"`

	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

type loginRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

type authTokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Register 注册新用户（支持买家/卖家/推广角色）
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	if err := h.CaptchaService.Verify(constants.CaptchaSceneRegister, service.CaptchaVerifyPayload{
		CaptchaID:   req.CaptchaID,
		CaptchaCode: req.CaptchaCode,
	}); err != nil {
		respondWithMappedError(c, err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Register(service.RegisterInput{
		Email:               req.Email,
		Password:            req.Password,
		Role:                req.Role,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		BusinessName:        req.BusinessName,
		BusinessDescription: req.BusinessDescription,
		Website:             req.Website,
		Niche:               req.Niche,
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}

	shared.RequestLog(c).Infow("user_registered", "user_id", user.ID, "role", user.Role)
	response.Created(c, authTokenResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// Login 登录获取令牌
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	if err := h.CaptchaService.Verify(constants.CaptchaSceneLogin, service.CaptchaVerifyPayload{
		CaptchaID:   req.CaptchaID,
		CaptchaCode: req.CaptchaCode,
	}); err != nil {
		respondWithMappedError(c, err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}

	response.Success(c, authTokenResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// Logout 退出登录（当前令牌进入黑名单）
func (h *Handler) Logout(c *gin.Context) {
	value, exists := c.Get("jwt_claims")
	if !exists {
		response.Unauthorized(c, "未登录")
		return
	}
	claims, ok := value.(*service.UserJWTClaims)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}
	if err := h.AuthService.Logout(claims); err != nil {
		shared.RespondError(c, http.StatusInternalServerError, "退出登录失败", err)
		return
	}
	response.SuccessWithMsg(c, "已退出登录", nil)
}

type verifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyEmail 校验邮箱验证令牌
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	if err := h.AuthService.VerifyEmail(req.Token); err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithMsg(c, "邮箱验证成功", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword 请求密码重置邮件
// 为避免探测注册邮箱，无论邮箱是否存在都返回成功
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	if err := h.AuthService.RequestPasswordReset(req.Email); err != nil {
		shared.RequestLog(c).Warnw("password_reset_request_failed", "error", err)
	}
	response.SuccessWithMsg(c, "如果该邮箱已注册，重置邮件将很快送达", nil)
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword 使用重置令牌设置新密码
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	if err := h.AuthService.ResetPassword(req.Token, req.NewPassword); err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithMsg(c, "密码已重置，请重新登录", nil)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword 修改当前用户密码（旧令牌全部失效）
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	if err := h.AuthService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.SuccessWithMsg(c, "密码修改成功，请重新登录", nil)
}

// Me 获取当前登录用户信息
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.AuthService.Me(userID)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, user)
}
