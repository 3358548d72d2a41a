package public

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/http/handlers/shared"
	"github.com/jishi-next/internal/http/response"
)

// GetImageCaptcha 获取图片验证码
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	scenes := gin.H{
		"login":    h.CaptchaService.Enabled(constants.CaptchaSceneLogin),
		"register": h.CaptchaService.Enabled(constants.CaptchaSceneRegister),
	}
	if !h.CaptchaService.Enabled(constants.CaptchaSceneLogin) &&
		!h.CaptchaService.Enabled(constants.CaptchaSceneRegister) {
		response.Success(c, gin.H{"enabled": false, "scenes": scenes})
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		shared.RespondError(c, http.StatusInternalServerError, "验证码生成失败", err)
		return
	}
	response.Success(c, gin.H{
		"enabled":      true,
		"scenes":       scenes,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
