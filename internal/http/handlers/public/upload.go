package public

import (
	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/http/handlers/shared"
	"github.com/jishi-next/internal/http/response"
)

// UploadFile 上传文件（商品图/头像/店铺 Logo）
func (h *Handler) UploadFile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "请选择要上传的文件")
		return
	}

	scene := c.PostForm("scene")
	url, err := h.UploadService.SaveFile(file, scene)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	shared.RequestLog(c).Infow("file_uploaded",
		"user_id", userID,
		"scene", scene,
		"url", url,
	)
	response.Success(c, gin.H{"url": url})
}
