package public

import (
	"github.com/gin-gonic/gin"

	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/http/handlers/shared"
)

// getUserID 从上下文获取当前登录用户 ID
func getUserID(c *gin.Context) (uint, bool) {
	return shared.GetContextUint(c, "user_id")
}

// getUserRole 从上下文获取当前用户角色（可能为空）
func getUserRole(c *gin.Context) string {
	return shared.GetContextString(c, "user_role")
}

func isAdmin(c *gin.Context) bool {
	return getUserRole(c) == constants.RoleAdmin
}
