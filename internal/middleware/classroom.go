package middleware

import (
	"classroom_portal/internal/model"
	"classroom_portal/internal/service"
	"classroom_portal/internal/util"

	"github.com/gin-gonic/gin"
)

// ClassroomGate 每个请求对路径参数 :code 按角色做一次门禁校验，
// 并把得到的 *service.Access 交给后续处理函数
func ClassroomGate(accessService *service.AccessService, role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, err := accessService.Authorize(c.Request.Context(), c.Param("code"), role, util.GetUserFromContext(c))
		if err != nil {
			util.Fail(c, err)
			return
		}
		c.Set(util.ContextAccessKey, access)
		c.Next()
	}
}

func GetAccess(c *gin.Context) *service.Access {
	v, ok := c.Get(util.ContextAccessKey)
	if !ok {
		return nil
	}
	access, _ := v.(*service.Access)
	return access
}
