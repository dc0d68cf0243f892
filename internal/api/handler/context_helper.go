package handler

import (
	"github.com/gin-gonic/gin"

	"study-planner/backend/pkg/response"
)

// MustGetUserID 提取认证中间件注入的 user_id
// 注入缺失或类型异常时写入 401 响应并返回 ok=false，调用方直接 return
func MustGetUserID(c *gin.Context) (string, bool) {
	if userID := c.GetString("user_id"); userID != "" {
		return userID, true
	}
	response.Unauthorized(c, 10002, "未认证")
	return "", false
}
