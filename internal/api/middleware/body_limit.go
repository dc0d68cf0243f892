package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"study-planner/backend/pkg/response"
)

// BodyLimit 限制请求体大小
// ICS 上传走同一条链路，上限需在路由处按最大场景设定
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, ginErr := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(ginErr.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
