package middleware

import "github.com/gin-gonic/gin"

// securityHeaders 固定的安全响应头集合
var securityHeaders = map[string]string{
	"X-Frame-Options":         "DENY",
	"X-Content-Type-Options":  "nosniff",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
	"Content-Security-Policy": "default-src 'self'",
	"Permissions-Policy":      "camera=(), microphone=(), geolocation=()",
}

// SecurityHeaders 为所有响应附加安全头
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		for key, value := range securityHeaders {
			c.Header(key, value)
		}
		c.Next()
	}
}
