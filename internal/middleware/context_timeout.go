package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ContextTimeout bounds the request context. Paths matching a prefix in long get
// that timeout instead, so model-backed endpoints are not cut short.
//
// ContextTimeout 设置请求上下文超时，long 中的路径前缀使用更长的超时
func ContextTimeout(timeout time.Duration, long map[string]time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := timeout
		path := c.Request.URL.Path
		for prefix, t := range long {
			if strings.HasPrefix(path, prefix) && t > d {
				d = t
			}
		}
		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
