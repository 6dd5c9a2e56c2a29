package middleware

import (
	"strconv"
	"time"

	"github.com/pulse-beyond/pulse-beyond/pkg/app"
	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	"github.com/pulse-beyond/pulse-beyond/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter rejects a request when the bucket registered for its path is empty.
// Paths without a bucket are not limited.
//
// RateLimiter 按路径令牌桶限流，未注册的路径不限流
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.Key(c)
		if bucket, ok := l.GetBucket(key); ok {
			if bucket.TakeAvailable(1) == 0 {
				wait := time.Duration(float64(time.Second) / bucket.Rate())
				c.Header("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
				app.NewResponse(c).ToResponse(code.ErrorTooManyRequests)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
