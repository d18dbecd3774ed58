/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 13:40:22
 * @FilePath: \dashboard-catalog\backend\internal\middleware\rate_limit_middleware.go
 * @LastEditTime: 2026-10-14 13:40:22
 */
package middleware

import (
	"math"
	"net/http"
	"strconv"

	response "dashboard-catalog/backend/internal/infra/common"
	appLogger "dashboard-catalog/backend/internal/infra/logger"
	"dashboard-catalog/backend/internal/infra/metrics"
	"dashboard-catalog/backend/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMiddleware 按客户端 IP 限流，限流器异常时放行请求。
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	logger  *zap.SugaredLogger
}

// NewRateLimitMiddleware 构建限流中间件。
func NewRateLimitMiddleware(limiter ratelimit.Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  appLogger.S().With("component", "middleware.ratelimit"),
	}
}

// Handle 返回 gin 中间件。
func (m *RateLimitMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || m.limiter == nil {
			c.Next()
			return
		}

		ip := c.ClientIP()
		decision, err := m.limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			m.logger.Warnw("rate limiter unavailable", "error", err, "ip", ip)
			c.Next()
			return
		}

		if decision.Remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		}
		if !decision.Allowed {
			retry := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			metrics.RecordRateLimited(c.FullPath())
			m.logger.Infow("request rate limited", "ip", ip, "path", c.Request.URL.Path, "request_id", GetRequestID(c))
			response.AbortFail(c, http.StatusTooManyRequests, response.MsgTooManyRequests)
			return
		}

		c.Next()
	}
}
