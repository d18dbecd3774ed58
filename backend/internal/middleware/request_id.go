/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 18:07:14
 * @FilePath: \dashboard-catalog\backend\internal\middleware\request_id.go
 * @LastEditTime: 2026-10-15 10:36:37
 */
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求链路 ID 的 Header 名称。
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID 透传客户端提供的请求 ID，缺失时生成 UUID。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Request.Header.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID 读取当前请求的 ID，未经过中间件时返回空串。
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
