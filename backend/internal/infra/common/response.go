/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 12:40:57
 * @FilePath: \dashboard-catalog\backend\internal\infra\common\response.go
 * @LastEditTime: 2026-10-14 12:40:57
 */
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 对外暴露的固定错误文案，调用方依赖这些字符串做展示。
const (
	MsgNotFound        = "Dashboard not found"
	MsgDatabaseError   = "Database error"
	MsgInternalError   = "Internal server error"
	MsgTooManyRequests = "Too many requests"
)

// Success 返回 {"ok": true, ...}，fields 会被平铺到顶层。
func Success(c *gin.Context, status int, fields gin.H) {
	if status == 0 {
		status = http.StatusOK
	}

	body := gin.H{"ok": true}
	for k, v := range fields {
		if k == "ok" {
			continue
		}
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail 返回 {"ok": false, "error": message}。
func Fail(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if message == "" {
		message = http.StatusText(status)
	}
	c.JSON(status, gin.H{"ok": false, "error": message})
}

// AbortFail 与 Fail 相同，同时终止后续中间件。
func AbortFail(c *gin.Context, status int, message string) {
	Fail(c, status, message)
	c.Abort()
}
