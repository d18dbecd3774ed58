/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 11:20:33
 * @FilePath: \dashboard-catalog\backend\internal\service\dashboard\errors.go
 * @LastEditTime: 2026-10-14 11:20:33
 */
package dashboard

import (
	"errors"
	"fmt"

	domain "dashboard-catalog/backend/internal/domain/dashboard"
)

var (
	// ErrNotFound 表示更新目标不存在。
	ErrNotFound = errors.New("dashboard not found")
	// ErrStorage 表示写入阶段的存储失败（约束冲突或连接异常），对外只暴露通用错误。
	ErrStorage = errors.New("database error")
)

const invalidLinkMessage = "link must start with http:// or https://"

// ValidationError 描述客户端提交的数据不合法，Message 可直接返回给调用方。
type ValidationError struct {
	Field   domain.Field
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MissingField 构造必填字段缺失的错误。
func MissingField(field domain.Field) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("'%s' is required", field)}
}

// InvalidLink 构造链接协议不合法的错误。
func InvalidLink() *ValidationError {
	return &ValidationError{Field: domain.FieldLink, Message: invalidLinkMessage}
}
