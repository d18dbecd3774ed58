/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 11:26:48
 * @FilePath: \dashboard-catalog\backend\internal\service\dashboard\validate.go
 * @LastEditTime: 2026-10-15 11:31:09
 */
package dashboard

import (
	"encoding/json"
	"strconv"
	"strings"

	domain "dashboard-catalog/backend/internal/domain/dashboard"
)

// Payload 是请求体解码后的原始键值，值类型未经约束。
type Payload map[string]any

// Values 是通过校验后的字段值。
type Values map[domain.Field]string

// Normalize 按声明顺序检查必填字段，返回第一个缺失字段的错误。
// 文本字段裁剪首尾空白，日期字段原样保留。
func Normalize(payload Payload, fields []domain.Field) (Values, error) {
	values := make(Values, len(fields))
	for _, field := range fields {
		raw, ok := textValue(payload[string(field)])
		trimmed := strings.TrimSpace(raw)
		if !ok || trimmed == "" {
			return nil, MissingField(field)
		}
		if field.IsDate() {
			values[field] = raw
			continue
		}
		values[field] = trimmed
	}
	return values, nil
}

// ValidateLink 要求链接以 http:// 或 https:// 开头。
func ValidateLink(link string) error {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return nil
	}
	return InvalidLink()
}

// ValidateCreate 执行创建场景的完整校验并构造待写入的记录。
func ValidateCreate(schema domain.Schema, payload Payload) (*domain.Dashboard, error) {
	values, err := Normalize(payload, schema.CreateFields)
	if err != nil {
		return nil, err
	}
	if err := ValidateLink(values[domain.FieldLink]); err != nil {
		return nil, err
	}

	record := &domain.Dashboard{}
	for _, field := range schema.CreateFields {
		record.Set(field, values[field])
	}
	return record, nil
}

// ValidateUpdate 只校验可变字段，payload 中的其他 key 一律忽略。
func ValidateUpdate(schema domain.Schema, payload Payload) (domain.Patch, error) {
	values, err := Normalize(payload, schema.UpdateFields)
	if err != nil {
		return domain.Patch{}, err
	}

	patch := domain.Patch{Fields: schema.UpdateFields}
	for _, field := range schema.UpdateFields {
		patch.Values.Set(field, values[field])
	}
	return patch, nil
}

// textValue 把标量转换为文本，对象与数组视为缺失。
func textValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}
