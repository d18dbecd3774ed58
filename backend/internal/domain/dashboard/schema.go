/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 10:31:02
 * @FilePath: \dashboard-catalog\backend\internal\domain\dashboard\schema.go
 * @LastEditTime: 2026-10-14 11:05:17
 */
package dashboard

import (
	"fmt"
	"strings"
	"time"
)

// Field 表示看板记录上的一个业务字段，取值同时是 JSON key 与数据库列名。
type Field string

const (
	FieldCategory         Field = "category"
	FieldClient           Field = "client"
	FieldDataFrom         Field = "data_from"
	FieldDataTo           Field = "data_to"
	FieldCreatedBy        Field = "created_by"
	FieldLastUpdatedDate  Field = "last_updated_date"
	FieldUpdatedBy        Field = "updated_by"
	FieldPublishedAccount Field = "published_account"
	FieldTopic            Field = "topic"
	FieldDescription      Field = "description"
	FieldLink             Field = "link"
)

// IsDate 标记日期类字段，日期原样透传，不裁剪也不校验格式。
func (f Field) IsDate() bool {
	switch f {
	case FieldDataFrom, FieldDataTo, FieldLastUpdatedDate:
		return true
	default:
		return false
	}
}

// Variant 区分部署使用的字段集合。
type Variant string

const (
	// VariantStandard 基础字段集（mtm/midas 部署）。
	VariantStandard Variant = "standard"
	// VariantExtended 在基础字段集上增加数据区间与发布账号（tsm 部署）。
	VariantExtended Variant = "extended"
)

// OptionColumn 描述 /api/options 中的一个去重列及其响应 key。
type OptionColumn struct {
	Column Field
	Key    string
}

// Schema 是某个变体的字段描述，校验、过滤与序列化都基于它参数化。
type Schema struct {
	Variant       Variant
	CreateFields  []Field        // 创建时必填，顺序即报错优先级
	UpdateFields  []Field        // 更新时必填且唯一可写的字段
	RecordFields  []Field        // 列表接口输出的业务字段
	OptionColumns []OptionColumn // 下拉选项去重列
}

var (
	standardSchema = Schema{
		Variant: VariantStandard,
		CreateFields: []Field{
			FieldCategory, FieldClient, FieldCreatedBy,
			FieldLastUpdatedDate, FieldUpdatedBy,
			FieldTopic, FieldDescription, FieldLink,
		},
		UpdateFields: []Field{FieldDescription, FieldLastUpdatedDate, FieldUpdatedBy},
		RecordFields: []Field{
			FieldCategory, FieldClient, FieldCreatedBy,
			FieldLastUpdatedDate, FieldUpdatedBy,
			FieldTopic, FieldDescription, FieldLink,
		},
		OptionColumns: []OptionColumn{
			{Column: FieldCategory, Key: "categories"},
			{Column: FieldClient, Key: "clients"},
			{Column: FieldCreatedBy, Key: "created_bys"},
		},
	}

	extendedSchema = Schema{
		Variant: VariantExtended,
		CreateFields: []Field{
			FieldCategory, FieldClient,
			FieldDataFrom, FieldDataTo,
			FieldCreatedBy,
			FieldLastUpdatedDate,
			FieldUpdatedBy,
			FieldPublishedAccount,
			FieldTopic, FieldDescription, FieldLink,
		},
		// 数据区间与发布账号在每次更新时都必须提交，即使没有变化。
		UpdateFields: []Field{
			FieldDescription, FieldLastUpdatedDate, FieldUpdatedBy,
			FieldDataFrom, FieldDataTo, FieldPublishedAccount,
		},
		RecordFields: []Field{
			FieldCategory, FieldClient, FieldCreatedBy,
			FieldLastUpdatedDate, FieldUpdatedBy,
			FieldTopic, FieldDescription, FieldLink,
			FieldDataFrom, FieldDataTo, FieldPublishedAccount,
		},
		OptionColumns: []OptionColumn{
			{Column: FieldCategory, Key: "categories"},
			{Column: FieldClient, Key: "clients"},
			{Column: FieldCreatedBy, Key: "created_bys"},
			{Column: FieldPublishedAccount, Key: "published_accounts"},
			{Column: FieldUpdatedBy, Key: "updated_bys"},
		},
	}
)

// ParseVariant 解析配置中的变体名称，空值回退到 standard。
func ParseVariant(raw string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(VariantStandard):
		return VariantStandard, nil
	case string(VariantExtended):
		return VariantExtended, nil
	default:
		return "", fmt.Errorf("unknown schema variant %q", raw)
	}
}

// SchemaFor 返回指定变体的字段描述。
func SchemaFor(v Variant) (Schema, error) {
	switch v {
	case VariantStandard:
		return standardSchema, nil
	case VariantExtended:
		return extendedSchema, nil
	default:
		return Schema{}, fmt.Errorf("unknown schema variant %q", v)
	}
}

// Render 将记录转换为扁平 JSON 结构，只输出当前变体声明的字段。
func (s Schema) Render(d Dashboard) map[string]any {
	out := make(map[string]any, len(s.RecordFields)+3)
	out["id"] = d.ID
	for _, f := range s.RecordFields {
		out[string(f)] = d.Get(f)
	}
	out["created_at"] = formatTimestamp(d.CreatedAt)
	out["updated_at"] = formatTimestamp(d.UpdatedAt)
	return out
}

// Get 读取字段值，日期为空时返回 nil。
func (d Dashboard) Get(f Field) any {
	switch f {
	case FieldCategory:
		return d.Category
	case FieldClient:
		return d.Client
	case FieldDataFrom:
		return dateOrNil(d.DataFrom)
	case FieldDataTo:
		return dateOrNil(d.DataTo)
	case FieldCreatedBy:
		return d.CreatedBy
	case FieldLastUpdatedDate:
		return dateOrNil(d.LastUpdatedDate)
	case FieldUpdatedBy:
		return d.UpdatedBy
	case FieldPublishedAccount:
		return d.PublishedAccount
	case FieldTopic:
		return d.Topic
	case FieldDescription:
		return d.Description
	case FieldLink:
		return d.Link
	default:
		return nil
	}
}

// Set 写入字段值，未知字段忽略。
func (d *Dashboard) Set(f Field, value string) {
	switch f {
	case FieldCategory:
		d.Category = value
	case FieldClient:
		d.Client = value
	case FieldDataFrom:
		d.DataFrom = Date(value)
	case FieldDataTo:
		d.DataTo = Date(value)
	case FieldCreatedBy:
		d.CreatedBy = value
	case FieldLastUpdatedDate:
		d.LastUpdatedDate = Date(value)
	case FieldUpdatedBy:
		d.UpdatedBy = value
	case FieldPublishedAccount:
		d.PublishedAccount = value
	case FieldTopic:
		d.Topic = value
	case FieldDescription:
		d.Description = value
	case FieldLink:
		d.Link = value
	}
}

func dateOrNil(d Date) any {
	if d == "" {
		return nil
	}
	return d.String()
}

func formatTimestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
