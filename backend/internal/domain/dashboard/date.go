/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 10:20:05
 * @FilePath: \dashboard-catalog\backend\internal\domain\dashboard\date.go
 * @LastEditTime: 2026-10-15 10:12:31
 */
package dashboard

import (
	"database/sql/driver"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Date 以字符串形式保存日期字段，写入时原样透传，不做格式校验。
// 读取时兼容驱动返回 time.Time（MySQL parseTime）的情况，统一输出 YYYY-MM-DD。
type Date string

// String 返回原始日期文本。
func (d Date) String() string {
	return string(d)
}

// GormDataType 声明通用类型。
func (Date) GormDataType() string {
	return "date"
}

// GormDBDataType 按方言选择列类型：SQLite 的 date 列会把非 ISO 文本读成零值时间，因此用 text 原样保存。
func (Date) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db != nil && db.Dialector != nil && db.Dialector.Name() == "sqlite" {
		return "text"
	}
	return "date"
}

// Value 实现 driver.Valuer，空值写入 NULL。
func (d Date) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

// Scan 实现 sql.Scanner。
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case time.Time:
		if v.IsZero() {
			*d = ""
			return nil
		}
		*d = Date(v.Format(time.DateOnly))
	case []byte:
		*d = Date(v)
	case string:
		*d = Date(v)
	default:
		return fmt.Errorf("unsupported date value %T", src)
	}
	return nil
}
