/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-15 11:20:44
 * @FilePath: \dashboard-catalog\backend\internal\domain\dashboard\patch.go
 * @LastEditTime: 2026-10-15 11:20:44
 */
package dashboard

// Patch 描述一次部分更新：只有 Fields 中列出的列会被覆盖，取值来自 Values。
type Patch struct {
	Fields []Field
	Values Dashboard
}

// Columns 返回列名到取值的映射，空日期写入 NULL。
func (p Patch) Columns() map[string]any {
	columns := make(map[string]any, len(p.Fields))
	for _, f := range p.Fields {
		columns[string(f)] = p.Values.Get(f)
	}
	return columns
}

