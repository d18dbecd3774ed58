/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 11:59:31
 * @FilePath: \dashboard-catalog\backend\internal\domain\dashboard\filter.go
 * @LastEditTime: 2026-10-15 13:02:42
 */
package dashboard

import "strings"

// Filter 描述列表查询的可选条件，空字符串表示不限制。
type Filter struct {
	Category  string
	Client    string
	CreatedBy string
	Search    string // 对 topic 做大小写不敏感的子串匹配
}

// NewFilter 对查询参数做首尾空白裁剪。
func NewFilter(category, client, createdBy, search string) Filter {
	return Filter{
		Category:  strings.TrimSpace(category),
		Client:    strings.TrimSpace(client),
		CreatedBy: strings.TrimSpace(createdBy),
		Search:    strings.TrimSpace(search),
	}
}

// IsEmpty 判断是否没有任何生效的过滤条件。
func (f Filter) IsEmpty() bool {
	return f.Category == "" && f.Client == "" && f.CreatedBy == "" && f.Search == ""
}
