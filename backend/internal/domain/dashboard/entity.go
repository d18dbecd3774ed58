/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 10:12:40
 * @FilePath: \dashboard-catalog\backend\internal\domain\dashboard\entity.go
 * @LastEditTime: 2026-10-14 10:12:40
 */
package dashboard

import "time"

// Dashboard 对应 dashboards 表中的一条看板链接记录。
// 表结构取所有 schema 变体的并集，extended 专属列允许为空，standard 部署写入时保持默认值。
type Dashboard struct {
	ID               uint      `gorm:"primaryKey" json:"id"`                                       // 主键 ID
	Category         string    `gorm:"size:120;not null" json:"category"`                          // 分类，精确过滤
	Client           string    `gorm:"size:120;not null" json:"client"`                            // 客户，精确过滤
	DataFrom         Date      `json:"data_from"`                                                  // 数据起始日期（extended）
	DataTo           Date      `json:"data_to"`                                                    // 数据截止日期（extended）
	CreatedBy        string    `gorm:"size:120;not null" json:"created_by"`                        // 创建人
	LastUpdatedDate  Date      `gorm:"not null" json:"last_updated_date"`                          // 业务上的“截至”日期
	UpdatedBy        string    `gorm:"size:120;not null" json:"updated_by"`                        // 最近编辑人
	PublishedAccount string    `gorm:"size:255;not null;default:''" json:"published_account"`      // 发布账号（extended）
	Topic            string    `gorm:"size:200;not null" json:"topic"`                             // 主题，支持模糊搜索
	Description      string    `gorm:"type:text;not null" json:"description"`                      // 描述
	Link             string    `gorm:"size:1000;not null" json:"link"`                             // 外部看板地址
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`                                 // 创建时间，仅写入一次
	UpdatedAt        time.Time `gorm:"not null;index:idx_dashboards_updated_at" json:"updated_at"` // 更新时间，每次更新刷新
}

// TableName 指定数据库表名。
func (Dashboard) TableName() string {
	return "dashboards"
}
