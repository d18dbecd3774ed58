/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 11:40:19
 * @FilePath: \dashboard-catalog\backend\internal\service\dashboard\service.go
 * @LastEditTime: 2026-10-14 15:12:44
 */
package dashboard

import (
	"context"
	"errors"
	"fmt"

	domain "dashboard-catalog/backend/internal/domain/dashboard"

	"gorm.io/gorm"
)

// Store 是服务依赖的数据访问接口，每次调用独立获取并释放连接。
type Store interface {
	Create(ctx context.Context, record *domain.Dashboard) error
	Update(ctx context.Context, id uint, patch domain.Patch) error
	List(ctx context.Context, filter domain.Filter) ([]domain.Dashboard, error)
	Distinct(ctx context.Context, column domain.Field) ([]string, error)
}

// Item 是列表接口返回的扁平记录。
type Item = map[string]any

// Service 封装看板记录的校验、过滤与写入逻辑，字段集合由 Schema 决定。
type Service struct {
	store  Store
	schema domain.Schema
}

// NewService 构造看板服务。
func NewService(store Store, schema domain.Schema) *Service {
	return &Service{store: store, schema: schema}
}

// Schema 返回当前生效的字段描述。
func (s *Service) Schema() domain.Schema {
	return s.schema
}

// List 按过滤条件返回全部匹配记录，按 updated_at、id 倒序。
func (s *Service) List(ctx context.Context, filter domain.Filter) ([]Item, error) {
	rows, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, s.schema.Render(row))
	}
	return items, nil
}

// Options 返回各下拉列的去重取值，key 为响应字段名。
func (s *Service) Options(ctx context.Context) (map[string][]string, error) {
	result := make(map[string][]string, len(s.schema.OptionColumns))
	for _, col := range s.schema.OptionColumns {
		values, err := s.store.Distinct(ctx, col.Column)
		if err != nil {
			return nil, fmt.Errorf("distinct %s: %w", col.Column, err)
		}
		if values == nil {
			values = []string{}
		}
		result[col.Key] = values
	}
	return result, nil
}

// Create 校验并写入新记录，返回存储分配的 ID。
func (s *Service) Create(ctx context.Context, payload Payload) (uint, error) {
	record, err := ValidateCreate(s.schema, payload)
	if err != nil {
		return 0, err
	}
	if err := s.store.Create(ctx, record); err != nil {
		return 0, fmt.Errorf("%w: create dashboard: %w", ErrStorage, err)
	}
	return record.ID, nil
}

// Update 覆盖指定记录的可变字段；category/client/topic/link/created_by 永远不会被修改。
// 同一记录的并发更新以最后提交者为准。
func (s *Service) Update(ctx context.Context, id uint, payload Payload) error {
	patch, err := ValidateUpdate(s.schema, payload)
	if err != nil {
		return err
	}
	if err := s.store.Update(ctx, id, patch); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: update dashboard %d: %w", ErrStorage, id, err)
	}
	return nil
}
