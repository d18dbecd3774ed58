/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 12:04:51
 * @FilePath: \dashboard-catalog\backend\internal\repository\dashboard_repository.go
 * @LastEditTime: 2026-10-15 11:35:52
 */
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dashboard-catalog/backend/internal/domain/dashboard"
	"dashboard-catalog/backend/internal/infra/client"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrConstraintViolation 表示写入触发了唯一键或非空等约束。
var ErrConstraintViolation = errors.New("constraint violation")

// likeEscape 作为 LIKE 的转义字符，MySQL 与 SQLite 都能直接使用。
const likeEscape = "!"

// DashboardRepository 提供 dashboards 表的读写封装。
type DashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 构造仓储实例。
func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// AutoMigrate 在表不存在时建表，已有表只补齐缺失列。
func (r *DashboardRepository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&dashboard.Dashboard{})
}

// Create 新增记录，失败时 gorm 默认事务会回滚。
func (r *DashboardRepository) Create(ctx context.Context, record *dashboard.Dashboard) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return classifyWriteError(err)
	}
	return nil
}

// Update 在同一事务内确认记录存在并覆盖补丁中的列，updated_at 由 gorm 自动刷新。
// 记录不存在时返回 gorm.ErrRecordNotFound。
func (r *DashboardRepository) Update(ctx context.Context, id uint, patch dashboard.Patch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current dashboard.Dashboard
		if err := tx.Select("id").First(&current, id).Error; err != nil {
			return err
		}

		if err := tx.Model(&current).Updates(patch.Columns()).Error; err != nil {
			return classifyWriteError(err)
		}
		return nil
	})
}

// List 组合过滤条件（AND 关系）并按 updated_at、id 倒序返回全部匹配记录。
func (r *DashboardRepository) List(ctx context.Context, filter dashboard.Filter) ([]dashboard.Dashboard, error) {
	var records []dashboard.Dashboard

	query := r.db.WithContext(ctx).
		Model(&dashboard.Dashboard{}).
		Scopes(ApplyFilter(filter)).
		Order("updated_at DESC, id DESC")

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Distinct 返回某列所有非空的去重取值，按升序排列。
func (r *DashboardRepository) Distinct(ctx context.Context, column dashboard.Field) ([]string, error) {
	col := clause.Column{Name: string(column)}
	values := make([]string, 0)

	err := r.db.WithContext(ctx).
		Model(&dashboard.Dashboard{}).
		Distinct(string(column)).
		Where(clause.Neq{Column: col, Value: ""}).
		Order(clause.OrderByColumn{Column: col}).
		Pluck(string(column), &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// ApplyFilter 把 Filter 转换为 gorm scope，空条件不参与拼接。
func ApplyFilter(filter dashboard.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Category != "" {
			db = db.Where("category = ?", filter.Category)
		}
		if filter.Client != "" {
			db = db.Where("client = ?", filter.Client)
		}
		if filter.CreatedBy != "" {
			db = db.Where("created_by = ?", filter.CreatedBy)
		}
		if filter.Search != "" {
			pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
			db = db.Where(lowerColumn(db, "topic")+" LIKE ? ESCAPE '"+likeEscape+"'", pattern)
		}
		return db
	}
}

// lowerColumn 返回大小写折叠表达式，SQLite 使用连接上注册的 Unicode 版本。
func lowerColumn(db *gorm.DB, column string) string {
	if db.Dialector != nil && db.Dialector.Name() == client.DriverSQLite {
		return client.SQLiteUnicodeLower + "(" + column + ")"
	}
	return "LOWER(" + column + ")"
}

// escapeLike 转义 LIKE 通配符，使搜索词按字面子串匹配。
func escapeLike(s string) string {
	replacer := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)
	return replacer.Replace(s)
}

// classifyWriteError 把驱动层的约束冲突统一为 ErrConstraintViolation，其余错误原样包装。
func classifyWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1048, 1062, 1452, 3819: // column null / duplicate key / foreign key / check
			return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), "constraint failed") {
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}
	return err
}
